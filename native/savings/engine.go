package savings

import (
	"math/big"
	"sync"
	"time"

	"stablesave/core/events"
	"stablesave/core/types"
	"stablesave/native/common"
	"stablesave/native/token"
)

const moduleName = "savings"

// RewardTreasury is the payout collaborator the vault redeems points
// against. The treasury enforces its own authorization and lifetime budget;
// the vault clamps requests by the remaining budget to enable partial
// redemption.
type RewardTreasury interface {
	Payout(caller, to types.Address, amount *big.Int) error
	RemainingBudget() *big.Int
}

// Engine is the per-account savings ledger. Accounts are created implicitly
// on first deposit and never deleted. Pending time-based points settle
// lazily at the start of every mutating call, so no background scheduler is
// involved.
//
// Operations on distinct accounts may run concurrently; operations on the
// same account serialize on the account's own lock.
type Engine struct {
	ledger   token.Ledger
	treasury RewardTreasury
	custody  types.Address
	roles    *common.Roles
	pauses   *common.Pauses
	emitter  events.Emitter
	nowFn    func() int64

	cfgMu sync.RWMutex
	cfg   Config

	mu       sync.RWMutex
	accounts map[types.Address]*account
}

// NewEngine creates a savings vault. The custody identity is both the
// holder of deposited funds on the asset ledger and the caller identity the
// vault presents to the treasury.
func NewEngine(ledger token.Ledger, treasury RewardTreasury, custody, admin types.Address, cfg Config) *Engine {
	roles := common.NewRoles()
	roles.Grant(common.RoleAdmin, admin)
	return &Engine{
		ledger:   ledger,
		treasury: treasury,
		custody:  custody,
		roles:    roles,
		pauses:   common.NewPauses(),
		emitter:  events.NoopEmitter{},
		nowFn:    func() int64 { return time.Now().Unix() },
		cfg:      cfg.Clone(),
		accounts: make(map[types.Address]*account),
	}
}

// SetNowFunc overrides the time source used by the engine. Primarily
// intended for tests to provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op
// implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// CustodyAddress returns the vault's custodial identity.
func (e *Engine) CustodyAddress() types.Address { return e.custody }

func (e *Engine) now() int64 { return e.nowFn() }

func (e *Engine) config() Config {
	e.cfgMu.RLock()
	defer e.cfgMu.RUnlock()
	return e.cfg.Clone()
}

// getAccount returns the holder's entry, creating it on first touch.
func (e *Engine) getAccount(holder types.Address) *account {
	e.mu.RLock()
	acct, ok := e.accounts[holder]
	e.mu.RUnlock()
	if ok {
		return acct
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if acct, ok = e.accounts[holder]; ok {
		return acct
	}
	acct = &account{
		balance:     big.NewInt(0),
		points:      big.NewInt(0),
		lastAccrual: e.now(),
	}
	e.accounts[holder] = acct
	return acct
}

// lookupAccount returns the holder's entry without creating one.
func (e *Engine) lookupAccount(holder types.Address) (*account, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	acct, ok := e.accounts[holder]
	return acct, ok
}

// accrued computes the time-based points earned between lastAccrual and now
// with the given balance, truncating toward zero.
func accrued(balance *big.Int, rate uint64, elapsed int64) *big.Int {
	if balance == nil || balance.Sign() <= 0 || rate == 0 || elapsed <= 0 {
		return big.NewInt(0)
	}
	add := new(big.Int).Mul(balance, new(big.Int).SetUint64(rate))
	add.Mul(add, big.NewInt(elapsed))
	return add.Quo(add, big.NewInt(rateDenominator))
}

// settleLocked folds pending time-based points into the stored balance.
// The caller must hold acct.mu.
func (e *Engine) settleLocked(acct *account, now int64, rate uint64) {
	add := accrued(acct.balance, rate, now-acct.lastAccrual)
	if add.Sign() > 0 {
		acct.points = new(big.Int).Add(acct.points, add)
	}
	acct.lastAccrual = now
}

// Deposit moves amount from the holder into vault custody, credits cashback
// points, and applies an optional lock. A positive lockSeconds overwrites
// any existing lock; zero leaves the current lock in place.
func (e *Engine) Deposit(holder types.Address, amount *big.Int, lockSeconds uint64) error {
	if e.ledger == nil {
		return ErrNilLedger
	}
	if err := common.Guard(e.pauses, moduleName); err != nil {
		return ErrPaused
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	cfg := e.config()
	acct := e.getAccount(holder)
	acct.mu.Lock()
	defer acct.mu.Unlock()
	if err := e.ledger.TransferIn(holder, amount); err != nil {
		return err
	}
	now := e.now()
	e.settleLocked(acct, now, cfg.RewardRatePerSecond)
	acct.balance = new(big.Int).Add(acct.balance, amount)
	cashback := new(big.Int).Mul(amount, new(big.Int).SetUint64(uint64(cfg.CashbackBps)))
	cashback.Quo(cashback, big.NewInt(bpsDenominator))
	if cashback.Sign() > 0 {
		acct.points = new(big.Int).Add(acct.points, cashback)
	}
	if lockSeconds > 0 {
		acct.lockedUntil = now + int64(lockSeconds)
	}
	e.emitter.Emit(events.SavingsDeposited{
		Account:     holder,
		Amount:      new(big.Int).Set(amount),
		LockSeconds: lockSeconds,
		Cashback:    cashback,
	})
	return nil
}

// Withdraw pays out amount from the holder's balance. While the account is
// locked an early-withdrawal penalty is deducted and routed to the fee
// collector; the balance is reduced by the full amount either way.
func (e *Engine) Withdraw(holder types.Address, amount *big.Int) error {
	if e.ledger == nil {
		return ErrNilLedger
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	cfg := e.config()
	acct, ok := e.lookupAccount(holder)
	if !ok {
		return ErrInvalidAmount
	}
	acct.mu.Lock()
	defer acct.mu.Unlock()
	if amount.Cmp(acct.balance) > 0 {
		return ErrInvalidAmount
	}
	now := e.now()
	e.settleLocked(acct, now, cfg.RewardRatePerSecond)
	penalty := big.NewInt(0)
	if now < acct.lockedUntil {
		penalty = new(big.Int).Mul(amount, new(big.Int).SetUint64(uint64(cfg.PenaltyBps)))
		penalty.Quo(penalty, big.NewInt(bpsDenominator))
	}
	// Penalty leaves custody before the holder is paid so a failed fee
	// transfer never strands funds with the holder while the balance is
	// still undeducted.
	payout := new(big.Int).Sub(amount, penalty)
	if penalty.Sign() > 0 {
		if err := e.ledger.TransferOut(cfg.FeeCollector, penalty); err != nil {
			return err
		}
	}
	if payout.Sign() > 0 {
		if err := e.ledger.TransferOut(holder, payout); err != nil {
			return err
		}
	}
	acct.balance = new(big.Int).Sub(acct.balance, amount)
	e.emitter.Emit(events.SavingsWithdrawn{
		Account: holder,
		Amount:  new(big.Int).Set(amount),
		Penalty: penalty,
	})
	return nil
}

// RedeemPoints converts up to requested points into asset units paid from
// the treasury. The granted amount is clamped by the per-tx cap and the
// treasury's remaining lifetime budget; only the granted amount is burned,
// so callers retry to drain the rest. Returns the amount actually paid.
func (e *Engine) RedeemPoints(holder types.Address, requested *big.Int) (*big.Int, error) {
	if e.treasury == nil {
		return nil, ErrNilTreasury
	}
	if requested == nil || requested.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	cfg := e.config()
	acct := e.getAccount(holder)
	acct.mu.Lock()
	defer acct.mu.Unlock()
	now := e.now()
	e.settleLocked(acct, now, cfg.RewardRatePerSecond)
	if requested.Cmp(acct.points) > 0 {
		return nil, ErrInsufficientPoints
	}
	payout := new(big.Int).Set(requested)
	if cfg.PerTxRedeemCap != nil && cfg.PerTxRedeemCap.Sign() > 0 && payout.Cmp(cfg.PerTxRedeemCap) > 0 {
		payout = new(big.Int).Set(cfg.PerTxRedeemCap)
	}
	// Clamp by the remaining lifetime budget so a partially consumable
	// request succeeds for the consumable part. A fully exhausted budget is
	// left unclamped so the treasury reports the rejection itself.
	if remaining := e.treasury.RemainingBudget(); remaining.Sign() > 0 && payout.Cmp(remaining) > 0 {
		payout = remaining
	}
	if err := e.treasury.Payout(e.custody, holder, payout); err != nil {
		return nil, err
	}
	acct.points = new(big.Int).Sub(acct.points, payout)
	e.emitter.Emit(events.SavingsPointsRedeemed{
		Account:   holder,
		Requested: new(big.Int).Set(requested),
		Paid:      new(big.Int).Set(payout),
	})
	return payout, nil
}

// PreviewPoints returns the holder's points including unsettled time-based
// accrual. It never mutates state.
func (e *Engine) PreviewPoints(holder types.Address) *big.Int {
	acct, ok := e.lookupAccount(holder)
	if !ok {
		return big.NewInt(0)
	}
	cfg := e.config()
	acct.mu.Lock()
	defer acct.mu.Unlock()
	pending := accrued(acct.balance, cfg.RewardRatePerSecond, e.now()-acct.lastAccrual)
	return new(big.Int).Add(acct.points, pending)
}

// AccountInfo returns the holder's stored balance and points along with the
// current lock status. Points exclude unsettled accrual; use PreviewPoints
// for the live value.
func (e *Engine) AccountInfo(holder types.Address) AccountInfo {
	acct, ok := e.lookupAccount(holder)
	if !ok {
		return AccountInfo{Balance: big.NewInt(0), Points: big.NewInt(0)}
	}
	acct.mu.Lock()
	defer acct.mu.Unlock()
	return AccountInfo{
		Balance:  new(big.Int).Set(acct.balance),
		Points:   new(big.Int).Set(acct.points),
		IsLocked: e.now() < acct.lockedUntil,
	}
}

// CalculateWithdrawPenalty returns the penalty a withdrawal of amount would
// incur right now; zero when the account is unlocked.
func (e *Engine) CalculateWithdrawPenalty(holder types.Address, amount *big.Int) *big.Int {
	if amount == nil || amount.Sign() <= 0 {
		return big.NewInt(0)
	}
	acct, ok := e.lookupAccount(holder)
	if !ok {
		return big.NewInt(0)
	}
	cfg := e.config()
	acct.mu.Lock()
	defer acct.mu.Unlock()
	if e.now() >= acct.lockedUntil {
		return big.NewInt(0)
	}
	penalty := new(big.Int).Mul(amount, new(big.Int).SetUint64(uint64(cfg.PenaltyBps)))
	return penalty.Quo(penalty, big.NewInt(bpsDenominator))
}

// TimeUntilUnlock returns the seconds until the holder's lock expires, zero
// when unlocked.
func (e *Engine) TimeUntilUnlock(holder types.Address) int64 {
	acct, ok := e.lookupAccount(holder)
	if !ok {
		return 0
	}
	acct.mu.Lock()
	defer acct.mu.Unlock()
	remaining := acct.lockedUntil - e.now()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// VaultConfig returns a copy of the current parameters.
func (e *Engine) VaultConfig() Config {
	return e.config()
}

// SetParams updates the reward rate, penalty and fee collector. Admin only.
func (e *Engine) SetParams(caller types.Address, rewardRatePerSecond uint64, penaltyBps uint32, feeCollector types.Address) error {
	if !e.roles.Has(common.RoleAdmin, caller) {
		return ErrUnauthorized
	}
	if penaltyBps > bpsDenominator {
		return ErrInvalidAmount
	}
	e.cfgMu.Lock()
	defer e.cfgMu.Unlock()
	e.cfg.RewardRatePerSecond = rewardRatePerSecond
	e.cfg.PenaltyBps = penaltyBps
	e.cfg.FeeCollector = feeCollector
	return nil
}

// SetDepositCashbackBps updates the deposit cashback rate. Admin only.
func (e *Engine) SetDepositCashbackBps(caller types.Address, bps uint32) error {
	if !e.roles.Has(common.RoleAdmin, caller) {
		return ErrUnauthorized
	}
	if bps > bpsDenominator {
		return ErrInvalidAmount
	}
	e.cfgMu.Lock()
	defer e.cfgMu.Unlock()
	e.cfg.CashbackBps = bps
	return nil
}

// SetPerTxRedeemCap updates the per-call redemption ceiling; zero disables
// it. Admin only.
func (e *Engine) SetPerTxRedeemCap(caller types.Address, cap *big.Int) error {
	if !e.roles.Has(common.RoleAdmin, caller) {
		return ErrUnauthorized
	}
	if cap == nil || cap.Sign() < 0 {
		return ErrInvalidAmount
	}
	e.cfgMu.Lock()
	defer e.cfgMu.Unlock()
	e.cfg.PerTxRedeemCap = new(big.Int).Set(cap)
	return nil
}

// Pause gates deposits. Admin only.
func (e *Engine) Pause(caller types.Address) error {
	if !e.roles.Has(common.RoleAdmin, caller) {
		return ErrUnauthorized
	}
	e.pauses.SetPaused(moduleName, true)
	return nil
}

// Unpause lifts the deposit gate. Admin only.
func (e *Engine) Unpause(caller types.Address) error {
	if !e.roles.Has(common.RoleAdmin, caller) {
		return ErrUnauthorized
	}
	e.pauses.SetPaused(moduleName, false)
	return nil
}
