package treasury

import (
	"math/big"
	"sync"

	"stablesave/core/events"
	"stablesave/core/types"
	"stablesave/native/common"
	"stablesave/native/token"
)

// Engine custodies the asset reserved for reward redemptions and enforces a
// lifetime payout budget. Disbursements are restricted to identities holding
// the reward-caller role; administration is restricted to the admin role.
//
// The budget check and the totalPaidOut increment form a single critical
// section so concurrent payouts can never jointly overshoot the cap.
type Engine struct {
	ledger  token.Ledger
	asset   string
	custody types.Address
	roles   *common.Roles
	emitter events.Emitter

	mu           sync.Mutex
	globalCap    *big.Int
	totalPaidOut *big.Int
}

// Info is the aggregate snapshot returned by TreasuryInfo.
type Info struct {
	Asset          string
	CurrentBalance *big.Int
	TotalPaidOut   *big.Int
	GlobalCap      *big.Int
}

// NewEngine creates a treasury over the supplied custodial ledger. The admin
// identity receives the admin role; reward callers are granted explicitly
// via SetRewardCaller.
func NewEngine(ledger token.Ledger, asset string, custody, admin types.Address, globalCap *big.Int) *Engine {
	roles := common.NewRoles()
	roles.Grant(common.RoleAdmin, admin)
	return &Engine{
		ledger:       ledger,
		asset:        asset,
		custody:      custody,
		roles:        roles,
		emitter:      events.NoopEmitter{},
		globalCap:    cloneOrZero(globalCap),
		totalPaidOut: big.NewInt(0),
	}
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

// CustodyAddress returns the identity holding the treasury's reserve.
func (e *Engine) CustodyAddress() types.Address { return e.custody }

// IsRewardCaller reports whether the identity may invoke Payout.
func (e *Engine) IsRewardCaller(who types.Address) bool {
	return e.roles.Has(common.RoleRewardCaller, who)
}

// SetRewardCaller grants or revokes the reward-caller role. Admin only.
func (e *Engine) SetRewardCaller(caller, who types.Address, enabled bool) error {
	if !e.roles.Has(common.RoleAdmin, caller) {
		return ErrUnauthorized
	}
	if enabled {
		e.roles.Grant(common.RoleRewardCaller, who)
	} else {
		e.roles.Revoke(common.RoleRewardCaller, who)
	}
	return nil
}

// SetGlobalCap replaces the lifetime payout ceiling. Admin only. The cap may
// be set below the amount already paid out; further payouts then fail until
// it is raised again.
func (e *Engine) SetGlobalCap(caller types.Address, cap *big.Int) error {
	if !e.roles.Has(common.RoleAdmin, caller) {
		return ErrUnauthorized
	}
	if cap == nil || cap.Sign() < 0 {
		return ErrInvalidAmount
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.globalCap = new(big.Int).Set(cap)
	return nil
}

// RemainingBudget returns how much lifetime budget is left, floored at zero.
func (e *Engine) RemainingBudget() *big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	remaining := new(big.Int).Sub(e.globalCap, e.totalPaidOut)
	if remaining.Sign() < 0 {
		return big.NewInt(0)
	}
	return remaining
}

// Payout transfers amount from the reserve to the recipient and records it
// against the lifetime budget. The call is atomic: on any failure neither
// the counter nor the reserve changes.
func (e *Engine) Payout(caller, to types.Address, amount *big.Int) error {
	if e.ledger == nil {
		return ErrNilLedger
	}
	if !e.roles.Has(common.RoleRewardCaller, caller) {
		return ErrUnauthorized
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	next := new(big.Int).Add(e.totalPaidOut, amount)
	if next.Cmp(e.globalCap) > 0 {
		return ErrBudgetExceeded
	}
	if e.ledger.BalanceOf(e.custody).Cmp(amount) < 0 {
		return ErrInsufficientReserve
	}
	if err := e.ledger.TransferOut(to, amount); err != nil {
		return err
	}
	e.totalPaidOut = next
	e.emitter.Emit(events.TreasuryPayout{
		Caller:       caller,
		To:           to,
		Amount:       new(big.Int).Set(amount),
		TotalPaidOut: new(big.Int).Set(next),
	})
	return nil
}

// Rescue is the admin emergency withdrawal. It bypasses the lifetime budget
// but is still limited by the currently held reserve.
func (e *Engine) Rescue(caller, to types.Address, amount *big.Int) error {
	if e.ledger == nil {
		return ErrNilLedger
	}
	if !e.roles.Has(common.RoleAdmin, caller) {
		return ErrUnauthorized
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ledger.BalanceOf(e.custody).Cmp(amount) < 0 {
		return ErrInsufficientReserve
	}
	if err := e.ledger.TransferOut(to, amount); err != nil {
		return err
	}
	e.emitter.Emit(events.TreasuryRescued{
		Admin:  caller,
		To:     to,
		Amount: new(big.Int).Set(amount),
	})
	return nil
}

// TreasuryInfo returns the asset label, held balance, lifetime paid total
// and the global cap.
func (e *Engine) TreasuryInfo() Info {
	e.mu.Lock()
	defer e.mu.Unlock()
	balance := big.NewInt(0)
	if e.ledger != nil {
		balance = e.ledger.BalanceOf(e.custody)
	}
	return Info{
		Asset:          e.asset,
		CurrentBalance: balance,
		TotalPaidOut:   new(big.Int).Set(e.totalPaidOut),
		GlobalCap:      new(big.Int).Set(e.globalCap),
	}
}

func cloneOrZero(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
