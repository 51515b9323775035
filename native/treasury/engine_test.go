package treasury

import (
	"bytes"
	"errors"
	"math/big"
	"sync"
	"testing"

	"stablesave/core/types"
	"stablesave/native/token"
)

func newTestAddress(fill byte) types.Address {
	var addr types.Address
	copy(addr[:], bytes.Repeat([]byte{fill}, len(addr)))
	return addr
}

type fixture struct {
	tok     *token.Token
	engine  *Engine
	admin   types.Address
	caller  types.Address
	custody types.Address
}

func newFixture(t *testing.T, reserve, globalCap int64) *fixture {
	t.Helper()
	tok := token.New("USD Coin", "USDC", 6)
	admin := newTestAddress(0x01)
	caller := newTestAddress(0x02)
	custody := newTestAddress(0xAA)
	if reserve > 0 {
		if err := tok.Mint(custody, big.NewInt(reserve)); err != nil {
			t.Fatalf("mint reserve: %v", err)
		}
	}
	engine := NewEngine(token.Custody(tok, custody), tok.Symbol(), custody, admin, big.NewInt(globalCap))
	if err := engine.SetRewardCaller(admin, caller, true); err != nil {
		t.Fatalf("set reward caller: %v", err)
	}
	return &fixture{tok: tok, engine: engine, admin: admin, caller: caller, custody: custody}
}

func TestPayoutRequiresRewardCaller(t *testing.T) {
	fx := newFixture(t, 1_000, 10_000)
	stranger := newTestAddress(0x33)
	to := newTestAddress(0x44)

	if err := fx.engine.Payout(stranger, to, big.NewInt(10)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("stranger payout err = %v, want ErrUnauthorized", err)
	}
	if err := fx.engine.Payout(fx.caller, to, big.NewInt(10)); err != nil {
		t.Fatalf("payout: %v", err)
	}
	if got := fx.tok.BalanceOf(to); got.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("recipient balance = %s, want 10", got)
	}

	// Revoking the role gates further payouts.
	if err := fx.engine.SetRewardCaller(fx.admin, fx.caller, false); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := fx.engine.Payout(fx.caller, to, big.NewInt(10)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("revoked payout err = %v, want ErrUnauthorized", err)
	}
}

func TestPayoutEnforcesGlobalCap(t *testing.T) {
	fx := newFixture(t, 1_000_000, 100)
	to := newTestAddress(0x44)

	if err := fx.engine.Payout(fx.caller, to, big.NewInt(60)); err != nil {
		t.Fatalf("first payout: %v", err)
	}
	// Budget is lifetime: 60 paid, 41 would overshoot even though the
	// reserve easily covers it.
	if err := fx.engine.Payout(fx.caller, to, big.NewInt(41)); !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("overshoot err = %v, want ErrBudgetExceeded", err)
	}
	// The rejected call must not move the counter.
	if got := fx.engine.RemainingBudget(); got.Cmp(big.NewInt(40)) != 0 {
		t.Fatalf("remaining budget = %s, want 40", got)
	}
	if err := fx.engine.Payout(fx.caller, to, big.NewInt(40)); err != nil {
		t.Fatalf("exact-fit payout: %v", err)
	}
	if got := fx.engine.RemainingBudget(); got.Sign() != 0 {
		t.Fatalf("remaining budget = %s, want 0", got)
	}
}

func TestConcurrentPayoutsNeverOvershootCap(t *testing.T) {
	const workers = 40
	const cap = workers / 2
	fx := newFixture(t, workers, cap)
	to := newTestAddress(0x44)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = fx.engine.Payout(fx.caller, to, big.NewInt(1))
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrBudgetExceeded):
		default:
			t.Fatalf("unexpected payout err: %v", err)
		}
	}
	// The budget check and counter increment share one critical section, so
	// exactly cap payouts land and the rest are rejected.
	if successes != cap {
		t.Fatalf("successful payouts = %d, want %d", successes, cap)
	}
	info := fx.engine.TreasuryInfo()
	if info.TotalPaidOut.Cmp(info.GlobalCap) > 0 {
		t.Fatalf("totalPaidOut %s exceeds cap %s", info.TotalPaidOut, info.GlobalCap)
	}
	if got := fx.tok.BalanceOf(to); got.Cmp(big.NewInt(cap)) != 0 {
		t.Fatalf("recipient balance = %s, want %d", got, cap)
	}
}

func TestPayoutEnforcesReserve(t *testing.T) {
	fx := newFixture(t, 50, 10_000)
	to := newTestAddress(0x44)

	if err := fx.engine.Payout(fx.caller, to, big.NewInt(51)); !errors.Is(err, ErrInsufficientReserve) {
		t.Fatalf("reserve err = %v, want ErrInsufficientReserve", err)
	}
	info := fx.engine.TreasuryInfo()
	if info.TotalPaidOut.Sign() != 0 {
		t.Fatalf("totalPaidOut = %s, want 0 after rejected payout", info.TotalPaidOut)
	}
}

func TestPayoutValidation(t *testing.T) {
	fx := newFixture(t, 1_000, 10_000)
	to := newTestAddress(0x44)

	if err := fx.engine.Payout(fx.caller, to, big.NewInt(0)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero payout err = %v, want ErrInvalidAmount", err)
	}
	if err := fx.engine.Payout(fx.caller, to, nil); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("nil payout err = %v, want ErrInvalidAmount", err)
	}
}

func TestSetGlobalCapBelowPaidOut(t *testing.T) {
	fx := newFixture(t, 1_000, 10_000)
	to := newTestAddress(0x44)
	if err := fx.engine.Payout(fx.caller, to, big.NewInt(100)); err != nil {
		t.Fatalf("payout: %v", err)
	}
	if err := fx.engine.SetGlobalCap(fx.caller, big.NewInt(50)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("non-admin setGlobalCap err = %v, want ErrUnauthorized", err)
	}
	if err := fx.engine.SetGlobalCap(fx.admin, big.NewInt(50)); err != nil {
		t.Fatalf("setGlobalCap: %v", err)
	}
	if got := fx.engine.RemainingBudget(); got.Sign() != 0 {
		t.Fatalf("remaining budget = %s, want 0 when cap < paid", got)
	}
	if err := fx.engine.Payout(fx.caller, to, big.NewInt(1)); !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("payout past lowered cap err = %v, want ErrBudgetExceeded", err)
	}
}

func TestRescueBypassesBudget(t *testing.T) {
	fx := newFixture(t, 500, 1)
	to := newTestAddress(0x44)

	if err := fx.engine.Rescue(fx.caller, to, big.NewInt(100)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("non-admin rescue err = %v, want ErrUnauthorized", err)
	}
	if err := fx.engine.Rescue(fx.admin, to, big.NewInt(100)); err != nil {
		t.Fatalf("rescue: %v", err)
	}
	if got := fx.tok.BalanceOf(to); got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("rescued balance = %s, want 100", got)
	}
	if err := fx.engine.Rescue(fx.admin, to, big.NewInt(401)); !errors.Is(err, ErrInsufficientReserve) {
		t.Fatalf("rescue over reserve err = %v, want ErrInsufficientReserve", err)
	}
	// Rescue does not consume the lifetime budget.
	info := fx.engine.TreasuryInfo()
	if info.TotalPaidOut.Sign() != 0 {
		t.Fatalf("totalPaidOut after rescue = %s, want 0", info.TotalPaidOut)
	}
}

func TestTreasuryInfo(t *testing.T) {
	fx := newFixture(t, 5_000, 10_000)
	info := fx.engine.TreasuryInfo()
	if info.Asset != "USDC" {
		t.Fatalf("asset = %q, want USDC", info.Asset)
	}
	if info.CurrentBalance.Cmp(big.NewInt(5_000)) != 0 {
		t.Fatalf("current balance = %s, want 5000", info.CurrentBalance)
	}
	if info.GlobalCap.Cmp(big.NewInt(10_000)) != 0 {
		t.Fatalf("global cap = %s, want 10000", info.GlobalCap)
	}
}
