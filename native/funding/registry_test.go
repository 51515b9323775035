package funding

import (
	"errors"
	"math/big"
	"testing"

	"stablesave/core/types"
	"stablesave/native/token"
)

func TestCreatePoolInitializesState(t *testing.T) {
	tok := token.New("USD Coin", "USDC", 6)
	registry := NewRegistry(tok)
	now := int64(1_700_000_000)
	registry.SetNowFunc(func() int64 { return now })
	creator := newTestAddress(0x01)
	beneficiary := newTestAddress(0x02)
	deadline := now + 7*24*3_600

	pool, err := registry.CreatePool(creator, "Holiday fund", beneficiary, usdc(1_000), deadline)
	if err != nil {
		t.Fatalf("createPool: %v", err)
	}
	info := pool.PoolInfo()
	if info.Creator != creator || info.Beneficiary != beneficiary || info.Purpose != "Holiday fund" {
		t.Fatalf("pool info wrong: %+v", info)
	}
	if info.Target.Cmp(usdc(1_000)) != 0 {
		t.Fatalf("target = %s, want 1000 USDC", info.Target)
	}
	if got, ok := registry.Pool(pool.Handle()); !ok || got != pool {
		t.Fatal("pool not registered under its handle")
	}
}

func TestCreatePoolCounts(t *testing.T) {
	tok := token.New("USD Coin", "USDC", 6)
	registry := NewRegistry(tok)
	creator := newTestAddress(0x01)
	beneficiary := newTestAddress(0x02)

	if got := registry.FactoryInfo().TotalPools; got != 0 {
		t.Fatalf("initial totalPools = %d, want 0", got)
	}
	first, err := registry.CreatePool(creator, "Pool 1", beneficiary, usdc(1_000), 10)
	if err != nil {
		t.Fatalf("createPool: %v", err)
	}
	if got := registry.FactoryInfo().TotalPools; got != 1 {
		t.Fatalf("totalPools = %d, want 1", got)
	}
	second, err := registry.CreatePool(creator, "Pool 2", beneficiary, usdc(2_000), 20)
	if err != nil {
		t.Fatalf("createPool: %v", err)
	}
	if got := registry.FactoryInfo().TotalPools; got != 2 {
		t.Fatalf("totalPools = %d, want 2", got)
	}
	if first.Handle() == second.Handle() {
		t.Fatal("pool handles must be unique")
	}
	pools := registry.Pools()
	if len(pools) != 2 || pools[0] != first || pools[1] != second {
		t.Fatal("pool list must preserve creation order")
	}
}

func TestCreatePoolRejectsZeroTarget(t *testing.T) {
	tok := token.New("USD Coin", "USDC", 6)
	registry := NewRegistry(tok)
	_, err := registry.CreatePool(newTestAddress(0x01), "p", newTestAddress(0x02), big.NewInt(0), 10)
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero target err = %v, want ErrInvalidAmount", err)
	}
	if got := registry.FactoryInfo().TotalPools; got != 0 {
		t.Fatalf("totalPools after failed create = %d, want 0", got)
	}
}

func TestPoolsEscrowIndependently(t *testing.T) {
	tok := token.New("USD Coin", "USDC", 6)
	registry := NewRegistry(tok)
	now := int64(1_700_000_000)
	registry.SetNowFunc(func() int64 { return now })
	creator := newTestAddress(0x01)
	beneficiary := newTestAddress(0x02)
	alice := newTestAddress(0x03)
	if err := tok.Mint(alice, usdc(1_000)); err != nil {
		t.Fatalf("mint: %v", err)
	}

	first, err := registry.CreatePool(creator, "Pool 1", beneficiary, usdc(100), now+100)
	if err != nil {
		t.Fatalf("createPool: %v", err)
	}
	second, err := registry.CreatePool(creator, "Pool 2", beneficiary, usdc(100), now+100)
	if err != nil {
		t.Fatalf("createPool: %v", err)
	}
	firstHandle := first.Handle()
	firstCustody := types.BytesToAddress(firstHandle[:])
	if err := tok.Approve(alice, firstCustody, usdc(1_000)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := first.Contribute(alice, usdc(200)); err != nil {
		t.Fatalf("contribute: %v", err)
	}
	// Approval for the first pool's custody does not leak to the second.
	if err := second.Contribute(alice, usdc(10)); !errors.Is(err, token.ErrInsufficientAllowance) {
		t.Fatalf("cross-pool contribute err = %v, want allowance failure", err)
	}

	now += 101
	if err := first.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if got := tok.BalanceOf(beneficiary); got.Cmp(usdc(200)) != 0 {
		t.Fatalf("beneficiary balance = %s, want 200 USDC", got)
	}
}
