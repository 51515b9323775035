package token

import (
	"math/big"
	"sync"

	"stablesave/core/types"
)

// Token is an in-memory fungible-balance ledger. Balances and allowances are
// tracked per holder; all amounts are non-negative big integers in the
// token's smallest unit. Every method is safe for concurrent use.
type Token struct {
	name     string
	symbol   string
	decimals uint8

	mu          sync.RWMutex
	balances    map[types.Address]*big.Int
	allowances  map[types.Address]map[types.Address]*big.Int
	totalSupply *big.Int
}

// New creates an empty token ledger.
func New(name, symbol string, decimals uint8) *Token {
	return &Token{
		name:        name,
		symbol:      symbol,
		decimals:    decimals,
		balances:    make(map[types.Address]*big.Int),
		allowances:  make(map[types.Address]map[types.Address]*big.Int),
		totalSupply: big.NewInt(0),
	}
}

func (t *Token) Name() string    { return t.name }
func (t *Token) Symbol() string  { return t.symbol }
func (t *Token) Decimals() uint8 { return t.decimals }

// TotalSupply returns the sum of all minted balances.
func (t *Token) TotalSupply() *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return new(big.Int).Set(t.totalSupply)
}

// Mint credits freshly created units to the holder.
func (t *Token) Mint(to types.Address, amount *big.Int) error {
	if to.IsZero() {
		return ErrZeroAddress
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.credit(to, amount)
	t.totalSupply = new(big.Int).Add(t.totalSupply, amount)
	return nil
}

// BalanceOf returns the holder's current balance.
func (t *Token) BalanceOf(holder types.Address) *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if bal, ok := t.balances[holder]; ok {
		return new(big.Int).Set(bal)
	}
	return big.NewInt(0)
}

// Approve authorises the spender to move up to amount of the owner's
// balance. A later call overwrites the prior allowance.
func (t *Token) Approve(owner, spender types.Address, amount *big.Int) error {
	if owner.IsZero() || spender.IsZero() {
		return ErrZeroAddress
	}
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	byOwner, ok := t.allowances[owner]
	if !ok {
		byOwner = make(map[types.Address]*big.Int)
		t.allowances[owner] = byOwner
	}
	byOwner[spender] = new(big.Int).Set(amount)
	return nil
}

// Allowance returns how much the spender may still move from the owner.
func (t *Token) Allowance(owner, spender types.Address) *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if byOwner, ok := t.allowances[owner]; ok {
		if amt, ok := byOwner[spender]; ok {
			return new(big.Int).Set(amt)
		}
	}
	return big.NewInt(0)
}

// Transfer moves amount from one holder to another without consuming an
// allowance. It is the owner-initiated path.
func (t *Token) Transfer(from, to types.Address, amount *big.Int) error {
	if from.IsZero() || to.IsZero() {
		return ErrZeroAddress
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.move(from, to, amount)
}

// TransferFrom moves amount from the owner to the recipient on behalf of the
// spender, consuming the spender's allowance.
func (t *Token) TransferFrom(spender, owner, to types.Address, amount *big.Int) error {
	if spender.IsZero() || owner.IsZero() || to.IsZero() {
		return ErrZeroAddress
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	byOwner := t.allowances[owner]
	allowed, ok := byOwner[spender]
	if !ok || allowed.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}
	if err := t.move(owner, to, amount); err != nil {
		return err
	}
	byOwner[spender] = new(big.Int).Sub(allowed, amount)
	return nil
}

// move assumes the write lock is held and the amount is positive.
func (t *Token) move(from, to types.Address, amount *big.Int) error {
	fromBal, ok := t.balances[from]
	if !ok || fromBal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	t.balances[from] = new(big.Int).Sub(fromBal, amount)
	t.credit(to, amount)
	return nil
}

func (t *Token) credit(to types.Address, amount *big.Int) {
	if bal, ok := t.balances[to]; ok {
		t.balances[to] = new(big.Int).Add(bal, amount)
		return
	}
	t.balances[to] = new(big.Int).Set(amount)
}
