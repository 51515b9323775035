package token

import (
	"math/big"

	"stablesave/core/types"
)

// Ledger is the asset collaborator interface consumed by the savings vault,
// the reward treasury, and funding pools. It is the custodial view of a
// fungible token: TransferIn pulls funds from a holder into the custodian's
// balance, TransferOut pushes funds from the custodian to a recipient.
type Ledger interface {
	// TransferIn moves amount from the holder into custody. It fails when
	// the holder's balance is insufficient or the holder has not authorised
	// the custodian for at least amount.
	TransferIn(from types.Address, amount *big.Int) error
	// TransferOut moves amount from custody to the recipient. It fails when
	// the custodial balance is insufficient.
	TransferOut(to types.Address, amount *big.Int) error
	// BalanceOf reports the holder's current token balance.
	BalanceOf(holder types.Address) *big.Int
}

type custodyLedger struct {
	token     *Token
	custodian types.Address
}

// Custody binds a custodial identity to a token ledger, yielding the
// three-operation collaborator view. Inbound transfers consume the holder's
// allowance granted to the custodian.
func Custody(tok *Token, custodian types.Address) Ledger {
	return &custodyLedger{token: tok, custodian: custodian}
}

func (c *custodyLedger) TransferIn(from types.Address, amount *big.Int) error {
	return c.token.TransferFrom(c.custodian, from, c.custodian, amount)
}

func (c *custodyLedger) TransferOut(to types.Address, amount *big.Int) error {
	return c.token.Transfer(c.custodian, to, amount)
}

func (c *custodyLedger) BalanceOf(holder types.Address) *big.Int {
	return c.token.BalanceOf(holder)
}
