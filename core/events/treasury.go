package events

import (
	"math/big"

	"stablesave/core/types"
)

const (
	TypeTreasuryPayout  = "treasury.payout"
	TypeTreasuryRescued = "treasury.rescued"
)

// TreasuryPayout records a budgeted disbursement to a recipient, along with
// the lifetime total after the payout applied.
type TreasuryPayout struct {
	Caller       types.Address
	To           types.Address
	Amount       *big.Int
	TotalPaidOut *big.Int
}

func (TreasuryPayout) EventType() string { return TypeTreasuryPayout }

func (e TreasuryPayout) Event() *types.Event {
	return &types.Event{
		Type: TypeTreasuryPayout,
		Attributes: map[string]string{
			"caller":       e.Caller.Hex(),
			"to":           e.To.Hex(),
			"amount":       formatAmount(e.Amount),
			"totalPaidOut": formatAmount(e.TotalPaidOut),
		},
	}
}

// TreasuryRescued records an admin emergency withdrawal, which bypasses the
// lifetime budget but not the held balance.
type TreasuryRescued struct {
	Admin  types.Address
	To     types.Address
	Amount *big.Int
}

func (TreasuryRescued) EventType() string { return TypeTreasuryRescued }

func (e TreasuryRescued) Event() *types.Event {
	return &types.Event{
		Type: TypeTreasuryRescued,
		Attributes: map[string]string{
			"admin":  e.Admin.Hex(),
			"to":     e.To.Hex(),
			"amount": formatAmount(e.Amount),
		},
	}
}
