package events

import (
	"math/big"

	"stablesave/core/types"
)

const (
	TypeSavingsDeposited      = "savings.deposited"
	TypeSavingsWithdrawn      = "savings.withdrawn"
	TypeSavingsPointsRedeemed = "savings.points_redeemed"
)

// SavingsDeposited records a vault deposit, including any lock applied and
// the cashback points credited at deposit time.
type SavingsDeposited struct {
	Account     types.Address
	Amount      *big.Int
	LockSeconds uint64
	Cashback    *big.Int
}

func (SavingsDeposited) EventType() string { return TypeSavingsDeposited }

func (e SavingsDeposited) Event() *types.Event {
	return &types.Event{
		Type: TypeSavingsDeposited,
		Attributes: map[string]string{
			"account":     e.Account.Hex(),
			"amount":      formatAmount(e.Amount),
			"lockSeconds": uintToString(e.LockSeconds),
			"cashback":    formatAmount(e.Cashback),
		},
	}
}

// SavingsWithdrawn records a vault withdrawal and the early-withdrawal
// penalty, if any, routed to the fee collector.
type SavingsWithdrawn struct {
	Account types.Address
	Amount  *big.Int
	Penalty *big.Int
}

func (SavingsWithdrawn) EventType() string { return TypeSavingsWithdrawn }

func (e SavingsWithdrawn) Event() *types.Event {
	return &types.Event{
		Type: TypeSavingsWithdrawn,
		Attributes: map[string]string{
			"account": e.Account.Hex(),
			"amount":  formatAmount(e.Amount),
			"penalty": formatAmount(e.Penalty),
		},
	}
}

// SavingsPointsRedeemed records a redemption: the amount the holder asked
// for and the amount actually granted after per-tx and budget caps.
type SavingsPointsRedeemed struct {
	Account   types.Address
	Requested *big.Int
	Paid      *big.Int
}

func (SavingsPointsRedeemed) EventType() string { return TypeSavingsPointsRedeemed }

func (e SavingsPointsRedeemed) Event() *types.Event {
	return &types.Event{
		Type: TypeSavingsPointsRedeemed,
		Attributes: map[string]string{
			"account":   e.Account.Hex(),
			"requested": formatAmount(e.Requested),
			"paid":      formatAmount(e.Paid),
		},
	}
}
