package events

import (
	"encoding/hex"
	"math/big"

	"stablesave/core/types"
)

const (
	TypeFundingPoolCreated = "funding.pool_created"
	TypeFundingContributed = "funding.contributed"
	TypeFundingReleased    = "funding.released"
	TypeFundingRefunded    = "funding.refunded"
)

// FundingPoolCreated records a registry-created pool and its campaign terms.
type FundingPoolCreated struct {
	Pool        [32]byte
	Creator     types.Address
	Beneficiary types.Address
	Purpose     string
	Target      *big.Int
	Deadline    int64
}

func (FundingPoolCreated) EventType() string { return TypeFundingPoolCreated }

func (e FundingPoolCreated) Event() *types.Event {
	return &types.Event{
		Type: TypeFundingPoolCreated,
		Attributes: map[string]string{
			"pool":        hex.EncodeToString(e.Pool[:]),
			"creator":     e.Creator.Hex(),
			"beneficiary": e.Beneficiary.Hex(),
			"purpose":     e.Purpose,
			"target":      formatAmount(e.Target),
			"deadline":    intToString(e.Deadline),
		},
	}
}

// FundingContributed records a contribution and the pool total after it
// applied.
type FundingContributed struct {
	Pool        [32]byte
	Contributor types.Address
	Amount      *big.Int
	Total       *big.Int
}

func (FundingContributed) EventType() string { return TypeFundingContributed }

func (e FundingContributed) Event() *types.Event {
	return &types.Event{
		Type: TypeFundingContributed,
		Attributes: map[string]string{
			"pool":        hex.EncodeToString(e.Pool[:]),
			"contributor": e.Contributor.Hex(),
			"amount":      formatAmount(e.Amount),
			"total":       formatAmount(e.Total),
		},
	}
}

// FundingReleased records the single full-total release to the beneficiary.
type FundingReleased struct {
	Pool        [32]byte
	Beneficiary types.Address
	Amount      *big.Int
}

func (FundingReleased) EventType() string { return TypeFundingReleased }

func (e FundingReleased) Event() *types.Event {
	return &types.Event{
		Type: TypeFundingReleased,
		Attributes: map[string]string{
			"pool":        hex.EncodeToString(e.Pool[:]),
			"beneficiary": e.Beneficiary.Hex(),
			"amount":      formatAmount(e.Amount),
		},
	}
}

// FundingRefunded records a per-contributor refund after a failed campaign.
type FundingRefunded struct {
	Pool        [32]byte
	Contributor types.Address
	Amount      *big.Int
}

func (FundingRefunded) EventType() string { return TypeFundingRefunded }

func (e FundingRefunded) Event() *types.Event {
	return &types.Event{
		Type: TypeFundingRefunded,
		Attributes: map[string]string{
			"pool":        hex.EncodeToString(e.Pool[:]),
			"contributor": e.Contributor.Hex(),
			"amount":      formatAmount(e.Amount),
		},
	}
}
