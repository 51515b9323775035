package savings

import (
	"math/big"
	"sync"

	"stablesave/core/types"
)

// bpsDenominator is the scaling factor for basis point math.
const bpsDenominator = 10_000

// rateDenominator scales the per-second reward rate: points accrue as
// balance * rate * elapsedSeconds / rateDenominator, truncating toward zero.
const rateDenominator = 1_000_000

// Config carries the admin-mutable vault parameters. PerTxRedeemCap of zero
// means redemptions are uncapped per call.
type Config struct {
	Asset               string
	FeeCollector        types.Address
	RewardRatePerSecond uint64
	PenaltyBps          uint32
	CashbackBps         uint32
	PerTxRedeemCap      *big.Int
}

// Clone returns a deep copy of the config.
func (c Config) Clone() Config {
	clone := c
	if c.PerTxRedeemCap != nil {
		clone.PerTxRedeemCap = new(big.Int).Set(c.PerTxRedeemCap)
	} else {
		clone.PerTxRedeemCap = big.NewInt(0)
	}
	return clone
}

// account is the per-holder ledger entry. Points carry the same fixed-point
// scale as the balance. lastAccrual is the timestamp pending time-based
// points were last settled at.
type account struct {
	mu          sync.Mutex
	balance     *big.Int
	points      *big.Int
	lockedUntil int64
	lastAccrual int64
}

// AccountInfo is the read-model snapshot returned by AccountInfo.
type AccountInfo struct {
	Balance  *big.Int
	Points   *big.Int
	IsLocked bool
}
