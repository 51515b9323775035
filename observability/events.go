package observability

import (
	"math/big"

	"stablesave/core/events"
)

// Collector is an events.Emitter that records module events into the
// prometheus registries. Attach it to any engine via SetEmitter.
type Collector struct{}

// NewCollector returns a metrics-recording emitter.
func NewCollector() Collector { return Collector{} }

// Emit implements events.Emitter.
func (Collector) Emit(evt events.Event) {
	switch e := evt.(type) {
	case events.SavingsDeposited:
		Savings().RecordDeposit()
	case events.SavingsWithdrawn:
		Savings().RecordWithdrawal(e.Penalty)
	case events.SavingsPointsRedeemed:
		Savings().RecordRedemption()
	case events.TreasuryPayout:
		Treasury().RecordPayout(e.TotalPaidOut)
	case events.TreasuryRescued:
		Treasury().RecordRescue()
	case events.FundingPoolCreated:
		Funding().RecordPoolCreated()
	case events.FundingContributed:
		Funding().RecordContribution()
	case events.FundingReleased:
		Funding().RecordRelease()
	case events.FundingRefunded:
		Funding().RecordRefund()
	}
}

// RecordDeposit increments the deposit counter.
func (m *SavingsMetrics) RecordDeposit() {
	if m == nil {
		return
	}
	m.deposits.Inc()
}

// RecordWithdrawal increments the withdrawal counter and, when a penalty was
// charged, the penalty counter.
func (m *SavingsMetrics) RecordWithdrawal(penalty *big.Int) {
	if m == nil {
		return
	}
	m.withdrawals.Inc()
	if penalty != nil && penalty.Sign() > 0 {
		m.penalties.Inc()
	}
}

// RecordRedemption increments the redemption counter.
func (m *SavingsMetrics) RecordRedemption() {
	if m == nil {
		return
	}
	m.pointsRedeemed.Inc()
}

// RecordPayout increments the payout counter and tracks the lifetime total.
func (m *TreasuryMetrics) RecordPayout(totalPaidOut *big.Int) {
	if m == nil {
		return
	}
	m.payouts.Inc()
	if totalPaidOut != nil {
		total, _ := new(big.Float).SetInt(totalPaidOut).Float64()
		m.paidOut.Set(total)
	}
}

// RecordRescue increments the rescue counter.
func (m *TreasuryMetrics) RecordRescue() {
	if m == nil {
		return
	}
	m.rescues.Inc()
}

// RecordPoolCreated increments the pool creation counter.
func (m *FundingMetrics) RecordPoolCreated() {
	if m == nil {
		return
	}
	m.poolsCreated.Inc()
}

// RecordContribution increments the contribution counter.
func (m *FundingMetrics) RecordContribution() {
	if m == nil {
		return
	}
	m.contributions.Inc()
}

// RecordRelease increments the release counter.
func (m *FundingMetrics) RecordRelease() {
	if m == nil {
		return
	}
	m.releases.Inc()
}

// RecordRefund increments the refund counter.
func (m *FundingMetrics) RecordRefund() {
	if m == nil {
		return
	}
	m.refunds.Inc()
}
