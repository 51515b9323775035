package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// SavingsMetrics tracks vault ledger activity.
type SavingsMetrics struct {
	deposits       prometheus.Counter
	withdrawals    prometheus.Counter
	penalties      prometheus.Counter
	pointsRedeemed prometheus.Counter
}

// TreasuryMetrics tracks budgeted payouts.
type TreasuryMetrics struct {
	payouts prometheus.Counter
	rescues prometheus.Counter
	paidOut prometheus.Gauge
}

// FundingMetrics tracks pool lifecycle activity.
type FundingMetrics struct {
	poolsCreated  prometheus.Counter
	contributions prometheus.Counter
	releases      prometheus.Counter
	refunds       prometheus.Counter
}

var (
	savingsOnce     sync.Once
	savingsRegistry *SavingsMetrics

	treasuryOnce     sync.Once
	treasuryRegistry *TreasuryMetrics

	fundingOnce     sync.Once
	fundingRegistry *FundingMetrics
)

// Savings returns the lazily-initialised savings metrics registry.
func Savings() *SavingsMetrics {
	savingsOnce.Do(func() {
		savingsRegistry = &SavingsMetrics{
			deposits: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "stablesave",
				Subsystem: "savings",
				Name:      "deposits_total",
				Help:      "Count of accepted vault deposits.",
			}),
			withdrawals: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "stablesave",
				Subsystem: "savings",
				Name:      "withdrawals_total",
				Help:      "Count of accepted vault withdrawals.",
			}),
			penalties: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "stablesave",
				Subsystem: "savings",
				Name:      "penalty_withdrawals_total",
				Help:      "Count of withdrawals that incurred an early-withdrawal penalty.",
			}),
			pointsRedeemed: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "stablesave",
				Subsystem: "savings",
				Name:      "points_redemptions_total",
				Help:      "Count of successful point redemptions.",
			}),
		}
		prometheus.MustRegister(
			savingsRegistry.deposits,
			savingsRegistry.withdrawals,
			savingsRegistry.penalties,
			savingsRegistry.pointsRedeemed,
		)
	})
	return savingsRegistry
}

// Treasury returns the lazily-initialised treasury metrics registry.
func Treasury() *TreasuryMetrics {
	treasuryOnce.Do(func() {
		treasuryRegistry = &TreasuryMetrics{
			payouts: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "stablesave",
				Subsystem: "treasury",
				Name:      "payouts_total",
				Help:      "Count of budgeted treasury disbursements.",
			}),
			rescues: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "stablesave",
				Subsystem: "treasury",
				Name:      "rescues_total",
				Help:      "Count of admin emergency withdrawals.",
			}),
			paidOut: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "stablesave",
				Subsystem: "treasury",
				Name:      "total_paid_out",
				Help:      "Lifetime asset units paid out against the global cap.",
			}),
		}
		prometheus.MustRegister(
			treasuryRegistry.payouts,
			treasuryRegistry.rescues,
			treasuryRegistry.paidOut,
		)
	})
	return treasuryRegistry
}

// Funding returns the lazily-initialised funding metrics registry.
func Funding() *FundingMetrics {
	fundingOnce.Do(func() {
		fundingRegistry = &FundingMetrics{
			poolsCreated: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "stablesave",
				Subsystem: "funding",
				Name:      "pools_created_total",
				Help:      "Count of pools created by the registry.",
			}),
			contributions: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "stablesave",
				Subsystem: "funding",
				Name:      "contributions_total",
				Help:      "Count of accepted pool contributions.",
			}),
			releases: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "stablesave",
				Subsystem: "funding",
				Name:      "releases_total",
				Help:      "Count of pool releases to beneficiaries.",
			}),
			refunds: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "stablesave",
				Subsystem: "funding",
				Name:      "refunds_total",
				Help:      "Count of per-contributor refunds.",
			}),
		}
		prometheus.MustRegister(
			fundingRegistry.poolsCreated,
			fundingRegistry.contributions,
			fundingRegistry.releases,
			fundingRegistry.refunds,
		)
	})
	return fundingRegistry
}
