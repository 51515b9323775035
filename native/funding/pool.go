package funding

import (
	"math/big"
	"sync"
	"time"

	"stablesave/core/events"
	"stablesave/core/types"
)

// Status is the lazily evaluated lifecycle state of a pool. It is derived
// from the deadline and totals at read time, never stored.
type Status uint8

const (
	StatusActive Status = iota
	StatusSuccessful
	StatusReleased
	StatusFailed
)

// Pool is a single-campaign escrow. Contributions accumulate until the
// deadline; afterwards the pool resolves to exactly one full release to the
// beneficiary, or to independent per-contributor refunds.
//
// All methods serialize on the pool's own lock; distinct pools never
// contend with each other.
type Pool struct {
	mu      sync.Mutex
	handle  [32]byte
	ledger  Ledger
	asset   string
	emitter events.Emitter
	nowFn   func() int64

	initialized      bool
	creator          types.Address
	beneficiary      types.Address
	purpose          string
	target           *big.Int
	deadline         int64
	totalContributed *big.Int
	released         bool
	contributions    map[types.Address]*big.Int
	contributorOrder []types.Address
	refunded         map[types.Address]bool
}

// Ledger is the custodial asset view a pool escrows funds through.
type Ledger interface {
	TransferIn(from types.Address, amount *big.Int) error
	TransferOut(to types.Address, amount *big.Int) error
	BalanceOf(holder types.Address) *big.Int
}

// Contribution pairs a contributor identity with its cumulative amount.
type Contribution struct {
	Contributor types.Address
	Amount      *big.Int
}

// PoolInfo is the aggregate snapshot returned by PoolInfo.
type PoolInfo struct {
	Asset            string
	Creator          types.Address
	Purpose          string
	Beneficiary      types.Address
	Target           *big.Int
	TotalRaised      *big.Int
	ContributorCount int
	Released         bool
	CanReleaseNow    bool
	CanRefundNow     bool
	TimeRemaining    int64
}

// ContributionInfo is a single contributor's view of the pool.
type ContributionInfo struct {
	Amount    *big.Int
	CanRefund bool
}

// NewPool creates an uninitialized pool shell identified by handle. Init
// must be called exactly once before the pool accepts contributions.
func NewPool(handle [32]byte) *Pool {
	return &Pool{
		handle:           handle,
		emitter:          events.NoopEmitter{},
		nowFn:            func() int64 { return time.Now().Unix() },
		totalContributed: big.NewInt(0),
		contributions:    make(map[types.Address]*big.Int),
		refunded:         make(map[types.Address]bool),
	}
}

// Handle returns the pool's registry-assigned identifier.
func (p *Pool) Handle() [32]byte { return p.handle }

// SetNowFunc overrides the pool's time source, primarily for deterministic
// tests.
func (p *Pool) SetNowFunc(now func() int64) {
	if now == nil {
		p.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	p.nowFn = now
}

// SetEmitter configures the event emitter. Passing nil resets it to a
// no-op implementation.
func (p *Pool) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		p.emitter = events.NoopEmitter{}
		return
	}
	p.emitter = emitter
}

// Init fixes the campaign terms. It is callable exactly once; the target
// must be positive and a ledger must be supplied. The deadline is accepted
// as-is: a past deadline yields a pool that immediately resolves.
func (p *Pool) Init(ledger Ledger, asset string, creator types.Address, purpose string, beneficiary types.Address, target *big.Int, deadline int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return ErrAlreadyInitialized
	}
	if ledger == nil {
		return ErrNilLedger
	}
	if target == nil || target.Sign() <= 0 {
		return ErrInvalidAmount
	}
	p.ledger = ledger
	p.asset = asset
	p.creator = creator
	p.purpose = purpose
	p.beneficiary = beneficiary
	p.target = new(big.Int).Set(target)
	p.deadline = deadline
	p.initialized = true
	return nil
}

// Contribute moves amount from the contributor into escrow. First-time
// contributors are appended to the insertion-ordered registry.
func (p *Pool) Contribute(contributor types.Address, amount *big.Int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return ErrNotInitialized
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if p.nowFn() > p.deadline {
		return ErrDeadlinePassed
	}
	if err := p.ledger.TransferIn(contributor, amount); err != nil {
		return err
	}
	prior, known := p.contributions[contributor]
	if !known {
		prior = big.NewInt(0)
		p.contributorOrder = append(p.contributorOrder, contributor)
	}
	p.contributions[contributor] = new(big.Int).Add(prior, amount)
	p.totalContributed = new(big.Int).Add(p.totalContributed, amount)
	p.emitter.Emit(events.FundingContributed{
		Pool:        p.handle,
		Contributor: contributor,
		Amount:      new(big.Int).Set(amount),
		Total:       new(big.Int).Set(p.totalContributed),
	})
	return nil
}

// canReleaseLocked assumes p.mu is held.
func (p *Pool) canReleaseLocked(now int64) bool {
	return p.initialized && !p.released && now > p.deadline && p.totalContributed.Cmp(p.target) >= 0
}

// canRefundLocked assumes p.mu is held.
func (p *Pool) canRefundLocked(now int64) bool {
	return p.initialized && now > p.deadline && p.totalContributed.Cmp(p.target) < 0
}

// CanRelease reports whether the pool met its target after the deadline and
// has not yet released.
func (p *Pool) CanRelease() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.canReleaseLocked(p.nowFn())
}

// Release transfers the entire contributed total to the beneficiary. Anyone
// may trigger it once the pool is releasable; it succeeds at most once.
func (p *Pool) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return ErrNotInitialized
	}
	if p.released {
		return ErrAlreadyReleased
	}
	if !p.canReleaseLocked(p.nowFn()) {
		return ErrNotReleasable
	}
	if err := p.ledger.TransferOut(p.beneficiary, p.totalContributed); err != nil {
		return err
	}
	p.released = true
	p.emitter.Emit(events.FundingReleased{
		Pool:        p.handle,
		Beneficiary: p.beneficiary,
		Amount:      new(big.Int).Set(p.totalContributed),
	})
	return nil
}

// Refund pays the caller back their own cumulative contribution after a
// failed campaign. Refunds are independent per contributor and each happens
// at most once.
func (p *Pool) Refund(contributor types.Address) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return ErrNotInitialized
	}
	if !p.canRefundLocked(p.nowFn()) {
		return ErrNotRefundable
	}
	if p.refunded[contributor] {
		return ErrAlreadyRefunded
	}
	amount, ok := p.contributions[contributor]
	if !ok || amount.Sign() == 0 {
		return ErrNoContribution
	}
	if err := p.ledger.TransferOut(contributor, amount); err != nil {
		return err
	}
	p.refunded[contributor] = true
	p.emitter.Emit(events.FundingRefunded{
		Pool:        p.handle,
		Contributor: contributor,
		Amount:      new(big.Int).Set(amount),
	})
	return nil
}

// Status derives the lifecycle state at the current time.
func (p *Pool) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return StatusReleased
	}
	now := p.nowFn()
	if now <= p.deadline {
		return StatusActive
	}
	if p.totalContributed.Cmp(p.target) >= 0 {
		return StatusSuccessful
	}
	return StatusFailed
}

// PoolInfo returns the aggregate campaign snapshot.
func (p *Pool) PoolInfo() PoolInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.nowFn()
	remaining := p.deadline - now
	if remaining < 0 {
		remaining = 0
	}
	return PoolInfo{
		Asset:            p.asset,
		Creator:          p.creator,
		Purpose:          p.purpose,
		Beneficiary:      p.beneficiary,
		Target:           cloneOrZero(p.target),
		TotalRaised:      new(big.Int).Set(p.totalContributed),
		ContributorCount: len(p.contributorOrder),
		Released:         p.released,
		CanReleaseNow:    p.canReleaseLocked(now),
		CanRefundNow:     p.canRefundLocked(now),
		TimeRemaining:    remaining,
	}
}

// ContributionInfo returns the contributor's cumulative amount and whether
// they could claim a refund right now.
func (p *Pool) ContributionInfo(contributor types.Address) ContributionInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	amount := big.NewInt(0)
	if c, ok := p.contributions[contributor]; ok {
		amount = new(big.Int).Set(c)
	}
	canRefund := p.canRefundLocked(p.nowFn()) && amount.Sign() > 0 && !p.refunded[contributor]
	return ContributionInfo{Amount: amount, CanRefund: canRefund}
}

// FundingProgress returns totalContributed as basis points of the target,
// uncapped above 10000 for over-funded pools.
func (p *Pool) FundingProgress() *big.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.target == nil || p.target.Sign() == 0 {
		return big.NewInt(0)
	}
	progress := new(big.Int).Mul(p.totalContributed, big.NewInt(10_000))
	return progress.Quo(progress, p.target)
}

// HasContributed reports whether the identity appears in the contributor
// registry.
func (p *Pool) HasContributed(contributor types.Address) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.contributions[contributor]
	return ok
}

// ContributorCount returns the number of unique contributors.
func (p *Pool) ContributorCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.contributorOrder)
}

// Contributors returns every contributor with their cumulative amount, in
// original contribution order.
func (p *Pool) Contributors() []Contribution {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pageLocked(0, len(p.contributorOrder))
}

// ContributorsPage returns a slice of the contributor registry starting at
// offset, at most limit entries, plus the total contributor count. Order is
// the original contribution order.
func (p *Pool) ContributorsPage(offset, limit int) ([]Contribution, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := len(p.contributorOrder)
	if offset < 0 || offset >= total || limit <= 0 {
		return nil, total
	}
	if offset+limit > total {
		limit = total - offset
	}
	return p.pageLocked(offset, limit), total
}

// pageLocked assumes p.mu is held and the bounds are valid.
func (p *Pool) pageLocked(offset, limit int) []Contribution {
	page := make([]Contribution, 0, limit)
	for _, contributor := range p.contributorOrder[offset : offset+limit] {
		page = append(page, Contribution{
			Contributor: contributor,
			Amount:      new(big.Int).Set(p.contributions[contributor]),
		})
	}
	return page
}

func cloneOrZero(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
