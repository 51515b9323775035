package funding

import (
	"encoding/binary"
	"math/big"
	"sync"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"stablesave/core/events"
	"stablesave/core/types"
	"stablesave/native/token"
)

// Registry is the pool factory. Created pools are appended to an ordered,
// grow-only list; nothing is ever destroyed.
type Registry struct {
	tok     *token.Token
	emitter events.Emitter
	nowFn   func() int64

	mu       sync.Mutex
	pools    []*Pool
	byHandle map[[32]byte]*Pool
}

// FactoryInfo is the registry snapshot.
type FactoryInfo struct {
	TotalPools int
}

// NewRegistry creates a pool factory escrowing funds on the supplied token.
func NewRegistry(tok *token.Token) *Registry {
	return &Registry{
		tok:      tok,
		emitter:  events.NoopEmitter{},
		nowFn:    func() int64 { return time.Now().Unix() },
		byHandle: make(map[[32]byte]*Pool),
	}
}

// SetNowFunc overrides the time source handed to created pools. Pools that
// already exist keep their clock.
func (r *Registry) SetNowFunc(now func() int64) {
	if now == nil {
		r.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	r.nowFn = now
}

// SetEmitter configures the emitter for the registry and pools created from
// now on. Passing nil resets it to a no-op implementation.
func (r *Registry) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		r.emitter = events.NoopEmitter{}
		return
	}
	r.emitter = emitter
}

// CreatePool constructs and initializes a new pool, escrowing funds under a
// handle-derived custodial identity. Validation beyond Init's own checks is
// deliberately absent; in particular a past deadline is accepted.
func (r *Registry) CreatePool(creator types.Address, purpose string, beneficiary types.Address, target *big.Int, deadline int64) (*Pool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], uint64(len(r.pools)))
	handle := [32]byte(ethcrypto.Keccak256Hash(creator[:], beneficiary[:], []byte(purpose), seq[:]))
	custody := types.BytesToAddress(handle[:])
	pool := NewPool(handle)
	pool.SetNowFunc(r.nowFn)
	pool.SetEmitter(r.emitter)
	ledger := token.Custody(r.tok, custody)
	if err := pool.Init(ledger, r.tok.Symbol(), creator, purpose, beneficiary, target, deadline); err != nil {
		return nil, err
	}
	r.pools = append(r.pools, pool)
	r.byHandle[handle] = pool
	r.emitter.Emit(events.FundingPoolCreated{
		Pool:        handle,
		Creator:     creator,
		Beneficiary: beneficiary,
		Purpose:     purpose,
		Target:      new(big.Int).Set(target),
		Deadline:    deadline,
	})
	return pool, nil
}

// Pool returns the pool registered under the handle.
func (r *Registry) Pool(handle [32]byte) (*Pool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pool, ok := r.byHandle[handle]
	return pool, ok
}

// Pools returns the created pools in creation order.
func (r *Registry) Pools() []*Pool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Pool, len(r.pools))
	copy(out, r.pools)
	return out
}

// FactoryInfo returns the registry counters.
func (r *Registry) FactoryInfo() FactoryInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return FactoryInfo{TotalPools: len(r.pools)}
}
