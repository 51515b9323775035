package common

import (
	"sync"

	"stablesave/core/types"
)

// Role names shared across modules.
const (
	RoleAdmin        = "ROLE_ADMIN"
	RoleRewardCaller = "ROLE_REWARD_CALLER"
)

// Roles is an explicit access-control map from identity to the set of role
// names granted to it. Checks happen at the start of every mutating module
// call so authorization never rides along implicitly between modules.
type Roles struct {
	mu      sync.RWMutex
	granted map[types.Address]map[string]bool
}

func NewRoles() *Roles {
	return &Roles{granted: make(map[types.Address]map[string]bool)}
}

// Grant adds the role to the identity's set.
func (r *Roles) Grant(role string, who types.Address) {
	if r == nil || role == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.granted[who]
	if !ok {
		set = make(map[string]bool)
		r.granted[who] = set
	}
	set[role] = true
}

// Revoke removes the role from the identity's set.
func (r *Roles) Revoke(role string, who types.Address) {
	if r == nil || role == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.granted[who]; ok {
		delete(set, role)
	}
}

// Has reports whether the identity holds the role.
func (r *Roles) Has(role string, who types.Address) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.granted[who]
	return ok && set[role]
}
