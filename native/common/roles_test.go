package common

import (
	"errors"
	"testing"

	"stablesave/core/types"
)

func TestRolesGrantRevoke(t *testing.T) {
	roles := NewRoles()
	var alice types.Address
	alice[0] = 0x01

	if roles.Has(RoleAdmin, alice) {
		t.Fatal("fresh identity should hold no roles")
	}
	roles.Grant(RoleAdmin, alice)
	if !roles.Has(RoleAdmin, alice) {
		t.Fatal("granted role missing")
	}
	if roles.Has(RoleRewardCaller, alice) {
		t.Fatal("unrelated role leaked")
	}
	roles.Revoke(RoleAdmin, alice)
	if roles.Has(RoleAdmin, alice) {
		t.Fatal("revoked role still present")
	}
	// Revoking a role that was never granted is a no-op.
	roles.Revoke(RoleAdmin, alice)
}

func TestGuard(t *testing.T) {
	pauses := NewPauses()
	if err := Guard(pauses, "savings"); err != nil {
		t.Fatalf("guard on running module: %v", err)
	}
	pauses.SetPaused("savings", true)
	if err := Guard(pauses, "savings"); !errors.Is(err, ErrModulePaused) {
		t.Fatalf("guard on paused module err = %v, want ErrModulePaused", err)
	}
	if err := Guard(pauses, "funding"); err != nil {
		t.Fatalf("pause must be scoped per module: %v", err)
	}
	pauses.SetPaused("savings", false)
	if err := Guard(pauses, "savings"); err != nil {
		t.Fatalf("guard after unpause: %v", err)
	}
	if err := Guard(nil, "savings"); err != nil {
		t.Fatalf("nil view guard: %v", err)
	}
}
