package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Address identifies an account, custodian, or module participant. It is a
// raw 20-byte identity; display helpers render the conventional 0x-prefixed
// hex form.
type Address [20]byte

// ZeroAddress is the empty identity. It is never a valid participant.
var ZeroAddress Address

// ParseAddress decodes a 0x-prefixed or bare 40-character hex string into an
// Address.
func ParseAddress(s string) (Address, error) {
	var addr Address
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") {
		trimmed = trimmed[2:]
	}
	if len(trimmed) != 2*len(addr) {
		return addr, fmt.Errorf("types: address must be %d bytes (got %d hex chars)", len(addr), len(trimmed))
	}
	decoded, err := hex.DecodeString(trimmed)
	if err != nil {
		return addr, fmt.Errorf("types: decode address: %w", err)
	}
	copy(addr[:], decoded)
	return addr, nil
}

// MustParseAddress is ParseAddress that panics on malformed input. Intended
// for fixtures and configuration defaults.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// BytesToAddress copies up to 20 bytes of b into an Address, left-truncating
// longer inputs the way hash-derived identities are shortened.
func BytesToAddress(b []byte) Address {
	var addr Address
	if len(b) > len(addr) {
		b = b[len(b)-len(addr):]
	}
	copy(addr[len(addr)-len(b):], b)
	return addr
}

// Hex renders the address as 0x-prefixed lowercase hex.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IsZero reports whether the address is the empty identity.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) String() string { return a.Hex() }

// Event represents a structured state change emitted by a module engine.
// Attributes are flat string pairs so downstream consumers (metrics,
// indexers) can rely on a stable shape.
type Event struct {
	Type       string
	Attributes map[string]string
}
