package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Address HRP (human-readable part) constants for bech32 encoding. Per the
// data model, a node's address *is* its public key (§4.3); these helpers
// only provide a human-friendly rendering of that key for logs and the
// simulation CLI, not a distinct identity type.
const (
	MainnetHRP = "kgx"
	TestnetHRP = "tkgx"
)

// activeHRP is the address HRP used by FormatAddress. Set once at startup
// via SetAddressHRP(). Default is mainnet.
var activeHRP = MainnetHRP

// SetAddressHRP sets the active address HRP (call once at startup).
func SetAddressHRP(hrp string) {
	activeHRP = hrp
}

// GetAddressHRP returns the currently active address HRP.
func GetAddressHRP() string {
	return activeHRP
}

// FormatAddress renders a public key as a bech32 address string (e.g. "kgx1...").
func FormatAddress(pub PublicKey) string {
	s, err := Bech32Encode(activeHRP, pub[:])
	if err != nil {
		// Fallback to hex if encoding fails (should never happen for a fixed-size key).
		return activeHRP + ":" + hex.EncodeToString(pub[:])
	}
	return s
}

// ParseAddress parses a bech32 address string back into a public key.
func ParseAddress(s string) (PublicKey, error) {
	if s == "" {
		return PublicKey{}, fmt.Errorf("empty address")
	}
	if !strings.Contains(s, "1") {
		return PublicKey{}, fmt.Errorf("not a bech32 address: %q", s)
	}
	_, data, err := Bech32Decode(s)
	if err != nil {
		return PublicKey{}, fmt.Errorf("invalid bech32 address: %w", err)
	}
	return PublicKeyFromBytes(data)
}
