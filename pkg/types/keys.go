package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// PublicKeySize is the length of a compressed secp256k1 public key.
const PublicKeySize = 33

// SignatureSize is the length of a Schnorr signature (BIP-340 style).
const SignatureSize = 64

// CoinbaseSignatureSize is the length of the unverifiable filler bytes a
// coinbase transaction carries in place of a real signature.
const CoinbaseSignatureSize = 48

// PublicKey is an opaque, compressed public key as produced by the crypto
// adapter. It also serves as a node's address.
type PublicKey [PublicKeySize]byte

// IsZero returns true if the public key is all zeros.
func (k PublicKey) IsZero() bool {
	return k == PublicKey{}
}

// String returns the hex-encoded public key.
func (k PublicKey) String() string {
	return hex.EncodeToString(k[:])
}

// Bytes returns a copy of the public key as a byte slice.
func (k PublicKey) Bytes() []byte {
	b := make([]byte, PublicKeySize)
	copy(b, k[:])
	return b
}

// MarshalJSON encodes the public key as a hex string.
func (k PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a hex string into a public key.
func (k *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*k = PublicKey{}
		return nil
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid public key hex: %w", err)
	}
	if len(decoded) != PublicKeySize {
		return fmt.Errorf("public key must be %d bytes, got %d", PublicKeySize, len(decoded))
	}
	copy(k[:], decoded)
	return nil
}

// PublicKeyFromBytes builds a PublicKey from a compressed key byte slice.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	if len(b) != PublicKeySize {
		return PublicKey{}, fmt.Errorf("public key must be %d bytes, got %d", PublicKeySize, len(b))
	}
	var k PublicKey
	copy(k[:], b)
	return k, nil
}

// Signature is an opaque signature as produced by the crypto adapter. A
// coinbase transaction's signature is unverifiable filler rather than a
// real Schnorr signature, so Signature is a variable-length byte slice
// instead of a fixed-size array.
type Signature []byte

// String returns the hex-encoded signature.
func (s Signature) String() string {
	return hex.EncodeToString(s)
}

// MarshalJSON encodes the signature as a hex string.
func (s Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(s))
}

// UnmarshalJSON decodes a hex string into a signature.
func (s *Signature) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "" {
		*s = nil
		return nil
	}
	decoded, err := hex.DecodeString(str)
	if err != nil {
		return fmt.Errorf("invalid signature hex: %w", err)
	}
	*s = decoded
	return nil
}
