package tx

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-chain/pkg/crypto"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

// Validation errors.
var (
	ErrZeroOutput     = errors.New("transaction has a zero output address")
	ErrMissingSig     = errors.New("non-coinbase transaction missing signature")
	ErrBadCoinbaseSig = errors.New("coinbase filler signature has the wrong length")
	ErrInvalidSig     = errors.New("signature does not verify against the input's owner")
)

// Validate checks transaction structure. This does NOT check UTXO
// existence — that requires the unspent-output set, which the mempool and
// the reorg engine consult — nor the signature (see VerifySpend).
func (t *Transaction) Validate() error {
	if t.Output.IsZero() {
		return ErrZeroOutput
	}
	if t.IsCoinbase() {
		if len(t.Signature) != types.CoinbaseSignatureSize {
			return fmt.Errorf("%w: got %d bytes, want %d", ErrBadCoinbaseSig, len(t.Signature), types.CoinbaseSignatureSize)
		}
		return nil
	}
	if len(t.Signature) == 0 {
		return ErrMissingSig
	}
	return nil
}

// VerifySpend checks that a non-coinbase transaction's signature verifies
// against the public key that owns the referenced input. Coinbase
// signatures are never verified (§9 — structural only).
func (t *Transaction) VerifySpend(inputOwner types.PublicKey) error {
	if t.IsCoinbase() {
		return nil
	}
	msg := t.CanonicalMessage()
	h := crypto.Hash(msg)
	if !crypto.VerifySignature(h[:], t.Signature, inputOwner[:]) {
		return ErrInvalidSig
	}
	return nil
}
