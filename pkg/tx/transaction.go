// Package tx defines the transaction type and its canonical encoding.
//
// A transaction has at most one input and exactly one output — there are
// no amounts, no scripts, no multi-input spends. A transaction with no
// input is a coinbase: it mints one coin to its output address and is
// never admitted to a mempool.
package tx

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/Klingon-tech/klingnet-chain/pkg/crypto"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

// Transaction represents a single coin moving from one owner to the next,
// or (when Input is absent) a coinbase minting a new coin.
type Transaction struct {
	// Output is the recipient of the coin. Required.
	Output types.PublicKey `json:"output"`
	// Input is the TxID of the unspent output being spent. It is only
	// meaningful when HasInput is true; a coinbase leaves it zero.
	Input types.TxID `json:"input"`
	// HasInput distinguishes a real (zero-valued but present) input from
	// a genuinely absent one, since TxID{} is also a valid hash prefix
	// for JSON round-tripping. Coinbases set this false.
	HasInput bool `json:"has_input"`
	// Signature is a real signature over the canonical spend message for
	// a non-coinbase transaction, or 48 unverifiable random bytes for a
	// coinbase (§3 — structural only, never checked).
	Signature types.Signature `json:"signature"`
}

// IsCoinbase reports whether this transaction mints a new coin rather than
// spending an existing one.
func (t *Transaction) IsCoinbase() bool {
	return !t.HasInput
}

// CanonicalMessage returns the canonical byte encoding used both for
// signing a spend and for deriving the transaction's TxID. It is the
// textual mapping `{input: <hex>, output: <hex>}` in lexicographic key
// order (input < output), per the fixed canonicalization documented in
// SPEC_FULL.md.
func (t *Transaction) CanonicalMessage() []byte {
	var inputHex string
	if t.HasInput {
		inputHex = hex.EncodeToString(t.Input[:])
	} else {
		inputHex = hex.EncodeToString(make([]byte, types.HashSize))
	}
	outputHex := hex.EncodeToString(t.Output[:])
	return []byte(fmt.Sprintf("input=%s;output=%s", inputHex, outputHex))
}

// Hash computes the transaction's TxID: the hash of the canonical spend
// message with the transaction's own signature appended, so that two
// coinbases paying the same address still get distinct IDs.
func (t *Transaction) Hash() types.TxID {
	msg := t.CanonicalMessage()
	msg = append(msg, []byte(fmt.Sprintf(";sig=%s", hex.EncodeToString(t.Signature)))...)
	h := crypto.Hash(msg)
	return types.TxID(h)
}

// NewCoinbase builds an unsigned coinbase transaction paying the given
// address. The signature is 48 random-looking but fixed filler bytes
// supplied by the caller (see internal/miner, which sources real
// randomness) — Transaction itself never generates entropy.
func NewCoinbase(to types.PublicKey, filler []byte) *Transaction {
	return &Transaction{
		Output:    to,
		HasInput:  false,
		Signature: filler,
	}
}

// NewSpend builds a spend of `input` to `to`, signed by `key`. The caller
// is responsible for ensuring `key` actually owns `input`'s output.
func NewSpend(input types.TxID, to types.PublicKey, key *crypto.PrivateKey) (*Transaction, error) {
	t := &Transaction{
		Output:   to,
		Input:    input,
		HasInput: true,
	}
	msg := t.CanonicalMessage()
	h := crypto.Hash(msg)
	sig, err := key.Sign(h[:])
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	t.Signature = sig
	return t, nil
}

// txJSON mirrors Transaction with an explicit optional input field so a
// coinbase (HasInput=false) serializes without a misleading zero hash.
type txJSON struct {
	Output    types.PublicKey `json:"output"`
	Input     *types.TxID     `json:"input,omitempty"`
	Signature types.Signature `json:"signature"`
}

// MarshalJSON encodes the transaction, omitting Input entirely for coinbases.
func (t Transaction) MarshalJSON() ([]byte, error) {
	j := txJSON{Output: t.Output, Signature: t.Signature}
	if t.HasInput {
		in := t.Input
		j.Input = &in
	}
	return json.Marshal(j)
}

// UnmarshalJSON decodes a transaction, inferring HasInput from the presence
// of the input field.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var j txJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	t.Output = j.Output
	t.Signature = j.Signature
	if j.Input != nil {
		t.Input = *j.Input
		t.HasInput = true
	} else {
		t.Input = types.TxID{}
		t.HasInput = false
	}
	return nil
}
