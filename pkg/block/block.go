// Package block defines the block type and its canonical encoding.
//
// A block is nothing more than a parent pointer and an ordered list of
// transactions — there is no difficulty, no nonce, no timestamp, and no
// merkle root. Its hash is derived from the canonical serialization of
// those two fields.
package block

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Klingon-tech/klingnet-chain/pkg/crypto"
	"github.com/Klingon-tech/klingnet-chain/pkg/tx"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

// Block is an ordered batch of transactions chained to a parent.
type Block struct {
	PrevHash     types.Hash        `json:"prev_hash"`
	Transactions []*tx.Transaction `json:"transactions"`
}

// New builds a block over the given parent and transactions. It does not
// validate size or transaction shape — callers use Validate for that.
func New(prevHash types.Hash, txs []*tx.Transaction) *Block {
	return &Block{PrevHash: prevHash, Transactions: txs}
}

// CanonicalImage returns the canonical byte encoding used to derive the
// block's hash: the parent hash followed by the comma-joined TxIDs of its
// transactions, in block order.
func (b *Block) CanonicalImage() []byte {
	ids := make([]string, len(b.Transactions))
	for i, t := range b.Transactions {
		id := t.Hash()
		ids[i] = hex.EncodeToString(id[:])
	}
	return []byte(fmt.Sprintf("prev=%s;txs=%s", hex.EncodeToString(b.PrevHash[:]), strings.Join(ids, ",")))
}

// Hash computes the block's identity hash over its canonical image.
func (b *Block) Hash() types.Hash {
	return crypto.Hash(b.CanonicalImage())
}

// Coinbase returns the block's coinbase transaction, if present.
func (b *Block) Coinbase() *tx.Transaction {
	for _, t := range b.Transactions {
		if t.IsCoinbase() {
			return t
		}
	}
	return nil
}
