// Package chain holds a node's local block history and the reorg engine
// that replaces it with a longer, valid alternative offered by a peer.
package chain

import (
	"github.com/Klingon-tech/klingnet-chain/config"
	"github.com/Klingon-tech/klingnet-chain/pkg/block"
	"github.com/Klingon-tech/klingnet-chain/pkg/tx"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

// Chain is a node's local, linear block history. It is not safe for
// concurrent use on its own — the owning node serializes every entry
// point that touches it (see internal/node).
type Chain struct {
	blocks  []*block.Block
	byHash  map[types.Hash]int

	// seen holds every transaction this node has ever applied to chain
	// state, keyed by TxID. It exists purely so a rollback can restore
	// the transaction a rolled-back input spent, without Transaction
	// itself carrying a mutable back-pointer (see "Rollback bookkeeping"
	// in DESIGN.md).
	seen map[types.TxID]*tx.Transaction
}

// New returns an empty chain.
func New() *Chain {
	return &Chain{
		byHash: make(map[types.Hash]int),
		seen:   make(map[types.TxID]*tx.Transaction),
	}
}

// TipHash returns the hash of the last block, or config.GenesisPrev when
// the chain is empty.
func (c *Chain) TipHash() types.Hash {
	if len(c.blocks) == 0 {
		return config.GenesisPrev
	}
	return c.blocks[len(c.blocks)-1].Hash()
}

// Len reports the number of blocks in the chain.
func (c *Chain) Len() int {
	return len(c.blocks)
}

// GetBlock looks up a block by hash.
func (c *Chain) GetBlock(h types.Hash) (*block.Block, bool) {
	idx, ok := c.byHash[h]
	if !ok {
		return nil, false
	}
	return c.blocks[idx], true
}

// Contains reports whether h names a block currently in the chain.
func (c *Chain) Contains(h types.Hash) bool {
	_, ok := c.byHash[h]
	return ok
}

// Remember records t as having been applied to this chain at some point,
// so a later rollback can find what a spend consumed.
func (c *Chain) Remember(t *tx.Transaction) {
	c.seen[t.Hash()] = t
}

// Lookup returns a previously-seen transaction by TxID.
func (c *Chain) Lookup(id types.TxID) (*tx.Transaction, bool) {
	t, ok := c.seen[id]
	return t, ok
}

// append adds b to the end of the chain without validation; callers
// (Append, and the reorg engine's replay) are responsible for having
// validated b first.
func (c *Chain) append(b *block.Block) {
	c.byHash[b.Hash()] = len(c.blocks)
	c.blocks = append(c.blocks, b)
	for _, t := range b.Transactions {
		c.Remember(t)
	}
}

// Append validates b structurally and appends it as the new tip. Used by
// mining, which never needs the reorg engine's spend/fork machinery since
// it only ever extends the current tip with transactions it already
// admitted to the mempool.
func (c *Chain) Append(b *block.Block) error {
	if err := b.Validate(); err != nil {
		return err
	}
	c.append(b)
	return nil
}

// clone returns a deep-enough copy for speculative reorg evaluation: the
// block slice and index are copied, and the seen map is copied so virtual
// mutations never leak back into the committed chain unless adopted.
func (c *Chain) clone() *Chain {
	blocks := make([]*block.Block, len(c.blocks))
	copy(blocks, c.blocks)
	byHash := make(map[types.Hash]int, len(c.byHash))
	for h, i := range c.byHash {
		byHash[h] = i
	}
	seen := make(map[types.TxID]*tx.Transaction, len(c.seen))
	for id, t := range c.seen {
		seen[id] = t
	}
	return &Chain{blocks: blocks, byHash: byHash, seen: seen}
}

// truncateAfter drops every block after index idx (idx == -1 empties the
// chain entirely), rebuilding the hash index. seen is left untouched:
// rollback restores UTXO state explicitly and a transaction being
// remembered from a now-dropped block is harmless.
func (c *Chain) truncateAfter(idx int) {
	c.blocks = c.blocks[:idx+1]
	byHash := make(map[types.Hash]int, len(c.blocks))
	for i, b := range c.blocks {
		byHash[b.Hash()] = i
	}
	c.byHash = byHash
}

// replaceFrom atomically adopts other's state as this chain's state.
func (c *Chain) replaceFrom(other *Chain) {
	c.blocks = other.blocks
	c.byHash = other.byHash
	c.seen = other.seen
}
