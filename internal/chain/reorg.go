package chain

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-chain/config"
	"github.com/Klingon-tech/klingnet-chain/internal/log"
	"github.com/Klingon-tech/klingnet-chain/internal/mempool"
	"github.com/Klingon-tech/klingnet-chain/internal/utxo"
	"github.com/Klingon-tech/klingnet-chain/pkg/block"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

// ErrUnknownBlock is returned by a BlockSource (and by Chain.GetBlock
// wrappers) when asked for a hash it does not have.
var ErrUnknownBlock = errors.New("block not found")

// BlockSource is the retrieval surface the reorg engine needs from
// whichever peer advertised a new tip. A node satisfies this for its
// neighbors by exposing its own GetBlock.
type BlockSource interface {
	GetBlock(h types.Hash) (*block.Block, error)
}

// Reorg runs the chain-replacement engine against a claimed new tip h,
// as advertised by sender. It mutates chain, utxoSet and pool in place
// only if a strictly longer, fully valid branch is found — otherwise
// local state is left untouched. It reports whether a reorg committed.
func Reorg(c *Chain, utxoSet *utxo.Set, pool *mempool.Pool, h types.Hash, sender BlockSource) (bool, error) {
	candidate, splitHash, ok := fetchAncestry(c, h, sender)
	if !ok {
		log.Chain.Debug().Msg("reorg abandoned: sender could not supply full ancestry")
		return false, nil
	}

	splitIdx := -1
	if splitHash != config.GenesisPrev {
		idx, present := c.byHash[splitHash]
		if !present {
			// Should not happen: fetchAncestry only stops at GenesisPrev
			// or a hash already confirmed present.
			return false, nil
		}
		splitIdx = idx
	}

	displacedLen := len(c.blocks) - (splitIdx + 1)
	if len(candidate) <= displacedLen {
		log.Chain.Debug().
			Int("candidate_len", len(candidate)).
			Int("displaced_len", displacedLen).
			Msg("reorg abandoned: candidate branch not strictly longer")
		return false, nil
	}

	virtualChain := c.clone()
	virtualUTXO := utxoSet.Clone()

	rollback(virtualChain, virtualUTXO, splitIdx)

	accepted := replay(virtualChain, virtualUTXO, candidate)
	if len(accepted) <= displacedLen {
		log.Chain.Debug().
			Int("accepted_len", len(accepted)).
			Int("displaced_len", displacedLen).
			Msg("reorg abandoned: valid prefix not strictly longer after replay")
		return false, nil
	}

	c.replaceFrom(virtualChain)
	utxoSet.ReplaceFrom(virtualUTXO)
	pool.Refilter(utxoSet)

	log.Chain.Info().
		Int("new_height", c.Len()).
		Str("new_tip", c.TipHash().String()).
		Msg("reorg committed")
	return true, nil
}

// fetchAncestry walks backward from h via sender.GetBlock, collecting
// blocks until it reaches GenesisPrev or a hash already present in c. It
// returns the candidate branch in split→tip order and the split hash. ok
// is false if sender could not supply some block along the way.
func fetchAncestry(c *Chain, h types.Hash, sender BlockSource) (branch []*block.Block, split types.Hash, ok bool) {
	var collected []*block.Block
	cur := h
	for {
		if cur == config.GenesisPrev || c.Contains(cur) {
			break
		}
		b, err := sender.GetBlock(cur)
		if err != nil {
			return nil, types.Hash{}, false
		}
		collected = append(collected, b)
		cur = b.PrevHash
	}

	branch = make([]*block.Block, len(collected))
	for i, b := range collected {
		branch[len(collected)-1-i] = b
	}
	return branch, cur, true
}

// rollback undoes every block after splitIdx in c, from tip toward
// split: each transaction's output is removed from utxo, and the
// transaction it spent (if any) is restored.
func rollback(c *Chain, set *utxo.Set, splitIdx int) {
	for i := len(c.blocks) - 1; i > splitIdx; i-- {
		b := c.blocks[i]
		for j := len(b.Transactions) - 1; j >= 0; j-- {
			t := b.Transactions[j]
			set.Delete(t.Hash())
			if t.HasInput {
				if spent, ok := c.Lookup(t.Input); ok {
					set.Put(spent)
				}
			}
		}
	}
	c.truncateAfter(splitIdx)
}

// replay validates and appends each candidate block in order, stopping
// at the first structurally or cryptographically invalid block. It
// returns the prefix of candidate that was actually appended.
func replay(c *Chain, set *utxo.Set, candidate []*block.Block) []*block.Block {
	accepted := make([]*block.Block, 0, len(candidate))
	for _, b := range candidate {
		if b.PrevHash != c.TipHash() {
			break
		}
		if err := validateAgainstUTXO(b, set); err != nil {
			log.Chain.Debug().Err(err).Str("block", b.Hash().String()).Msg("reorg replay: invalid block, truncating")
			break
		}
		applyBlock(c, set, b)
		accepted = append(accepted, b)
	}
	return accepted
}

// validateAgainstUTXO performs §4.4's structural and spend validation for
// a single candidate block against the given virtual UTXO set.
func validateAgainstUTXO(b *block.Block, set *utxo.Set) error {
	if err := b.Validate(); err != nil {
		return err
	}
	for _, t := range b.Transactions {
		if t.IsCoinbase() {
			continue
		}
		spent, ok := set.Get(t.Input)
		if !ok {
			return fmt.Errorf("input %s not in utxo", t.Input)
		}
		if err := t.VerifySpend(spent.Output); err != nil {
			return err
		}
	}
	return nil
}

// applyBlock appends b to c and updates set: spent inputs removed, every
// output (including the coinbase's) added.
func applyBlock(c *Chain, set *utxo.Set, b *block.Block) {
	for _, t := range b.Transactions {
		if t.HasInput {
			set.Delete(t.Input)
		}
		set.Put(t)
	}
	c.append(b)
}
