// Package miner assembles and appends new blocks from a node's mempool.
package miner

import (
	"crypto/rand"
	"fmt"

	"github.com/Klingon-tech/klingnet-chain/config"
	"github.com/Klingon-tech/klingnet-chain/internal/chain"
	"github.com/Klingon-tech/klingnet-chain/internal/log"
	"github.com/Klingon-tech/klingnet-chain/internal/mempool"
	"github.com/Klingon-tech/klingnet-chain/internal/utxo"
	"github.com/Klingon-tech/klingnet-chain/pkg/block"
	"github.com/Klingon-tech/klingnet-chain/pkg/tx"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

// Mine takes up to config.BlockSize-1 transactions from the front of
// pool, appends one fresh coinbase paying miner, appends the resulting
// block to c, and updates set to reflect it. The taken transactions are
// removed from pool as a side effect of Take; callers do not need to
// remove them again.
func Mine(c *chain.Chain, set *utxo.Set, pool *mempool.Pool, miner types.PublicKey) (*block.Block, error) {
	taken := pool.Take(config.BlockSize - 1)

	filler := make([]byte, types.CoinbaseSignatureSize)
	if _, err := rand.Read(filler); err != nil {
		return nil, fmt.Errorf("generate coinbase filler: %w", err)
	}
	coinbase := tx.NewCoinbase(miner, filler)

	txs := make([]*tx.Transaction, 0, len(taken)+1)
	txs = append(txs, taken...)
	txs = append(txs, coinbase)

	b := block.New(c.TipHash(), txs)
	if err := c.Append(b); err != nil {
		return nil, fmt.Errorf("mine block: %w", err)
	}

	for _, t := range taken {
		set.Delete(t.Input)
		set.Put(t)
	}
	set.Put(coinbase)

	log.Miner.Info().
		Str("block", b.Hash().String()).
		Int("tx_count", len(txs)).
		Msg("mined block")
	return b, nil
}
