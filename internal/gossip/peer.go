// Package gossip models the in-process peer connections between nodes:
// a bidirectional neighbor set and the propagation calls that push new
// transactions and tips to every neighbor.
//
// There is no real transport here — "sending" a message to a neighbor is
// a direct, blocking call into its Peer implementation, with the network
// itself modelled as the call stack (see internal/node).
package gossip

import (
	"github.com/Klingon-tech/klingnet-chain/pkg/block"
	"github.com/Klingon-tech/klingnet-chain/pkg/tx"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

// Peer is the surface a node exposes to its neighbors.
type Peer interface {
	Identity() types.PublicKey
	TipHash() types.Hash
	GetBlock(h types.Hash) (*block.Block, error)
	AddTransactionToMempool(t *tx.Transaction) bool
	NotifyOfBlock(h types.Hash, sender Peer)

	// Neighbors exposes this peer's own neighbor set so Connect and
	// Disconnect can maintain the bidirectional membership invariant
	// through one symmetric helper rather than mutual recursion.
	Neighbors() *Set
}
