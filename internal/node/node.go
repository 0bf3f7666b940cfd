// Package node implements a single simulated network participant: its
// chain, unspent-output set, mempool, neighbor connections, and key
// pair, wired together behind the node API the reorg engine and gossip
// layer depend on.
package node

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/Klingon-tech/klingnet-chain/internal/chain"
	"github.com/Klingon-tech/klingnet-chain/internal/gossip"
	"github.com/Klingon-tech/klingnet-chain/internal/log"
	"github.com/Klingon-tech/klingnet-chain/internal/mempool"
	"github.com/Klingon-tech/klingnet-chain/internal/miner"
	"github.com/Klingon-tech/klingnet-chain/internal/utxo"
	"github.com/Klingon-tech/klingnet-chain/internal/wallet"
	"github.com/Klingon-tech/klingnet-chain/pkg/block"
	"github.com/Klingon-tech/klingnet-chain/pkg/crypto"
	"github.com/Klingon-tech/klingnet-chain/pkg/tx"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

// Node is one participant in the simulated network. A single mutex
// serializes every entry point that touches chain/utxo/mempool state, as
// the design notes require for a concurrent-runtime port of an
// originally single-threaded model. The mutex is always released before
// this node calls out to a neighbor: the "network" is the call stack, so
// a neighbor's own gossip can recurse back into this node's methods
// before the outer call returns, and re-locking an already-held mutex on
// the same goroutine would deadlock.
type Node struct {
	mu sync.Mutex

	key     *crypto.PrivateKey
	address types.PublicKey

	chainState *chain.Chain
	utxoSet    *utxo.Set
	pool       *mempool.Pool
	neighbors  *gossip.Set

	logger zerolog.Logger
}

// New constructs a node from an already-derived wallet identity, with an
// empty chain, utxo set, mempool, and neighbor set.
func New(identity *wallet.Identity) *Node {
	return &Node{
		key:        identity.Key,
		address:    identity.Address,
		chainState: chain.New(),
		utxoSet:    utxo.New(),
		pool:       mempool.New(),
		neighbors:  gossip.NewSet(),
		logger:     log.Node.With().Str("address", identity.Address.String()).Logger(),
	}
}

// Identity returns the node's address, satisfying gossip.Peer.
func (n *Node) Identity() types.PublicKey { return n.address }

// Address returns the node's own public key — its address (§4.6).
func (n *Node) Address() types.PublicKey { return n.address }

// Neighbors exposes the node's neighbor set, satisfying gossip.Peer.
func (n *Node) Neighbors() *gossip.Set { return n.neighbors }

// TipHash returns the hash of the node's last block, or
// config.GenesisPrev when its chain is empty.
func (n *Node) TipHash() types.Hash {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.chainState.TipHash()
}

// GetBlock looks up a block by hash in the node's local chain.
func (n *Node) GetBlock(h types.Hash) (*block.Block, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	b, ok := n.chainState.GetBlock(h)
	if !ok {
		return nil, chain.ErrUnknownBlock
	}
	return b, nil
}

// Connect adds other to this node's neighbors and vice versa, then
// immediately has other catch up to this node's current tip.
func (n *Node) Connect(other *Node) error {
	if err := gossip.Connect(n, other); err != nil {
		return err
	}
	other.NotifyOfBlock(n.TipHash(), n)
	return nil
}

// Disconnect symmetrically removes the neighbor relationship with other.
func (n *Node) Disconnect(other *Node) {
	gossip.Disconnect(n, other)
}

// AddTransactionToMempool admits t per §4.5 and, on success, forwards it
// to every neighbor. Returns whether admission succeeded.
func (n *Node) AddTransactionToMempool(t *tx.Transaction) bool {
	n.mu.Lock()
	err := n.pool.Add(t, n.utxoSet)
	n.mu.Unlock()

	if err != nil {
		n.logger.Debug().Err(err).Msg("rejected mempool transaction")
		return false
	}
	gossip.BroadcastTx(n.neighbors, t)
	return true
}

// MineBlock assembles a block from the mempool plus a fresh coinbase,
// appends it locally, and notifies every neighbor of the new tip.
func (n *Node) MineBlock() (types.Hash, error) {
	n.mu.Lock()
	b, err := miner.Mine(n.chainState, n.utxoSet, n.pool, n.address)
	n.mu.Unlock()
	if err != nil {
		return types.Hash{}, err
	}

	tip := b.Hash()
	gossip.BroadcastTip(n.neighbors, n, tip)
	return tip, nil
}

// NotifyOfBlock is the entry point to the reorg engine: sender claims h
// is its tip. If a reorg commits, this node's own neighbors are in turn
// notified of the new tip.
func (n *Node) NotifyOfBlock(h types.Hash, sender gossip.Peer) {
	n.mu.Lock()
	committed, err := chain.Reorg(n.chainState, n.utxoSet, n.pool, h, sender)
	n.mu.Unlock()

	if err != nil {
		n.logger.Error().Err(err).Msg("reorg attempt failed")
		return
	}
	if !committed {
		return
	}

	newTip := n.TipHash()
	gossip.BroadcastTip(n.neighbors, n, newTip)
}

// CreateTransaction scans the node's utxo for a spendable output it owns
// that is not already referenced by a pending mempool entry, signs a
// spend of it to target, and admits (and gossips) the result. Returns
// nil if no such output exists.
func (n *Node) CreateTransaction(target types.PublicKey) (*tx.Transaction, error) {
	n.mu.Lock()
	var chosen *tx.Transaction
	for _, candidate := range n.utxoSet.ByOwner(n.address) {
		if !n.pool.SpendsInput(candidate.Hash()) {
			chosen = candidate
			break
		}
	}
	if chosen == nil {
		n.mu.Unlock()
		return nil, nil
	}

	spend, err := tx.NewSpend(chosen.Hash(), target, n.key)
	if err != nil {
		n.mu.Unlock()
		return nil, err
	}
	admitErr := n.pool.Add(spend, n.utxoSet)
	n.mu.Unlock()
	if admitErr != nil {
		return nil, admitErr
	}

	gossip.BroadcastTx(n.neighbors, spend)
	return spend, nil
}

// ClearMempool empties the mempool unconditionally.
func (n *Node) ClearMempool() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pool.Clear()
}

// Balance returns the number of unspent outputs owned by this node.
func (n *Node) Balance() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.utxoSet.ByOwner(n.address))
}

// Mempool returns every transaction currently pending in arrival order.
func (n *Node) Mempool() []*tx.Transaction {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pool.All()
}

// UTXO returns every unspent transaction in the node's local view.
func (n *Node) UTXO() []*tx.Transaction {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []*tx.Transaction
	n.utxoSet.ForEach(func(t *tx.Transaction) {
		out = append(out, t)
	})
	return out
}
