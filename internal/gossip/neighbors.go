package gossip

import (
	"errors"
	"sync"

	"github.com/Klingon-tech/klingnet-chain/pkg/tx"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

// ErrSelfConnect is returned by Connect when a peer is asked to connect
// to itself.
var ErrSelfConnect = errors.New("a node cannot connect to itself")

// Set is a node's bidirectional neighbor collection, keyed by identity.
type Set struct {
	mu    sync.Mutex
	peers map[types.PublicKey]Peer
}

// NewSet returns an empty neighbor set.
func NewSet() *Set {
	return &Set{peers: make(map[types.PublicKey]Peer)}
}

// add is unexported: only Connect calls it, keeping membership symmetric
// by construction instead of by mutual recursion between peers.
func (s *Set) add(p Peer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.peers[p.Identity()] = p
}

// remove is unexported: only Disconnect calls it.
func (s *Set) remove(p Peer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.peers, p.Identity())
}

// Has reports whether p is currently a neighbor.
func (s *Set) Has(p Peer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.peers[p.Identity()]
	return ok
}

// Each calls fn once per neighbor. fn runs on a snapshot taken under
// s.mu, after the lock is released, so it may call Connect or Disconnect
// without deadlocking; peers added or removed meanwhile do not change
// which peers this call visits.
func (s *Set) Each(fn func(Peer)) {
	s.mu.Lock()
	snapshot := make([]Peer, 0, len(s.peers))
	for _, p := range s.peers {
		snapshot = append(snapshot, p)
	}
	s.mu.Unlock()

	for _, p := range snapshot {
		fn(p)
	}
}

// Len reports the number of neighbors.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.peers)
}

// Connect establishes a symmetric neighbor relationship between self and
// other: each adds the other to its own neighbor set. It is idempotent
// and rejects connecting a peer to itself.
func Connect(self, other Peer) error {
	if self.Identity() == other.Identity() {
		return ErrSelfConnect
	}
	self.Neighbors().add(other)
	other.Neighbors().add(self)
	return nil
}

// Disconnect symmetrically removes the neighbor relationship. A no-op if
// the two were not connected.
func Disconnect(self, other Peer) {
	self.Neighbors().remove(other)
	other.Neighbors().remove(self)
}

// BroadcastTx forwards t to every peer in neighbors via
// AddTransactionToMempool. Each neighbor independently re-applies the
// admission gate, so redundant gossip converges without amplifying:
// a peer that already has t (or rejects it) simply returns false and
// does not re-propagate.
func BroadcastTx(neighbors *Set, t *tx.Transaction) {
	neighbors.Each(func(p Peer) {
		p.AddTransactionToMempool(t)
	})
}

// BroadcastTip notifies every peer in neighbors that self has a new tip
// hash, triggering each neighbor's reorg engine.
func BroadcastTip(neighbors *Set, self Peer, tip types.Hash) {
	neighbors.Each(func(p Peer) {
		p.NotifyOfBlock(tip, self)
	})
}
