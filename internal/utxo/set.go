// Package utxo tracks the set of transactions whose output has not yet
// been spent by any later transaction in a node's chain.
//
// Unlike a value-and-script ledger, membership in the set IS the
// transaction: the unspent output a TxID names is nothing more than the
// transaction itself, since every output pays exactly one coin to exactly
// one public key.
package utxo

import (
	"sync"

	"github.com/Klingon-tech/klingnet-chain/pkg/tx"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

// Set is an in-memory, mutex-guarded map from TxID to the transaction
// that produced the still-unspent output. There is no persistence layer
// here — a simulated node's state lives only as long as the process, per
// the chain's own design (see internal/chain).
type Set struct {
	mu   sync.RWMutex
	outs map[types.TxID]*tx.Transaction
}

// New returns an empty UTXO set.
func New() *Set {
	return &Set{outs: make(map[types.TxID]*tx.Transaction)}
}

// Get returns the transaction behind an unspent TxID, if any.
func (s *Set) Get(id types.TxID) (*tx.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.outs[id]
	return t, ok
}

// Has reports whether id is currently unspent.
func (s *Set) Has(id types.TxID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.outs[id]
	return ok
}

// Put marks t's output as unspent, indexed by its TxID.
func (s *Set) Put(t *tx.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outs[t.Hash()] = t
}

// Delete marks id as spent, removing it from the set.
func (s *Set) Delete(id types.TxID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.outs, id)
}

// ForEach calls fn once for every unspent transaction. Iteration order is
// unspecified; fn must not mutate the set.
func (s *Set) ForEach(fn func(*tx.Transaction)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.outs {
		fn(t)
	}
}

// ByOwner returns every unspent transaction whose output pays owner, in
// no particular order.
func (s *Set) ByOwner(owner types.PublicKey) []*tx.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*tx.Transaction
	for _, t := range s.outs {
		if t.Output == owner {
			out = append(out, t)
		}
	}
	return out
}

// Len reports the number of unspent outputs.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.outs)
}

// Clone returns a deep-enough copy of the set for virtual/speculative use
// during reorg evaluation: the map is copied, but Transaction values are
// shared since they are treated as immutable once constructed.
func (s *Set) Clone() *Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := New()
	for id, t := range s.outs {
		clone.outs[id] = t
	}
	return clone
}

// ReplaceFrom atomically adopts other's contents as this set's contents,
// used by the reorg engine to commit a virtual UTXO set.
func (s *Set) ReplaceFrom(other *Set) {
	other.mu.RLock()
	outs := make(map[types.TxID]*tx.Transaction, len(other.outs))
	for id, t := range other.outs {
		outs[id] = t
	}
	other.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.outs = outs
}
