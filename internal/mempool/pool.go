// Package mempool holds transactions admitted locally but not yet mined,
// in the order they arrived.
package mempool

import (
	"errors"
	"sync"

	"github.com/Klingon-tech/klingnet-chain/internal/utxo"
	"github.com/Klingon-tech/klingnet-chain/pkg/crypto"
	"github.com/Klingon-tech/klingnet-chain/pkg/tx"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

// Admission errors.
var (
	ErrCoinbase    = errors.New("coinbase transactions are never mempool-admitted")
	ErrDuplicate   = errors.New("transaction already admitted")
	ErrConflict    = errors.New("another mempool entry already spends this input")
	ErrUnknownUTXO = errors.New("input does not name a current unspent output")
	ErrBadSignature = errors.New("signature does not verify against the input's owner")
)

// Pool is an ordered, duplicate-free buffer of admitted non-coinbase
// transactions. It enforces §4.5's admission gate on every insert so its
// own invariants (no two entries share an input) never need re-checking
// elsewhere — except after a reorg, which calls Refilter directly against
// the new chain state.
type Pool struct {
	mu      sync.Mutex
	order   []types.TxID
	entries map[types.TxID]*tx.Transaction
	spends  map[types.TxID]types.TxID // input TxID -> spending entry's TxID
}

// New returns an empty mempool.
func New() *Pool {
	return &Pool{
		entries: make(map[types.TxID]*tx.Transaction),
		spends:  make(map[types.TxID]types.TxID),
	}
}

// Add admits t if it passes every check in §4.5: present input, no
// in-flight conflict, the input names a current unspent output, and the
// signature verifies against that output's owner. It reports which check
// failed so callers can log it, but admission itself is boolean to peers.
func (p *Pool) Add(t *tx.Transaction, set *utxo.Set) error {
	if t.IsCoinbase() {
		return ErrCoinbase
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	id := t.Hash()
	if _, ok := p.entries[id]; ok {
		return ErrDuplicate
	}
	if _, ok := p.spends[t.Input]; ok {
		return ErrConflict
	}

	spent, ok := set.Get(t.Input)
	if !ok {
		return ErrUnknownUTXO
	}
	msg := t.CanonicalMessage()
	h := crypto.Hash(msg)
	if !crypto.VerifySignature(h[:], t.Signature, spent.Output[:]) {
		return ErrBadSignature
	}

	p.order = append(p.order, id)
	p.entries[id] = t
	p.spends[t.Input] = id
	return nil
}

// Has reports whether a transaction with this TxID is currently admitted.
func (p *Pool) Has(id types.TxID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.entries[id]
	return ok
}

// SpendsInput reports whether some admitted entry already spends input.
func (p *Pool) SpendsInput(input types.TxID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.spends[input]
	return ok
}

// Take removes and returns up to n transactions from the front of the
// mempool, in arrival order, for inclusion in a block.
func (p *Pool) Take(n int) []*tx.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n > len(p.order) {
		n = len(p.order)
	}
	out := make([]*tx.Transaction, 0, n)
	for _, id := range p.order[:n] {
		t := p.entries[id]
		out = append(out, t)
		delete(p.entries, id)
		delete(p.spends, t.Input)
	}
	p.order = p.order[n:]
	return out
}

// Remove drops the given TxIDs from the pool unconditionally, preserving
// the order of the remaining entries. IDs not in the pool are ignored.
func (p *Pool) Remove(ids ...types.TxID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	toRemove := make(map[types.TxID]struct{}, len(ids))
	for _, id := range ids {
		toRemove[id] = struct{}{}
	}
	kept := p.order[:0]
	for _, id := range p.order {
		if _, drop := toRemove[id]; drop {
			if e, ok := p.entries[id]; ok {
				delete(p.spends, e.Input)
			}
			delete(p.entries, id)
			continue
		}
		kept = append(kept, id)
	}
	p.order = kept
}

// Clear empties the mempool unconditionally.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.order = nil
	p.entries = make(map[types.TxID]*tx.Transaction)
	p.spends = make(map[types.TxID]types.TxID)
}

// Len reports the number of admitted transactions.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.order)
}

// All returns every admitted transaction in arrival order.
func (p *Pool) All() []*tx.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*tx.Transaction, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.entries[id])
	}
	return out
}

// Refilter discards any entry whose input is no longer in set, whose
// signature no longer verifies against it, or that conflicts with
// another retained entry — called after a reorg replaces the UTXO set.
// Survivor order is preserved.
func (p *Pool) Refilter(set *utxo.Set) {
	p.mu.Lock()
	defer p.mu.Unlock()

	seenInputs := make(map[types.TxID]struct{})
	kept := p.order[:0]
	entries := make(map[types.TxID]*tx.Transaction, len(p.entries))
	spends := make(map[types.TxID]types.TxID, len(p.spends))

	for _, id := range p.order {
		t := p.entries[id]
		spent, ok := set.Get(t.Input)
		if !ok {
			continue
		}
		msg := t.CanonicalMessage()
		h := crypto.Hash(msg)
		if !crypto.VerifySignature(h[:], t.Signature, spent.Output[:]) {
			continue
		}
		if _, conflict := seenInputs[t.Input]; conflict {
			continue
		}
		seenInputs[t.Input] = struct{}{}
		kept = append(kept, id)
		entries[id] = t
		spends[t.Input] = id
	}

	p.order = kept
	p.entries = entries
	p.spends = spends
}
