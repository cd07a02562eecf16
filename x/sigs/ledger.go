package sigs

import (
	"sync"

	"github.com/google/btree"
	"github.com/iov-one/cosign/errors"
)

// DefaultFreeListSize is the size we hold for free node in btree
const DefaultFreeListSize = btree.DefaultFreeListSize

// Ledger is an in-memory index of pending transactions, ordered by
// insertion. It is safe for concurrent use.
type Ledger struct {
	mu   sync.RWMutex
	tree *btree.BTree
	byID map[string]ledgerItem
	seq  uint64
}

type ledgerItem struct {
	seq uint64
	tx  *PendingTx
}

var _ btree.Item = ledgerItem{}

// Less orders items by insertion sequence.
func (a ledgerItem) Less(b btree.Item) bool {
	return a.seq < b.(ledgerItem).seq
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	free := btree.NewFreeList(DefaultFreeListSize)
	return &Ledger{
		tree: btree.NewWithFreeList(2, free),
		byID: make(map[string]ledgerItem),
	}
}

// Put adds the transaction. Every transaction can be added only once.
func (l *Ledger) Put(tx *PendingTx) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.byID[tx.ID()]; ok {
		return errors.Wrapf(errors.ErrDuplicate, "transaction %s", tx.ID())
	}
	l.seq++
	item := ledgerItem{seq: l.seq, tx: tx}
	l.tree.ReplaceOrInsert(item)
	l.byID[tx.ID()] = item
	return nil
}

// Get returns the transaction with given ID.
func (l *Ledger) Get(id string) (*PendingTx, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	item, ok := l.byID[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "transaction %s", id)
	}
	return item.tx, nil
}

// Delete removes the transaction with given ID.
func (l *Ledger) Delete(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, ok := l.byID[id]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "transaction %s", id)
	}
	l.tree.Delete(item)
	delete(l.byID, id)
	return nil
}

// List returns all transactions in insertion order.
func (l *Ledger) List() []*PendingTx {
	l.mu.RLock()
	defer l.mu.RUnlock()

	res := make([]*PendingTx, 0, l.tree.Len())
	l.tree.Ascend(func(i btree.Item) bool {
		res = append(res, i.(ledgerItem).tx)
		return true
	})
	return res
}

// Len returns the number of transactions.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tree.Len()
}

// Prune removes all transactions in a terminal state and returns how many
// were removed.
func (l *Ledger) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	var done []ledgerItem
	l.tree.Ascend(func(i btree.Item) bool {
		if item := i.(ledgerItem); item.tx.State().IsTerminal() {
			done = append(done, item)
		}
		return true
	})
	for _, item := range done {
		l.tree.Delete(item)
		delete(l.byID, item.tx.ID())
	}
	return len(done)
}
