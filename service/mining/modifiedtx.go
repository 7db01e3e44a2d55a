package mining

import (
	"github.com/google/btree"

	"github.com/wonko433/blackcoin-more/model/mempool"
	"github.com/wonko433/blackcoin-more/util"
)

// modifiedEntry shadows a mempool entry whose ancestor aggregates are
// stale because some of its ancestors were already placed in the block.
// The aggregates here have every placed ancestor's contribution removed.
type modifiedEntry struct {
	origin *mempool.TxEntry

	sizeWithAncestors       int64
	modFeesWithAncestors    int64
	sigOpCountWithAncestors int64
}

func newModifiedEntry(origin *mempool.TxEntry) *modifiedEntry {
	return &modifiedEntry{
		origin:                  origin,
		sizeWithAncestors:       origin.SumTxSizeWithAncestors,
		modFeesWithAncestors:    origin.SumTxFeeWithAncestors,
		sigOpCountWithAncestors: origin.SumTxSigOpCountWithAncestors,
	}
}

// subtractAncestor removes one newly placed ancestor's own contribution.
func (e *modifiedEntry) subtractAncestor(ancestor *mempool.TxEntry) {
	e.sizeWithAncestors -= int64(ancestor.TxSize)
	e.modFeesWithAncestors -= ancestor.GetModifiedFee()
	e.sigOpCountWithAncestors -= int64(ancestor.SigOpCount)
}

func (e *modifiedEntry) Less(than btree.Item) bool {
	t := than.(*modifiedEntry)
	b1 := util.NewFeeRateWithSize(e.modFeesWithAncestors, e.sizeWithAncestors).SataoshisPerK
	b2 := util.NewFeeRateWithSize(t.modFeesWithAncestors, t.sizeWithAncestors).SataoshisPerK
	if b1 == b2 {
		ehash := e.origin.Tx.GetHash()
		thash := t.origin.Tx.GetHash()
		return ehash.Cmp(&thash) > 0
	}
	return b1 < b2
}

// beatsRaw compares the modified package score against an entry still
// carrying raw mempool aggregates. Cross multiplication avoids the
// rounding of a per-kilobyte rate; ties fall back to the txid so the
// comparator stays total.
func (e *modifiedEntry) beatsRaw(raw *mempool.TxEntry) bool {
	lhs := e.modFeesWithAncestors * raw.SumTxSizeWithAncestors
	rhs := raw.SumTxFeeWithAncestors * e.sizeWithAncestors
	if lhs != rhs {
		return lhs > rhs
	}
	ehash := e.origin.Tx.GetHash()
	rhash := raw.Tx.GetHash()
	return ehash.Cmp(&rhash) < 0
}

// modifiedTxSet is the secondary selection stream: a feerate-ordered view
// over the modified entries plus a txid lookup.
type modifiedTxSet struct {
	byScore *btree.BTree
	byHash  map[util.Hash]*modifiedEntry
}

func newModifiedTxSet() *modifiedTxSet {
	return &modifiedTxSet{
		byScore: btree.New(32),
		byHash:  make(map[util.Hash]*modifiedEntry),
	}
}

func (s *modifiedTxSet) len() int {
	return len(s.byHash)
}

func (s *modifiedTxSet) contains(hash util.Hash) bool {
	_, ok := s.byHash[hash]
	return ok
}

// top is the best modified package, or nil when the stream is empty.
func (s *modifiedTxSet) top() *modifiedEntry {
	if s.byScore.Len() == 0 {
		return nil
	}
	return s.byScore.Max().(*modifiedEntry)
}

func (s *modifiedTxSet) remove(hash util.Hash) {
	if entry, ok := s.byHash[hash]; ok {
		s.byScore.Delete(entry)
		delete(s.byHash, hash)
	}
}

// addOrUpdate folds a newly placed ancestor into the descendant's shadow
// entry, creating the shadow on first contact.
func (s *modifiedTxSet) addOrUpdate(desc, placedAncestor *mempool.TxEntry) {
	hash := desc.Tx.GetHash()
	entry, ok := s.byHash[hash]
	if ok {
		s.byScore.Delete(entry)
	} else {
		entry = newModifiedEntry(desc)
		s.byHash[hash] = entry
	}
	entry.subtractAncestor(placedAncestor)
	s.byScore.ReplaceOrInsert(entry)
}
