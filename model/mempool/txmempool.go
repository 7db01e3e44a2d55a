package mempool

import (
	"sync"

	"github.com/google/btree"
	"gopkg.in/fatih/set.v0"

	"github.com/wonko433/blackcoin-more/errcode"
	"github.com/wonko433/blackcoin-more/model/tx"
	"github.com/wonko433/blackcoin-more/util"
	"github.com/wonko433/blackcoin-more/util/amount"
)

type txDelta struct {
	priority float64
	fee      int64
}

// TxMempool embeds the lock that guards it; its methods do not take the
// lock themselves, so callers hold it around reads and writes. The
// assembler takes the lock after the chain lock and holds it for a whole
// selection.
type TxMempool struct {
	sync.RWMutex
	// poolData store the tx in the mempool
	poolData map[util.Hash]*TxEntry
	// timeSortData is the insertion-stable primary ordering.
	timeSortData *btree.BTree
	// mapDeltas survives eviction so a re-accepted tx keeps its bump.
	mapDeltas map[util.Hash]txDelta
	// totalTxSize sum of all mempool tx's size.
	totalTxSize uint64
	// transactionsUpdated number of mempool mutations since creation.
	transactionsUpdated uint64
}

var gpool *TxMempool

func InitMempool() {
	gpool = NewTxMempool()
}

func GetInstance() *TxMempool {
	if gpool == nil {
		InitMempool()
	}
	return gpool
}

func NewTxMempool() *TxMempool {
	return &TxMempool{
		poolData:     make(map[util.Hash]*TxEntry),
		timeSortData: btree.New(32),
		mapDeltas:    make(map[util.Hash]txDelta),
	}
}

func (m *TxMempool) Size() int {
	return len(m.poolData)
}

func (m *TxMempool) GetTotalTxSize() uint64 {
	return m.totalTxSize
}

func (m *TxMempool) TransactionsUpdated() uint64 {
	return m.transactionsUpdated
}

func (m *TxMempool) Exists(hash util.Hash) bool {
	_, ok := m.poolData[hash]
	return ok
}

func (m *TxMempool) FindTxEntry(hash util.Hash) *TxEntry {
	return m.poolData[hash]
}

func (m *TxMempool) GetAllTxEntry() map[util.Hash]*TxEntry {
	return m.poolData
}

// TimeSortedEntries yields the pool in entry order, ties broken by txid.
func (m *TxMempool) TimeSortedEntries() []*TxEntry {
	result := make([]*TxEntry, 0, len(m.poolData))
	m.timeSortData.Ascend(func(i btree.Item) bool {
		result = append(result, i.(*TxEntry))
		return true
	})
	return result
}

// AncestorFeeRateIndex builds the derived ordering by ancestor feerate;
// the maximum element is the best candidate package.
func (m *TxMempool) AncestorFeeRateIndex() *btree.BTree {
	b := btree.New(32)
	for _, entry := range m.poolData {
		b.ReplaceOrInsert(EntryAncestorFeeRateSort(*entry))
	}
	return b
}

// AddTx enters a transaction whose inputs are either confirmed or already
// in the pool, and settles its ancestor aggregates.
func (m *TxMempool) AddTx(txn *tx.Tx, txFee int64, acceptTime int64, height int32,
	inChainInputValue amount.Amount, entryPriority float64) error {
	hash := txn.GetHash()
	if _, ok := m.poolData[hash]; ok {
		return errcode.New(errcode.ErrorAlreadyExistsInMemPool)
	}

	entry := NewTxEntry(txn, txFee, acceptTime, height, inChainInputValue, entryPriority)
	if delta, ok := m.mapDeltas[hash]; ok && delta.fee != 0 {
		entry.UpdateFeeDelta(delta.fee)
	}

	ancestors, err := m.CalculateMemPoolAncestors(txn, noLimit, noLimit, noLimit, noLimit, true)
	if err != nil {
		return err
	}

	for _, preout := range txn.GetAllPreviousOut() {
		if parent, ok := m.poolData[preout.Hash]; ok {
			entry.UpdateParent(parent, true)
			parent.UpdateChild(entry, true)
		}
	}

	for ancestor := range ancestors {
		entry.UpdateAncestorState(1, ancestor.TxSize, ancestor.SigOpCount, ancestor.GetModifiedFee())
	}

	m.poolData[hash] = entry
	m.timeSortData.ReplaceOrInsert(entry)
	m.totalTxSize += uint64(entry.TxSize)
	m.transactionsUpdated++

	return nil
}

const noLimit = uint64(18446744073709551615)

// CalculateMemPoolAncestors yields every unconfirmed ancestor of txn. With
// fSearchForParents the walk starts from the transaction inputs, so it also
// works for transactions not yet in the pool.
func (m *TxMempool) CalculateMemPoolAncestors(txn *tx.Tx, limitAncestorCount, limitAncestorSize,
	limitDescendantCount, limitDescendantSize uint64, fSearchForParents bool) (map[*TxEntry]struct{}, error) {

	parents := make(map[*TxEntry]struct{})
	if fSearchForParents {
		for _, preout := range txn.GetAllPreviousOut() {
			if parent, ok := m.poolData[preout.Hash]; ok {
				parents[parent] = struct{}{}
				if uint64(len(parents)) > limitAncestorCount {
					return nil, errcode.NewError(errcode.ErrorOutOfMemPool, "too many unconfirmed parents")
				}
			}
		}
	} else {
		entry, ok := m.poolData[txn.GetHash()]
		if !ok {
			return nil, errcode.New(errcode.ErrorNotExistsInMemPool)
		}
		for parent := range entry.ParentTx {
			parents[parent] = struct{}{}
		}
	}

	ancestors := make(map[*TxEntry]struct{})
	stage := make([]*TxEntry, 0, len(parents))
	for parent := range parents {
		stage = append(stage, parent)
	}
	for len(stage) > 0 {
		entry := stage[0]
		stage = stage[1:]
		if _, ok := ancestors[entry]; ok {
			continue
		}
		ancestors[entry] = struct{}{}
		if uint64(len(ancestors)) > limitAncestorCount {
			return nil, errcode.NewError(errcode.ErrorOutOfMemPool, "too many unconfirmed ancestors")
		}
		for parent := range entry.ParentTx {
			if _, ok := ancestors[parent]; !ok {
				stage = append(stage, parent)
			}
		}
	}

	return ancestors, nil
}

// CalculateDescendants collects entry and its full transitive descendant
// set.
func (m *TxMempool) CalculateDescendants(entry *TxEntry) set.Interface {
	descendants := set.New(set.ThreadSafe)
	stage := []*TxEntry{entry}
	for len(stage) > 0 {
		desc := stage[0]
		stage = stage[1:]
		if descendants.Has(desc) {
			continue
		}
		descendants.Add(desc)
		for child := range desc.ChildTx {
			if !descendants.Has(child) {
				stage = append(stage, child)
			}
		}
	}
	return descendants
}

// PrioritiseTransaction applies an operator bump that outlives the entry.
func (m *TxMempool) PrioritiseTransaction(hash util.Hash, priorityDelta float64, feeDelta int64) {
	delta := m.mapDeltas[hash]
	delta.priority += priorityDelta
	delta.fee += feeDelta
	m.mapDeltas[hash] = delta

	if entry, ok := m.poolData[hash]; ok {
		diff := delta.fee - entry.FeeDelta
		entry.UpdateFeeDelta(delta.fee)
		descendants := m.CalculateDescendants(entry)
		descendants.Each(func(item interface{}) bool {
			desc := item.(*TxEntry)
			if desc != entry {
				desc.SumTxFeeWithAncestors += diff
			}
			return true
		})
		m.transactionsUpdated++
	}
}

// ApplyDeltas folds the stored operator bumps into a priority and fee pair.
func (m *TxMempool) ApplyDeltas(hash util.Hash, dPriority float64, fee int64) (float64, int64) {
	if delta, ok := m.mapDeltas[hash]; ok {
		dPriority += delta.priority
		fee += delta.fee
	}
	return dPriority, fee
}

func (m *TxMempool) ClearPrioritisation(hash util.Hash) {
	delete(m.mapDeltas, hash)
}

// AllowFree large (in bytes) low-priority (new, small-coin) transactions
// need a fee.
func AllowFree(priority float64) bool {
	return priority > AllowFreeThreshold()
}

func AllowFreeThreshold() float64 {
	return float64(amount.COIN) * 144 / 250
}
