package mempool

import (
	"github.com/google/btree"

	"github.com/wonko433/blackcoin-more/model/tx"
	"github.com/wonko433/blackcoin-more/util"
	"github.com/wonko433/blackcoin-more/util/amount"
)

type TxEntry struct {
	Tx     *tx.Tx
	TxSize int
	// TxFee is the raw transaction fee, before any operator delta.
	TxFee    int64
	FeeDelta int64
	TxHeight int32
	// SigOpCount legacy sigop count; P2SH redeem scripts are not counted
	SigOpCount int
	// time Local time when entering the memPool
	time int64
	// EntryPriority is the coin age priority at entry; it grows with depth.
	EntryPriority float64
	// InChainInputValue sum of all txin values that are already in blockchain
	InChainInputValue amount.Amount
	// ChildTx the tx's direct children in the in-mempool DAG
	ChildTx map[*TxEntry]struct{}
	// ParentTx the tx's direct parents in the in-mempool DAG
	ParentTx map[*TxEntry]struct{}

	// Statistics for this entry together with its unconfirmed ancestors.
	StatisInformation
}

type StatisInformation struct {
	SumTxCountWithAncestors      int64
	SumTxSizeWithAncestors       int64
	SumTxSigOpCountWithAncestors int64
	// SumTxFeeWithAncestors accumulates modified fees, not raw fees.
	SumTxFeeWithAncestors int64
}

func NewTxEntry(txn *tx.Tx, txFee int64, acceptTime int64, height int32,
	inChainInputValue amount.Amount, entryPriority float64) *TxEntry {
	t := new(TxEntry)
	t.Tx = txn
	t.time = acceptTime
	t.TxSize = int(txn.SerializeSize())
	t.TxFee = txFee
	t.TxHeight = height
	t.EntryPriority = entryPriority
	t.InChainInputValue = inChainInputValue
	t.SigOpCount = txn.GetSigOpCountWithoutP2SH()

	t.SumTxFeeWithAncestors = txFee
	t.SumTxSizeWithAncestors = int64(t.TxSize)
	t.SumTxCountWithAncestors = 1
	t.SumTxSigOpCountWithAncestors = int64(t.SigOpCount)

	t.ParentTx = make(map[*TxEntry]struct{})
	t.ChildTx = make(map[*TxEntry]struct{})

	return t
}

func (t *TxEntry) GetTime() int64 {
	return t.time
}

// GetModifiedFee is the raw fee adjusted by the operator delta.
func (t *TxEntry) GetModifiedFee() int64 {
	return t.TxFee + t.FeeDelta
}

func (t *TxEntry) GetFeeRate() *util.FeeRate {
	return util.NewFeeRateWithSize(t.TxFee, int64(t.TxSize))
}

// GetPriority ages the entry priority by the depth gained since entry.
func (t *TxEntry) GetPriority(currentHeight int32) float64 {
	deltaPriority := float64(int64(currentHeight-t.TxHeight)) * float64(t.InChainInputValue) / float64(t.TxSize)
	result := t.EntryPriority + deltaPriority
	if result < 0 {
		result = 0
	}
	return result
}

// UpdateParent update the tx's parent transaction.
func (t *TxEntry) UpdateParent(parent *TxEntry, add bool) {
	if add {
		t.ParentTx[parent] = struct{}{}
		return
	}
	delete(t.ParentTx, parent)
}

func (t *TxEntry) UpdateChild(child *TxEntry, add bool) {
	if add {
		t.ChildTx[child] = struct{}{}
		return
	}
	delete(t.ChildTx, child)
}

func (t *TxEntry) UpdateAncestorState(updateCount, updateSize, updateSigOps int, updateFee int64) {
	t.SumTxSizeWithAncestors += int64(updateSize)
	t.SumTxCountWithAncestors += int64(updateCount)
	t.SumTxSigOpCountWithAncestors += int64(updateSigOps)
	t.SumTxFeeWithAncestors += updateFee
}

func (t *TxEntry) UpdateFeeDelta(newFeeDelta int64) {
	t.SumTxFeeWithAncestors = t.SumTxFeeWithAncestors + newFeeDelta - t.FeeDelta
	t.FeeDelta = newFeeDelta
}

// Less orders entries by entry time for the insertion-stable index.
func (t *TxEntry) Less(than btree.Item) bool {
	th := than.(*TxEntry)
	if t.time == th.time {
		thash := t.Tx.GetHash()
		thhash := th.Tx.GetHash()
		return thash.Cmp(&thhash) > 0
	}
	return t.time < th.time
}

// EntryAncestorFeeRateSort orders entries by ancestor feerate so that the
// maximum of the tree is the most attractive package.
type EntryAncestorFeeRateSort TxEntry

func (r EntryAncestorFeeRateSort) Less(than btree.Item) bool {
	t := than.(EntryAncestorFeeRateSort)
	b1 := util.NewFeeRateWithSize(r.SumTxFeeWithAncestors, r.SumTxSizeWithAncestors).SataoshisPerK
	b2 := util.NewFeeRateWithSize(t.SumTxFeeWithAncestors, t.SumTxSizeWithAncestors).SataoshisPerK
	if b1 == b2 {
		rhash := r.Tx.GetHash()
		thash := t.Tx.GetHash()
		return rhash.Cmp(&thash) > 0
	}
	return b1 < b2
}
