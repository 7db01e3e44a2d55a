package mempool

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonko433/blackcoin-more/model/opcodes"
	"github.com/wonko433/blackcoin-more/model/outpoint"
	"github.com/wonko433/blackcoin-more/model/script"
	"github.com/wonko433/blackcoin-more/model/tx"
	"github.com/wonko433/blackcoin-more/model/txin"
	"github.com/wonko433/blackcoin-more/model/txout"
	"github.com/wonko433/blackcoin-more/util"
	"github.com/wonko433/blackcoin-more/util/amount"
)

var testCounter uint32

func newTestTx(prevouts ...outpoint.OutPoint) *tx.Tx {
	testCounter++
	txn := tx.NewTx(0, tx.DefaultVersion)
	if len(prevouts) == 0 {
		var h util.Hash
		h[0] = byte(testCounter)
		h[1] = byte(testCounter >> 8)
		h[31] = 0x7f
		prevouts = []outpoint.OutPoint{{Hash: h, Index: 0}}
	}
	for _, prevout := range prevouts {
		p := prevout
		txn.AddTxIn(txin.NewTxIn(&p, script.NewEmptyScript(), math.MaxUint32))
	}
	scriptPubKey := script.NewEmptyScript()
	scriptPubKey.PushOpCode(opcodes.OP_TRUE)
	txn.AddTxOut(txout.NewTxOut(amount.Amount(10000+testCounter), scriptPubKey))
	return txn
}

func spendOf(parent *tx.Tx) outpoint.OutPoint {
	return outpoint.OutPoint{Hash: parent.GetHash(), Index: 0}
}

func TestAddTxAncestorAggregates(t *testing.T) {
	pool := NewTxMempool()

	parent := newTestTx()
	require.NoError(t, pool.AddTx(parent, 1000, 1, 100, 0, 0))
	child := newTestTx(spendOf(parent))
	require.NoError(t, pool.AddTx(child, 2000, 2, 100, 0, 0))
	grandchild := newTestTx(spendOf(child))
	require.NoError(t, pool.AddTx(grandchild, 4000, 3, 100, 0, 0))

	pe := pool.FindTxEntry(parent.GetHash())
	ce := pool.FindTxEntry(child.GetHash())
	ge := pool.FindTxEntry(grandchild.GetHash())
	require.NotNil(t, pe)
	require.NotNil(t, ce)
	require.NotNil(t, ge)

	assert.Equal(t, int64(1), pe.SumTxCountWithAncestors)
	assert.Equal(t, int64(1000), pe.SumTxFeeWithAncestors)

	assert.Equal(t, int64(2), ce.SumTxCountWithAncestors)
	assert.Equal(t, int64(3000), ce.SumTxFeeWithAncestors)
	assert.Equal(t, int64(pe.TxSize+ce.TxSize), ce.SumTxSizeWithAncestors)

	assert.Equal(t, int64(3), ge.SumTxCountWithAncestors)
	assert.Equal(t, int64(7000), ge.SumTxFeeWithAncestors)
	assert.Equal(t, int64(pe.TxSize+ce.TxSize+ge.TxSize), ge.SumTxSizeWithAncestors)

	assert.Contains(t, ce.ParentTx, pe)
	assert.Contains(t, pe.ChildTx, ce)
}

func TestAddTxDuplicate(t *testing.T) {
	pool := NewTxMempool()
	txn := newTestTx()
	require.NoError(t, pool.AddTx(txn, 1000, 1, 100, 0, 0))
	assert.Error(t, pool.AddTx(txn, 1000, 1, 100, 0, 0))
}

func TestCalculateMemPoolAncestors(t *testing.T) {
	pool := NewTxMempool()

	parent := newTestTx()
	require.NoError(t, pool.AddTx(parent, 1000, 1, 100, 0, 0))
	child := newTestTx(spendOf(parent))
	require.NoError(t, pool.AddTx(child, 1000, 2, 100, 0, 0))
	grandchild := newTestTx(spendOf(child))
	require.NoError(t, pool.AddTx(grandchild, 1000, 3, 100, 0, 0))

	noLimit := uint64(math.MaxUint64)
	ancestors, err := pool.CalculateMemPoolAncestors(grandchild, noLimit, noLimit, noLimit, noLimit, false)
	require.NoError(t, err)
	assert.Equal(t, 2, len(ancestors))

	// Search-for-parents mode works for a tx not yet in the pool.
	orphan := newTestTx(spendOf(grandchild))
	ancestors, err = pool.CalculateMemPoolAncestors(orphan, noLimit, noLimit, noLimit, noLimit, true)
	require.NoError(t, err)
	assert.Equal(t, 3, len(ancestors))
}

func TestCalculateDescendants(t *testing.T) {
	pool := NewTxMempool()

	parent := newTestTx()
	require.NoError(t, pool.AddTx(parent, 1000, 1, 100, 0, 0))
	child1 := newTestTx(spendOf(parent))
	require.NoError(t, pool.AddTx(child1, 1000, 2, 100, 0, 0))
	child2 := newTestTx(outpoint.OutPoint{Hash: parent.GetHash(), Index: 1})
	require.NoError(t, pool.AddTx(child2, 1000, 3, 100, 0, 0))
	grandchild := newTestTx(spendOf(child1))
	require.NoError(t, pool.AddTx(grandchild, 1000, 4, 100, 0, 0))

	descendants := pool.CalculateDescendants(pool.FindTxEntry(parent.GetHash()))
	assert.Equal(t, 4, descendants.Size())
	assert.True(t, descendants.Has(pool.FindTxEntry(grandchild.GetHash())))
}

func TestAncestorFeeRateIndexOrdering(t *testing.T) {
	pool := NewTxMempool()

	low := newTestTx()
	require.NoError(t, pool.AddTx(low, 1000, 1, 100, 0, 0))
	high := newTestTx()
	require.NoError(t, pool.AddTx(high, 50000, 2, 100, 0, 0))

	index := pool.AncestorFeeRateIndex()
	best := TxEntry(index.Max().(EntryAncestorFeeRateSort))
	assert.Equal(t, high.GetHash(), best.Tx.GetHash())
}

func TestPrioritiseTransaction(t *testing.T) {
	pool := NewTxMempool()

	parent := newTestTx()
	require.NoError(t, pool.AddTx(parent, 1000, 1, 100, 0, 0))
	child := newTestTx(spendOf(parent))
	require.NoError(t, pool.AddTx(child, 1000, 2, 100, 0, 0))

	pe := pool.FindTxEntry(parent.GetHash())
	ce := pool.FindTxEntry(child.GetHash())

	pool.PrioritiseTransaction(parent.GetHash(), 0, 5000)
	assert.Equal(t, int64(6000), pe.GetModifiedFee())
	assert.Equal(t, int64(6000), pe.SumTxFeeWithAncestors)
	// The child's ancestor aggregate follows the parent's bump.
	assert.Equal(t, int64(7000), ce.SumTxFeeWithAncestors)

	prio, fee := pool.ApplyDeltas(parent.GetHash(), 1.0, 100)
	assert.Equal(t, 1.0, prio)
	assert.Equal(t, int64(5100), fee)
}

func TestPrioritiseBeforeEntry(t *testing.T) {
	pool := NewTxMempool()

	txn := newTestTx()
	pool.PrioritiseTransaction(txn.GetHash(), 0, 2500)
	require.NoError(t, pool.AddTx(txn, 1000, 1, 100, 0, 0))

	entry := pool.FindTxEntry(txn.GetHash())
	assert.Equal(t, int64(3500), entry.GetModifiedFee())
	assert.Equal(t, int64(3500), entry.SumTxFeeWithAncestors)
}

func TestTimeSortedEntries(t *testing.T) {
	pool := NewTxMempool()

	first := newTestTx()
	require.NoError(t, pool.AddTx(first, 1000, 10, 100, 0, 0))
	second := newTestTx()
	require.NoError(t, pool.AddTx(second, 1000, 20, 100, 0, 0))

	sorted := pool.TimeSortedEntries()
	require.Equal(t, 2, len(sorted))
	assert.Equal(t, first.GetHash(), sorted[0].Tx.GetHash())
	assert.Equal(t, second.GetHash(), sorted[1].Tx.GetHash())
}

func TestAllowFree(t *testing.T) {
	assert.False(t, AllowFree(AllowFreeThreshold()))
	assert.True(t, AllowFree(AllowFreeThreshold()+1))
}

func TestGetPriorityAges(t *testing.T) {
	txn := newTestTx()
	entry := NewTxEntry(txn, 0, 1, 100, 250*amount.COIN, 0)

	assert.Equal(t, float64(0), entry.GetPriority(100))
	aged := entry.GetPriority(244)
	assert.Greater(t, aged, AllowFreeThreshold())
}
