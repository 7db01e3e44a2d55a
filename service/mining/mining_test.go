package mining

import (
	"math"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonko433/blackcoin-more/conf"
	"github.com/wonko433/blackcoin-more/model/block"
	"github.com/wonko433/blackcoin-more/model/blockindex"
	"github.com/wonko433/blackcoin-more/model/chain"
	"github.com/wonko433/blackcoin-more/model/chainparams"
	"github.com/wonko433/blackcoin-more/model/consensus"
	"github.com/wonko433/blackcoin-more/model/mempool"
	"github.com/wonko433/blackcoin-more/model/opcodes"
	"github.com/wonko433/blackcoin-more/model/outpoint"
	"github.com/wonko433/blackcoin-more/model/pow"
	"github.com/wonko433/blackcoin-more/model/script"
	"github.com/wonko433/blackcoin-more/model/tx"
	"github.com/wonko433/blackcoin-more/model/txin"
	"github.com/wonko433/blackcoin-more/model/txout"
	"github.com/wonko433/blackcoin-more/util"
	"github.com/wonko433/blackcoin-more/util/amount"
)

const (
	testTipHeight = 100
	testTipTime   = 1600000000
)

// initTestEnv pins a regtest chain of 101 proof of work blocks ending at
// testTipTime with an empty mempool and a mocked clock just past the tip.
func initTestEnv(t *testing.T) *chainparams.BlackcoinParams {
	t.Helper()

	conf.Cfg = &conf.Configuration{}
	conf.Cfg.Mining.BlockMaxSize = consensus.DefaultMaxGeneratedBlockSize
	conf.Cfg.Mining.BlockMinTxFee = consensus.DefaultBlockMinTxFee
	conf.Cfg.Mining.BlockPrioritySize = consensus.DefaultBlockPrioritySize
	conf.Cfg.Mining.BlockVersion = -1

	chainparams.SetRegTestParams()
	params := chainparams.ActiveNetParams

	chain.InitGlobalChain(params)
	gChain := chain.GetInstance()

	bits := pow.BigToCompact(params.PowLimit)
	var prev *blockindex.BlockIndex
	for height := int32(0); height <= testTipHeight; height++ {
		header := block.NewBlockHeader()
		header.Version = 1
		header.Bits = bits
		header.Time = uint32(testTipTime - int64(testTipHeight-height)*params.TargetSpacing)
		if prev != nil {
			header.HashPrevBlock = *prev.GetBlockHash()
		}
		index := blockindex.NewBlockIndex(header)
		index.Height = height
		index.Prev = prev
		prev = index
	}
	gChain.SetTip(prev)

	mempool.InitMempool()
	util.SetMockTime(testTipTime + 50)
	t.Cleanup(func() { util.SetMockTime(0) })

	return params
}

var testTxCounter uint32

// fakeConfirmedHash yields a unique prevout hash outside the mempool so
// the spending tx has no unconfirmed parents.
func fakeConfirmedHash() util.Hash {
	testTxCounter++
	var h util.Hash
	h[0] = byte(testTxCounter)
	h[1] = byte(testTxCounter >> 8)
	h[31] = 0x7f
	return h
}

// makeTestTx builds a transaction of exactly sizeTarget bytes spending the
// given prevouts.
func makeTestTx(t *testing.T, prevouts []outpoint.OutPoint, sizeTarget uint32) *tx.Tx {
	t.Helper()

	build := func(padLen, filler int) *tx.Tx {
		txn := tx.NewTx(0, tx.DefaultVersion)
		for i, prevout := range prevouts {
			scriptSig := script.NewEmptyScript()
			if i == 0 {
				if padLen > 0 {
					scriptSig.PushData(make([]byte, padLen))
				}
				for j := 0; j < filler; j++ {
					scriptSig.PushOpCode(opcodes.OP_0)
				}
			}
			p := prevout
			txn.AddTxIn(txin.NewTxIn(&p, scriptSig, math.MaxUint32))
		}
		scriptPubKey := script.NewEmptyScript()
		scriptPubKey.PushOpCode(opcodes.OP_TRUE)
		txn.AddTxOut(txout.NewTxOut(amount.Amount(10000+testTxCounter), scriptPubKey))
		return txn
	}

	if sizeTarget == 0 {
		return build(0, 0)
	}
	for padLen := 0; padLen < int(sizeTarget); padLen++ {
		for filler := 0; filler < 3; filler++ {
			txn := build(padLen, filler)
			if txn.SerializeSize() == sizeTarget {
				return txn
			}
		}
	}
	t.Fatalf("cannot pad tx to %d bytes", sizeTarget)
	return nil
}

func addIndependentTx(t *testing.T, pool *mempool.TxMempool, sizeTarget uint32, fee int64) *tx.Tx {
	t.Helper()
	txn := makeTestTx(t, []outpoint.OutPoint{{Hash: fakeConfirmedHash(), Index: 0}}, sizeTarget)
	require.NoError(t, pool.AddTx(txn, fee, testTipTime, testTipHeight, 0, 0))
	return txn
}

func addChildTx(t *testing.T, pool *mempool.TxMempool, parent *tx.Tx, sizeTarget uint32, fee int64) *tx.Tx {
	t.Helper()
	txn := makeTestTx(t, []outpoint.OutPoint{{Hash: parent.GetHash(), Index: 0}}, sizeTarget)
	require.NoError(t, pool.AddTx(txn, fee, testTipTime, testTipHeight, 0, 0))
	return txn
}

func templateHashes(bt *BlockTemplate) []util.Hash {
	hashes := make([]util.Hash, 0, len(bt.Block.Txs))
	for _, txn := range bt.Block.Txs {
		hashes = append(hashes, txn.GetHash())
	}
	return hashes
}

func opTrueScript() *script.Script {
	s := script.NewEmptyScript()
	s.PushOpCode(opcodes.OP_TRUE)
	return s
}

func TestCreateNewBlockEmptyMempool(t *testing.T) {
	params := initTestEnv(t)

	ba := NewBlockAssembler(params)
	bt, err := ba.CreateNewBlock(opTrueScript(), false)
	require.NoError(t, err)
	require.NotNil(t, bt)

	assert.Equal(t, 1, len(bt.Block.Txs))
	assert.True(t, bt.Block.Txs[0].IsCoinBase())
	assert.Equal(t, amount.Amount(0), bt.TotalFees())
	assert.Equal(t, chainparams.GetProofOfWorkSubsidy(testTipHeight+1, params),
		bt.Block.Txs[0].GetTxOut(0).GetValue())
	assert.Equal(t, pow.BigToCompact(params.PowLimit), bt.Block.Header.Bits)
	assert.Equal(t, uint64(0), GetLastBlockTx())
}

func TestCreateNewBlockNoTip(t *testing.T) {
	params := initTestEnv(t)
	chain.GetInstance().SetTip(nil)

	ba := NewBlockAssembler(params)
	_, err := ba.CreateNewBlock(opTrueScript(), false)
	require.Error(t, err)
}

func TestFeeRateOrdering(t *testing.T) {
	params := initTestEnv(t)
	pool := mempool.GetInstance()

	tx10 := addIndependentTx(t, pool, 250, 10*250)
	tx20 := addIndependentTx(t, pool, 250, 20*250)
	tx30 := addIndependentTx(t, pool, 250, 30*250)

	ba := NewBlockAssembler(params)
	bt, err := ba.CreateNewBlock(opTrueScript(), false)
	require.NoError(t, err)

	hashes := templateHashes(bt)
	if !assert.Equal(t, 4, len(hashes)) {
		t.Log(spew.Sdump(bt))
	}
	assert.Equal(t, tx30.GetHash(), hashes[1])
	assert.Equal(t, tx20.GetHash(), hashes[2])
	assert.Equal(t, tx10.GetHash(), hashes[3])
	assert.Equal(t, amount.Amount((30+20+10)*250), bt.TotalFees())
}

func TestPackageSelection(t *testing.T) {
	params := initTestEnv(t)
	pool := mempool.GetInstance()

	parent := addIndependentTx(t, pool, 250, 5*250)
	child := addChildTx(t, pool, parent, 250, 100*250)
	peer := addIndependentTx(t, pool, 250, 40*250)

	ba := NewBlockAssembler(params)
	bt, err := ba.CreateNewBlock(opTrueScript(), false)
	require.NoError(t, err)

	hashes := templateHashes(bt)
	require.Equal(t, 4, len(hashes))
	// The parent+child package runs at 52.5 sat/byte and outranks the
	// standalone 40 sat/byte peer; the parent must precede the child.
	assert.Equal(t, parent.GetHash(), hashes[1])
	assert.Equal(t, child.GetHash(), hashes[2])
	assert.Equal(t, peer.GetHash(), hashes[3])
}

func TestAncestorOrderDeepChain(t *testing.T) {
	params := initTestEnv(t)
	pool := mempool.GetInstance()

	chainTxs := make([]*tx.Tx, 0, 10)
	prev := addIndependentTx(t, pool, 250, 10*250)
	chainTxs = append(chainTxs, prev)
	for i := 1; i < 10; i++ {
		prev = addChildTx(t, pool, prev, 250, int64(10+i)*250)
		chainTxs = append(chainTxs, prev)
	}

	ba := NewBlockAssembler(params)
	bt, err := ba.CreateNewBlock(opTrueScript(), false)
	require.NoError(t, err)

	hashes := templateHashes(bt)
	require.Equal(t, 11, len(hashes))
	for i, txn := range chainTxs {
		assert.Equal(t, txn.GetHash(), hashes[i+1], "depth %d out of order", i)
	}
}

func TestZeroFeePackageRejected(t *testing.T) {
	params := initTestEnv(t)
	pool := mempool.GetInstance()

	addIndependentTx(t, pool, 250, 0)

	ba := NewBlockAssembler(params)
	bt, err := ba.CreateNewBlock(opTrueScript(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, len(bt.Block.Txs))
}

func TestLowFeeParentCarriedByChild(t *testing.T) {
	params := initTestEnv(t)
	pool := mempool.GetInstance()

	// The parent alone sits below the fee floor; the child package carries
	// it across.
	parent := addIndependentTx(t, pool, 250, 0)
	child := addChildTx(t, pool, parent, 250, 100*250)

	ba := NewBlockAssembler(params)
	bt, err := ba.CreateNewBlock(opTrueScript(), false)
	require.NoError(t, err)

	hashes := templateHashes(bt)
	require.Equal(t, 3, len(hashes))
	assert.Equal(t, parent.GetHash(), hashes[1])
	assert.Equal(t, child.GetHash(), hashes[2])
}

func TestBlockMaxSizeOnlyCoinbase(t *testing.T) {
	params := initTestEnv(t)
	conf.Cfg.Mining.BlockMaxSize = 1001
	pool := mempool.GetInstance()

	addIndependentTx(t, pool, 250, 30*250)

	ba := NewBlockAssembler(params)
	bt, err := ba.CreateNewBlock(opTrueScript(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, len(bt.Block.Txs))
	assert.Equal(t, uint64(0), GetLastBlockTx())
}

func TestBlockMaxSizeClamp(t *testing.T) {
	initTestEnv(t)

	conf.Cfg.Mining.BlockMaxSize = 1
	assert.Equal(t, uint64(1000), computeMaxGeneratedBlockSize())

	conf.Cfg.Mining.BlockMaxSize = consensus.MaxBlockSize * 10
	assert.Equal(t, consensus.MaxBlockSize-1000, computeMaxGeneratedBlockSize())
}

func TestTemplateDeterminism(t *testing.T) {
	params := initTestEnv(t)
	pool := mempool.GetInstance()

	for i := 0; i < 20; i++ {
		addIndependentTx(t, pool, 250, int64(10+i%5)*250)
	}

	bt1, err := NewBlockAssembler(params).CreateNewBlock(opTrueScript(), false)
	require.NoError(t, err)
	bt2, err := NewBlockAssembler(params).CreateNewBlock(opTrueScript(), false)
	require.NoError(t, err)

	assert.Equal(t, templateHashes(bt1), templateHashes(bt2))
}

func TestFeeRateMonotoneForIndependentTxs(t *testing.T) {
	params := initTestEnv(t)
	pool := mempool.GetInstance()

	rates := []int64{7, 45, 12, 33, 90, 21, 60, 3}
	for _, r := range rates {
		addIndependentTx(t, pool, 250, r*250)
	}

	bt, err := NewBlockAssembler(params).CreateNewBlock(opTrueScript(), false)
	require.NoError(t, err)
	require.Equal(t, len(rates)+1, len(bt.Block.Txs))

	lastRate := int64(math.MaxInt64)
	for i := 1; i < len(bt.Block.Txs); i++ {
		rate := int64(bt.TxFees[i]) * 1000 / int64(bt.Block.Txs[i].SerializeSize())
		assert.LessOrEqual(t, rate, lastRate)
		lastRate = rate
	}
}

func TestPriorityPhase(t *testing.T) {
	params := initTestEnv(t)
	conf.Cfg.Mining.BlockPrioritySize = 600
	pool := mempool.GetInstance()

	// Zero fee but enough aged coin value behind it to clear the free
	// relay threshold.
	freeTx := makeTestTx(t, []outpoint.OutPoint{{Hash: fakeConfirmedHash(), Index: 0}}, 250)
	require.NoError(t, pool.AddTx(freeTx, 0, testTipTime, 1, 100000*amount.COIN, mempool.AllowFreeThreshold()*10))
	payingTx := addIndependentTx(t, pool, 250, 30*250)

	bt, err := NewBlockAssembler(params).CreateNewBlock(opTrueScript(), false)
	require.NoError(t, err)

	hashes := templateHashes(bt)
	require.Equal(t, 3, len(hashes))
	assert.Equal(t, freeTx.GetHash(), hashes[1])
	assert.Equal(t, payingTx.GetHash(), hashes[2])
}

func TestPriorityPhaseDisabled(t *testing.T) {
	params := initTestEnv(t)
	conf.Cfg.Mining.BlockPrioritySize = 0
	pool := mempool.GetInstance()

	freeTx := makeTestTx(t, []outpoint.OutPoint{{Hash: fakeConfirmedHash(), Index: 0}}, 250)
	require.NoError(t, pool.AddTx(freeTx, 0, testTipTime, 1, 100000*amount.COIN, mempool.AllowFreeThreshold()*10))

	bt, err := NewBlockAssembler(params).CreateNewBlock(opTrueScript(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, len(bt.Block.Txs))
}

func TestPriorityPhaseParentFirst(t *testing.T) {
	params := initTestEnv(t)
	conf.Cfg.Mining.BlockPrioritySize = 2000
	pool := mempool.GetInstance()

	parent := makeTestTx(t, []outpoint.OutPoint{{Hash: fakeConfirmedHash(), Index: 0}}, 250)
	require.NoError(t, pool.AddTx(parent, 0, testTipTime, 1, 100000*amount.COIN, mempool.AllowFreeThreshold()*10))
	child := makeTestTx(t, []outpoint.OutPoint{{Hash: parent.GetHash(), Index: 0}}, 250)
	// The child pops first on priority but must wait for its parent.
	require.NoError(t, pool.AddTx(child, 0, testTipTime, 1, 100000*amount.COIN, mempool.AllowFreeThreshold()*20))

	bt, err := NewBlockAssembler(params).CreateNewBlock(opTrueScript(), false)
	require.NoError(t, err)

	hashes := templateHashes(bt)
	require.Equal(t, 3, len(hashes))
	assert.Equal(t, parent.GetHash(), hashes[1])
	assert.Equal(t, child.GetHash(), hashes[2])
}

func TestTemplateInvariants(t *testing.T) {
	params := initTestEnv(t)
	pool := mempool.GetInstance()

	for i := 0; i < 10; i++ {
		parent := addIndependentTx(t, pool, 250, int64(5+i)*250)
		addChildTx(t, pool, parent, 250, int64(50-i)*250)
	}

	bt, err := NewBlockAssembler(params).CreateNewBlock(opTrueScript(), false)
	require.NoError(t, err)

	// Every in-mempool ancestor of an included tx appears at a lower index.
	seen := make(map[util.Hash]int)
	for i, txn := range bt.Block.Txs {
		seen[txn.GetHash()] = i
	}
	for i, txn := range bt.Block.Txs[1:] {
		for _, prevout := range txn.GetAllPreviousOut() {
			if pool.Exists(prevout.Hash) {
				parentIdx, ok := seen[prevout.Hash]
				require.True(t, ok, "in-mempool parent missing from block")
				assert.Less(t, parentIdx, i+1)
			}
		}
	}

	var totalSize uint64
	for _, txn := range bt.Block.Txs {
		totalSize += uint64(txn.SerializeSize())
	}
	assert.LessOrEqual(t, totalSize+consensus.CoinbaseReserveSize, conf.Cfg.Mining.BlockMaxSize)
	assert.Equal(t, len(bt.Block.Txs), len(bt.TxFees))
	assert.Equal(t, len(bt.Block.Txs), len(bt.TxSigOpsCount))
}

func TestPoSTemplateShape(t *testing.T) {
	params := initTestEnv(t)

	bt, err := NewBlockAssembler(params).CreateNewBlock(nil, true)
	require.NoError(t, err)

	require.Equal(t, 1, len(bt.Block.Txs))
	coinbase := bt.Block.Txs[0]
	require.True(t, coinbase.IsCoinBase())
	assert.True(t, coinbase.GetTxOut(0).IsEmpty())
}

func TestPoSSkipsFutureTimestampedTx(t *testing.T) {
	params := initTestEnv(t)
	pool := mempool.GetInstance()

	future := makeTestTx(t, []outpoint.OutPoint{{Hash: fakeConfirmedHash(), Index: 0}}, 250)
	future.SetTime(uint32(testTipTime + 100000))
	require.NoError(t, pool.AddTx(future, 30*250, testTipTime, testTipHeight, 0, 0))

	bt, err := NewBlockAssembler(params).CreateNewBlock(nil, true)
	require.NoError(t, err)
	assert.Equal(t, 1, len(bt.Block.Txs))
}
