package mining

import (
	"container/heap"
	"math"
	"sort"
	"sync/atomic"

	"github.com/wonko433/blackcoin-more/conf"
	"github.com/wonko433/blackcoin-more/errcode"
	"github.com/wonko433/blackcoin-more/log"
	"github.com/wonko433/blackcoin-more/logic/lblock"
	"github.com/wonko433/blackcoin-more/logic/merkleroot"
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
	"github.com/wonko433/blackcoin-more/model/versionbits"
	"github.com/wonko433/blackcoin-more/util"
	"github.com/wonko433/blackcoin-more/util/amount"
)

// global values for getmininginfo rpc use
var (
	lastBlockTx                 uint64
	lastBlockSize               uint64
	lastCoinStakeSearchInterval int64
)

func GetLastBlockTx() uint64 {
	return atomic.LoadUint64(&lastBlockTx)
}

func GetLastBlockSize() uint64 {
	return atomic.LoadUint64(&lastBlockSize)
}

func GetLastCoinStakeSearchInterval() int64 {
	return atomic.LoadInt64(&lastCoinStakeSearchInterval)
}

type BlockTemplate struct {
	Block         *block.Block
	TxFees        []amount.Amount
	TxSigOpsCount []int
}

func newBlockTemplate() *BlockTemplate {
	return &BlockTemplate{
		Block:         block.NewBlock(),
		TxFees:        make([]amount.Amount, 0),
		TxSigOpsCount: make([]int, 0),
	}
}

// TotalFees is the fee sum encoded as the negated coinbase slot.
func (bt *BlockTemplate) TotalFees() amount.Amount {
	if len(bt.TxFees) == 0 {
		return 0
	}
	return -bt.TxFees[0]
}

// BlockAssembler generates a new block, without valid proof of work or a
// signed coinstake.
type BlockAssembler struct {
	bt                    *BlockTemplate
	maxGeneratedBlockSize uint64
	blockMinFeeRate       util.FeeRate
	blockSize             uint64
	blockTx               uint64
	blockSigOps           uint64
	fees                  amount.Amount
	inBlock               map[util.Hash]struct{}
	height                int32
	lockTimeCutoff        int64
	fProofOfStake         bool
	lastFewTxs            int
	blockFinished         bool
	chainParams           *chainparams.BlackcoinParams
}

func NewBlockAssembler(params *chainparams.BlackcoinParams) *BlockAssembler {
	ba := new(BlockAssembler)
	ba.bt = newBlockTemplate()
	ba.chainParams = params
	ba.blockMinFeeRate = *util.NewFeeRate(conf.Cfg.Mining.BlockMinTxFee)
	ba.maxGeneratedBlockSize = computeMaxGeneratedBlockSize()
	return ba
}

func (ba *BlockAssembler) resetBlock() {
	ba.inBlock = make(map[util.Hash]struct{})
	// Reserve space for coinbase tx.
	ba.blockSize = consensus.CoinbaseReserveSize
	ba.blockSigOps = consensus.CoinbaseReserveSigOps

	// These counters do not include coinbase tx.
	ba.blockTx = 0
	ba.fees = 0

	ba.lastFewTxs = 0
	ba.blockFinished = false
}

func computeMaxGeneratedBlockSize() uint64 {
	maxGeneratedBlockSize := conf.Cfg.Mining.BlockMaxSize

	// Limit size to between 1K and MaxBlockSize-1K for sanity:
	csize := consensus.MaxBlockSize - 1000
	if csize < maxGeneratedBlockSize {
		maxGeneratedBlockSize = csize
	}
	if maxGeneratedBlockSize < 1000 {
		maxGeneratedBlockSize = 1000
	}
	return maxGeneratedBlockSize
}

// CreateNewBlock selects transactions under both locks and wraps them in a
// template ready for hashing (PoW) or coinstake signing (PoS). For proof
// of stake the coinbase output stays empty and scriptPubKey is unused.
func (ba *BlockAssembler) CreateNewBlock(scriptPubKey *script.Script, fProofOfStake bool) (*BlockTemplate, error) {
	timeStart := util.GetTimeMicroSec()

	ba.resetBlock()
	ba.fProofOfStake = fProofOfStake
	ba.bt = newBlockTemplate()
	if ba.bt == nil {
		return nil, errcode.New(errcode.ErrorOutOfResources)
	}

	gChain := chain.GetInstance()
	gChain.Lock()
	defer gChain.Unlock()
	pool := mempool.GetInstance()
	pool.RLock()
	defer pool.RUnlock()

	indexPrev := gChain.Tip()
	if indexPrev == nil {
		return nil, errcode.New(errcode.ErrorTipUnavailable)
	}
	ba.height = indexPrev.Height + 1

	// add dummy coinbase tx as first transaction
	ba.bt.Block.Txs = append(ba.bt.Block.Txs, tx.NewTx(0, tx.DefaultVersion))
	ba.bt.TxFees = append(ba.bt.TxFees, -1)
	ba.bt.TxSigOpsCount = append(ba.bt.TxSigOpsCount, -1)

	ba.bt.Block.Header.Version = versionbits.ComputeBlockVersion(indexPrev, ba.chainParams)
	// -regtest only: allow overriding block.nVersion with -blockversion=N
	// to test forking scenarios
	if ba.chainParams.MineBlocksOnDemand && conf.Cfg.Mining.BlockVersion != -1 {
		ba.bt.Block.Header.Version = conf.Cfg.Mining.BlockVersion
	}
	ba.bt.Block.Header.Time = uint32(util.GetAdjustedTimeSec())
	ba.maxGeneratedBlockSize = computeMaxGeneratedBlockSize()

	if consensus.StandardLockTimeVerifyFlags&consensus.LocktimeMedianTimePast != 0 {
		ba.lockTimeCutoff = indexPrev.GetMedianTimePast()
	} else {
		ba.lockTimeCutoff = ba.bt.Block.Header.GetBlockTime()
	}

	ba.addPriorityTxs(pool, ba.bt.Block.Header.GetBlockTime(), fProofOfStake)
	nPackagesSelected, nDescendantsUpdated := ba.addPackageTxs(pool)

	time1 := util.GetTimeMicroSec()

	// record last mining info for getmininginfo rpc using
	atomic.StoreUint64(&lastBlockTx, ba.blockTx)
	atomic.StoreUint64(&lastBlockSize, ba.blockSize)

	// Create coinbase transaction
	coinbaseTx := tx.NewTx(0, tx.DefaultVersion)
	coinbaseTx.SetTime(ba.bt.Block.Header.Time)
	scriptSig := script.NewEmptyScript()
	scriptSig.PushInt64(int64(ba.height))
	scriptSig.PushOpCode(opcodes.OP_0)
	coinbaseTx.AddTxIn(txin.NewTxIn(outpoint.NewNullOutPoint(), scriptSig, math.MaxUint32))
	if fProofOfStake {
		// Make the coinbase tx empty in case of proof of stake
		out := txout.NewTxOut(0, nil)
		out.SetEmpty()
		coinbaseTx.AddTxOut(out)
	} else {
		value := ba.fees + chainparams.GetProofOfWorkSubsidy(ba.height, ba.chainParams)
		coinbaseTx.AddTxOut(txout.NewTxOut(value, scriptPubKey))
	}
	ba.bt.Block.Txs[0] = coinbaseTx
	ba.bt.TxFees[0] = -1 * ba.fees // coinbase's fee item is equal to tx fee sum for negative value

	// Fill in header
	ba.bt.Block.Header.HashPrevBlock = *indexPrev.GetBlockHash()
	maxTxTime := ba.bt.Block.GetMaxTransactionTime()
	headerTime := indexPrev.GetPastTimeLimit() + 1
	if maxTxTime > headerTime {
		headerTime = maxTxTime
	}
	ba.bt.Block.Header.Time = uint32(headerTime)
	if !fProofOfStake {
		UpdateTime(ba.bt.Block, indexPrev)
	}
	p := pow.Pow{}
	ba.bt.Block.Header.Bits = p.GetNextWorkRequired(indexPrev, &ba.bt.Block.Header, fProofOfStake, ba.chainParams)
	ba.bt.Block.Header.Nonce = 0
	ba.bt.TxSigOpsCount[0] = coinbaseTx.GetSigOpCountWithoutP2SH()
	ba.bt.Block.Header.MerkleRoot = merkleroot.BlockMerkleRoot(ba.bt.Block.Txs, nil)

	if !fProofOfStake {
		if err := lblock.TestBlockValidity(ba.bt.Block, indexPrev); err != nil {
			log.Error("CreateNewBlock: TestBlockValidity failed: %v", err)
			return nil, errcode.NewError(errcode.ErrorValidityCheckFailed, err.Error())
		}
	}

	time2 := util.GetTimeMicroSec()
	log.Debug("CreateNewBlock() packages: %.2fms (%d packages, %d updated descendants), "+
		"validity: %.2fms (total %.2fms), txs: %d size: %d fees: %d sigops: %d",
		0.001*float64(time1-timeStart), nPackagesSelected, nDescendantsUpdated,
		0.001*float64(time2-time1), 0.001*float64(time2-timeStart),
		ba.blockTx, ba.blockSize, ba.fees, ba.blockSigOps)

	return ba.bt, nil
}

func (ba *BlockAssembler) addToBlock(te *mempool.TxEntry) {
	ba.bt.Block.Txs = append(ba.bt.Block.Txs, te.Tx)
	ba.bt.TxFees = append(ba.bt.TxFees, amount.Amount(te.TxFee))
	ba.bt.TxSigOpsCount = append(ba.bt.TxSigOpsCount, te.SigOpCount)
	ba.blockSize += uint64(te.TxSize)
	ba.blockTx++
	ba.blockSigOps += uint64(te.SigOpCount)
	ba.fees += amount.Amount(te.TxFee)
	ba.inBlock[te.Tx.GetHash()] = struct{}{}

	if conf.Cfg.Mining.PrintPriority {
		hash := te.Tx.GetHash()
		dPriority := te.GetPriority(ba.height)
		dPriority, _ = mempool.GetInstance().ApplyDeltas(hash, dPriority, 0)
		feeRate := util.NewFeeRateWithSize(te.GetModifiedFee(), int64(te.TxSize))
		log.Info("priority %.1f fee %s txid %s", dPriority, feeRate.String(), hash.ToString())
	}
}

// testPackage applies the block-wide size and sigop budgets to a candidate
// package. The size check runs against the default generated size, not the
// runtime cap; the runtime cap is enforced per transaction afterwards.
func (ba *BlockAssembler) testPackage(packageSize uint64, packageSigOps int64) bool {
	if ba.blockSize+packageSize >= consensus.DefaultMaxGeneratedBlockSize {
		return false
	}
	if ba.blockSigOps+uint64(packageSigOps) >= consensus.MaxBlockSigOps {
		return false
	}
	return true
}

// testPackageTransactions performs transaction-level checks before adding
// to block:
// - transaction finality (locktime)
// - stake-grid timestamps for proof of stake blocks
// - serialized size (in case -blockmaxsize is in use)
func (ba *BlockAssembler) testPackageTransactions(entries []*mempool.TxEntry) bool {
	potentialBlockSize := ba.blockSize
	for _, entry := range entries {
		if !entry.Tx.IsFinal(ba.height, ba.lockTimeCutoff) {
			return false
		}
		if ba.fProofOfStake && int64(entry.Tx.Time) > ba.bt.Block.Header.GetBlockTime() {
			return false
		}
		if potentialBlockSize+uint64(entry.TxSize) >= ba.maxGeneratedBlockSize {
			return false
		}
		potentialBlockSize += uint64(entry.TxSize)
	}
	return true
}

// testForBlock decides whether a single priority-phase candidate fits and
// tracks when the block is close enough to full to stop trying.
func (ba *BlockAssembler) testForBlock(te *mempool.TxEntry) bool {
	if ba.blockSize+uint64(te.TxSize) >= ba.maxGeneratedBlockSize {
		// If the block is so close to full that no more txs will fit or if
		// we've tried too many times to fill remaining space, then flag
		// that the block is finished.
		if ba.blockSize > ba.maxGeneratedBlockSize-fullWindow || ba.lastFewTxs > maxLastFewTxs {
			ba.blockFinished = true
			return false
		}
		// Once we're within 1000 bytes of a full block, only look at 50
		// more txs to try to fill the remaining space.
		if ba.blockSize > ba.maxGeneratedBlockSize-nearFullWindow {
			ba.lastFewTxs++
		}
		return false
	}

	if ba.blockSigOps+uint64(te.SigOpCount) >= consensus.MaxBlockSigOps {
		// If the block has room for no more sig ops then flag that the
		// block is finished.
		if ba.blockSigOps > consensus.MaxBlockSigOps-2 {
			ba.blockFinished = true
			return false
		}
		// Otherwise attempt to find another tx with fewer sigops to put in
		// the block.
		return false
	}

	return te.Tx.IsFinal(ba.height, ba.lockTimeCutoff)
}

func (ba *BlockAssembler) isStillDependent(te *mempool.TxEntry) bool {
	for parent := range te.ParentTx {
		if _, ok := ba.inBlock[parent.Tx.GetHash()]; !ok {
			return true
		}
	}
	return false
}

func (ba *BlockAssembler) onlyUnconfirmed(entries []*mempool.TxEntry) []*mempool.TxEntry {
	result := make([]*mempool.TxEntry, 0, len(entries))
	for _, entry := range entries {
		if _, ok := ba.inBlock[entry.Tx.GetHash()]; !ok {
			result = append(result, entry)
		}
	}
	return result
}

type byAncsCount []*mempool.TxEntry

func (a byAncsCount) Len() int      { return len(a) }
func (a byAncsCount) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a byAncsCount) Less(i, j int) bool {
	if a[i].SumTxCountWithAncestors == a[j].SumTxCountWithAncestors {
		ihash := a[i].Tx.GetHash()
		jhash := a[j].Tx.GetHash()
		return ihash.Cmp(&jhash) < 0
	}
	return a[i].SumTxCountWithAncestors < a[j].SumTxCountWithAncestors
}

// sortByAncestorCount yields a topological order: if A depends on B then
// A's ancestor count is strictly greater than B's.
func sortByAncestorCount(entries []*mempool.TxEntry) []*mempool.TxEntry {
	sort.Sort(byAncsCount(entries))
	return entries
}

// addPackageTxs orders the mempool by feerate of a transaction including
// all unconfirmed ancestors. Since transactions are not removed from the
// mempool as they are selected, the feerate of a transaction with
// not-yet-selected ancestors is updated as the block fills by shadowing
// descendants of selected transactions in a modified set. Each round the
// best mempool entry is weighed against the best modified entry to decide
// which package to work on next.
func (ba *BlockAssembler) addPackageTxs(pool *mempool.TxMempool) (nPackagesSelected, nDescendantsUpdated int) {
	mapModifiedTx := newModifiedTxSet()
	// Keep track of entries that failed inclusion, to avoid duplicate work.
	failedTx := make(map[util.Hash]struct{})

	// Start by shadowing descendants of transactions the priority phase
	// already placed.
	alreadyAdded := make([]*mempool.TxEntry, 0, len(ba.inBlock))
	for hash := range ba.inBlock {
		if entry := pool.FindTxEntry(hash); entry != nil {
			alreadyAdded = append(alreadyAdded, entry)
		}
	}
	nDescendantsUpdated += ba.updatePackagesForAdded(pool, alreadyAdded, mapModifiedTx)

	mapTx := pool.AncestorFeeRateIndex()
	consecutiveFailed := 0

	for mapTx.Len() > 0 || mapModifiedTx.len() > 0 {
		// Skip mapTx entries already in the block, shadowed by the
		// modified set (their cached aggregates are stale), or previously
		// failed.
		if mapTx.Len() > 0 {
			top := mapTx.Max().(mempool.EntryAncestorFeeRateSort)
			hash := top.Tx.GetHash()
			if _, ok := ba.inBlock[hash]; ok {
				mapTx.DeleteMax()
				continue
			}
			if mapModifiedTx.contains(hash) {
				mapTx.DeleteMax()
				continue
			}
			if _, ok := failedTx[hash]; ok {
				mapTx.DeleteMax()
				continue
			}
		}

		// Decide which stream supplies the next candidate package.
		var selected *mempool.TxEntry
		var packageSize int64
		var packageFees int64
		var packageSigOps int64
		usingModified := false

		if mapTx.Len() == 0 {
			mod := mapModifiedTx.top()
			selected = mod.origin
			packageSize = mod.sizeWithAncestors
			packageFees = mod.modFeesWithAncestors
			packageSigOps = mod.sigOpCountWithAncestors
			usingModified = true
		} else {
			top := mempool.TxEntry(mapTx.Max().(mempool.EntryAncestorFeeRateSort))
			if mod := mapModifiedTx.top(); mod != nil && mod.beatsRaw(&top) {
				selected = mod.origin
				packageSize = mod.sizeWithAncestors
				packageFees = mod.modFeesWithAncestors
				packageSigOps = mod.sigOpCountWithAncestors
				usingModified = true
			} else {
				selected = pool.FindTxEntry(top.Tx.GetHash())
				if selected == nil {
					mapTx.DeleteMax()
					continue
				}
				packageSize = top.SumTxSizeWithAncestors
				packageFees = top.SumTxFeeWithAncestors
				packageSigOps = top.SumTxSigOpCountWithAncestors
				mapTx.DeleteMax()
			}
		}

		hash := selected.Tx.GetHash()

		if packageFees < ba.blockMinFeeRate.GetFee(int(packageSize)) {
			// Everything else we might consider has a lower fee rate.
			return nPackagesSelected, nDescendantsUpdated
		}

		if !ba.testPackage(uint64(packageSize), packageSigOps) {
			if usingModified {
				// Since we always look at the best entry in the modified
				// set, failed entries must be erased so the next best one
				// is considered on the next loop iteration.
				mapModifiedTx.remove(hash)
				failedTx[hash] = struct{}{}
			}

			consecutiveFailed++
			if consecutiveFailed > maxConsecutiveFailures &&
				ba.blockSize > ba.maxGeneratedBlockSize-4000 {
				// Give up if we're close to full and haven't succeeded in a
				// while.
				break
			}
			continue
		}

		noLimit := uint64(math.MaxUint64)
		ancestors, _ := pool.CalculateMemPoolAncestors(selected.Tx, noLimit, noLimit, noLimit, noLimit, false)
		packageEntries := make([]*mempool.TxEntry, 0, len(ancestors)+1)
		for ancestor := range ancestors {
			packageEntries = append(packageEntries, ancestor)
		}
		packageEntries = ba.onlyUnconfirmed(packageEntries)
		packageEntries = append(packageEntries, selected)
		packageEntries = sortByAncestorCount(packageEntries)

		if !ba.testPackageTransactions(packageEntries) {
			if usingModified {
				mapModifiedTx.remove(hash)
				failedTx[hash] = struct{}{}
			}
			continue
		}

		// This package will make it in; reset the failed counter.
		consecutiveFailed = 0

		for _, item := range packageEntries {
			ba.addToBlock(item)
			mapModifiedTx.remove(item.Tx.GetHash())
		}

		nPackagesSelected++
		nDescendantsUpdated += ba.updatePackagesForAdded(pool, packageEntries, mapModifiedTx)
	}
	return nPackagesSelected, nDescendantsUpdated
}

// updatePackagesForAdded shadows every not-yet-placed descendant of the
// newly placed entries with aggregates reduced by the placed ancestors.
func (ba *BlockAssembler) updatePackagesForAdded(pool *mempool.TxMempool,
	alreadyAdded []*mempool.TxEntry, mapModifiedTx *modifiedTxSet) int {
	descendantsUpdated := 0

	addedSet := make(map[util.Hash]struct{}, len(alreadyAdded))
	for _, entry := range alreadyAdded {
		addedSet[entry.Tx.GetHash()] = struct{}{}
	}

	for _, entry := range alreadyAdded {
		descendants := pool.CalculateDescendants(entry)
		descendants.Each(func(item interface{}) bool {
			desc := item.(*mempool.TxEntry)
			hash := desc.Tx.GetHash()
			if _, ok := addedSet[hash]; ok {
				return true
			}
			if _, ok := ba.inBlock[hash]; ok {
				return true
			}
			descendantsUpdated++
			mapModifiedTx.addOrUpdate(desc, entry)
			return true
		})
	}
	return descendantsUpdated
}

type txCoinAgePriority struct {
	priority float64
	entry    *mempool.TxEntry
}

type txPriorityHeap []txCoinAgePriority

func (h txPriorityHeap) Len() int      { return len(h) }
func (h txPriorityHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h txPriorityHeap) Less(i, j int) bool {
	if h[i].priority == h[j].priority {
		ihash := h[i].entry.Tx.GetHash()
		jhash := h[j].entry.Tx.GetHash()
		return ihash.Cmp(&jhash) < 0
	}
	return h[i].priority > h[j].priority
}

func (h *txPriorityHeap) Push(x interface{}) {
	*h = append(*h, x.(txCoinAgePriority))
}

func (h *txPriorityHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// addPriorityTxs fills the head-of-block region reserved for coin-age
// priority transactions, included regardless of the fees they pay.
func (ba *BlockAssembler) addPriorityTxs(pool *mempool.TxMempool, blockTime int64, fProofOfStake bool) {
	blockPrioritySize := conf.Cfg.Mining.BlockPrioritySize
	if blockPrioritySize > ba.maxGeneratedBlockSize {
		blockPrioritySize = ba.maxGeneratedBlockSize
	}
	if blockPrioritySize == 0 {
		return
	}

	vecPriority := make(txPriorityHeap, 0, pool.Size())
	waitPriMap := make(map[util.Hash]float64)

	for _, entry := range pool.TimeSortedEntries() {
		hash := entry.Tx.GetHash()
		dPriority := entry.GetPriority(ba.height)
		dPriority, _ = pool.ApplyDeltas(hash, dPriority, 0)
		vecPriority = append(vecPriority, txCoinAgePriority{dPriority, entry})
	}
	heap.Init(&vecPriority)

	for vecPriority.Len() > 0 && !ba.blockFinished {
		top := heap.Pop(&vecPriority).(txCoinAgePriority)
		entry := top.entry
		actualPriority := top.priority
		hash := entry.Tx.GetHash()

		// If tx already in block, skip.
		if _, ok := ba.inBlock[hash]; ok {
			continue
		}

		// Stake-grid transactions from the future cannot enter this block.
		if fProofOfStake && blockTime < int64(entry.Tx.Time) {
			continue
		}

		// If tx is dependent on other mempool txs which haven't yet been
		// included then put it in the wait set.
		if ba.isStillDependent(entry) {
			waitPriMap[hash] = actualPriority
			continue
		}

		// If this tx fits in the block add it, otherwise keep looping.
		if !ba.testForBlock(entry) {
			continue
		}
		ba.addToBlock(entry)

		// If now that this tx is added we've surpassed our desired priority
		// size or have dropped below the AllowFree threshold, we're done.
		if ba.blockSize >= blockPrioritySize || !mempool.AllowFree(actualPriority) {
			break
		}

		// This tx was successfully added, so add transactions that depend
		// on this one to the priority queue to try again.
		for child := range entry.ChildTx {
			childHash := child.Tx.GetHash()
			if prio, ok := waitPriMap[childHash]; ok {
				heap.Push(&vecPriority, txCoinAgePriority{prio, child})
				delete(waitPriMap, childHash)
			}
		}
	}
}

// UpdateTime lifts the header time to the adjusted clock without letting
// it fall below the past-time limit; on min-difficulty networks the bits
// follow the new time.
func UpdateTime(bk *block.Block, indexPrev *blockindex.BlockIndex) int64 {
	oldTime := int64(bk.Header.Time)
	newTime := indexPrev.GetPastTimeLimit() + 1
	if at := util.GetAdjustedTimeSec(); at > newTime {
		newTime = at
	}
	if oldTime < newTime {
		bk.Header.Time = uint32(newTime)
	}

	// Updating time can change work required on testnet:
	params := chain.GetInstance().GetParams()
	if params.FPowAllowMinDifficultyBlocks {
		p := pow.Pow{}
		bk.Header.Bits = p.GetNextWorkRequired(indexPrev, &bk.Header, bk.IsProofOfStake(), params)
	}

	return newTime - oldTime
}
