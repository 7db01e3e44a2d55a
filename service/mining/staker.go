package mining

import (
	"sync/atomic"
	"time"

	"github.com/wonko433/blackcoin-more/errcode"
	"github.com/wonko433/blackcoin-more/log"
	"github.com/wonko433/blackcoin-more/logic/merkleroot"
	"github.com/wonko433/blackcoin-more/model/block"
	"github.com/wonko433/blackcoin-more/model/blockindex"
	"github.com/wonko433/blackcoin-more/model/chain"
	"github.com/wonko433/blackcoin-more/model/chainparams"
	"github.com/wonko433/blackcoin-more/model/tx"
	"github.com/wonko433/blackcoin-more/util"
	"github.com/wonko433/blackcoin-more/util/amount"
)

const (
	walletLockedSleep = 10 * time.Second
	peerWaitSleep     = time.Second
	trySyncSleep      = time.Minute
	futureDriftSleep  = 3 * time.Second
	postStakeSleep    = 500 * time.Millisecond

	defaultMinerSleep = 500 * time.Millisecond
	regtestMinerSleep = 30 * time.Second

	// A best header older than this means the node is still catching up.
	staleHeaderAge = 10 * 60
)

// Staker is the long-lived worker that searches the quantized time grid
// for a signable coinstake and submits the resulting block.
type Staker struct {
	wallet StakerWallet
	net    NetStatus
	params *chainparams.BlackcoinParams

	quit           chan struct{}
	lastSearchTime int64
	trySync        bool
	minerSleep     time.Duration
}

func NewStaker(wallet StakerWallet, net NetStatus, params *chainparams.BlackcoinParams) *Staker {
	s := &Staker{
		wallet:     wallet,
		net:        net,
		params:     params,
		quit:       make(chan struct{}),
		trySync:    true,
		minerSleep: defaultMinerSleep,
	}
	if params.FPoSNoRetargeting {
		// Limit regtest to one search per 30s, otherwise it creates
		// multiple blocks per second.
		s.minerSleep = regtestMinerSleep
	}
	return s
}

// StartStaker spawns the staking worker from the registered collaborators.
func StartStaker(params *chainparams.BlackcoinParams) (*Staker, error) {
	if registeredWallet == nil {
		return nil, errcode.New(errcode.ErrorNoStakeableCoins)
	}
	if registeredNet == nil {
		return nil, errcode.NewError(errcode.ErrorNoStakeableCoins, "no network status source")
	}
	s := NewStaker(registeredWallet, registeredNet, params)
	go s.Run()
	return s, nil
}

func (s *Staker) Stop() {
	close(s.quit)
}

// sleep waits interruptibly; false means the staker was asked to stop.
func (s *Staker) sleep(d time.Duration) bool {
	select {
	case <-s.quit:
		return false
	case <-time.After(d):
		return true
	}
}

func (s *Staker) interrupted() bool {
	select {
	case <-s.quit:
		return true
	default:
		return false
	}
}

// Run drives the staking loop until Stop. Runtime faults are caught at
// this level so a panic in one iteration does not take the node down.
func (s *Staker) Run() {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Staker: runtime fault: %v", r)
		}
	}()
	log.Info("Staking started")

	regtest := s.params.FPoSNoRetargeting

	for {
		if s.interrupted() {
			log.Info("Staker: interrupted, exiting")
			return
		}

		for s.wallet.IsLocked() {
			atomic.StoreInt64(&lastCoinStakeSearchInterval, 0)
			if !s.sleep(walletLockedSleep) {
				log.Info("Staker: interrupted, exiting")
				return
			}
		}

		if !regtest {
			for s.net.NodeCount() == 0 || s.net.IsInitialBlockDownload() {
				atomic.StoreInt64(&lastCoinStakeSearchInterval, 0)
				s.trySync = true
				if !s.sleep(peerWaitSleep) {
					log.Info("Staker: interrupted, exiting")
					return
				}
			}
			if s.trySync {
				s.trySync = false
				if s.net.NodeCount() < 3 || s.net.BestHeaderTime() < util.GetTimeSec()-staleHeaderAge {
					if !s.sleep(trySyncSleep) {
						log.Info("Staker: interrupted, exiting")
						return
					}
					continue
				}
			}
		}

		if s.wallet.HaveStakeableCoins() {
			s.stakeOnce()
		}

		if !s.sleep(s.minerSleep) {
			log.Info("Staker: interrupted, exiting")
			return
		}
	}
}

// stakeOnce runs one quantized search tick: build an empty template, try
// to sign a coinstake onto it, and hand a signed block to the processor.
func (s *Staker) stakeOnce() {
	// First just create an empty block. No need to process transactions
	// until we know we can create one.
	ba := NewBlockAssembler(s.params)
	bt, err := ba.CreateNewBlock(nil, true)
	if err != nil {
		log.Error("Staker: CreateNewBlock failed: %v", err)
		return
	}
	bt.Block.SetProofOfStake(true)

	gChain := chain.GetInstance()
	gChain.Lock()
	indexPrev := gChain.Tip()
	gChain.Unlock()
	if indexPrev == nil {
		return
	}

	searchTime := util.GetAdjustedTimeSec() &^ s.params.StakeTimestampMask
	if searchTime > s.lastSearchTime {
		fees := bt.TotalFees()
		if s.SignBlock(bt, indexPrev, fees, searchTime) {
			if err := s.checkStake(bt.Block, indexPrev); err != nil {
				log.Warn("Staker: %v", err)
			}
			s.sleep(postStakeSleep)
		}
		atomic.StoreInt64(&lastCoinStakeSearchInterval, searchTime-s.lastSearchTime)
		s.lastSearchTime = searchTime
	}
}

// SignBlock asks the wallet for a coinstake valid at searchTime and welds
// it into the template: coinstake at index 1, block and coinbase times
// pinned to the coinstake time, late transactions evicted, and the block
// hash signed with the staking key.
func (s *Staker) SignBlock(bt *BlockTemplate, indexPrev *blockindex.BlockIndex,
	fees amount.Amount, searchTime int64) bool {
	bl := bt.Block
	coinbase := bl.Txs[0]
	if out := coinbase.GetTxOut(0); out == nil || !out.IsEmpty() {
		log.Error("SignBlock: coinbase output is not empty")
		return false
	}

	coinstake, signer, err := s.wallet.CreateCoinStake(bl.Header.Bits, searchTime, fees)
	if err != nil || coinstake == nil {
		return false
	}
	if int64(coinstake.Time) < indexPrev.GetMedianTimePast()+1 {
		return false
	}

	coinbase.SetTime(coinstake.Time)
	bl.Header.Time = coinstake.Time
	insertCoinStake(bt, coinstake)
	evictLateTransactions(bt)
	bl.Header.MerkleRoot = merkleroot.BlockMerkleRoot(bl.Txs, nil)

	hash := bl.GetHash()
	sig, err := signer.Sign(&hash)
	if err != nil || len(sig) == 0 {
		log.Error("SignBlock: signing failed: %v", err)
		return false
	}
	bl.Signature = sig
	return true
}

func insertCoinStake(bt *BlockTemplate, coinstake *tx.Tx) {
	bl := bt.Block
	bl.Txs = append(bl.Txs, nil)
	copy(bl.Txs[2:], bl.Txs[1:])
	bl.Txs[1] = coinstake

	bt.TxFees = append(bt.TxFees, 0)
	copy(bt.TxFees[2:], bt.TxFees[1:])
	bt.TxFees[1] = 0

	bt.TxSigOpsCount = append(bt.TxSigOpsCount, 0)
	copy(bt.TxSigOpsCount[2:], bt.TxSigOpsCount[1:])
	bt.TxSigOpsCount[1] = coinstake.GetSigOpCountWithoutP2SH()
}

// evictLateTransactions drops every selected transaction stamped after the
// final block time, keeping the parallel fee and sigop slices aligned.
func evictLateTransactions(bt *BlockTemplate) {
	bl := bt.Block
	blockTime := bl.Header.GetBlockTime()

	txs := bl.Txs[:2]
	fees := bt.TxFees[:2]
	sigOps := bt.TxSigOpsCount[:2]
	for i := 2; i < len(bl.Txs); i++ {
		if int64(bl.Txs[i].Time) > blockTime {
			continue
		}
		txs = append(txs, bl.Txs[i])
		fees = append(fees, bt.TxFees[i])
		sigOps = append(sigOps, bt.TxSigOpsCount[i])
	}
	bl.Txs = txs
	bt.TxFees = fees
	bt.TxSigOpsCount = sigOps
}

// checkStake re-validates timing against the tip and submits; any tip
// movement since the template was cut abandons the iteration.
func (s *Staker) checkStake(bl *block.Block, indexPrev *blockindex.BlockIndex) error {
	gChain := chain.GetInstance()

	for {
		gChain.Lock()
		tip := gChain.Tip()
		gChain.Unlock()
		if tip == nil || !tip.GetBlockHash().IsEqual(&bl.Header.HashPrevBlock) {
			// Another block was received while building ours; scrap progress.
			log.Info("checkStake: valid future PoS block was orphaned before becoming valid")
			return errcode.New(errcode.ErrorStaleTip)
		}

		blockTime := bl.Header.GetBlockTime()
		prevTime := int64(indexPrev.GetBlockTime())
		if blockTime <= prevTime || chainparams.FutureDrift(blockTime) < prevTime {
			log.Info("checkStake: valid PoS block took too long to create and has expired")
			return errcode.New(errcode.ErrorStaleTip)
		}
		if blockTime > chainparams.FutureDrift(util.GetAdjustedTimeSec()) {
			if !s.sleep(futureDriftSleep) {
				return errcode.New(errcode.ErrorStaleTip)
			}
			continue
		}
		break
	}

	if processor == nil {
		return errcode.NewError(errcode.ErrorStaleTip, "no block processor installed")
	}
	return processor.ProcessNewBlock(bl, true)
}
