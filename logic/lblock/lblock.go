package lblock

import (
	"github.com/wonko433/blackcoin-more/errcode"
	"github.com/wonko433/blackcoin-more/log"
	"github.com/wonko433/blackcoin-more/logic/merkleroot"
	"github.com/wonko433/blackcoin-more/model/block"
	"github.com/wonko433/blackcoin-more/model/blockindex"
	"github.com/wonko433/blackcoin-more/model/chain"
	"github.com/wonko433/blackcoin-more/model/chainparams"
	"github.com/wonko433/blackcoin-more/model/consensus"
	"github.com/wonko433/blackcoin-more/util"
)

// ContextualCheckBlockHeader verifies the header against its predecessor
// and the adjusted clock.
func ContextualCheckBlockHeader(header *block.BlockHeader, indexPrev *blockindex.BlockIndex,
	adjustedTime int64) error {
	if header.GetBlockTime() <= indexPrev.GetMedianTimePast() {
		log.Error("ContextualCheckBlockHeader: block time %d not past median time %d",
			header.GetBlockTime(), indexPrev.GetMedianTimePast())
		return errcode.New(errcode.ErrorBlockHeaderNoValid)
	}
	if header.GetBlockTime() > chainparams.FutureDrift(adjustedTime) {
		log.Error("ContextualCheckBlockHeader: block time %d too far in the future", header.GetBlockTime())
		return errcode.New(errcode.ErrorBlockHeaderNoValid)
	}
	return nil
}

// CheckBlock runs the context-free structural checks.
func CheckBlock(bl *block.Block, checkMerkleRoot bool) error {
	if len(bl.Txs) == 0 || bl.SerializeSize() > consensus.MaxBlockSize {
		return errcode.New(errcode.ErrorBadBlockSize)
	}

	if !bl.Txs[0].IsCoinBase() {
		return errcode.New(errcode.ErrorBadCoinbase)
	}
	for _, txn := range bl.Txs[1:] {
		if txn.IsCoinBase() {
			return errcode.New(errcode.ErrorBadCoinbase)
		}
	}

	sigOps := 0
	for _, txn := range bl.Txs {
		sigOps += txn.GetSigOpCountWithoutP2SH()
	}
	if uint64(sigOps) > consensus.MaxBlockSigOps {
		return errcode.NewError(errcode.ErrorBlockNoValid, "too many sigops")
	}

	if checkMerkleRoot {
		var mutated bool
		root := merkleroot.BlockMerkleRoot(bl.Txs, &mutated)
		if mutated || !root.IsEqual(&bl.Header.MerkleRoot) {
			return errcode.New(errcode.ErrorBadMerkleRoot)
		}
	}
	return nil
}

// ContextualCheckBlock verifies every transaction is final at the height
// and lock-time cutoff the block will be connected at.
func ContextualCheckBlock(bl *block.Block, indexPrev *blockindex.BlockIndex) error {
	height := indexPrev.Height + 1
	lockTimeCutoff := indexPrev.GetMedianTimePast()
	if consensus.StandardLockTimeVerifyFlags&consensus.LocktimeMedianTimePast == 0 {
		lockTimeCutoff = bl.Header.GetBlockTime()
	}

	for _, txn := range bl.Txs {
		if !txn.IsFinal(height, lockTimeCutoff) {
			return errcode.New(errcode.ErrorBlockNotFinal)
		}
		if int64(txn.Time) > bl.Header.GetBlockTime() {
			return errcode.NewError(errcode.ErrorBlockNoValid, "transaction timestamp after block")
		}
	}
	return nil
}

// TestBlockValidity proves a freshly assembled block would connect on top
// of indexPrev without touching any on-disk state.
func TestBlockValidity(bl *block.Block, indexPrev *blockindex.BlockIndex) error {
	gChain := chain.GetInstance()
	if !(indexPrev != nil && indexPrev == gChain.Tip()) {
		log.Error("TestBlockValidity: indexPrev %v is not the chain tip", indexPrev)
		return errcode.New(errcode.ErrorStaleTip)
	}

	if err := ContextualCheckBlockHeader(&bl.Header, indexPrev, util.GetAdjustedTimeSec()); err != nil {
		return err
	}
	if err := CheckBlock(bl, true); err != nil {
		return err
	}
	return ContextualCheckBlock(bl, indexPrev)
}
