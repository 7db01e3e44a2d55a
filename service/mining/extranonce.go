package mining

import (
	"github.com/wonko433/blackcoin-more/log"
	"github.com/wonko433/blackcoin-more/logic/merkleroot"
	"github.com/wonko433/blackcoin-more/model/block"
	"github.com/wonko433/blackcoin-more/model/blockindex"
	"github.com/wonko433/blackcoin-more/model/chain"
	"github.com/wonko433/blackcoin-more/model/script"
	"github.com/wonko433/blackcoin-more/util"
)

// The extra-nonce pair is process wide and guarded by the chain lock.
var (
	lastPrevHash util.Hash
	extraNonce   uint
)

// IncrementExtraNonce rewrites the coinbase scriptSig as
// height ++ extraNonce ++ CoinbaseFlag and refreshes the merkle root. The
// counter restarts whenever the template no longer extends the block it
// was first used on. Returns the nonce value written.
func IncrementExtraNonce(bk *block.Block, indexPrev *blockindex.BlockIndex) uint {
	gChain := chain.GetInstance()
	gChain.Lock()
	defer gChain.Unlock()

	if !lastPrevHash.IsEqual(&bk.Header.HashPrevBlock) {
		extraNonce = 0
		lastPrevHash = bk.Header.HashPrevBlock
	}
	extraNonce++

	// Height first in coinbase required for block.version=2
	height := int64(indexPrev.Height) + 1
	scriptSig := script.NewEmptyScript()
	scriptSig.PushInt64(height)
	scriptSig.PushScriptNum(script.NewScriptNum(int64(extraNonce)))
	scriptSig.PushData([]byte(CoinbaseFlag))
	if scriptSig.Size() > script.MaxCoinbaseScriptSigSize {
		log.Error("IncrementExtraNonce: coinbase scriptSig size %d exceeds limit", scriptSig.Size())
		panic("coinbase scriptSig too large")
	}

	bk.Txs[0].UpdateInScript(0, scriptSig)
	bk.Header.MerkleRoot = merkleroot.BlockMerkleRoot(bk.Txs, nil)
	return extraNonce
}
