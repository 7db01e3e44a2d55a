package mining

import (
	"math"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/wonko433/blackcoin-more/model/chain"
	"github.com/wonko433/blackcoin-more/model/pow"
	"github.com/wonko433/blackcoin-more/model/script"
	"github.com/wonko433/blackcoin-more/util"
)

var shutdownFlag int32

func RequestShutdown() {
	atomic.StoreInt32(&shutdownFlag, 1)
}

func ResetShutdown() {
	atomic.StoreInt32(&shutdownFlag, 0)
}

func ShutdownRequested() bool {
	return atomic.LoadInt32(&shutdownFlag) != 0
}

// GenerateBlocks mines nGenerate proof of work blocks paying scriptPubKey,
// spending at most maxTries nonce attempts across all templates. Exhausting
// the nonce range simply rolls the template and continues at the same
// height.
func GenerateBlocks(scriptPubKey *script.Script, nGenerate int, maxTries uint64) ([]*util.Hash, error) {
	if processor == nil {
		return nil, errors.New("no block processor installed")
	}

	gChain := chain.GetInstance()
	gChain.Lock()
	heightStart := gChain.Height()
	gChain.Unlock()
	height := heightStart
	heightEnd := heightStart + int32(nGenerate)
	params := gChain.GetParams()

	blockHashes := make([]*util.Hash, 0, nGenerate)
	p := pow.Pow{}
	for height < heightEnd && !ShutdownRequested() {
		ba := NewBlockAssembler(params)
		bt, err := ba.CreateNewBlock(scriptPubKey, false)
		if err != nil {
			return blockHashes, errors.Wrap(err, "couldn't create new block")
		}

		gChain.Lock()
		indexPrev := gChain.Tip()
		gChain.Unlock()
		IncrementExtraNonce(bt.Block, indexPrev)

		header := &bt.Block.Header
		for maxTries > 0 && header.Nonce < math.MaxUint32 && !ShutdownRequested() {
			hash := header.GetHash()
			if p.CheckProofOfWork(&hash, header.Bits, params) {
				break
			}
			header.Nonce++
			maxTries--
		}
		if maxTries == 0 || ShutdownRequested() {
			break
		}
		if header.Nonce == math.MaxUint32 {
			continue
		}

		if err := processor.ProcessNewBlock(bt.Block, true); err != nil {
			return blockHashes, errors.Wrap(err, "ProcessNewBlock, block not accepted")
		}
		height++
		blockHash := bt.Block.GetHash()
		blockHashes = append(blockHashes, &blockHash)
	}
	return blockHashes, nil
}
