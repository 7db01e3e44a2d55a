package blockindex

import (
	"math/big"
	"sort"

	"github.com/wonko433/blackcoin-more/model/block"
	"github.com/wonko433/blackcoin-more/util"
)

const (
	// StatusProofOfStake flags an index entry whose block was staked rather
	// than mined.
	StatusProofOfStake uint32 = 1 << 0

	medianTimeSpan = 11
)

type BlockIndex struct {
	Header block.BlockHeader
	// Prev points toward the genesis block.
	Prev      *BlockIndex
	Height    int32
	Status    uint32
	ChainWork big.Int

	blockHash util.Hash
}

func NewBlockIndex(blkHeader *block.BlockHeader) *BlockIndex {
	bi := new(BlockIndex)
	bi.Header = *blkHeader
	bi.blockHash = blkHeader.GetHash()
	return bi
}

func (bIndex *BlockIndex) GetBlockHash() *util.Hash {
	if bIndex.blockHash.IsNull() {
		bIndex.blockHash = bIndex.Header.GetHash()
	}
	return &bIndex.blockHash
}

func (bIndex *BlockIndex) GetBlockTime() uint32 {
	return bIndex.Header.Time
}

func (bIndex *BlockIndex) SetProofOfStake() {
	bIndex.Status |= StatusProofOfStake
}

func (bIndex *BlockIndex) IsProofOfStake() bool {
	return bIndex.Status&StatusProofOfStake != 0
}

// GetMedianTimePast is the median of the previous 11 block times; it moves
// forward monotonically even when individual block times do not.
func (bIndex *BlockIndex) GetMedianTimePast() int64 {
	median := make([]int64, 0, medianTimeSpan)
	index := bIndex
	for i := 0; i < medianTimeSpan && index != nil; i++ {
		median = append(median, int64(index.GetBlockTime()))
		index = index.Prev
	}
	sort.Slice(median, func(i, j int) bool { return median[i] < median[j] })
	return median[len(median)/2]
}

// GetPastTimeLimit is the time a successor block must exceed.
func (bIndex *BlockIndex) GetPastTimeLimit() int64 {
	return bIndex.GetMedianTimePast()
}

func (bIndex *BlockIndex) GetAncestor(height int32) *BlockIndex {
	if height > bIndex.Height || height < 0 {
		return nil
	}
	index := bIndex
	for index != nil && index.Height != height {
		index = index.Prev
	}
	return index
}

func (bIndex *BlockIndex) String() string {
	return bIndex.GetBlockHash().ToString()
}
