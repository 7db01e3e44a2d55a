package blockindex

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonko433/blackcoin-more/model/block"
)

func buildChain(count int, spacing int64) *BlockIndex {
	var prev *BlockIndex
	for i := 0; i < count; i++ {
		header := block.NewBlockHeader()
		header.Time = uint32(1600000000 + int64(i)*spacing)
		header.Bits = 0x1d00ffff
		if prev != nil {
			header.HashPrevBlock = *prev.GetBlockHash()
		}
		index := NewBlockIndex(header)
		index.Height = int32(i)
		index.Prev = prev
		prev = index
	}
	return prev
}

func TestGetMedianTimePast(t *testing.T) {
	tip := buildChain(20, 64)
	// With 11 evenly spaced blocks behind the tip the median is 5 spacings
	// back.
	assert.Equal(t, int64(tip.GetBlockTime())-5*64, tip.GetMedianTimePast())

	genesis := buildChain(1, 64)
	assert.Equal(t, int64(genesis.GetBlockTime()), genesis.GetMedianTimePast())
}

func TestMedianTimePastMonotone(t *testing.T) {
	tip := buildChain(30, 64)
	var last int64
	index := tip
	times := make([]int64, 0)
	for index != nil {
		times = append(times, index.GetMedianTimePast())
		index = index.Prev
	}
	for i := len(times) - 1; i >= 0; i-- {
		assert.GreaterOrEqual(t, times[i], last)
		last = times[i]
	}
}

func TestGetAncestor(t *testing.T) {
	tip := buildChain(10, 64)
	assert.Equal(t, int32(0), tip.GetAncestor(0).Height)
	assert.Equal(t, int32(5), tip.GetAncestor(5).Height)
	assert.Equal(t, tip, tip.GetAncestor(tip.Height))
	assert.Nil(t, tip.GetAncestor(tip.Height+1))
	assert.Nil(t, tip.GetAncestor(-1))
}

func TestProofOfStakeFlag(t *testing.T) {
	tip := buildChain(2, 64)
	assert.False(t, tip.IsProofOfStake())
	tip.SetProofOfStake()
	assert.True(t, tip.IsProofOfStake())
}
