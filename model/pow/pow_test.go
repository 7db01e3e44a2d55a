package pow

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonko433/blackcoin-more/model/block"
	"github.com/wonko433/blackcoin-more/model/blockindex"
	"github.com/wonko433/blackcoin-more/model/chainparams"
	"github.com/wonko433/blackcoin-more/util"
)

func TestCompactRoundTrip(t *testing.T) {
	// The bitcoin genesis target.
	compact := uint32(0x1d00ffff)
	target := CompactToBig(compact)
	assert.Equal(t, compact, BigToCompact(target))

	limit := chainparams.RegTestParams.PowLimit
	assert.Equal(t, limit.Cmp(CompactToBig(BigToCompact(limit))) >= 0, true)
}

func TestCompactZero(t *testing.T) {
	assert.Equal(t, uint32(0), BigToCompact(big.NewInt(0)))
	assert.Equal(t, int64(0), CompactToBig(0).Int64())
}

func TestCheckProofOfWork(t *testing.T) {
	params := &chainparams.RegTestParams
	p := Pow{}

	var easy util.Hash
	easy[31] = 0x01 // 2^248 once byte-reversed, below the regtest target
	assert.True(t, p.CheckProofOfWork(&easy, BigToCompact(params.PowLimit), params))

	// A target above the limit is rejected regardless of the hash.
	mainParams := &chainparams.MainNetParams
	assert.False(t, p.CheckProofOfWork(&easy, BigToCompact(params.PowLimit), mainParams))
}

func buildIndexChain(t *testing.T, count int, spacing int64, bits uint32) *blockindex.BlockIndex {
	t.Helper()
	var prev *blockindex.BlockIndex
	for i := 0; i < count; i++ {
		header := block.NewBlockHeader()
		header.Time = uint32(1600000000 + int64(i)*spacing)
		header.Bits = bits
		if prev != nil {
			header.HashPrevBlock = *prev.GetBlockHash()
		}
		index := blockindex.NewBlockIndex(header)
		index.Height = int32(i)
		index.Prev = prev
		prev = index
	}
	return prev
}

func TestGetNextWorkRequiredNoRetargeting(t *testing.T) {
	params := &chainparams.RegTestParams
	bits := BigToCompact(params.PowLimit)
	tip := buildIndexChain(t, 10, params.TargetSpacing, bits)

	p := Pow{}
	header := block.NewBlockHeader()
	assert.Equal(t, bits, p.GetNextWorkRequired(tip, header, false, params))
	assert.Equal(t, bits, p.GetNextWorkRequired(tip, header, true, params))
	assert.Equal(t, bits, p.GetNextWorkRequired(nil, header, false, params))
}

func TestGetNextWorkRequiredRetargets(t *testing.T) {
	params := &chainparams.MainNetParams
	bits := uint32(0x1d00ffff)

	// Blocks arriving on schedule keep the target nearly unchanged; blocks
	// arriving fast tighten it.
	onTime := buildIndexChain(t, 10, params.TargetSpacing, bits)
	fast := buildIndexChain(t, 10, 1, bits)

	p := Pow{}
	header := block.NewBlockHeader()
	bitsOnTime := p.GetNextWorkRequired(onTime, header, false, params)
	bitsFast := p.GetNextWorkRequired(fast, header, false, params)

	targetOnTime := CompactToBig(bitsOnTime)
	targetFast := CompactToBig(bitsFast)
	require.NotNil(t, targetOnTime)
	assert.True(t, targetFast.Cmp(targetOnTime) < 0, "fast blocks must tighten the target")
}

func TestGetLastBlockIndexSkipsOtherProofType(t *testing.T) {
	params := &chainparams.MainNetParams
	tip := buildIndexChain(t, 5, params.TargetSpacing, 0x1d00ffff)
	tip.SetProofOfStake()

	last := GetLastBlockIndex(tip, false)
	assert.Equal(t, tip.Prev, last)
	assert.Equal(t, tip, GetLastBlockIndex(tip, true))
}

func TestHashToBig(t *testing.T) {
	var h util.Hash
	h[31] = 0x01
	expected := new(big.Int).Lsh(big.NewInt(1), 31*8)
	assert.Equal(t, 0, HashToBig(&h).Cmp(expected))
}
