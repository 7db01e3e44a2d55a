package mining

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonko433/blackcoin-more/model/chain"
	"github.com/wonko433/blackcoin-more/model/pow"
)

func TestGenerateBlocks(t *testing.T) {
	params := initTestEnv(t)

	proc := &fakeProcessor{connect: true}
	SetBlockProcessor(proc)
	defer SetBlockProcessor(nil)

	hashes, err := GenerateBlocks(opTrueScript(), 2, 1000000)
	require.NoError(t, err)
	require.Equal(t, 2, len(hashes))

	gChain := chain.GetInstance()
	assert.Equal(t, int32(testTipHeight+2), gChain.Height())
	assert.Equal(t, 2, len(proc.accepted))

	p := pow.Pow{}
	for i, bl := range proc.accepted {
		hash := bl.GetHash()
		assert.True(t, p.CheckProofOfWork(&hash, bl.Header.Bits, params))
		assert.True(t, hashes[i].IsEqual(&hash))
		assert.True(t, bl.Txs[0].IsCoinBase())
	}

	// Each accepted block extends the one before it.
	assert.True(t, proc.accepted[1].Header.HashPrevBlock.IsEqual(hashes[0]))
}

func TestGenerateBlocksNoProcessor(t *testing.T) {
	initTestEnv(t)
	SetBlockProcessor(nil)

	_, err := GenerateBlocks(opTrueScript(), 1, 1000)
	require.Error(t, err)
}

func TestGenerateBlocksShutdown(t *testing.T) {
	initTestEnv(t)

	proc := &fakeProcessor{connect: true}
	SetBlockProcessor(proc)
	defer SetBlockProcessor(nil)

	RequestShutdown()
	defer ResetShutdown()

	hashes, err := GenerateBlocks(opTrueScript(), 5, 1000000)
	require.NoError(t, err)
	assert.Empty(t, hashes)
}
