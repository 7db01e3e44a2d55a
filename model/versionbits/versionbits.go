package versionbits

import (
	"github.com/wonko433/blackcoin-more/model/blockindex"
	"github.com/wonko433/blackcoin-more/model/chainparams"
)

const (
	// VersionBitsTopBits is the base version for blocks signalling via BIP9.
	VersionBitsTopBits int32 = 0x20000000

	// VersionBitsTopMask distinguishes BIP9 blocks from legacy versions.
	VersionBitsTopMask int32 = -536870912
)

// ComputeBlockVersion assembles the version for a block extending
// indexPrev. No deployment is currently in its signalling window, so the
// result is the bare top bits.
func ComputeBlockVersion(indexPrev *blockindex.BlockIndex, params *chainparams.BlackcoinParams) int32 {
	version := VersionBitsTopBits
	_ = indexPrev
	_ = params
	return version
}
