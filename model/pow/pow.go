package pow

import (
	"math/big"

	"github.com/wonko433/blackcoin-more/model/block"
	"github.com/wonko433/blackcoin-more/model/blockindex"
	"github.com/wonko433/blackcoin-more/model/chainparams"
	"github.com/wonko433/blackcoin-more/util"
)

type Pow struct{}

// GetNextWorkRequired computes the compact target for the block extending
// indexPrev. Proof of work and proof of stake difficulty retarget
// independently, each against the last block of its own proof type.
func (pow *Pow) GetNextWorkRequired(indexPrev *blockindex.BlockIndex, blHeader *block.BlockHeader,
	fProofOfStake bool, params *chainparams.BlackcoinParams) uint32 {
	limit := params.PowLimit
	if fProofOfStake {
		limit = params.PosLimit
	}
	if indexPrev == nil {
		return BigToCompact(limit)
	}

	prev := GetLastBlockIndex(indexPrev, fProofOfStake)
	if prev == nil || prev.Prev == nil {
		return BigToCompact(limit)
	}

	if (fProofOfStake && params.FPoSNoRetargeting) || (!fProofOfStake && params.FPowNoRetargeting) {
		return prev.Header.Bits
	}

	prevPrev := GetLastBlockIndex(prev.Prev, fProofOfStake)
	if prevPrev == nil || prevPrev.Prev == nil {
		return BigToCompact(limit)
	}

	return pow.calculateNextTargetRequired(prev, prevPrev, limit, params)
}

func (pow *Pow) calculateNextTargetRequired(prev, prevPrev *blockindex.BlockIndex,
	limit *big.Int, params *chainparams.BlackcoinParams) uint32 {
	actualSpacing := int64(prev.GetBlockTime()) - int64(prevPrev.GetBlockTime())
	if actualSpacing < 0 {
		actualSpacing = params.TargetSpacing
	}

	// Exponential moving toward the target spacing; the interval keeps the
	// half-life at nTargetTimespan.
	interval := params.DifficultyAdjustmentInterval()
	bnNew := CompactToBig(prev.Header.Bits)
	bnNew.Mul(bnNew, big.NewInt((interval-1)*params.TargetSpacing+2*actualSpacing))
	bnNew.Div(bnNew, big.NewInt((interval+1)*params.TargetSpacing))

	if bnNew.Sign() <= 0 || bnNew.Cmp(limit) > 0 {
		return BigToCompact(limit)
	}
	return BigToCompact(bnNew)
}

// GetLastBlockIndex walks back to the nearest block of the requested proof
// type.
func GetLastBlockIndex(index *blockindex.BlockIndex, fProofOfStake bool) *blockindex.BlockIndex {
	for index != nil && index.Prev != nil && index.IsProofOfStake() != fProofOfStake {
		index = index.Prev
	}
	return index
}

func (pow *Pow) CheckProofOfWork(hash *util.Hash, bits uint32, params *chainparams.BlackcoinParams) bool {
	target := CompactToBig(bits)
	if target.Sign() <= 0 || target.Cmp(params.PowLimit) > 0 {
		return false
	}
	return HashToBig(hash).Cmp(target) <= 0
}

func HashToBig(hash *util.Hash) *big.Int {
	buf := *hash
	blen := len(buf)
	for i := 0; i < blen/2; i++ {
		buf[i], buf[blen-1-i] = buf[blen-1-i], buf[i]
	}
	return new(big.Int).SetBytes(buf[:])
}

// CompactToBig expands the 32-bit compact representation used in the
// header bits field to a full target.
func CompactToBig(compact uint32) *big.Int {
	mantissa := compact & 0x007fffff
	isNegative := compact&0x00800000 != 0
	exponent := uint(compact >> 24)

	var bn *big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		bn = big.NewInt(int64(mantissa))
	} else {
		bn = big.NewInt(int64(mantissa))
		bn.Lsh(bn, 8*(exponent-3))
	}

	if isNegative {
		bn = bn.Neg(bn)
	}
	return bn
}

// BigToCompact packs a target into the compact representation, preserving
// the most significant 3 bytes.
func BigToCompact(n *big.Int) uint32 {
	if n.Sign() == 0 {
		return 0
	}

	var mantissa uint32
	exponent := uint(len(n.Bytes()))
	if exponent <= 3 {
		mantissa = uint32(n.Bits()[0])
		mantissa <<= 8 * (3 - exponent)
	} else {
		tn := new(big.Int).Set(n)
		mantissa = uint32(tn.Rsh(tn, 8*(exponent-3)).Bits()[0])
	}

	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	compact := uint32(exponent<<24) | mantissa
	if n.Sign() < 0 {
		compact |= 0x00800000
	}
	return compact
}
