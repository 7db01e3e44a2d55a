package chainparams

import (
	"math/big"

	"github.com/wonko433/blackcoin-more/util/amount"
)

// BlackcoinParams carries the consensus rules that influence block
// creation for one network.
type BlackcoinParams struct {
	Name string

	PowLimit *big.Int
	PosLimit *big.Int

	FPowAllowMinDifficultyBlocks bool
	FPowNoRetargeting            bool
	FPoSNoRetargeting            bool

	TargetSpacing  int64
	TargetTimespan int64

	// LastPOWBlock is the height after which only staked blocks extend the
	// chain; the fixed proof of work subsidy runs until then.
	LastPOWBlock int32

	// StakeTimestampMask quantizes stake timestamps; 0xf yields a 16 second
	// search grid.
	StakeTimestampMask int64

	CoinbaseMaturity       int32
	StakeMinAge            int64
	MaxReorganizationDepth int32

	// MineBlocksOnDemand is set on regtest, where blocks are generated by
	// RPC rather than found.
	MineBlocksOnDemand bool

	RuleChangeActivationThreshold uint32
	MinerConfirmationWindow       uint32
}

func (p *BlackcoinParams) DifficultyAdjustmentInterval() int64 {
	return p.TargetTimespan / p.TargetSpacing
}

// MaxFutureBlockDrift bounds how far ahead of the adjusted clock a block
// time may run.
const MaxFutureBlockDrift int64 = 15

func FutureDrift(now int64) int64 {
	return now + MaxFutureBlockDrift
}

var mainPowLimit = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 224), big.NewInt(1))
var regTestPowLimit = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))

var MainNetParams = BlackcoinParams{
	Name:                          "mainnet",
	PowLimit:                      mainPowLimit,
	PosLimit:                      mainPowLimit,
	FPowAllowMinDifficultyBlocks:  false,
	FPowNoRetargeting:             false,
	FPoSNoRetargeting:             false,
	TargetSpacing:                 64,
	TargetTimespan:                16 * 60,
	LastPOWBlock:                  10000,
	StakeTimestampMask:            0xf,
	CoinbaseMaturity:              500,
	StakeMinAge:                   8 * 60 * 60,
	MaxReorganizationDepth:        500,
	MineBlocksOnDemand:            false,
	RuleChangeActivationThreshold: 1916,
	MinerConfirmationWindow:       2016,
}

var TestNetParams = BlackcoinParams{
	Name:                          "testnet",
	PowLimit:                      mainPowLimit,
	PosLimit:                      mainPowLimit,
	FPowAllowMinDifficultyBlocks:  true,
	FPowNoRetargeting:             false,
	FPoSNoRetargeting:             false,
	TargetSpacing:                 64,
	TargetTimespan:                16 * 60,
	LastPOWBlock:                  10000,
	StakeTimestampMask:            0xf,
	CoinbaseMaturity:              10,
	StakeMinAge:                   8 * 60 * 60,
	MaxReorganizationDepth:        500,
	MineBlocksOnDemand:            false,
	RuleChangeActivationThreshold: 1512,
	MinerConfirmationWindow:       2016,
}

var RegTestParams = BlackcoinParams{
	Name:                          "regtest",
	PowLimit:                      regTestPowLimit,
	PosLimit:                      regTestPowLimit,
	FPowAllowMinDifficultyBlocks:  true,
	FPowNoRetargeting:             true,
	FPoSNoRetargeting:             true,
	TargetSpacing:                 64,
	TargetTimespan:                16 * 60,
	LastPOWBlock:                  1000,
	StakeTimestampMask:            0xf,
	CoinbaseMaturity:              10,
	StakeMinAge:                   0,
	MaxReorganizationDepth:        500,
	MineBlocksOnDemand:            true,
	RuleChangeActivationThreshold: 108,
	MinerConfirmationWindow:       144,
}

var ActiveNetParams = &MainNetParams

func SetMainNetParams() {
	ActiveNetParams = &MainNetParams
}

func SetTestNetParams() {
	ActiveNetParams = &TestNetParams
}

func SetRegTestParams() {
	ActiveNetParams = &RegTestParams
}

// GetProofOfWorkSubsidy is the fixed coinbase reward of the initial proof
// of work phase; it ends at LastPOWBlock.
func GetProofOfWorkSubsidy(height int32, params *BlackcoinParams) amount.Amount {
	if height > params.LastPOWBlock {
		return 0
	}
	return 10000 * amount.COIN
}
