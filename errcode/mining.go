package errcode

type MiningErr int

const MiningBase MiningErr = 4000

const (
	ErrorTipUnavailable MiningErr = iota + MiningBase
	ErrorValidityCheckFailed
	ErrorOutOfResources
	ErrorConfigInvalid
	ErrorWalletLocked
	ErrorNoStakeableCoins
	ErrorStaleTip
)

var miningDesc = map[MiningErr]string{
	ErrorTipUnavailable:      "no current chain tip",
	ErrorValidityCheckFailed: "block template failed validity check",
	ErrorOutOfResources:      "block template allocation failed",
	ErrorConfigInvalid:       "invalid mining configuration",
	ErrorWalletLocked:        "wallet is locked",
	ErrorNoStakeableCoins:    "no stakeable coins available",
	ErrorStaleTip:            "chain tip changed during assembly",
}

func (me MiningErr) String() string {
	if s, ok := miningDesc[me]; ok {
		return s
	}
	return "unknown mining error"
}
