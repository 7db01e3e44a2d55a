package mining

import (
	"github.com/wonko433/blackcoin-more/model/block"
	"github.com/wonko433/blackcoin-more/model/tx"
	"github.com/wonko433/blackcoin-more/util"
	"github.com/wonko433/blackcoin-more/util/amount"
)

// BlockSigner signs a block hash with the key that proved the stake.
type BlockSigner interface {
	Sign(hash *util.Hash) ([]byte, error)
}

// StakerWallet is the narrow wallet surface the staker consumes. Key
// management and kernel math live behind it.
type StakerWallet interface {
	IsLocked() bool
	HaveStakeableCoins() bool
	// CreateCoinStake forms a coinstake spending an eligible UTXO whose
	// kernel passes the target at searchTime, or fails.
	CreateCoinStake(bits uint32, searchTime int64, fees amount.Amount) (*tx.Tx, BlockSigner, error)
	GetStakeWeight() uint64
}

// NetStatus tells the staker whether the node is connected and synced.
type NetStatus interface {
	NodeCount() int
	IsInitialBlockDownload() bool
	BestHeaderTime() int64
}

// BlockProcessor accepts completed blocks for validation and relay.
type BlockProcessor interface {
	ProcessNewBlock(bl *block.Block, forceProcessing bool) error
}

var processor BlockProcessor

// SetBlockProcessor installs the block-processing collaborator used by the
// PoW generator and the staker.
func SetBlockProcessor(p BlockProcessor) {
	processor = p
}

var (
	registeredWallet StakerWallet
	registeredNet    NetStatus
)

// SetStakerWallet is called by the wallet subsystem during startup.
func SetStakerWallet(w StakerWallet) {
	registeredWallet = w
}

// SetNetStatus is called by the network subsystem during startup.
func SetNetStatus(n NetStatus) {
	registeredNet = n
}
