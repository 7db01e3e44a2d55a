package block

import (
	"io"

	"github.com/wonko433/blackcoin-more/model/tx"
	"github.com/wonko433/blackcoin-more/util"
)

type Block struct {
	Header BlockHeader
	Txs    []*tx.Tx
	// Signature is produced by the staking key over the block hash; only
	// proof of stake blocks carry one.
	Signature []byte

	stakeFlag bool
}

func NewBlock() *Block {
	return &Block{}
}

func (bl *Block) GetBlockHeader() BlockHeader {
	return bl.Header
}

func (bl *Block) GetHash() util.Hash {
	return bl.Header.GetHash()
}

func (bl *Block) SetNull() {
	bl.Header.SetNull()
	bl.Txs = nil
	bl.Signature = nil
	bl.stakeFlag = false
}

// SetProofOfStake marks a template destined for the staker before its
// coinstake exists.
func (bl *Block) SetProofOfStake(pos bool) {
	bl.stakeFlag = pos
}

func (bl *Block) IsProofOfStake() bool {
	if bl.stakeFlag {
		return true
	}
	return len(bl.Txs) > 1 && bl.Txs[1].IsCoinStake()
}

// GetMaxTransactionTime is the latest transaction timestamp in the block;
// the header time may never fall below it.
func (bl *Block) GetMaxTransactionTime() int64 {
	var maxTime int64
	for _, txn := range bl.Txs {
		if int64(txn.Time) > maxTime {
			maxTime = int64(txn.Time)
		}
	}
	return maxTime
}

func (bl *Block) SerializeSize() uint64 {
	size := uint64(blockHeaderLength)
	size += uint64(util.VarIntSerializeSize(uint64(len(bl.Txs))))
	for _, txn := range bl.Txs {
		size += uint64(txn.SerializeSize())
	}
	size += uint64(util.VarIntSerializeSize(uint64(len(bl.Signature)))) + uint64(len(bl.Signature))
	return size
}

func (bl *Block) Serialize(w io.Writer) error {
	if err := bl.Header.Serialize(w); err != nil {
		return err
	}
	if err := util.WriteVarInt(w, uint64(len(bl.Txs))); err != nil {
		return err
	}
	for _, txn := range bl.Txs {
		if err := txn.Serialize(w); err != nil {
			return err
		}
	}
	return util.WriteVarBytes(w, bl.Signature)
}

func (bl *Block) Unserialize(r io.Reader) error {
	if err := bl.Header.Unserialize(r); err != nil {
		return err
	}
	txCount, err := util.ReadVarInt(r)
	if err != nil {
		return err
	}
	bl.Txs = make([]*tx.Tx, txCount)
	for i := range bl.Txs {
		txn := tx.NewEmptyTx()
		if err := txn.Unserialize(r); err != nil {
			return err
		}
		bl.Txs[i] = txn
	}
	sig, err := util.ReadVarBytes(r, MaxBlockSigSize, "blocksig")
	if err != nil {
		return err
	}
	bl.Signature = sig
	return nil
}

const MaxBlockSigSize = 1000
