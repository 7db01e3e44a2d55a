package tx

import (
	"bytes"
	"io"

	"github.com/wonko433/blackcoin-more/model/outpoint"
	"github.com/wonko433/blackcoin-more/model/script"
	"github.com/wonko433/blackcoin-more/model/txin"
	"github.com/wonko433/blackcoin-more/model/txout"
	"github.com/wonko433/blackcoin-more/util"
	"github.com/wonko433/blackcoin-more/util/amount"
)

const (
	TxVersion         = 1
	DefaultVersion    = TxVersion
	MaxTxInSequence   = txin.SequenceFinal
	MaxStandardTxSize = 100000

	// LockTimeThreshold splits nLockTime interpretation: below it the value
	// is a block height, at or above it a unix timestamp.
	LockTimeThreshold = 500000000
)

type Tx struct {
	hash     util.Hash
	lockTime uint32
	version  int32
	// Time stamps the transaction onto the stake grid; every transaction in
	// a block must not postdate the block itself.
	Time uint32
	ins  []*txin.TxIn
	outs []*txout.TxOut
}

func NewTx(lockTime uint32, version int32) *Tx {
	return &Tx{lockTime: lockTime, version: version}
}

func NewEmptyTx() *Tx {
	return &Tx{}
}

func (tx *Tx) AddTxIn(txIn *txin.TxIn) {
	tx.ins = append(tx.ins, txIn)
	tx.hash = util.HashZero
}

func (tx *Tx) AddTxOut(txOut *txout.TxOut) {
	tx.outs = append(tx.outs, txOut)
	tx.hash = util.HashZero
}

func (tx *Tx) GetTxOut(index int) *txout.TxOut {
	if index < 0 || index >= len(tx.outs) {
		return nil
	}
	return tx.outs[index]
}

func (tx *Tx) GetTxIn(index int) *txin.TxIn {
	if index < 0 || index >= len(tx.ins) {
		return nil
	}
	return tx.ins[index]
}

func (tx *Tx) GetIns() []*txin.TxIn {
	return tx.ins
}

func (tx *Tx) GetOuts() []*txout.TxOut {
	return tx.outs
}

func (tx *Tx) GetInsCount() int {
	return len(tx.ins)
}

func (tx *Tx) GetOutsCount() int {
	return len(tx.outs)
}

func (tx *Tx) GetVersion() int32 {
	return tx.version
}

func (tx *Tx) GetLockTime() uint32 {
	return tx.lockTime
}

func (tx *Tx) SetTime(time uint32) {
	tx.Time = time
	tx.hash = util.HashZero
}

func (tx *Tx) GetAllPreviousOut() []outpoint.OutPoint {
	outs := make([]outpoint.OutPoint, 0, len(tx.ins))
	for _, e := range tx.ins {
		outs = append(outs, *e.PreviousOutPoint)
	}
	return outs
}

// UpdateInScript swaps the scriptSig of input i and drops the cached hash.
func (tx *Tx) UpdateInScript(i int, scriptSig *script.Script) {
	if i < 0 || i >= len(tx.ins) {
		return
	}
	tx.ins[i].ScriptSig = scriptSig
	tx.hash = util.HashZero
}

func (tx *Tx) InsertTxOut(pos int, txOut *txout.TxOut) {
	if pos >= len(tx.outs) {
		tx.outs = append(tx.outs, txOut)
	} else {
		tx.outs = append(tx.outs[:pos+1], tx.outs[pos:]...)
		tx.outs[pos] = txOut
	}
	tx.hash = util.HashZero
}

func (tx *Tx) IsCoinBase() bool {
	return len(tx.ins) == 1 && tx.ins[0].PreviousOutPoint.IsNull() && len(tx.outs) >= 1
}

// IsCoinStake recognizes the second transaction of a proof of stake block:
// it consumes a real outpoint and its first output is deliberately empty.
func (tx *Tx) IsCoinStake() bool {
	return len(tx.ins) > 0 && !tx.ins[0].PreviousOutPoint.IsNull() &&
		len(tx.outs) >= 2 && tx.outs[0].IsEmpty()
}

// IsFinal reports whether the transaction can be included at the given
// height with the given lock-time cutoff.
func (tx *Tx) IsFinal(height int32, blockTime int64) bool {
	if tx.lockTime == 0 {
		return true
	}

	cutoff := int64(height)
	if tx.lockTime >= LockTimeThreshold {
		cutoff = blockTime
	}
	if int64(tx.lockTime) < cutoff {
		return true
	}

	for _, e := range tx.ins {
		if e.Sequence != MaxTxInSequence {
			return false
		}
	}
	return true
}

func (tx *Tx) GetValueOut() amount.Amount {
	var valueOut amount.Amount
	for _, out := range tx.outs {
		valueOut += out.GetValue()
	}
	return valueOut
}

func (tx *Tx) GetSigOpCountWithoutP2SH() int {
	count := 0
	for _, e := range tx.ins {
		count += e.ScriptSig.GetSigOpCount()
	}
	for _, e := range tx.outs {
		count += e.GetScriptPubKey().GetSigOpCount()
	}
	return count
}

func (tx *Tx) SerializeSize() uint32 {
	// version + time + locktime
	size := uint32(12)
	size += util.VarIntSerializeSize(uint64(len(tx.ins)))
	for _, e := range tx.ins {
		size += e.SerializeSize()
	}
	size += util.VarIntSerializeSize(uint64(len(tx.outs)))
	for _, e := range tx.outs {
		size += e.SerializeSize()
	}
	return size
}

func (tx *Tx) Serialize(w io.Writer) error {
	if err := util.WriteElements(w, tx.version, tx.Time); err != nil {
		return err
	}
	if err := util.WriteVarInt(w, uint64(len(tx.ins))); err != nil {
		return err
	}
	for _, e := range tx.ins {
		if err := e.Serialize(w); err != nil {
			return err
		}
	}
	if err := util.WriteVarInt(w, uint64(len(tx.outs))); err != nil {
		return err
	}
	for _, e := range tx.outs {
		if err := e.Serialize(w); err != nil {
			return err
		}
	}
	return util.WriteElements(w, tx.lockTime)
}

func (tx *Tx) Unserialize(r io.Reader) error {
	if err := util.ReadElements(r, &tx.version, &tx.Time); err != nil {
		return err
	}
	insCount, err := util.ReadVarInt(r)
	if err != nil {
		return err
	}
	tx.ins = make([]*txin.TxIn, insCount)
	for i := range tx.ins {
		in := new(txin.TxIn)
		if err := in.Unserialize(r); err != nil {
			return err
		}
		tx.ins[i] = in
	}
	outsCount, err := util.ReadVarInt(r)
	if err != nil {
		return err
	}
	tx.outs = make([]*txout.TxOut, outsCount)
	for i := range tx.outs {
		out := new(txout.TxOut)
		if err := out.Unserialize(r); err != nil {
			return err
		}
		tx.outs[i] = out
	}
	return util.ReadElements(r, &tx.lockTime)
}

func (tx *Tx) GetHash() util.Hash {
	if !tx.hash.IsNull() {
		return tx.hash
	}
	buf := bytes.NewBuffer(make([]byte, 0, tx.SerializeSize()))
	if err := tx.Serialize(buf); err != nil {
		return util.HashZero
	}
	tx.hash = util.DoubleSha256Hash(buf.Bytes())
	return tx.hash
}
