package txin

import (
	"io"
	"math"

	"github.com/wonko433/blackcoin-more/model/outpoint"
	"github.com/wonko433/blackcoin-more/model/script"
	"github.com/wonko433/blackcoin-more/util"
)

const SequenceFinal uint32 = math.MaxUint32

type TxIn struct {
	PreviousOutPoint *outpoint.OutPoint
	ScriptSig        *script.Script
	Sequence         uint32
}

func NewTxIn(prevOut *outpoint.OutPoint, scriptSig *script.Script, sequence uint32) *TxIn {
	if prevOut == nil {
		prevOut = outpoint.NewNullOutPoint()
	}
	if scriptSig == nil {
		scriptSig = script.NewEmptyScript()
	}
	return &TxIn{PreviousOutPoint: prevOut, ScriptSig: scriptSig, Sequence: sequence}
}

func (txIn *TxIn) SerializeSize() uint32 {
	return txIn.PreviousOutPoint.SerializeSize() + txIn.ScriptSig.SerializeSize() + 4
}

func (txIn *TxIn) Serialize(w io.Writer) error {
	if err := txIn.PreviousOutPoint.Serialize(w); err != nil {
		return err
	}
	if err := txIn.ScriptSig.Serialize(w); err != nil {
		return err
	}
	return util.WriteElements(w, txIn.Sequence)
}

func (txIn *TxIn) Unserialize(r io.Reader) error {
	txIn.PreviousOutPoint = new(outpoint.OutPoint)
	if err := txIn.PreviousOutPoint.Unserialize(r); err != nil {
		return err
	}
	txIn.ScriptSig = script.NewEmptyScript()
	if err := txIn.ScriptSig.Unserialize(r); err != nil {
		return err
	}
	return util.ReadElements(r, &txIn.Sequence)
}
