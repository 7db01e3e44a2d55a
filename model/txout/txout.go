package txout

import (
	"io"

	"github.com/wonko433/blackcoin-more/model/script"
	"github.com/wonko433/blackcoin-more/util"
	"github.com/wonko433/blackcoin-more/util/amount"
)

type TxOut struct {
	value        amount.Amount
	scriptPubKey *script.Script
}

func NewTxOut(value amount.Amount, scriptPubKey *script.Script) *TxOut {
	if scriptPubKey == nil {
		scriptPubKey = script.NewEmptyScript()
	}
	return &TxOut{value: value, scriptPubKey: scriptPubKey}
}

func (txOut *TxOut) GetValue() amount.Amount {
	return txOut.value
}

func (txOut *TxOut) SetValue(v amount.Amount) {
	txOut.value = v
}

func (txOut *TxOut) GetScriptPubKey() *script.Script {
	return txOut.scriptPubKey
}

func (txOut *TxOut) SetScriptPubKey(s *script.Script) {
	txOut.scriptPubKey = s
}

// SetEmpty gives the output the shape a proof of stake coinbase carries.
func (txOut *TxOut) SetEmpty() {
	txOut.value = 0
	txOut.scriptPubKey = script.NewEmptyScript()
}

func (txOut *TxOut) IsEmpty() bool {
	return txOut.value == 0 && txOut.scriptPubKey.IsEmpty()
}

func (txOut *TxOut) SerializeSize() uint32 {
	return 8 + txOut.scriptPubKey.SerializeSize()
}

func (txOut *TxOut) Serialize(w io.Writer) error {
	if err := util.WriteElements(w, uint64(txOut.value)); err != nil {
		return err
	}
	return txOut.scriptPubKey.Serialize(w)
}

func (txOut *TxOut) Unserialize(r io.Reader) error {
	var v uint64
	if err := util.ReadElements(r, &v); err != nil {
		return err
	}
	txOut.value = amount.Amount(v)
	txOut.scriptPubKey = script.NewEmptyScript()
	return txOut.scriptPubKey.Unserialize(r)
}
