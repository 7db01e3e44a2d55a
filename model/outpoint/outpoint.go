package outpoint

import (
	"fmt"
	"io"
	"math"

	"github.com/wonko433/blackcoin-more/util"
)

type OutPoint struct {
	Hash  util.Hash
	Index uint32
}

func NewOutPoint(hash util.Hash, index uint32) *OutPoint {
	return &OutPoint{Hash: hash, Index: index}
}

// NewNullOutPoint is the prevout shape of a coinbase input.
func NewNullOutPoint() *OutPoint {
	return &OutPoint{Hash: util.HashZero, Index: math.MaxUint32}
}

func (op *OutPoint) IsNull() bool {
	if op == nil {
		return true
	}
	return op.Index == math.MaxUint32 && op.Hash.IsNull()
}

func (op *OutPoint) String() string {
	return fmt.Sprintf("OutPoint(%s:%d)", op.Hash.ToString(), op.Index)
}

func (op *OutPoint) SerializeSize() uint32 {
	return util.Hash256Size + 4
}

func (op *OutPoint) Serialize(w io.Writer) error {
	return util.WriteElements(w, &op.Hash, op.Index)
}

func (op *OutPoint) Unserialize(r io.Reader) error {
	return util.ReadElements(r, &op.Hash, &op.Index)
}
