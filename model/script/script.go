package script

import (
	"encoding/binary"
	"io"

	"github.com/wonko433/blackcoin-more/model/opcodes"
	"github.com/wonko433/blackcoin-more/util"
)

const (
	MaxScriptSize = 10000

	// Coinbase scriptSig bounds enforced by consensus.
	MinCoinbaseScriptSigSize = 2
	MaxCoinbaseScriptSigSize = 100
)

type Script struct {
	data []byte
}

func NewEmptyScript() *Script {
	return &Script{data: make([]byte, 0)}
}

func NewScriptRaw(bytes []byte) *Script {
	script := &Script{data: make([]byte, len(bytes))}
	copy(script.data, bytes)
	return script
}

func (s *Script) GetData() []byte {
	return s.data
}

func (s *Script) Size() int {
	return len(s.data)
}

func (s *Script) IsEmpty() bool {
	return len(s.data) == 0
}

func (s *Script) PushOpCode(n int) {
	s.data = append(s.data, byte(n))
}

func (s *Script) PushInt64(n int64) {
	if n == -1 || (n >= 1 && n <= 16) {
		s.data = append(s.data, byte(n+(opcodes.OP_1-1)))
		return
	}
	if n == 0 {
		s.data = append(s.data, byte(opcodes.OP_0))
		return
	}
	s.PushScriptNum(NewScriptNum(n))
}

func (s *Script) PushScriptNum(sn *ScriptNum) {
	s.PushData(sn.Serialize())
}

// PushData appends data with the canonical minimal push prefix.
func (s *Script) PushData(data []byte) {
	dataLen := len(data)
	switch {
	case dataLen < opcodes.OP_PUSHDATA1:
		s.data = append(s.data, byte(dataLen))
	case dataLen <= 0xff:
		s.data = append(s.data, opcodes.OP_PUSHDATA1, byte(dataLen))
	case dataLen <= 0xffff:
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(dataLen))
		s.data = append(s.data, opcodes.OP_PUSHDATA2)
		s.data = append(s.data, buf...)
	default:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(dataLen))
		s.data = append(s.data, opcodes.OP_PUSHDATA4)
		s.data = append(s.data, buf...)
	}
	s.data = append(s.data, data...)
}

// GetSigOpCount counts signature operations without descending into P2SH
// redemption scripts.
func (s *Script) GetSigOpCount() int {
	count := 0
	for i := 0; i < len(s.data); {
		op := int(s.data[i])
		switch {
		case op == opcodes.OP_CHECKSIG || op == opcodes.OP_CHECKSIGVERIFY:
			count++
		case op == opcodes.OP_CHECKMULTISIG || op == opcodes.OP_CHECKMULTISIGVERIFY:
			// Accurate counting needs the preceding push; without it the
			// conservative consensus value of 20 applies.
			count += 20
		}
		i += pushedLength(s.data[i:]) + 1
	}
	return count
}

// pushedLength returns how many bytes after the opcode belong to its push.
func pushedLength(data []byte) int {
	op := int(data[0])
	switch {
	case op > opcodes.OP_0 && op < opcodes.OP_PUSHDATA1:
		return op
	case op == opcodes.OP_PUSHDATA1:
		if len(data) < 2 {
			return len(data) - 1
		}
		return 1 + int(data[1])
	case op == opcodes.OP_PUSHDATA2:
		if len(data) < 3 {
			return len(data) - 1
		}
		return 2 + int(binary.LittleEndian.Uint16(data[1:3]))
	case op == opcodes.OP_PUSHDATA4:
		if len(data) < 5 {
			return len(data) - 1
		}
		return 4 + int(binary.LittleEndian.Uint32(data[1:5]))
	}
	return 0
}

func (s *Script) SerializeSize() uint32 {
	return util.VarIntSerializeSize(uint64(len(s.data))) + uint32(len(s.data))
}

func (s *Script) Serialize(w io.Writer) error {
	return util.WriteVarBytes(w, s.data)
}

func (s *Script) Unserialize(r io.Reader) error {
	data, err := util.ReadVarBytes(r, MaxScriptSize, "script")
	if err != nil {
		return err
	}
	s.data = data
	return nil
}
