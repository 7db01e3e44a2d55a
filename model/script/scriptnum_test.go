package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScriptNumRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 127, 128, 255, 256, 1000, -1000, 0x7fffffff, 1 << 40} {
		got := DeserializeScriptNum(NewScriptNum(v).Serialize())
		assert.Equal(t, v, got, "value %d", v)
	}
}

func TestScriptNumMinimalEncoding(t *testing.T) {
	assert.Nil(t, NewScriptNum(0).Serialize())
	assert.Equal(t, []byte{0x01}, NewScriptNum(1).Serialize())
	assert.Equal(t, []byte{0x81}, NewScriptNum(-1).Serialize())
	// 128 needs a padding byte so the sign bit stays clear.
	assert.Equal(t, []byte{0x80, 0x00}, NewScriptNum(128).Serialize())
}

func TestPushInt64SmallIntsUseOpcodes(t *testing.T) {
	s := NewEmptyScript()
	s.PushInt64(0)
	s.PushInt64(1)
	s.PushInt64(16)
	assert.Equal(t, []byte{0x00, 0x51, 0x60}, s.GetData())
}

func TestPushDataPrefixes(t *testing.T) {
	s := NewEmptyScript()
	s.PushData(make([]byte, 10))
	assert.Equal(t, 11, s.Size())

	s = NewEmptyScript()
	s.PushData(make([]byte, 80))
	assert.Equal(t, 82, s.Size())
}

func TestGetSigOpCount(t *testing.T) {
	s := NewScriptRaw([]byte{0x76, 0xa9, 0xac}) // DUP HASH160 CHECKSIG
	assert.Equal(t, 1, s.GetSigOpCount())

	empty := NewEmptyScript()
	assert.Equal(t, 0, empty.GetSigOpCount())
}
