package util

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// WriteVarInt writes val to w using the bitcoin compact size encoding.
func WriteVarInt(w io.Writer, val uint64) error {
	if val < 0xfd {
		return WriteElement(w, uint8(val))
	}
	if val <= 0xffff {
		if err := WriteElement(w, uint8(0xfd)); err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, uint16(val))
	}
	if val <= 0xffffffff {
		if err := WriteElement(w, uint8(0xfe)); err != nil {
			return err
		}
		return WriteElement(w, uint32(val))
	}
	if err := WriteElement(w, uint8(0xff)); err != nil {
		return err
	}
	return WriteElement(w, val)
}

func ReadVarInt(r io.Reader) (uint64, error) {
	var discriminant uint8
	if err := ReadElement(r, &discriminant); err != nil {
		return 0, err
	}
	switch discriminant {
	case 0xff:
		var val uint64
		if err := ReadElement(r, &val); err != nil {
			return 0, err
		}
		if val < 0x100000000 {
			return 0, errors.Errorf("non-canonical varint %x", val)
		}
		return val, nil
	case 0xfe:
		var val uint32
		if err := ReadElement(r, &val); err != nil {
			return 0, err
		}
		if val < 0x10000 {
			return 0, errors.Errorf("non-canonical varint %x", val)
		}
		return uint64(val), nil
	case 0xfd:
		var val uint16
		if err := binary.Read(r, binary.LittleEndian, &val); err != nil {
			return 0, err
		}
		if val < 0xfd {
			return 0, errors.Errorf("non-canonical varint %x", val)
		}
		return uint64(val), nil
	}
	return uint64(discriminant), nil
}

// VarIntSerializeSize returns the number of bytes WriteVarInt will emit.
func VarIntSerializeSize(val uint64) uint32 {
	if val < 0xfd {
		return 1
	}
	if val <= 0xffff {
		return 3
	}
	if val <= 0xffffffff {
		return 5
	}
	return 9
}

// WriteVarBytes writes a variable length byte slice prefixed by its size.
func WriteVarBytes(w io.Writer, bytes []byte) error {
	if err := WriteVarInt(w, uint64(len(bytes))); err != nil {
		return err
	}
	_, err := w.Write(bytes)
	return err
}

func ReadVarBytes(r io.Reader, maxAllowed uint64, fieldName string) ([]byte, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > maxAllowed {
		return nil, errors.Errorf("%s is larger than the max allowed size "+
			"count %d, max %d", fieldName, count, maxAllowed)
	}
	bytes := make([]byte, count)
	_, err = io.ReadFull(r, bytes)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}
