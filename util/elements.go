package util

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// WriteElements serializes each element to w in little endian byte order.
func WriteElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		if err := WriteElement(w, element); err != nil {
			return err
		}
	}
	return nil
}

func WriteElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case int32:
		return binary.Write(w, binary.LittleEndian, e)
	case uint32:
		return binary.Write(w, binary.LittleEndian, e)
	case int64:
		return binary.Write(w, binary.LittleEndian, e)
	case uint64:
		return binary.Write(w, binary.LittleEndian, e)
	case uint8:
		return binary.Write(w, binary.LittleEndian, e)
	case *Hash:
		_, err := e.Serialize(w)
		return err
	case []byte:
		_, err := w.Write(e)
		return err
	}
	return errors.Errorf("unsupported element type %T", element)
}

func ReadElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		if err := ReadElement(r, element); err != nil {
			return err
		}
	}
	return nil
}

func ReadElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *int32:
		return binary.Read(r, binary.LittleEndian, e)
	case *uint32:
		return binary.Read(r, binary.LittleEndian, e)
	case *int64:
		return binary.Read(r, binary.LittleEndian, e)
	case *uint64:
		return binary.Read(r, binary.LittleEndian, e)
	case *uint8:
		return binary.Read(r, binary.LittleEndian, e)
	case *Hash:
		_, err := e.Unserialize(r)
		return err
	}
	return errors.Errorf("unsupported element type %T", element)
}
