// SPDX-License-Identifier: GPL-2.0-or-later

package format

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// Range returns b[off:off+n] or an ErrOutOfBounds error.
func Range(b []byte, off, n int, what string) ([]byte, error) {
	if off < 0 || n < 0 || off > len(b) || n > len(b)-off {
		return nil, OutOfBounds(what, off, n, len(b))
	}
	return b[off : off+n], nil
}

// Tail returns b[off:] or an ErrOutOfBounds error.
func Tail(b []byte, off int, what string) ([]byte, error) {
	if off < 0 || off > len(b) {
		return nil, OutOfBounds(what, off, 0, len(b))
	}
	return b[off:], nil
}

// Read decodes one little endian fixed size record at off into v.
func Read(b []byte, off int, v any, what string) error {
	n := binary.Size(v)
	if n < 0 {
		return errors.Errorf("%s: %T has no fixed size", what, v)
	}
	r, err := Range(b, off, n, what)
	if err != nil {
		return err
	}
	if err := binary.Read(bytes.NewReader(r), binary.LittleEndian, v); err != nil {
		return errors.Wrap(err, what)
	}
	return nil
}

// ReadArray decodes count consecutive records of type T starting at off.
func ReadArray[T any](b []byte, off, count int, what string) ([]T, error) {
	if count < 0 {
		return nil, errors.Wrapf(ErrOutOfBounds, "%s: negative count %d", what, count)
	}
	var zero T
	size := binary.Size(zero)
	if size <= 0 {
		return nil, errors.Errorf("%s: %T has no fixed size", what, zero)
	}
	if count > (len(b)+size-1)/size {
		return nil, OutOfBounds(what, off, count*size, len(b))
	}
	r, err := Range(b, off, count*size, what)
	if err != nil {
		return nil, err
	}
	return DecodeAll[T](r, what)
}

// DecodeAll decodes as many whole records of type T as fit into b.
// A trailing partial record is ignored.
func DecodeAll[T any](b []byte, what string) ([]T, error) {
	var zero T
	size := binary.Size(zero)
	if size <= 0 {
		return nil, errors.Errorf("%s: %T has no fixed size", what, zero)
	}
	out := make([]T, len(b)/size)
	if len(out) == 0 {
		return out, nil
	}
	if err := binary.Read(bytes.NewReader(b[:len(out)*size]), binary.LittleEndian, out); err != nil {
		return nil, errors.Wrap(err, what)
	}
	return out, nil
}

// Uint16 reads a little endian uint16 at off.
func Uint16(b []byte, off int, what string) (uint16, error) {
	r, err := Range(b, off, 2, what)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r), nil
}

// Int16 reads a little endian int16 at off.
func Int16(b []byte, off int, what string) (int16, error) {
	v, err := Uint16(b, off, what)
	return int16(v), err
}

// Uint32 reads a little endian uint32 at off.
func Uint32(b []byte, off int, what string) (uint32, error) {
	r, err := Range(b, off, 4, what)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r), nil
}

// Int32 reads a little endian int32 at off.
func Int32(b []byte, off int, what string) (int32, error) {
	v, err := Uint32(b, off, what)
	return int32(v), err
}

// CString decodes a fixed size, NUL padded Windows-1252 name.
func CString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return Text(b)
}

// Text decodes Windows-1252 text. Plain ASCII is returned unchanged.
func Text(b []byte) string {
	ascii := true
	for _, c := range b {
		if c >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(b)
	}
	s, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}
