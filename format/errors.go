// SPDX-License-Identifier: GPL-2.0-or-later

// Package format holds the pieces shared by the bsp, wad and mdl decoders:
// the error kinds they report and bounds checked access to little endian
// records inside a fully buffered file.
package format

import (
	"github.com/pkg/errors"
)

var (
	// ErrBadMagic reports a file whose magic or version is not the expected one.
	ErrBadMagic = errors.New("bad magic or version")
	// ErrOutOfBounds reports an offset, length or index outside its buffer.
	ErrOutOfBounds = errors.New("out of bounds")
	// ErrCorruptAnimation reports animation value runs that overrun their buffer.
	ErrCorruptAnimation = errors.New("corrupt animation data")
	// ErrUnsupported reports a valid feature the decoders do not handle.
	ErrUnsupported = errors.New("unsupported feature")
	// ErrSyntax reports malformed entity text.
	ErrSyntax = errors.New("syntax error")
	// ErrCorruptTree reports a node or bone graph that is not a tree.
	ErrCorruptTree = errors.New("corrupt tree")
)

// OutOfBounds wraps ErrOutOfBounds with the offending range.
func OutOfBounds(what string, off, n, size int) error {
	return errors.Wrapf(ErrOutOfBounds, "%s: [%d,%d) exceeds %d bytes", what, off, off+n, size)
}

// BadIndex wraps ErrOutOfBounds with an index and the length of the indexed array.
func BadIndex(what string, idx, length int) error {
	return errors.Wrapf(ErrOutOfBounds, "%s %d not in [0,%d)", what, idx, length)
}
