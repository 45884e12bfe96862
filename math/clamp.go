// SPDX-License-Identifier: GPL-2.0-or-later

package math

// Number covers the sample, frame and fraction types the decoders clamp.
type Number interface {
	~int | ~int32 | ~float32
}

// Clamp limits v to [lo, hi]. lo wins if the range is empty.
func Clamp[K Number](lo, v, hi K) K {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
