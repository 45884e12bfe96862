// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	"github.com/chewxy/math32"
)

const (
	Pi = math32.Pi
)

// Lerp computes a weighted average between a and b.
func Lerp(a, b, frac float32) float32 {
	return (1-frac)*a + frac*b
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float32) float32 {
	return rad * 180 / Pi
}

// FloorDiv returns floor(v/d) as an int.
func FloorDiv(v, d float32) int {
	return int(math32.Floor(v / d))
}

// CeilDiv returns ceil(v/d) as an int.
func CeilDiv(v, d float32) int {
	return int(math32.Ceil(v / d))
}

// CeilSqrt returns the smallest c with c*c >= n.
func CeilSqrt(n int) int {
	if n <= 0 {
		return 0
	}
	c := int(math32.Ceil(math32.Sqrt(float32(n))))
	for c*c < n {
		c++
	}
	for c > 1 && (c-1)*(c-1) >= n {
		c--
	}
	return c
}
