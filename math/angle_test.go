// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	"testing"
)

func TestAngleMod32(t *testing.T) {
	tests := []struct{ in, want float32 }{
		{0, 0},
		{90, 90},
		{360, 0},
		{450, 90},
		{-90, 270},
		{-720, 0},
		{-1e-6, 0},
	}
	for _, tc := range tests {
		got := AngleMod32(tc.in)
		if got != tc.want {
			t.Errorf("AngleMod32(%v) = %v, want %v", tc.in, got, tc.want)
		}
		if got < 0 || got >= 360 {
			t.Errorf("AngleMod32(%v) = %v outside [0,360)", tc.in, got)
		}
	}
}
