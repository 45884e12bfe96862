// SPDX-License-Identifier: GPL-2.0-or-later

package math

import "github.com/chewxy/math32"

// AngleMod32 wraps a yaw in degrees into [0,360).
func AngleMod32(a float32) float32 {
	a -= math32.Floor(a/360) * 360
	if a >= 360 {
		// rounding of tiny negative angles
		a = 0
	}
	return a
}
