// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"goldsrc/math/vec"
)

func (p *Plane) NormalVec() vec.Vec3 {
	return vec.VFromA(p.Normal)
}

// Distance returns the signed distance of pt from the plane.
func (p *Plane) Distance(pt vec.Vec3) float32 {
	if p.Type >= 0 && p.Type < 3 && p.Normal[p.Type] == 1 {
		return pt.Idx(int(p.Type)) - p.Dist
	}
	return vec.DoublePrecDot(p.NormalVec(), pt) - p.Dist
}
