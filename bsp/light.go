// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"goldsrc/format"
	"goldsrc/math/vec"
)

// LightPoint returns the lightmap color of the first lit surface below p.
func (g *Geometry) LightPoint(p vec.Vec3) ([3]uint8, bool, error) {
	end := p
	end.Z -= 2048
	return g.recursiveLight(0, true, p, end, 0)
}

func (g *Geometry) recursiveLight(v int32, allowZero bool, start, end vec.Vec3, depth int) ([3]uint8, bool, error) {
	if depth > g.maxDepth() {
		return [3]uint8{}, false, errTooDeep(0)
	}
	c, err := DecodeChild(v, allowZero)
	if err != nil || c.Leaf {
		return [3]uint8{}, false, err
	}
	n, err := g.node(c.Index)
	if err != nil {
		return [3]uint8{}, false, err
	}
	pl, err := g.plane(int(n.PlaneID))
	if err != nil {
		return [3]uint8{}, false, err
	}
	front := pl.Distance(start)
	back := pl.Distance(end)
	side := 0
	if front < 0 {
		side = 1
	}
	if (back < 0) == (front < 0) {
		return g.recursiveLight(int32(n.Children[side]), false, start, end, depth+1)
	}
	frac := front / (front - back)
	mid := vec.Lerp(start, end, frac)

	// front side
	if c, ok, err := g.recursiveLight(int32(n.Children[side]), false, start, mid, depth+1); ok || err != nil {
		return c, ok, err
	}

	for fi := int(n.FirstFace); fi < int(n.FirstFace)+int(n.FaceCount); fi++ {
		f, err := g.face(fi)
		if err != nil {
			return [3]uint8{}, false, err
		}
		if !f.HasLightmap() {
			continue
		}
		ti, err := g.texInfo(int(f.TexInfoID))
		if err != nil {
			return [3]uint8{}, false, err
		}
		lm, err := g.FaceLightmap(fi)
		if err != nil {
			return [3]uint8{}, false, err
		}
		s, t := ti.project(mid)
		ds := int(s) - lm.TextureMins[0]
		dt := int(t) - lm.TextureMins[1]
		if ds < 0 || dt < 0 || ds > lm.Extents[0] || dt > lm.Extents[1] {
			continue
		}
		off := int(f.LightmapOffset) + ((dt/LightmapTexel)*lm.Width+ds/LightmapTexel)*3
		b, err := format.Range(g.Lighting, off, 3, "light sample")
		if err != nil {
			return [3]uint8{}, false, err
		}
		return [3]uint8{b[0], b[1], b[2]}, true, nil
	}

	// go down back side
	return g.recursiveLight(int32(n.Children[side^1]), false, mid, end, depth+1)
}
