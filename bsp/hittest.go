// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"goldsrc/math/vec"
)

// Hit describes where a segment first enters a selected leaf.
type Hit struct {
	Leaf     int
	Position vec.Vec3
	Normal   vec.Vec3 // of the last plane crossed, facing the start point
}

// LeafFilter selects the leaves a hit test stops at.
type LeafFilter func(*Leaf) bool

// Occupied selects leaves that mark at least one surface.
func Occupied(l *Leaf) bool {
	return l.MarkSurfaceCount > 0
}

// Solid selects solid leaves.
func Solid(l *Leaf) bool {
	return l.Contents == ContentsSolid
}

// HitTest finds the first occupied leaf along the segment p1-p2.
func (g *Geometry) HitTest(root int32, allowZero bool, p1, p2 vec.Vec3) (Hit, bool, error) {
	return g.HitTestFunc(root, allowZero, p1, p2, Occupied)
}

// HitTestFunc finds the first leaf along p1-p2 for which stop returns true.
func (g *Geometry) HitTestFunc(root int32, allowZero bool, p1, p2 vec.Vec3, stop LeafFilter) (Hit, bool, error) {
	return g.hitTest(root, allowZero, p1, p2, vec.Vec3{}, stop, 0)
}

func (g *Geometry) hitTest(v int32, allowZero bool, p1, p2, normal vec.Vec3, stop LeafFilter, depth int) (Hit, bool, error) {
	if depth > g.maxDepth() {
		return Hit{}, false, errTooDeep(v)
	}
	c, err := DecodeChild(v, allowZero)
	if err != nil {
		return Hit{}, false, err
	}
	if c.Leaf {
		l, err := g.leaf(c.Index)
		if err != nil {
			return Hit{}, false, err
		}
		if stop(l) {
			return Hit{Leaf: c.Index, Position: p1, Normal: normal}, true, nil
		}
		return Hit{}, false, nil
	}
	n, err := g.node(c.Index)
	if err != nil {
		return Hit{}, false, err
	}
	pl, err := g.plane(int(n.PlaneID))
	if err != nil {
		return Hit{}, false, err
	}
	t1 := pl.Distance(p1)
	t2 := pl.Distance(p2)
	if t1 >= 0 && t2 >= 0 {
		return g.hitTest(int32(n.Children[0]), false, p1, p2, normal, stop, depth+1)
	}
	if t1 < 0 && t2 < 0 {
		return g.hitTest(int32(n.Children[1]), false, p1, p2, normal, stop, depth+1)
	}

	frac := t1 / (t1 - t2)
	mid := vec.Lerp(p1, p2, frac)
	side := 0
	if t1 < 0 {
		side = 1
	}
	// the crossed plane, turned towards p1
	crossed := pl.NormalVec()
	if side == 1 {
		crossed = crossed.Neg()
	}
	// near side first
	if h, ok, err := g.hitTest(int32(n.Children[side]), false, p1, mid, normal, stop, depth+1); ok || err != nil {
		return h, ok, err
	}
	return g.hitTest(int32(n.Children[side^1]), false, mid, p2, crossed, stop, depth+1)
}

// PointInLeaf returns the leaf of the world tree containing p.
func (g *Geometry) PointInLeaf(p vec.Vec3) (int, error) {
	v, allowZero := int32(0), true
	for depth := 0; depth <= g.maxDepth(); depth++ {
		c, err := DecodeChild(v, allowZero)
		if err != nil {
			return 0, err
		}
		if c.Leaf {
			if _, err := g.leaf(c.Index); err != nil {
				return 0, err
			}
			return c.Index, nil
		}
		n, err := g.node(c.Index)
		if err != nil {
			return 0, err
		}
		pl, err := g.plane(int(n.PlaneID))
		if err != nil {
			return 0, err
		}
		if pl.Distance(p) > 0 {
			v = int32(n.Children[0])
		} else {
			v = int32(n.Children[1])
		}
		allowZero = false
	}
	return 0, errTooDeep(0)
}
