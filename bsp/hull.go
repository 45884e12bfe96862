// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"log/slog"

	"github.com/pkg/errors"

	"goldsrc/format"
	"goldsrc/math"
	"goldsrc/math/vec"
)

// MaxHulls is the number of head nodes per model. Hull 0 is the render
// tree, hulls 1 to 3 are clip node trees for the player and monster sizes.
const MaxHulls = 4

// Hull is a clip node tree used for collision traces of one box size.
type Hull struct {
	g    *Geometry
	Head int32
}

type tracePlane struct {
	Normal   vec.Vec3
	Distance float32
}

type Trace struct {
	AllSolid   bool
	StartSolid bool
	InOpen     bool
	InWater    bool
	Fraction   float32
	EndPos     vec.Vec3
	Plane      tracePlane
}

// Hull returns clip hull h (1 to 3) of model m.
func (g *Geometry) Hull(m, h int) (*Hull, error) {
	if m < 0 || m >= len(g.Models) {
		return nil, format.BadIndex("model", m, len(g.Models))
	}
	if h < 1 || h >= MaxHulls {
		return nil, errors.Errorf("hull %d is not a clip hull", h)
	}
	return &Hull{g: g, Head: g.Models[m].HeadNodes[h]}, nil
}

func (h *Hull) clipNode(num int32) (*ClipNode, *Plane, error) {
	if num < 0 || int(num) >= len(h.g.ClipNodes) {
		return nil, nil, format.BadIndex("clip node", int(num), len(h.g.ClipNodes))
	}
	node := &h.g.ClipNodes[num]
	plane, err := h.g.plane(int(node.PlaneID))
	if err != nil {
		return nil, nil, err
	}
	return node, plane, nil
}

// PointContents returns the contents of the hull at p.
func (h *Hull) PointContents(p vec.Vec3) (Contents, error) {
	return h.pointContents(h.Head, p)
}

func (h *Hull) pointContents(num int32, p vec.Vec3) (Contents, error) {
	for depth := 0; num >= 0; depth++ {
		if depth > len(h.g.ClipNodes) {
			return 0, errTooDeep(h.Head)
		}
		node, plane, err := h.clipNode(num)
		if err != nil {
			return 0, err
		}
		if plane.Distance(p) < 0 {
			num = int32(node.Children[1])
		} else {
			num = int32(node.Children[0])
		}
	}
	return Contents(num), nil
}

// Trace moves a point through the hull from p1 to p2 and reports where it
// first hits solid contents.
func (h *Hull) Trace(p1, p2 vec.Vec3) (Trace, error) {
	tr := Trace{AllSolid: true, Fraction: 1, EndPos: p2}
	_, err := h.recursiveCheck(h.Head, 0, 1, p1, p2, &tr, 0)
	return tr, err
}

func (h *Hull) recursiveCheck(num int32, p1f, p2f float32, p1, p2 vec.Vec3, trace *Trace, depth int) (bool, error) {
	const epsilon = 0.03125 // (1/32) to keep floating point happy
	if num < 0 {            // check for empty
		if Contents(num) != ContentsSolid {
			trace.AllSolid = false
			if Contents(num) == ContentsEmpty {
				trace.InOpen = true
			} else {
				trace.InWater = true
			}
		} else {
			trace.StartSolid = true
		}
		return true, nil
	}
	if depth > len(h.g.ClipNodes) {
		return false, errTooDeep(h.Head)
	}
	node, plane, err := h.clipNode(num)
	if err != nil {
		return false, err
	}
	t1 := plane.Distance(p1)
	t2 := plane.Distance(p2)
	if t1 >= 0 && t2 >= 0 {
		return h.recursiveCheck(int32(node.Children[0]), p1f, p2f, p1, p2, trace, depth+1)
	}
	if t1 < 0 && t2 < 0 {
		return h.recursiveCheck(int32(node.Children[1]), p1f, p2f, p1, p2, trace, depth+1)
	}

	// put the crosspoint epsilon pixels on the near side
	frac := func() float32 {
		d := t1 - t2
		if t1 < 0 {
			return (t1 + epsilon) / d
		}
		return (t1 - epsilon) / d
	}()
	frac = math.Clamp(0, frac, 1)
	midf := math.Lerp(p1f, p2f, frac)
	mid := vec.Lerp(p1, p2, frac)
	side := 0
	if t1 < 0 {
		side = 1
	}
	// move up to the node
	if ok, err := h.recursiveCheck(int32(node.Children[side]), p1f, midf, p1, mid, trace, depth+1); !ok || err != nil {
		return false, err
	}
	far := int32(node.Children[side^1])
	c, err := h.pointContents(far, mid)
	if err != nil {
		return false, err
	}
	if c != ContentsSolid {
		return h.recursiveCheck(far, midf, p2f, mid, p2, trace, depth+1)
	}
	if trace.AllSolid {
		return false, nil // never got out of the solid area
	}
	// the other side of the node is solid, this is the impact point
	if side == 0 {
		trace.Plane.Normal = plane.NormalVec()
		trace.Plane.Distance = plane.Dist
	} else {
		trace.Plane.Normal = plane.NormalVec().Neg()
		trace.Plane.Distance = -plane.Dist
	}
	for {
		c, err := h.pointContents(h.Head, mid)
		if err != nil {
			return false, err
		}
		if c != ContentsSolid {
			break
		}
		// shouldn't really happen, but does occasionally
		frac -= 0.1
		if frac < 0 {
			trace.Fraction = midf
			trace.EndPos = mid
			slog.Debug("Trace backed up past start")
			return false, nil
		}
		midf = math.Lerp(p1f, p2f, frac)
		mid = vec.Lerp(p1, p2, frac)
	}
	trace.Fraction = midf
	trace.EndPos = mid
	return false, nil
}
