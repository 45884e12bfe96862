// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"fmt"

	"github.com/pkg/errors"

	"goldsrc/format"
)

// ChildRef is a decoded node child: either a node or a leaf index.
type ChildRef struct {
	Index int
	Leaf  bool
}

func (c ChildRef) String() string {
	if c.Leaf {
		return fmt.Sprintf("leaf %d", c.Index)
	}
	return fmt.Sprintf("node %d", c.Index)
}

// DecodeChild decodes a node child value. Positive values are nodes and
// negative values are the bitwise complement of a leaf index. Zero names
// the root node, which is only valid where allowZero is set: at the start
// of a walk.
func DecodeChild(v int32, allowZero bool) (ChildRef, error) {
	switch {
	case v > 0 || (v == 0 && allowZero):
		return ChildRef{Index: int(v)}, nil
	case v < 0:
		return ChildRef{Index: int(^v), Leaf: true}, nil
	}
	return ChildRef{}, errors.Wrap(format.ErrCorruptTree, "node child refers to the root node")
}

func (g *Geometry) node(i int) (*Node, error) {
	if i < 0 || i >= len(g.Nodes) {
		return nil, format.BadIndex("node", i, len(g.Nodes))
	}
	return &g.Nodes[i], nil
}

func (g *Geometry) leaf(i int) (*Leaf, error) {
	if i < 0 || i >= len(g.Leaves) {
		return nil, format.BadIndex("leaf", i, len(g.Leaves))
	}
	return &g.Leaves[i], nil
}

func (g *Geometry) plane(i int) (*Plane, error) {
	if i < 0 || i >= len(g.Planes) {
		return nil, format.BadIndex("plane", i, len(g.Planes))
	}
	return &g.Planes[i], nil
}

// maxDepth bounds recursion: no path through a tree is longer than its node count.
func (g *Geometry) maxDepth() int {
	return len(g.Nodes) + 1
}

func errTooDeep(root int32) error {
	return errors.Wrapf(format.ErrCorruptTree, "node tree at %d is cyclic", root)
}
