// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"log/slog"

	"goldsrc/format"
)

// DecompressVis expands a run length compressed visibility row of row bytes.
//
// 'in' is compressed and looks like
// 70550311
// and gets uncompressed to
// 700000500011	(7 5x0 5 3x0 1 1)
func DecompressVis(in []byte, row int) []byte {
	out := make([]byte, row)
	j := 0
	for i := 0; i < len(in) && j < row; i++ {
		if in[i] != 0 {
			out[j] = in[i]
			j++
			continue
		}
		i++
		if i >= len(in) {
			slog.Warn("Faulty vis data")
			break
		}
		j += int(in[i])
	}
	return out
}

// visRow returns the number of bytes of one visibility row.
func (g *Geometry) visRow() int {
	n := len(g.Leaves) - 1 // leaf 0 is the shared solid leaf
	if len(g.Models) > 0 {
		n = int(g.Models[0].VisLeafCount)
	}
	return (max(n, 0) + 7) / 8
}

// LeafPVS returns the set of leaves potentially visible from leaf, one bit
// per leaf starting with leaf 1. Leaves without vis data see everything.
func (g *Geometry) LeafPVS(leaf int) ([]byte, error) {
	l, err := g.leaf(leaf)
	if err != nil {
		return nil, err
	}
	row := g.visRow()
	if leaf == 0 || l.VisOffset < 0 || len(g.Visibility) == 0 {
		return bytes.Repeat([]byte{0xff}, row), nil
	}
	in, err := format.Tail(g.Visibility, int(l.VisOffset), "leaf vis")
	if err != nil {
		return nil, err
	}
	return DecompressVis(in, row), nil
}

// Visible reports whether leaf b is in the PVS of leaf a.
func (g *Geometry) Visible(a, b int) (bool, error) {
	pvs, err := g.LeafPVS(a)
	if err != nil {
		return false, err
	}
	if b == 0 {
		return false, nil
	}
	bit := b - 1
	if bit/8 >= len(pvs) {
		return false, format.BadIndex("leaf", b, len(pvs)*8+1)
	}
	return pvs[bit/8]&(1<<(bit%8)) != 0, nil
}
