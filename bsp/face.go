// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"goldsrc/format"
	"goldsrc/math"
	"goldsrc/math/vec"
)

// LightmapTexel is the size of one lightmap sample in world units.
const LightmapTexel = 16

func (g *Geometry) face(i int) (*Face, error) {
	if i < 0 || i >= len(g.Faces) {
		return nil, format.BadIndex("face", i, len(g.Faces))
	}
	return &g.Faces[i], nil
}

func (g *Geometry) texInfo(i int) (*TexInfo, error) {
	if i < 0 || i >= len(g.TexInfos) {
		return nil, format.BadIndex("texinfo", i, len(g.TexInfos))
	}
	return &g.TexInfos[i], nil
}

// edgeVertex returns the vertex a surface edge starts at. Positive surface
// edges walk an edge forward, others walk edge -se backwards.
func (g *Geometry) edgeVertex(se int32) (int, error) {
	i, side := int(se), 0
	if se <= 0 {
		i, side = -i, 1
	}
	if i >= len(g.Edges) {
		return 0, format.BadIndex("edge", i, len(g.Edges))
	}
	v := int(g.Edges[i].Vertex[side])
	if v >= len(g.Vertices) {
		return 0, format.BadIndex("vertex", v, len(g.Vertices))
	}
	return v, nil
}

// FaceVertices returns the vertex indices of the loop around face i.
func (g *Geometry) FaceVertices(i int) ([]int, error) {
	f, err := g.face(i)
	if err != nil {
		return nil, err
	}
	first, n := int(f.FirstEdge), int(f.EdgeCount)
	if first+n > len(g.SurfaceEdges) {
		return nil, format.BadIndex("surface edge", first+n-1, len(g.SurfaceEdges))
	}
	loop := make([]int, n)
	for j, se := range g.SurfaceEdges[first : first+n] {
		if loop[j], err = g.edgeVertex(se); err != nil {
			return nil, err
		}
	}
	return loop, nil
}

// project returns the texture space coordinates of p, in texels.
func (ti *TexInfo) project(p vec.Vec3) (float32, float32) {
	s := vec.Dot(p, vec.VFromA(ti.S)) + ti.SShift
	t := vec.Dot(p, vec.VFromA(ti.T)) + ti.TShift
	return s, t
}

// FaceLightmap places the lightmap of a face in texture space.
type FaceLightmap struct {
	TextureMins [2]int // lower corner, in texels, multiple of LightmapTexel
	Extents     [2]int // size in texels, multiple of LightmapTexel
	Width       int    // samples per row, Extents[0]/LightmapTexel + 1
	Height      int    // rows, Extents[1]/LightmapTexel + 1
}

// Samples returns the number of RGB samples stored for one light style.
func (l FaceLightmap) Samples() int {
	return l.Width * l.Height
}

// FaceLightmap computes the lightmap grid of face i from the texture space
// bounds of its vertices. Samples sit on the grid corners, so a face
// spanning n texel cells stores n+1 samples per axis; that count is the
// row stride of the face's data in the lighting lump.
func (g *Geometry) FaceLightmap(i int) (FaceLightmap, error) {
	var l FaceLightmap
	f, err := g.face(i)
	if err != nil {
		return l, err
	}
	ti, err := g.texInfo(int(f.TexInfoID))
	if err != nil {
		return l, err
	}
	loop, err := g.FaceVertices(i)
	if err != nil {
		return l, err
	}
	if len(loop) == 0 {
		return l, nil
	}
	var mins, maxs [2]float32
	for j, v := range loop {
		s, t := ti.project(g.Vertices[v])
		if j == 0 {
			mins, maxs = [2]float32{s, t}, [2]float32{s, t}
			continue
		}
		mins[0], maxs[0] = min(mins[0], s), max(maxs[0], s)
		mins[1], maxs[1] = min(mins[1], t), max(maxs[1], t)
	}
	for k := 0; k < 2; k++ {
		lo := math.FloorDiv(mins[k], LightmapTexel)
		hi := math.CeilDiv(maxs[k], LightmapTexel)
		l.TextureMins[k] = lo * LightmapTexel
		l.Extents[k] = (hi - lo) * LightmapTexel
	}
	l.Width = l.Extents[0]/LightmapTexel + 1
	l.Height = l.Extents[1]/LightmapTexel + 1
	return l, nil
}

// HasLightmap reports whether face f stores lightmap samples.
func (f *Face) HasLightmap() bool {
	return f.LightmapOffset >= 0 && f.Styles[0] != 255
}
