// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"log/slog"

	"goldsrc/format"
	"goldsrc/math/vec"
)

type Vertex struct {
	Position   vec.Vec3
	Normal     vec.Vec3
	UV         [2]float32
	LightmapUV [2]float32
}

// Part is the index range of one face, drawn with one texture.
type Part struct {
	Face      int
	TextureID int
	First     int
	Count     int
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Parts    []Part
}

// Triangles returns the number of triangles in the mesh.
func (m *Mesh) Triangles() int {
	return len(m.Indices) / 3
}

type walkConfig struct {
	sizes []Size
	atlas *LightmapAtlas
}

type WalkOption func(*walkConfig)

// WithTextureSizes overrides the texture sizes used to normalize UVs,
// e.g. with the sizes of the textures found in WAD files.
func WithTextureSizes(s []Size) WalkOption {
	return func(c *walkConfig) {
		c.sizes = s
	}
}

// WithLightmaps computes lightmap coordinates into a.
func WithLightmaps(a *LightmapAtlas) WalkOption {
	return func(c *walkConfig) {
		c.atlas = a
	}
}

type sharedVertex struct {
	vertex  int
	texInfo int
	face    int // only set with lightmaps, whose coordinates differ per face
}

type walker struct {
	g       *Geometry
	cfg     walkConfig
	mesh    *Mesh
	shared  map[sharedVertex]uint32
	done    map[int]bool
	unknown map[int]bool // textures without a size, logged once
	root    int32
}

// Triangulate visits the node tree below root and emits the faces of every
// leaf as triangle fans. Faces using texinfo 0 are skipped.
//
// A face marked by several leaves is emitted once per walk, so index and
// triangle counts are lower than those of exporters that emit a face once
// for every leaf marking it. The vertices are the same.
func (g *Geometry) Triangulate(root int32, allowZero bool, opts ...WalkOption) (*Mesh, error) {
	w := &walker{
		g:       g,
		mesh:    &Mesh{},
		shared:  make(map[sharedVertex]uint32),
		done:    make(map[int]bool),
		unknown: make(map[int]bool),
		root:    root,
	}
	for _, o := range opts {
		o(&w.cfg)
	}
	if w.cfg.sizes == nil && g.Textures != nil {
		w.cfg.sizes = g.Textures.Sizes()
	}
	if err := w.walk(root, allowZero, 0); err != nil {
		return nil, err
	}
	return w.mesh, nil
}

// TriangulateWorld triangulates the whole level starting at node 0.
func (g *Geometry) TriangulateWorld(opts ...WalkOption) (*Mesh, error) {
	return g.Triangulate(0, true, opts...)
}

// TriangulateModels triangulates each model from its first head node.
func (g *Geometry) TriangulateModels(opts ...WalkOption) ([]*Mesh, error) {
	meshes := make([]*Mesh, 0, len(g.Models))
	for _, m := range g.Models {
		head := m.HeadNodes[0]
		mesh, err := g.Triangulate(head, head == 0, opts...)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

func (w *walker) walk(v int32, allowZero bool, depth int) error {
	if depth > w.g.maxDepth() {
		return errTooDeep(w.root)
	}
	c, err := DecodeChild(v, allowZero)
	if err != nil {
		return err
	}
	if c.Leaf {
		return w.emitLeaf(c.Index)
	}
	n, err := w.g.node(c.Index)
	if err != nil {
		return err
	}
	if err := w.walk(int32(n.Children[0]), false, depth+1); err != nil {
		return err
	}
	return w.walk(int32(n.Children[1]), false, depth+1)
}

func (w *walker) emitLeaf(i int) error {
	l, err := w.g.leaf(i)
	if err != nil {
		return err
	}
	first, n := int(l.FirstMarkSurface), int(l.MarkSurfaceCount)
	if first+n > len(w.g.MarkSurfaces) {
		return format.BadIndex("mark surface", first+n-1, len(w.g.MarkSurfaces))
	}
	for _, f := range w.g.MarkSurfaces[first : first+n] {
		if err := w.emitFace(int(f)); err != nil {
			return err
		}
	}
	return nil
}

// emitFace appends the fan of face fi unless this walk already emitted it.
func (w *walker) emitFace(fi int) error {
	if w.done[fi] {
		return nil
	}
	w.done[fi] = true
	f, err := w.g.face(fi)
	if err != nil {
		return err
	}
	if f.TexInfoID == 0 {
		return nil
	}
	loop, err := w.g.FaceVertices(fi)
	if err != nil {
		return err
	}
	if len(loop) < 3 {
		return nil
	}
	ti, err := w.g.texInfo(int(f.TexInfoID))
	if err != nil {
		return err
	}
	pl, err := w.g.plane(int(f.PlaneID))
	if err != nil {
		return err
	}
	normal := pl.NormalVec()
	if f.PlaneSide != 0 {
		normal = normal.Neg()
	}
	size := w.textureSize(int(ti.TextureID), fi)
	part := Part{
		Face:      fi,
		TextureID: int(ti.TextureID),
		First:     len(w.mesh.Indices),
	}
	for i := 0; i < len(loop)-2; i++ {
		for _, v := range [3]int{loop[i+2], loop[i+1], loop[0]} {
			w.mesh.Indices = append(w.mesh.Indices, w.vertex(v, fi, int(f.TexInfoID), ti, size, normal))
		}
	}
	part.Count = len(w.mesh.Indices) - part.First
	w.mesh.Parts = append(w.mesh.Parts, part)
	return nil
}

// textureSize returns the size UVs of texture id are normalized by. Textures
// without a known size keep their UVs in texels.
func (w *walker) textureSize(id, fi int) Size {
	if id >= 0 && id < len(w.cfg.sizes) {
		if s := w.cfg.sizes[id]; s.Width > 0 && s.Height > 0 {
			return s
		}
	}
	if !w.unknown[id] {
		w.unknown[id] = true
		slog.Warn("Unknown texture size", "texture", id, "face", fi)
	}
	return Size{1, 1}
}

func (w *walker) vertex(v, fi, tii int, ti *TexInfo, size Size, normal vec.Vec3) uint32 {
	key := sharedVertex{vertex: v, texInfo: tii}
	if w.cfg.atlas != nil {
		key.face = fi
	}
	if idx, ok := w.shared[key]; ok {
		return idx
	}
	pos := w.g.Vertices[v]
	s, t := ti.project(pos)
	out := Vertex{
		Position: pos,
		Normal:   normal,
		UV:       [2]float32{s / float32(size.Width), t / float32(size.Height)},
	}
	if a := w.cfg.atlas; a != nil && fi < len(a.Placements) && a.Placements[fi].Present {
		out.LightmapUV = a.uv(fi, s, t)
	}
	idx := uint32(len(w.mesh.Vertices))
	w.mesh.Vertices = append(w.mesh.Vertices, out)
	w.shared[key] = idx
	return idx
}
