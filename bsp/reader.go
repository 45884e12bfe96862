// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"

	"goldsrc/format"
	"goldsrc/math/vec"
)

func (r *Reader) Planes() ([]Plane, error)        { return decodeLump[Plane](r, LumpPlanes) }
func (r *Reader) Vertices() ([]vec.Vec3, error)   { return decodeLump[vec.Vec3](r, LumpVertices) }
func (r *Reader) Nodes() ([]Node, error)          { return decodeLump[Node](r, LumpNodes) }
func (r *Reader) TexInfos() ([]TexInfo, error)    { return decodeLump[TexInfo](r, LumpTexInfo) }
func (r *Reader) Faces() ([]Face, error)          { return decodeLump[Face](r, LumpFaces) }
func (r *Reader) ClipNodes() ([]ClipNode, error)  { return decodeLump[ClipNode](r, LumpClipNodes) }
func (r *Reader) Leaves() ([]Leaf, error)         { return decodeLump[Leaf](r, LumpLeaves) }
func (r *Reader) MarkSurfaces() ([]uint16, error) { return decodeLump[uint16](r, LumpMarkSurfaces) }
func (r *Reader) Edges() ([]Edge, error)          { return decodeLump[Edge](r, LumpEdges) }
func (r *Reader) SurfaceEdges() ([]int32, error)  { return decodeLump[int32](r, LumpSurfaceEdges) }
func (r *Reader) Models() ([]Model, error)        { return decodeLump[Model](r, LumpModels) }

// Lighting returns the raw RGB lightmap samples.
func (r *Reader) Lighting() ([]byte, error) { return r.LumpBytes(LumpLighting) }

// Visibility returns the run length compressed PVS data.
func (r *Reader) Visibility() ([]byte, error) { return r.LumpBytes(LumpVisibility) }

// EntitiesText returns the entity lump as text, without the trailing NUL.
func (r *Reader) EntitiesText() (string, error) {
	b, err := r.LumpBytes(LumpEntities)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return format.Text(b), nil
}

// Entities parses the entity lump.
func (r *Reader) Entities() ([]*Entity, error) {
	s, err := r.EntitiesText()
	if err != nil {
		return nil, err
	}
	return ParseEntities(s)
}

// Geometry holds every decoded record array of a level. Records refer to
// each other by index into these slices.
type Geometry struct {
	Planes       []Plane
	Vertices     []vec.Vec3
	Nodes        []Node
	TexInfos     []TexInfo
	Faces        []Face
	ClipNodes    []ClipNode
	Leaves       []Leaf
	MarkSurfaces []uint16
	Edges        []Edge
	SurfaceEdges []int32
	Models       []Model
	Lighting     []byte
	Visibility   []byte
	Textures     *TextureDirectory
}

// Geometry decodes all lumps needed for tree walks, traces and lightmaps.
func (r *Reader) Geometry() (*Geometry, error) {
	g := &Geometry{}
	var err error
	if g.Planes, err = r.Planes(); err != nil {
		return nil, err
	}
	if g.Vertices, err = r.Vertices(); err != nil {
		return nil, err
	}
	if g.Nodes, err = r.Nodes(); err != nil {
		return nil, err
	}
	if g.TexInfos, err = r.TexInfos(); err != nil {
		return nil, err
	}
	if g.Faces, err = r.Faces(); err != nil {
		return nil, err
	}
	if g.ClipNodes, err = r.ClipNodes(); err != nil {
		return nil, err
	}
	if g.Leaves, err = r.Leaves(); err != nil {
		return nil, err
	}
	if g.MarkSurfaces, err = r.MarkSurfaces(); err != nil {
		return nil, err
	}
	if g.Edges, err = r.Edges(); err != nil {
		return nil, err
	}
	if g.SurfaceEdges, err = r.SurfaceEdges(); err != nil {
		return nil, err
	}
	if g.Models, err = r.Models(); err != nil {
		return nil, err
	}
	if g.Lighting, err = r.Lighting(); err != nil {
		return nil, err
	}
	if g.Visibility, err = r.Visibility(); err != nil {
		return nil, err
	}
	if g.Textures, err = r.Textures(); err != nil {
		return nil, err
	}
	return g, nil
}
