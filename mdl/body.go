// SPDX-License-Identifier: GPL-2.0-or-later

package mdl

import (
	"github.com/pkg/errors"

	"goldsrc/format"
	"goldsrc/math/vec"
)

type BodyPart struct {
	Name   string
	Base   int
	Models []*Model
}

// Model is one choice of geometry for a body part.
type Model struct {
	Name           string
	BoundingRadius float32
	Vertices       []vec.Vec3
	Normals        []vec.Vec3
	VertexBones    []uint8 // bone of each vertex
	NormalBones    []uint8 // bone of each normal
	Meshes         []*Mesh
}

// Mesh is a set of triangle strips and fans drawn with one skin.
type Mesh struct {
	SkinRef int
	Strips  []Strip
	// Triverts is the number of decoded triverts. The count in the file
	// is not reliable.
	Triverts int
}

// Strip is a triangle strip, or a fan when Fan is set.
type Strip struct {
	Fan      bool
	Triverts []Trivert
}

const trivertSize = 8

func (f *File) BodyParts() ([]*BodyPart, error) {
	rs, err := readRecords[bodyPartRecord](f.data, f.h.BodyPartOffset, f.h.BodyPartCount, "body parts")
	if err != nil {
		return nil, err
	}
	parts := make([]*BodyPart, len(rs))
	for i, r := range rs {
		bp := &BodyPart{Name: format.CString(r.Name[:]), Base: int(r.Base)}
		ms, err := readRecords[modelRecord](f.data, r.ModelIndex, r.ModelCount, "models")
		if err != nil {
			return nil, errors.Wrapf(err, "body part %s", bp.Name)
		}
		for _, mr := range ms {
			m, err := f.model(&mr)
			if err != nil {
				return nil, errors.Wrapf(err, "body part %s", bp.Name)
			}
			bp.Models = append(bp.Models, m)
		}
		parts[i] = bp
	}
	return parts, nil
}

func (f *File) model(r *modelRecord) (*Model, error) {
	m := &Model{
		Name:           format.CString(r.Name[:]),
		BoundingRadius: r.BoundingRadius,
	}
	var err error
	if m.Vertices, err = readRecords[vec.Vec3](f.data, r.VertexOffset, r.VertexCount, "vertices"); err != nil {
		return nil, errors.Wrap(err, m.Name)
	}
	if m.Normals, err = readRecords[vec.Vec3](f.data, r.NormalOffset, r.NormalCount, "normals"); err != nil {
		return nil, errors.Wrap(err, m.Name)
	}
	if m.VertexBones, err = readRecords[uint8](f.data, r.VertexInfoOffset, r.VertexCount, "vertex bones"); err != nil {
		return nil, errors.Wrap(err, m.Name)
	}
	if m.NormalBones, err = readRecords[uint8](f.data, r.NormalInfoOffset, r.NormalCount, "normal bones"); err != nil {
		return nil, errors.Wrap(err, m.Name)
	}
	mrs, err := readRecords[meshRecord](f.data, r.MeshOffset, r.MeshCount, "meshes")
	if err != nil {
		return nil, errors.Wrap(err, m.Name)
	}
	for _, mr := range mrs {
		mesh, err := f.mesh(&mr)
		if err != nil {
			return nil, errors.Wrap(err, m.Name)
		}
		m.Meshes = append(m.Meshes, mesh)
	}
	return m, nil
}

// mesh decodes the trivert commands: a signed count, positive for a strip
// and negative for a fan, followed by that many triverts. A zero count ends
// the list.
func (f *File) mesh(r *meshRecord) (*Mesh, error) {
	m := &Mesh{SkinRef: int(r.SkinRef)}
	off := int(r.TriangleIndex)
	for {
		n, err := format.Int16(f.data, off, "trivert count")
		if err != nil {
			return nil, err
		}
		off += 2
		if n == 0 {
			return m, nil
		}
		s := Strip{Fan: n < 0}
		count := int(n)
		if s.Fan {
			count = -count
		}
		if s.Triverts, err = format.ReadArray[Trivert](f.data, off, count, "triverts"); err != nil {
			return nil, err
		}
		off += count * trivertSize
		m.Triverts += count
		m.Strips = append(m.Strips, s)
	}
}

// Triangles unrolls the strips and fans into triangles. Strips alternate
// their winding so that all triangles face the same way.
func (m *Mesh) Triangles() [][3]Trivert {
	var tris [][3]Trivert
	for _, s := range m.Strips {
		t := s.Triverts
		for i := 0; i+2 < len(t); i++ {
			switch {
			case s.Fan:
				tris = append(tris, [3]Trivert{t[i+2], t[i+1], t[0]})
			case i%2 == 0:
				tris = append(tris, [3]Trivert{t[i+1], t[i], t[i+2]})
			default:
				tris = append(tris, [3]Trivert{t[i], t[i+1], t[i+2]})
			}
		}
	}
	return tris
}

// Validate checks that every trivert refers to a vertex and normal of m.
func (m *Model) Validate() error {
	for _, mesh := range m.Meshes {
		for _, s := range mesh.Strips {
			for _, t := range s.Triverts {
				if int(t.Vertex) >= len(m.Vertices) {
					return format.BadIndex("vertex", int(t.Vertex), len(m.Vertices))
				}
				if int(t.Normal) >= len(m.Normals) {
					return format.BadIndex("normal", int(t.Normal), len(m.Normals))
				}
			}
		}
	}
	return nil
}
