// SPDX-License-Identifier: GPL-2.0-or-later

package mdl

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"goldsrc/format"
	"goldsrc/math/vec"
)

// Skeleton holds the transforms of a bone tree in one pose.
type Skeleton struct {
	Parents  []int
	Children [][]int
	// Order lists the bones parents first, as visited by a pre-order walk
	// from each root.
	Order       []int
	Local       []mgl32.Mat4
	World       []mgl32.Mat4
	InverseBind []mgl32.Mat4
}

// LocalTransform builds the transform of one bone relative to its parent
// from its six channel values: translate, then rotate about y, x and z.
func LocalTransform(v [ChannelSize]float32) mgl32.Mat4 {
	return mgl32.Translate3D(v[0], v[1], v[2]).
		Mul4(mgl32.HomogRotate3DY(v[4])).
		Mul4(mgl32.HomogRotate3DX(v[3])).
		Mul4(mgl32.HomogRotate3DZ(v[5]))
}

// ResolveSkeleton computes the rest pose of bones.
func ResolveSkeleton(bones []Bone) (*Skeleton, error) {
	pose := make([][ChannelSize]float32, len(bones))
	for i := range bones {
		pose[i] = bones[i].Value
	}
	return ResolvePose(bones, pose)
}

// ResolvePose computes the world transform of every bone for the given
// channel values, one row per bone as returned by Animation.Pose.
func ResolvePose(bones []Bone, pose [][ChannelSize]float32) (*Skeleton, error) {
	n := len(bones)
	if len(pose) != n {
		return nil, errors.Errorf("pose has %d bones, skeleton %d", len(pose), n)
	}
	s := &Skeleton{
		Parents:     make([]int, n),
		Children:    make([][]int, n),
		Local:       make([]mgl32.Mat4, n),
		World:       make([]mgl32.Mat4, n),
		InverseBind: make([]mgl32.Mat4, n),
	}
	var roots []int
	for i, b := range bones {
		s.Parents[i] = b.Parent
		switch {
		case b.Parent < 0:
			roots = append(roots, i)
		case b.Parent >= n:
			return nil, format.BadIndex("parent bone", b.Parent, n)
		default:
			s.Children[b.Parent] = append(s.Children[b.Parent], i)
		}
		s.Local[i] = LocalTransform(pose[i])
	}

	s.Order = make([]int, 0, n)
	visited := make([]bool, n)
	for _, r := range roots {
		stack := []int{r}
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[i] {
				return nil, errors.Wrapf(format.ErrCorruptTree, "bone %d reached twice", i)
			}
			visited[i] = true
			s.Order = append(s.Order, i)
			if p := s.Parents[i]; p >= 0 {
				s.World[i] = s.World[p].Mul4(s.Local[i])
			} else {
				s.World[i] = s.Local[i]
			}
			s.InverseBind[i] = s.World[i].Inv()
			// push in reverse to visit children in file order
			c := s.Children[i]
			for j := len(c) - 1; j >= 0; j-- {
				stack = append(stack, c[j])
			}
		}
	}
	if len(s.Order) != n {
		return nil, errors.Wrapf(format.ErrCorruptTree, "%d of %d bones not reachable from a root", n-len(s.Order), n)
	}
	return s, nil
}

// Transform moves point p, given in the space of bone, into model space.
func (s *Skeleton) Transform(bone int, p vec.Vec3) (vec.Vec3, error) {
	if bone < 0 || bone >= len(s.World) {
		return vec.Vec3{}, format.BadIndex("bone", bone, len(s.World))
	}
	r := s.World[bone].Mul4x1(mgl32.Vec4{p.X, p.Y, p.Z, 1})
	return vec.Vec3{X: r[0], Y: r[1], Z: r[2]}, nil
}

// Rotate turns direction d by the rotation of bone and normalizes it.
func (s *Skeleton) Rotate(bone int, d vec.Vec3) (vec.Vec3, error) {
	if bone < 0 || bone >= len(s.World) {
		return vec.Vec3{}, format.BadIndex("bone", bone, len(s.World))
	}
	r := s.World[bone].Mul4x1(mgl32.Vec4{d.X, d.Y, d.Z, 0})
	return vec.Vec3{X: r[0], Y: r[1], Z: r[2]}.Normalize(), nil
}

// Skin places the vertices and normals of m in model space using the bone
// each of them is attached to.
func (m *Model) Skin(s *Skeleton) (vertices, normals []vec.Vec3, err error) {
	vertices = make([]vec.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		if i >= len(m.VertexBones) {
			return nil, nil, format.BadIndex("vertex bone", i, len(m.VertexBones))
		}
		if vertices[i], err = s.Transform(int(m.VertexBones[i]), v); err != nil {
			return nil, nil, err
		}
	}
	normals = make([]vec.Vec3, len(m.Normals))
	for i, n := range m.Normals {
		if i >= len(m.NormalBones) {
			return nil, nil, format.BadIndex("normal bone", i, len(m.NormalBones))
		}
		if normals[i], err = s.Rotate(int(m.NormalBones[i]), n); err != nil {
			return nil, nil, err
		}
	}
	return vertices, normals, nil
}
