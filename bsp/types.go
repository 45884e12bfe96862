// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"fmt"
)

type Contents int32

const (
	_ Contents = -iota
	ContentsEmpty
	ContentsSolid
	ContentsWater
	ContentsSlime
	ContentsLava
	ContentsSky
	ContentsOrigin
	ContentsClip
	ContentsCurrent0
	ContentsCurrent90
	ContentsCurrent180
	ContentsCurrent270
	ContentsCurrentUp
	ContentsCurrentDown
	ContentsTranslucent
)

var contentsNames = []string{
	"empty", "solid", "water", "slime", "lava", "sky", "origin", "clip",
	"current_0", "current_90", "current_180", "current_270",
	"current_up", "current_down", "translucent",
}

func (c Contents) String() string {
	if i := int(-c) - 1; i >= 0 && i < len(contentsNames) {
		return contentsNames[i]
	}
	return fmt.Sprintf("contents(%d)", int32(c))
}

type Plane struct {
	Normal [3]float32
	Dist   float32
	Type   int32 // 0: axial plane in X, 1: axial plane in Y, 2 axial in Z, 3,4,5 similar but non axial
}

type Node struct {
	PlaneID   uint32
	Children  [2]int16 // >= 0 node, < 0 ^leaf
	Mins      [3]int16
	Maxs      [3]int16
	FirstFace uint16
	FaceCount uint16
}

type TexInfo struct {
	S         [3]float32 // S vector, horizontal in texture space
	SShift    float32    // horizontal offset in texture space
	T         [3]float32 // T vector, vertical in texture space
	TShift    float32    // vertical offset in texture space
	TextureID uint32     // Index of mip texture, must be in [0,numtex[
	Flags     uint32
}

type Face struct {
	PlaneID        uint16 // The plane in which the face lies, must be in [0,numplanes[
	PlaneSide      uint16
	FirstEdge      uint32 // index into the surface edges
	EdgeCount      uint16
	TexInfoID      uint16
	Styles         [4]uint8
	LightmapOffset int32 // byte offset into the lighting lump, or -1
}

type ClipNode struct {
	PlaneID  int32    // the plane which splits the node
	Children [2]int16 // if positive id of the child node, otherwise a Contents value
}

type Leaf struct {
	Contents         Contents
	VisOffset        int32 // into the visibility lump, or -1
	Mins             [3]int16
	Maxs             [3]int16
	FirstMarkSurface uint16
	MarkSurfaceCount uint16
	AmbientLevels    [4]uint8
}

// the first edge of the list is never used
type Edge struct {
	Vertex [2]uint16
}

// Model, either the level itself or a brush entity inside it.
type Model struct {
	Mins         [3]float32
	Maxs         [3]float32
	Origin       [3]float32
	HeadNodes    [4]int32 // [0] node tree, [1..3] clip hulls
	VisLeafCount int32    // not including the solid leaf 0
	FirstFace    int32
	FaceCount    int32
}
