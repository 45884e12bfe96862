// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"encoding/binary"

	"goldsrc/math/vec"
)

// testLevel describes a small level: a 64x64 floor quad at z=0 split by
// plane 0 into an empty leaf above (leaf 1) and the solid leaf below.
type testLevel struct {
	entities  string
	planes    []Plane
	textures  []byte
	vertices  []vec.Vec3
	vis       []byte
	nodes     []Node
	texInfos  []TexInfo
	faces     []Face
	lighting  []byte
	clipNodes []ClipNode
	leaves    []Leaf
	marks     []uint16
	edges     []Edge
	surfEdges []int32
	models    []Model
	version   int32
}

func encode(v any) []byte {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, v)
	return b.Bytes()
}

// textureLump builds a texture lump with one external 16x16 texture.
func textureLump(name string) []byte {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, uint32(1))
	binary.Write(&b, binary.LittleEndian, int32(8))
	var n [16]byte
	copy(n[:], name)
	b.Write(n[:])
	binary.Write(&b, binary.LittleEndian, [6]uint32{16, 16, 0, 0, 0, 0})
	return b.Bytes()
}

func newTestLevel() *testLevel {
	light := make([]byte, 5*5*3)
	for i := range light {
		light[i] = byte(i)
	}
	return &testLevel{
		entities: "{\n\"classname\" \"worldspawn\"\n\"wad\" \"\\half-life\\valve\\halflife.wad;decals.wad\"\n}\n{\n\"classname\" \"info_player_start\"\n\"origin\" \"0 0 36\"\n}\n",
		planes: []Plane{
			{Normal: [3]float32{0, 0, 1}, Dist: 0, Type: 2},
		},
		textures: textureLump("CRATE"),
		vertices: []vec.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 64, Y: 0, Z: 0},
			{X: 64, Y: 64, Z: 0},
			{X: 0, Y: 64, Z: 0},
		},
		vis: []byte{0x01},
		nodes: []Node{
			{PlaneID: 0, Children: [2]int16{^1, ^0}, FirstFace: 0, FaceCount: 1},
		},
		texInfos: []TexInfo{
			{},
			{S: [3]float32{1, 0, 0}, T: [3]float32{0, 1, 0}, TextureID: 0},
		},
		faces: []Face{
			{PlaneID: 0, FirstEdge: 0, EdgeCount: 4, TexInfoID: 1, Styles: [4]uint8{0, 255, 255, 255}, LightmapOffset: 0},
			{PlaneID: 0, FirstEdge: 0, EdgeCount: 3, TexInfoID: 0, Styles: [4]uint8{255, 255, 255, 255}, LightmapOffset: -1},
		},
		lighting: light,
		clipNodes: []ClipNode{
			{PlaneID: 0, Children: [2]int16{int16(ContentsEmpty), int16(ContentsSolid)}},
		},
		leaves: []Leaf{
			{Contents: ContentsSolid, VisOffset: -1},
			{Contents: ContentsEmpty, VisOffset: 0, FirstMarkSurface: 0, MarkSurfaceCount: 2},
		},
		marks: []uint16{0, 1},
		edges: []Edge{
			{}, {[2]uint16{0, 1}}, {[2]uint16{1, 2}}, {[2]uint16{2, 3}}, {[2]uint16{3, 0}},
		},
		surfEdges: []int32{1, 2, 3, 4},
		models: []Model{
			{Maxs: [3]float32{64, 64, 0}, HeadNodes: [4]int32{0, 0, 0, 0}, VisLeafCount: 1, FirstFace: 0, FaceCount: 2},
		},
		version: Version,
	}
}

func (l *testLevel) lumps() [LumpCount][]byte {
	var lumps [LumpCount][]byte
	lumps[LumpEntities] = []byte(l.entities + "\x00")
	lumps[LumpPlanes] = encode(l.planes)
	lumps[LumpTextures] = l.textures
	lumps[LumpVertices] = encode(l.vertices)
	lumps[LumpVisibility] = l.vis
	lumps[LumpNodes] = encode(l.nodes)
	lumps[LumpTexInfo] = encode(l.texInfos)
	lumps[LumpFaces] = encode(l.faces)
	lumps[LumpLighting] = l.lighting
	lumps[LumpClipNodes] = encode(l.clipNodes)
	lumps[LumpLeaves] = encode(l.leaves)
	lumps[LumpMarkSurfaces] = encode(l.marks)
	lumps[LumpEdges] = encode(l.edges)
	lumps[LumpSurfaceEdges] = encode(l.surfEdges)
	lumps[LumpModels] = encode(l.models)
	return lumps
}

func buildLumps(version int32, lumps [LumpCount][]byte) []byte {
	h := header{Version: version}
	off := binary.Size(h)
	for i, d := range lumps {
		h.Lumps[i] = directory{Offset: int32(off), Size: int32(len(d))}
		off += len(d)
	}
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, h)
	for _, d := range lumps {
		b.Write(d)
	}
	return b.Bytes()
}

func (l *testLevel) build() []byte {
	return buildLumps(l.version, l.lumps())
}

func (l *testLevel) geometry() (*Geometry, error) {
	r, err := Open(l.build())
	if err != nil {
		return nil, err
	}
	return r.Geometry()
}
