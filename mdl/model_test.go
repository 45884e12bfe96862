// SPDX-License-Identifier: GPL-2.0-or-later

package mdl

import (
	"bytes"
	"encoding/binary"
	"os"

	"goldsrc/math/vec"
)

func name32(s string) (n [32]byte) {
	copy(n[:], s)
	return
}

func name64(s string) (n [64]byte) {
	copy(n[:], s)
	return
}

// controlCell packs a control cell: valid samples in the low byte, frames
// covered in the high byte.
func controlCell(valid, total uint8) uint16 {
	return uint16(valid) | uint16(total)<<8
}

func testBones() []boneRecord {
	return []boneRecord{
		{Name: name32("root"), Parent: -1, Value: [ChannelSize]float32{2, 0, 1}, Scale: [ChannelSize]float32{0.5, 1, 1, 1, 1, 1}},
		{Name: name32("child"), Parent: 0, Value: [ChannelSize]float32{1, 0, 0}, Scale: [ChannelSize]float32{1, 1, 1, 1, 1, 1}},
	}
}

type builder struct {
	b bytes.Buffer
	h header
}

func newBuilder() *builder {
	bd := &builder{}
	bd.h.ID, bd.h.Version = Magic, Version
	copy(bd.h.Name[:], "test.mdl")
	bd.b.Write(make([]byte, binary.Size(bd.h)))
	return bd
}

func (bd *builder) put(v any) int32 {
	off := int32(bd.b.Len())
	binary.Write(&bd.b, binary.LittleEndian, v)
	return off
}

func (bd *builder) textures() {
	off := int32(bd.b.Len())
	bd.h.TextureCount, bd.h.TextureOffset = 1, off
	bd.put(textureRecord{Name: name64("skin.bmp"), Width: 2, Height: 2, Offset: off + 80})
	bd.put([]byte{0, 1, 2, 3})
	pal := make([]byte, 3*256)
	copy(pal, []byte{0, 0, 255, 255, 0, 0, 0, 255, 0, 1, 2, 3})
	bd.put(pal)
	bd.h.SkinRefCount, bd.h.SkinFamilyCount = 1, 2
	bd.h.SkinOffset = bd.put([]int16{0, 0})
}

func (bd *builder) bytes() []byte {
	data := bd.b.Bytes()
	var hb bytes.Buffer
	binary.Write(&hb, binary.LittleEndian, bd.h)
	copy(data, hb.Bytes())
	return data
}

// buildModel builds a two bone model with one looping sequence animating
// the x position of the root, one sequence in another group and a single
// mesh made of a strip and a fan.
func buildModel(withTextures bool) []byte {
	bd := newBuilder()
	bones := testBones()
	bd.h.BoneCount, bd.h.BoneOffset = int32(len(bones)), bd.put(bones)

	anim := bd.put([2][ChannelSize]uint16{{24}, {}})
	bd.put([]uint16{controlCell(2, 5), 10, 20})

	seqs := []sequenceRecord{
		{Label: name32("idle"), FPS: 10, Flags: SeqLooping, FrameCount: 5, BlendCount: 1, AnimOffset: anim},
		{Label: name32("remote"), FPS: 10, FrameCount: 1, BlendCount: 1, Group: 1},
	}
	bd.h.SequenceCount, bd.h.SequenceOffset = int32(len(seqs)), bd.put(seqs)
	bd.h.SequenceGroupCount = 1
	bd.h.SequenceGroupOffset = bd.put(sequenceGroupRecord{Label: name32("default"), Name: name64("test.mdl")})
	bd.h.BoneControllerCount = 1
	bd.h.BoneControllerOffset = bd.put(BoneController{Bone: 1, Type: 0x10, End: 90, Index: 0})
	bd.h.AttachmentCount = 1
	bd.h.AttachmentOffset = bd.put(attachmentRecord{Name: name32("muzzle"), Bone: 1, Origin: [3]float32{0, 0, 4}})

	if withTextures {
		bd.textures()
	}

	verts := bd.put([]vec.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}})
	norms := bd.put([]vec.Vec3{{X: 0, Y: 0, Z: 1}})
	vertInfo := bd.put([]uint8{0, 1, 1, 0})
	normInfo := bd.put([]uint8{1})
	tris := bd.put(int16(4))
	bd.put([]Trivert{{Vertex: 0, S: 0, T: 0}, {Vertex: 1, S: 2}, {Vertex: 2, S: 2, T: 2}, {Vertex: 3, T: 2}})
	bd.put(int16(-3))
	bd.put([]Trivert{{Vertex: 0}, {Vertex: 2}, {Vertex: 3}})
	bd.put(int16(0))
	// the triangle count in the file is wrong on purpose
	mesh := bd.put(meshRecord{TriangleCount: 99, TriangleIndex: tris})
	model := bd.put(modelRecord{
		Name: name64("body"), MeshCount: 1, MeshOffset: mesh,
		VertexCount: 4, VertexInfoOffset: vertInfo, VertexOffset: verts,
		NormalCount: 1, NormalInfoOffset: normInfo, NormalOffset: norms,
	})
	bd.h.BodyPartCount = 1
	bd.h.BodyPartOffset = bd.put(bodyPartRecord{Name: name64("studio"), ModelCount: 1, Base: 1, ModelIndex: model})
	return bd.bytes()
}

// buildTextureFile builds the companion file of a model without skins.
func buildTextureFile() []byte {
	bd := newBuilder()
	bd.textures()
	return bd.bytes()
}

type mapSource map[string][]byte

func (m mapSource) ReadFile(name string) ([]byte, error) {
	if d, ok := m[name]; ok {
		return d, nil
	}
	return nil, os.ErrNotExist
}
