// SPDX-License-Identifier: GPL-2.0-or-later

// Package mdl reads GoldSrc studio models (IDST version 10): bones,
// animation sequences, textures and the body part geometry.
package mdl

const (
	Magic   = 'I' | 'D'<<8 | 'S'<<16 | 'T'<<24
	Version = 10
)

// ChannelSize is the number of animated channels per bone.
const ChannelSize = 6

// Sequence flags.
const (
	SeqLooping = 0x0001
)

type header struct { // studiohdr_t
	ID      int32
	Version int32
	Name    [64]byte
	Length  int32

	EyePosition [3]float32
	Min         [3]float32
	Max         [3]float32
	BBMin       [3]float32
	BBMax       [3]float32
	Flags       int32

	BoneCount            int32
	BoneOffset           int32
	BoneControllerCount  int32
	BoneControllerOffset int32
	HitBoxCount          int32
	HitBoxOffset         int32
	SequenceCount        int32
	SequenceOffset       int32
	SequenceGroupCount   int32
	SequenceGroupOffset  int32
	TextureCount         int32
	TextureOffset        int32
	TextureDataOffset    int32
	SkinRefCount         int32
	SkinFamilyCount      int32
	SkinOffset           int32
	BodyPartCount        int32
	BodyPartOffset       int32
	AttachmentCount      int32
	AttachmentOffset     int32
	SoundTable           int32
	SoundOffset          int32
	SoundGroups          int32
	SoundGroupOffset     int32
	TransitionCount      int32
	TransitionOffset     int32
}

type boneRecord struct { // mstudiobone_t
	Name        [32]byte
	Parent      int32
	Flags       int32
	Controllers [ChannelSize]int32
	Value       [ChannelSize]float32 // x y z, then the euler angles
	Scale       [ChannelSize]float32
}

// Bone is a node of the skeleton with its rest pose. Channels 0-2 are the
// position, 3-5 the rotation about x, y and z in radians.
type Bone struct {
	Name        string
	Parent      int
	Flags       int32
	Controllers [ChannelSize]int32
	Value       [ChannelSize]float32
	Scale       [ChannelSize]float32
}

type BoneController struct { // mstudiobonecontroller_t
	Bone  int32
	Type  int32
	Start float32
	End   float32
	Rest  int32
	Index int32
}

type HitBox struct { // mstudiobbox_t
	Bone  int32
	Group int32
	BBMin [3]float32
	BBMax [3]float32
}

type attachmentRecord struct { // mstudioattachment_t
	Name    [32]byte
	Type    int32
	Bone    int32
	Origin  [3]float32
	Vectors [3][3]float32
}

type Attachment struct {
	Name   string
	Bone   int
	Origin [3]float32
}

type sequenceRecord struct { // mstudioseqdesc_t
	Label          [32]byte
	FPS            float32
	Flags          int32
	Activity       int32
	ActivityWeight int32
	EventCount     int32
	EventOffset    int32
	FrameCount     int32
	PivotCount     int32
	PivotOffset    int32
	MotionType     int32
	MotionBone     int32
	LinearMovement [3]float32
	AutoMovePos    int32
	AutoMoveAngle  int32
	BBMin          [3]float32
	BBMax          [3]float32
	BlendCount     int32
	AnimOffset     int32
	BlendType      [2]int32
	BlendStart     [2]float32
	BlendEnd       [2]float32
	BlendParent    int32
	Group          int32
	EntryNode      int32
	ExitNode       int32
	NodeFlags      int32
	NextSequence   int32
}

// Sequence describes one animation. AnimOffset points at BlendCount
// consecutive tables of per bone channel offsets.
type Sequence struct {
	Name       string
	FPS        float32
	Flags      int32
	Activity   int32
	FrameCount int
	MotionType int32
	BBMin      [3]float32
	BBMax      [3]float32
	BlendCount int
	AnimOffset int
	BlendType  [2]int32
	BlendStart [2]float32
	BlendEnd   [2]float32
	Group      int
	EventCount int
}

type sequenceGroupRecord struct { // mstudioseqgroup_t
	Label [32]byte
	Name  [64]byte
	Cache int32
	Data  int32
}

// SequenceGroup names the file holding the animations of a group. Group 0
// is the model file itself.
type SequenceGroup struct {
	Label string
	Name  string
	Data  int32
}

type textureRecord struct { // mstudiotexture_t
	Name   [64]byte
	Flags  int32
	Width  int32
	Height int32
	Offset int32
}

type bodyPartRecord struct { // mstudiobodyparts_t
	Name       [64]byte
	ModelCount int32
	Base       int32
	ModelIndex int32
}

type modelRecord struct { // mstudiomodel_t
	Name             [64]byte
	Type             int32
	BoundingRadius   float32
	MeshCount        int32
	MeshOffset       int32
	VertexCount      int32
	VertexInfoOffset int32
	VertexOffset     int32
	NormalCount      int32
	NormalInfoOffset int32
	NormalOffset     int32
	GroupCount       int32
	GroupOffset      int32
}

type meshRecord struct { // mstudiomesh_t
	TriangleCount int32
	TriangleIndex int32
	SkinRef       int32
	NormalCount   int32
	NormalIndex   int32
}

// Trivert references one corner of a triangle: position, normal and
// texture coordinates in texels.
type Trivert struct {
	Vertex uint16
	Normal uint16
	S      int16
	T      int16
}
