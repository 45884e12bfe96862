// SPDX-License-Identifier: GPL-2.0-or-later

package mdl

import (
	"path"
	"strings"

	"github.com/pkg/errors"

	"goldsrc/format"
	"goldsrc/palette"
)

// File is an opened studio model. It keeps the file contents; every
// accessor decodes from them on demand.
type File struct {
	data []byte
	h    header
	// textures come from a companion file when the model has none
	texData []byte
	texH    *header
}

// Open checks the header of a studio model.
func Open(data []byte) (*File, error) {
	f := &File{data: data}
	if err := readHeader(data, &f.h); err != nil {
		return nil, err
	}
	return f, nil
}

func readHeader(data []byte, h *header) error {
	if err := format.Read(data, 0, h, "mdl header"); err != nil {
		return err
	}
	if h.ID != Magic || h.Version != Version {
		return errors.Wrapf(format.ErrBadMagic, "mdl: magic %#x version %d", uint32(h.ID), h.Version)
	}
	return nil
}

// Name returns the model name stored in the header.
func (f *File) Name() string {
	return format.CString(f.h.Name[:])
}

// Size returns the file size.
func (f *File) Size() int {
	return len(f.data)
}

func readRecords[T any](b []byte, off, count int32, what string) ([]T, error) {
	if count == 0 {
		return nil, nil
	}
	return format.ReadArray[T](b, int(off), int(count), what)
}

func (f *File) Bones() ([]Bone, error) {
	rs, err := readRecords[boneRecord](f.data, f.h.BoneOffset, f.h.BoneCount, "bones")
	if err != nil {
		return nil, err
	}
	bones := make([]Bone, len(rs))
	for i, r := range rs {
		bones[i] = Bone{
			Name:        format.CString(r.Name[:]),
			Parent:      int(r.Parent),
			Flags:       r.Flags,
			Controllers: r.Controllers,
			Value:       r.Value,
			Scale:       r.Scale,
		}
	}
	return bones, nil
}

func (f *File) BoneControllers() ([]BoneController, error) {
	return readRecords[BoneController](f.data, f.h.BoneControllerOffset, f.h.BoneControllerCount, "bone controllers")
}

func (f *File) HitBoxes() ([]HitBox, error) {
	return readRecords[HitBox](f.data, f.h.HitBoxOffset, f.h.HitBoxCount, "hit boxes")
}

func (f *File) Attachments() ([]Attachment, error) {
	rs, err := readRecords[attachmentRecord](f.data, f.h.AttachmentOffset, f.h.AttachmentCount, "attachments")
	if err != nil {
		return nil, err
	}
	as := make([]Attachment, len(rs))
	for i, r := range rs {
		as[i] = Attachment{Name: format.CString(r.Name[:]), Bone: int(r.Bone), Origin: r.Origin}
	}
	return as, nil
}

func (f *File) Sequences() ([]Sequence, error) {
	rs, err := readRecords[sequenceRecord](f.data, f.h.SequenceOffset, f.h.SequenceCount, "sequences")
	if err != nil {
		return nil, err
	}
	seqs := make([]Sequence, len(rs))
	for i, r := range rs {
		seqs[i] = Sequence{
			Name:       format.CString(r.Label[:]),
			FPS:        r.FPS,
			Flags:      r.Flags,
			Activity:   r.Activity,
			FrameCount: int(r.FrameCount),
			MotionType: r.MotionType,
			BBMin:      r.BBMin,
			BBMax:      r.BBMax,
			BlendCount: int(r.BlendCount),
			AnimOffset: int(r.AnimOffset),
			BlendType:  r.BlendType,
			BlendStart: r.BlendStart,
			BlendEnd:   r.BlendEnd,
			Group:      int(r.Group),
			EventCount: int(r.EventCount),
		}
	}
	return seqs, nil
}

func (f *File) SequenceGroups() ([]SequenceGroup, error) {
	rs, err := readRecords[sequenceGroupRecord](f.data, f.h.SequenceGroupOffset, f.h.SequenceGroupCount, "sequence groups")
	if err != nil {
		return nil, err
	}
	gs := make([]SequenceGroup, len(rs))
	for i, r := range rs {
		gs[i] = SequenceGroup{
			Label: format.CString(r.Label[:]),
			Name:  format.CString(r.Name[:]),
			Data:  r.Data,
		}
	}
	return gs, nil
}

// Texture is an 8 bit indexed skin with its own palette.
type Texture struct {
	Name    string
	Flags   int32
	Width   int
	Height  int
	Pixels  []byte
	Palette palette.Palette
}

// RGBA converts the skin. Pure blue palette entries become transparent.
func (t *Texture) RGBA() []byte {
	return t.Palette.RGBA(t.Pixels, -1)
}

// HasTextures reports whether the skins are available, either in the model
// itself or in an attached companion file.
func (f *File) HasTextures() bool {
	return f.h.TextureCount > 0 || f.texH != nil
}

// AttachTextures reads the skins from the companion file of a model stored
// without them, conventionally named <name>t.mdl.
func (f *File) AttachTextures(companion []byte) error {
	var h header
	if err := readHeader(companion, &h); err != nil {
		return errors.Wrap(err, "texture file")
	}
	f.texData, f.texH = companion, &h
	return nil
}

func (f *File) textureSource() ([]byte, *header) {
	if f.texH != nil {
		return f.texData, f.texH
	}
	return f.data, &f.h
}

// Textures decodes every skin: the pixels follow the texture header's
// offset and are followed by a 256 color palette.
func (f *File) Textures() ([]*Texture, error) {
	data, h := f.textureSource()
	rs, err := readRecords[textureRecord](data, h.TextureOffset, h.TextureCount, "textures")
	if err != nil {
		return nil, err
	}
	ts := make([]*Texture, len(rs))
	for i, r := range rs {
		name := format.CString(r.Name[:])
		if r.Width < 0 || r.Height < 0 {
			return nil, errors.Wrapf(format.ErrOutOfBounds, "texture %s: size %dx%d", name, r.Width, r.Height)
		}
		n := int(r.Width) * int(r.Height)
		pixels, err := format.Range(data, int(r.Offset), n, "texture "+name)
		if err != nil {
			return nil, err
		}
		pb, err := format.Range(data, int(r.Offset)+n, 3*palette.Size, "palette "+name)
		if err != nil {
			return nil, err
		}
		p, err := palette.Parse(pb, palette.Size)
		if err != nil {
			return nil, err
		}
		ts[i] = &Texture{
			Name:    name,
			Flags:   r.Flags,
			Width:   int(r.Width),
			Height:  int(r.Height),
			Pixels:  pixels,
			Palette: p,
		}
	}
	return ts, nil
}

// SkinFamilies returns the skin reference table: one row per skin family
// mapping a mesh skin reference to a texture.
func (f *File) SkinFamilies() ([][]int16, error) {
	data, h := f.textureSource()
	refs, fams := int(h.SkinRefCount), int(h.SkinFamilyCount)
	if refs < 0 || fams < 0 {
		return nil, errors.Wrapf(format.ErrOutOfBounds, "skin families: %d x %d", fams, refs)
	}
	if refs == 0 || fams == 0 {
		return nil, nil
	}
	all, err := format.ReadArray[int16](data, int(h.SkinOffset), refs*fams, "skin families")
	if err != nil {
		return nil, err
	}
	out := make([][]int16, fams)
	for i := range out {
		out[i] = all[i*refs : (i+1)*refs]
	}
	return out, nil
}

// Source provides file contents by name.
type Source interface {
	ReadFile(name string) ([]byte, error)
}

// CompanionName returns the name of the file holding the skins of name,
// e.g. models/scientistt.mdl for models/scientist.mdl.
func CompanionName(name string) string {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "t" + ext
}

// Load opens a model from src and attaches its companion texture file when
// the model carries no skins.
func Load(src Source, name string) (*File, error) {
	data, err := src.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return decode(src, name, data)
}

func decode(src Source, name string, data []byte) (*File, error) {
	f, err := Open(data)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	if f.h.TextureCount > 0 {
		return f, nil
	}
	if src == nil {
		return nil, errors.Errorf("%s: textures are stored in a separate file", name)
	}
	tn := CompanionName(name)
	td, err := src.ReadFile(tn)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: textures", name)
	}
	if err := f.AttachTextures(td); err != nil {
		return nil, errors.Wrap(err, tn)
	}
	return f, nil
}
