// SPDX-License-Identifier: GPL-2.0-or-later

package wad

import (
	"github.com/pkg/errors"

	"goldsrc/format"
	"goldsrc/palette"
)

const MipLevels = 4

type mipHeader struct {
	Name    [16]byte
	Width   uint32
	Height  uint32
	Offsets [MipLevels]uint32
}

// MipTexture is a view of a mip texture record. The same record layout is
// used by WAD3 entries and by the textures embedded in BSP files; pixel
// offsets are relative to the start of the record.
type MipTexture struct {
	Name    string
	Width   int
	Height  int
	Offsets [MipLevels]uint32
	data    []byte
}

// ParseMipTexture reads the record header at the start of b. b must extend
// at least to the end of the palette for Palette to succeed.
func ParseMipTexture(b []byte) (*MipTexture, error) {
	var h mipHeader
	if err := format.Read(b, 0, &h, "miptex header"); err != nil {
		return nil, err
	}
	if h.Width > 1<<16 || h.Height > 1<<16 {
		return nil, errors.Wrapf(format.ErrOutOfBounds, "miptex %s: size %dx%d", format.CString(h.Name[:]), h.Width, h.Height)
	}
	return &MipTexture{
		Name:    format.CString(h.Name[:]),
		Width:   int(h.Width),
		Height:  int(h.Height),
		Offsets: h.Offsets,
		data:    b,
	}, nil
}

// HasPixels reports whether the pixel data is stored in this record. BSP
// textures without pixels have to be looked up in a WAD by name.
func (m *MipTexture) HasPixels() bool {
	return m.Offsets[0] != 0
}

// MipSize returns the dimensions of a mip level.
func (m *MipTexture) MipSize(level int) (int, int) {
	return m.Width >> level, m.Height >> level
}

// Mip returns the indexed pixels of a mip level. It returns false when the
// level is not stored or does not fit into the record.
func (m *MipTexture) Mip(level int) ([]byte, bool) {
	if level < 0 || level >= MipLevels || m.Offsets[level] == 0 {
		return nil, false
	}
	w, h := m.MipSize(level)
	b, err := format.Range(m.data, int(m.Offsets[level]), w*h, m.Name)
	if err != nil {
		return nil, false
	}
	return b, true
}

// paletteOffset is the position of the color count that follows mip level 3.
func (m *MipTexture) paletteOffset() int {
	w, h := m.MipSize(3)
	return int(m.Offsets[3]) + w*h
}

// Palette reads the palette stored after the smallest mip level.
func (m *MipTexture) Palette() (palette.Palette, error) {
	if !m.HasPixels() {
		return nil, errors.Wrapf(format.ErrOutOfBounds, "miptex %s: no local data", m.Name)
	}
	off := m.paletteOffset()
	count, err := format.Uint16(m.data, off, m.Name+" palette size")
	if err != nil {
		return nil, err
	}
	b, err := format.Tail(m.data, off+2, m.Name+" palette")
	if err != nil {
		return nil, err
	}
	return palette.Parse(b, int(count))
}

// RGBA converts a mip level to RGBA. Colors keyed as transparent get alpha 0.
func (m *MipTexture) RGBA(level int) ([]byte, error) {
	pix, ok := m.Mip(level)
	if !ok {
		return nil, errors.Wrapf(format.ErrOutOfBounds, "miptex %s: mip %d", m.Name, level)
	}
	p, err := m.Palette()
	if err != nil {
		return nil, err
	}
	return p.RGBA(pix, -1), nil
}

// Greyscale converts a mip level the way decals are shown.
func (m *MipTexture) Greyscale(level int) ([]byte, error) {
	pix, ok := m.Mip(level)
	if !ok {
		return nil, errors.Wrapf(format.ErrOutOfBounds, "miptex %s: mip %d", m.Name, level)
	}
	return palette.Greyscale(pix), nil
}
