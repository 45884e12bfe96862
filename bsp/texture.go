// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"log/slog"

	"github.com/pkg/errors"

	"goldsrc/format"
	"goldsrc/wad"
)

// TextureDirectory is the table of mip textures in the texture lump.
type TextureDirectory struct {
	data    []byte
	offsets []int32
}

// Textures reads the texture lump header: a count followed by one offset
// per texture, relative to the lump start.
func (r *Reader) Textures() (*TextureDirectory, error) {
	b, err := r.LumpBytes(LumpTextures)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return &TextureDirectory{}, nil
	}
	count, err := format.Uint32(b, 0, "texture count")
	if err != nil {
		return nil, err
	}
	offsets, err := format.ReadArray[int32](b, 4, int(count), "texture offsets")
	if err != nil {
		return nil, err
	}
	return &TextureDirectory{data: b, offsets: offsets}, nil
}

func (d *TextureDirectory) Len() int {
	return len(d.offsets)
}

// Get returns a view of texture i. It returns false when i is out of range,
// the texture is not stored in the file or its header cannot be read.
func (d *TextureDirectory) Get(i int) (*wad.MipTexture, bool) {
	if i < 0 || i >= len(d.offsets) || d.offsets[i] < 0 {
		return nil, false
	}
	b, err := format.Tail(d.data, int(d.offsets[i]), "miptex")
	if err != nil {
		return nil, false
	}
	m, err := wad.ParseMipTexture(b)
	if err != nil {
		return nil, false
	}
	return m, true
}

// Resolve returns texture i with pixel data, looking it up by name in res
// when the level does not embed it.
func (d *TextureDirectory) Resolve(i int, res wad.Resolver) (*wad.MipTexture, error) {
	m, ok := d.Get(i)
	if !ok {
		return nil, format.BadIndex("texture", i, d.Len())
	}
	if m.HasPixels() {
		return m, nil
	}
	if res == nil {
		return nil, errors.Wrapf(wad.ErrNotFound, "%s: not embedded", m.Name)
	}
	w, err := res.MipTexture(m.Name)
	if err != nil {
		return nil, err
	}
	if w.Width != m.Width || w.Height != m.Height {
		slog.Warn("Texture size differs from wad", "texture", m.Name,
			"bsp", [2]int{m.Width, m.Height}, "wad", [2]int{w.Width, w.Height})
	}
	return w, nil
}

// Size is the pixel size of a texture, used to normalize texture coordinates.
type Size struct {
	Width, Height int
}

// Sizes returns the size of every texture. Textures whose header cannot be
// read get a 1x1 size so their coordinates stay in texels.
func (d *TextureDirectory) Sizes() []Size {
	s := make([]Size, d.Len())
	for i := range s {
		m, ok := d.Get(i)
		if !ok || m.Width == 0 || m.Height == 0 {
			slog.Warn("Missing texture header", "texture", i)
			s[i] = Size{1, 1}
			continue
		}
		s[i] = Size{m.Width, m.Height}
	}
	return s
}
