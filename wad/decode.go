// SPDX-License-Identifier: GPL-2.0-or-later

package wad

import (
	"log/slog"

	"github.com/pkg/errors"

	"goldsrc/format"
	"goldsrc/palette"
)

// MipTexture decodes a mip texture or decal entry.
func (a *Archive) MipTexture(e *Entry) (*MipTexture, error) {
	if e.Type != TypeMipTexture && e.Type != TypeDecal {
		return nil, errors.Errorf("%s: %v is not a mip texture", e.Name, e.Type)
	}
	b, err := a.Data(e)
	if err != nil {
		return nil, err
	}
	return ParseMipTexture(b)
}

type Image struct {
	Name    string
	Width   int
	Height  int
	Pixels  []byte
	Palette palette.Palette
}

func (i *Image) RGBA() []byte {
	return i.Palette.RGBA(i.Pixels, -1)
}

type imageHeader struct {
	Width  uint32
	Height uint32
}

// Image decodes a qpic entry.
func (a *Archive) Image(e *Entry) (*Image, error) {
	if e.Type != TypeImage {
		return nil, errors.Errorf("%s: %v is not an image", e.Name, e.Type)
	}
	b, err := a.Data(e)
	if err != nil {
		return nil, err
	}
	var h imageHeader
	if err := format.Read(b, 0, &h, e.Name); err != nil {
		return nil, err
	}
	n := int(h.Width) * int(h.Height)
	pix, err := format.Range(b, 8, n, e.Name+" pixels")
	if err != nil {
		return nil, err
	}
	count, err := format.Uint16(b, 8+n, e.Name+" palette size")
	if err != nil {
		return nil, err
	}
	pb, err := format.Tail(b, 8+n+2, e.Name+" palette")
	if err != nil {
		return nil, err
	}
	p, err := palette.Parse(pb, int(count))
	if err != nil {
		return nil, err
	}
	return &Image{
		Name:    e.Name,
		Width:   int(h.Width),
		Height:  int(h.Height),
		Pixels:  pix,
		Palette: p,
	}, nil
}

const (
	fontChars = 256
	// GoldSrc fonts are always 256 pixels wide, whatever the header says.
	fontWidth = 256
	// Font pixels using this index are transparent.
	fontAlphaKey = 255
)

type fontHeader struct {
	Width     uint32
	Height    uint32
	RowCount  uint32
	RowHeight uint32
	Chars     [fontChars]struct {
		Offset uint16
		Width  uint16
	}
}

// CharInfo locates one glyph inside the font image.
type CharInfo struct {
	X, Y          int
	Width, Height int
}

type Font struct {
	Name      string
	Width     int
	Height    int
	RowCount  int
	RowHeight int
	Chars     [fontChars]CharInfo
	Pixels    []byte
	Palette   palette.Palette
}

func (f *Font) RGBA() []byte {
	return f.Palette.RGBA(f.Pixels, fontAlphaKey)
}

// Font decodes a font entry. The palette may be shorter than its declared
// color count; missing colors are black.
func (a *Archive) Font(e *Entry) (*Font, error) {
	if e.Type != TypeFont {
		return nil, errors.Errorf("%s: %v is not a font", e.Name, e.Type)
	}
	b, err := a.Data(e)
	if err != nil {
		return nil, err
	}
	var h fontHeader
	if err := format.Read(b, 0, &h, e.Name); err != nil {
		return nil, err
	}
	f := &Font{
		Name:      e.Name,
		Width:     fontWidth,
		Height:    int(h.Height),
		RowCount:  int(h.RowCount),
		RowHeight: int(h.RowHeight),
	}
	rowArea := f.RowHeight * fontWidth
	for i, c := range h.Chars {
		off := int(c.Offset)
		row := 0
		if rowArea > 0 {
			row = off / rowArea
		}
		f.Chars[i] = CharInfo{
			X:      off - row*rowArea,
			Y:      row * f.RowHeight,
			Width:  int(c.Width),
			Height: f.RowHeight,
		}
	}
	start := 16 + 4*fontChars
	n := f.Width * f.Height
	if f.Pixels, err = format.Range(b, start, n, e.Name+" pixels"); err != nil {
		return nil, err
	}
	count, err := format.Uint16(b, start+n, e.Name+" palette size")
	if err != nil {
		return nil, err
	}
	pb, err := format.Tail(b, start+n+2, e.Name+" palette")
	if err != nil {
		return nil, err
	}
	if len(pb) < 3*int(count) {
		slog.Warn("Short font palette", "font", e.Name, "colors", count, "bytes", len(pb))
	}
	f.Palette = palette.ParseTolerant(pb, int(count))
	return f, nil
}
