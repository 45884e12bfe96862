// SPDX-License-Identifier: GPL-2.0-or-later

package wad

import (
	"bytes"
	"encoding/binary"
	"os"
	"testing"

	"github.com/pkg/errors"

	"goldsrc/format"
)

type testEntry struct {
	name string
	typ  byte
	data []byte
}

func buildWad(entries []testEntry) []byte {
	var body bytes.Buffer
	offsets := make([]uint32, len(entries))
	for i, e := range entries {
		offsets[i] = uint32(12 + body.Len())
		body.Write(e.data)
	}
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, header{
		M:          [4]byte{'W', 'A', 'D', '3'},
		EntryCount: uint32(len(entries)),
		DirOffset:  uint32(12 + body.Len()),
	})
	b.Write(body.Bytes())
	for i, e := range entries {
		l := lump{
			Offset:   offsets[i],
			DiskSize: uint32(len(e.data)),
			Size:     uint32(len(e.data)),
			Typ:      e.typ,
		}
		copy(l.Name[:], e.name)
		binary.Write(&b, binary.LittleEndian, l)
	}
	return b.Bytes()
}

// mipData builds an 8x8 mip texture whose pixels are all index fill and
// whose palette maps index i to (i, 255-i, 0), except index 255 which is
// the blue color key.
func mipData(name string, fill byte) []byte {
	h := mipHeader{Width: 8, Height: 8, Offsets: [4]uint32{40, 104, 120, 124}}
	copy(h.Name[:], name)
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, h)
	b.Write(bytes.Repeat([]byte{fill}, 64+16+4+1))
	binary.Write(&b, binary.LittleEndian, uint16(256))
	for i := 0; i < 256; i++ {
		if i == 255 {
			b.Write([]byte{0, 0, 255})
			continue
		}
		b.Write([]byte{byte(i), byte(255 - i), 0})
	}
	return b.Bytes()
}

func TestOpenBadMagic(t *testing.T) {
	data := buildWad(nil)
	copy(data, "WAD2")
	if _, err := Open(data); !errors.Is(err, format.ErrBadMagic) {
		t.Errorf("Open(WAD2) = %v, want ErrBadMagic", err)
	}
	if _, err := Open([]byte("WA")); !errors.Is(err, format.ErrBadMagic) {
		t.Errorf("Open(short) = %v, want ErrBadMagic", err)
	}
}

func TestOpenUnknownType(t *testing.T) {
	data := buildWad([]testEntry{{"PAL", 0x44, []byte{1, 2, 3}}})
	if _, err := Open(data); !errors.Is(err, ErrUnknownType) {
		t.Errorf("Open(type 0x44) = %v, want ErrUnknownType", err)
	}
}

func TestOpenDirectoryOutOfBounds(t *testing.T) {
	data := buildWad([]testEntry{{"A", byte(TypeMipTexture), mipData("A", 1)}})
	binary.LittleEndian.PutUint32(data[4:], 1000)
	if _, err := Open(data); !errors.Is(err, format.ErrOutOfBounds) {
		t.Errorf("Open(count 1000) = %v, want ErrOutOfBounds", err)
	}
}

func TestFind(t *testing.T) {
	a, err := Open(buildWad([]testEntry{
		{"{BLUE", byte(TypeMipTexture), mipData("{BLUE", 255)},
		{"CRATE01", byte(TypeMipTexture), mipData("CRATE01", 3)},
	}))
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Entries()) != 2 {
		t.Fatalf("len(Entries) = %v, want 2", len(a.Entries()))
	}
	e, ok := a.Find("crate01")
	if !ok || e.Name != "CRATE01" {
		t.Errorf("Find(crate01) = %v, %v, want CRATE01", e, ok)
	}
	if _, ok := a.Find("missing"); ok {
		t.Errorf("Find(missing) succeeded")
	}
}

func TestMipTexture(t *testing.T) {
	a, err := Open(buildWad([]testEntry{
		{"{BLUE", byte(TypeMipTexture), mipData("{BLUE", 255)},
		{"CRATE01", byte(TypeMipTexture), mipData("CRATE01", 3)},
	}))
	if err != nil {
		t.Fatal(err)
	}
	e, _ := a.Find("CRATE01")
	m, err := a.MipTexture(e)
	if err != nil {
		t.Fatalf("MipTexture: %v", err)
	}
	if m.Name != "CRATE01" || m.Width != 8 || m.Height != 8 {
		t.Errorf("MipTexture = %v %vx%v, want CRATE01 8x8", m.Name, m.Width, m.Height)
	}
	for level, want := range []int{64, 16, 4, 1} {
		pix, ok := m.Mip(level)
		if !ok || len(pix) != want {
			t.Errorf("Mip(%d) = %v bytes, %v, want %v", level, len(pix), ok, want)
		}
	}
	rgba, err := m.RGBA(0)
	if err != nil {
		t.Fatalf("RGBA: %v", err)
	}
	if !bytes.Equal(rgba[:4], []byte{3, 252, 0, 255}) {
		t.Errorf("RGBA(0)[0] = %v, want [3 252 0 255]", rgba[:4])
	}

	e, _ = a.Find("{BLUE")
	m, err = a.MipTexture(e)
	if err != nil {
		t.Fatal(err)
	}
	rgba, err = m.RGBA(1)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(rgba[:4], []byte{0, 0, 0, 0}) {
		t.Errorf("color keyed pixel = %v, want transparent", rgba[:4])
	}
}

func TestMipTextureWithoutPixels(t *testing.T) {
	h := mipHeader{Width: 64, Height: 32}
	copy(h.Name[:], "SKY")
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, h)
	m, err := ParseMipTexture(b.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if m.HasPixels() {
		t.Errorf("HasPixels() = true, want false")
	}
	if _, ok := m.Mip(0); ok {
		t.Errorf("Mip(0) succeeded without data")
	}
	if _, err := m.Palette(); err == nil {
		t.Errorf("Palette() succeeded without data")
	}
}

func TestImage(t *testing.T) {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, imageHeader{Width: 2, Height: 1})
	b.Write([]byte{0, 1})
	binary.Write(&b, binary.LittleEndian, uint16(2))
	b.Write([]byte{9, 8, 7, 0, 0, 255})
	a, err := Open(buildWad([]testEntry{{"LAMBDA", byte(TypeImage), b.Bytes()}}))
	if err != nil {
		t.Fatal(err)
	}
	e, _ := a.Find("lambda")
	img, err := a.Image(e)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	want := []byte{9, 8, 7, 255, 0, 0, 0, 0}
	if got := img.RGBA(); !bytes.Equal(got, want) {
		t.Errorf("RGBA = %v, want %v", got, want)
	}
	if _, err := a.Font(e); err == nil {
		t.Errorf("Font(image entry) succeeded")
	}
}

func fontData(height, rowHeight int, paletteBytes int) []byte {
	var h fontHeader
	h.Width = 16 // ignored
	h.Height = uint32(height)
	h.RowCount = uint32(height / rowHeight)
	h.RowHeight = uint32(rowHeight)
	h.Chars['A'].Offset = uint16(rowHeight*256 + 20)
	h.Chars['A'].Width = 7
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, h)
	b.Write(bytes.Repeat([]byte{1}, 256*height))
	binary.Write(&b, binary.LittleEndian, uint16(256))
	b.Write(bytes.Repeat([]byte{200}, paletteBytes))
	return b.Bytes()
}

func TestFont(t *testing.T) {
	a, err := Open(buildWad([]testEntry{{"FONT1", byte(TypeFont), fontData(4, 2, 768)}}))
	if err != nil {
		t.Fatal(err)
	}
	e, _ := a.Find("FONT1")
	f, err := a.Font(e)
	if err != nil {
		t.Fatalf("Font: %v", err)
	}
	if f.Width != 256 || f.Height != 4 || f.RowCount != 2 {
		t.Errorf("Font size = %vx%v rows %v, want 256x4 rows 2", f.Width, f.Height, f.RowCount)
	}
	want := CharInfo{X: 20, Y: 2, Width: 7, Height: 2}
	if f.Chars['A'] != want {
		t.Errorf("Chars['A'] = %+v, want %+v", f.Chars['A'], want)
	}
}

func TestFontShortPalette(t *testing.T) {
	a, err := Open(buildWad([]testEntry{{"FONT2", byte(TypeFont), fontData(2, 2, 300)}}))
	if err != nil {
		t.Fatal(err)
	}
	e, _ := a.Find("FONT2")
	f, err := a.Font(e)
	if err != nil {
		t.Fatalf("Font with short palette: %v", err)
	}
	if len(f.Palette) != 256 {
		t.Fatalf("len(Palette) = %v, want 256", len(f.Palette))
	}
	if f.Palette[1] != [3]uint8{200, 200, 200} {
		t.Errorf("Palette[1] = %v, want [200 200 200]", f.Palette[1])
	}
	if f.Palette[255] != [3]uint8{} {
		t.Errorf("Palette[255] = %v, want black", f.Palette[255])
	}
}

type mapSource map[string][]byte

func (m mapSource) ReadFile(name string) ([]byte, error) {
	if b, ok := m[name]; ok {
		return b, nil
	}
	return nil, os.ErrNotExist
}

func TestCollection(t *testing.T) {
	src := mapSource{
		"halflife.wad": buildWad([]testEntry{{"CRATE01", byte(TypeMipTexture), mipData("CRATE01", 1)}}),
		"decals.wad":   buildWad([]testEntry{{"CRATE01", byte(TypeMipTexture), mipData("CRATE01", 2)}, {"LOGO", byte(TypeDecal), mipData("LOGO", 9)}}),
	}
	c, err := LoadCollection(src, []string{"halflife.wad", "missing.wad", "decals.wad"})
	if err == nil {
		t.Errorf("LoadCollection with a missing wad returned no error")
	}
	if len(c) != 2 {
		t.Fatalf("len(Collection) = %v, want 2", len(c))
	}
	a, _, ok := c.Find("crate01")
	if !ok || a.Name() != "halflife.wad" {
		t.Errorf("Find(crate01) in %v, want halflife.wad", a.Name())
	}
	m, err := c.MipTexture("logo")
	if err != nil {
		t.Fatalf("MipTexture(logo): %v", err)
	}
	g, err := m.Greyscale(0)
	if err != nil || !bytes.Equal(g[:4], []byte{9, 9, 9, 255}) {
		t.Errorf("Greyscale = %v, %v, want [9 9 9 255]", g[:4], err)
	}
	if _, err := c.MipTexture("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("MipTexture(nope) = %v, want ErrNotFound", err)
	}
}
