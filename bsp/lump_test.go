// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"

	"goldsrc/format"
)

func TestOpenBadVersion(t *testing.T) {
	l := newTestLevel()
	l.version = 29
	if _, err := Open(l.build()); !errors.Is(err, format.ErrBadMagic) {
		t.Errorf("Open(version 29) = %v, want ErrBadMagic", err)
	}
	if _, err := Open([]byte{30}); !errors.Is(err, format.ErrBadMagic) {
		t.Errorf("Open(1 byte) = %v, want ErrBadMagic", err)
	}
}

func TestOpenShortHeader(t *testing.T) {
	b := []byte{30, 0, 0, 0, 1, 2, 3}
	if _, err := Open(b); !errors.Is(err, format.ErrOutOfBounds) {
		t.Errorf("Open(short header) = %v, want ErrOutOfBounds", err)
	}
}

func TestLumpBytesLength(t *testing.T) {
	l := newTestLevel()
	r, err := Open(l.build())
	if err != nil {
		t.Fatal(err)
	}
	want := [LumpCount]int{}
	for i, d := range l.lumps() {
		want[i] = len(d)
	}
	for id := LumpID(0); id < LumpCount; id++ {
		b, err := r.LumpBytes(id)
		if err != nil {
			t.Errorf("LumpBytes(%v) = %v", id, err)
			continue
		}
		if len(b) != want[id] {
			t.Errorf("len(LumpBytes(%v)) = %v, want %v", id, len(b), want[id])
		}
	}
	if _, err := r.LumpBytes(LumpCount); !errors.Is(err, format.ErrOutOfBounds) {
		t.Errorf("LumpBytes(LumpCount) = %v, want ErrOutOfBounds", err)
	}
}

func TestLumpOutOfBounds(t *testing.T) {
	data := newTestLevel().build()
	// length of the planes lump
	binary.LittleEndian.PutUint32(data[4+8*int(LumpPlanes)+4:], uint32(len(data)))
	// negative offset of the edges lump
	binary.LittleEndian.PutUint32(data[4+8*int(LumpEdges):], 0xffffffff)
	r, err := Open(data)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.LumpBytes(LumpPlanes); !errors.Is(err, format.ErrOutOfBounds) {
		t.Errorf("LumpBytes(planes) = %v, want ErrOutOfBounds", err)
	}
	if _, err := r.Edges(); !errors.Is(err, format.ErrOutOfBounds) {
		t.Errorf("Edges() = %v, want ErrOutOfBounds", err)
	}
	if _, err := r.Geometry(); !errors.Is(err, format.ErrOutOfBounds) {
		t.Errorf("Geometry() = %v, want ErrOutOfBounds", err)
	}
	if _, err := r.Faces(); err != nil {
		t.Errorf("Faces() = %v, want no error", err)
	}
}

func TestDecodeTruncatesPartialRecord(t *testing.T) {
	l := newTestLevel()
	lumps := l.lumps()
	lumps[LumpPlanes] = append(lumps[LumpPlanes], 1, 2, 3)
	r, err := Open(buildLumps(Version, lumps))
	if err != nil {
		t.Fatal(err)
	}
	planes, err := r.Planes()
	if err != nil {
		t.Fatal(err)
	}
	if len(planes) != 1 {
		t.Errorf("len(Planes()) = %v, want 1", len(planes))
	}
	if planes[0].Normal != [3]float32{0, 0, 1} || planes[0].Type != 2 {
		t.Errorf("Planes()[0] = %+v", planes[0])
	}
}

func TestTypedAccessors(t *testing.T) {
	l := newTestLevel()
	r, err := Open(l.build())
	if err != nil {
		t.Fatal(err)
	}
	g, err := r.Geometry()
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Faces) != 2 || g.Faces[0].EdgeCount != 4 || g.Faces[1].LightmapOffset != -1 {
		t.Errorf("Faces = %+v", g.Faces)
	}
	if len(g.Leaves) != 2 || g.Leaves[1].MarkSurfaceCount != 2 || g.Leaves[0].Contents != ContentsSolid {
		t.Errorf("Leaves = %+v", g.Leaves)
	}
	if len(g.Nodes) != 1 || g.Nodes[0].Children != [2]int16{-2, -1} {
		t.Errorf("Nodes = %+v", g.Nodes)
	}
	if len(g.Models) != 1 || g.Models[0].VisLeafCount != 1 {
		t.Errorf("Models = %+v", g.Models)
	}
	if len(g.SurfaceEdges) != 4 || len(g.Edges) != 5 || len(g.Vertices) != 4 {
		t.Errorf("edges %v surfedges %v vertices %v", len(g.Edges), len(g.SurfaceEdges), len(g.Vertices))
	}
	s, err := r.EntitiesText()
	if err != nil || s != l.entities {
		t.Errorf("EntitiesText() = %q, %v, want %q", s, err, l.entities)
	}
}

func TestContentsString(t *testing.T) {
	tests := []struct {
		c    Contents
		want string
	}{
		{ContentsEmpty, "empty"},
		{ContentsSolid, "solid"},
		{ContentsTranslucent, "translucent"},
		{Contents(-16), "contents(-16)"},
	}
	for _, tc := range tests {
		if got := tc.c.String(); got != tc.want {
			t.Errorf("Contents(%d).String() = %q, want %q", int32(tc.c), got, tc.want)
		}
	}
}

func TestTextureDirectory(t *testing.T) {
	r, err := Open(newTestLevel().build())
	if err != nil {
		t.Fatal(err)
	}
	d, err := r.Textures()
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 1 {
		t.Fatalf("Len() = %v, want 1", d.Len())
	}
	m, ok := d.Get(0)
	if !ok {
		t.Fatalf("Get(0) failed")
	}
	if m.Name != "CRATE" || m.Width != 16 || m.Height != 16 || m.HasPixels() {
		t.Errorf("Get(0) = %v %vx%v pixels %v", m.Name, m.Width, m.Height, m.HasPixels())
	}
	if _, ok := d.Get(1); ok {
		t.Errorf("Get(1) succeeded")
	}
	if _, ok := d.Get(-1); ok {
		t.Errorf("Get(-1) succeeded")
	}
	if got := d.Sizes(); len(got) != 1 || got[0] != (Size{16, 16}) {
		t.Errorf("Sizes() = %v, want [{16 16}]", got)
	}
}

func TestTextureDirectoryMissingOffset(t *testing.T) {
	l := newTestLevel()
	binary.LittleEndian.PutUint32(l.textures[4:], 0xffffffff)
	r, err := Open(l.build())
	if err != nil {
		t.Fatal(err)
	}
	d, err := r.Textures()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Get(0); ok {
		t.Errorf("Get(0) with offset -1 succeeded")
	}
}

func TestTextureDirectoryCountTooLarge(t *testing.T) {
	l := newTestLevel()
	binary.LittleEndian.PutUint32(l.textures, 1000)
	r, err := Open(l.build())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Textures(); !errors.Is(err, format.ErrOutOfBounds) {
		t.Errorf("Textures() = %v, want ErrOutOfBounds", err)
	}
}
