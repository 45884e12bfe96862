// SPDX-License-Identifier: GPL-2.0-or-later

package spr

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"

	"goldsrc/format"
)

func frameBytes(w, h int32, fill byte) []byte {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, frameHeader{Origin: [2]int32{-w / 2, h / 2}, Width: w, Height: h})
	b.Write(bytes.Repeat([]byte{fill}, int(w*h)))
	return b.Bytes()
}

// testSprite has a single 2x2 frame followed by a group of two 1x1 frames.
func testSprite(tf TextureFormat) []byte {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, header{
		ID:            [4]byte{'I', 'D', 'S', 'P'},
		Version:       Version,
		Orientation:   Oriented,
		TextureFormat: tf,
		MaxWidth:      2,
		MaxHeight:     2,
		FrameCount:    2,
		SyncType:      SyncRandom,
	})
	binary.Write(&b, binary.LittleEndian, uint16(256))
	for i := 0; i < 256; i++ {
		b.Write([]byte{byte(i), 0, byte(255 - i)})
	}
	binary.Write(&b, binary.LittleEndian, int32(frameSingle))
	b.Write(frameBytes(2, 2, 7))
	binary.Write(&b, binary.LittleEndian, int32(frameGroup))
	binary.Write(&b, binary.LittleEndian, int32(2))
	binary.Write(&b, binary.LittleEndian, []float32{0.1, 0.2})
	for _, fill := range []byte{255, 9} {
		binary.Write(&b, binary.LittleEndian, int32(frameSingle))
		b.Write(frameBytes(1, 1, fill))
	}
	return b.Bytes()
}

func TestOpen(t *testing.T) {
	s, err := Open(testSprite(Normal))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Orientation != Oriented || s.SyncType != SyncRandom || len(s.Palette) != 256 {
		t.Errorf("header = %v %v %d colors", s.Orientation, s.SyncType, len(s.Palette))
	}
	if len(s.Groups) != 2 || len(s.Groups[0].Frames) != 1 || s.Groups[0].Intervals != nil {
		t.Fatalf("groups = %+v", s.Groups)
	}
	if g := s.Groups[1]; len(g.Frames) != 2 || g.Intervals[1] != 0.2 {
		t.Errorf("group = %+v", g)
	}
	fs := s.Frames()
	if len(fs) != 3 {
		t.Fatalf("Frames() has %d frames, want 3", len(fs))
	}
	if f := fs[0]; f.Width != 2 || f.Height != 2 || f.Origin != [2]int{-1, 1} || !bytes.Equal(f.Pixels, []byte{7, 7, 7, 7}) {
		t.Errorf("frame 0 = %+v", f)
	}
	if fs[2].Pixels[0] != 9 {
		t.Errorf("frame 2 pixels = %v", fs[2].Pixels)
	}
}

func TestRGBA(t *testing.T) {
	tests := []struct {
		tf   TextureFormat
		want []byte // frame 1, index 255
	}{
		{Normal, []byte{255, 0, 0, 255}},
		{Additive, []byte{255, 0, 0, 255}},
		{AlphaTest, []byte{0, 0, 0, 0}},
		{IndexAlpha, []byte{255, 0, 0, 255}},
	}
	for _, tc := range tests {
		s, err := Open(testSprite(tc.tf))
		if err != nil {
			t.Fatalf("Open(%v): %v", tc.tf, err)
		}
		if got := s.RGBA(s.Frames()[1]); !bytes.Equal(got, tc.want) {
			t.Errorf("%v: RGBA = %v, want %v", tc.tf, got, tc.want)
		}
	}
	s, _ := Open(testSprite(IndexAlpha))
	if got, want := s.RGBA(s.Frames()[2]), []byte{255, 0, 0, 9}; !bytes.Equal(got, want) {
		t.Errorf("index alpha RGBA = %v, want %v", got, want)
	}
}

func TestOpenErrors(t *testing.T) {
	good := testSprite(Normal)
	badMagic := append([]byte("IDSQ"), good[4:]...)
	badVersion := append([]byte(nil), good...)
	badVersion[4] = 1
	if _, err := Open(badMagic); !errors.Is(err, format.ErrBadMagic) {
		t.Errorf("Open(bad magic) = %v, want ErrBadMagic", err)
	}
	if _, err := Open(good[:20]); !errors.Is(err, format.ErrBadMagic) {
		t.Errorf("Open(short) = %v, want ErrBadMagic", err)
	}
	if _, err := Open(badVersion); !errors.Is(err, format.ErrUnsupported) {
		t.Errorf("Open(version 1) = %v, want ErrUnsupported", err)
	}
	if _, err := Open(good[:len(good)-1]); !errors.Is(err, format.ErrOutOfBounds) {
		t.Errorf("Open(truncated) = %v, want ErrOutOfBounds", err)
	}
}

func TestStrings(t *testing.T) {
	if s := IndexAlpha.String(); s != "index alpha" {
		t.Errorf("IndexAlpha.String() = %q", s)
	}
	if s := Orientation(9).String(); s != "orientation(9)" {
		t.Errorf("Orientation(9).String() = %q", s)
	}
}
