// SPDX-License-Identifier: GPL-2.0-or-later

package spr

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"goldsrc/format"
	"goldsrc/palette"
)

// Frame is one image. Origin is the offset of the top left corner from the
// sprite origin, with y pointing up.
type Frame struct {
	Origin [2]int
	Width  int
	Height int
	Pixels []byte
}

// Group is an entry of the frame list. Single frames are groups of one
// frame without intervals.
type Group struct {
	Intervals []float32 // end time of each frame, in seconds
	Frames    []*Frame
}

type Sprite struct {
	name           string
	Orientation    Orientation
	TextureFormat  TextureFormat
	BoundingRadius float32
	MaxWidth       int
	MaxHeight      int
	BeamLength     float32
	SyncType       SyncType
	Palette        palette.Palette
	Groups         []Group
}

func (s *Sprite) Name() string {
	return s.name
}

func (s *Sprite) SetName(n string) {
	s.name = n
}

// Open decodes a whole sprite file.
func Open(data []byte) (*Sprite, error) {
	var h header
	if err := format.Read(data, 0, &h, "sprite header"); err != nil {
		return nil, errors.Wrap(format.ErrBadMagic, "sprite file too short")
	}
	if id := binary.LittleEndian.Uint32(h.ID[:]); id != Magic {
		return nil, errors.Wrapf(format.ErrBadMagic, "sprite file has id %q, want IDSP", h.ID[:])
	}
	if h.Version != Version {
		return nil, errors.Wrapf(format.ErrUnsupported, "sprite version %d, want %d", h.Version, Version)
	}
	if h.FrameCount < 1 {
		return nil, errors.Errorf("invalid number of frames: %d", h.FrameCount)
	}
	s := &Sprite{
		Orientation:    h.Orientation,
		TextureFormat:  h.TextureFormat,
		BoundingRadius: h.BoundingRadius,
		MaxWidth:       int(h.MaxWidth),
		MaxHeight:      int(h.MaxHeight),
		BeamLength:     h.BeamLength,
		SyncType:       h.SyncType,
	}
	off := binary.Size(h)
	count, err := format.Uint16(data, off, "palette size")
	if err != nil {
		return nil, err
	}
	off += 2
	pb, err := format.Range(data, off, 3*int(count), "palette")
	if err != nil {
		return nil, err
	}
	if s.Palette, err = palette.Parse(pb, int(count)); err != nil {
		return nil, err
	}
	off += len(pb)

	for i := 0; i < int(h.FrameCount); i++ {
		typ, err := format.Int32(data, off, "frame type")
		if err != nil {
			return nil, err
		}
		off += 4
		var g Group
		switch typ {
		case frameSingle:
			f, n, err := readFrame(data, off)
			if err != nil {
				return nil, errors.Wrapf(err, "frame %d", i)
			}
			off += n
			g.Frames = []*Frame{f}
		case frameGroup:
			if g, off, err = readGroup(data, off); err != nil {
				return nil, errors.Wrapf(err, "frame group %d", i)
			}
		default:
			return nil, errors.Errorf("frame %d has unknown type %d", i, typ)
		}
		s.Groups = append(s.Groups, g)
	}
	return s, nil
}

// readFrame returns the frame at off and its size in bytes.
func readFrame(data []byte, off int) (*Frame, int, error) {
	var h frameHeader
	if err := format.Read(data, off, &h, "frame header"); err != nil {
		return nil, 0, err
	}
	if h.Width < 0 || h.Height < 0 || h.Width > 1<<12 || h.Height > 1<<12 {
		return nil, 0, errors.Wrapf(format.ErrOutOfBounds, "frame size %dx%d", h.Width, h.Height)
	}
	hs := binary.Size(h)
	n := int(h.Width) * int(h.Height)
	px, err := format.Range(data, off+hs, n, "frame pixels")
	if err != nil {
		return nil, 0, err
	}
	return &Frame{
		Origin: [2]int{int(h.Origin[0]), int(h.Origin[1])},
		Width:  int(h.Width),
		Height: int(h.Height),
		Pixels: px,
	}, hs + n, nil
}

func readGroup(data []byte, off int) (Group, int, error) {
	var g Group
	count, err := format.Int32(data, off, "group size")
	if err != nil {
		return g, off, err
	}
	if count < 1 {
		return g, off, errors.Errorf("invalid group size %d", count)
	}
	off += 4
	if g.Intervals, err = format.ReadArray[float32](data, off, int(count), "group intervals"); err != nil {
		return g, off, err
	}
	off += 4 * int(count)
	for i, iv := range g.Intervals {
		if iv <= 0 {
			return g, off, errors.Errorf("interval %d is %v, must be positive", i, iv)
		}
	}
	for i := 0; i < int(count); i++ {
		typ, err := format.Int32(data, off, "group frame type")
		if err != nil {
			return g, off, err
		}
		if typ != frameSingle {
			return g, off, errors.Errorf("group frame %d has type %d", i, typ)
		}
		f, n, err := readFrame(data, off+4)
		if err != nil {
			return g, off, err
		}
		off += 4 + n
		g.Frames = append(g.Frames, f)
	}
	return g, off, nil
}

// Frames returns all frames in file order.
func (s *Sprite) Frames() []*Frame {
	var fs []*Frame
	for _, g := range s.Groups {
		fs = append(fs, g.Frames...)
	}
	return fs
}

// RGBA converts a frame using the sprite's palette and texture format.
func (s *Sprite) RGBA(f *Frame) []byte {
	d := make([]byte, 4*len(f.Pixels))
	var last [3]uint8
	if len(s.Palette) > 0 {
		last = s.Palette[len(s.Palette)-1]
	}
	for i, idx := range f.Pixels {
		var c [3]uint8
		a := uint8(255)
		switch s.TextureFormat {
		case IndexAlpha:
			c, a = last, idx
		case AlphaTest:
			if idx == 255 {
				continue
			}
			fallthrough
		default:
			if int(idx) < len(s.Palette) {
				c = s.Palette[idx]
			}
		}
		d[4*i] = c[0]
		d[4*i+1] = c[1]
		d[4*i+2] = c[2]
		d[4*i+3] = a
	}
	return d
}
