// SPDX-License-Identifier: GPL-2.0-or-later

// Package spr decodes GoldSrc sprites: camera facing images with an own
// palette, optionally grouped into timed animations.
package spr

import "fmt"

const (
	Magic   = 'I' | 'D'<<8 | 'S'<<16 | 'P'<<24
	Version = 2
)

type SyncType int32

const (
	SyncSynchronized SyncType = iota
	SyncRandom
)

// Orientation is how a sprite is turned towards the viewer.
type Orientation int32

const (
	ParallelUpright Orientation = iota
	FacingUpright
	Parallel
	Oriented
	ParallelOriented
)

func (o Orientation) String() string {
	switch o {
	case ParallelUpright:
		return "parallel upright"
	case FacingUpright:
		return "facing upright"
	case Parallel:
		return "parallel"
	case Oriented:
		return "oriented"
	case ParallelOriented:
		return "parallel oriented"
	}
	return fmt.Sprintf("orientation(%d)", int32(o))
}

// TextureFormat selects how palette indices are blended.
type TextureFormat int32

const (
	Normal TextureFormat = iota
	Additive
	IndexAlpha // the index is the alpha, the color is the last palette entry
	AlphaTest  // index 255 is transparent
)

func (f TextureFormat) String() string {
	switch f {
	case Normal:
		return "normal"
	case Additive:
		return "additive"
	case IndexAlpha:
		return "index alpha"
	case AlphaTest:
		return "alpha test"
	}
	return fmt.Sprintf("format(%d)", int32(f))
}

type header struct { // dsprite_t
	ID             [4]byte
	Version        int32
	Orientation    Orientation
	TextureFormat  TextureFormat
	BoundingRadius float32
	MaxWidth       int32
	MaxHeight      int32
	FrameCount     int32
	BeamLength     float32
	SyncType       SyncType
}

const (
	frameSingle = iota
	frameGroup
)

type frameHeader struct {
	Origin [2]int32
	Width  int32
	Height int32
}
