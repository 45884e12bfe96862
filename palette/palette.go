// SPDX-License-Identifier: GPL-2.0-or-later

// Package palette turns 8 bit indexed pixels into RGBA using the 256 color
// palettes stored next to GoldSrc textures.
package palette

import (
	"goldsrc/format"
)

const Size = 256

// Transparent colors: pure blue in a palette marks see-through pixels.
var ColorKey = [3]uint8{0, 0, 255}

type Palette [][3]uint8

// Parse reads count RGB triples from b.
func Parse(b []byte, count int) (Palette, error) {
	r, err := format.Range(b, 0, 3*count, "palette")
	if err != nil {
		return nil, err
	}
	return fromRGB(r, count), nil
}

// ParseTolerant reads up to count RGB triples. Missing entries stay black.
func ParseTolerant(b []byte, count int) Palette {
	if count < 0 {
		count = 0
	}
	if n := 3 * count; len(b) > n {
		b = b[:n]
	}
	return fromRGB(b, count)
}

func fromRGB(b []byte, count int) Palette {
	p := make(Palette, count)
	for i := range p {
		if 3*i+2 >= len(b) {
			break
		}
		p[i] = [3]uint8{b[3*i], b[3*i+1], b[3*i+2]}
	}
	return p
}

func (p Palette) color(idx byte) [3]uint8 {
	if int(idx) < len(p) {
		return p[idx]
	}
	return [3]uint8{}
}

// RGBA converts indexed pixels. Pixels whose color is the color key, or whose
// index equals alphaKey when alphaKey >= 0, become fully transparent black.
func (p Palette) RGBA(pixels []byte, alphaKey int) []byte {
	d := make([]byte, 4*len(pixels))
	for i, idx := range pixels {
		c := p.color(idx)
		if c == ColorKey || int(idx) == alphaKey {
			continue
		}
		d[4*i] = c[0]
		d[4*i+1] = c[1]
		d[4*i+2] = c[2]
		d[4*i+3] = 255
	}
	return d
}

// Greyscale expands each index into an opaque grey value. Decals store
// intensities and carry their tint in the last palette entry.
func Greyscale(pixels []byte) []byte {
	d := make([]byte, 4*len(pixels))
	for i, v := range pixels {
		d[4*i] = v
		d[4*i+1] = v
		d[4*i+2] = v
		d[4*i+3] = 255
	}
	return d
}

// RGBToRGBA widens packed RGB data, as found in lightmaps, to opaque RGBA.
func RGBToRGBA(rgb []byte) []byte {
	n := len(rgb) / 3
	d := make([]byte, 4*n)
	for i := 0; i < n; i++ {
		d[4*i] = rgb[3*i]
		d[4*i+1] = rgb[3*i+1]
		d[4*i+2] = rgb[3*i+2]
		d[4*i+3] = 255
	}
	return d
}
