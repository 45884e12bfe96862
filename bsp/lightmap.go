// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/pkg/errors"

	"goldsrc/format"
	"goldsrc/math"
	"goldsrc/palette"
)

const (
	// LightmapCell is the edge length, in samples, of the atlas cell
	// reserved for each face.
	LightmapCell = 16
	// MaxLightmapSamples is the largest number of samples per row or
	// column the engine accepts for a lit face (256 texels of extent).
	MaxLightmapSamples = 17
)

type LightmapPlacement struct {
	FaceLightmap
	X, Y    int  // cell origin in the atlas, in samples
	Present bool // false for faces without lightmap data
}

// LightmapAtlas holds the lightmaps of all faces in one RGB image laid out
// as a grid of LightmapCell cells, one per face in face order.
type LightmapAtlas struct {
	Columns    int
	Rows       int
	CellSize   int
	Width      int
	Height     int
	Data       []byte // RGB
	Placements []LightmapPlacement
}

// PackLightmaps copies the first light style of every face into an atlas.
// A face storing more than LightmapCell samples along an axis keeps its
// full size in its placement but only the first LightmapCell rows and
// columns are copied.
func (g *Geometry) PackLightmaps() (*LightmapAtlas, error) {
	n := len(g.Faces)
	a := &LightmapAtlas{
		CellSize:   LightmapCell,
		Placements: make([]LightmapPlacement, n),
	}
	src := make([][]byte, n)
	for i := range g.Faces {
		lm, err := g.FaceLightmap(i)
		if err != nil {
			return nil, err
		}
		p := &a.Placements[i]
		p.FaceLightmap = lm
		f := &g.Faces[i]
		if !f.HasLightmap() {
			continue
		}
		if lm.Width > MaxLightmapSamples || lm.Height > MaxLightmapSamples {
			return nil, errors.Wrapf(format.ErrOutOfBounds, "face %d: lightmap %dx%d samples", i, lm.Width, lm.Height)
		}
		src[i], err = format.Range(g.Lighting, int(f.LightmapOffset), lm.Samples()*3, "face lightmap")
		if err != nil {
			return nil, err
		}
		p.Present = true
	}
	if n == 0 {
		return a, nil
	}
	a.Columns = math.CeilSqrt(n)
	a.Rows = (n + a.Columns - 1) / a.Columns
	a.Width = a.Columns * LightmapCell
	a.Height = a.Rows * LightmapCell
	a.Data = make([]byte, a.Width*a.Height*3)
	for i := range g.Faces {
		p := &a.Placements[i]
		p.X = (i % a.Columns) * LightmapCell
		p.Y = (i / a.Columns) * LightmapCell
		if !p.Present {
			continue
		}
		stride := p.Width * 3
		row := min(p.Width, LightmapCell) * 3
		for y := 0; y < min(p.Height, LightmapCell); y++ {
			dst := ((p.Y+y)*a.Width + p.X) * 3
			copy(a.Data[dst:dst+row], src[i][y*stride:y*stride+row])
		}
	}
	return a, nil
}

// uv maps texture space coordinates on face fi to atlas coordinates,
// sampling at texel centers and staying inside the face's cell.
func (a *LightmapAtlas) uv(fi int, s, t float32) [2]float32 {
	p := &a.Placements[fi]
	const lo, hi = 0.5, LightmapCell - 0.5
	u := float32(p.X) + math.Clamp(lo, (s-float32(p.TextureMins[0]))/LightmapTexel+0.5, hi)
	v := float32(p.Y) + math.Clamp(lo, (t-float32(p.TextureMins[1]))/LightmapTexel+0.5, hi)
	return [2]float32{u / float32(a.Width), v / float32(a.Height)}
}

// RGBA returns the atlas as opaque RGBA pixels.
func (a *LightmapAtlas) RGBA() []byte {
	return palette.RGBToRGBA(a.Data)
}
