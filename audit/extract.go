// SPDX-License-Identifier: GPL-2.0-or-later

package audit

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"goldsrc/bsp"
	"goldsrc/filesystem"
	"goldsrc/image"
	"goldsrc/mdl"
	"goldsrc/model"
	"goldsrc/report"
	"goldsrc/spr"
	"goldsrc/wad"
)

func newExtractCommand(s *session) *cobra.Command {
	var tga bool
	cmd := &cobra.Command{
		Use:   "extract <file>...",
		Short: "Write the textures of levels, archives, models and sprites as images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ext := ".png"
			if tga {
				ext = ".tga"
			}
			for _, n := range args {
				a := s.rep.Add(n, "")
				m, err := model.Load(s.fs, n)
				if err != nil {
					a.Fail(err)
					continue
				}
				a.Kind = m.Kind().String()
				dir := filepath.Join(s.opts.out, filesystem.StripExt(path.Base(filepath.ToSlash(n))))
				if err := os.MkdirAll(dir, 0o755); err != nil {
					a.Fail(err)
					continue
				}
				x := &extractor{dir: dir, ext: ext, a: a}
				a.Fail(x.extract(m))
				a.Set("written", x.written)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&s.opts.out, "out", "o", ".", "output directory")
	cmd.Flags().BoolVar(&tga, "tga", false, "write targa instead of png")
	return cmd
}

type extractor struct {
	dir     string
	ext     string
	a       *report.Asset
	written int
}

// fileName maps a texture name to a file name. Texture names may start with
// characters like '*' or '{' that mark special surfaces.
func fileName(name string) string {
	r := strings.NewReplacer("*", "#", "/", "_", "\\", "_", ":", "_")
	if name = r.Replace(name); name == "" {
		name = "unnamed"
	}
	return name
}

func (x *extractor) write(name string, rgba []byte, w, h int) error {
	if w == 0 || h == 0 {
		return nil
	}
	if err := image.Write(filepath.Join(x.dir, fileName(name)+x.ext), rgba, w, h); err != nil {
		return err
	}
	x.written++
	return nil
}

func (x *extractor) extract(m model.Model) error {
	switch m := m.(type) {
	case *bsp.Reader:
		return x.level(m)
	case *wad.Archive:
		es := m.Entries()
		for i := range es {
			p, err := decodeEntry(m, &es[i])
			if err != nil {
				return err
			}
			if err := x.write(p.name, p.rgba, p.width, p.height); err != nil {
				return err
			}
		}
		return nil
	case *mdl.File:
		ts, err := m.Textures()
		if err != nil {
			return err
		}
		for _, t := range ts {
			if err := x.write(filesystem.StripExt(t.Name), t.RGBA(), t.Width, t.Height); err != nil {
				return err
			}
		}
		return nil
	case *spr.Sprite:
		for i, f := range m.Frames() {
			if err := x.write(fmt.Sprintf("frame%03d", i), m.RGBA(f), f.Width, f.Height); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

// level writes the embedded textures and the lightmap atlas.
func (x *extractor) level(r *bsp.Reader) error {
	g, err := r.Geometry()
	if err != nil {
		return err
	}
	for i := 0; i < g.Textures.Len(); i++ {
		t, ok := g.Textures.Get(i)
		if !ok || !t.HasPixels() {
			continue
		}
		px, err := t.RGBA(0)
		if err != nil {
			return err
		}
		if err := x.write(t.Name, px, t.Width, t.Height); err != nil {
			return err
		}
	}
	atlas, err := g.PackLightmaps()
	if err != nil {
		return err
	}
	x.a.Set("lightmap_atlas", []any{atlas.Width, atlas.Height})
	return x.write("lightmaps", atlas.RGBA(), atlas.Width, atlas.Height)
}
