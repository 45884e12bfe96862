// SPDX-License-Identifier: GPL-2.0-or-later

package audit

import (
	"fmt"
	"math/bits"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"goldsrc/bsp"
	"goldsrc/model"
	"goldsrc/report"
	"goldsrc/wad"
)

func newBSPCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "bsp <map>...",
		Short: "Decode levels and triangulate their geometry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, n := range args {
				if m, a := s.load(n, model.KindLevel); m != nil {
					a.Fail(auditLevel(s.fs, m.(*bsp.Reader), a))
				}
			}
			return nil
		},
	}
}

// auditLevel decodes everything in r. Textures not embedded in the level
// are looked up in the wad files named by the worldspawn entity.
func auditLevel(src wad.Source, r *bsp.Reader, a *report.Asset) error {
	g, err := r.Geometry()
	if err != nil {
		return err
	}
	a.Set("planes", len(g.Planes))
	a.Set("vertices", len(g.Vertices))
	a.Set("nodes", len(g.Nodes))
	a.Set("leaves", len(g.Leaves))
	a.Set("faces", len(g.Faces))
	a.Set("clip_nodes", len(g.ClipNodes))
	a.Set("models", len(g.Models))

	ents, err := r.Entities()
	if err != nil {
		return err
	}
	a.Set("entities", len(ents))
	var wads []string
	if len(ents) > 0 {
		if cn, _ := ents[0].Name(); cn != "worldspawn" {
			return errors.Errorf("first entity is %q, not worldspawn", cn)
		}
		wads = ents[0].WadNames()
	}
	a.Set("wads", anyList(wads))
	auditTextureDirectory(src, g.Textures, wads, a)

	atlas, err := g.PackLightmaps()
	if err != nil {
		return err
	}
	a.Set("lightmap_atlas", []any{atlas.Width, atlas.Height})
	sizes := g.Textures.Sizes()
	world, err := g.TriangulateWorld(bsp.WithTextureSizes(sizes), bsp.WithLightmaps(atlas))
	if err != nil {
		return err
	}
	a.Set("world_triangles", world.Triangles())
	a.Set("world_parts", len(world.Parts))
	ms, err := g.TriangulateModels(bsp.WithTextureSizes(sizes))
	if err != nil {
		return err
	}
	tris := 0
	for _, m := range ms {
		tris += m.Triangles()
	}
	a.Set("model_triangles", tris)
	return auditSpawns(g, ents, a)
}

func auditTextureDirectory(src wad.Source, d *bsp.TextureDirectory, wads []string, a *report.Asset) {
	col, err := wad.LoadCollection(src, wads)
	if err != nil {
		a.Set("wad_errors", err.Error())
	}
	var missing []any
	embedded := 0
	for i := 0; i < d.Len(); i++ {
		m, ok := d.Get(i)
		if !ok {
			missing = append(missing, fmt.Sprintf("#%d", i))
			continue
		}
		if m.HasPixels() {
			embedded++
		}
		if _, err := d.Resolve(i, col); err != nil {
			missing = append(missing, m.Name)
		}
	}
	a.Set("textures", d.Len())
	a.Set("textures_embedded", embedded)
	if len(missing) > 0 {
		a.Set("textures_missing", missing)
	}
}

// auditSpawns checks that every player start is in an empty leaf with
// something visible from it, and in open space for the standing hull.
func auditSpawns(g *bsp.Geometry, ents []*bsp.Entity, a *report.Asset) error {
	spawns, stuck := 0, 0
	for _, e := range ents {
		if cn, _ := e.Name(); cn != "info_player_start" && cn != "info_player_deathmatch" {
			continue
		}
		o, ok := e.Vec3("origin")
		if !ok {
			continue
		}
		spawns++
		leaf, err := g.PointInLeaf(o)
		if err != nil {
			return err
		}
		pvs, err := g.LeafPVS(leaf)
		if err != nil {
			return err
		}
		visible := 0
		for _, b := range pvs {
			visible += bits.OnesCount8(b)
		}
		if g.Leaves[leaf].Contents == bsp.ContentsSolid || visible == 0 {
			stuck++
			continue
		}
		if len(g.Models) == 0 || len(g.ClipNodes) == 0 {
			continue
		}
		h, err := g.Hull(0, 1)
		if err != nil {
			return err
		}
		c, err := h.PointContents(o)
		if err != nil {
			return err
		}
		if c == bsp.ContentsSolid {
			stuck++
		}
	}
	a.Set("spawns", spawns)
	if stuck > 0 {
		a.Set("spawns_stuck", stuck)
	}
	return nil
}

func anyList(s []string) []any {
	l := make([]any, len(s))
	for i, v := range s {
		l[i] = v
	}
	return l
}
