// SPDX-License-Identifier: GPL-2.0-or-later

package audit

import (
	"github.com/spf13/cobra"

	"goldsrc/mdl"
	"goldsrc/model"
	"goldsrc/report"
)

func newMDLCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "mdl <model>...",
		Short: "Decode studio models, their animations and skeletons",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, n := range args {
				if m, a := s.load(n, model.KindStudio); m != nil {
					a.Fail(auditStudio(m.(*mdl.File), a))
				}
			}
			return nil
		},
	}
}

// auditStudio resolves the bind pose and the first frame of every local
// sequence and checks all mesh references.
func auditStudio(f *mdl.File, a *report.Asset) error {
	bones, err := f.Bones()
	if err != nil {
		return err
	}
	a.Set("bones", len(bones))
	if _, err := mdl.ResolveSkeleton(bones); err != nil {
		return err
	}
	seqs, err := f.Sequences()
	if err != nil {
		return err
	}
	a.Set("sequences", len(seqs))
	anims, err := f.Animations()
	if err != nil {
		return err
	}
	a.Set("animations", len(anims))
	var length float32
	for _, an := range anims {
		length += an.Duration()
		if _, err := mdl.ResolvePose(bones, an.Pose(bones, 0)); err != nil {
			return err
		}
	}
	a.Set("animation_seconds", length)

	parts, err := f.BodyParts()
	if err != nil {
		return err
	}
	models, tris := 0, 0
	for _, p := range parts {
		for _, m := range p.Models {
			models++
			if err := m.Validate(); err != nil {
				return err
			}
			for _, mesh := range m.Meshes {
				tris += len(mesh.Triangles())
			}
		}
	}
	a.Set("body_parts", len(parts))
	a.Set("models", models)
	a.Set("triangles", tris)

	texs, err := f.Textures()
	if err != nil {
		return err
	}
	a.Set("textures", len(texs))
	skins, err := f.SkinFamilies()
	if err != nil {
		return err
	}
	a.Set("skin_families", len(skins))
	return nil
}
