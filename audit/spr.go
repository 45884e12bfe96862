// SPDX-License-Identifier: GPL-2.0-or-later

package audit

import (
	"github.com/spf13/cobra"

	"goldsrc/model"
	"goldsrc/report"
	"goldsrc/spr"
)

func newSPRCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "spr <sprite>...",
		Short: "Decode sprites",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, n := range args {
				if m, a := s.load(n, model.KindSprite); m != nil {
					auditSprite(m.(*spr.Sprite), a)
				}
			}
			return nil
		},
	}
}

func auditSprite(sp *spr.Sprite, a *report.Asset) {
	a.Set("orientation", sp.Orientation.String())
	a.Set("texture_format", sp.TextureFormat.String())
	a.Set("groups", len(sp.Groups))
	a.Set("frames", len(sp.Frames()))
	a.Set("max_size", []any{sp.MaxWidth, sp.MaxHeight})
}
