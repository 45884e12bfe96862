// SPDX-License-Identifier: GPL-2.0-or-later

package audit

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"goldsrc/bsp"
	"goldsrc/filesystem"
	"goldsrc/mdl"
	"goldsrc/model"
	"goldsrc/report"
	"goldsrc/spr"
	"goldsrc/wad"
)

var scanKinds = map[string]string{
	".bsp": model.KindLevel.String(),
	".wad": model.KindTextures.String(),
	".mdl": model.KindStudio.String(),
	".spr": model.KindSprite.String(),
}

func newScanCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Check every level, texture archive, model and sprite of the search path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := s.fs.Names()
			if err != nil {
				return err
			}
			for _, n := range names {
				kind, ok := scanKinds[strings.ToLower(filesystem.Ext(n))]
				if !ok {
					continue
				}
				data, err := s.fs.ReadFile(n)
				if err != nil {
					s.rep.Add(n, kind).Fail(err)
					continue
				}
				m, err := model.Decode(s.fs, n, data)
				if errors.Is(err, model.ErrUnknownFormat) {
					// e.g. the sequence group files of studio models
					s.log.Debug("Skipping", "file", n)
					continue
				}
				a := s.rep.Add(n, kind)
				checksum(a, data)
				if err != nil {
					a.Fail(err)
					continue
				}
				a.Fail(auditModel(s.fs, m, a))
			}
			return nil
		},
	}
}

func auditModel(src wad.Source, m model.Model, a *report.Asset) error {
	a.Kind = m.Kind().String()
	switch m := m.(type) {
	case *bsp.Reader:
		return auditLevel(src, m, a)
	case *wad.Archive:
		return auditTextures(m, a)
	case *mdl.File:
		return auditStudio(m, a)
	case *spr.Sprite:
		auditSprite(m, a)
		return nil
	}
	return errors.Errorf("%s: no audit for %v", m.Name(), m.Kind())
}
