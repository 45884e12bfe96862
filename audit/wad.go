// SPDX-License-Identifier: GPL-2.0-or-later

package audit

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"goldsrc/format"
	"goldsrc/model"
	"goldsrc/report"
	"goldsrc/wad"
)

func newWADCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "wad <wad>...",
		Short: "Decode every entry of texture archives",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, n := range args {
				if m, a := s.load(n, model.KindTextures); m != nil {
					a.Fail(auditTextures(m.(*wad.Archive), a))
				}
			}
			return nil
		},
	}
}

// picture is a decoded wad entry.
type picture struct {
	name   string
	width  int
	height int
	rgba   []byte
}

func decodeEntry(w *wad.Archive, e *wad.Entry) (*picture, error) {
	switch e.Type {
	case wad.TypeMipTexture, wad.TypeDecal:
		m, err := w.MipTexture(e)
		if err != nil {
			return nil, err
		}
		px, err := m.RGBA(0)
		if err != nil {
			return nil, err
		}
		return &picture{m.Name, m.Width, m.Height, px}, nil
	case wad.TypeImage:
		i, err := w.Image(e)
		if err != nil {
			return nil, err
		}
		return &picture{i.Name, i.Width, i.Height, i.RGBA()}, nil
	case wad.TypeFont:
		f, err := w.Font(e)
		if err != nil {
			return nil, err
		}
		return &picture{f.Name, f.Width, f.Height, f.RGBA()}, nil
	}
	return nil, errors.Wrapf(wad.ErrUnknownType, "%s: %v", e.Name, e.Type)
}

func auditTextures(w *wad.Archive, a *report.Asset) error {
	es := w.Entries()
	types := make(map[string]any)
	var failed []any
	var first error
	for i := range es {
		e := &es[i]
		k := e.Type.String()
		n, _ := types[k].(int)
		types[k] = n + 1
		if _, err := decodeEntry(w, e); err != nil {
			if errors.Is(err, format.ErrUnsupported) {
				a.Set("compressed", true)
			}
			failed = append(failed, e.Name)
			if first == nil {
				first = errors.Wrap(err, e.Name)
			}
		}
	}
	a.Set("entries", len(es))
	a.Set("types", types)
	if len(failed) > 0 {
		a.Set("failed_entries", failed)
		return errors.Wrapf(first, "%d entries failed", len(failed))
	}
	return nil
}
