// SPDX-License-Identifier: GPL-2.0-or-later

package wad

import (
	stderrors "errors"
	"log/slog"

	"github.com/pkg/errors"
)

// Source provides file contents by name, e.g. a filesystem.FS.
type Source interface {
	ReadFile(name string) ([]byte, error)
}

// Resolver finds mip textures by name.
type Resolver interface {
	MipTexture(name string) (*MipTexture, error)
}

// ErrNotFound is returned by Collection.MipTexture for unknown names.
var ErrNotFound = errors.New("texture not found")

// Collection searches a list of archives in order.
type Collection []*Archive

// Find returns the first entry called name.
func (c Collection) Find(name string) (*Archive, *Entry, bool) {
	for _, a := range c {
		if e, ok := a.Find(name); ok {
			return a, e, true
		}
	}
	return nil, nil, false
}

func (c Collection) MipTexture(name string) (*MipTexture, error) {
	a, e, ok := c.Find(name)
	if !ok {
		return nil, errors.Wrap(ErrNotFound, name)
	}
	return a.MipTexture(e)
}

// LoadCollection opens the named archives from src. Archives that cannot be
// read are left out; their errors are returned together.
func LoadCollection(src Source, names []string) (Collection, error) {
	var c Collection
	var errs []error
	for _, n := range names {
		data, err := src.ReadFile(n)
		if err != nil {
			slog.Warn("Could not read wad", "name", n, "err", err)
			errs = append(errs, errors.Wrap(err, n))
			continue
		}
		a, err := Open(data)
		if err != nil {
			slog.Warn("Could not open wad", "name", n, "err", err)
			errs = append(errs, errors.Wrap(err, n))
			continue
		}
		a.SetName(n)
		c = append(c, a)
	}
	return c, stderrors.Join(errs...)
}
