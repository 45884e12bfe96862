// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"goldsrc/model"
)

func init() {
	// levels start with their version instead of a magic
	model.Register(Version, load)
}

func (r *Reader) Kind() model.Kind {
	return model.KindLevel
}

func load(name string, data []byte, _ model.Source) (model.Model, error) {
	r, err := Open(data)
	if err != nil {
		return nil, err
	}
	r.SetName(name)
	return r, nil
}
