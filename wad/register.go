// SPDX-License-Identifier: GPL-2.0-or-later

package wad

import (
	"goldsrc/model"
)

func init() {
	model.Register(Magic, load)
}

func (a *Archive) Kind() model.Kind {
	return model.KindTextures
}

func load(name string, data []byte, _ model.Source) (model.Model, error) {
	a, err := Open(data)
	if err != nil {
		return nil, err
	}
	a.SetName(name)
	return a, nil
}
