// SPDX-License-Identifier: GPL-2.0-or-later

package mdl

import (
	"goldsrc/model"
)

func init() {
	model.Register(Magic, load)
}

func (f *File) Kind() model.Kind {
	return model.KindStudio
}

func load(name string, data []byte, src model.Source) (model.Model, error) {
	f, err := decode(src, name, data)
	if err != nil {
		return nil, err
	}
	return f, nil
}
