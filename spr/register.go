// SPDX-License-Identifier: GPL-2.0-or-later

package spr

import (
	"goldsrc/model"
)

func init() {
	model.Register(Magic, load)
}

func (s *Sprite) Kind() model.Kind {
	return model.KindSprite
}

func load(name string, data []byte, _ model.Source) (model.Model, error) {
	s, err := Open(data)
	if err != nil {
		return nil, err
	}
	s.SetName(name)
	return s, nil
}
