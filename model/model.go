// SPDX-License-Identifier: GPL-2.0-or-later

// Package model opens asset files of any registered format by their magic.
package model

type Kind int

const (
	KindLevel    Kind = iota // bsp
	KindTextures             // wad
	KindStudio               // mdl
	KindSprite               // spr
)

func (k Kind) String() string {
	switch k {
	case KindLevel:
		return "level"
	case KindTextures:
		return "textures"
	case KindStudio:
		return "studio model"
	case KindSprite:
		return "sprite"
	}
	return "unknown"
}

type Model interface {
	Name() string
	Kind() Kind
}
