// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"path"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"goldsrc/format"
	"goldsrc/math"
	"goldsrc/math/vec"
)

type Entity struct {
	properties map[string]string
	keys       []string
}

func NewEntity() *Entity {
	return &Entity{properties: make(map[string]string)}
}

// Set stores a property. A repeated key keeps its position and takes the new value.
func (e *Entity) Set(key, value string) {
	if _, ok := e.properties[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.properties[key] = value
}

func (e *Entity) Property(name string) (string, bool) {
	v, ok := e.properties[name]
	return v, ok
}

func (e *Entity) Name() (string, bool) {
	v, ok := e.properties["classname"]
	return v, ok
}

// PropertyNames returns the keys in file order.
func (e *Entity) PropertyNames() []string {
	return append([]string(nil), e.keys...)
}

// Int parses an integer property.
func (e *Entity) Int(name string) (int, bool) {
	v, ok := e.properties[name]
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return i, true
}

// Vec3 parses a property of three space separated numbers, like origin.
func (e *Entity) Vec3(name string) (vec.Vec3, bool) {
	v, ok := e.properties[name]
	if !ok {
		return vec.Vec3{}, false
	}
	f := strings.Fields(v)
	if len(f) != 3 {
		return vec.Vec3{}, false
	}
	var a [3]float32
	for i, s := range f {
		x, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return vec.Vec3{}, false
		}
		a[i] = float32(x)
	}
	return vec.VFromA(a), true
}

// Angle returns the yaw given by the angle property, in [0,360).
func (e *Entity) Angle() (float32, bool) {
	v, ok := e.properties["angle"]
	if !ok {
		return 0, false
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(v), 32)
	if err != nil {
		return 0, false
	}
	return math.AngleMod32(float32(a)), true
}

// ModelIndex returns n for brush model references of the form "*n".
func (e *Entity) ModelIndex() (int, bool) {
	v, ok := e.properties["model"]
	if !ok || !strings.HasPrefix(v, "*") {
		return 0, false
	}
	i, err := strconv.Atoi(v[1:])
	if err != nil {
		return 0, false
	}
	return i, true
}

// WadNames returns the base names of the texture archives listed in the
// wad property, e.g. "halflife.wad" for "\half-life\valve\halflife.wad".
func (e *Entity) WadNames() []string {
	v, ok := e.properties["wad"]
	if !ok {
		return nil
	}
	var names []string
	for _, p := range strings.Split(v, ";") {
		p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
		if p == "" {
			continue
		}
		names = append(names, path.Base(p))
	}
	return names
}

// ParseEntities parses entity text: one token per line, "{" opens an
// entity, "}" closes it and every line in between is a "key" "value" pair.
func ParseEntities(text string) ([]*Entity, error) {
	var es []*Entity
	var cur *Entity
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\x00"))
		switch {
		case line == "":
			continue
		case line == "{":
			if cur != nil {
				return nil, errors.Wrapf(format.ErrSyntax, "line %d: nested {", n+1)
			}
			cur = NewEntity()
		case line == "}":
			if cur == nil {
				return nil, errors.Wrapf(format.ErrSyntax, "line %d: } without {", n+1)
			}
			es = append(es, cur)
			cur = nil
		default:
			if cur == nil {
				return nil, errors.Wrapf(format.ErrSyntax, "line %d: property outside entity", n+1)
			}
			k, v, ok := splitProperty(line)
			if !ok {
				return nil, errors.Wrapf(format.ErrSyntax, "line %d: malformed property %q", n+1, line)
			}
			cur.Set(k, v)
		}
	}
	if cur != nil {
		return nil, errors.Wrap(format.ErrSyntax, "unterminated entity")
	}
	return es, nil
}

func splitProperty(line string) (string, string, bool) {
	if len(line) < 2 || line[0] != '"' || line[len(line)-1] != '"' {
		return "", "", false
	}
	k, v, ok := strings.Cut(line, `" "`)
	if !ok {
		return "", "", false
	}
	return strings.TrimPrefix(k, `"`), strings.TrimSuffix(v, `"`), true
}
