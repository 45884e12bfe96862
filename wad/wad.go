// SPDX-License-Identifier: GPL-2.0-or-later

// Package wad reads WAD3 texture archives.
package wad

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"goldsrc/format"
)

const (
	Magic = 'W' | 'A'<<8 | 'D'<<16 | '3'<<24
)

type Type uint8

const (
	TypeDecal      Type = 0x40
	TypeImage      Type = 0x42 // qpic
	TypeMipTexture Type = 0x43
	TypeFont       Type = 0x46
)

func (t Type) String() string {
	switch t {
	case TypeDecal:
		return "decal"
	case TypeImage:
		return "image"
	case TypeMipTexture:
		return "miptex"
	case TypeFont:
		return "font"
	}
	return fmt.Sprintf("type(0x%02x)", uint8(t))
}

// ErrUnknownType is returned by Open for directory entries of a type other
// than decal, image, mip texture or font.
var ErrUnknownType = errors.New("unknown wad entry type")

type header struct {
	M          [4]byte
	EntryCount uint32
	DirOffset  uint32
}

type lump struct {
	Offset      uint32
	DiskSize    uint32
	Size        uint32
	Typ         byte
	Compression byte
	Dummy       int16
	Name        [16]byte
}

type Entry struct {
	Name       string
	Type       Type
	Compressed bool
	Offset     uint32
	DiskSize   uint32
	Size       uint32
}

type Archive struct {
	name    string
	data    []byte
	entries []Entry
}

// Open parses the directory of a WAD3 file held in data.
func Open(data []byte) (*Archive, error) {
	var h header
	if err := format.Read(data, 0, &h, "wad header"); err != nil {
		return nil, errors.Wrap(format.ErrBadMagic, "wad file too short")
	}
	if h.M != [4]byte{'W', 'A', 'D', '3'} {
		return nil, errors.Wrapf(format.ErrBadMagic, "wad file has id %q, want WAD3", h.M[:])
	}
	lumps, err := format.ReadArray[lump](data, int(h.DirOffset), int(h.EntryCount), "wad directory")
	if err != nil {
		return nil, err
	}
	a := &Archive{
		data:    data,
		entries: make([]Entry, 0, len(lumps)),
	}
	for _, l := range lumps {
		name := format.CString(l.Name[:])
		switch Type(l.Typ) {
		case TypeDecal, TypeImage, TypeMipTexture, TypeFont:
		default:
			return nil, errors.Wrapf(ErrUnknownType, "%s: 0x%02x", name, l.Typ)
		}
		a.entries = append(a.entries, Entry{
			Name:       name,
			Type:       Type(l.Typ),
			Compressed: l.Compression != 0,
			Offset:     l.Offset,
			DiskSize:   l.DiskSize,
			Size:       l.Size,
		})
	}
	return a, nil
}

func (a *Archive) Name() string {
	return a.name
}

// SetName records the file name the archive was loaded from.
func (a *Archive) SetName(n string) {
	a.name = n
}

func (a *Archive) Entries() []Entry {
	return a.entries
}

// Find looks up an entry by name, ignoring case.
func (a *Archive) Find(name string) (*Entry, bool) {
	for i := range a.entries {
		if strings.EqualFold(a.entries[i].Name, name) {
			return &a.entries[i], true
		}
	}
	return nil, false
}

// Data returns the stored bytes of e.
func (a *Archive) Data(e *Entry) ([]byte, error) {
	if e.Compressed {
		return nil, errors.Wrapf(format.ErrUnsupported, "%s: compressed wad entry", e.Name)
	}
	return format.Range(a.data, int(e.Offset), int(e.DiskSize), e.Name)
}
