// SPDX-License-Identifier: GPL-2.0-or-later

// Package pack reads PACK archives, the flat file containers that game
// directories may hold next to loose files.
package pack

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"

	"goldsrc/format"
)

type header struct {
	ID     [4]byte
	Offset int32
	Size   int32
}

type entry struct {
	Name   [56]byte
	Offset int32
	Size   int32
}

const entrySize = 64

type Pack struct {
	r     io.ReaderAt
	c     io.Closer
	files map[string]*qfile
	name  string
}

type qfile struct {
	offset int64
	size   int64
}

// Open returns a io.SectionReader or os.ErrNotExist if the pak has no entry
// with the provided name.
func (p *Pack) Open(name string) (*io.SectionReader, error) {
	q, ok := p.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}

	return io.NewSectionReader(p.r, q.offset, q.size), nil
}

// Names returns the sorted names of all entries.
func (p *Pack) Names() []string {
	names := make([]string, 0, len(p.files))
	for n := range p.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (p *Pack) String() string {
	return p.name
}

func (p *Pack) Close() error {
	if p.c == nil {
		return nil
	}
	return p.c.Close()
}

func (p *Pack) init(size int64) error {
	var h header
	if err := binary.Read(io.NewSectionReader(p.r, 0, size), binary.LittleEndian, &h); err != nil {
		return errors.Wrap(format.ErrOutOfBounds, "pack header")
	}
	if !bytes.Equal([]byte("PACK"), h.ID[:]) {
		return errors.Wrapf(format.ErrBadMagic, "%s: not a pack", p.name)
	}
	if h.Offset < 0 || h.Size < 0 || int64(h.Offset)+int64(h.Size) > size {
		return format.OutOfBounds("pack directory", int(h.Offset), int(h.Size), int(size))
	}
	filenum := h.Size / entrySize
	dir := io.NewSectionReader(p.r, int64(h.Offset), int64(filenum)*entrySize)
	p.files = make(map[string]*qfile, filenum)
	for i := int32(0); i < filenum; i++ {
		var e entry
		if err := binary.Read(dir, binary.LittleEndian, &e); err != nil {
			return errors.Wrapf(err, "%s: entry %d", p.name, i)
		}
		name := format.CString(e.Name[:])
		if p.files[name] != nil {
			return errors.Errorf("%s: files in pack are not unique: %s", p.name, name)
		}
		if e.Offset < 0 || e.Size < 0 || int64(e.Offset)+int64(e.Size) > size {
			return format.OutOfBounds(name, int(e.Offset), int(e.Size), int(size))
		}
		p.files[name] = &qfile{
			offset: int64(e.Offset),
			size:   int64(e.Size),
		}
	}
	return nil
}

// NewPack reads the directory of a pack of the given size from r.
func NewPack(r io.ReaderAt, size int64, name string) (*Pack, error) {
	p := &Pack{r: r, name: name}
	if err := p.init(size); err != nil {
		return nil, err
	}
	return p, nil
}

func NewPackReader(name string) (*Pack, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	p, err := NewPack(f, fi.Size(), name)
	if err != nil {
		f.Close()
		return nil, err
	}
	p.c = f
	return p, nil
}

// Write stores files as a pack. Entries are written in name order.
func Write(w io.Writer, files map[string][]byte) error {
	names := make([]string, 0, len(files))
	for n := range files {
		if len(n) >= len(entry{}.Name) {
			return errors.Errorf("pack entry name too long: %s", n)
		}
		names = append(names, n)
	}
	sort.Strings(names)
	off := int32(binary.Size(header{}))
	var data bytes.Buffer
	dir := make([]entry, len(names))
	for i, n := range names {
		copy(dir[i].Name[:], n)
		dir[i].Offset = off + int32(data.Len())
		dir[i].Size = int32(len(files[n]))
		data.Write(files[n])
	}
	h := header{
		ID:     [4]byte{'P', 'A', 'C', 'K'},
		Offset: off + int32(data.Len()),
		Size:   int32(len(dir) * entrySize),
	}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return err
	}
	if _, err := w.Write(data.Bytes()); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, dir)
}
