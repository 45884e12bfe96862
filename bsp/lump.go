// SPDX-License-Identifier: GPL-2.0-or-later

// Package bsp decodes Half-Life (BSP version 30) level files.
package bsp

import (
	"fmt"

	"github.com/pkg/errors"

	"goldsrc/format"
)

const Version = 30

type LumpID int

const (
	LumpEntities LumpID = iota
	LumpPlanes
	LumpTextures
	LumpVertices
	LumpVisibility
	LumpNodes
	LumpTexInfo
	LumpFaces
	LumpLighting
	LumpClipNodes
	LumpLeaves
	LumpMarkSurfaces
	LumpEdges
	LumpSurfaceEdges
	LumpModels
	LumpCount
)

var lumpNames = [LumpCount]string{
	"entities", "planes", "textures", "vertices", "visibility",
	"nodes", "texinfo", "faces", "lighting", "clipnodes",
	"leaves", "marksurfaces", "edges", "surfedges", "models",
}

func (l LumpID) String() string {
	if l >= 0 && l < LumpCount {
		return lumpNames[l]
	}
	return fmt.Sprintf("lump(%d)", int(l))
}

// called lump_t in c
type directory struct {
	Offset int32
	Size   int32
}

type header struct {
	Version int32
	Lumps   [LumpCount]directory
}

// Reader gives access to the lumps of a BSP file held in memory.
type Reader struct {
	name string
	data []byte
	h    header
}

// Open checks the version and reads the lump directory of data.
func Open(data []byte) (*Reader, error) {
	if len(data) < 4 {
		return nil, errors.Wrap(format.ErrBadMagic, "bsp file too short")
	}
	r := &Reader{data: data}
	v, _ := format.Int32(data, 0, "bsp version")
	if v != Version {
		return nil, errors.Wrapf(format.ErrBadMagic, "bsp version %d, want %d", v, Version)
	}
	if err := format.Read(data, 0, &r.h, "bsp header"); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader) Name() string {
	return r.name
}

// SetName records the file name the level was loaded from.
func (r *Reader) SetName(n string) {
	r.name = n
}

// Size returns the length of the underlying buffer.
func (r *Reader) Size() int {
	return len(r.data)
}

// Lump returns the directory entry of a lump.
func (r *Reader) Lump(id LumpID) (offset, length int) {
	if id < 0 || id >= LumpCount {
		return 0, 0
	}
	d := r.h.Lumps[id]
	return int(d.Offset), int(d.Size)
}

// LumpBytes returns the bytes of a lump without copying.
func (r *Reader) LumpBytes(id LumpID) ([]byte, error) {
	if id < 0 || id >= LumpCount {
		return nil, errors.Wrapf(format.ErrOutOfBounds, "unknown lump %d", int(id))
	}
	d := r.h.Lumps[id]
	return format.Range(r.data, int(d.Offset), int(d.Size), "lump "+id.String())
}

// decodeLump decodes all whole records of a lump. Trailing bytes that do
// not form a whole record are ignored.
func decodeLump[T any](r *Reader, id LumpID) ([]T, error) {
	b, err := r.LumpBytes(id)
	if err != nil {
		return nil, err
	}
	return format.DecodeAll[T](b, id.String())
}
