// SPDX-License-Identifier: GPL-2.0-or-later

package model

import (
	"sync"

	"github.com/pkg/errors"

	"goldsrc/format"
)

var (
	mu      sync.RWMutex
	loaders = make(map[uint32]LoadFunc)
)

// Source provides file contents by name. Loaders use it for files that
// belong to the one being loaded.
type Source interface {
	ReadFile(name string) ([]byte, error)
}

type LoadFunc func(name string, data []byte, src Source) (Model, error)

// ErrUnknownFormat is returned by Load for files no loader is registered for.
var ErrUnknownFormat = errors.New("unknown file format")

func Register(magic uint32, f LoadFunc) {
	mu.Lock()
	defer mu.Unlock()
	loaders[magic] = f
}

// Load reads name from src and hands it to the loader registered for its
// first four bytes.
func Load(src Source, name string) (Model, error) {
	data, err := src.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return Decode(src, name, data)
}

// Decode is Load for files already in memory.
func Decode(src Source, name string, data []byte) (Model, error) {
	magic, err := format.Uint32(data, 0, "magic")
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	mu.RLock()
	f, ok := loaders[magic]
	mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrUnknownFormat, "file %s", name)
	}
	return f(name, data, src)
}
