// SPDX-License-Identifier: GPL-2.0-or-later

// Package report collects what the audit commands found in a set of assets
// and writes it as a protobuf Struct.
package report

import (
	"bytes"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/DataDog/zstd"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Asset is the audit result of a single file.
type Asset struct {
	Name  string
	Kind  string
	Err   string
	Stats map[string]any
}

// Set records a statistic. Values must be representable in a structpb.Value.
func (a *Asset) Set(key string, v any) {
	if a.Stats == nil {
		a.Stats = make(map[string]any)
	}
	a.Stats[key] = v
}

// Fail records err as the reason the asset could not be audited.
func (a *Asset) Fail(err error) {
	if err != nil {
		a.Err = err.Error()
	}
}

type Report struct {
	RunID   uuid.UUID
	Started time.Time
	Command string

	mu     sync.Mutex
	assets []*Asset
}

func New(command string) (*Report, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	return &Report{
		RunID:   id,
		Started: time.Now().UTC(),
		Command: command,
	}, nil
}

// Add starts a new asset entry and returns it for the caller to fill.
func (r *Report) Add(name, kind string) *Asset {
	a := &Asset{Name: name, Kind: kind}
	r.mu.Lock()
	r.assets = append(r.assets, a)
	r.mu.Unlock()
	return a
}

// Assets returns the entries sorted by name.
func (r *Report) Assets() []*Asset {
	r.mu.Lock()
	as := append([]*Asset(nil), r.assets...)
	r.mu.Unlock()
	sort.SliceStable(as, func(i, j int) bool { return as[i].Name < as[j].Name })
	return as
}

// Failed returns the number of assets with an error.
func (r *Report) Failed() int {
	n := 0
	for _, a := range r.Assets() {
		if a.Err != "" {
			n++
		}
	}
	return n
}

func (r *Report) Struct() (*structpb.Struct, error) {
	as := r.Assets()
	list := make([]any, 0, len(as))
	for _, a := range as {
		m := map[string]any{
			"name": a.Name,
			"kind": a.Kind,
		}
		if a.Err != "" {
			m["error"] = a.Err
		}
		if len(a.Stats) > 0 {
			m["stats"] = a.Stats
		}
		list = append(list, m)
	}
	s, err := structpb.NewStruct(map[string]any{
		"run_id":  r.RunID.String(),
		"started": r.Started.Format(time.RFC3339),
		"command": r.Command,
		"failed":  r.Failed(),
		"assets":  list,
	})
	if err != nil {
		return nil, errors.Wrap(err, "building report")
	}
	return s, nil
}

type Encoding int

const (
	JSON Encoding = iota
	Binary
)

// Options select how Encode serializes a report.
type Options struct {
	Encoding Encoding
	Compress bool
	Level    int
}

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

func (r *Report) Encode(o Options) ([]byte, error) {
	s, err := r.Struct()
	if err != nil {
		return nil, err
	}
	var out []byte
	switch o.Encoding {
	case JSON:
		out, err = protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
	case Binary:
		out, err = proto.Marshal(s)
	default:
		return nil, errors.Errorf("unknown report encoding %d", o.Encoding)
	}
	if err != nil {
		return nil, errors.Wrap(err, "encoding report")
	}
	if !o.Compress {
		return out, nil
	}
	lvl := o.Level
	if lvl == 0 {
		lvl = zstd.DefaultCompression
	}
	c, err := zstd.CompressLevel(nil, out, lvl)
	if err != nil {
		return nil, errors.Wrap(err, "compressing report")
	}
	return c, nil
}

func (r *Report) Save(name string, o Options) error {
	out, err := r.Encode(o)
	if err != nil {
		return err
	}
	if err := os.WriteFile(name, out, 0660); err != nil {
		return errors.Wrap(err, "failed to write report")
	}
	return nil
}

// Decode reads a report written by Encode in any of its forms.
func Decode(data []byte) (*structpb.Struct, error) {
	if bytes.HasPrefix(data, zstdMagic) {
		d, err := zstd.Decompress(nil, data)
		if err != nil {
			return nil, errors.Wrap(err, "decompressing report")
		}
		data = d
	}
	s := &structpb.Struct{}
	if t := bytes.TrimSpace(data); len(t) > 0 && t[0] == '{' {
		if err := protojson.Unmarshal(data, s); err != nil {
			return nil, errors.Wrap(err, "failed to decode report")
		}
		return s, nil
	}
	if err := proto.Unmarshal(data, s); err != nil {
		return nil, errors.Wrap(err, "failed to decode report")
	}
	return s, nil
}

func Load(name string) (*structpb.Struct, error) {
	in, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return Decode(in)
}
