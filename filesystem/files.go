// SPDX-License-Identifier: GPL-2.0-or-later

// Package filesystem resolves asset names against a search path of game
// directories and the PACK archives inside them.
package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	pathpkg "path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/tools/godoc/vfs"

	"goldsrc/pack"
)

type File interface {
	io.ReadSeekCloser
	io.ReaderAt
}

type packFileSystem struct {
	p *pack.Pack
}

type closer struct {
	*io.SectionReader
}

func (*closer) Close() error {
	return nil
}

type fileInfo struct {
	name string // base name of the file
	size int64  // length in bytes for regular files; system-dependent for others
	dir  bool
}

func (f *fileInfo) Name() string {
	return f.name
}
func (f *fileInfo) Size() int64 {
	return f.size
}
func (f *fileInfo) Mode() fs.FileMode {
	if f.dir {
		return fs.ModeDir
	}
	return 0
}
func (f *fileInfo) ModTime() time.Time {
	return time.Time{}
}
func (f *fileInfo) IsDir() bool {
	return f.dir
}
func (f *fileInfo) Sys() any {
	return nil
}

func (p packFileSystem) Open(path string) (vfs.ReadSeekCloser, error) {
	// inside a pack file there is no 'root'. all files are relative to '.'
	path = strings.TrimPrefix(path, "/")
	f, err := p.p.Open(path)
	if err != nil {
		return nil, err
	}
	return &closer{f}, nil
}

func (p packFileSystem) Stat(path string) (os.FileInfo, error) {
	path = strings.TrimPrefix(path, "/")
	f, err := p.p.Open(path)
	if err != nil {
		return nil, err
	}
	return &fileInfo{
		name: filepath.Base(path),
		size: f.Size(),
	}, nil
}

func (p packFileSystem) Lstat(path string) (os.FileInfo, error) {
	return p.Stat(path)
}

// ReadDir lists the entries directly below path. Directories are implied
// by the slashes in the entry names.
func (p packFileSystem) ReadDir(path string) ([]os.FileInfo, error) {
	prefix := strings.Trim(path, "/")
	if prefix != "" {
		prefix += "/"
	}
	var fis []os.FileInfo
	seen := make(map[string]bool)
	for _, n := range p.p.Names() {
		rest, ok := strings.CutPrefix(n, prefix)
		if !ok {
			continue
		}
		name, _, dir := strings.Cut(rest, "/")
		if seen[name] {
			continue
		}
		seen[name] = true
		fi := &fileInfo{name: name, dir: dir}
		if !dir {
			f, err := p.p.Open(n)
			if err != nil {
				return nil, err
			}
			fi.size = f.Size()
		}
		fis = append(fis, fi)
	}
	if len(fis) == 0 && prefix != "" {
		return nil, os.ErrNotExist
	}
	return fis, nil
}

func (p packFileSystem) RootType(path string) vfs.RootType {
	return ""
}

func (p packFileSystem) String() string {
	return p.p.String()
}

// FS is a search path. Directories added later take priority, and within
// a directory its pak files take priority over loose files.
type FS struct {
	ns    vfs.NameSpace
	dirs  []string
	packs []*pack.Pack
}

func New() *FS {
	return &FS{ns: vfs.NameSpace{}}
}

// NewGame builds the search path of a game installation: base/valve, or
// another base game directory, followed by the mod directory if set.
func NewGame(base, game, mod string) (*FS, error) {
	f := New()
	if err := f.AddDir(filepath.Join(base, game)); err != nil {
		return nil, err
	}
	if mod != "" && mod != game {
		if err := f.AddDir(filepath.Join(base, mod)); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// AddDir puts dir and its pak0.pak, pak1.pak, ... in front of the search path.
func (f *FS) AddDir(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return errors.Errorf("%s is not a directory", dir)
	}
	mode := vfs.BindBefore
	if len(f.dirs) == 0 {
		mode = vfs.BindReplace
	}
	f.ns.Bind("/", vfs.OS(dir), "/", mode)
	f.dirs = append(f.dirs, dir)
	for i := 0; ; i++ {
		pfp := filepath.Join(dir, fmt.Sprintf("pak%d.pak", i))
		p, err := pack.NewPackReader(pfp)
		if errors.Is(err, os.ErrNotExist) {
			break
		}
		if err != nil {
			slog.Warn("Could not open pak", "pak", pfp, "err", err)
			break
		}
		f.AddPack(p)
	}
	return nil
}

// AddPack puts p in front of the search path. The FS closes it on Close.
func (f *FS) AddPack(p *pack.Pack) {
	mode := vfs.BindBefore
	if len(f.dirs) == 0 && len(f.packs) == 0 {
		mode = vfs.BindReplace
	}
	f.ns.Bind("/", packFileSystem{p}, "/", mode)
	f.packs = append(f.packs, p)
}

// Dirs returns the directories of the search path, lowest priority first.
func (f *FS) Dirs() []string {
	return append([]string(nil), f.dirs...)
}

// Packs returns the pak files of the search path, lowest priority first.
func (f *FS) Packs() []*pack.Pack {
	return append([]*pack.Pack(nil), f.packs...)
}

// Names lists every file of the search path once, sorted. Pak files are
// listed by their contents.
func (f *FS) Names() ([]string, error) {
	if len(f.dirs) == 0 && len(f.packs) == 0 {
		return nil, nil
	}
	var names []string
	var walk func(dir string) error
	walk = func(dir string) error {
		fis, err := f.ns.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, fi := range fis {
			p := pathpkg.Join(dir, fi.Name())
			if fi.IsDir() {
				if err := walk(p); err != nil {
					return err
				}
				continue
			}
			if strings.EqualFold(Ext(p), ".pak") {
				continue
			}
			names = append(names, strings.TrimPrefix(p, "/"))
		}
		return nil
	}
	if err := walk("/"); err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (f *FS) Close() error {
	var err error
	for _, p := range f.packs {
		if cerr := p.Close(); err == nil {
			err = cerr
		}
	}
	f.packs = nil
	f.ns = vfs.NameSpace{}
	f.dirs = nil
	return err
}

func (f *FS) Stat(name string) (os.FileInfo, error) {
	return f.ns.Stat(cleanName(name))
}

func cleanName(name string) string {
	return "/" + strings.TrimPrefix(filepath.ToSlash(name), "/")
}

func (f *FS) Open(name string) (File, error) {
	nf, err := f.ns.Open(cleanName(name))
	if err != nil {
		return nil, err
	}
	file, ok := nf.(File)
	if !ok {
		nf.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}

func (f *FS) ReadFile(name string) ([]byte, error) {
	return vfs.ReadFile(f.ns, cleanName(name))
}

func isSep(c uint8) bool {
	return c == '/' || c == '\\'
}

func Ext(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}

func StripExt(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[:i]
		}
	}
	return path
}
