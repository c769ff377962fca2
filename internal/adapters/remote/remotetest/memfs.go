// Package remotetest provides an in memory remote.FS for exercising
// discovery and pipeline code without a live host
package remotetest

import (
	"bytes"
	"context"
	"io"
	iofs "io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"killfeed/internal/adapters/remote"
)

// MemFS is a map backed remote.FS. Files are registered with Put;
// directories materialize implicitly from the paths above each file.
// Error injection maps and op counters support behavior assertions
type MemFS struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool

	// FailStat, FailList and FailOpen map a path to the error its op
	// should return instead of succeeding
	FailStat map[string]error
	FailList map[string]error
	FailOpen map[string]error

	Stats  int
	Lists  int
	Opens  int
	Closed bool
}

// New returns an empty MemFS
func New() *MemFS {
	return &MemFS{files: map[string][]byte{}, dirs: map[string]bool{}}
}

// Put registers a file at p with the given content, creating every
// directory above it
func (m *MemFS) Put(p string, content []byte) *MemFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = clean(p)
	m.files[p] = content
	for d := path.Dir(p); d != "/"; d = path.Dir(d) {
		m.dirs[d] = true
	}
	return m
}

// MkDir registers an empty directory at p
func (m *MemFS) MkDir(p string) *MemFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	for d := clean(p); d != "/"; d = path.Dir(d) {
		m.dirs[d] = true
	}
	return m
}

func clean(p string) string { return path.Clean("/" + strings.TrimPrefix(p, "/")) }

func notExist(op, p string) error {
	return &iofs.PathError{Op: op, Path: p, Err: iofs.ErrNotExist}
}

// Stat implements remote.FS
func (m *MemFS) Stat(_ context.Context, p string) (remote.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stats++
	p = clean(p)
	if err, ok := m.FailStat[p]; ok {
		return remote.Entry{}, err
	}
	if b, ok := m.files[p]; ok {
		return remote.Entry{Name: path.Base(p), Size: int64(len(b))}, nil
	}
	if p == "/" || m.dirs[p] {
		return remote.Entry{Name: path.Base(p), Dir: true}, nil
	}
	return remote.Entry{}, notExist("stat", p)
}

// List implements remote.FS
func (m *MemFS) List(_ context.Context, dir string) ([]remote.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lists++
	dir = clean(dir)
	if err, ok := m.FailList[dir]; ok {
		return nil, err
	}
	if dir != "/" && !m.dirs[dir] {
		return nil, notExist("readdir", dir)
	}

	seen := map[string]remote.Entry{}
	collect := func(p string, isDir bool, size int64) {
		rest := strings.TrimPrefix(p, strings.TrimSuffix(dir, "/")+"/")
		if rest == p || rest == "" {
			return
		}
		name, _, nested := strings.Cut(rest, "/")
		if nested {
			seen[name] = remote.Entry{Name: name, Dir: true}
			return
		}
		seen[name] = remote.Entry{Name: name, Dir: isDir, Size: size}
	}
	for p, b := range m.files {
		collect(p, false, int64(len(b)))
	}
	for p := range m.dirs {
		collect(p, true, 0)
	}

	out := make([]remote.Entry, 0, len(seen))
	for _, e := range seen {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Open implements remote.FS
func (m *MemFS) Open(_ context.Context, p string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Opens++
	p = clean(p)
	if err, ok := m.FailOpen[p]; ok {
		return nil, err
	}
	b, ok := m.files[p]
	if !ok {
		return nil, notExist("open", p)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

// Close implements remote.FS
func (m *MemFS) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}
