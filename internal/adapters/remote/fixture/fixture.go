// Package fixture serves a local directory through the remote file store
// seam. It backs the explicitly gated fixture fallback for diagnostic
// deployments and doubles as the file store fake in tests. It never
// participates in discovery unless the operator turned it on
package fixture

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"killfeed/internal/adapters/remote"
)

// FS exposes a directory tree rooted at a local path
type FS struct {
	root string
}

// New returns a fixture FS rooted at root
func New(root string) *FS { return &FS{root: root} }

// Dialer returns the fixture tree for every target
type Dialer struct {
	Root string
}

// Dial implements remote.Dialer
func (d Dialer) Dial(_ context.Context, _ remote.Target) (remote.FS, error) {
	return New(d.Root), nil
}

// resolve maps a remote style absolute path into the root. Cleaning the
// anchored path first means traversal segments can never escape the root
func (f *FS) resolve(p string) string {
	clean := filepath.Clean("/" + strings.TrimPrefix(p, "/"))
	return filepath.Join(f.root, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
}

// Stat implements remote.FS
func (f *FS) Stat(_ context.Context, path string) (remote.Entry, error) {
	fi, err := os.Stat(f.resolve(path))
	if err != nil {
		return remote.Entry{}, err
	}
	return remote.Entry{Name: fi.Name(), Size: fi.Size(), Dir: fi.IsDir(), ModTime: fi.ModTime()}, nil
}

// List implements remote.FS
func (f *FS) List(_ context.Context, dir string) ([]remote.Entry, error) {
	des, err := os.ReadDir(f.resolve(dir))
	if err != nil {
		return nil, err
	}
	out := make([]remote.Entry, 0, len(des))
	for _, de := range des {
		fi, err := de.Info()
		if err != nil {
			continue
		}
		out = append(out, remote.Entry{Name: de.Name(), Size: fi.Size(), Dir: de.IsDir(), ModTime: fi.ModTime()})
	}
	return out, nil
}

// Open implements remote.FS
func (f *FS) Open(_ context.Context, path string) (io.ReadCloser, error) {
	return os.Open(f.resolve(path))
}

// Close implements remote.FS
func (f *FS) Close() error { return nil }
