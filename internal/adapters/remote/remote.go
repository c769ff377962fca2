// Package remote defines the file store seam the ingest pipeline walks.
// Game hosts expose death logs over SFTP; tests and the gated fixture
// fallback use a local directory implementation. Implementations
// translate their native errors so callers can test for missing paths
// and lost connections without knowing the transport
package remote

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"strconv"
	"time"

	perr "killfeed/internal/platform/errors"
)

// ErrConnLost marks transport failures worth one redial
var ErrConnLost = perr.New(perr.ErrorCodeUnavailable, "remote connection lost")

// ErrAuth marks credential rejections. Callers put the host on a
// cooldown instead of redialing every cycle
var ErrAuth = perr.New(perr.ErrorCodeUnauthorized, "remote authentication failed")

// Entry is one directory listing element
type Entry struct {
	Name    string
	Size    int64
	Dir     bool
	ModTime time.Time
}

// FS is a connected remote file store handle
type FS interface {
	// Stat describes path, failing with a not exist error when absent
	Stat(ctx context.Context, path string) (Entry, error)

	// List returns the entries of dir
	List(ctx context.Context, dir string) ([]Entry, error)

	// Open starts a read of the file at path
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Close releases the connection
	Close() error
}

// Dialer opens connections to a remote target
type Dialer interface {
	Dial(ctx context.Context, t Target) (FS, error)
}

// Target identifies one remote host plus credentials
type Target struct {
	Host     string
	Port     int
	User     string
	Password string

	// Timeout caps the TCP and handshake phase of a dial
	Timeout time.Duration
}

// Addr returns host:port, defaulting the sftp port
func (t Target) Addr() string {
	p := t.Port
	if p <= 0 {
		p = 22
	}
	return t.Host + ":" + strconv.Itoa(p)
}

// IsNotExist reports whether err names a missing remote path
func IsNotExist(err error) bool { return errors.Is(err, iofs.ErrNotExist) }

// IsConnLost reports whether err is a lost connection worth a redial
func IsConnLost(err error) bool { return errors.Is(err, ErrConnLost) }

// IsAuth reports whether err is a credential rejection
func IsAuth(err error) bool { return errors.Is(err, ErrAuth) }

// Exists reports whether path is present, treating not exist as false
// rather than an error
func Exists(ctx context.Context, f FS, path string) (bool, error) {
	_, err := f.Stat(ctx, path)
	if err == nil {
		return true, nil
	}
	if IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// IsFile reports whether path exists and is a regular file
func IsFile(ctx context.Context, f FS, path string) (bool, error) {
	e, err := f.Stat(ctx, path)
	if err != nil {
		if IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !e.Dir, nil
}
