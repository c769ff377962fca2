// Package sftp implements the remote file store seam over SFTP.
// Game hosts hand out password credentials only, so host keys are not
// verified; the transport is treated as untrusted file access, not a
// control channel
package sftp

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"net"
	"strings"
	"time"

	sftplib "github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"killfeed/internal/adapters/remote"
	perr "killfeed/internal/platform/errors"
)

// Config tunes dialing
type Config struct {
	// DialTimeout is used when the target carries no timeout of its own
	DialTimeout time.Duration

	// MaxPacket overrides the sftp packet size when positive
	MaxPacket int
}

// Dialer dials SFTP targets
type Dialer struct {
	cfg Config
}

// NewDialer returns an sftp dialer
func NewDialer(cfg Config) *Dialer {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 30 * time.Second
	}
	return &Dialer{cfg: cfg}
}

// Dial connects and performs the ssh and sftp handshakes.
// Credential rejections come back as remote.ErrAuth so callers can put
// the host on cooldown
func (d *Dialer) Dial(ctx context.Context, t remote.Target) (remote.FS, error) {
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = d.cfg.DialTimeout
	}

	clientCfg := &ssh.ClientConfig{
		User:            t.User,
		Auth:            []ssh.AuthMethod{ssh.Password(t.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}

	nd := net.Dialer{Timeout: timeout}
	raw, err := nd.DialContext(ctx, "tcp", t.Addr())
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "dial %s", t.Addr())
	}

	conn, chans, reqs, err := ssh.NewClientConn(raw, t.Addr(), clientCfg)
	if err != nil {
		_ = raw.Close()
		if isAuthErr(err) {
			return nil, fmt.Errorf("ssh %s: %v: %w", t.Addr(), err, remote.ErrAuth)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "ssh handshake %s", t.Addr())
	}
	sshClient := ssh.NewClient(conn, chans, reqs)

	var opts []sftplib.ClientOption
	if d.cfg.MaxPacket > 0 {
		opts = append(opts, sftplib.MaxPacket(d.cfg.MaxPacket))
	}
	cl, err := sftplib.NewClient(sshClient, opts...)
	if err != nil {
		_ = sshClient.Close()
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "sftp handshake %s", t.Addr())
	}

	return &fsImpl{ssh: sshClient, cl: cl}, nil
}

func isAuthErr(err error) bool {
	s := err.Error()
	return strings.Contains(s, "unable to authenticate") ||
		strings.Contains(s, "permission denied")
}

// fsImpl adapts an sftp client to remote.FS. sftp calls take no context,
// so each op runs on its own goroutine and the caller is released as soon
// as its context expires; the abandoned op dies with the connection
type fsImpl struct {
	ssh *ssh.Client
	cl  *sftplib.Client
}

func (f *fsImpl) run(ctx context.Context, op func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- op() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// the op goroutine finishes against the buffered channel
		_ = f.Close()
		return ctx.Err()
	}
}

// Stat implements remote.FS
func (f *fsImpl) Stat(ctx context.Context, path string) (remote.Entry, error) {
	var e remote.Entry
	err := f.run(ctx, func() error {
		fi, err := f.cl.Stat(path)
		if err != nil {
			return translate(err, path)
		}
		e = remote.Entry{Name: fi.Name(), Size: fi.Size(), Dir: fi.IsDir(), ModTime: fi.ModTime()}
		return nil
	})
	return e, err
}

// List implements remote.FS
func (f *fsImpl) List(ctx context.Context, dir string) ([]remote.Entry, error) {
	var out []remote.Entry
	err := f.run(ctx, func() error {
		fis, err := f.cl.ReadDir(dir)
		if err != nil {
			return translate(err, dir)
		}
		out = make([]remote.Entry, 0, len(fis))
		for _, fi := range fis {
			out = append(out, remote.Entry{
				Name:    fi.Name(),
				Size:    fi.Size(),
				Dir:     fi.IsDir(),
				ModTime: fi.ModTime(),
			})
		}
		return nil
	})
	return out, err
}

// Open implements remote.FS. The returned reader is not bound to ctx;
// callers read promptly under their own deadline
func (f *fsImpl) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	var rc io.ReadCloser
	err := f.run(ctx, func() error {
		fh, err := f.cl.Open(path)
		if err != nil {
			return translate(err, path)
		}
		rc = fh
		return nil
	})
	return rc, err
}

// Close implements remote.FS
func (f *fsImpl) Close() error {
	cerr := f.cl.Close()
	serr := f.ssh.Close()
	if cerr != nil {
		return cerr
	}
	return serr
}

// translate maps sftp errors onto the remote package sentinels
func translate(err error, path string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, iofs.ErrNotExist) || errors.Is(err, sftplib.ErrSSHFxNoSuchFile):
		return fmt.Errorf("%s: %w", path, iofs.ErrNotExist)
	case errors.Is(err, io.EOF),
		errors.Is(err, sftplib.ErrSSHFxConnectionLost),
		errors.Is(err, sftplib.ErrSSHFxNoConnection):
		return fmt.Errorf("%s: %v: %w", path, err, remote.ErrConnLost)
	default:
		return fmt.Errorf("%s: %w", path, err)
	}
}
