package remote

import (
	"context"
	"io"
	"sync"

	"killfeed/internal/platform/logger"
)

// Session reuses one connection per server per run and hides the
// reconnect once policy: an op failing with a lost connection is retried
// exactly once on a fresh dial before the path is abandoned
type Session struct {
	dialer Dialer
	target Target
	log    logger.Logger

	mu sync.Mutex
	fs FS
}

// NewSession wraps a dialer and target without dialing yet
func NewSession(d Dialer, t Target, log logger.Logger) *Session {
	return &Session{dialer: d, target: t, log: log}
}

// Target returns the session's dial target
func (s *Session) Target() Target { return s.target }

// handle returns the live connection, dialing on first use
func (s *Session) handle(ctx context.Context) (FS, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fs != nil {
		return s.fs, nil
	}
	f, err := s.dialer.Dial(ctx, s.target)
	if err != nil {
		return nil, err
	}
	s.fs = f
	return f, nil
}

// Reset drops the current connection so the next op dials fresh
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fs != nil {
		_ = s.fs.Close()
		s.fs = nil
	}
}

// Close releases the connection if one is open
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fs == nil {
		return nil
	}
	err := s.fs.Close()
	s.fs = nil
	return err
}

// Do runs fn against the live connection, redialing once when the first
// attempt reports a lost connection. Auth failures are never retried
func (s *Session) Do(ctx context.Context, fn func(FS) error) error {
	f, err := s.handle(ctx)
	if err != nil {
		return err
	}
	err = fn(f)
	if err == nil || !IsConnLost(err) {
		return err
	}

	s.log.Debug().Str("host", s.target.Host).Msg("remote connection lost, redialing once")
	s.Reset()
	f, derr := s.handle(ctx)
	if derr != nil {
		return derr
	}
	return fn(f)
}

// Stat implements FS under the session's redial policy
func (s *Session) Stat(ctx context.Context, path string) (Entry, error) {
	var e Entry
	err := s.Do(ctx, func(f FS) error {
		var err error
		e, err = f.Stat(ctx, path)
		return err
	})
	return e, err
}

// List implements FS under the session's redial policy
func (s *Session) List(ctx context.Context, dir string) ([]Entry, error) {
	var es []Entry
	err := s.Do(ctx, func(f FS) error {
		var err error
		es, err = f.List(ctx, dir)
		return err
	})
	return es, err
}

// Open implements FS under the session's redial policy. The returned
// reader is bound to the connection that produced it; a mid read drop
// surfaces to the caller rather than redialing
func (s *Session) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	var rc io.ReadCloser
	err := s.Do(ctx, func(f FS) error {
		var err error
		rc, err = f.Open(ctx, path)
		return err
	})
	return rc, err
}
