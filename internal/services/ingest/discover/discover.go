// Package discover locates death log files under uncertain remote
// layouts. Game hosts disagree about where exports live, so discovery
// is an ordered list of independent strategies: the canonical layout,
// alternate bases, a bounded recursive walk and a synthetic filename
// probe. The first strategy to produce files wins and exhaustion is an
// empty result, never an error
package discover

import (
	"context"
	"sort"
	"strings"
	"time"

	"killfeed/internal/adapters/remote"
	"killfeed/internal/adapters/remote/fixture"
	"killfeed/internal/core/logname"
	perr "killfeed/internal/platform/errors"
	"killfeed/internal/platform/logger"
	"killfeed/internal/services/ingest/domain"
)

// DefaultFutureSlack tolerates mild clock skew before a filename dated
// ahead of now is excluded
const DefaultFutureSlack = time.Hour

// Result is one discovery outcome. Source is the store the files must
// be read from: the remote handle normally, the fixture store when the
// gated fallback served them
type Result struct {
	Files    []domain.LogFile
	Source   remote.FS
	Strategy string
}

// Options configures optional locator behavior
type Options struct {
	// FixtureDir serves local files when every remote strategy comes up
	// empty. Diagnostic deployments only; inert unless Enabled too
	FixtureDir string

	// FixtureEnabled arms the fixture fallback
	FixtureEnabled bool
}

// Locator runs the discovery strategies in priority order
type Locator struct {
	strategies []Strategy
	fix        remote.FS
	log        logger.Logger
}

// New builds a locator with the standard strategy order
func New(log logger.Logger, opts Options) *Locator {
	l := &Locator{strategies: Strategies(), log: log}
	if opts.FixtureEnabled && opts.FixtureDir != "" {
		l.fix = fixture.New(opts.FixtureDir)
	}
	return l
}

// Find runs the strategies against fs and returns the first non empty
// result sorted ascending by embedded timestamp. Parent traversal in
// the plan is refused outright. Authentication failures and connections
// lost past the redial abort the search so the caller can skip the
// server; any other strategy failure is logged and the next one tried
func (l *Locator) Find(ctx context.Context, fs remote.FS, p Plan) (Result, error) {
	if strings.Contains(p.ServerDir, "..") || strings.Contains(p.Root, "..") {
		return Result{}, perr.InvalidArgf("discovery refuses parent traversal in %q %q", p.ServerDir, p.Root)
	}
	if p.Now.IsZero() {
		p.Now = time.Now().UTC()
	}
	if p.Cascade == nil {
		p.Cascade = logname.Default()
	}

	for _, s := range l.strategies {
		paths, err := s.Run(ctx, fs, p)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, err
			}
			if remote.IsAuth(err) || remote.IsConnLost(err) {
				return Result{}, err
			}
			if remote.IsNotExist(err) {
				continue
			}
			l.log.Warn().Err(err).
				Str("server", p.ServerID).
				Str("strategy", s.Name).
				Msg("ingest: discovery strategy failed")
			continue
		}
		if len(paths) == 0 {
			continue
		}
		l.log.Debug().
			Str("server", p.ServerID).
			Str("strategy", s.Name).
			Int("files", len(paths)).
			Msg("ingest: discovery hit")
		return Result{Files: l.collect(paths, p), Source: fs, Strategy: s.Name}, nil
	}

	if l.fix != nil {
		paths, err := listMatching(ctx, l.fix, "/", p.Cascade)
		if err == nil && len(paths) > 0 {
			l.log.Warn().
				Str("server", p.ServerID).
				Int("files", len(paths)).
				Msg("ingest: discovery exhausted, serving fixture files")
			return Result{Files: l.collect(paths, p), Source: l.fix, Strategy: "fixture"}, nil
		}
	}
	return Result{Source: fs}, nil
}

// collect deduplicates, drops future dated names and sorts ascending by
// embedded timestamp with the path as tiebreak
func (l *Locator) collect(paths []string, p Plan) []domain.LogFile {
	seen := make(map[string]struct{}, len(paths))
	out := make([]domain.LogFile, 0, len(paths))
	for _, fp := range paths {
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		if logname.InFuture(fp, p.Now, DefaultFutureSlack) {
			l.log.Debug().Str("file", fp).Msg("ingest: skipping future dated log")
			continue
		}
		out = append(out, domain.LogFile{Path: fp, Time: logname.SortKey(fp)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time.Equal(out[j].Time) {
			return out[i].Path < out[j].Path
		}
		return out[i].Time.Before(out[j].Time)
	})
	return out
}
