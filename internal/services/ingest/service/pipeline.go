package service

import (
	"context"
	"time"

	"killfeed/internal/adapters/remote"
	"killfeed/internal/core/csvlog"
	"killfeed/internal/core/events"
	"killfeed/internal/core/logname"
	perr "killfeed/internal/platform/errors"
	"killfeed/internal/services/ingest/discover"
	"killfeed/internal/services/ingest/domain"
	"killfeed/internal/services/ingest/guardrails"
	serversdom "killfeed/internal/services/servers/domain"
)

// runServer executes the full pipeline for one server: discover log
// files, select the unseen ones against the cursor floor, then push
// each file through parse, classify and apply. The cursor only moves
// over files whose pipeline completed, so an interrupted run resumes
// where it stopped and the uniqueness gate absorbs the replay
func (s *Service) runServer(ctx context.Context, c serversdom.Config, lookback time.Duration) (rep domain.RunReport, err error) {
	started := time.Now()
	mode := domain.ModeFor(lookback)
	rep = domain.RunReport{ServerID: c.ServerID, Mode: mode}

	s.setActive(c.ServerID, true)
	defer func() {
		s.setActive(c.ServerID, false)
		s.noteRun(c.ServerID, err)
		rep.Elapsed = time.Since(started)
	}()

	sess := remote.NewSession(s.dialer, remote.Target{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Timeout:  s.cfg.DialTimeout,
	}, s.log)
	defer func() { _ = sess.Close() }()

	cur, cerr := s.loadCursor(ctx, c.ServerID)
	if cerr != nil {
		return rep, perr.Wrapf(cerr, perr.ErrorCodeDB, "ingest: load cursor for %s", c.ServerID)
	}
	rep.Cursor = cur.Last

	now := time.Now().UTC()
	floor := cur.Last
	if lookback > 0 {
		// the floor only ever widens: a rewind past the stored cursor
		// reprocesses, a rewind short of it never skips unseen files
		if rewind := now.Add(-lookback); rewind.Before(floor) {
			floor = rewind
		}
		s.log.Debug().
			Str("server_id", c.ServerID).
			Dur("lookback", lookback).
			Time("floor", floor).
			Msg("ingest: lookback floor applied")
	}

	res, derr := s.locator.Find(ctx, sess, discover.Plan{
		ServerID:  c.ServerID,
		ServerDir: c.Dir(),
		Root:      c.Path,
		Cascade:   s.cascadeFor(c.Pattern),
		Now:       now,
	})
	if derr != nil {
		s.noteAuth(c.Host, derr)
		return rep, derr
	}
	rep.Strategy = res.Strategy
	if len(res.Files) == 0 {
		s.log.Info().Str("server_id", c.ServerID).Msg("ingest: no log files discovered")
		return rep, nil
	}

	files := selectForRun(res.Files, floor, mode)
	if len(files) == 0 {
		s.log.Debug().
			Str("server_id", c.ServerID).
			Int("discovered", len(res.Files)).
			Time("floor", floor).
			Msg("ingest: nothing new past cursor")
		return rep, nil
	}

	offsets := map[string]int64{}
	if mode == domain.ModeIncremental {
		if offs, oerr := s.loadOffsets(ctx, c.ServerID); oerr != nil {
			s.log.Warn().Err(oerr).Str("server_id", c.ServerID).Msg("ingest: offsets unavailable, reading files in full")
		} else {
			offsets = offs
		}
	}

	var advance time.Time
	defer func() {
		if advance.IsZero() {
			return
		}
		// the save must survive a dead run context or the next cycle
		// repeats every completed file
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if serr := s.saveCursor(sctx, c.ServerID, advance); serr != nil {
			s.log.Error().Err(serr).Str("server_id", c.ServerID).Msg("ingest: cursor save failed")
			if err == nil {
				err = serr
			}
			return
		}
		rep.Cursor = advance
	}()

	blocked := false
	for _, f := range files {
		if ctx.Err() != nil {
			return rep, perr.Wrapf(ctx.Err(), perr.ErrorCodeUnavailable, "ingest: run interrupted")
		}
		consumed, ferr := s.processFile(ctx, res.Source, c, f, offsets[f.Path], &rep)
		rep.Files++
		s.setLastFile(c.ServerID, f.Path)
		if ferr != nil {
			s.noteAuth(c.Host, ferr)
			if ctx.Err() != nil {
				return rep, ferr
			}
			// the failed file must requalify next run, so the cursor
			// stops here even though later files still process
			blocked = true
			s.log.Warn().
				Err(ferr).
				Str("server_id", c.ServerID).
				Str("path", f.Path).
				Msg("ingest: file failed, continuing with the rest")
			continue
		}
		if serr := s.saveOffset(ctx, c.ServerID, f.Path, consumed); serr != nil {
			s.log.Warn().Err(serr).Str("path", f.Path).Msg("ingest: offset save failed")
		}
		if !blocked && !f.Time.Equal(logname.Epoch) {
			advance = f.Time
			// persist per file so a killed run resumes here; the deferred
			// save backstops a failure
			if serr := s.saveCursor(ctx, c.ServerID, f.Time); serr != nil {
				s.log.Warn().Err(serr).Str("server_id", c.ServerID).Msg("ingest: cursor save failed, retrying at run end")
			} else {
				rep.Cursor = f.Time
			}
		}
	}

	s.pruneOffsets(ctx, c.ServerID)

	s.log.Info().
		Str("server_id", c.ServerID).
		Str("mode", mode.String()).
		Str("strategy", rep.Strategy).
		Int("files", rep.Files).
		Int64("events", rep.Events).
		Int64("duplicates", rep.Duplicates).
		Int64("dropped", rep.Dropped).
		Msg("ingest: run complete")
	return rep, nil
}

// processFile downloads one log and applies its records from the given
// line offset. It returns the file's total line count, the new offset.
// Row level failures are logged and skipped; only file level failures
// (download, dead context) return an error, and then the stored offset
// stands so the file is retried whole
func (s *Service) processFile(
	ctx context.Context,
	src remote.FS,
	c serversdom.Config,
	f domain.LogFile,
	from int64,
	rep *domain.RunReport,
) (int64, error) {
	readCtx, cancel := guardrails.ForRead(ctx, s.cfg.timeouts())
	raw, err := remote.ReadAll(readCtx, src, f.Path)
	cancel()
	if err != nil {
		return from, err
	}

	recs, stats := csvlog.Parse(string(raw), int(from))
	rep.Rows += int64(stats.Records)
	if stats.Short > 0 || stats.BadTime > 0 {
		s.log.Debug().
			Str("path", f.Path).
			Int("short", stats.Short).
			Int("bad_time", stats.BadTime).
			Msg("ingest: malformed rows skipped")
	}

	for i := range recs {
		ev := events.Normalize(recs[i], c.ServerID)
		switch events.Classify(&ev) {
		case events.KindUnknown:
			rep.Dropped++
			s.log.Debug().
				Str("server_id", c.ServerID).
				Str("path", f.Path).
				Int("line", recs[i].Line).
				Msg("ingest: dropping row without victim id")
			continue
		case events.KindKill:
			if ev.KillerID == "" {
				rep.Dropped++
				s.log.Debug().
					Str("server_id", c.ServerID).
					Str("path", f.Path).
					Int("line", recs[i].Line).
					Msg("ingest: dropping kill without killer id")
				continue
			}
		}
		s.noteEvent(c.ServerID, ev.Time)

		_, recorded, rerr := s.kills.Record(ctx, ev)
		if rerr != nil {
			if ctx.Err() != nil {
				return from, rerr
			}
			rep.Dropped++
			s.log.Warn().Err(rerr).Str("server_id", c.ServerID).Msg("ingest: kill record failed, skipping row")
			continue
		}
		if !recorded {
			// already persisted by an earlier run; stats were applied then
			rep.Duplicates++
			continue
		}
		if aerr := s.players.Apply(ctx, ev); aerr != nil {
			if ctx.Err() != nil {
				return from, aerr
			}
			// the kill document exists but the aggregates missed this
			// event; the gate will not let it re-apply on replay
			rep.Dropped++
			s.log.Warn().Err(aerr).Str("server_id", c.ServerID).Msg("ingest: stats apply failed, skipping row")
			continue
		}
		rep.Events++
		if ev.Kind == events.KindSuicide {
			rep.Suicides++
		} else {
			rep.Kills++
		}
	}
	return int64(stats.Lines), nil
}
