// Package service implements the ingest pipeline: remote discovery,
// tolerant parsing, classification and application of kill log events,
// plus the scheduler that sweeps every configured server
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"killfeed/internal/adapters/remote"
	"killfeed/internal/core/logname"
	"killfeed/internal/modkit/repokit"
	perr "killfeed/internal/platform/errors"
	"killfeed/internal/platform/logger"
	"killfeed/internal/services/ingest/discover"
	"killfeed/internal/services/ingest/domain"
	"killfeed/internal/services/ingest/guardrails"
	killsdom "killfeed/internal/services/kills/domain"
	playersdom "killfeed/internal/services/players/domain"
	serversdom "killfeed/internal/services/servers/domain"
)

// LeaseFn serializes one server's run across processes.
// guardrails.MakeAdvisoryLease builds the production implementation
type LeaseFn = func(ctx context.Context, serverID string, do func(context.Context) error) error

// Config holds configuration options for the ingest service
type Config struct {
	// Scheduling
	Interval    time.Duration // between scheduled cycles; <=0 -> 5m
	Pause       time.Duration // between servers within a cycle; <=0 -> 2s
	CycleBudget time.Duration // wall clock cap on starting servers in one cycle; <=0 -> 300s

	// Per server guardrails
	ServerTimeout time.Duration // one server's full run; <=0 -> 120s
	DialTimeout   time.Duration // connect plus handshake; <=0 -> 15s
	ReadTimeout   time.Duration // single remote file download; <=0 -> 60s

	// MemoryLimitMB skips a whole cycle while process RSS exceeds it.
	// 0 -> 500; negative disables the gate
	MemoryLimitMB int64

	// AuthCooldown holds a host out of scheduled runs after an
	// authentication failure; <=0 -> 15m
	AuthCooldown time.Duration

	// MaxLookback bounds operator supplied lookback windows; <=0 -> 90d
	MaxLookback time.Duration

	// OffsetRetention prunes per file offsets not touched since;
	// 0 -> 30d, negative disables pruning
	OffsetRetention time.Duration

	// Distributed lease per server (optional)
	EnableLeases bool
	LeaseTTL     time.Duration // abandoned lease takeover age; <=0 -> 10m
}

// withDefaults fills unset fields in
func (c Config) withDefaults() Config {
	c.Interval = defDur(c.Interval, 5*time.Minute)
	c.Pause = defDur(c.Pause, 2*time.Second)
	c.CycleBudget = defDur(c.CycleBudget, 300*time.Second)
	c.ServerTimeout = defDur(c.ServerTimeout, 120*time.Second)
	c.DialTimeout = defDur(c.DialTimeout, 15*time.Second)
	c.ReadTimeout = defDur(c.ReadTimeout, 60*time.Second)
	c.AuthCooldown = defDur(c.AuthCooldown, 15*time.Minute)
	c.MaxLookback = defDur(c.MaxLookback, 90*24*time.Hour)
	c.LeaseTTL = defDur(c.LeaseTTL, 10*time.Minute)
	if c.MemoryLimitMB == 0 {
		c.MemoryLimitMB = 500
	}
	if c.OffsetRetention == 0 {
		c.OffsetRetention = 30 * 24 * time.Hour
	}
	return c
}

func defDur(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func (c Config) timeouts() guardrails.Timeouts {
	return guardrails.Timeouts{
		Server: c.ServerTimeout,
		Dial:   c.DialTimeout,
		Read:   c.ReadTimeout,
		DB:     10 * time.Second,
	}
}

// Service implements domain.RunnerPort and domain.StatusPort.
// All scheduler state lives on the instance: the single flight guard,
// per server locks, compiled pattern cache and auth cooldowns. Nothing
// is package global
type Service struct {
	db      repokit.TxRunner
	storage repokit.Binder[domain.StorageRepo]
	servers serversdom.RegistryPort
	players playersdom.WriterPort
	kills   killsdom.WriterPort
	dialer  remote.Dialer
	locator *discover.Locator
	base    *logname.Cascade
	lease   LeaseFn
	cfg     Config
	log     logger.Logger

	// memOK is swapped in tests; defaults to guardrails.MemoryOK
	memOK func(limitMB int64) (int64, bool)

	flight sync.Mutex

	mu        sync.Mutex
	running   bool
	lastCycle time.Time
	locks     map[string]*sync.Mutex
	state     map[string]*serverState
	patterns  map[string]*logname.Cascade
	cooldown  map[string]time.Time
}

var (
	_ domain.RunnerPort = (*Service)(nil)
	_ domain.StatusPort = (*Service)(nil)
)

// New constructs the ingest service
func New(
	db repokit.TxRunner,
	storage repokit.Binder[domain.StorageRepo],
	servers serversdom.RegistryPort,
	players playersdom.WriterPort,
	kills killsdom.WriterPort,
	dialer remote.Dialer,
	locator *discover.Locator,
	cfg Config,
	lease LeaseFn,
	log logger.Logger,
) *Service {
	if db == nil {
		panic("ingest.Service requires a non nil TxRunner")
	}
	if servers == nil {
		panic("ingest.Service requires a server registry")
	}
	return &Service{
		db:       db,
		storage:  storage,
		servers:  servers,
		players:  players,
		kills:    kills,
		dialer:   dialer,
		locator:  locator,
		base:     logname.Default(),
		lease:    lease,
		cfg:      cfg.withDefaults(),
		log:      log,
		memOK:    guardrails.MemoryOK,
		locks:    map[string]*sync.Mutex{},
		state:    map[string]*serverState{},
		patterns: map[string]*logname.Cascade{},
		cooldown: map[string]time.Time{},
	}
}

// WithCascade swaps the built in filename cascade, usually for one
// loaded from a patterns file. Call before the first run
func (s *Service) WithCascade(c *logname.Cascade) *Service {
	if c != nil {
		s.base = c
	}
	return s
}

// Loop drives scheduled cycles until ctx ends. Skips are logged and the
// next tick tried; no cycle outcome stops the loop
func (s *Service) Loop(ctx context.Context) error {
	s.log.Info().Dur("interval", s.cfg.Interval).Msg("ingest: scheduler started")
	t := time.NewTicker(s.cfg.Interval)
	defer t.Stop()
	for {
		rep, err := s.RunCycle(ctx)
		switch {
		case err == nil:
			s.log.Info().
				Int("servers", rep.Servers).
				Int("failed", rep.Failed).
				Dur("elapsed", rep.Elapsed).
				Msg("ingest: cycle complete")
		case errors.Is(err, domain.ErrBusy):
			s.log.Warn().Msg("ingest: previous cycle still running, skipping tick")
		case errors.Is(err, domain.ErrMemoryPressure):
			// RunCycle already logged the figures
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			s.log.Error().Err(err).Msg("ingest: cycle failed")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// RunCycle sweeps every configured server once, sequentially. Only one
// cycle runs at a time; a second caller gets domain.ErrBusy right away.
// The cycle budget stops starting new servers once spent but never
// interrupts one in progress
func (s *Service) RunCycle(ctx context.Context) (domain.CycleReport, error) {
	if !s.flight.TryLock() {
		return domain.CycleReport{}, domain.ErrBusy
	}
	defer s.flight.Unlock()

	if rss, ok := s.memOK(s.cfg.MemoryLimitMB); !ok {
		s.log.Warn().
			Int64("rss_mb", rss).
			Int64("limit_mb", s.cfg.MemoryLimitMB).
			Msg("ingest: skipping cycle, memory ceiling exceeded")
		return domain.CycleReport{}, domain.ErrMemoryPressure
	}

	started := time.Now()
	s.setRunning(true)
	defer s.setRunning(false)

	configs, err := s.servers.All(ctx)
	if err != nil {
		return domain.CycleReport{}, err
	}

	rep := domain.CycleReport{Started: started}
	deadline := started.Add(s.cfg.CycleBudget)
	for i, c := range configs {
		if ctx.Err() != nil {
			break
		}
		if !time.Now().Before(deadline) {
			s.log.Warn().
				Int("deferred", len(configs)-i).
				Dur("budget", s.cfg.CycleBudget).
				Msg("ingest: cycle budget spent, deferring remaining servers")
			break
		}
		r, rerr := s.runOne(ctx, c, 0, false)
		rep.Servers++
		rep.Reports = append(rep.Reports, r)
		if rerr != nil {
			rep.Failed++
			s.log.Error().Err(rerr).Str("server_id", c.ServerID).Msg("ingest: server run failed")
		}
		if i < len(configs)-1 {
			if sleepCtx(ctx, s.cfg.Pause) != nil {
				break
			}
		}
	}
	rep.Elapsed = time.Since(started)
	s.noteCycle(started)
	return rep, nil
}

// RunServer runs one server immediately, outside the scheduled sweep.
// Zero lookback means incremental from the stored cursor; a positive
// lookback rewinds the floor and switches to historical mode past
// domain.HistoricalAfter. Manual runs bypass the auth cooldown since
// the operator presumably just fixed the credentials
func (s *Service) RunServer(ctx context.Context, serverID string, lookback time.Duration) (domain.RunReport, error) {
	if lookback < 0 {
		return domain.RunReport{}, perr.InvalidArgf("ingest: negative lookback %s", lookback)
	}
	if lookback > s.cfg.MaxLookback {
		return domain.RunReport{}, perr.InvalidArgf("ingest: lookback %s exceeds limit %s", lookback, s.cfg.MaxLookback)
	}
	c, err := s.servers.Lookup(ctx, serverID)
	if err != nil {
		return domain.RunReport{}, err
	}
	return s.runOne(ctx, c, lookback, true)
}

// runOne wraps one server's pipeline with its lock, the cooldown gate,
// the optional cross process lease and the per server time budget
func (s *Service) runOne(ctx context.Context, c serversdom.Config, lookback time.Duration, force bool) (domain.RunReport, error) {
	lk := s.lockFor(c.ServerID)
	if !lk.TryLock() {
		return domain.RunReport{ServerID: c.ServerID}, perr.Unavailablef("ingest: server %s already running", c.ServerID)
	}
	defer lk.Unlock()

	if until, cooling := s.coolingUntil(c.Host); cooling && !force {
		s.log.Debug().
			Str("server_id", c.ServerID).
			Str("host", c.Host).
			Time("until", until).
			Msg("ingest: host in auth cooldown, skipping")
		return domain.RunReport{ServerID: c.ServerID, Mode: domain.ModeFor(lookback)}, nil
	}

	runCtx, cancel := guardrails.WithServer(ctx, s.cfg.timeouts())
	defer cancel()

	var rep domain.RunReport
	run := func(ctx context.Context) error {
		var err error
		rep, err = s.runServer(ctx, c, lookback)
		return err
	}

	if s.lease != nil && s.cfg.EnableLeases {
		err := s.lease(runCtx, c.ServerID, run)
		if errors.Is(err, guardrails.ErrLeaseHeld) {
			s.log.Debug().Str("server_id", c.ServerID).Msg("ingest: server leased by another worker, skipping")
			return domain.RunReport{ServerID: c.ServerID, Mode: domain.ModeFor(lookback)}, nil
		}
		return rep, err
	}
	return rep, run(runCtx)
}

func (s *Service) lockFor(serverID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lk, ok := s.locks[serverID]
	if !ok {
		lk = &sync.Mutex{}
		s.locks[serverID] = lk
	}
	return lk
}

// cascadeFor compiles a server's filename pattern over the built in
// cascade, caching the result. A bad pattern logs once per cache
// lifetime and falls back to the default cascade
func (s *Service) cascadeFor(pattern string) *logname.Cascade {
	if pattern == "" {
		return s.base
	}
	s.mu.Lock()
	if c, ok := s.patterns[pattern]; ok {
		s.mu.Unlock()
		return c
	}
	s.mu.Unlock()

	c, err := s.base.WithPrimary(pattern)
	if err != nil {
		s.log.Warn().Err(err).Str("pattern", pattern).Msg("ingest: bad filename pattern, using defaults")
		c = s.base
	}
	s.mu.Lock()
	s.patterns[pattern] = c
	s.mu.Unlock()
	return c
}

func (s *Service) coolingUntil(host string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.cooldown[host]
	if !ok {
		return time.Time{}, false
	}
	if time.Now().After(until) {
		delete(s.cooldown, host)
		return time.Time{}, false
	}
	return until, true
}

// noteAuth arms the per host cooldown when err is an authentication
// failure, so a bad credential does not hot loop every cycle
func (s *Service) noteAuth(host string, err error) {
	if err == nil || !remote.IsAuth(err) {
		return
	}
	until := time.Now().Add(s.cfg.AuthCooldown)
	s.mu.Lock()
	s.cooldown[host] = until
	s.mu.Unlock()
	s.log.Warn().
		Str("host", host).
		Time("until", until).
		Msg("ingest: authentication failed, host on cooldown")
}

// loadCursor reads a server's durable high water mark
func (s *Service) loadCursor(ctx context.Context, serverID string) (domain.Cursor, error) {
	var cur domain.Cursor
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		cur, err = s.storage.Bind(q).Cursor(ctx, serverID)
		return err
	})
	return cur, err
}

func (s *Service) loadOffsets(ctx context.Context, serverID string) (map[string]int64, error) {
	var offs map[string]int64
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		offs, err = s.storage.Bind(q).Offsets(ctx, serverID)
		return err
	})
	return offs, err
}

func (s *Service) saveCursor(ctx context.Context, serverID string, last time.Time) error {
	dbCtx, cancel := guardrails.ForDB(ctx, s.cfg.timeouts())
	defer cancel()
	return s.db.Tx(dbCtx, func(q repokit.Queryer) error {
		return s.storage.Bind(q).SaveCursor(dbCtx, serverID, last)
	})
}

func (s *Service) saveOffset(ctx context.Context, serverID, path string, lines int64) error {
	dbCtx, cancel := guardrails.ForDB(ctx, s.cfg.timeouts())
	defer cancel()
	return s.db.Tx(dbCtx, func(q repokit.Queryer) error {
		return s.storage.Bind(q).SaveOffset(dbCtx, serverID, path, lines)
	})
}

// pruneOffsets drops offset rows past retention, best effort
func (s *Service) pruneOffsets(ctx context.Context, serverID string) {
	if s.cfg.OffsetRetention <= 0 {
		return
	}
	before := time.Now().Add(-s.cfg.OffsetRetention)
	var n int64
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		applyTxTuning(ctx, q)
		var err error
		n, err = s.storage.Bind(q).PruneOffsets(ctx, serverID, before)
		return err
	})
	if err != nil {
		s.log.Debug().Err(err).Str("server_id", serverID).Msg("ingest: offset prune failed")
		return
	}
	if n > 0 {
		s.log.Debug().Int64("pruned", n).Str("server_id", serverID).Msg("ingest: stale offsets pruned")
	}
}

// applyTxTuning relaxes per tx limits for bulk statements.
// SET LOCAL scopes the change to the transaction
func applyTxTuning(ctx context.Context, q repokit.Queryer) {
	_, _ = q.Exec(ctx, "SET LOCAL statement_timeout = 0")
}

// sleepCtx sleeps for d unless ctx ends first
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
