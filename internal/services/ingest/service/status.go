package service

import (
	"context"
	"time"

	"killfeed/internal/core/logname"
	"killfeed/internal/services/ingest/domain"
)

// serverState is the in memory runtime view of one server
type serverState struct {
	active    bool
	lastFile  string
	lastEvent time.Time
	lastRun   time.Time
	lastError string
}

// stateFor returns the state entry for a server; caller holds s.mu
func (s *Service) stateFor(serverID string) *serverState {
	st, ok := s.state[serverID]
	if !ok {
		st = &serverState{}
		s.state[serverID] = st
	}
	return st
}

func (s *Service) setActive(serverID string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stateFor(serverID).active = active
}

func (s *Service) setLastFile(serverID, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stateFor(serverID).lastFile = path
}

// noteEvent advances the liveness clock. Classified rows count even
// when the uniqueness gate later drops them as replays: the server
// produced them, which is what liveness asks
func (s *Service) noteEvent(serverID string, at time.Time) {
	if at.IsZero() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stateFor(serverID)
	if at.After(st.lastEvent) {
		st.lastEvent = at
	}
}

func (s *Service) noteRun(serverID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stateFor(serverID)
	st.lastRun = time.Now()
	st.lastError = ""
	if err != nil {
		st.lastError = err.Error()
	}
}

func (s *Service) setRunning(v bool) {
	s.mu.Lock()
	s.running = v
	s.mu.Unlock()
}

func (s *Service) noteCycle(at time.Time) {
	s.mu.Lock()
	s.lastCycle = at
	s.mu.Unlock()
}

// Status reports scheduler state plus a per server view joining
// configuration, stored cursors and runtime liveness
func (s *Service) Status(ctx context.Context) (domain.Status, error) {
	configs, err := s.servers.All(ctx)
	if err != nil {
		return domain.Status{}, err
	}

	var out domain.Status
	s.mu.Lock()
	out.Running = s.running
	out.LastCycle = s.lastCycle
	s.mu.Unlock()

	for _, c := range configs {
		ss := domain.ServerStatus{
			ServerID: c.ServerID,
			Name:     c.Name,
			Known:    c.Known,
		}
		if cur, cerr := s.loadCursor(ctx, c.ServerID); cerr == nil {
			ss.Cursor = cur.Last
		} else {
			s.log.Debug().Err(cerr).Str("server_id", c.ServerID).Msg("ingest: cursor unavailable for status")
		}
		_, ss.CoolingDown = s.coolingUntil(c.Host)

		s.mu.Lock()
		if st, ok := s.state[c.ServerID]; ok {
			ss.Active = st.active
			ss.LastFile = st.lastFile
			ss.LastEvent = st.lastEvent
			ss.LastRun = st.lastRun
			ss.LastError = st.lastError
		}
		s.mu.Unlock()
		out.Servers = append(out.Servers, ss)
	}
	return out, nil
}

// ClearCaches drops compiled patterns, auth cooldowns and the registry
// cache so the next run rereads configuration from scratch. Sessions
// are per run, so there is no connection pool to flush
func (s *Service) ClearCaches(ctx context.Context) error {
	s.mu.Lock()
	s.patterns = map[string]*logname.Cascade{}
	s.cooldown = map[string]time.Time{}
	s.mu.Unlock()
	s.servers.Invalidate()
	s.log.Info().Msg("ingest: caches cleared")
	return nil
}
