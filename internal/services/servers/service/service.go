// Package service implements the server configuration registry
package service

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"killfeed/internal/core/serverid"
	"killfeed/internal/modkit/repokit"
	perr "killfeed/internal/platform/errors"
	"killfeed/internal/platform/logger"
	"killfeed/internal/services/servers/domain"
)

// DefaultPath is the remote root assumed when a server has none configured
const DefaultPath = "/logs"

// Service implements domain.RegistryPort over three storage locations.
// Configuration is read fresh on every All call; only the id override
// mapping is cached, it changes by operator action alone
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[domain.StorageRepo]
	log    logger.Logger

	mu    sync.Mutex
	known serverid.Known
}

// New constructs the registry service
func New(db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo], log logger.Logger) *Service {
	if db == nil {
		panic("servers.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("servers.Service requires a non nil Repo binder")
	}
	return &Service{db: db, binder: binder, log: log}
}

// Known implements domain.RegistryPort
func (s *Service) Known(ctx context.Context) (serverid.Known, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.known != nil {
		return s.known, nil
	}
	var m map[string]string
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var e error
		m, e = s.binder.Bind(q).Overrides(ctx)
		return e
	})
	if err != nil {
		return nil, err
	}
	s.known = serverid.Known(m)
	return s.known, nil
}

// Invalidate implements domain.RegistryPort
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.known = nil
	s.mu.Unlock()
}

// All implements domain.RegistryPort
func (s *Service) All(ctx context.Context) ([]domain.Config, error) {
	known, err := s.Known(ctx)
	if err != nil {
		// Degrade to extraction-only resolution rather than skipping the cycle
		s.log.Warn().Err(err).Msg("servers: id overrides unavailable")
		known = serverid.Known{}
	}

	var primary, legacy, guild []domain.Raw
	err = s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		var e error
		if primary, e = r.Servers(ctx); e != nil {
			return e
		}
		if legacy, e = r.LegacyServers(ctx); e != nil {
			return e
		}
		guild, e = r.GuildServers(ctx)
		return e
	})
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var out []domain.Config
	for _, batch := range [][]domain.Raw{primary, legacy, guild} {
		for _, raw := range batch {
			id := strings.TrimSpace(raw.ServerID)
			if id == "" || seen[id] {
				continue
			}
			if !raw.Complete() {
				s.log.Debug().Str("server_id", id).Msg("servers: incomplete transport config, skipping")
				continue
			}
			seen[id] = true
			raw.ServerID = id
			out = append(out, build(raw, known))
		}
	}
	return out, nil
}

// Lookup implements domain.RegistryPort
func (s *Service) Lookup(ctx context.Context, serverID string) (domain.Config, error) {
	id := strings.TrimSpace(serverID)
	if id == "" {
		return domain.Config{}, perr.InvalidArgf("server id is required")
	}
	configs, err := s.All(ctx)
	if err != nil {
		return domain.Config{}, err
	}

	for _, c := range configs {
		if c.ServerID == id {
			return c, nil
		}
	}
	for _, c := range configs {
		if (c.OriginalID != "" && c.OriginalID == id) || c.StableID == id {
			return c, nil
		}
	}
	for _, c := range configs {
		if numericEqual(c.ServerID, id) {
			return c, nil
		}
	}
	return domain.Config{}, perr.NotFoundf("server %s is not configured", id)
}

// build resolves identity and applies defaults for one stored document
func build(raw domain.Raw, known serverid.Known) domain.Config {
	host, port := splitHostPort(raw.Host, raw.Port)

	stable, matched := serverid.Resolve(raw.ServerID, known)
	if !matched && stable == raw.ServerID && !isNumeric(stable) {
		// Id carries no digits at all; a numeric run in the display name is
		// the only remaining signal
		if fromName := serverid.FromName(raw.Name); fromName != "" {
			stable = fromName
		}
	}

	path := strings.TrimSpace(raw.Path)
	if path == "" {
		path = DefaultPath
	}

	return domain.Config{
		ServerID:   raw.ServerID,
		StableID:   stable,
		OriginalID: strings.TrimSpace(raw.OriginalID),
		Known:      matched,
		GuildID:    raw.GuildID,
		Name:       raw.Name,
		Host:       host,
		Port:       port,
		User:       raw.User,
		Password:   raw.Password,
		Path:       path,
		Pattern:    strings.TrimSpace(raw.Pattern),
	}
}

// splitHostPort handles hosts stored as "name:port". An explicit port
// column wins only when the host carries none; both absent means 22
func splitHostPort(host string, port int) (string, int) {
	host = strings.TrimSpace(host)
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		if p, err := strconv.Atoi(host[i+1:]); err == nil && p > 0 {
			return host[:i], p
		}
		host = host[:i]
	}
	if port <= 0 {
		port = 22
	}
	return host, port
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// numericEqual compares two ids as integers without overflow risk
func numericEqual(a, b string) bool {
	if !isNumeric(a) || !isNumeric(b) {
		return false
	}
	at := strings.TrimLeft(a, "0")
	bt := strings.TrimLeft(b, "0")
	if at == "" {
		at = "0"
	}
	if bt == "" {
		bt = "0"
	}
	return at == bt
}
