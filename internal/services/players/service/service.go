// Package service applies classified events to player aggregates
package service

import (
	"context"

	"killfeed/internal/core/events"
	"killfeed/internal/modkit/repokit"
	perr "killfeed/internal/platform/errors"
	"killfeed/internal/platform/logger"
	"killfeed/internal/services/players/domain"
)

const defaultLimit = 25

// Service implements domain.WriterPort and domain.ReaderPort.
// One event is applied in one transaction so a persistence failure
// rolls back that event alone
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[domain.StorageRepo]
	log    logger.Logger
}

// New constructs the players service
func New(db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo], log logger.Logger) *Service {
	if db == nil {
		panic("players.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("players.Service requires a non nil Repo binder")
	}
	return &Service{db: db, binder: binder, log: log}
}

// Apply implements domain.WriterPort
func (s *Service) Apply(ctx context.Context, ev events.Event) error {
	switch ev.Kind {
	case events.KindSuicide:
		return s.applySuicide(ctx, ev)
	case events.KindKill:
		return s.applyKill(ctx, ev)
	default:
		return perr.InvalidArgf("players: cannot apply %s event", ev.Kind)
	}
}

// applySuicide touches the victim and bumps only the suicide counter
func (s *Service) applySuicide(ctx context.Context, ev events.Event) error {
	return s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		if err := r.Touch(ctx, ev.ServerID, ev.VictimID, storedName(ev.VictimName), ev.Time); err != nil {
			return err
		}
		return r.Bump(ctx, ev.ServerID, ev.VictimID, 0, 0, 1)
	})
}

// applyKill bumps both players, grows the rivalry edge, and maintains
// the killer's prey and the victim's nemesis pointers from the edge sum
func (s *Service) applyKill(ctx context.Context, ev events.Event) error {
	if ev.KillerID == "" {
		return perr.InvalidArgf("players: kill event without killer id")
	}
	return s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)

		if err := r.Touch(ctx, ev.ServerID, ev.KillerID, storedName(ev.KillerName), ev.Time); err != nil {
			return err
		}
		if err := r.Touch(ctx, ev.ServerID, ev.VictimID, storedName(ev.VictimName), ev.Time); err != nil {
			return err
		}
		if err := r.Bump(ctx, ev.ServerID, ev.KillerID, 1, 0, 0); err != nil {
			return err
		}
		if err := r.Bump(ctx, ev.ServerID, ev.VictimID, 0, 1, 0); err != nil {
			return err
		}

		if err := r.RecordEdge(ctx, ev.ServerID, ev.KillerID, ev.VictimID, ev.Weapon, ev.Time); err != nil {
			return err
		}
		pair, err := r.PairKills(ctx, ev.ServerID, ev.KillerID, ev.VictimID)
		if err != nil {
			return err
		}
		if err := r.SetPrey(ctx, ev.ServerID, ev.KillerID, ev.VictimID, pair); err != nil {
			return err
		}
		return r.SetNemesis(ctx, ev.ServerID, ev.VictimID, ev.KillerID, pair)
	})
}

// storedName filters the placeholder so a real name seen earlier is
// never overwritten by an Unknown row
func storedName(name string) string {
	if name == events.UnknownName {
		return ""
	}
	return name
}

// Get implements domain.ReaderPort
func (s *Service) Get(ctx context.Context, serverID, playerID string) (domain.Player, error) {
	var p domain.Player
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var e error
		p, e = s.binder.Bind(q).Get(ctx, serverID, playerID)
		return e
	})
	return p, err
}

// Leaderboard implements domain.ReaderPort
func (s *Service) Leaderboard(ctx context.Context, serverID string, by domain.Sort, limit int) ([]domain.Player, error) {
	if !by.Valid() {
		return nil, perr.InvalidArgf("unknown leaderboard ordering %q", string(by))
	}
	if limit <= 0 || limit > 100 {
		limit = defaultLimit
	}

	var orderBy string
	switch by {
	case domain.SortDeaths:
		orderBy = "p.deaths desc, p.kills desc"
	case domain.SortSuicides:
		orderBy = "p.suicides desc, p.deaths desc"
	case domain.SortKD:
		orderBy = "p.kills::float / greatest(p.deaths, 1) desc, p.kills desc"
	default:
		orderBy = "p.kills desc, p.deaths asc"
	}

	var out []domain.Player
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var e error
		out, e = s.binder.Bind(q).Leaderboard(ctx, serverID, orderBy, limit)
		return e
	})
	return out, err
}

// Rivalries implements domain.ReaderPort
func (s *Service) Rivalries(ctx context.Context, serverID, playerID string, limit int) ([]domain.Rivalry, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultLimit
	}
	var out []domain.Rivalry
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var e error
		out, e = s.binder.Bind(q).Rivalries(ctx, serverID, playerID, limit)
		return e
	})
	return out, err
}

// TopRivalries implements domain.ReaderPort
func (s *Service) TopRivalries(ctx context.Context, serverID string, limit int) ([]domain.Rivalry, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultLimit
	}
	var out []domain.Rivalry
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var e error
		out, e = s.binder.Bind(q).TopRivalries(ctx, serverID, limit)
		return e
	})
	return out, err
}
