// Package service persists kill documents and fans them out
package service

import (
	"context"

	"killfeed/internal/core/events"
	"killfeed/internal/modkit/repokit"
	perr "killfeed/internal/platform/errors"
	"killfeed/internal/platform/logger"
	"killfeed/internal/services/kills/domain"

	"github.com/google/uuid"
)

const defaultLimit = 50

// Service implements domain.WriterPort, domain.ReaderPort and
// domain.FeedAttacher
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[domain.StorageRepo]
	log    logger.Logger

	// feed is attached once during boot wiring, before any traffic
	feed domain.FeedSink
}

// New constructs the kills service
func New(db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo], log logger.Logger) *Service {
	if db == nil {
		panic("kills.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("kills.Service requires a non nil Repo binder")
	}
	return &Service{db: db, binder: binder, log: log}
}

// AttachFeed implements domain.FeedAttacher
func (s *Service) AttachFeed(f domain.FeedSink) { s.feed = f }

// Record implements domain.WriterPort. The document write is the
// transaction; the analytics mirror and the live feed are best effort
// and never fail the event
func (s *Service) Record(ctx context.Context, ev events.Event) (domain.Kill, bool, error) {
	if ev.Kind == events.KindUnknown {
		return domain.Kill{}, false, perr.InvalidArgf("kills: cannot record unknown event")
	}

	k := domain.Kill{
		ID:         uuid.NewString(),
		ServerID:   ev.ServerID,
		Time:       ev.Time.UTC(),
		KillerID:   ev.KillerID,
		KillerName: ev.KillerName,
		VictimID:   ev.VictimID,
		VictimName: ev.VictimName,
		Weapon:     ev.Weapon,
		Distance:   ev.Distance,
		Suicide:    ev.Kind == events.KindSuicide,
	}

	var recorded bool
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var e error
		recorded, e = s.binder.Bind(q).Insert(ctx, k)
		return e
	})
	if err != nil {
		return k, false, err
	}
	if !recorded {
		return k, false, nil
	}

	if err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		return s.binder.Bind(q).Mirror(ctx, []domain.Kill{k})
	}); err != nil {
		s.log.Warn().Err(err).Str("server_id", k.ServerID).Msg("kills: analytics mirror write failed")
	}

	if s.feed != nil {
		s.feed.Publish(k)
	}
	return k, true, nil
}

// Recent implements domain.ReaderPort
func (s *Service) Recent(ctx context.Context, serverID string, limit int) ([]domain.Kill, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultLimit
	}
	var out []domain.Kill
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var e error
		out, e = s.binder.Bind(q).Recent(ctx, serverID, limit)
		return e
	})
	return out, err
}

// Heatmap implements domain.ReaderPort
func (s *Service) Heatmap(ctx context.Context, serverID string, days int) ([]domain.HeatCell, error) {
	if days <= 0 || days > 90 {
		days = 30
	}
	var out []domain.HeatCell
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var e error
		out, e = s.binder.Bind(q).Heatmap(ctx, serverID, days)
		return e
	})
	return out, err
}

// TopWeapons implements domain.ReaderPort
func (s *Service) TopWeapons(ctx context.Context, serverID string, limit int) ([]domain.WeaponCount, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var out []domain.WeaponCount
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var e error
		out, e = s.binder.Bind(q).TopWeapons(ctx, serverID, limit)
		return e
	})
	return out, err
}
