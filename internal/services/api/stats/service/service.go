// Package service contains stats workflows
package service

import (
	"context"
	"time"

	"killfeed/internal/modkit/repokit"
	perr "killfeed/internal/platform/errors"
	"killfeed/internal/services/api/stats/domain"
	"killfeed/internal/services/api/stats/repo"

	killsdom "killfeed/internal/services/kills/domain"
	playersdom "killfeed/internal/services/players/domain"
)

// Service defines the stats service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the stats service over the worker reader ports.
// Only the overview runs its own SQL; everything else delegates so the
// queries stay with the tables they belong to
type Svc struct {
	Repo    repo.Repo
	binder  repokit.Binder[repo.Repo]
	db      repokit.TxRunner
	players playersdom.ReaderPort
	kills   killsdom.ReaderPort
}

// New constructs a stats service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], players playersdom.ReaderPort, kills killsdom.ReaderPort) *Svc {
	if db == nil {
		panic("stats.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("stats.Service requires a non nil Repo binder")
	}
	if players == nil || kills == nil {
		panic("stats.Service requires the players and kills reader ports")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, players: players, kills: kills}
}

// Overview returns the one line summary for a server
func (s *Svc) Overview(ctx context.Context, in domain.OverviewInput) (domain.OverviewRow, error) {
	if in.ServerID == "" {
		return domain.OverviewRow{}, perr.InvalidArgf("stats: server id required")
	}

	var (
		totals repo.RowTotals
		span   repo.RowSpan
	)
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		var e error
		if totals, e = r.Totals(ctx, in.ServerID); e != nil {
			return e
		}
		span, e = r.Span(ctx, in.ServerID)
		return e
	})
	if err != nil {
		return domain.OverviewRow{}, err
	}

	out := domain.OverviewRow{
		ServerID: in.ServerID,
		Players:  totals.Players,
		Kills:    totals.Kills,
		Deaths:   totals.Deaths,
		Suicides: totals.Suicides,
		Events:   span.Events,
	}
	if span.Events > 0 {
		out.FirstEvent = fmtTime(span.First)
		out.LastEvent = fmtTime(span.Last)
	}
	return out, nil
}

// Leaderboard returns ranked player aggregates
func (s *Svc) Leaderboard(ctx context.Context, in domain.LeaderboardInput) ([]domain.PlayerRow, error) {
	if in.ServerID == "" {
		return nil, perr.InvalidArgf("stats: server id required")
	}
	by := playersdom.Sort(in.By)
	if in.By == "" {
		by = playersdom.SortKills
	}
	ps, err := s.players.Leaderboard(ctx, in.ServerID, by, in.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PlayerRow, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPlayerRow(p))
	}
	return out, nil
}

// Player returns one player aggregate
func (s *Svc) Player(ctx context.Context, in domain.PlayerInput) (domain.PlayerRow, error) {
	if in.ServerID == "" {
		return domain.PlayerRow{}, perr.InvalidArgf("stats: server id required")
	}
	if in.PlayerID == "" {
		return domain.PlayerRow{}, perr.InvalidArgf("stats: player id required")
	}
	p, err := s.players.Get(ctx, in.ServerID, in.PlayerID)
	if err != nil {
		return domain.PlayerRow{}, err
	}
	return toPlayerRow(p), nil
}

// Rivalries returns one player's kill edges, both directions
func (s *Svc) Rivalries(ctx context.Context, in domain.RivalriesInput) ([]domain.RivalryRow, error) {
	if in.ServerID == "" {
		return nil, perr.InvalidArgf("stats: server id required")
	}
	if in.PlayerID == "" {
		return nil, perr.InvalidArgf("stats: player id required")
	}
	rs, err := s.players.Rivalries(ctx, in.ServerID, in.PlayerID, in.Limit)
	if err != nil {
		return nil, err
	}
	return toRivalryRows(rs), nil
}

// TopRivalries returns the hottest edges on a server
func (s *Svc) TopRivalries(ctx context.Context, in domain.TopRivalriesInput) ([]domain.RivalryRow, error) {
	if in.ServerID == "" {
		return nil, perr.InvalidArgf("stats: server id required")
	}
	rs, err := s.players.TopRivalries(ctx, in.ServerID, in.Limit)
	if err != nil {
		return nil, err
	}
	return toRivalryRows(rs), nil
}

// Recent returns the newest kill documents
func (s *Svc) Recent(ctx context.Context, in domain.RecentInput) ([]domain.KillRow, error) {
	if in.ServerID == "" {
		return nil, perr.InvalidArgf("stats: server id required")
	}
	ks, err := s.kills.Recent(ctx, in.ServerID, in.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.KillRow, 0, len(ks))
	for _, k := range ks {
		out = append(out, domain.KillRow{
			ID:         k.ID,
			Time:       fmtTime(k.Time),
			KillerID:   k.KillerID,
			KillerName: k.KillerName,
			VictimID:   k.VictimID,
			VictimName: k.VictimName,
			Weapon:     k.Weapon,
			Distance:   k.Distance,
			Suicide:    k.Suicide,
		})
	}
	return out, nil
}

// Heatmap returns hour of week kill volume
func (s *Svc) Heatmap(ctx context.Context, in domain.HeatmapInput) ([]domain.HeatCellRow, error) {
	if in.ServerID == "" {
		return nil, perr.InvalidArgf("stats: server id required")
	}
	cs, err := s.kills.Heatmap(ctx, in.ServerID, in.Days)
	if err != nil {
		return nil, err
	}
	out := make([]domain.HeatCellRow, 0, len(cs))
	for _, c := range cs {
		out = append(out, domain.HeatCellRow{Weekday: c.Weekday, Hour: c.Hour, Kills: c.Kills})
	}
	return out, nil
}

// TopWeapons returns weapons ranked by kill volume
func (s *Svc) TopWeapons(ctx context.Context, in domain.TopWeaponsInput) ([]domain.WeaponRow, error) {
	if in.ServerID == "" {
		return nil, perr.InvalidArgf("stats: server id required")
	}
	ws, err := s.kills.TopWeapons(ctx, in.ServerID, in.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.WeaponRow, 0, len(ws))
	for _, w := range ws {
		out = append(out, domain.WeaponRow{Weapon: w.Weapon, Kills: w.Kills})
	}
	return out, nil
}

func toPlayerRow(p playersdom.Player) domain.PlayerRow {
	kd := float64(p.Kills)
	if p.Deaths > 0 {
		kd = float64(p.Kills) / float64(p.Deaths)
	}
	return domain.PlayerRow{
		ServerID:     p.ServerID,
		PlayerID:     p.PlayerID,
		Name:         p.Name,
		Kills:        p.Kills,
		Deaths:       p.Deaths,
		Suicides:     p.Suicides,
		KD:           kd,
		NemesisID:    p.NemesisID,
		NemesisName:  p.NemesisName,
		NemesisCount: p.NemesisCount,
		PreyID:       p.PreyID,
		PreyName:     p.PreyName,
		PreyCount:    p.PreyCount,
		FirstSeen:    fmtTime(p.FirstSeen),
		LastSeen:     fmtTime(p.LastSeen),
	}
}

func toRivalryRows(rs []playersdom.Rivalry) []domain.RivalryRow {
	out := make([]domain.RivalryRow, 0, len(rs))
	for _, r := range rs {
		out = append(out, domain.RivalryRow{
			KillerID:   r.KillerID,
			KillerName: r.KillerName,
			VictimID:   r.VictimID,
			VictimName: r.VictimName,
			Weapon:     r.Weapon,
			Kills:      r.Kills,
			FirstKill:  fmtTime(r.FirstKill),
			LastKill:   fmtTime(r.LastKill),
		})
	}
	return out
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
