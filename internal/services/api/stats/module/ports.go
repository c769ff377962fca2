package module

import (
	"context"

	"killfeed/internal/services/api/stats/domain"
	statssvc "killfeed/internal/services/api/stats/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptStatsPort struct{ svc statssvc.Service }

// Overview returns the one line summary for a server
func (a adaptStatsPort) Overview(ctx context.Context, in domain.OverviewInput) (domain.OverviewRow, error) {
	return a.svc.Overview(ctx, in)
}

// Leaderboard returns ranked player aggregates
func (a adaptStatsPort) Leaderboard(ctx context.Context, in domain.LeaderboardInput) ([]domain.PlayerRow, error) {
	return a.svc.Leaderboard(ctx, in)
}

// Player returns one player aggregate
func (a adaptStatsPort) Player(ctx context.Context, in domain.PlayerInput) (domain.PlayerRow, error) {
	return a.svc.Player(ctx, in)
}

// Rivalries returns kill edges touching one player
func (a adaptStatsPort) Rivalries(ctx context.Context, in domain.RivalriesInput) ([]domain.RivalryRow, error) {
	return a.svc.Rivalries(ctx, in)
}

// TopRivalries returns the hottest edges on a server
func (a adaptStatsPort) TopRivalries(ctx context.Context, in domain.TopRivalriesInput) ([]domain.RivalryRow, error) {
	return a.svc.TopRivalries(ctx, in)
}

// Recent returns the newest kill documents
func (a adaptStatsPort) Recent(ctx context.Context, in domain.RecentInput) ([]domain.KillRow, error) {
	return a.svc.Recent(ctx, in)
}

// Heatmap returns hour of week kill volume
func (a adaptStatsPort) Heatmap(ctx context.Context, in domain.HeatmapInput) ([]domain.HeatCellRow, error) {
	return a.svc.Heatmap(ctx, in)
}

// TopWeapons returns weapons ranked by kill volume
func (a adaptStatsPort) TopWeapons(ctx context.Context, in domain.TopWeaponsInput) ([]domain.WeaponRow, error) {
	return a.svc.TopWeapons(ctx, in)
}
