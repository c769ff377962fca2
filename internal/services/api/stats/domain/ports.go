package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Overview(ctx context.Context, in OverviewInput) (OverviewRow, error)
	Leaderboard(ctx context.Context, in LeaderboardInput) ([]PlayerRow, error)
	Player(ctx context.Context, in PlayerInput) (PlayerRow, error)
	Rivalries(ctx context.Context, in RivalriesInput) ([]RivalryRow, error)
	TopRivalries(ctx context.Context, in TopRivalriesInput) ([]RivalryRow, error)
	Recent(ctx context.Context, in RecentInput) ([]KillRow, error)
	Heatmap(ctx context.Context, in HeatmapInput) ([]HeatCellRow, error)
	TopWeapons(ctx context.Context, in TopWeaponsInput) ([]WeaponRow, error)
}
