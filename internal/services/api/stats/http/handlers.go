// Package http provides http transport for stats
package http

import (
	stdhttp "net/http"

	"killfeed/internal/modkit/httpkit"
	"killfeed/internal/services/api/stats/domain"
	svc "killfeed/internal/services/api/stats/service"
)

// Register mounts stats endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// server wide summary
	httpkit.PostJSON[domain.OverviewInput](r, "/overview", h.overview)

	// player aggregates
	httpkit.PostJSON[domain.LeaderboardInput](r, "/leaderboard", h.leaderboard)
	httpkit.PostJSON[domain.PlayerInput](r, "/player", h.player)

	// rivalry edges
	httpkit.PostJSON[domain.RivalriesInput](r, "/rivalries", h.rivalries)
	httpkit.PostJSON[domain.TopRivalriesInput](r, "/rivalries/top", h.topRivalries)

	// kill documents
	httpkit.PostJSON[domain.RecentInput](r, "/kills/recent", h.recent)
	httpkit.PostJSON[domain.HeatmapInput](r, "/kills/heatmap", h.heatmap)
	httpkit.PostJSON[domain.TopWeaponsInput](r, "/kills/weapons", h.topWeapons)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /stats/overview Stats statsOverview
// @Summary Server summary totals
// @Tags Stats
// @Accept json
// @Produce json
// @Param payload body domain.OverviewInput true "Query"
// @Success 200 type domain.OverviewRow "ok"
// @Router /stats/overview [post]
func (h *handlers) overview(r *stdhttp.Request, in domain.OverviewInput) (any, error) {
	return h.svc.Overview(r.Context(), in)
}

// swagger:route POST /stats/leaderboard Stats statsLeaderboard
// @Summary Ranked player aggregates
// @Tags Stats
// @Accept json
// @Produce json
// @Param payload body domain.LeaderboardInput true "Query"
// @Success 200 {array} domain.PlayerRow "ok"
// @Router /stats/leaderboard [post]
func (h *handlers) leaderboard(r *stdhttp.Request, in domain.LeaderboardInput) (any, error) {
	return h.svc.Leaderboard(r.Context(), in)
}

// swagger:route POST /stats/player Stats statsPlayer
// @Summary One player aggregate with nemesis and prey
// @Tags Stats
// @Accept json
// @Produce json
// @Param payload body domain.PlayerInput true "Query"
// @Success 200 type domain.PlayerRow "ok"
// @Router /stats/player [post]
func (h *handlers) player(r *stdhttp.Request, in domain.PlayerInput) (any, error) {
	return h.svc.Player(r.Context(), in)
}

// swagger:route POST /stats/rivalries Stats statsRivalries
// @Summary Kill edges touching one player
// @Tags Stats
// @Accept json
// @Produce json
// @Param payload body domain.RivalriesInput true "Query"
// @Success 200 {array} domain.RivalryRow "ok"
// @Router /stats/rivalries [post]
func (h *handlers) rivalries(r *stdhttp.Request, in domain.RivalriesInput) (any, error) {
	return h.svc.Rivalries(r.Context(), in)
}

// swagger:route POST /stats/rivalries/top Stats statsTopRivalries
// @Summary Hottest kill edges on a server
// @Tags Stats
// @Accept json
// @Produce json
// @Param payload body domain.TopRivalriesInput true "Query"
// @Success 200 {array} domain.RivalryRow "ok"
// @Router /stats/rivalries/top [post]
func (h *handlers) topRivalries(r *stdhttp.Request, in domain.TopRivalriesInput) (any, error) {
	return h.svc.TopRivalries(r.Context(), in)
}

// swagger:route POST /stats/kills/recent Stats statsRecentKills
// @Summary Newest kill documents
// @Tags Stats
// @Accept json
// @Produce json
// @Param payload body domain.RecentInput true "Query"
// @Success 200 {array} domain.KillRow "ok"
// @Router /stats/kills/recent [post]
func (h *handlers) recent(r *stdhttp.Request, in domain.RecentInput) (any, error) {
	return h.svc.Recent(r.Context(), in)
}

// swagger:route POST /stats/kills/heatmap Stats statsHeatmap
// @Summary Kill volume by hour of week
// @Tags Stats
// @Accept json
// @Produce json
// @Param payload body domain.HeatmapInput true "Query"
// @Success 200 {array} domain.HeatCellRow "ok"
// @Router /stats/kills/heatmap [post]
func (h *handlers) heatmap(r *stdhttp.Request, in domain.HeatmapInput) (any, error) {
	return h.svc.Heatmap(r.Context(), in)
}

// swagger:route POST /stats/kills/weapons Stats statsTopWeapons
// @Summary Weapons ranked by kill volume
// @Tags Stats
// @Accept json
// @Produce json
// @Param payload body domain.TopWeaponsInput true "Query"
// @Success 200 {array} domain.WeaponRow "ok"
// @Router /stats/kills/weapons [post]
func (h *handlers) topWeapons(r *stdhttp.Request, in domain.TopWeaponsInput) (any, error) {
	return h.svc.TopWeapons(r.Context(), in)
}
