// Package http provides http transport for the ingest admin surface
package http

import (
	stdhttp "net/http"

	"killfeed/internal/modkit/httpkit"
	"killfeed/internal/services/api/ingestctl/domain"
	svc "killfeed/internal/services/api/ingestctl/service"
)

// Register mounts the ingest admin endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.TriggerInput](r, "/trigger", h.trigger)
	httpkit.PostJSON[domain.BackfillInput](r, "/backfill", h.backfill)
	httpkit.Get(r, "/status", h.status)
	httpkit.Post(r, "/cache-clear", h.clearCaches)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /ingest/trigger Ingest ingestTrigger
// @Summary Run one server now with a short rewind
// @Tags Ingest
// @Accept json
// @Produce json
// @Param payload body domain.TriggerInput true "Request"
// @Success 200 type domain.RunResult "ok"
// @Router /ingest/trigger [post]
func (h *handlers) trigger(r *stdhttp.Request, in domain.TriggerInput) (any, error) {
	return h.svc.Trigger(r.Context(), in)
}

// swagger:route POST /ingest/backfill Ingest ingestBackfill
// @Summary Replay one server's history
// @Tags Ingest
// @Accept json
// @Produce json
// @Param payload body domain.BackfillInput true "Request"
// @Success 200 type domain.RunResult "ok"
// @Router /ingest/backfill [post]
func (h *handlers) backfill(r *stdhttp.Request, in domain.BackfillInput) (any, error) {
	return h.svc.Backfill(r.Context(), in)
}

// swagger:route GET /ingest/status Ingest ingestStatus
// @Summary Scheduler and per server ingest state
// @Tags Ingest
// @Produce json
// @Success 200 type domain.StatusResponse "ok"
// @Router /ingest/status [get]
func (h *handlers) status(r *stdhttp.Request) (any, error) {
	return h.svc.Status(r.Context())
}

// swagger:route POST /ingest/cache-clear Ingest ingestCacheClear
// @Summary Drop cooldowns, cached patterns and the server registry
// @Tags Ingest
// @Produce json
// @Success 200 type domain.ClearResponse "ok"
// @Router /ingest/cache-clear [post]
func (h *handlers) clearCaches(r *stdhttp.Request) (any, error) {
	return h.svc.ClearCaches(r.Context())
}
