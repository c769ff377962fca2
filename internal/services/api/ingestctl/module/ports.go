package module

import (
	"context"

	"killfeed/internal/services/api/ingestctl/domain"
	ctlsvc "killfeed/internal/services/api/ingestctl/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptCtlPort struct{ svc ctlsvc.Service }

// Trigger runs one server now with a short rewind window
func (a adaptCtlPort) Trigger(ctx context.Context, in domain.TriggerInput) (domain.RunResult, error) {
	return a.svc.Trigger(ctx, in)
}

// Backfill replays one server's history
func (a adaptCtlPort) Backfill(ctx context.Context, in domain.BackfillInput) (domain.RunResult, error) {
	return a.svc.Backfill(ctx, in)
}

// Status reports scheduler and per server state
func (a adaptCtlPort) Status(ctx context.Context) (domain.StatusResponse, error) {
	return a.svc.Status(ctx)
}

// ClearCaches drops the ingest module's warm state
func (a adaptCtlPort) ClearCaches(ctx context.Context) (domain.ClearResponse, error) {
	return a.svc.ClearCaches(ctx)
}
