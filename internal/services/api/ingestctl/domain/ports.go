package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Trigger(ctx context.Context, in TriggerInput) (RunResult, error)
	Backfill(ctx context.Context, in BackfillInput) (RunResult, error)
	Status(ctx context.Context) (StatusResponse, error)
	ClearCaches(ctx context.Context) (ClearResponse, error)
}
