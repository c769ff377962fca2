package domain

import (
	"context"

	"killfeed/internal/core/events"
)

// WriterPort persists classified events as kill documents.
// recorded is false when the natural key was already present
type WriterPort interface {
	Record(ctx context.Context, ev events.Event) (k Kill, recorded bool, err error)
}

// ReaderPort serves kill history and analytics to the API
type ReaderPort interface {
	Recent(ctx context.Context, serverID string, limit int) ([]Kill, error)
	Heatmap(ctx context.Context, serverID string, days int) ([]HeatCell, error)
	TopWeapons(ctx context.Context, serverID string, limit int) ([]WeaponCount, error)
}

// FeedSink receives each newly recorded kill for live distribution
type FeedSink interface {
	Publish(k Kill)
}

// FeedAttacher lets the transport layer attach a live sink after module
// wiring. Attach before serving; the field is not guarded
type FeedAttacher interface {
	AttachFeed(FeedSink)
}

// StorageRepo is the document storage surface.
// Mirror is a no-op when no analytics store is configured
type StorageRepo interface {
	Insert(ctx context.Context, k Kill) (bool, error)
	Mirror(ctx context.Context, ks []Kill) error
	Recent(ctx context.Context, serverID string, limit int) ([]Kill, error)
	TopWeapons(ctx context.Context, serverID string, limit int) ([]WeaponCount, error)
	Heatmap(ctx context.Context, serverID string, days int) ([]HeatCell, error)
}
