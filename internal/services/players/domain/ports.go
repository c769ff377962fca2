package domain

import (
	"context"
	"time"

	"killfeed/internal/core/events"
)

// WriterPort applies classified events to player aggregates.
// The ingest pipeline is the only caller; it never passes KindUnknown
type WriterPort interface {
	Apply(ctx context.Context, ev events.Event) error
}

// ReaderPort serves player aggregates to the API
type ReaderPort interface {
	Get(ctx context.Context, serverID, playerID string) (Player, error)
	Leaderboard(ctx context.Context, serverID string, by Sort, limit int) ([]Player, error)
	Rivalries(ctx context.Context, serverID, playerID string, limit int) ([]Rivalry, error)
	TopRivalries(ctx context.Context, serverID string, limit int) ([]Rivalry, error)
}

// StorageRepo is the storage surface for player aggregates.
// Touch with an empty name leaves the stored name alone
type StorageRepo interface {
	Touch(ctx context.Context, serverID, playerID, name string, seen time.Time) error
	Bump(ctx context.Context, serverID, playerID string, kills, deaths, suicides int) error

	// RecordEdge grows the per-weapon edge; PairKills sums that pair's
	// edges across weapons for nemesis and prey maintenance
	RecordEdge(ctx context.Context, serverID, killerID, victimID, weapon string, at time.Time) error
	PairKills(ctx context.Context, serverID, killerID, victimID string) (int64, error)

	// SetPrey and SetNemesis only move the pointer forward: the update
	// applies when the named opponent already holds the slot or the new
	// count beats the stored one
	SetPrey(ctx context.Context, serverID, playerID, preyID string, count int64) error
	SetNemesis(ctx context.Context, serverID, playerID, nemesisID string, count int64) error

	Get(ctx context.Context, serverID, playerID string) (Player, error)
	Leaderboard(ctx context.Context, serverID, orderBy string, limit int) ([]Player, error)
	Rivalries(ctx context.Context, serverID, playerID string, limit int) ([]Rivalry, error)
	TopRivalries(ctx context.Context, serverID string, limit int) ([]Rivalry, error)
}
