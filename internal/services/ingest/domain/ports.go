package domain

import (
	"context"
	"time"

	perr "killfeed/internal/platform/errors"
	killsdom "killfeed/internal/services/kills/domain"
	playersdom "killfeed/internal/services/players/domain"
	serversdom "killfeed/internal/services/servers/domain"
)

// Ports are dependencies injected into the ingest module
type Ports struct {
	Servers serversdom.RegistryPort // required
	Players playersdom.WriterPort   // required
	Kills   killsdom.WriterPort     // required
}

// ErrBusy reports that a scheduled cycle is already in flight
var ErrBusy = perr.New(perr.ErrorCodeUnavailable, "ingest cycle already running")

// ErrMemoryPressure reports that the process breached its memory
// ceiling and the cycle was skipped whole
var ErrMemoryPressure = perr.New(perr.ErrorCodeUnavailable, "ingest memory ceiling exceeded")

// RunnerPort triggers ingest work
type RunnerPort interface {
	// Loop runs scheduled cycles until ctx ends
	Loop(ctx context.Context) error

	// RunCycle processes every configured server once under the single
	// flight guard. A cycle skipped for busyness or memory pressure
	// fails with ErrBusy or ErrMemoryPressure
	RunCycle(ctx context.Context) (CycleReport, error)

	// RunServer processes one server. A zero lookback runs from the
	// stored cursor; a positive lookback rewinds the effective floor to
	// now minus lookback, never advancing past unprocessed logs
	RunServer(ctx context.Context, serverID string, lookback time.Duration) (RunReport, error)
}

// StatusPort reports scheduler and per server state
type StatusPort interface {
	Status(ctx context.Context) (Status, error)

	// ClearCaches drops warm state: auth failure cooldowns, pooled
	// connections and the cached server registry
	ClearCaches(ctx context.Context) error
}

// StorageRepo persists per server cursors and per file line offsets
type StorageRepo interface {
	// Cursor returns serverID's high water mark, zero valued when the
	// server has never completed a run
	Cursor(ctx context.Context, serverID string) (Cursor, error)

	// SaveCursor advances serverID's cursor to last. A save never moves
	// a cursor backwards
	SaveCursor(ctx context.Context, serverID string, last time.Time) error

	// Offsets returns the consumed line count per file path
	Offsets(ctx context.Context, serverID string) (map[string]int64, error)

	// SaveOffset records that the first lines of path have been applied
	SaveOffset(ctx context.Context, serverID, path string, lines int64) error

	// PruneOffsets drops offset rows not touched since before, returning
	// the number removed
	PruneOffsets(ctx context.Context, serverID string, before time.Time) (int64, error)
}
