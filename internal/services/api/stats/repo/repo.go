// Package repo provides postgres access for stats
package repo

import (
	"context"
	"time"

	"killfeed/internal/modkit/repokit"
)

// Repo is the minimal persistence surface for stats.
// Per player and per kill reads live on the worker ports; only the
// cross table overview needs its own queries
type Repo interface {
	Totals(ctx context.Context, serverID string) (RowTotals, error)
	Span(ctx context.Context, serverID string) (RowSpan, error)
}

// RowTotals sums the player aggregate table for one server
type RowTotals struct {
	Players  int64
	Kills    int64
	Deaths   int64
	Suicides int64
}

// RowSpan counts kill documents and brackets their timestamps.
// First and Last sit at the epoch when Events is zero
type RowSpan struct {
	Events int64
	First  time.Time
	Last   time.Time
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) Totals(ctx context.Context, serverID string) (RowTotals, error) {
	const sql = `
select count(*)::bigint,
       coalesce(sum(kills), 0)::bigint,
       coalesce(sum(deaths), 0)::bigint,
       coalesce(sum(suicides), 0)::bigint
from players
where server_id = $1
`
	var t RowTotals
	err := r.q.QueryRow(ctx, sql, serverID).Scan(&t.Players, &t.Kills, &t.Deaths, &t.Suicides)
	return t, err
}

func (r *queries) Span(ctx context.Context, serverID string) (RowSpan, error) {
	const sql = `
select count(*)::bigint,
       coalesce(min(ts), 'epoch'::timestamptz),
       coalesce(max(ts), 'epoch'::timestamptz)
from kills
where server_id = $1
`
	var s RowSpan
	err := r.q.QueryRow(ctx, sql, serverID).Scan(&s.Events, &s.First, &s.Last)
	return s, err
}
