package guardrails

import (
	"context"
	"errors"
	"time"

	"killfeed/internal/modkit"
	"killfeed/internal/platform/store"
)

// ErrLeaseHeld signals another process owns the server already
var ErrLeaseHeld = errors.New("ingest: server lease already held")

// MakeAdvisoryLease returns a function that claims a per server row in
// ingest_server_leases before running do and releases it afterwards.
// A row older than ttl counts as abandoned by a crashed worker and is
// taken over. When the server is live held elsewhere it returns
// ErrLeaseHeld so callers can skip cleanly. It assumes the
// ingest_server_leases table exists
func MakeAdvisoryLease(
	deps modkit.Deps,
	ttl time.Duration,
) func(ctx context.Context, serverID string, do func(context.Context) error) error {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return func(ctx context.Context, serverID string, do func(context.Context) error) error {
		var claimed bool
		err := deps.PG.Tx(ctx, func(q store.RowQuerier) error {
			rows, err := q.Query(ctx, `
				INSERT INTO ingest_server_leases (server_id, acquired_at)
				VALUES ($1, now())
				ON CONFLICT (server_id) DO UPDATE SET acquired_at = now()
				WHERE ingest_server_leases.acquired_at < now() - make_interval(secs => $2)
				RETURNING true
			`, serverID, ttl.Seconds())
			if err != nil {
				return err
			}
			defer rows.Close()
			if rows.Next() {
				claimed = true
			}
			return nil
		})
		if err != nil {
			return err
		}
		if !claimed {
			return ErrLeaseHeld
		}

		defer func() {
			// release must survive a canceled run context; a failed
			// delete is recovered by the ttl takeover
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = deps.PG.Tx(rctx, func(q store.RowQuerier) error {
				_, err := q.Exec(rctx, `DELETE FROM ingest_server_leases WHERE server_id = $1`, serverID)
				return err
			})
		}()
		return do(ctx)
	}
}
