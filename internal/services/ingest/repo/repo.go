// Package repo provides postgres access for ingest cursors and offsets
package repo

import (
	"context"
	"time"

	"killfeed/internal/modkit/repokit"
	"killfeed/internal/services/ingest/domain"
)

type (
	// PG is a Postgres binder for domain.StorageRepo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for domain.StorageRepo
func NewPG() repokit.Binder[domain.StorageRepo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.StorageRepo { return &queries{q: q} }

// Cursor returns the server's high water mark, zero valued when the
// server has never completed a run
func (r *queries) Cursor(ctx context.Context, serverID string) (domain.Cursor, error) {
	rows, err := r.q.Query(ctx, `
		select server_id, last_ts, updated_at
		from ingest_cursors
		where server_id = $1
	`, serverID)
	if err != nil {
		return domain.Cursor{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		return domain.Cursor{}, rows.Err()
	}
	var c domain.Cursor
	if err := rows.Scan(&c.ServerID, &c.Last, &c.UpdatedAt); err != nil {
		return domain.Cursor{}, err
	}
	return c, rows.Err()
}

// SaveCursor advances the cursor, never moving it backwards
func (r *queries) SaveCursor(ctx context.Context, serverID string, last time.Time) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ingest_cursors (server_id, last_ts, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (server_id) DO UPDATE SET
			last_ts = GREATEST(ingest_cursors.last_ts, excluded.last_ts),
			updated_at = now()
	`, serverID, last.UTC())
	return err
}

// Offsets returns the consumed line count per file path
func (r *queries) Offsets(ctx context.Context, serverID string) (map[string]int64, error) {
	rows, err := r.q.Query(ctx, `
		select path, lines
		from ingest_file_offsets
		where server_id = $1
	`, serverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var path string
		var lines int64
		if err := rows.Scan(&path, &lines); err != nil {
			return nil, err
		}
		out[path] = lines
	}
	return out, rows.Err()
}

// SaveOffset records how many lines of path have been applied. Logs are
// append only so offsets never shrink
func (r *queries) SaveOffset(ctx context.Context, serverID, path string, lines int64) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ingest_file_offsets (server_id, path, lines, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (server_id, path) DO UPDATE SET
			lines = GREATEST(ingest_file_offsets.lines, excluded.lines),
			updated_at = now()
	`, serverID, path, lines)
	return err
}

// PruneOffsets drops offset rows not touched since before
func (r *queries) PruneOffsets(ctx context.Context, serverID string, before time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		DELETE FROM ingest_file_offsets
		WHERE server_id = $1 AND updated_at < $2
	`, serverID, before.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
