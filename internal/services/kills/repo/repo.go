// Package repo provides hybrid storage for kill documents:
// Postgres is authoritative, ClickHouse carries an analytics mirror
package repo

import (
	"context"

	"killfeed/internal/modkit/repokit"
	"killfeed/internal/platform/store"
	"killfeed/internal/services/kills/domain"
)

// NewHybrid returns a binder that uses
// - Postgres for the document of record and recent lookups
// - ClickHouse, when configured, for volume analytics
func NewHybrid(ch store.Clickhouse) repokit.Binder[domain.StorageRepo] {
	return &hybridBinder{ch: ch}
}

type hybridBinder struct{ ch store.Clickhouse }

func (b *hybridBinder) Bind(q repokit.Queryer) domain.StorageRepo {
	return &hybridStore{pg: q, ch: b.ch}
}

type hybridStore struct {
	pg repokit.Queryer
	ch store.Clickhouse
}

// chMirrorTable carries the column list PrepareBatch aligns against
const chMirrorTable = `killfeed.kills (id, server_id, ts, killer_id, killer_name, victim_id, victim_name, weapon, distance, suicide)`

// Insert writes the document of record. The natural key makes replays
// of the same log line a no-op
func (s *hybridStore) Insert(ctx context.Context, k domain.Kill) (bool, error) {
	tag, err := s.pg.Exec(ctx, `
		INSERT INTO kills (
			id, server_id, ts, killer_id, killer_name,
			victim_id, victim_name, weapon, distance, suicide
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (server_id, ts, killer_id, victim_id, weapon) DO NOTHING
	`,
		k.ID, k.ServerID, k.Time.UTC(), k.KillerID, k.KillerName,
		k.VictimID, k.VictimName, k.Weapon, k.Distance, k.Suicide,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Mirror appends documents to the ClickHouse copy. A deployment
// without ClickHouse mirrors nothing and that is not an error
func (s *hybridStore) Mirror(ctx context.Context, ks []domain.Kill) error {
	if s.ch == nil || len(ks) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(ks))
	for _, k := range ks {
		rows = append(rows, []any{
			k.ID, k.ServerID, k.Time.UTC(), k.KillerID, k.KillerName,
			k.VictimID, k.VictimName, k.Weapon, k.Distance, k.Suicide,
		})
	}
	return s.ch.Insert(ctx, chMirrorTable, rows)
}

// Recent returns the newest documents for a server
func (s *hybridStore) Recent(ctx context.Context, serverID string, limit int) ([]domain.Kill, error) {
	rows, err := s.pg.Query(ctx, `
		select id, server_id, ts, killer_id, killer_name,
		       victim_id, victim_name, weapon, distance, suicide
		from kills
		where server_id = $1
		order by ts desc
		limit $2
	`, serverID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Kill
	for rows.Next() {
		var k domain.Kill
		if err := rows.Scan(
			&k.ID, &k.ServerID, &k.Time, &k.KillerID, &k.KillerName,
			&k.VictimID, &k.VictimName, &k.Weapon, &k.Distance, &k.Suicide,
		); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// TopWeapons ranks weapons by kill volume, suicides excluded
func (s *hybridStore) TopWeapons(ctx context.Context, serverID string, limit int) ([]domain.WeaponCount, error) {
	rows, err := s.pg.Query(ctx, `
		select weapon, count(*)::bigint
		from kills
		where server_id = $1 and not suicide
		group by weapon
		order by 2 desc, weapon
		limit $2
	`, serverID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.WeaponCount
	for rows.Next() {
		var w domain.WeaponCount
		if err := rows.Scan(&w.Weapon, &w.Kills); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// Heatmap buckets kill volume by hour of week. The mirror serves it
// when configured; Postgres answers for smaller deployments
func (s *hybridStore) Heatmap(ctx context.Context, serverID string, days int) ([]domain.HeatCell, error) {
	if s.ch != nil {
		return s.heatmapCH(ctx, serverID, days)
	}
	return s.heatmapPG(ctx, serverID, days)
}

func (s *hybridStore) heatmapCH(ctx context.Context, serverID string, days int) ([]domain.HeatCell, error) {
	rows, err := s.ch.Query(ctx, `
		SELECT toInt32(toDayOfWeek(ts)) AS wd, toInt32(toHour(ts)) AS hr, toInt64(count()) AS kills
		FROM killfeed.kills
		WHERE server_id = ? AND ts >= now() - INTERVAL ? DAY
		GROUP BY wd, hr
		ORDER BY wd, hr
	`, serverID, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HeatCell
	for rows.Next() {
		var wd, hr int32
		var n int64
		if err := rows.Scan(&wd, &hr, &n); err != nil {
			return nil, err
		}
		out = append(out, domain.HeatCell{Weekday: int(wd), Hour: int(hr), Kills: n})
	}
	return out, rows.Err()
}

func (s *hybridStore) heatmapPG(ctx context.Context, serverID string, days int) ([]domain.HeatCell, error) {
	rows, err := s.pg.Query(ctx, `
		select extract(isodow from ts)::int, extract(hour from ts)::int, count(*)::bigint
		from kills
		where server_id = $1 and ts >= now() - make_interval(days => $2)
		group by 1, 2
		order by 1, 2
	`, serverID, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HeatCell
	for rows.Next() {
		var c domain.HeatCell
		if err := rows.Scan(&c.Weekday, &c.Hour, &c.Kills); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
