// Package repo provides postgres access for player aggregates
package repo

import (
	"context"
	"strings"
	"time"

	"killfeed/internal/modkit/repokit"
	perr "killfeed/internal/platform/errors"
	"killfeed/internal/services/players/domain"
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

// Touch creates the player on first sighting and refreshes name and
// last_seen after that. Counters stay untouched
func (r *queries) Touch(ctx context.Context, serverID, playerID, name string, seen time.Time) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO players (server_id, player_id, name, kills, deaths, suicides, first_seen, last_seen)
		VALUES ($1, $2, $3, 0, 0, 0, $4, $4)
		ON CONFLICT (server_id, player_id) DO UPDATE SET
			name = CASE WHEN excluded.name <> '' THEN excluded.name ELSE players.name END,
			last_seen = GREATEST(players.last_seen, excluded.last_seen)
	`, serverID, playerID, name, seen.UTC())
	return err
}

// Bump adds to the player's counters
func (r *queries) Bump(ctx context.Context, serverID, playerID string, kills, deaths, suicides int) error {
	_, err := r.q.Exec(ctx, `
		UPDATE players SET
			kills = kills + $3,
			deaths = deaths + $4,
			suicides = suicides + $5
		WHERE server_id = $1 AND player_id = $2
	`, serverID, playerID, kills, deaths, suicides)
	return err
}

// RecordEdge grows the directed per-weapon kill edge
func (r *queries) RecordEdge(ctx context.Context, serverID, killerID, victimID, weapon string, at time.Time) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO rivalries (server_id, killer_id, victim_id, weapon, kill_count, first_kill, last_kill)
		VALUES ($1, $2, $3, $4, 1, $5, $5)
		ON CONFLICT (server_id, killer_id, victim_id, weapon) DO UPDATE SET
			kill_count = rivalries.kill_count + 1,
			last_kill = GREATEST(rivalries.last_kill, excluded.last_kill)
	`, serverID, killerID, victimID, weapon, at.UTC())
	return err
}

// PairKills sums the pair's edges across weapons
func (r *queries) PairKills(ctx context.Context, serverID, killerID, victimID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		select coalesce(sum(kill_count), 0)
		from rivalries
		where server_id = $1 and killer_id = $2 and victim_id = $3
	`, serverID, killerID, victimID).Scan(&n)
	return n, err
}

// SetPrey moves the prey pointer when it grew or was overtaken.
// Ties keep the incumbent
func (r *queries) SetPrey(ctx context.Context, serverID, playerID, preyID string, count int64) error {
	_, err := r.q.Exec(ctx, `
		UPDATE players SET prey_id = $3, prey_count = $4
		WHERE server_id = $1 AND player_id = $2
			AND (prey_id = $3 OR coalesce(prey_count, 0) < $4)
	`, serverID, playerID, preyID, count)
	return err
}

// SetNemesis moves the nemesis pointer when it grew or was overtaken.
// Ties keep the incumbent
func (r *queries) SetNemesis(ctx context.Context, serverID, playerID, nemesisID string, count int64) error {
	_, err := r.q.Exec(ctx, `
		UPDATE players SET nemesis_id = $3, nemesis_count = $4
		WHERE server_id = $1 AND player_id = $2
			AND (nemesis_id = $3 OR coalesce(nemesis_count, 0) < $4)
	`, serverID, playerID, nemesisID, count)
	return err
}

// playerColumns matches scanPlayer field order
const playerColumns = `
	p.server_id, p.player_id, p.name,
	p.kills, p.deaths, p.suicides,
	coalesce(p.nemesis_id, ''), coalesce(n.name, ''), coalesce(p.nemesis_count, 0),
	coalesce(p.prey_id, ''), coalesce(y.name, ''), coalesce(p.prey_count, 0),
	p.first_seen, p.last_seen
`

const playerJoins = `
	from players p
	left join players n on n.server_id = p.server_id and n.player_id = p.nemesis_id
	left join players y on y.server_id = p.server_id and y.player_id = p.prey_id
`

func scanPlayer(row interface{ Scan(dest ...any) error }, p *domain.Player) error {
	return row.Scan(
		&p.ServerID, &p.PlayerID, &p.Name,
		&p.Kills, &p.Deaths, &p.Suicides,
		&p.NemesisID, &p.NemesisName, &p.NemesisCount,
		&p.PreyID, &p.PreyName, &p.PreyCount,
		&p.FirstSeen, &p.LastSeen,
	)
}

// Get returns one player row with nemesis and prey names resolved
func (r *queries) Get(ctx context.Context, serverID, playerID string) (domain.Player, error) {
	var p domain.Player
	err := scanPlayer(r.q.QueryRow(ctx, `
		select `+playerColumns+playerJoins+`
		where p.server_id = $1 and p.player_id = $2
	`, serverID, playerID), &p)
	if err != nil {
		// pgx surfaces its own no-rows sentinel, match on message
		if strings.Contains(err.Error(), "no rows") {
			return p, perr.NotFoundf("player %s not seen on server %s", playerID, serverID)
		}
		return p, err
	}
	return p, nil
}

// Leaderboard returns players ordered by the given expression.
// orderBy is service-validated, never caller input
func (r *queries) Leaderboard(ctx context.Context, serverID, orderBy string, limit int) ([]domain.Player, error) {
	rows, err := r.q.Query(ctx, `
		select `+playerColumns+playerJoins+`
		where p.server_id = $1
		order by `+orderBy+`
		limit $2
	`, serverID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Player
	for rows.Next() {
		var p domain.Player
		if err := scanPlayer(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const rivalryColumns = `
	r.server_id,
	r.killer_id, coalesce(k.name, ''),
	r.victim_id, coalesce(v.name, ''),
	r.weapon, r.kill_count, r.first_kill, r.last_kill
`

const rivalryJoins = `
	from rivalries r
	left join players k on k.server_id = r.server_id and k.player_id = r.killer_id
	left join players v on v.server_id = r.server_id and v.player_id = r.victim_id
`

func (r *queries) selectRivalries(ctx context.Context, sql string, args ...any) ([]domain.Rivalry, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Rivalry
	for rows.Next() {
		var rv domain.Rivalry
		if err := rows.Scan(
			&rv.ServerID,
			&rv.KillerID, &rv.KillerName,
			&rv.VictimID, &rv.VictimName,
			&rv.Weapon, &rv.Kills, &rv.FirstKill, &rv.LastKill,
		); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// Rivalries returns the edges touching one player, heaviest first
func (r *queries) Rivalries(ctx context.Context, serverID, playerID string, limit int) ([]domain.Rivalry, error) {
	return r.selectRivalries(ctx, `
		select `+rivalryColumns+rivalryJoins+`
		where r.server_id = $1 and (r.killer_id = $2 or r.victim_id = $2)
		order by r.kill_count desc, r.last_kill desc
		limit $3
	`, serverID, playerID, limit)
}

// TopRivalries returns the heaviest edges on a server
func (r *queries) TopRivalries(ctx context.Context, serverID string, limit int) ([]domain.Rivalry, error) {
	return r.selectRivalries(ctx, `
		select `+rivalryColumns+rivalryJoins+`
		where r.server_id = $1
		order by r.kill_count desc, r.last_kill desc
		limit $2
	`, serverID, limit)
}
