// Package repo provides postgres access for server configuration
package repo

import (
	"context"
	"encoding/json"

	"killfeed/internal/modkit/repokit"
	"killfeed/internal/services/servers/domain"
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

// rawColumns matches scanRaw field order
const rawColumns = `
	server_id,
	coalesce(original_server_id, ''),
	coalesce(guild_id, ''),
	coalesce(server_name, ''),
	coalesce(sftp_host, ''),
	coalesce(sftp_port, 0),
	coalesce(sftp_username, ''),
	coalesce(sftp_password, ''),
	coalesce(sftp_path, ''),
	coalesce(csv_pattern, '')
`

func (r *queries) selectRaw(ctx context.Context, sql string) ([]domain.Raw, error) {
	rows, err := r.q.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Raw
	for rows.Next() {
		var d domain.Raw
		if err := rows.Scan(
			&d.ServerID, &d.OriginalID, &d.GuildID, &d.Name,
			&d.Host, &d.Port, &d.User, &d.Password, &d.Path, &d.Pattern,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Servers returns documents from the primary collection that carry
// transport credentials
func (r *queries) Servers(ctx context.Context) ([]domain.Raw, error) {
	return r.selectRaw(ctx, `
		select `+rawColumns+`
		from servers
		where sftp_host is not null and sftp_username is not null and sftp_password is not null
	`)
}

// LegacyServers returns documents left behind in the game_servers
// collection by the first migration
func (r *queries) LegacyServers(ctx context.Context) ([]domain.Raw, error) {
	return r.selectRaw(ctx, `
		select `+rawColumns+`
		from game_servers
		where sftp_host is not null and sftp_username is not null and sftp_password is not null
	`)
}

// guildServer mirrors the embedded document shape inside guilds.servers
type guildServer struct {
	ServerID   string `json:"server_id"`
	OriginalID string `json:"original_server_id"`
	Name       string `json:"server_name"`
	Host       string `json:"sftp_host"`
	Port       int    `json:"sftp_port"`
	User       string `json:"sftp_username"`
	Password   string `json:"sftp_password"`
	Path       string `json:"sftp_path"`
	Pattern    string `json:"csv_pattern"`
}

// GuildServers returns server documents embedded in guild rows.
// Malformed elements are skipped, not fatal; guild documents predate any
// schema enforcement
func (r *queries) GuildServers(ctx context.Context) ([]domain.Raw, error) {
	rows, err := r.q.Query(ctx, `
		select guild_id, servers
		from guilds
		where jsonb_typeof(servers) = 'array'
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Raw
	for rows.Next() {
		var guildID string
		var blob []byte
		if err := rows.Scan(&guildID, &blob); err != nil {
			return nil, err
		}
		var elems []json.RawMessage
		if err := json.Unmarshal(blob, &elems); err != nil {
			continue
		}
		for _, el := range elems {
			var gs guildServer
			if err := json.Unmarshal(el, &gs); err != nil {
				continue
			}
			if gs.ServerID == "" {
				continue
			}
			out = append(out, domain.Raw{
				ServerID:   gs.ServerID,
				OriginalID: gs.OriginalID,
				GuildID:    guildID,
				Name:       gs.Name,
				Host:       gs.Host,
				Port:       gs.Port,
				User:       gs.User,
				Password:   gs.Password,
				Path:       gs.Path,
				Pattern:    gs.Pattern,
			})
		}
	}
	return out, rows.Err()
}

// Overrides returns the persisted volatile-to-durable id mapping
func (r *queries) Overrides(ctx context.Context) (map[string]string, error) {
	rows, err := r.q.Query(ctx, `
		select server_id, stable_id
		from server_id_overrides
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var sid, stable string
		if err := rows.Scan(&sid, &stable); err != nil {
			return nil, err
		}
		if sid != "" && stable != "" {
			out[sid] = stable
		}
	}
	return out, rows.Err()
}
