package domain

import (
	"context"

	"killfeed/internal/core/serverid"
)

// RegistryPort is the public port exposed by the module
type RegistryPort interface {
	// All returns every completely configured server, deduplicated by
	// server id with primary-collection documents winning
	All(ctx context.Context) ([]Config, error)

	// Lookup resolves one server by id, admitting the id forms admins
	// actually type: the stored id, the durable numeric id, or a numeric
	// equivalent. Returns a NotFound error when no document matches
	Lookup(ctx context.Context, serverID string) (Config, error)

	// Known returns the persisted volatile-to-durable id overrides
	Known(ctx context.Context) (serverid.Known, error)

	// Invalidate drops any cached configuration so the next call rereads
	Invalidate()
}

// StorageRepo is the storage interface for server configuration.
// Three locations are searched because deployments migrated twice and
// left documents behind in each
type StorageRepo interface {
	Servers(ctx context.Context) ([]Raw, error)
	LegacyServers(ctx context.Context) ([]Raw, error)
	GuildServers(ctx context.Context) ([]Raw, error)
	Overrides(ctx context.Context) (map[string]string, error)
}
