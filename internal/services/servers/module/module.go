// Package module wires the server registry for use by other modules
package module

import (
	"killfeed/internal/modkit"
	"killfeed/internal/modkit/httpkit"
	"killfeed/internal/modkit/repokit"

	"killfeed/internal/services/servers/domain"
	"killfeed/internal/services/servers/repo"
	"killfeed/internal/services/servers/service"
)

// Ports defines the servers module ports
type Ports struct {
	Registry domain.RegistryPort
}

// Module implements the servers module. It mounts no routes; the
// registry is consumed by the ingest and API modules through Ports
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the servers module
func New(deps modkit.Deps) *Module {
	svc := service.New(repokit.TxRunner(deps.PG), repo.NewPG(), deps.Log)
	m := &Module{deps: deps}
	m.ports = Ports{Registry: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "servers" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Prefix returns the module prefix (none)
func (m *Module) Prefix() string { return "" }

// MountRoutes is a no-op as servers has no routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
