// Package module wires player aggregates for use by other modules
package module

import (
	"killfeed/internal/modkit"
	"killfeed/internal/modkit/httpkit"
	"killfeed/internal/modkit/repokit"

	"killfeed/internal/services/players/domain"
	"killfeed/internal/services/players/repo"
	"killfeed/internal/services/players/service"
)

// Ports defines the players module ports
type Ports struct {
	Writer domain.WriterPort
	Reader domain.ReaderPort
}

// Module implements the players module. No routes; the ingest pipeline
// writes through Writer and the API reads through Reader
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the players module
func New(deps modkit.Deps) *Module {
	svc := service.New(repokit.TxRunner(deps.PG), repo.NewPG(), deps.Log)
	m := &Module{deps: deps}
	m.ports = Ports{Writer: svc, Reader: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "players" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Prefix returns the module prefix (none)
func (m *Module) Prefix() string { return "" }

// MountRoutes is a no-op as players has no routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
