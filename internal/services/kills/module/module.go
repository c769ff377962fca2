// Package module wires kill document storage for use by other modules
package module

import (
	"killfeed/internal/modkit"
	"killfeed/internal/modkit/httpkit"
	"killfeed/internal/modkit/repokit"

	"killfeed/internal/services/kills/domain"
	"killfeed/internal/services/kills/repo"
	"killfeed/internal/services/kills/service"
)

// Ports defines the kills module ports
type Ports struct {
	Writer domain.WriterPort
	Reader domain.ReaderPort
	Feed   domain.FeedAttacher
}

// Module implements the kills module. No routes; writes arrive from the
// ingest pipeline and reads from the API module through Ports
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the kills module. deps.CH may be nil; the analytics
// mirror then stays dark
func New(deps modkit.Deps) *Module {
	svc := service.New(repokit.TxRunner(deps.PG), repo.NewHybrid(deps.CH), deps.Log)
	m := &Module{deps: deps}
	m.ports = Ports{Writer: svc, Reader: svc, Feed: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "kills" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Prefix returns the module prefix (none)
func (m *Module) Prefix() string { return "" }

// MountRoutes is a no-op as kills has no routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
