// Package module wires stats into the API using modkit
package module

import (
	"net/http"

	modkit "killfeed/internal/modkit"
	"killfeed/internal/modkit/httpkit"
	"killfeed/internal/modkit/repokit"
	str "killfeed/internal/platform/strings"
	statshttp "killfeed/internal/services/api/stats/http"
	statsrepo "killfeed/internal/services/api/stats/repo"
	statssvc "killfeed/internal/services/api/stats/service"

	killsdom "killfeed/internal/services/kills/domain"
	playersdom "killfeed/internal/services/players/domain"
)

// Module implements the stats module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc statssvc.Service
}

// Ports declares the required injected worker port(s) for this API module
type Ports struct {
	Players playersdom.ReaderPort
	Kills   killsdom.ReaderPort
}

// New constructs the stats module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("stats"),
		modkit.WithPrefix("/stats"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Players == nil || injected.Kills == nil {
		panic("stats API module requires Players and Kills reader ports")
	}

	svc := statssvc.New(repokit.TxRunner(deps.PG), statsrepo.NewPG(), injected.Players, injected.Kills)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptStatsPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		statshttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
