// Package module wires the live kill feed into the API using modkit
package module

import (
	"net/http"

	modkit "killfeed/internal/modkit"
	"killfeed/internal/modkit/httpkit"
	str "killfeed/internal/platform/strings"

	feedhttp "killfeed/internal/services/api/feed/http"
	killsdom "killfeed/internal/services/kills/domain"
)

// Ports exposed by the feed module. The composition root hands Sink to
// the kills module so applied events reach subscribers
type Ports struct {
	Sink killsdom.FeedSink
}

// Module implements the feed module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	hub *feedhttp.Hub
}

// New constructs the feed module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("feed"),
		modkit.WithPrefix("/feed"),
	}, opts...)...)

	hub := feedhttp.NewHub(deps.Log)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		hub:       hub,
	}
	m.ports = Ports{Sink: hub}

	external := b.Register
	m.register = func(r httpkit.Router) {
		feedhttp.Register(r, hub)
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

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
