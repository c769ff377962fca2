// Package module wires the ingest admin surface into the API using modkit
package module

import (
	"net/http"

	modkit "killfeed/internal/modkit"
	"killfeed/internal/modkit/httpkit"
	str "killfeed/internal/platform/strings"
	ctlhttp "killfeed/internal/services/api/ingestctl/http"
	ctlsvc "killfeed/internal/services/api/ingestctl/service"

	ingestdom "killfeed/internal/services/ingest/domain"
)

// Module implements the ingestctl module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc ctlsvc.Service
}

// Ports declares the required injected worker port(s) for this API module
type Ports struct {
	Runner ingestdom.RunnerPort
	Status ingestdom.StatusPort
}

// New constructs the ingestctl module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("ingestctl"),
		modkit.WithPrefix("/ingest"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Runner == nil || injected.Status == nil {
		panic("ingestctl API module requires the ingest Runner and Status ports")
	}

	svc := ctlsvc.New(injected.Runner, injected.Status)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptCtlPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		ctlhttp.Register(r, m.svc)
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
