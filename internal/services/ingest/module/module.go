// Package module wires the ingest pipeline: sftp transport, discovery,
// guardrails and the scheduler service
package module

import (
	"killfeed/internal/adapters/remote/sftp"
	"killfeed/internal/core/logname"
	"killfeed/internal/modkit"
	"killfeed/internal/modkit/httpkit"
	"killfeed/internal/modkit/repokit"
	"killfeed/internal/services/ingest/discover"
	"killfeed/internal/services/ingest/domain"
	"killfeed/internal/services/ingest/guardrails"
	"killfeed/internal/services/ingest/repo"
	"killfeed/internal/services/ingest/service"
)

// Ports exposed by the ingest module
type Ports struct {
	Runner domain.RunnerPort
	Status domain.StatusPort
}

// Module implements the ingest module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the ingest module. The registry and both writer ports
// come from the sibling modules; composition roots construct those
// first and inject them with WithPorts(ingest/domain.Ports)
func New(deps modkit.Deps, mods ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("ingest"),
	}, mods...)...)

	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("ingest module: expected WithPorts(ingest/domain.Ports)")
	}
	if ports.Servers == nil || ports.Players == nil || ports.Kills == nil {
		panic("ingest module: Ports missing Servers, Players or Kills")
	}

	opts := FromConfig(deps.Cfg)

	dialer := sftp.NewDialer(sftp.Config{DialTimeout: opts.DialTimeout})
	locator := discover.New(deps.Log, discover.Options{
		FixtureDir:     opts.FixtureDir,
		FixtureEnabled: opts.FixtureEnabled,
	})

	var leaseFn service.LeaseFn
	if opts.EnableLeases {
		leaseFn = guardrails.MakeAdvisoryLease(deps, opts.LeaseTTL)
	}

	svc := service.New(
		repokit.TxRunner(deps.PG), repo.NewPG(),
		ports.Servers, ports.Players, ports.Kills,
		dialer, locator,
		service.Config{
			Interval:        opts.Interval,
			Pause:           opts.Pause,
			CycleBudget:     opts.CycleBudget,
			ServerTimeout:   opts.ServerTimeout,
			DialTimeout:     opts.DialTimeout,
			ReadTimeout:     opts.ReadTimeout,
			MemoryLimitMB:   int64(opts.MemoryLimitMB),
			AuthCooldown:    opts.AuthCooldown,
			MaxLookback:     opts.MaxLookback,
			OffsetRetention: opts.OffsetRetention,
			EnableLeases:    opts.EnableLeases,
			LeaseTTL:        opts.LeaseTTL,
		},
		leaseFn,
		deps.Log,
	)

	if opts.PatternsPath != "" {
		c, err := logname.Load(opts.PatternsPath)
		if err != nil {
			deps.Log.Warn().Err(err).
				Str("path", opts.PatternsPath).
				Msg("ingest: patterns file unusable, using the embedded cascade")
		} else {
			svc.WithCascade(c)
		}
	}

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc, Status: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "ingest" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Prefix returns the module prefix (none)
func (m *Module) Prefix() string { return "" }

// MountRoutes is a no-op as ingest has no routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
