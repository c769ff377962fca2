// Package api provides the HTTP API for the application
package api

import (
	"killfeed/internal/platform/config"
	"killfeed/internal/platform/logger"
	phttp "killfeed/internal/platform/net/http"
	"killfeed/internal/platform/store"

	"killfeed/internal/modkit"
	"killfeed/internal/modkit/httpkit"
	"killfeed/internal/modkit/module"
	"killfeed/internal/modkit/swaggerkit"

	feedmod "killfeed/internal/services/api/feed/module"
	ctlmod "killfeed/internal/services/api/ingestctl/module"
	metamod "killfeed/internal/services/api/meta/module"
	statsmod "killfeed/internal/services/api/stats/module"

	// Worker modules own the ports the API modules consume
	ingestdom "killfeed/internal/services/ingest/domain"
	ingestmod "killfeed/internal/services/ingest/module"
	killsmod "killfeed/internal/services/kills/module"
	playersmod "killfeed/internal/services/players/module"
	serversmod "killfeed/internal/services/servers/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Log: *opt.Logger,
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	// Construct the WORKER modules first and extract their ports
	serversMod := serversmod.New(deps)
	playersMod := playersmod.New(deps)
	killsMod := killsmod.New(deps)

	registry := module.MustPortsOf[serversmod.Ports](serversMod).Registry
	playersPorts := module.MustPortsOf[playersmod.Ports](playersMod)
	killsPorts := module.MustPortsOf[killsmod.Ports](killsMod)

	// The ingest worker backs the admin trigger/backfill endpoints; the
	// scheduled loop runs in the poller binary, not here
	ingestMod := ingestmod.New(deps, modkit.WithPorts(ingestdom.Ports{
		Servers: registry,
		Players: playersPorts.Writer,
		Kills:   killsPorts.Writer,
	}))
	ingestPorts := module.MustPortsOf[ingestmod.Ports](ingestMod)

	// API modules with the worker ports injected
	statsMod := statsmod.New(deps, modkit.WithPorts(statsmod.Ports{
		Players: playersPorts.Reader,
		Kills:   killsPorts.Reader,
	}))
	ctlMod := ctlmod.New(deps, modkit.WithPorts(ctlmod.Ports{
		Runner: ingestPorts.Runner,
		Status: ingestPorts.Status,
	}))
	feedMod := feedmod.New(deps)

	// kills recorded by manual runs in this process stream to /feed/live
	killsPorts.Feed.AttachFeed(module.MustPortsOf[feedmod.Ports](feedMod).Sink)

	mods := []module.Module{
		metamod.New(deps),
		statsMod,
		ctlMod,
		feedMod,
		serversMod, // workers included so their ports are registered
		playersMod,
		killsMod,
		ingestMod,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
