package main

import (
	"context"
	"flag"
	"os"
	"time"

	"killfeed/internal/modkit"
	"killfeed/internal/modkit/module"
	"killfeed/internal/platform/config"
	"killfeed/internal/platform/logger"
	"killfeed/internal/platform/store"

	ingestdom "killfeed/internal/services/ingest/domain"
	ingestmod "killfeed/internal/services/ingest/module"
	killsmod "killfeed/internal/services/kills/module"
	playersmod "killfeed/internal/services/players/module"
	serversmod "killfeed/internal/services/servers/module"
)

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	l := logger.Get()

	storeCfg := store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
	}
	// mirror is optional; the poller records to postgres either way
	if chURL := chCfg.MayString("DBURL", ""); chURL != "" {
		storeCfg.CH = store.CHConfig{
			Enabled:    true,
			URL:        chURL,
			ClientName: "killfeed",
			ClientTag:  "poller",
		}
	}

	st, err := store.Open(context.Background(), storeCfg, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	var (
		fOnce     = flag.Bool("once", false, "run a single cycle and exit")
		fInterval = flag.Duration("interval", 0, "override the poll interval, e.g. 2m")
		fLeases   = flag.Bool("leases", false, "take advisory leases per server (multi poller deployments)")
	)
	flag.Parse()

	// Surface flag overrides to the module's CORE_INGEST_* config
	if *fInterval > 0 {
		mustSetEnv("CORE_INGEST_INTERVAL", fInterval.String())
	}
	if *fLeases {
		mustSetEnv("CORE_INGEST_LEASES", "1")
	}

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		CH:  st.CH,
		Log: *l,
	}

	// Build dependency modules first
	sm := serversmod.New(deps)
	pm := playersmod.New(deps)
	km := killsmod.New(deps)

	// Build the ingest module with ports injected from deps modules
	im := ingestmod.New(deps, modkit.WithPorts(ingestdom.Ports{
		Servers: module.MustPortsOf[serversmod.Ports](sm).Registry,
		Players: module.MustPortsOf[playersmod.Ports](pm).Writer,
		Kills:   module.MustPortsOf[killsmod.Ports](km).Writer,
	}))

	module.Register(sm.Name(), sm.Ports())
	module.Register(pm.Name(), pm.Ports())
	module.Register(km.Name(), km.Ports())
	module.Register(im.Name(), im.Ports())

	ports := module.MustPortsOf[ingestmod.Ports](im)

	ctx := context.Background()

	if *fOnce {
		started := time.Now()
		rep, err := ports.Runner.RunCycle(ctx)
		if err != nil {
			l.Fatal().Err(err).Msg("ingest cycle failed")
		}
		l.Info().
			Int("servers", rep.Servers).
			Int("failed", rep.Failed).
			Dur("elapsed", time.Since(started)).
			Msg("cycle complete")
		return
	}

	// Run forever (until ctx cancel) polling every configured server
	if err := ports.Runner.Loop(ctx); err != nil {
		l.Fatal().Err(err).Msg("ingest loop stopped")
	}
}
