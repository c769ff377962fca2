package main

import (
	"context"
	"flag"
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
	if chURL := chCfg.MayString("DBURL", ""); chURL != "" {
		storeCfg.CH = store.CHConfig{
			Enabled:    true,
			URL:        chURL,
			ClientName: "killfeed",
			ClientTag:  "backfill",
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
		fServer   = flag.String("server", "", "server id to replay")
		fAll      = flag.Bool("all", false, "replay every configured server")
		fDays     = flag.Int("days", 30, "lookback window in days (1..90)")
		fPlanOnly = flag.Bool("plan-only", false, "print what each run would cover and exit")
	)
	flag.Parse()

	if *fServer == "" && !*fAll {
		l.Panic().Msg("must provide -server or -all")
	}
	if *fServer != "" && *fAll {
		l.Panic().Msg("-server and -all are mutually exclusive")
	}
	if *fDays < 1 || *fDays > 90 {
		l.Panic().Int("days", *fDays).Msg("-days out of range 1..90")
	}
	lookback := time.Duration(*fDays) * 24 * time.Hour

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		CH:  st.CH,
		Log: *l,
	}

	sm := serversmod.New(deps)
	pm := playersmod.New(deps)
	km := killsmod.New(deps)

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

	status, err := ports.Status.Status(ctx)
	if err != nil {
		l.Fatal().Err(err).Msg("could not read server status")
	}

	// Narrow to the requested server and fail early on a typo
	targets := status.Servers
	if *fServer != "" {
		targets = nil
		for _, s := range status.Servers {
			if s.ServerID == *fServer {
				targets = []ingestdom.ServerStatus{s}
				break
			}
		}
		if len(targets) == 0 {
			l.Fatal().Str("server_id", *fServer).Msg("server not configured")
		}
	}

	if *fPlanOnly {
		floor := time.Now().UTC().Add(-lookback)
		mode := ingestdom.ModeFor(lookback)
		for _, s := range targets {
			ev := l.Info().
				Str("server_id", s.ServerID).
				Str("name", s.Name).
				Str("mode", mode.String()).
				Time("floor", floor)
			if !s.Cursor.IsZero() {
				ev = ev.Time("cursor", s.Cursor)
			}
			ev.Msg("would replay")
		}
		return
	}

	failed := 0
	for _, s := range targets {
		rep, err := ports.Runner.RunServer(ctx, s.ServerID, lookback)
		if err != nil {
			failed++
			l.Error().Err(err).Str("server_id", s.ServerID).Msg("replay failed")
			continue
		}
		l.Info().
			Str("server_id", rep.ServerID).
			Str("mode", rep.Mode.String()).
			Str("strategy", rep.Strategy).
			Int("files", rep.Files).
			Int64("events", rep.Events).
			Int64("duplicates", rep.Duplicates).
			Dur("elapsed", rep.Elapsed).
			Msg("replay complete")
	}
	if failed > 0 {
		l.Fatal().Int("failed", failed).Msg("backfill finished with failures")
	}
}
