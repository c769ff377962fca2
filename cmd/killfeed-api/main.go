// @title         Killfeed API
// @version       0.1.0
// @description   Admin and read endpoints for ingestion, player stats and the live kill feed

package main

import (
	"context"

	"killfeed/internal/platform/config"
	"killfeed/internal/platform/logger"
	phttp "killfeed/internal/platform/net/http"
	"killfeed/internal/platform/store"

	"killfeed/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*
	// bring up logging early
	l := logger.Get()

	// the analytics mirror is optional; without a DSN the API serves
	// heatmaps and weapon rankings from postgres
	storeCfg := store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", true),
		},
	}
	if chURL := chCfg.MayString("DBURL", ""); chURL != "" {
		storeCfg.CH = store.CHConfig{
			Enabled:    true,
			URL:        chURL,
			ClientName: "killfeed",
			ClientTag:  "api",
		}
	}

	st, err := store.Open(context.Background(), storeCfg, store.WithLogger(*logger.Get()))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
