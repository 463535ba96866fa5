// @title         osmwatch API
// @version       0.1.0
// @description   Read only endpoints over the changeset watcher outputs

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"osmwatch/internal/platform/config"
	"osmwatch/internal/platform/logger"
	phttp "osmwatch/internal/platform/net/http"
	"osmwatch/internal/platform/store"

	"osmwatch/internal/services/api"
)

func main() {
	// modules derive their own CORE_* scopes, so they get the root conf
	root := config.New()
	core := root.Prefix("CORE_")
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()

	// postgres only backs the readiness probe, and only when the
	// archive is part of the deployment
	scfg := store.Config{AppName: "osmwatch-api"}
	if core.MayBool("ARCHIVE_ENABLED", false) {
		pgCfg := root.Prefix("SERVICE_PGSQL_")
		scfg.PG = store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", true),
		}
	}
	st, err := store.Open(context.Background(), scfg, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(core)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run drains and returns nil on SIGINT/SIGTERM
	if err := srv.Run(ctx); err != nil {
		l.Fatal().Err(err).Msg("http server stopped")
	}
}
