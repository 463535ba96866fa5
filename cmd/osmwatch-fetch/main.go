package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"osmwatch/internal/modkit"
	"osmwatch/internal/modkit/module"
	"osmwatch/internal/modkit/repokit"
	"osmwatch/internal/platform/config"
	"osmwatch/internal/platform/logger"
	"osmwatch/internal/platform/store"

	archivedom "osmwatch/internal/services/archive/domain"
	archivemod "osmwatch/internal/services/archive/module"
	fetchmod "osmwatch/internal/services/fetch/module"
)

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

func main() {
	root := config.New()
	l := logger.Get()

	var (
		fStart   = flag.String("start", "", "UTC start date YYYY-MM-DD (overrides CORE_START)")
		fEvery   = flag.Duration("every", 0, "rerun interval, e.g. 6h (0 runs once; overrides CORE_FETCH_EVERY)")
		fData    = flag.String("data", "", "output directory (overrides CORE_DATA_DIR)")
		fUsers   = flag.String("users", "", "comma separated roster (overrides CORE_USERS)")
		fCities  = flag.String("cities", "", "city table JSON file (overrides CORE_CITIES_FILE)")
		fArchive = flag.Bool("archive", false, "also archive full runs to postgres")
	)
	flag.Parse()

	// Surface opts to modules that read FromConfig
	mustSetEnv("CORE_START", *fStart)
	mustSetEnv("CORE_DATA_DIR", *fData)
	mustSetEnv("CORE_USERS", *fUsers)
	mustSetEnv("CORE_CITIES_FILE", *fCities)
	if *fEvery > 0 {
		mustSetEnv("CORE_FETCH_EVERY", fEvery.String())
	}
	if *fArchive {
		mustSetEnv("CORE_ARCHIVE_ENABLED", "1")
	}

	core := root.Prefix("CORE_")
	archiveOn := core.MayBool("ARCHIVE_ENABLED", false)

	// Postgres only comes up when archiving is on; the files are the product
	scfg := store.Config{AppName: "osmwatch-fetch"}
	if archiveOn {
		pgCfg := root.Prefix("SERVICE_PGSQL_")
		scfg.PG = store.PGConfig{
			Enabled:        true,
			URL:            pgCfg.MustString("DBURL"),
			MaxConns:       int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs:    pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:         pgCfg.MayBool("LOG_SQL", true),
			ConnectRetries: pgCfg.MayInt("CONNECT_RETRIES", 0),
			PingTimeout:    pgCfg.MayDuration("PING_TIMEOUT", 0),
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Shared deps for modules
	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *l,
	}

	var sink archivedom.SinkPort
	if archiveOn {
		// a dead postgres should abort before any fetch work happens
		repokit.MustGuard(ctx, st)
		am := archivemod.New(deps)
		module.Register(am.Name(), am.Ports())
		sink = am.Ports().(archivemod.Ports).Sink
		if err := sink.EnsureSchema(ctx); err != nil {
			l.Panic().Err(err).Msg("archive schema init failed")
		}
		if last, ok, err := sink.LastRun(ctx, archivedom.SourceRest); err != nil {
			l.Warn().Err(err).Msg("archive last run lookup failed")
		} else if ok {
			l.Info().
				Time("finished_at", last.FinishedAt).
				Str("status", last.Status).
				Int("changesets", last.Changesets).
				Msg("previous archived run")
		}
	}

	fm := fetchmod.New(deps, sink)
	module.Register(fm.Name(), fm.Ports())

	ports := fm.Ports().(fetchmod.Ports)
	if every := fm.Every(); every > 0 {
		if err := ports.Runner.RunEvery(ctx, every); err != nil {
			l.Fatal().Err(err).Msg("fetch loop failed")
		}
		return
	}
	if _, err := ports.Runner.Run(ctx); err != nil {
		l.Fatal().Err(err).Msg("fetch failed")
	}
}
