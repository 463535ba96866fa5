// Package module provides the fetch module implementation
package module

import (
	"context"
	"time"

	"osmwatch/internal/adapters/datadir"
	"osmwatch/internal/adapters/osmapi"
	"osmwatch/internal/core/changeset"
	"osmwatch/internal/core/cities"
	"osmwatch/internal/core/roster"
	"osmwatch/internal/modkit"
	"osmwatch/internal/platform/logger"
	phttp "osmwatch/internal/platform/net/http"
	archivedom "osmwatch/internal/services/archive/domain"
	"osmwatch/internal/services/fetch/domain"
	"osmwatch/internal/services/fetch/service"
)

// Ports defines the fetch module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the fetch module
type Module struct {
	deps  modkit.Deps
	ports Ports
	opts  Options
}

// New constructs the fetch module from config.
// sink is the optional archive sink; pass nil when archiving is off
func New(deps modkit.Deps, sink archivedom.SinkPort) *Module {
	opts := FromConfig(deps.Cfg)

	client := osmapi.NewClient(osmapi.Options{
		BaseURL:    opts.BaseURL,
		UserAgent:  opts.UserAgent,
		Timeout:    opts.Timeout,
		MaxRetries: opts.MaxRetries,
	})

	dir, err := datadir.New(opts.DataDir)
	if err != nil {
		logger.Get().Panic().Err(err).Str("dir", opts.DataDir).Msg("data dir init failed")
	}
	users, err := roster.Resolve(opts.Users, opts.UsersFile)
	if err != nil {
		logger.Get().Panic().Err(err).Msg("roster load failed")
	}
	table, err := cities.Resolve(opts.CitiesFile)
	if err != nil {
		logger.Get().Panic().Err(err).Msg("cities load failed")
	}

	svc := service.New(pager{c: client}, users, table, dir, sink, service.Config{
		Start:     opts.Start,
		PageDelay: opts.PageDelay,
		UserDelay: opts.UserDelay,
	})

	m := &Module{deps: deps, opts: opts}
	m.ports = Ports{Runner: svc}
	return m
}

// Every reports the configured schedule interval (0 = run once)
func (m *Module) Every() time.Duration { return m.opts.Every }

// Name returns the module name
func (m *Module) Name() string { return "fetch" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// MountRoutes is a no-op as fetch has no routes
func (m *Module) MountRoutes(_ phttp.Router) {}

// pager adapts the osmapi client to the domain port
type pager struct{ c *osmapi.Client }

func (p pager) ChangesetsPage(ctx context.Context, user string, start, before time.Time) ([]changeset.Changeset, error) {
	return p.c.ChangesetsPage(ctx, user, osmapi.TimeWindow{Start: start, End: before})
}
