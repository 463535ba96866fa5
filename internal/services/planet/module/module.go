// Package module provides the planet module implementation
package module

import (
	"osmwatch/internal/adapters/datadir"
	"osmwatch/internal/adapters/osmpds"
	"osmwatch/internal/core/cities"
	"osmwatch/internal/core/roster"
	"osmwatch/internal/modkit"
	"osmwatch/internal/platform/logger"
	phttp "osmwatch/internal/platform/net/http"
	archivedom "osmwatch/internal/services/archive/domain"
	"osmwatch/internal/services/planet/domain"
	"osmwatch/internal/services/planet/service"
)

// Ports defines the planet module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the planet module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the planet module from config.
// Requires deps.CH; sink is the optional archive sink
func New(deps modkit.Deps, sink archivedom.SinkPort) *Module {
	opts := FromConfig(deps.Cfg)

	if deps.CH == nil {
		logger.Get().Panic().Msg("planet module requires a clickhouse connection")
	}
	reader := osmpds.NewReader(deps.CH, osmpds.Options{Source: opts.Source})

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

	svc := service.New(reader, users, table, dir, sink, service.Config{Start: opts.Start})

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "planet" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// MountRoutes is a no-op as planet has no routes
func (m *Module) MountRoutes(_ phttp.Router) {}
