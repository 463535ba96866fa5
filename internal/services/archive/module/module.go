// Package module provides the archive module implementation
package module

import (
	"osmwatch/internal/modkit"
	phttp "osmwatch/internal/platform/net/http"
	"osmwatch/internal/services/archive/domain"
	"osmwatch/internal/services/archive/repo"
	"osmwatch/internal/services/archive/service"
)

// Ports defines the archive module ports
type Ports struct {
	Sink domain.SinkPort
}

// Module implements the archive module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the archive module.
// Requires deps.PG; callers gate construction on the archive toggle
func New(deps modkit.Deps) *Module {
	svc := service.New(deps.PG, repo.NewPG())

	m := &Module{deps: deps}
	m.ports = Ports{Sink: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "archive" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// MountRoutes is a no-op as archive has no routes
func (m *Module) MountRoutes(_ phttp.Router) {}
