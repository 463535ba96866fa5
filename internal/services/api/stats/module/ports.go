package module

import (
	"context"

	"osmwatch/internal/core/changeset"
	"osmwatch/internal/core/rollup"
	statssvc "osmwatch/internal/services/api/stats/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptStatsPort exposes service methods as module ports for cross module usage
type adaptStatsPort struct{ svc statssvc.Service }

// Weekly returns the weekly rollup buckets
func (a adaptStatsPort) Weekly(ctx context.Context) (map[string][]changeset.Flat, error) {
	return a.svc.Weekly(ctx)
}

// Monthly returns the monthly rollup buckets
func (a adaptStatsPort) Monthly(ctx context.Context) (map[string][]changeset.Flat, error) {
	return a.svc.Monthly(ctx)
}

// Summary folds the newest rollup into run level totals
func (a adaptStatsPort) Summary(ctx context.Context) (rollup.Summary, error) {
	return a.svc.Summary(ctx)
}

// Contributors returns the busiest users of the newest rollup
func (a adaptStatsPort) Contributors(ctx context.Context, limit int) ([]rollup.Contributor, error) {
	return a.svc.Contributors(ctx, limit)
}
