package module

import (
	"context"

	"osmwatch/internal/core/changeset"
	chsvc "osmwatch/internal/services/api/changesets/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptDatasetPort exposes the dataset reads as module ports for cross module usage
type adaptDatasetPort struct{ svc chsvc.Service }

// Newest returns the most recently written rollup buckets
func (a adaptDatasetPort) Newest(ctx context.Context) (map[string][]changeset.Flat, error) {
	return a.svc.Newest(ctx)
}

// Weekly returns the weekly rollup buckets
func (a adaptDatasetPort) Weekly(ctx context.Context) (map[string][]changeset.Flat, error) {
	return a.svc.Weekly(ctx)
}

// Monthly returns the monthly rollup buckets
func (a adaptDatasetPort) Monthly(ctx context.Context) (map[string][]changeset.Flat, error) {
	return a.svc.Monthly(ctx)
}
