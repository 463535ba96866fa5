package module

import (
	"context"

	"osmwatch/internal/core/cities"
	"osmwatch/internal/services/api/cities/domain"
	citysvc "osmwatch/internal/services/api/cities/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptCitiesPort exposes classification as a module port for cross module usage
type adaptCitiesPort struct{ svc citysvc.Service }

// Cities returns the table in its wire form
func (a adaptCitiesPort) Cities(ctx context.Context) map[string]cities.WireEntry {
	return a.svc.Cities(ctx)
}

// Classify places a point inside the first matching city box
func (a adaptCitiesPort) Classify(ctx context.Context, in domain.ClassifyInput) domain.ClassifyOutput {
	return a.svc.Classify(ctx, in)
}
