package domain

import (
	"context"

	"osmwatch/internal/core/cities"
)

// ServicePort is consumed by handlers
type ServicePort interface {
	Cities(ctx context.Context) map[string]cities.WireEntry
	Classify(ctx context.Context, in ClassifyInput) ClassifyOutput
}
