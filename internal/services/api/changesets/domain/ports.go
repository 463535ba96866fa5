package domain

import (
	"context"
	"encoding/json"

	"osmwatch/internal/core/changeset"
)

// ServicePort is consumed by handlers
type ServicePort interface {
	Raw(ctx context.Context) (json.RawMessage, error)
	Query(ctx context.Context, in QueryInput) ([]changeset.Flat, error)
}

// DatasetPort exposes the on disk outputs to sibling modules
// Newest picks whichever rollup file the last run wrote most recently
type DatasetPort interface {
	Newest(ctx context.Context) (map[string][]changeset.Flat, error)
	Weekly(ctx context.Context) (map[string][]changeset.Flat, error)
	Monthly(ctx context.Context) (map[string][]changeset.Flat, error)
}
