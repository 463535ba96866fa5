// Package domain holds contracts for the stats API module
package domain

import (
	"context"

	"osmwatch/internal/core/changeset"
	"osmwatch/internal/core/rollup"
)

// ServicePort is consumed by handlers and other modules
// Summary and Contributors work over the newest rollup on disk
type ServicePort interface {
	Weekly(ctx context.Context) (map[string][]changeset.Flat, error)
	Monthly(ctx context.Context) (map[string][]changeset.Flat, error)
	Summary(ctx context.Context) (rollup.Summary, error)
	Contributors(ctx context.Context, limit int) ([]rollup.Contributor, error)
}
