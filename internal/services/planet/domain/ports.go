// Package domain declares the planet service ports
package domain

import (
	"context"
	"time"

	"osmwatch/internal/core/changeset"
	"osmwatch/internal/core/rollup"
)

// RunnerPort runs one bulk scan of the public changeset export
type RunnerPort interface {
	Run(ctx context.Context) (rollup.Summary, error)
}

// ExportReader scans the export for the roster's changesets since a date.
// Implementations return boxed rows only, ordered by creation time
type ExportReader interface {
	Changesets(ctx context.Context, users []string, since time.Time) ([]changeset.Changeset, error)
}
