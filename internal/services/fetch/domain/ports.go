// Package domain declares the fetch service ports
package domain

import (
	"context"
	"time"

	"osmwatch/internal/core/changeset"
	"osmwatch/internal/core/rollup"
)

// RunnerPort runs roster fetches against the OSM API
type RunnerPort interface {
	// Run performs one complete roster fetch and writes the outputs
	Run(ctx context.Context) (rollup.Summary, error)

	// RunEvery keeps running on a fixed schedule until ctx ends.
	// every <= 0 degrades to a single Run
	RunEvery(ctx context.Context, every time.Duration) error
}

// Pager fetches one page of a user's changesets created inside [start, before).
// A zero before means no upper bound
type Pager interface {
	ChangesetsPage(ctx context.Context, user string, start, before time.Time) ([]changeset.Changeset, error)
}
