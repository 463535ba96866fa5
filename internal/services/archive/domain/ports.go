package domain

import (
	"context"

	"github.com/google/uuid"

	"osmwatch/internal/core/changeset"
)

// SinkPort is the public archiving port used by the batch services
type SinkPort interface {
	// EnsureSchema creates the archive tables when absent, idempotent
	EnsureSchema(ctx context.Context) error

	// ArchiveRun persists the changesets and one ledger row, returning the run id
	ArchiveRun(ctx context.Context, run Run, cs []changeset.Changeset) (uuid.UUID, error)

	// LastRun reads the newest ledger row for source; found is false while the
	// ledger has no runs for that source
	LastRun(ctx context.Context, source string) (run Run, found bool, err error)
}

// StorageRepo is the storage surface the service drives
type StorageRepo interface {
	EnsureSchema(ctx context.Context) error
	UpsertChangesets(ctx context.Context, cs []changeset.Changeset) (int, error)
	InsertRun(ctx context.Context, run Run) error
	LastRun(ctx context.Context, source string) (Run, error)
	CountChangesets(ctx context.Context) (int64, error)
}
