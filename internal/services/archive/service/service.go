// Package service provides the archive sink implementation
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"osmwatch/internal/core/changeset"
	"osmwatch/internal/modkit/repokit"
	perr "osmwatch/internal/platform/errors"
	"osmwatch/internal/platform/logger"
	"osmwatch/internal/platform/store"
	"osmwatch/internal/services/archive/domain"
)

// Service implements domain.SinkPort on top of Postgres
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[domain.StorageRepo]
	log    logger.Logger
}

// New constructs the archive service
func New(db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo]) *Service {
	if db == nil {
		panic("archive.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("archive.Service requires a non nil Repo binder")
	}
	return &Service{db: db, binder: binder, log: *logger.Named("archive")}
}

// EnsureSchema creates the archive tables when absent
func (s *Service) EnsureSchema(ctx context.Context) error {
	return s.db.Tx(ctx, func(q repokit.Queryer) error {
		return repokit.MustBind(s.binder, q).EnsureSchema(ctx)
	})
}

// ArchiveRun upserts the run's changesets and appends a ledger row in one transaction.
// The run id is assigned here; the caller's ID field is ignored
func (s *Service) ArchiveRun(ctx context.Context, run domain.Run, cs []changeset.Changeset) (uuid.UUID, error) {
	run.ID = uuid.New()
	// the run id rides the context so traced SQL lines carry it
	ctx = store.WithRequestID(ctx, run.ID.String())
	if run.Status == "" {
		run.Status = domain.StatusOK
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}
	if run.Changesets == 0 {
		run.Changesets = len(cs)
	}

	var written int
	var total int64
	attempt := func() error {
		return s.db.Tx(ctx, func(q repokit.Queryer) error {
			repo := repokit.MustBind(s.binder, q)
			n, err := repo.UpsertChangesets(ctx, cs)
			if err != nil {
				return err
			}
			written = n
			if err := repo.InsertRun(ctx, run); err != nil {
				return err
			}
			total, err = repo.CountChangesets(ctx)
			return err
		})
	}
	err := attempt()
	if err != nil && perr.IsRetryable(err) {
		// serialization failures and deadlocks get one more shot
		s.log.Warn().Err(err).Str("run_id", run.ID.String()).Msg("archive tx retrying")
		err = attempt()
	}
	if err != nil {
		return uuid.Nil, err
	}

	s.log.Info().
		Str("run_id", run.ID.String()).
		Str("source", run.Source).
		Str("status", run.Status).
		Int("users", run.Users).
		Int("changesets", written).
		Int64("archive_total", total).
		Msg("run archived")
	return run.ID, nil
}

// LastRun reads the newest ledger row for source.
// found is false while the ledger has no runs for that source
func (s *Service) LastRun(ctx context.Context, source string) (domain.Run, bool, error) {
	var run domain.Run
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		run, err = repokit.MustBind(s.binder, q).LastRun(ctx, source)
		return err
	})
	switch {
	case err == nil:
		return run, true, nil
	case perr.IsCode(err, perr.ErrorCodeNotFound):
		return domain.Run{}, false, nil
	default:
		return domain.Run{}, false, err
	}
}
