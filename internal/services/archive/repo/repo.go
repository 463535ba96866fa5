// Package repo provides postgres access for the archive sink
package repo

import (
	"context"
	"encoding/json"
	"errors"

	"osmwatch/internal/core/changeset"
	"osmwatch/internal/modkit/repokit"
	perr "osmwatch/internal/platform/errors"
	"osmwatch/internal/platform/store"
	"osmwatch/internal/services/archive/domain"
)

type (
	// PG is a Postgres binder for domain.StorageRepo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for domain.StorageRepo
func NewPG() repokit.Binder[domain.StorageRepo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.StorageRepo { return &queries{q: q} }

// EnsureSchema creates the archive tables when absent (idempotent)
func (r *queries) EnsureSchema(ctx context.Context) error {
	up := []string{
		`CREATE TABLE IF NOT EXISTS changesets (
			id bigint PRIMARY KEY,
			user_name text NOT NULL,
			uid bigint NOT NULL DEFAULT 0,
			created_at timestamptz NOT NULL,
			closed_at timestamptz,
			open boolean NOT NULL DEFAULT false,
			changes_count integer NOT NULL DEFAULT 0,
			comments_count integer NOT NULL DEFAULT 0,
			min_lon double precision,
			min_lat double precision,
			max_lon double precision,
			max_lat double precision,
			city text NOT NULL DEFAULT '',
			tags jsonb,
			archived_at timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS changesets_user_created_idx
			ON changesets (user_name, created_at)`,
		`CREATE TABLE IF NOT EXISTS fetch_runs (
			id uuid PRIMARY KEY,
			source text NOT NULL,
			started_at timestamptz NOT NULL,
			finished_at timestamptz NOT NULL,
			user_count integer NOT NULL,
			changeset_count integer NOT NULL,
			status text NOT NULL,
			error text NOT NULL DEFAULT ''
		)`,
	}
	for _, sql := range up {
		if _, err := r.q.Exec(ctx, sql); err != nil {
			return perr.FromPostgres(err, "archive ensure schema failed")
		}
	}
	return nil
}

// UpsertChangesets writes full rows keyed by changeset id
func (r *queries) UpsertChangesets(ctx context.Context, cs []changeset.Changeset) (int, error) {
	const upsertSQL = `
		INSERT INTO changesets (
			id, user_name, uid, created_at, closed_at, open,
			changes_count, comments_count,
			min_lon, min_lat, max_lon, max_lat,
			city, tags, archived_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, CAST($14 AS jsonb), now()
		)
		ON CONFLICT (id) DO UPDATE SET
			user_name = EXCLUDED.user_name,
			uid = EXCLUDED.uid,
			created_at = EXCLUDED.created_at,
			closed_at = EXCLUDED.closed_at,
			open = EXCLUDED.open,
			changes_count = EXCLUDED.changes_count,
			comments_count = EXCLUDED.comments_count,
			min_lon = EXCLUDED.min_lon,
			min_lat = EXCLUDED.min_lat,
			max_lon = EXCLUDED.max_lon,
			max_lat = EXCLUDED.max_lat,
			city = EXCLUDED.city,
			tags = EXCLUDED.tags,
			archived_at = now()
	`

	written := 0
	for _, c := range cs {
		var minLon, minLat, maxLon, maxLat *float64
		if c.BBox != nil {
			minLon, minLat = &c.BBox.MinLon, &c.BBox.MinLat
			maxLon, maxLat = &c.BBox.MaxLon, &c.BBox.MaxLat
		}

		var tags *string
		if len(c.Tags) > 0 {
			b, err := json.Marshal(c.Tags)
			if err != nil {
				return written, perr.Wrapf(err, perr.ErrorCodeJSON, "archive marshal tags for %d failed", c.ID)
			}
			s := string(b)
			tags = &s
		}

		_, err := r.q.Exec(ctx, upsertSQL,
			c.ID, c.User, c.UID, c.CreatedAt.UTC(), c.ClosedAt, c.Open,
			c.ChangesCount, c.CommentsCount,
			minLon, minLat, maxLon, maxLat,
			c.City, tags,
		)
		if err != nil {
			return written, perr.FromPostgresf(err, "archive upsert changeset %d failed", c.ID)
		}
		written++
	}
	return written, nil
}

// InsertRun appends one ledger row
func (r *queries) InsertRun(ctx context.Context, run domain.Run) error {
	err := store.ExecOne(ctx, r.q, `
		INSERT INTO fetch_runs (
			id, source, started_at, finished_at,
			user_count, changeset_count, status, error
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		run.ID, run.Source, run.StartedAt.UTC(), run.FinishedAt.UTC(),
		run.Users, run.Changesets, run.Status, run.Error,
	)
	if err != nil {
		return perr.FromPostgres(err, "archive insert run failed")
	}
	return nil
}

// LastRun returns the newest ledger row for source.
// An empty ledger surfaces as perr.ErrNotFound
func (r *queries) LastRun(ctx context.Context, source string) (domain.Run, error) {
	run, err := store.One(ctx, r.q, scanRun, `
		SELECT id, source, started_at, finished_at,
			user_count, changeset_count, status, error
		FROM fetch_runs
		WHERE source = $1
		ORDER BY finished_at DESC
		LIMIT 1
	`, source)
	if err != nil && !errors.Is(err, perr.ErrNotFound) {
		return domain.Run{}, perr.FromPostgresf(err, "archive last run for %s failed", source)
	}
	return run, err
}

func scanRun(r repokit.Row) (domain.Run, error) {
	var run domain.Run
	err := r.Scan(
		&run.ID, &run.Source, &run.StartedAt, &run.FinishedAt,
		&run.Users, &run.Changesets, &run.Status, &run.Error,
	)
	return run, err
}

// CountChangesets reports how many rows the archive holds
func (r *queries) CountChangesets(ctx context.Context) (int64, error) {
	n, err := store.Scalar[int64](ctx, r.q, `SELECT count(*) FROM changesets`)
	if err != nil {
		return 0, perr.FromPostgres(err, "archive count changesets failed")
	}
	return n, nil
}
