// Package service contains the changesets read workflows
package service

import (
	"context"
	"encoding/json"
	"time"

	"osmwatch/internal/core/changeset"
	"osmwatch/internal/core/geo"
	"osmwatch/internal/core/rollup"
	perr "osmwatch/internal/platform/errors"
	"osmwatch/internal/services/api/changesets/domain"
	"osmwatch/internal/services/api/changesets/repo"
)

// DefaultLimit caps query responses when the caller does not set one
const DefaultLimit = 100

// Service defines the changesets service contract
type Service interface {
	domain.ServicePort
	domain.DatasetPort
}

// Svc implements the changesets service over the file repo
type Svc struct {
	files *repo.Files
}

// New constructs a changesets service
func New(files *repo.Files) *Svc {
	if files == nil {
		panic("changesets.Service requires a non nil file repo")
	}
	return &Svc{files: files}
}

// Raw returns the changesets file bytes as written by the last run
func (s *Svc) Raw(ctx context.Context) (json.RawMessage, error) { return s.files.Raw(ctx) }

// Newest returns the most recently written rollup buckets
func (s *Svc) Newest(ctx context.Context) (map[string][]changeset.Flat, error) {
	return s.files.Newest(ctx)
}

// Weekly returns the weekly rollup buckets
func (s *Svc) Weekly(ctx context.Context) (map[string][]changeset.Flat, error) {
	return s.files.Weekly(ctx)
}

// Monthly returns the monthly rollup buckets
func (s *Svc) Monthly(ctx context.Context) (map[string][]changeset.Flat, error) {
	return s.files.Monthly(ctx)
}

// Query filters the newest rollup flats by user, city, bbox and date window
// results come back ordered by creation time, capped at the limit
func (s *Svc) Query(ctx context.Context, in domain.QueryInput) ([]changeset.Flat, error) {
	buckets, err := s.files.Newest(ctx)
	if err != nil {
		return nil, err
	}

	var from, to time.Time
	if in.From != "" {
		if from, err = time.Parse("2006-01-02", in.From); err != nil {
			return nil, perr.Newf(perr.ErrorCodeValidation, "from must be a 2006-01-02 date")
		}
	}
	if in.To != "" {
		d, err := time.Parse("2006-01-02", in.To)
		if err != nil {
			return nil, perr.Newf(perr.ErrorCodeValidation, "to must be a 2006-01-02 date")
		}
		to = d.Add(24 * time.Hour)
	}

	var box *geo.BBox
	if in.BBox != "" {
		b, err := geo.ParseBBox(in.BBox)
		if err != nil {
			return nil, perr.Newf(perr.ErrorCodeValidation, "bbox must be a min_lon,min_lat,max_lon,max_lat box")
		}
		box = &b
	}

	users := make(map[string]bool, len(in.Users))
	for _, u := range in.Users {
		users[u] = true
	}
	limit := in.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	out := make([]changeset.Flat, 0, limit)
	for _, f := range rollup.Flatten(buckets) {
		if len(users) > 0 && !users[f.User] {
			continue
		}
		if in.City != "" && f.City != in.City {
			continue
		}
		if box != nil && !box.Contains(geo.Point{Lon: f.Lon, Lat: f.Lat}) {
			continue
		}
		if !from.IsZero() && f.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !f.CreatedAt.Before(to) {
			continue
		}
		out = append(out, f)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
