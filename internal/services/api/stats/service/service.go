// Package service contains stats workflows over the fetched outputs
package service

import (
	"context"

	"osmwatch/internal/core/changeset"
	"osmwatch/internal/core/rollup"
	chdomain "osmwatch/internal/services/api/changesets/domain"
	"osmwatch/internal/services/api/stats/domain"
)

// Service defines the stats service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the stats service on top of the changesets dataset port
type Svc struct {
	ds         chdomain.DatasetPort
	rosterSize int
}

// New constructs a stats service
// rosterSize feeds the summary so coverage reads against the configured roster
func New(ds chdomain.DatasetPort, rosterSize int) *Svc {
	if ds == nil {
		panic("stats.Service requires a non nil dataset port")
	}
	return &Svc{ds: ds, rosterSize: rosterSize}
}

// Weekly returns the weekly rollup buckets
func (s *Svc) Weekly(ctx context.Context) (map[string][]changeset.Flat, error) {
	return s.ds.Weekly(ctx)
}

// Monthly returns the monthly rollup buckets
func (s *Svc) Monthly(ctx context.Context) (map[string][]changeset.Flat, error) {
	return s.ds.Monthly(ctx)
}

// Summary folds the newest rollup into run level totals
func (s *Svc) Summary(ctx context.Context) (rollup.Summary, error) {
	buckets, err := s.ds.Newest(ctx)
	if err != nil {
		return rollup.Summary{}, err
	}
	return rollup.Summarize(rollup.Flatten(buckets), s.rosterSize, len(buckets)), nil
}

// Contributors returns the busiest users of the newest rollup
func (s *Svc) Contributors(ctx context.Context, limit int) ([]rollup.Contributor, error) {
	buckets, err := s.ds.Newest(ctx)
	if err != nil {
		return nil, err
	}
	return rollup.TopContributors(rollup.Flatten(buckets), limit), nil
}
