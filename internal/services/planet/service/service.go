// Package service implements the planet export batch
package service

import (
	"context"
	"time"

	"osmwatch/internal/adapters/datadir"
	"osmwatch/internal/core/changeset"
	"osmwatch/internal/core/cities"
	"osmwatch/internal/core/rollup"
	"osmwatch/internal/platform/logger"
	archivedom "osmwatch/internal/services/archive/domain"
	"osmwatch/internal/services/planet/domain"
)

// Config holds the planet run knobs
type Config struct {
	// Start is the lower creation time bound of the scan
	Start time.Time
}

// Service implements domain.RunnerPort
type Service struct {
	reader domain.ExportReader
	users  []string
	cities cities.Table
	dir    datadir.Dir
	sink   archivedom.SinkPort // nil when archiving is off
	cfg    Config
	log    logger.Logger

	now func() time.Time
}

// New constructs the planet service
func New(r domain.ExportReader, users []string, table cities.Table, dir datadir.Dir, sink archivedom.SinkPort, cfg Config) *Service {
	if r == nil {
		panic("planet.Service requires a non nil ExportReader")
	}
	if dir.Path() == "" {
		panic("planet.Service requires a data dir")
	}
	return &Service{
		reader: r, users: users, cities: table, dir: dir, sink: sink,
		cfg: cfg,
		log: *logger.Named("planet"),
		now: time.Now,
	}
}

// Run scans the export once, classifies, rolls up monthly and writes outputs.
// A reader failure aborts the whole run
func (s *Service) Run(ctx context.Context) (rollup.Summary, error) {
	startedAt := s.now().UTC()

	rows, err := s.reader.Changesets(ctx, s.users, s.cfg.Start)
	if err != nil {
		return rollup.Summary{}, err
	}

	// rows arrive boxed and in creation order; flats keep that order
	flats := make([]changeset.Flat, 0, len(rows))
	for i := range rows {
		rows[i].City = s.cities.Classify(rows[i].Center())
		if f, ok := changeset.Flatten(rows[i]); ok {
			flats = append(flats, f)
		}
	}

	monthly := rollup.Monthly(flats)
	sum := rollup.Summarize(flats, len(s.users), len(monthly))

	if err := s.dir.WriteJSON(datadir.ChangesetsFile, flats); err != nil {
		return rollup.Summary{}, err
	}
	if err := s.dir.WriteJSON(datadir.MonthlyFile, monthly); err != nil {
		return rollup.Summary{}, err
	}
	if err := s.dir.WriteJSON(datadir.CitiesFile, s.cities.Wire()); err != nil {
		return rollup.Summary{}, err
	}

	s.logSummary(sum)
	s.archive(ctx, startedAt, sum, rows)
	return sum, nil
}

func (s *Service) archive(ctx context.Context, startedAt time.Time, sum rollup.Summary, cs []changeset.Changeset) {
	if s.sink == nil {
		return
	}
	run := archivedom.Run{
		Source:     archivedom.SourcePlanet,
		StartedAt:  startedAt,
		FinishedAt: s.now().UTC(),
		Users:      len(s.users),
		Changesets: sum.Total,
	}
	if _, err := s.sink.ArchiveRun(ctx, run, cs); err != nil {
		// outputs are already on disk; the archive is best effort
		s.log.Warn().Err(err).Msg("archive run failed")
	}
}

func (s *Service) logSummary(sum rollup.Summary) {
	ev := s.log.Info().
		Int("total", sum.Total).
		Int("users_with_data", sum.UsersWithData).
		Int("roster_size", sum.RosterSize).
		Int("months", sum.Buckets)
	if sum.Total > 0 {
		ev = ev.
			Str("from", sum.From.Format("2006-01-02")).
			Str("to", sum.To.Format("2006-01-02"))
	}
	ev.Msg("planet summary")

	for _, c := range sum.Cities {
		s.log.Info().Str("city", c.City).Int("count", c.Count).Msg("changesets by city")
	}
	for _, c := range sum.Top {
		s.log.Info().Str("user", c.User).Int("count", c.Count).Msg("top contributor")
	}
}
