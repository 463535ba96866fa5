// Package service implements the roster fetch over the OSM API
package service

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"osmwatch/internal/adapters/datadir"
	"osmwatch/internal/adapters/osmapi"
	"osmwatch/internal/core/changeset"
	"osmwatch/internal/core/cities"
	"osmwatch/internal/core/rollup"
	perr "osmwatch/internal/platform/errors"
	"osmwatch/internal/platform/logger"
	archivedom "osmwatch/internal/services/archive/domain"
	"osmwatch/internal/services/fetch/domain"
)

// Config holds the fetch window and pacing knobs
type Config struct {
	// Start is the lower bound of the fetch window
	Start time.Time

	// PageDelay paces successive pages of one user; UserDelay paces roster users
	PageDelay time.Duration
	UserDelay time.Duration
}

// Service implements domain.RunnerPort
type Service struct {
	pager  domain.Pager
	users  []string
	cities cities.Table
	dir    datadir.Dir
	sink   archivedom.SinkPort // nil when archiving is off
	cfg    Config
	log    logger.Logger

	sleep func(context.Context, time.Duration) error
	now   func() time.Time
}

// New constructs the fetch service
func New(p domain.Pager, users []string, table cities.Table, dir datadir.Dir, sink archivedom.SinkPort, cfg Config) *Service {
	if p == nil {
		panic("fetch.Service requires a non nil Pager")
	}
	if dir.Path() == "" {
		panic("fetch.Service requires a data dir")
	}
	if cfg.PageDelay <= 0 {
		cfg.PageDelay = time.Second
	}
	if cfg.UserDelay <= 0 {
		cfg.UserDelay = 2 * time.Second
	}
	return &Service{
		pager: p, users: users, cities: table, dir: dir, sink: sink,
		cfg:   cfg,
		log:   *logger.Named("fetch"),
		sleep: sleepCtx,
		now:   time.Now,
	}
}

// Run fetches the whole roster once, classifies, rolls up and writes outputs
func (s *Service) Run(ctx context.Context) (rollup.Summary, error) {
	startedAt := s.now().UTC()
	var all []changeset.Changeset

	for i, user := range s.users {
		if i > 0 {
			if err := s.sleep(ctx, s.cfg.UserDelay); err != nil {
				return rollup.Summary{}, err
			}
		}
		got, err := s.fetchUser(ctx, user)
		if err != nil {
			return rollup.Summary{}, err
		}
		if len(got) == 0 {
			s.log.Info().Str("user", user).Msg("no changesets in window")
		} else {
			s.log.Info().Str("user", user).Int("changesets", len(got)).Msg("user fetched")
		}
		all = append(all, got...)
	}

	changeset.SortByCreatedAt(all)
	for i := range all {
		all[i].City = s.cities.Classify(all[i].Center())
	}

	weekly := rollup.Weekly(all)
	sum := rollup.SummarizeChangesets(all, len(s.users), len(weekly))

	if err := s.dir.WriteJSON(datadir.ChangesetsFile, all); err != nil {
		return rollup.Summary{}, err
	}
	if err := s.dir.WriteJSON(datadir.WeeklyFile, weekly); err != nil {
		return rollup.Summary{}, err
	}
	if err := s.dir.WriteJSON(datadir.CitiesFile, s.cities.Wire()); err != nil {
		return rollup.Summary{}, err
	}

	s.logSummary(sum)
	s.archive(ctx, startedAt, sum, all)
	return sum, nil
}

// fetchUser pages through one user's changesets, newest first.
// Transport errors after retries stop this user only; partial results are kept
func (s *Service) fetchUser(ctx context.Context, user string) ([]changeset.Changeset, error) {
	var (
		out    []changeset.Changeset
		oldest time.Time // cursor; zero on the first request
	)
	for {
		page, err := s.pager.ChangesetsPage(ctx, user, s.cfg.Start, oldest)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.log.Warn().Str("user", user).Err(err).Msg("user fetch stopped early")
			return out, nil
		}
		if len(page) == 0 {
			return out, nil
		}
		out = append(out, page...)
		for _, c := range page {
			if oldest.IsZero() || c.CreatedAt.Before(oldest) {
				oldest = c.CreatedAt
			}
		}
		if len(page) < osmapi.PageSize {
			return out, nil
		}
		if err := s.sleep(ctx, s.cfg.PageDelay); err != nil {
			return nil, err
		}
	}
}

// RunEvery runs the batch on a gocron schedule until ctx ends.
// The scheduler fires the first run on start
func (s *Service) RunEvery(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		_, err := s.Run(ctx)
		return err
	}

	sch := gocron.NewScheduler(time.UTC)
	_, err := sch.Every(every).Do(func() {
		if _, err := s.Run(ctx); err != nil {
			s.log.Error().Err(err).Msg("scheduled fetch run failed")
		}
	})
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "fetch schedule setup failed")
	}

	s.log.Info().Dur("every", every).Msg("fetch scheduler started")
	sch.StartAsync()

	<-ctx.Done()
	sch.Stop()
	s.log.Info().Msg("fetch scheduler stopped")
	return nil
}

func (s *Service) archive(ctx context.Context, startedAt time.Time, sum rollup.Summary, cs []changeset.Changeset) {
	if s.sink == nil {
		return
	}
	run := archivedom.Run{
		Source:     archivedom.SourceRest,
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
		Int("weeks", sum.Buckets)
	if sum.Total > 0 {
		ev = ev.
			Str("from", sum.From.Format("2006-01-02")).
			Str("to", sum.To.Format("2006-01-02"))
	}
	ev.Msg("fetch summary")

	for _, c := range sum.Cities {
		s.log.Info().Str("city", c.City).Int("count", c.Count).Msg("changesets by city")
	}
	for _, c := range sum.Top {
		s.log.Info().Str("user", c.User).Int("count", c.Count).Msg("top contributor")
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
