package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/league"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/platform/locale"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/metrics"
	"github.com/sourcegraph/conc/pool"
)

const dateLayout = "2006-01-02"

// DayFixtureSource returns the fixtures of one calendar date. Implementations
// handle caching and stale fallback.
type DayFixtureSource interface {
	FixturesByDate(ctx context.Context, date string, loc locale.Locale) ([]match.Match, error)
}

type FeedConfig struct {
	Leagues    league.Set
	DaysBefore int
	DaysAfter  int
	// Location decides which calendar day "today" is.
	Location *time.Location
	Now      func() time.Time
	Logger   *logging.Logger
	Metrics  *metrics.Collectors
}

// CycleOutcome describes what a cycle did to the authoritative list.
type CycleOutcome string

const (
	CycleUpdated    CycleOutcome = "updated"
	CycleRetained   CycleOutcome = "retained"
	CycleEmpty      CycleOutcome = "empty"
	CycleSuperseded CycleOutcome = "superseded"
	CycleCancelled  CycleOutcome = "cancelled"
)

// CycleResult is returned by RunCycle. Matches is a private copy of the
// authoritative list after commit and is nil when nothing was committed.
type CycleResult struct {
	Generation uint64
	Outcome    CycleOutcome
	Locale     locale.Locale
	Matches    []match.Match
	FailedDays []string
}

func (r CycleResult) Committed() bool {
	switch r.Outcome {
	case CycleUpdated, CycleRetained, CycleEmpty:
		return true
	default:
		return false
	}
}

// FeedSynchronizer owns the authoritative match list. Each cycle fetches
// every day of the window in parallel, merges the days and commits the
// result unless a newer cycle has been issued in the meantime.
type FeedSynchronizer struct {
	source     DayFixtureSource
	leagues    league.Set
	daysBefore int
	daysAfter  int
	location   *time.Location
	now        func() time.Time
	logger     *logging.Logger
	metrics    *metrics.Collectors

	mu        sync.Mutex
	matches   []match.Match
	committed bool
	issued    uint64
	applied   uint64
}

func NewFeedSynchronizer(source DayFixtureSource, cfg FeedConfig) *FeedSynchronizer {
	leagues := cfg.Leagues
	if leagues.Len() == 0 {
		leagues = league.NewSet(league.Active())
	}
	location := cfg.Location
	if location == nil {
		location = time.UTC
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &FeedSynchronizer{
		source:     source,
		leagues:    leagues,
		daysBefore: maxInt(cfg.DaysBefore, 0),
		daysAfter:  maxInt(cfg.DaysAfter, 0),
		location:   location,
		now:        now,
		logger:     logger.Named("feed"),
		metrics:    cfg.Metrics,
	}
}

// Window returns the dates of the polling window, oldest first.
func (s *FeedSynchronizer) Window() []string {
	today := s.now().In(s.location)
	dates := make([]string, 0, s.daysBefore+s.daysAfter+1)
	for offset := -s.daysBefore; offset <= s.daysAfter; offset++ {
		dates = append(dates, today.AddDate(0, 0, offset).Format(dateLayout))
	}
	return dates
}

// RunCycle performs one fetch, merge and commit pass for loc.
func (s *FeedSynchronizer) RunCycle(ctx context.Context, loc locale.Locale) CycleResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedSynchronizer.RunCycle")
	defer span.End()

	s.mu.Lock()
	s.issued++
	gen := s.issued
	s.mu.Unlock()

	dates := s.Window()
	days := make([][]match.Match, len(dates))
	failed := make([]bool, len(dates))

	p := pool.New().WithMaxGoroutines(len(dates))
	for i, date := range dates {
		p.Go(func() {
			list, err := s.source.FixturesByDate(ctx, date, loc)
			if err != nil {
				failed[i] = true
				s.logger.WarnContext(ctx, "day fetch failed, contributing no fixtures",
					"date", date,
					"locale", loc.String(),
					"error", err,
				)
				return
			}
			days[i] = match.FilterLeagues(list, s.leagues)
		})
	}
	p.Wait()

	result := CycleResult{Generation: gen, Locale: loc}
	for i, date := range dates {
		if failed[i] {
			result.FailedDays = append(result.FailedDays, date)
		}
	}
	merged := match.Merge(days...)

	s.mu.Lock()
	switch {
	case ctx.Err() != nil:
		result.Outcome = CycleCancelled
	case gen < s.issued:
		result.Outcome = CycleSuperseded
	default:
		switch {
		case len(merged) > 0:
			s.matches = merged
			result.Outcome = CycleUpdated
		case len(s.matches) > 0:
			result.Outcome = CycleRetained
		default:
			result.Outcome = CycleEmpty
		}
		s.committed = true
		s.applied = gen
		result.Matches = match.CloneList(s.matches)
	}
	count := len(s.matches)
	s.mu.Unlock()

	s.metrics.FeedCycle(string(result.Outcome), count)
	switch result.Outcome {
	case CycleUpdated:
		s.logger.InfoContext(ctx, "feed updated", "generation", gen, "matches", count, "window", dates)
	case CycleRetained:
		s.logger.WarnContext(ctx, "no fixtures fetched, keeping existing matches", "generation", gen, "matches", count)
	case CycleEmpty:
		s.logger.WarnContext(ctx, "no matches available in window", "generation", gen, "window", dates)
	default:
		s.logger.DebugContext(ctx, "feed cycle discarded", "generation", gen, "outcome", string(result.Outcome))
	}
	return result
}

// Snapshot returns a copy of the authoritative list, the generation that
// produced it and whether any cycle has committed yet.
func (s *FeedSynchronizer) Snapshot() ([]match.Match, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return match.CloneList(s.matches), s.applied, s.committed
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
