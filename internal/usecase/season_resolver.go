package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/matchday/internal/platform/logging"
)

// SeasonRolloverMonth is the first month of a new season.
const SeasonRolloverMonth = time.August

// CurrentSeason returns the start year of the season containing t:
// August to December belong to that year's season, January to July to the
// previous year's.
func CurrentSeason(t time.Time) int {
	if t.Month() >= SeasonRolloverMonth {
		return t.Year()
	}
	return t.Year() - 1
}

// SeasonResult is Found with the season that had data, or NotFound.
type SeasonResult[T any] struct {
	Value  T
	Season int
	Found  bool
}

func Found[T any](value T, season int) SeasonResult[T] {
	return SeasonResult[T]{Value: value, Season: season, Found: true}
}

func NotFound[T any]() SeasonResult[T] {
	return SeasonResult[T]{}
}

// SeasonResolver retries season-scoped queries against earlier seasons when
// the provider has no data yet for the requested one.
type SeasonResolver struct {
	now         func() time.Time
	maxFallback int
	logger      *logging.Logger
}

func NewSeasonResolver(now func() time.Time, maxFallback int, logger *logging.Logger) *SeasonResolver {
	if now == nil {
		now = time.Now
	}
	if maxFallback < 0 {
		maxFallback = 0
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SeasonResolver{now: now, maxFallback: maxFallback, logger: logger}
}

func (r *SeasonResolver) Current() int {
	return CurrentSeason(r.now())
}

// Candidates lists the seasons tried for requested: requested itself, then
// up to maxFallback earlier seasons, never below currentYear-1.
func (r *SeasonResolver) Candidates(requested int) []int {
	floor := r.now().Year() - 1
	seasons := []int{requested}
	for step := 1; step <= r.maxFallback; step++ {
		season := requested - step
		if season < floor {
			break
		}
		seasons = append(seasons, season)
	}
	return seasons
}

// resolveSeason walks the candidate seasons while fetch reports
// ErrEmptyResult. Any other error stops the walk and is returned with
// NotFound.
func resolveSeason[T any](
	ctx context.Context,
	r *SeasonResolver,
	requested int,
	fetch func(ctx context.Context, season int) (T, error),
) (SeasonResult[T], error) {
	for _, season := range r.Candidates(requested) {
		value, err := fetch(ctx, season)
		if err == nil {
			if season != requested {
				r.logger.InfoContext(ctx, "season fallback used", "requested", requested, "season", season)
			}
			return Found(value, season), nil
		}
		if !errors.Is(err, ErrEmptyResult) {
			return NotFound[T](), err
		}
		if ctx.Err() != nil {
			return NotFound[T](), ctx.Err()
		}
	}
	r.logger.InfoContext(ctx, "no season with data", "requested", requested)
	return NotFound[T](), nil
}
