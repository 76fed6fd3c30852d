package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/matchday/internal/domain/league"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/player"
	"github.com/riskibarqy/matchday/internal/domain/standing"
	"github.com/riskibarqy/matchday/internal/domain/team"
	"github.com/riskibarqy/matchday/internal/domain/topscorer"
	"github.com/riskibarqy/matchday/internal/platform/cache"
	"github.com/riskibarqy/matchday/internal/platform/locale"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

const DefaultTopScorerLimit = 10

// TeamLeagueHints remembers which league a team was last seen in so a team
// page can resolve its standing without scanning every league.
type TeamLeagueHints interface {
	TeamLeague(ctx context.Context, teamID int) (int, bool)
	SetTeamLeague(ctx context.Context, teamID, leagueID int)
}

type DashboardConfig struct {
	Leagues league.Set
	Catalog *locale.Catalog
	Hints   TeamLeagueHints
	Errors  *APIErrorState
	// Pool runs the team, squad and coach requests of a team page in
	// parallel. A nil pool runs them inline.
	Pool   *ants.Pool
	Logger *logging.Logger
}

// DashboardService answers the dashboard's read queries. Every query reads
// through the cache, falls back to stale data on transport failures and
// returns a defined fallback value (empty list or nil) together with the
// error when nothing is available.
type DashboardService struct {
	provider FootballProvider
	loader   *cachedLoader
	seasons  *SeasonResolver
	leagues  league.Set
	catalog  *locale.Catalog
	hints    TeamLeagueHints
	errors   *APIErrorState
	pool     *ants.Pool
	validate *validator.Validate
	logger   *logging.Logger
}

func NewDashboardService(provider FootballProvider, store CacheStore, seasons *SeasonResolver, cfg DashboardConfig) *DashboardService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	leagues := cfg.Leagues
	if leagues.Len() == 0 {
		leagues = league.NewSet(league.Active())
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = locale.DefaultCatalog()
	}
	errState := cfg.Errors
	if errState == nil {
		errState = NewAPIErrorState()
	}
	if seasons == nil {
		seasons = NewSeasonResolver(time.Now, 1, logger)
	}
	return &DashboardService{
		provider: provider,
		loader:   newCachedLoader(store, logger.Named("loader")),
		seasons:  seasons,
		leagues:  leagues,
		catalog:  catalog,
		hints:    cfg.Hints,
		errors:   errState,
		pool:     cfg.Pool,
		validate: validator.New(),
		logger:   logger.Named("dashboard"),
	}
}

type fixturesQuery struct {
	Date string `validate:"required,datetime=2006-01-02"`
}

type entityQuery struct {
	ID int `validate:"gt=0"`
}

type seasonQuery struct {
	LeagueID int `validate:"gt=0"`
	Season   int `validate:"gte=1990,lte=2100"`
}

type playerQuery struct {
	PlayerID int `validate:"gt=0"`
	Season   int `validate:"gte=1990,lte=2100"`
}

func (s *DashboardService) validateQuery(ctx context.Context, payload any) error {
	if err := s.validate.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", ErrInvalidInput, err)
	}
	return nil
}

// FixturesByDate returns the followed-league fixtures of one date, sorted by
// kickoff. It also serves as the synchronizer's per-day source.
func (s *DashboardService) FixturesByDate(ctx context.Context, date string, loc locale.Locale) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.FixturesByDate")
	defer span.End()

	date = strings.TrimSpace(date)
	if err := s.validateQuery(ctx, fixturesQuery{Date: date}); err != nil {
		return []match.Match{}, err
	}

	key := cache.Key(cache.KindFixtures, date, loc)
	list, _, err := loadCached(ctx, s.loader, cache.KindFixtures, key, func(ctx context.Context) ([]match.Match, error) {
		fetched, err := s.provider.FixturesByDate(ctx, date, loc)
		if err != nil {
			return nil, err
		}
		filtered := match.FilterLeagues(fetched, s.leagues)
		match.SortByStart(filtered)
		return filtered, nil
	})
	if err != nil {
		return []match.Match{}, err
	}
	if list == nil {
		list = []match.Match{}
	}
	return list, nil
}

// MatchDetail returns nil when the fixture is unknown or unavailable.
func (s *DashboardService) MatchDetail(ctx context.Context, fixtureID int, loc locale.Locale) (*match.Detail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.MatchDetail")
	defer span.End()

	if err := s.validateQuery(ctx, entityQuery{ID: fixtureID}); err != nil {
		return nil, err
	}

	key := cache.Key(cache.KindMatch, fixtureID, loc)
	detail, _, err := loadCached(ctx, s.loader, cache.KindMatch, key, func(ctx context.Context) (match.Detail, error) {
		return s.provider.FixtureByID(ctx, fixtureID, loc)
	})
	if err != nil {
		return nil, notFoundOnEmpty(err)
	}

	if s.hints != nil && s.leagues.Contains(detail.LeagueID) {
		s.hints.SetTeamLeague(ctx, detail.HomeTeam.ID, detail.LeagueID)
		s.hints.SetTeamLeague(ctx, detail.AwayTeam.ID, detail.LeagueID)
	}
	return &detail, nil
}

// LeagueStandings returns the table for season (0 = current), falling back
// to earlier seasons while the provider has no rows.
func (s *DashboardService) LeagueStandings(ctx context.Context, leagueID, season int) (SeasonResult[standing.Table], error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.LeagueStandings")
	defer span.End()

	if season == 0 {
		season = s.seasons.Current()
	}
	if err := s.validateQuery(ctx, seasonQuery{LeagueID: leagueID, Season: season}); err != nil {
		return NotFound[standing.Table](), err
	}

	return resolveSeason(ctx, s.seasons, season, func(ctx context.Context, season int) (standing.Table, error) {
		key := cache.Key(cache.KindStandings, leagueID, season)
		table, _, err := loadCached(ctx, s.loader, cache.KindStandings, key, func(ctx context.Context) (standing.Table, error) {
			return s.provider.Standings(ctx, leagueID, season)
		})
		return table, err
	})
}

// TopScorers returns at most limit scorers (DefaultTopScorerLimit when
// limit <= 0) for season (0 = current), with the same season fallback as
// LeagueStandings.
func (s *DashboardService) TopScorers(ctx context.Context, leagueID, season, limit int) (SeasonResult[[]topscorer.Scorer], error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.TopScorers")
	defer span.End()

	if season == 0 {
		season = s.seasons.Current()
	}
	if limit <= 0 {
		limit = DefaultTopScorerLimit
	}
	if err := s.validateQuery(ctx, seasonQuery{LeagueID: leagueID, Season: season}); err != nil {
		return NotFound[[]topscorer.Scorer](), err
	}

	result, err := resolveSeason(ctx, s.seasons, season, func(ctx context.Context, season int) (topscorer.Chart, error) {
		key := cache.Key(cache.KindTopScorers, leagueID, season)
		chart, _, err := loadCached(ctx, s.loader, cache.KindTopScorers, key, func(ctx context.Context) (topscorer.Chart, error) {
			return s.provider.TopScorers(ctx, leagueID, season)
		})
		return chart, err
	})
	if !result.Found {
		return NotFound[[]topscorer.Scorer](), err
	}
	return Found(result.Value.Top(limit), result.Season), err
}

// PlayerStats returns nil when the player has no statistics for season
// (0 = current).
func (s *DashboardService) PlayerStats(ctx context.Context, playerID, season int) (*player.SeasonStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.PlayerStats")
	defer span.End()

	if season == 0 {
		season = s.seasons.Current()
	}
	if err := s.validateQuery(ctx, playerQuery{PlayerID: playerID, Season: season}); err != nil {
		return nil, err
	}

	key := cache.Key(cache.KindPlayer, playerID, season)
	stats, _, err := loadCached(ctx, s.loader, cache.KindPlayer, key, func(ctx context.Context) (player.SeasonStats, error) {
		return s.provider.PlayerSeason(ctx, playerID, season)
	})
	if err != nil {
		return nil, notFoundOnEmpty(err)
	}
	return &stats, nil
}

// TeamDetail returns the team page including its standing in the current
// season when the team appears in a followed league table.
func (s *DashboardService) TeamDetail(ctx context.Context, teamID int, loc locale.Locale) (*team.Detail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.TeamDetail")
	defer span.End()

	if err := s.validateQuery(ctx, entityQuery{ID: teamID}); err != nil {
		return nil, err
	}

	key := cache.Key(cache.KindTeam, teamID, loc)
	detail, _, err := loadCached(ctx, s.loader, cache.KindTeam, key, func(ctx context.Context) (team.Detail, error) {
		return s.buildTeamDetail(ctx, teamID, loc)
	})
	if err != nil {
		return nil, notFoundOnEmpty(err)
	}
	return &detail, nil
}

func (s *DashboardService) buildTeamDetail(ctx context.Context, teamID int, loc locale.Locale) (team.Detail, error) {
	var (
		info     team.Info
		squad    []team.SquadPlayer
		coach    *team.Coach
		infoErr  error
		squadErr error
		coachErr error
		wg       sync.WaitGroup
	)

	tasks := []func(){
		func() { info, infoErr = s.provider.Team(ctx, teamID) },
		func() { squad, squadErr = s.provider.Squad(ctx, teamID) },
		func() { coach, coachErr = s.provider.Coach(ctx, teamID) },
	}
	for _, task := range tasks {
		wg.Add(1)
		run := func() {
			defer wg.Done()
			task()
		}
		if s.pool == nil {
			run()
			continue
		}
		if err := s.pool.Submit(run); err != nil {
			s.logger.WarnContext(ctx, "worker pool rejected task, running inline", "error", err)
			run()
		}
	}
	wg.Wait()

	if infoErr != nil {
		return team.Detail{}, infoErr
	}
	if squadErr != nil {
		s.logger.WarnContext(ctx, "squad unavailable", "team_id", teamID, "error", squadErr)
	}
	if coachErr != nil {
		s.logger.WarnContext(ctx, "coach unavailable", "team_id", teamID, "error", coachErr)
	}
	if squad == nil {
		squad = []team.SquadPlayer{}
	}

	detail := team.Detail{Info: info, Coach: coach, Squad: squad}
	if summary, ok := s.resolveTeamStanding(ctx, teamID, loc); ok {
		detail.Standing = &summary
		detail.LeagueID = summary.LeagueID
	}
	return detail, nil
}

// resolveTeamStanding tries the remembered league first and then scans the
// followed leagues in order, remembering the first hit.
func (s *DashboardService) resolveTeamStanding(ctx context.Context, teamID int, loc locale.Locale) (standing.Summary, bool) {
	season := s.seasons.Current()

	hinted := 0
	if s.hints != nil {
		if leagueID, ok := s.hints.TeamLeague(ctx, teamID); ok && s.leagues.Contains(leagueID) {
			hinted = leagueID
			if summary, found := s.standingIn(ctx, teamID, leagueID, season, loc); found {
				return summary, true
			}
		}
	}

	for _, l := range s.leagues.List() {
		if l.ID == hinted {
			continue
		}
		if ctx.Err() != nil {
			return standing.Summary{}, false
		}
		if summary, found := s.standingIn(ctx, teamID, l.ID, season, loc); found {
			if s.hints != nil {
				s.hints.SetTeamLeague(ctx, teamID, l.ID)
			}
			return summary, true
		}
	}
	return standing.Summary{}, false
}

func (s *DashboardService) standingIn(ctx context.Context, teamID, leagueID, season int, loc locale.Locale) (standing.Summary, bool) {
	result, err := s.LeagueStandings(ctx, leagueID, season)
	if err != nil {
		s.logger.DebugContext(ctx, "standings lookup failed", "league_id", leagueID, "error", err)
	}
	if !result.Found {
		return standing.Summary{}, false
	}
	row, ok := result.Value.Find(teamID)
	if !ok {
		return standing.Summary{}, false
	}
	name := s.catalog.LeagueName(loc, leagueID, "")
	return row.Summary(leagueID, name), true
}

// SupportedLeagues lists the followed leagues with localized names.
func (s *DashboardService) SupportedLeagues(loc locale.Locale) []league.League {
	list := s.leagues.List()
	for i := range list {
		list[i].Name = s.catalog.LeagueName(loc, list[i].ID, list[i].Name)
	}
	return list
}

// CurrentSeason is the season shown by default.
func (s *DashboardService) CurrentSeason() int {
	return s.seasons.Current()
}

// LastAPIError returns the provider error the banner should show, if any.
func (s *DashboardService) LastAPIError() (*ProviderError, bool) {
	return s.errors.Last()
}

func (s *DashboardService) ClearAPIError() {
	s.errors.Clear()
}

func notFoundOnEmpty(err error) error {
	if errors.Is(err, ErrEmptyResult) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
