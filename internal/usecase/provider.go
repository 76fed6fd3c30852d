package usecase

import (
	"context"

	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/player"
	"github.com/riskibarqy/matchday/internal/domain/standing"
	"github.com/riskibarqy/matchday/internal/domain/team"
	"github.com/riskibarqy/matchday/internal/domain/topscorer"
	"github.com/riskibarqy/matchday/internal/platform/locale"
)

// FootballProvider is the remote sports-data API. Implementations report
// failures as ErrTransportFailure (wrapped), *ProviderError or ErrEmptyResult
// so callers can pick the matching fallback. Fixture lists for a date may be
// legitimately empty and are returned without error.
type FootballProvider interface {
	FixturesByDate(ctx context.Context, date string, loc locale.Locale) ([]match.Match, error)
	FixtureByID(ctx context.Context, fixtureID int, loc locale.Locale) (match.Detail, error)
	Standings(ctx context.Context, leagueID, season int) (standing.Table, error)
	TopScorers(ctx context.Context, leagueID, season int) (topscorer.Chart, error)
	Team(ctx context.Context, teamID int) (team.Info, error)
	Squad(ctx context.Context, teamID int) ([]team.SquadPlayer, error)
	Coach(ctx context.Context, teamID int) (*team.Coach, error)
	PlayerSeason(ctx context.Context, playerID, season int) (player.SeasonStats, error)
}
