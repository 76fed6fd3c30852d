package apifootball

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/player"
	"github.com/riskibarqy/matchday/internal/domain/standing"
	"github.com/riskibarqy/matchday/internal/domain/team"
	"github.com/riskibarqy/matchday/internal/domain/topscorer"
	"github.com/riskibarqy/matchday/internal/platform/locale"
	"github.com/riskibarqy/matchday/internal/usecase"
)

const (
	endpointFixtures   = "/fixtures"
	endpointStandings  = "/standings"
	endpointTopScorers = "/players/topscorers"
	endpointTeams      = "/teams"
	endpointSquads     = "/players/squads"
	endpointCoaches    = "/coachs"
	endpointPlayers    = "/players"
)

var _ usecase.FootballProvider = (*Client)(nil)

// fetch runs Call and decodes a successful reply into an envelope.
func fetch[T any](ctx context.Context, c *Client, endpoint string, params url.Values) ([]T, error) {
	result := c.Call(ctx, endpoint, params)
	if err := result.Err(); err != nil {
		return nil, err
	}

	var env envelope[T]
	if err := sonic.Unmarshal(result.Body, &env); err != nil {
		return nil, fmt.Errorf("%w: decode %s payload: %v", usecase.ErrTransportFailure, endpoint, err)
	}
	return env.Response, nil
}

// FixturesByDate queries one calendar date. Ranged from/to queries are not
// used because the free tier answers them inconsistently.
func (c *Client) FixturesByDate(ctx context.Context, date string, loc locale.Locale) ([]match.Match, error) {
	items, err := fetch[fixtureItem](ctx, c, endpointFixtures, url.Values{
		"date":     {date},
		"timezone": {c.timezone},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch fixtures date=%s: %w", date, err)
	}

	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		out = append(out, transformFixture(item, loc, c.catalog))
	}
	return out, nil
}

func (c *Client) FixtureByID(ctx context.Context, fixtureID int, loc locale.Locale) (match.Detail, error) {
	items, err := fetch[fixtureItem](ctx, c, endpointFixtures, url.Values{
		"id":       {strconv.Itoa(fixtureID)},
		"timezone": {c.timezone},
	})
	if err != nil {
		return match.Detail{}, fmt.Errorf("fetch fixture id=%d: %w", fixtureID, err)
	}
	if len(items) == 0 {
		return match.Detail{}, fmt.Errorf("fixture id=%d: %w", fixtureID, usecase.ErrEmptyResult)
	}
	return transformDetail(items[0], loc, c.catalog), nil
}

func (c *Client) Standings(ctx context.Context, leagueID, season int) (standing.Table, error) {
	items, err := fetch[standingsItem](ctx, c, endpointStandings, seasonParams(leagueID, season))
	if err != nil {
		return standing.Table{}, fmt.Errorf("fetch standings league=%d season=%d: %w", leagueID, season, err)
	}
	if len(items) == 0 {
		return standing.Table{}, fmt.Errorf("standings league=%d season=%d: %w", leagueID, season, usecase.ErrEmptyResult)
	}

	table := transformStandings(items[0], leagueID, season)
	if table.IsEmpty() {
		return standing.Table{}, fmt.Errorf("standings league=%d season=%d: %w", leagueID, season, usecase.ErrEmptyResult)
	}
	return table, nil
}

func (c *Client) TopScorers(ctx context.Context, leagueID, season int) (topscorer.Chart, error) {
	items, err := fetch[playerItem](ctx, c, endpointTopScorers, seasonParams(leagueID, season))
	if err != nil {
		return topscorer.Chart{}, fmt.Errorf("fetch top scorers league=%d season=%d: %w", leagueID, season, err)
	}
	if len(items) == 0 {
		return topscorer.Chart{}, fmt.Errorf("top scorers league=%d season=%d: %w", leagueID, season, usecase.ErrEmptyResult)
	}
	return transformTopScorers(items, leagueID, season), nil
}

func (c *Client) Team(ctx context.Context, teamID int) (team.Info, error) {
	items, err := fetch[teamItem](ctx, c, endpointTeams, url.Values{"id": {strconv.Itoa(teamID)}})
	if err != nil {
		return team.Info{}, fmt.Errorf("fetch team id=%d: %w", teamID, err)
	}
	if len(items) == 0 {
		return team.Info{}, fmt.Errorf("team id=%d: %w", teamID, usecase.ErrEmptyResult)
	}
	return transformTeamInfo(items[0]), nil
}

// Squad returns an empty roster when the provider has none on file.
func (c *Client) Squad(ctx context.Context, teamID int) ([]team.SquadPlayer, error) {
	items, err := fetch[squadItem](ctx, c, endpointSquads, url.Values{"team": {strconv.Itoa(teamID)}})
	if err != nil {
		return nil, fmt.Errorf("fetch squad team=%d: %w", teamID, err)
	}
	if len(items) == 0 {
		return []team.SquadPlayer{}, nil
	}
	return transformSquad(items[0]), nil
}

// Coach returns the first listed coach, which the provider orders as the
// current one, or nil when none is known.
func (c *Client) Coach(ctx context.Context, teamID int) (*team.Coach, error) {
	items, err := fetch[coachItem](ctx, c, endpointCoaches, url.Values{"team": {strconv.Itoa(teamID)}})
	if err != nil {
		return nil, fmt.Errorf("fetch coach team=%d: %w", teamID, err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &team.Coach{ID: items[0].ID, Name: items[0].Name, Photo: items[0].Photo}, nil
}

func (c *Client) PlayerSeason(ctx context.Context, playerID, season int) (player.SeasonStats, error) {
	items, err := fetch[playerItem](ctx, c, endpointPlayers, url.Values{
		"id":     {strconv.Itoa(playerID)},
		"season": {strconv.Itoa(season)},
	})
	if err != nil {
		return player.SeasonStats{}, fmt.Errorf("fetch player id=%d season=%d: %w", playerID, season, err)
	}
	if len(items) == 0 {
		return player.SeasonStats{}, fmt.Errorf("player id=%d season=%d: %w", playerID, season, usecase.ErrEmptyResult)
	}
	return transformPlayer(items[0], season), nil
}

func seasonParams(leagueID, season int) url.Values {
	return url.Values{
		"league": {strconv.Itoa(leagueID)},
		"season": {strconv.Itoa(season)},
	}
}
