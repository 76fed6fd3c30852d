package apifootball

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/league"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/player"
	"github.com/riskibarqy/matchday/internal/domain/standing"
	"github.com/riskibarqy/matchday/internal/domain/team"
	"github.com/riskibarqy/matchday/internal/domain/topscorer"
	"github.com/riskibarqy/matchday/internal/platform/locale"
)

const listEventLimit = 5

var knownLeagues = league.NewSet(league.All())

func intOr(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func stringOr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func leagueType(leagueID int) league.Type {
	if l, ok := knownLeagues.Get(leagueID); ok {
		return l.Type
	}
	return league.TypeInternational
}

func transformTeam(ref teamRef, loc locale.Locale, catalog *locale.Catalog) match.Team {
	return match.Team{
		ID:    ref.ID,
		Name:  catalog.TeamName(loc, ref.Name),
		Short: match.ShortCode(ref.Name),
		Logo:  ref.Logo,
	}
}

func parseKickoff(item fixtureItem) time.Time {
	if parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(item.Fixture.Date)); err == nil {
		return parsed
	}
	if item.Fixture.Timestamp > 0 {
		return time.Unix(item.Fixture.Timestamp, 0).UTC()
	}
	return time.Time{}
}

func transformEvents(items []eventItem) []match.Event {
	events := make([]match.Event, 0, len(items))
	for _, item := range items {
		events = append(events, match.Event{
			Type:   item.Type,
			Detail: item.Detail,
			TeamID: item.Team.ID,
			Minute: intOr(item.Time.Elapsed),
			Extra:  intOr(item.Time.Extra),
			Player: stringOr(item.Player.Name),
			Assist: stringOr(item.Assist.Name),
		})
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Minute == events[j].Minute {
			return events[i].Extra < events[j].Extra
		}
		return events[i].Minute < events[j].Minute
	})
	for i := range events {
		events[i].ID = i
	}
	return events
}

// transformFixture builds the list view of a fixture. Names are localized
// for loc; the short code always comes from the English name.
func transformFixture(item fixtureItem, loc locale.Locale, catalog *locale.Catalog) match.Match {
	events := transformEvents(item.Events)
	if len(events) > listEventLimit {
		events = events[:listEventLimit]
	}

	return match.Match{
		ID:        item.Fixture.ID,
		Type:      leagueType(item.League.ID),
		League:    catalog.LeagueName(loc, item.League.ID, item.League.Name),
		LeagueID:  item.League.ID,
		HomeTeam:  transformTeam(item.Teams.Home, loc, catalog),
		AwayTeam:  transformTeam(item.Teams.Away, loc, catalog),
		HomeScore: intOr(item.Goals.Home),
		AwayScore: intOr(item.Goals.Away),
		Status:    match.StatusFromProvider(item.Fixture.Status.Short),
		Minute:    intOr(item.Fixture.Status.Elapsed),
		StartTime: parseKickoff(item),
		Events:    events,
	}
}

func transformDetail(item fixtureItem, loc locale.Locale, catalog *locale.Catalog) match.Detail {
	base := transformFixture(item, loc, catalog)
	base.Events = transformEvents(item.Events)

	detail := match.Detail{
		Match:      base,
		Venue:      item.Fixture.Venue.Name,
		Referee:    item.Fixture.Referee,
		Lineups:    make([]match.Lineup, 0, len(item.Lineups)),
		Statistics: make([]match.TeamStatistics, 0, len(item.Statistics)),
		Players:    make([]match.TeamPlayers, 0, len(item.Players)),
	}

	for _, l := range item.Lineups {
		detail.Lineups = append(detail.Lineups, match.Lineup{
			Team:        transformTeam(l.Team, loc, catalog),
			Formation:   l.Formation,
			Coach:       stringOr(l.Coach.Name),
			StartXI:     transformLineupPlayers(l.StartXI),
			Substitutes: transformLineupPlayers(l.Substitutes),
		})
	}

	for _, s := range item.Statistics {
		stats := make([]match.Statistic, 0, len(s.Statistics))
		for _, st := range s.Statistics {
			stats = append(stats, match.Statistic{Type: st.Type, Value: statValue(st.Value)})
		}
		detail.Statistics = append(detail.Statistics, match.TeamStatistics{
			Team:       transformTeam(s.Team, loc, catalog),
			Statistics: stats,
		})
	}

	for _, tp := range item.Players {
		group := match.TeamPlayers{
			Team:    transformTeam(tp.Team, loc, catalog),
			Players: make([]match.PlayerPerformance, 0, len(tp.Players)),
		}
		for _, p := range tp.Players {
			perf := match.PlayerPerformance{
				ID:    intOr(p.Player.ID),
				Name:  stringOr(p.Player.Name),
				Photo: p.Player.Photo,
			}
			if len(p.Statistics) > 0 {
				st := p.Statistics[0]
				perf.Minutes = intOr(st.Games.Minutes)
				perf.Rating = stringOr(st.Games.Rating)
				perf.Goals = intOr(st.Goals.Total)
				perf.Assists = intOr(st.Goals.Assists)
				perf.Shots = intOr(st.Shots.Total)
				perf.Passes = intOr(st.Passes.Total)
				perf.Yellow = intOr(st.Cards.Yellow)
				perf.Red = intOr(st.Cards.Red)
			}
			group.Players = append(group.Players, perf)
		}
		detail.Players = append(detail.Players, group)
	}

	return detail
}

func transformLineupPlayers(items []lineupPlayerItem) []match.LineupPlayer {
	out := make([]match.LineupPlayer, 0, len(items))
	for _, item := range items {
		out = append(out, match.LineupPlayer{
			ID:       item.Player.ID,
			Name:     item.Player.Name,
			Number:   intOr(item.Player.Number),
			Position: item.Player.Pos,
			Grid:     stringOr(item.Player.Grid),
		})
	}
	return out
}

func statValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(value, 10)
	case int:
		return strconv.Itoa(value)
	case bool:
		return strconv.FormatBool(value)
	default:
		return ""
	}
}

// transformStandings keeps the first group, which is the overall table for
// leagues and group A for group-stage competitions.
func transformStandings(item standingsItem, leagueID, season int) standing.Table {
	table := standing.Table{LeagueID: leagueID, Season: season}
	if item.League.Season > 0 {
		table.Season = item.League.Season
	}
	if len(item.League.Standings) == 0 {
		return table
	}

	rows := item.League.Standings[0]
	table.Rows = make([]standing.Row, 0, len(rows))
	for _, row := range rows {
		table.Rows = append(table.Rows, standing.Row{
			Position:       row.Rank,
			TeamID:         row.Team.ID,
			TeamName:       row.Team.Name,
			TeamLogo:       row.Team.Logo,
			Played:         intOr(row.All.Played),
			Won:            intOr(row.All.Win),
			Drawn:          intOr(row.All.Draw),
			Lost:           intOr(row.All.Lose),
			GoalsFor:       intOr(row.All.Goals.For),
			GoalsAgainst:   intOr(row.All.Goals.Against),
			GoalDifference: row.GoalsDiff,
			Points:         row.Points,
			Form:           stringOr(row.Form),
		})
	}
	return table
}

func transformTopScorers(items []playerItem, leagueID, season int) topscorer.Chart {
	chart := topscorer.Chart{
		LeagueID: leagueID,
		Season:   season,
		Scorers:  make([]topscorer.Scorer, 0, len(items)),
	}
	for i, item := range items {
		scorer := topscorer.Scorer{
			Rank:        i + 1,
			PlayerID:    item.Player.ID,
			PlayerName:  item.Player.Name,
			PlayerPhoto: item.Player.Photo,
		}
		if len(item.Statistics) > 0 {
			st := item.Statistics[0]
			scorer.TeamID = st.Team.ID
			scorer.TeamName = st.Team.Name
			scorer.TeamLogo = st.Team.Logo
			scorer.Goals = intOr(st.Goals.Total)
			scorer.Assists = intOr(st.Goals.Assists)
			scorer.Appearances = intOr(st.Games.Appearences)
		}
		chart.Scorers = append(chart.Scorers, scorer)
	}
	return chart
}

func transformTeamInfo(item teamItem) team.Info {
	return team.Info{
		ID:      item.Team.ID,
		Name:    item.Team.Name,
		Code:    item.Team.Code,
		Country: item.Team.Country,
		Logo:    item.Team.Logo,
		Founded: intOr(item.Team.Founded),
		Venue: team.Venue{
			Name:     item.Venue.Name,
			City:     item.Venue.City,
			Capacity: intOr(item.Venue.Capacity),
			Image:    item.Venue.Image,
		},
	}
}

func transformSquad(item squadItem) []team.SquadPlayer {
	out := make([]team.SquadPlayer, 0, len(item.Players))
	for _, p := range item.Players {
		out = append(out, team.SquadPlayer{
			ID:       p.ID,
			Name:     p.Name,
			Number:   intOr(p.Number),
			Position: p.Position,
			Photo:    p.Photo,
			Age:      intOr(p.Age),
		})
	}
	return out
}

func transformPlayer(item playerItem, season int) player.SeasonStats {
	out := player.SeasonStats{
		Player: player.Profile{
			ID:          item.Player.ID,
			Name:        item.Player.Name,
			Firstname:   stringOr(item.Player.Firstname),
			Lastname:    stringOr(item.Player.Lastname),
			Age:         intOr(item.Player.Age),
			Nationality: stringOr(item.Player.Nationality),
			Height:      stringOr(item.Player.Height),
			Weight:      stringOr(item.Player.Weight),
			Injured:     item.Player.Injured,
			Photo:       item.Player.Photo,
		},
		Season:     season,
		Statistics: make([]player.Statistics, 0, len(item.Statistics)),
	}
	for _, st := range item.Statistics {
		out.Statistics = append(out.Statistics, player.Statistics{
			TeamID:     st.Team.ID,
			TeamName:   st.Team.Name,
			TeamLogo:   st.Team.Logo,
			LeagueID:   st.League.ID,
			LeagueName: st.League.Name,
			Games: player.Games{
				Appearances: intOr(st.Games.Appearences),
				Lineups:     intOr(st.Games.Lineups),
				Minutes:     intOr(st.Games.Minutes),
				Position:    stringOr(st.Games.Position),
				Rating:      stringOr(st.Games.Rating),
				Captain:     st.Games.Captain,
			},
			Goals: player.Goals{
				Total:    intOr(st.Goals.Total),
				Conceded: intOr(st.Goals.Conceded),
				Assists:  intOr(st.Goals.Assists),
				Saves:    intOr(st.Goals.Saves),
			},
			Passes: player.Passes{
				Total:    intOr(st.Passes.Total),
				Key:      intOr(st.Passes.Key),
				Accuracy: intOr(st.Passes.Accuracy),
			},
			Tackles: player.Tackles{
				Total:         intOr(st.Tackles.Total),
				Blocks:        intOr(st.Tackles.Blocks),
				Interceptions: intOr(st.Tackles.Interceptions),
			},
			Duels: player.Duels{
				Total: intOr(st.Duels.Total),
				Won:   intOr(st.Duels.Won),
			},
			Dribbles: player.Dribbles{
				Attempts: intOr(st.Dribbles.Attempts),
				Success:  intOr(st.Dribbles.Success),
			},
			Cards: player.Cards{
				Yellow: intOr(st.Cards.Yellow),
				Red:    intOr(st.Cards.Red),
			},
		})
	}
	return out
}
