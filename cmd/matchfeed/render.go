package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/matchday/internal/domain/league"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/standing"
	"github.com/riskibarqy/matchday/internal/domain/topscorer"
	"github.com/riskibarqy/matchday/internal/preference"
)

func printJSON(w io.Writer, v any) error {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func printMatches(w io.Writer, list []match.Match, prefs preference.Preferences) {
	if len(list) == 0 {
		fmt.Fprintln(w, "no matches")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, m := range list {
		fmt.Fprintln(tw, formatMatchLine(m, prefs))
	}
	_ = tw.Flush()
}

// formatMatchLine renders one tab separated row: status, kickoff, league,
// teams and score. Favorite teams are starred.
func formatMatchLine(m match.Match, prefs preference.Preferences) string {
	status := string(m.Status)
	if m.Status == match.StatusLive && m.Minute > 0 {
		status = fmt.Sprintf("%d'", m.Minute)
	}

	score := "vs"
	switch {
	case prefs.HidesScore(m):
		score = "?-?"
	case m.Status != match.StatusUpcoming:
		score = fmt.Sprintf("%d-%d", m.HomeScore, m.AwayScore)
	}

	return fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s",
		status,
		m.StartTime.Format("01-02 15:04"),
		m.League,
		teamLabel(m.HomeTeam, prefs),
		score,
		teamLabel(m.AwayTeam, prefs),
	)
}

func teamLabel(t match.Team, prefs preference.Preferences) string {
	if prefs.IsFavorite(t.ID) {
		return "*" + t.Name
	}
	return t.Name
}

func printStandings(w io.Writer, table standing.Table, season int) {
	fmt.Fprintf(w, "season %d/%d\n", season, season+1)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTEAM\tP\tW\tD\tL\tGD\tPTS\tFORM")
	for _, row := range table.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			row.Position, row.TeamName, row.Played, row.Won, row.Drawn, row.Lost, row.GoalDifference, row.Points, row.Form)
	}
	_ = tw.Flush()
}

func printScorers(w io.Writer, scorers []topscorer.Scorer, season int) {
	fmt.Fprintf(w, "season %d/%d\n", season, season+1)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPLAYER\tTEAM\tGOALS\tASSISTS\tAPPS")
	for _, s := range scorers {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\n", s.Rank, s.PlayerName, s.TeamName, s.Goals, s.Assists, s.Appearances)
	}
	_ = tw.Flush()
}

func printLeagues(w io.Writer, leagues []league.League) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, l := range leagues {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", l.ID, l.Name, l.Type)
	}
	_ = tw.Flush()
}
