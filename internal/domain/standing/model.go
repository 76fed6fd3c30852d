package standing

// Row is one team's line in a league table.
type Row struct {
	Position       int    `json:"position"`
	TeamID         int    `json:"teamId"`
	TeamName       string `json:"teamName"`
	TeamLogo       string `json:"teamLogo"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
	// Form holds the last five results, e.g. "WWDLW".
	Form string `json:"form"`
}

// Table is the standings of one league in one season. Season may be older
// than the one requested when the resolver fell back.
type Table struct {
	LeagueID int   `json:"leagueId"`
	Season   int   `json:"season"`
	Rows     []Row `json:"rows"`
}

func (t Table) Find(teamID int) (Row, bool) {
	for _, row := range t.Rows {
		if row.TeamID == teamID {
			return row, true
		}
	}
	return Row{}, false
}

func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// Summary is the compact standing shown on a team page.
type Summary struct {
	Position   int    `json:"position"`
	LeagueID   int    `json:"leagueId"`
	LeagueName string `json:"leagueName"`
	Played     int    `json:"played"`
	Won        int    `json:"won"`
	Drawn      int    `json:"drawn"`
	Lost       int    `json:"lost"`
	Points     int    `json:"points"`
	Form       string `json:"form"`
}

func (r Row) Summary(leagueID int, leagueName string) Summary {
	return Summary{
		Position:   r.Position,
		LeagueID:   leagueID,
		LeagueName: leagueName,
		Played:     r.Played,
		Won:        r.Won,
		Drawn:      r.Drawn,
		Lost:       r.Lost,
		Points:     r.Points,
		Form:       r.Form,
	}
}
