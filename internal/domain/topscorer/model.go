package topscorer

// Scorer is one row of a league's scoring chart. Rank is the position in the
// provider response, starting at 1.
type Scorer struct {
	Rank        int    `json:"rank"`
	PlayerID    int    `json:"playerId"`
	PlayerName  string `json:"playerName"`
	PlayerPhoto string `json:"playerPhoto"`
	TeamID      int    `json:"teamId"`
	TeamName    string `json:"teamName"`
	TeamLogo    string `json:"teamLogo"`
	Goals       int    `json:"goals"`
	Assists     int    `json:"assists"`
	Appearances int    `json:"appearances"`
}

type Chart struct {
	LeagueID int      `json:"leagueId"`
	Season   int      `json:"season"`
	Scorers  []Scorer `json:"scorers"`
}

// Top returns at most limit scorers; limit <= 0 keeps all.
func (c Chart) Top(limit int) []Scorer {
	if limit <= 0 || limit >= len(c.Scorers) {
		return append([]Scorer(nil), c.Scorers...)
	}
	return append([]Scorer(nil), c.Scorers[:limit]...)
}
