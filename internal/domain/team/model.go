package team

import "github.com/riskibarqy/matchday/internal/domain/standing"

type Venue struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	Capacity int    `json:"capacity"`
	Image    string `json:"image"`
}

type Coach struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

type SquadPlayer struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Number   int    `json:"number"`
	Position string `json:"position"`
	Photo    string `json:"photo"`
	Age      int    `json:"age"`
}

// Info is the club metadata returned by the team endpoint.
type Info struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	Country string `json:"country"`
	Logo    string `json:"logo"`
	Founded int    `json:"founded"`
	Venue   Venue  `json:"venue"`
}

// Detail is the team page. Standing and LeagueID are zero when the team
// could not be found in any followed league table.
type Detail struct {
	Info
	Coach    *Coach            `json:"coach"`
	Squad    []SquadPlayer     `json:"squad"`
	Standing *standing.Summary `json:"standing"`
	LeagueID int               `json:"leagueId,omitempty"`
}
