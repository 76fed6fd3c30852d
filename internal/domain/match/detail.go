package match

// Detail is the full view of one fixture.
type Detail struct {
	Match
	Venue      string           `json:"venue"`
	Referee    string           `json:"referee"`
	Lineups    []Lineup         `json:"lineups"`
	Statistics []TeamStatistics `json:"statistics"`
	Players    []TeamPlayers    `json:"players"`
}

type LineupPlayer struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Number   int    `json:"number"`
	Position string `json:"pos"`
	Grid     string `json:"grid,omitempty"`
}

type Lineup struct {
	Team        Team           `json:"team"`
	Formation   string         `json:"formation"`
	Coach       string         `json:"coach"`
	StartXI     []LineupPlayer `json:"startXI"`
	Substitutes []LineupPlayer `json:"substitutes"`
}

// Statistic values arrive as numbers, percentages or null; they are kept as
// display strings.
type Statistic struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type TeamStatistics struct {
	Team       Team        `json:"team"`
	Statistics []Statistic `json:"statistics"`
}

type PlayerPerformance struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Photo   string `json:"photo"`
	Minutes int    `json:"minutes"`
	Rating  string `json:"rating"`
	Goals   int    `json:"goals"`
	Assists int    `json:"assists"`
	Shots   int    `json:"shots"`
	Passes  int    `json:"passes"`
	Yellow  int    `json:"yellow"`
	Red     int    `json:"red"`
}

type TeamPlayers struct {
	Team    Team                `json:"team"`
	Players []PlayerPerformance `json:"players"`
}
