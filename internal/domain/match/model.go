package match

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/riskibarqy/matchday/internal/domain/league"
)

// Status is the display status derived once from the provider status code.
type Status string

const (
	StatusLive     Status = "LIVE"
	StatusUpcoming Status = "UPCOMING"
	StatusFinished Status = "FT"
)

// StatusFromProvider maps a provider short status code. Anything not live or
// finished (NS, TBD, PST, CANC, ...) is shown as upcoming.
func StatusFromProvider(short string) Status {
	switch strings.ToUpper(strings.TrimSpace(short)) {
	case "1H", "2H", "HT", "ET", "P", "BT", "LIVE", "INT":
		return StatusLive
	case "FT", "AET", "PEN":
		return StatusFinished
	default:
		return StatusUpcoming
	}
}

type Team struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Short string `json:"short"`
	Logo  string `json:"logo"`
}

type Event struct {
	ID     int    `json:"id"`
	Type   string `json:"type"`
	Detail string `json:"detail,omitempty"`
	TeamID int    `json:"teamId"`
	Minute int    `json:"minute"`
	Extra  int    `json:"extra,omitempty"`
	Player string `json:"player"`
	Assist string `json:"assist,omitempty"`
}

// Match is one transformed fixture as shown in the live feed.
type Match struct {
	ID        int         `json:"id"`
	Type      league.Type `json:"type"`
	League    string      `json:"league"`
	LeagueID  int         `json:"leagueId"`
	HomeTeam  Team        `json:"homeTeam"`
	AwayTeam  Team        `json:"awayTeam"`
	HomeScore int         `json:"homeScore"`
	AwayScore int         `json:"awayScore"`
	Status    Status      `json:"status"`
	Minute    int         `json:"minute"`
	StartTime time.Time   `json:"startTime"`
	Events    []Event     `json:"events"`
}

// Clone returns a copy that shares no slices with m.
func (m Match) Clone() Match {
	out := m
	if m.Events != nil {
		out.Events = append([]Event(nil), m.Events...)
	}
	return out
}

// CloneList deep-copies a match list. A nil list clones to an empty one.
func CloneList(list []Match) []Match {
	out := make([]Match, len(list))
	for i := range list {
		out[i] = list[i].Clone()
	}
	return out
}

// ShortCode is the three letter abbreviation built from the English name.
func ShortCode(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > 3 {
		runes := []rune(name)
		name = string(runes[:3])
	}
	return strings.ToUpper(name)
}

// SortByStart orders matches by kickoff, then id for a stable result.
func SortByStart(list []Match) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].StartTime.Equal(list[j].StartTime) {
			return list[i].ID < list[j].ID
		}
		return list[i].StartTime.Before(list[j].StartTime)
	})
}

// Merge flattens per-day lists, keeps one match per id (the later day wins
// because it carries the fresher status) and sorts by kickoff.
func Merge(days ...[]Match) []Match {
	total := 0
	for _, day := range days {
		total += len(day)
	}

	index := make(map[int]int, total)
	out := make([]Match, 0, total)
	for _, day := range days {
		for _, m := range day {
			if pos, ok := index[m.ID]; ok {
				out[pos] = m
				continue
			}
			index[m.ID] = len(out)
			out = append(out, m)
		}
	}
	SortByStart(out)
	return out
}

// FilterLeagues drops matches whose league is not in allowed.
func FilterLeagues(list []Match, allowed league.Set) []Match {
	out := list[:0:0]
	for _, m := range list {
		if allowed.Contains(m.LeagueID) {
			out = append(out, m)
		}
	}
	return out
}
