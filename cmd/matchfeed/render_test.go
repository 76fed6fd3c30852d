package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/preference"
)

func TestFormatMatchLine(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, time.March, 14, 19, 30, 0, 0, time.UTC)
	base := match.Match{
		League:    "Premier League",
		HomeTeam:  match.Team{ID: 42, Name: "Arsenal"},
		AwayTeam:  match.Team{ID: 49, Name: "Chelsea"},
		HomeScore: 2,
		AwayScore: 1,
		StartTime: kickoff,
	}

	cases := []struct {
		name   string
		status match.Status
		minute int
		prefs  preference.Preferences
		want   string
	}{
		{name: "upcoming", status: match.StatusUpcoming, want: "UPCOMING\t03-14 19:30\tPremier League\tArsenal\tvs\tChelsea"},
		{name: "live minute", status: match.StatusLive, minute: 67, want: "67'\t03-14 19:30\tPremier League\tArsenal\t2-1\tChelsea"},
		{name: "finished", status: match.StatusFinished, want: "FT\t03-14 19:30\tPremier League\tArsenal\t2-1\tChelsea"},
		{
			name:   "finished favorite hides score",
			status: match.StatusFinished,
			prefs:  preference.Preferences{Favorites: []int{49}},
			want:   "FT\t03-14 19:30\tPremier League\tArsenal\t?-?\t*Chelsea",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := base
			m.Status = tc.status
			m.Minute = tc.minute
			if got := formatMatchLine(m, tc.prefs); got != tc.want {
				t.Fatalf("unexpected line:\ngot=%q\nwant=%q", got, tc.want)
			}
		})
	}
}

func TestPrintMatches_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printMatches(&buf, nil, preference.Preferences{})
	if strings.TrimSpace(buf.String()) != "no matches" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestOptionalInt(t *testing.T) {
	t.Parallel()

	got, err := optionalInt([]string{"39", "2025"}, 1, "season")
	if err != nil || got != 2025 {
		t.Fatalf("unexpected season: got=%d err=%v", got, err)
	}
	if got, err := optionalInt([]string{"39"}, 1, "season"); err != nil || got != 0 {
		t.Fatalf("expected zero for missing arg, got=%d err=%v", got, err)
	}
	if _, err := optionalInt([]string{"39", "x"}, 1, "season"); err == nil {
		t.Fatalf("expected parse error")
	}
}
