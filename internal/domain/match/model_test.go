package match

import (
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/league"
)

func TestStatusFromProvider(t *testing.T) {
	t.Parallel()

	cases := map[string]Status{
		"1H": StatusLive, "2H": StatusLive, "HT": StatusLive, "ET": StatusLive,
		"P": StatusLive, "BT": StatusLive, "LIVE": StatusLive, "INT": StatusLive,
		"FT": StatusFinished, "AET": StatusFinished, "pen": StatusFinished,
		"NS": StatusUpcoming, "TBD": StatusUpcoming, "PST": StatusUpcoming, "": StatusUpcoming,
	}
	for code, want := range cases {
		if got := StatusFromProvider(code); got != want {
			t.Fatalf("StatusFromProvider(%q) = %s, want %s", code, got, want)
		}
	}
}

func TestShortCode(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Arsenal":          "ARS",
		"FC Tokyo":         "FC ",
		"PSV":              "PSV",
		"Ox":               "OX",
		"川崎フロンターレ": "川崎フ",
	}
	for name, want := range cases {
		if got := ShortCode(name); got != want {
			t.Fatalf("ShortCode(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestMerge_DedupsByIDAndSortsByKickoff(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	nearMidnight := Match{ID: 7, StartTime: base.Add(-30 * time.Minute), Status: StatusLive}
	finished := nearMidnight
	finished.Status = StatusFinished

	yesterday := []Match{nearMidnight, {ID: 3, StartTime: base.Add(-5 * time.Hour)}}
	today := []Match{finished, {ID: 9, StartTime: base.Add(15 * time.Hour)}}
	tomorrow := []Match{{ID: 11, StartTime: base.Add(30 * time.Hour)}}

	got := Merge(yesterday, today, tomorrow)

	wantIDs := []int{3, 7, 9, 11}
	if len(got) != len(wantIDs) {
		t.Fatalf("expected %d matches, got %d", len(wantIDs), len(got))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Fatalf("position %d: got id %d want %d", i, got[i].ID, id)
		}
	}
	if got[1].Status != StatusFinished {
		t.Fatalf("expected later day to win for duplicate id, got %s", got[1].Status)
	}
}

func TestCloneList_DoesNotShareEvents(t *testing.T) {
	t.Parallel()

	src := []Match{{ID: 1, Events: []Event{{ID: 0, Type: "Goal"}}}}
	dst := CloneList(src)
	dst[0].Events[0].Type = "Card"

	if src[0].Events[0].Type != "Goal" {
		t.Fatalf("clone shares event slice with source")
	}
	if got := CloneList(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil clone, got %#v", got)
	}
}

func TestFilterLeagues(t *testing.T) {
	t.Parallel()

	allowed := league.NewSet(league.Active())
	list := []Match{{ID: 1, LeagueID: league.PremierLeague}, {ID: 2, LeagueID: league.Bundesliga}}

	got := FilterLeagues(list, allowed)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("unexpected filtered list: %+v", got)
	}
}
