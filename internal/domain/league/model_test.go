package league

import "testing"

func TestParseSet(t *testing.T) {
	t.Parallel()

	activeSet, err := ParseSet("")
	if err != nil {
		t.Fatalf("parse default: %v", err)
	}
	if activeSet.Len() != 3 || !activeSet.Contains(JLeague) || activeSet.Contains(Bundesliga) {
		t.Fatalf("unexpected active set: %+v", activeSet.List())
	}

	allSet, err := ParseSet("ALL")
	if err != nil {
		t.Fatalf("parse all: %v", err)
	}
	if allSet.Len() != 10 {
		t.Fatalf("expected 10 leagues, got %d", allSet.Len())
	}
	if l, _ := allSet.Get(ChampionsLeague); l.Type != TypeInternational {
		t.Fatalf("champions league must be international, got %s", l.Type)
	}

	custom, err := ParseSet("78, 39,78")
	if err != nil {
		t.Fatalf("parse ids: %v", err)
	}
	if got := custom.IDs(); len(got) != 2 || got[0] != PremierLeague || got[1] != Bundesliga {
		t.Fatalf("unexpected ids: %v", got)
	}

	for _, bad := range []string{"abc", "12345", ","} {
		if _, err := ParseSet(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestActiveReturnsCopy(t *testing.T) {
	t.Parallel()

	list := Active()
	list[0].Name = "changed"
	if Active()[0].Name != "Premier League" {
		t.Fatalf("Active must not expose the package table")
	}
}
