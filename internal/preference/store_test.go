package preference

import (
	"context"
	"testing"

	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/platform/cache"
	"github.com/riskibarqy/matchday/internal/platform/locale"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

func TestStore_LoadDefaults(t *testing.T) {
	t.Parallel()

	store := NewStore(cache.NewMemoryBackend(0), logging.NewNop())
	prefs, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load preferences: %v", err)
	}
	if prefs.Locale != locale.English || prefs.Theme != ThemeDark {
		t.Fatalf("unexpected defaults: %+v", prefs)
	}
	if prefs.Favorites == nil || len(prefs.Favorites) != 0 {
		t.Fatalf("expected empty favorites, got %#v", prefs.Favorites)
	}
}

func TestStore_PersistsSettingsAndFavorites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := cache.NewMemoryBackend(0)
	store := NewStore(backend, logging.NewNop())

	if err := store.SetLocale(ctx, locale.Japanese); err != nil {
		t.Fatalf("set locale: %v", err)
	}
	if err := store.SetTheme(ctx, ThemeLight); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if err := store.SetTheme(ctx, Theme("sepia")); err == nil {
		t.Fatalf("expected invalid theme error")
	}
	if _, added, err := store.ToggleFavorite(ctx, 287); err != nil || !added {
		t.Fatalf("add favorite: added=%v err=%v", added, err)
	}
	if _, _, err := store.ToggleFavorite(ctx, 541); err != nil {
		t.Fatalf("add favorite: %v", err)
	}
	favorites, added, err := store.ToggleFavorite(ctx, 287)
	if err != nil || added {
		t.Fatalf("remove favorite: added=%v err=%v", added, err)
	}
	if len(favorites) != 1 || favorites[0] != 541 {
		t.Fatalf("unexpected favorites: %v", favorites)
	}

	reopened := NewStore(backend, logging.NewNop())
	prefs, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("load preferences: %v", err)
	}
	if prefs.Locale != locale.Japanese || prefs.Theme != ThemeLight || !prefs.IsFavorite(541) {
		t.Fatalf("unexpected preferences: %+v", prefs)
	}
}

func TestStore_SurvivesCacheNamespaceReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := cache.NewMemoryBackend(0)
	store := NewStore(backend, logging.NewNop())
	if err := store.SetLocale(ctx, locale.Japanese); err != nil {
		t.Fatalf("set locale: %v", err)
	}

	if err := backend.DeletePrefix(ctx, cache.DefaultNamespace); err != nil {
		t.Fatalf("reset cache namespace: %v", err)
	}
	prefs, err := store.Load(ctx)
	if err != nil || prefs.Locale != locale.Japanese {
		t.Fatalf("preference lost on cache reset: %+v err=%v", prefs, err)
	}
}

func TestPreferences_SpoilerAndFavoriteFilters(t *testing.T) {
	t.Parallel()

	prefs := Preferences{Favorites: []int{10}}
	finished := match.Match{ID: 1, HomeTeam: match.Team{ID: 10}, AwayTeam: match.Team{ID: 11}, Status: match.StatusFinished}
	live := match.Match{ID: 2, HomeTeam: match.Team{ID: 20}, AwayTeam: match.Team{ID: 10}, Status: match.StatusLive}
	other := match.Match{ID: 3, HomeTeam: match.Team{ID: 30}, AwayTeam: match.Team{ID: 31}, Status: match.StatusFinished}

	if !prefs.HidesScore(finished) {
		t.Fatalf("expected finished favorite match to hide score")
	}
	if prefs.HidesScore(live) || prefs.HidesScore(other) {
		t.Fatalf("unexpected hidden score")
	}

	got := prefs.FilterFavorites([]match.Match{finished, live, other})
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("unexpected favorites filter: %+v", got)
	}
}

func TestTeamLeagueHints_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	hints := NewTeamLeagueHints(cache.NewMemoryBackend(0), logging.NewNop())

	if _, ok := hints.TeamLeague(ctx, 287); ok {
		t.Fatalf("expected no hint")
	}
	hints.SetTeamLeague(ctx, 287, 98)
	hints.SetTeamLeague(ctx, 0, 98)

	leagueID, ok := hints.TeamLeague(ctx, 287)
	if !ok || leagueID != 98 {
		t.Fatalf("unexpected hint: got=%d ok=%v", leagueID, ok)
	}

	if err := hints.Reset(ctx); err != nil {
		t.Fatalf("reset hints: %v", err)
	}
	if _, ok := hints.TeamLeague(ctx, 287); ok {
		t.Fatalf("expected hints cleared")
	}
}
