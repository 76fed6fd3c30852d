package preference

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/platform/cache"
	"github.com/riskibarqy/matchday/internal/platform/locale"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

// Prefix keeps preference keys apart from the cache namespace so cache
// resets and evictions never touch them.
const Prefix = "football_pref_"

const (
	keyLocale    = Prefix + "locale"
	keyTheme     = Prefix + "theme"
	keyFavorites = Prefix + "favorites"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

func ParseTheme(raw string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(raw))) {
	case ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	default:
		return "", fmt.Errorf("invalid theme %q: valid values are %s, %s", raw, ThemeDark, ThemeLight)
	}
}

// Preferences is the user-facing state restored at startup.
type Preferences struct {
	Locale    locale.Locale `json:"locale"`
	Theme     Theme         `json:"theme"`
	Favorites []int         `json:"favorites"`
}

// IsFavorite reports whether teamID is a favorited team.
func (p Preferences) IsFavorite(teamID int) bool {
	return slices.Contains(p.Favorites, teamID)
}

// InvolvesFavorite reports whether either side of m is a favorited team.
func (p Preferences) InvolvesFavorite(m match.Match) bool {
	return p.IsFavorite(m.HomeTeam.ID) || p.IsFavorite(m.AwayTeam.ID)
}

// HidesScore is true for finished matches of favorited teams, so a result
// is not spoiled before the user chooses to look.
func (p Preferences) HidesScore(m match.Match) bool {
	return m.Status == match.StatusFinished && p.InvolvesFavorite(m)
}

// FilterFavorites keeps the matches involving a favorited team.
func (p Preferences) FilterFavorites(list []match.Match) []match.Match {
	out := make([]match.Match, 0, len(list))
	for _, m := range list {
		if p.InvolvesFavorite(m) {
			out = append(out, m)
		}
	}
	return out
}

// Store persists preferences on a cache backend under Prefix.
type Store struct {
	backend cache.Backend
	logger  *logging.Logger

	mu sync.Mutex
}

func NewStore(backend cache.Backend, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{backend: backend, logger: logger.Named("preference")}
}

// Load returns the stored preferences with defaults (English, dark theme, no
// favorites) for anything missing or unreadable.
func (s *Store) Load(ctx context.Context) (Preferences, error) {
	prefs := Preferences{Locale: locale.Default, Theme: ThemeDark, Favorites: []int{}}

	raw, ok, err := s.backend.Get(ctx, keyLocale)
	if err != nil {
		return prefs, crerr.Wrap(err, "read locale preference")
	}
	if ok {
		prefs.Locale = locale.Normalize(string(raw))
	}

	raw, ok, err = s.backend.Get(ctx, keyTheme)
	if err != nil {
		return prefs, crerr.Wrap(err, "read theme preference")
	}
	if ok {
		if theme, parseErr := ParseTheme(string(raw)); parseErr == nil {
			prefs.Theme = theme
		}
	}

	favorites, err := s.favorites(ctx)
	if err != nil {
		return prefs, err
	}
	prefs.Favorites = favorites
	return prefs, nil
}

func (s *Store) SetLocale(ctx context.Context, loc locale.Locale) error {
	if err := s.backend.Put(ctx, keyLocale, []byte(loc.String())); err != nil {
		return crerr.Wrap(err, "write locale preference")
	}
	return nil
}

func (s *Store) SetTheme(ctx context.Context, theme Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}
	if err := s.backend.Put(ctx, keyTheme, []byte(theme)); err != nil {
		return crerr.Wrap(err, "write theme preference")
	}
	return nil
}

// ToggleFavorite adds teamID when absent and removes it otherwise. It
// returns the new list and whether the team is now a favorite.
func (s *Store) ToggleFavorite(ctx context.Context, teamID int) ([]int, bool, error) {
	if teamID <= 0 {
		return nil, false, fmt.Errorf("invalid team id %d", teamID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	favorites, err := s.favorites(ctx)
	if err != nil {
		return nil, false, err
	}

	added := false
	if idx := slices.Index(favorites, teamID); idx >= 0 {
		favorites = slices.Delete(favorites, idx, idx+1)
	} else {
		favorites = append(favorites, teamID)
		added = true
	}

	raw, err := sonic.Marshal(favorites)
	if err != nil {
		return nil, false, crerr.Wrap(err, "encode favorites")
	}
	if err := s.backend.Put(ctx, keyFavorites, raw); err != nil {
		return nil, false, crerr.Wrap(err, "write favorites")
	}
	return favorites, added, nil
}

func (s *Store) favorites(ctx context.Context) ([]int, error) {
	raw, ok, err := s.backend.Get(ctx, keyFavorites)
	if err != nil {
		return nil, crerr.Wrap(err, "read favorites")
	}
	if !ok {
		return []int{}, nil
	}

	var favorites []int
	if err := sonic.Unmarshal(raw, &favorites); err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable favorites", "error", err)
		return []int{}, nil
	}
	if favorites == nil {
		favorites = []int{}
	}
	return favorites, nil
}
