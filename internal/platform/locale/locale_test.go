package locale

import (
	"testing"
	"testing/fstest"
)

func TestParse_NegotiatesSupportedLocales(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw    string
		want   Locale
		wantOK bool
	}{
		{raw: "en", want: English, wantOK: true},
		{raw: "ja", want: Japanese, wantOK: true},
		{raw: "ja-JP", want: Japanese, wantOK: true},
		{raw: "en-GB", want: English, wantOK: true},
		{raw: "fr-CH, ja;q=0.9, en;q=0.8", want: Japanese, wantOK: true},
		{raw: "", want: English, wantOK: false},
		{raw: "!!", want: English, wantOK: false},
	}
	for _, tc := range cases {
		got, ok := Parse(tc.raw)
		if got != tc.want || ok != tc.wantOK {
			t.Fatalf("Parse(%q) = (%s, %v), want (%s, %v)", tc.raw, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestDefaultCatalog_TranslatesLeaguesAndTeams(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()

	if got := c.LeagueName(Japanese, 39, "Premier League"); got != "プレミアリーグ" {
		t.Fatalf("unexpected ja league name: %q", got)
	}
	if got := c.LeagueName(English, 98, ""); got != "J League" {
		t.Fatalf("unexpected en league name: %q", got)
	}
	if got := c.LeagueName(Japanese, 999, "Unknown Cup"); got != "Unknown Cup" {
		t.Fatalf("expected fallback for unknown league, got %q", got)
	}
	if got := c.TeamName(Japanese, "Kawasaki Frontale"); got != "川崎フロンターレ" {
		t.Fatalf("unexpected ja team name: %q", got)
	}
	if got := c.TeamName(Japanese, "Arsenal"); got != "Arsenal" {
		t.Fatalf("expected unknown team to pass through, got %q", got)
	}
	if got := c.TeamName(English, "Kawasaki Frontale"); got != "Kawasaki Frontale" {
		t.Fatalf("english must not translate, got %q", got)
	}
}

func TestLoadFromFS_RejectsMismatchedLocale(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"catalogs/en.yaml": {Data: []byte("locale: en\nleagues:\n  39: Premier League\n")},
		"catalogs/ja.yaml": {Data: []byte("locale: en\nleagues:\n  39: x\n")},
	}
	if _, err := LoadFromFS(fsys); err == nil {
		t.Fatalf("expected mismatched locale to fail")
	}
}

func TestLoadFromFS_RequiresBaseLocale(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"catalogs/ja.yaml": {Data: []byte("locale: ja\nleagues:\n  39: プレミアリーグ\n")},
	}
	if _, err := LoadFromFS(fsys); err == nil {
		t.Fatalf("expected missing base locale to fail")
	}
}
