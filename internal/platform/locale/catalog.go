package locale

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Locale  string            `yaml:"locale"`
	Leagues map[int]string    `yaml:"leagues"`
	Teams   map[string]string `yaml:"teams"`
}

// Catalog holds league and team display names per locale. League names are
// keyed by provider league id; team names by the provider's English name.
type Catalog struct {
	leagues map[Locale]map[int]string
	teams   map[Locale]map[string]string
}

//go:embed catalogs/*.yaml
var embeddedFS embed.FS

var defaultCatalog = mustLoadEmbedded()

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

func mustLoadEmbedded() *Catalog {
	catalog, err := LoadFromFS(embeddedFS)
	if err != nil {
		panic(err)
	}
	return catalog
}

// LoadFromFS reads every catalogs/*.yaml file from fsys. Each file must
// declare a supported locale matching its file name.
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "catalogs/*.yaml")
	if err != nil {
		return nil, crerr.Wrap(err, "glob locale catalogs")
	}
	if len(paths) == 0 {
		return nil, crerr.New("no locale catalogs found")
	}
	sort.Strings(paths)

	c := &Catalog{
		leagues: make(map[Locale]map[int]string),
		teams:   make(map[Locale]map[string]string),
	}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, crerr.Wrapf(err, "read catalog %s", p)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, crerr.Wrapf(err, "parse catalog %s", p)
		}
		if err := c.add(p, file); err != nil {
			return nil, err
		}
	}

	if _, ok := c.leagues[Default]; !ok {
		return nil, crerr.Newf("base locale %s is not defined in catalogs", Default)
	}
	return c, nil
}

func (c *Catalog) add(p string, file catalogFile) error {
	name := strings.TrimSuffix(path.Base(p), path.Ext(p))
	declared := strings.TrimSpace(file.Locale)
	if declared == "" {
		return crerr.Newf("catalog %s: locale is required", p)
	}
	if declared != name {
		return crerr.Newf("catalog %s: locale %q must match file name %q", p, declared, name)
	}
	loc, ok := Parse(declared)
	if !ok || loc.String() != declared {
		return crerr.Newf("catalog %s: unsupported locale %q", p, declared)
	}

	leagues := make(map[int]string, len(file.Leagues))
	for id, value := range file.Leagues {
		if strings.TrimSpace(value) == "" {
			return crerr.Newf("catalog %s: league %d has a blank name", p, id)
		}
		leagues[id] = value
	}
	teams := make(map[string]string, len(file.Teams))
	for key, value := range file.Teams {
		key = strings.TrimSpace(key)
		if key == "" {
			return crerr.Newf("catalog %s: team key cannot be blank", p)
		}
		teams[key] = value
	}

	c.leagues[loc] = leagues
	c.teams[loc] = teams
	return nil
}

// LeagueName returns the display name of a league, falling back to the
// English name and then to fallback.
func (c *Catalog) LeagueName(loc Locale, leagueID int, fallback string) string {
	if c == nil {
		return fallback
	}
	if name, ok := c.leagues[loc][leagueID]; ok {
		return name
	}
	if name, ok := c.leagues[Default][leagueID]; ok {
		return name
	}
	return fallback
}

// TeamName translates a provider team name. Unknown names pass through.
func (c *Catalog) TeamName(loc Locale, name string) string {
	if c == nil || loc == Default {
		return name
	}
	if translated, ok := c.teams[loc][strings.TrimSpace(name)]; ok {
		return translated
	}
	return name
}

// HasLocale reports whether a catalog file was loaded for loc.
func (c *Catalog) HasLocale(loc Locale) bool {
	if c == nil {
		return false
	}
	_, ok := c.leagues[loc]
	return ok
}
