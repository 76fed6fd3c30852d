package league

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Type separates domestic leagues from international competitions.
type Type string

const (
	TypeDomestic      Type = "domestic"
	TypeInternational Type = "international"
)

// League is a competition the dashboard follows. Name is the English
// provider name; localized names come from the locale catalog.
type League struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type Type   `json:"type"`
}

const (
	PremierLeague      = 39
	LaLiga             = 140
	Bundesliga         = 78
	SerieA             = 135
	Ligue1             = 61
	Eredivisie         = 88
	JLeague            = 98
	ChampionsLeague    = 2
	EuropaLeague       = 3
	WorldCupQualifiers = 960
)

var active = []League{
	{ID: PremierLeague, Name: "Premier League", Type: TypeDomestic},
	{ID: LaLiga, Name: "La Liga", Type: TypeDomestic},
	{ID: JLeague, Name: "J League", Type: TypeDomestic},
}

var all = []League{
	{ID: PremierLeague, Name: "Premier League", Type: TypeDomestic},
	{ID: LaLiga, Name: "La Liga", Type: TypeDomestic},
	{ID: Bundesliga, Name: "Bundesliga", Type: TypeDomestic},
	{ID: SerieA, Name: "Serie A", Type: TypeDomestic},
	{ID: Ligue1, Name: "Ligue 1", Type: TypeDomestic},
	{ID: Eredivisie, Name: "Eredivisie", Type: TypeDomestic},
	{ID: JLeague, Name: "J League", Type: TypeDomestic},
	{ID: ChampionsLeague, Name: "Champions League", Type: TypeInternational},
	{ID: EuropaLeague, Name: "Europa League", Type: TypeInternational},
	{ID: WorldCupQualifiers, Name: "World Cup Qualifiers", Type: TypeInternational},
}

// Active is the default allow-list, kept small to save provider quota.
func Active() []League {
	return append([]League(nil), active...)
}

// All lists every competition the catalogs know about.
func All() []League {
	return append([]League(nil), all...)
}

// Set is an ordered allow-list of leagues.
type Set struct {
	ordered []League
	byID    map[int]League
}

func NewSet(leagues []League) Set {
	s := Set{byID: make(map[int]League, len(leagues))}
	for _, l := range leagues {
		if _, dup := s.byID[l.ID]; dup {
			continue
		}
		s.byID[l.ID] = l
		s.ordered = append(s.ordered, l)
	}
	return s
}

// ParseSet resolves "active", "all" or a comma separated id list. Ids must
// be known competitions.
func ParseSet(selector string) (Set, error) {
	selector = strings.ToLower(strings.TrimSpace(selector))
	switch selector {
	case "", "active":
		return NewSet(active), nil
	case "all":
		return NewSet(all), nil
	}

	known := NewSet(all)
	var picked []League
	for _, part := range strings.Split(selector, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return Set{}, fmt.Errorf("invalid league id %q", part)
		}
		l, ok := known.Get(id)
		if !ok {
			return Set{}, fmt.Errorf("unsupported league id %d", id)
		}
		picked = append(picked, l)
	}
	if len(picked) == 0 {
		return Set{}, fmt.Errorf("league selector %q is empty", selector)
	}
	return NewSet(picked), nil
}

func (s Set) Contains(id int) bool {
	_, ok := s.byID[id]
	return ok
}

func (s Set) Get(id int) (League, bool) {
	l, ok := s.byID[id]
	return l, ok
}

func (s Set) List() []League {
	return append([]League(nil), s.ordered...)
}

func (s Set) Len() int {
	return len(s.ordered)
}

// IDs returns the league ids in ascending order.
func (s Set) IDs() []int {
	ids := make([]int, 0, len(s.ordered))
	for _, l := range s.ordered {
		ids = append(ids, l.ID)
	}
	sort.Ints(ids)
	return ids
}
