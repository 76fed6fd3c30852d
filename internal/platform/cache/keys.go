package cache

import (
	"fmt"
	"strings"
	"time"
)

// Kind names a class of cached payload. Each kind has its own freshness window.
type Kind string

const (
	KindFixtures   Kind = "fixtures"
	KindMatch      Kind = "match"
	KindStandings  Kind = "standings"
	KindTopScorers Kind = "topscorers"
	KindTeam       Kind = "team"
	KindPlayer     Kind = "player"
)

var ttlByKind = map[Kind]time.Duration{
	KindFixtures:   300 * time.Second,
	KindMatch:      600 * time.Second,
	KindStandings:  21600 * time.Second,
	KindTopScorers: 21600 * time.Second,
	KindTeam:       86400 * time.Second,
	KindPlayer:     86400 * time.Second,
}

// TTL returns the freshness window for the kind; unknown kinds get the
// shortest window.
func (k Kind) TTL() time.Duration {
	if ttl, ok := ttlByKind[k]; ok {
		return ttl
	}
	return ttlByKind[KindFixtures]
}

func (k Kind) String() string {
	return string(k)
}

// Key builds a namespaced key from the kind and every query parameter that
// changes the result, e.g. Key(KindFixtures, "2026-01-15", "en") =>
// "fixtures_2026-01-15_en".
func Key(kind Kind, parts ...any) string {
	var b strings.Builder
	b.WriteString(string(kind))
	for _, part := range parts {
		b.WriteByte('_')
		b.WriteString(strings.TrimSpace(fmt.Sprint(part)))
	}
	return b.String()
}

// KindOf recovers the kind prefix from a key built by Key.
func KindOf(key string) Kind {
	if idx := strings.IndexByte(key, '_'); idx > 0 {
		return Kind(key[:idx])
	}
	return Kind(key)
}
