package cache

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore(t *testing.T, backend Backend, opts Options) (*Store, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)}
	if opts.Now == nil {
		opts.Now = clock.Now
	}
	store, err := Open(context.Background(), backend, opts)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return store, clock
}

func TestStore_GetHonoursTTLAndStaleFallback(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, clock := newTestStore(t, NewMemoryBackend(0), Options{})
	key := Key(KindFixtures, "2026-01-15", "en")
	payload := []byte(`[{"id":1}]`)

	store.Set(ctx, key, payload)

	clock.Advance(299 * time.Second)
	got, ok := store.Get(ctx, key, KindFixtures.TTL())
	if !ok || !bytes.Equal(got, payload) {
		t.Fatalf("expected fresh payload at 299s, got ok=%v payload=%s", ok, got)
	}

	clock.Advance(2 * time.Second)
	if _, ok := store.Get(ctx, key, KindFixtures.TTL()); ok {
		t.Fatalf("expected miss at 301s")
	}

	stale, ok := store.GetStale(ctx, key)
	if !ok || !bytes.Equal(stale, payload) {
		t.Fatalf("expected stale payload at 301s, got ok=%v payload=%s", ok, stale)
	}

	// A fresh-read miss must not remove the entry.
	if _, ok := store.GetStale(ctx, key); !ok {
		t.Fatalf("stale entry disappeared after expired read")
	}
}

func TestStore_GetAtExactTTLIsFresh(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, clock := newTestStore(t, NewMemoryBackend(0), Options{})
	key := Key(KindMatch, 1035062, "ja")

	store.Set(ctx, key, []byte("detail"))
	clock.Advance(KindMatch.TTL())

	if _, ok := store.Get(ctx, key, KindMatch.TTL()); !ok {
		t.Fatalf("expected entry to be fresh when age equals ttl")
	}
}

func TestStore_GetAtExactTTLIsFreshWithSubMillisecondWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, clock := newTestStore(t, NewMemoryBackend(0), Options{})
	clock.now = clock.now.Add(500 * time.Microsecond)
	key := Key(KindFixtures, "2026-01-15", "en")

	store.Set(ctx, key, []byte("[]"))
	clock.Advance(KindFixtures.TTL())

	if _, ok := store.Get(ctx, key, KindFixtures.TTL()); !ok {
		t.Fatalf("expected entry written at a sub-millisecond instant to be fresh at exactly ttl")
	}
	clock.Advance(time.Nanosecond)
	if _, ok := store.Get(ctx, key, KindFixtures.TTL()); ok {
		t.Fatalf("expected miss one nanosecond past ttl")
	}
}

func TestRecord_KeepsNanosecondTimestamp(t *testing.T) {
	t.Parallel()

	storedAt := time.Date(2026, 1, 15, 9, 0, 0, 500123, time.UTC)
	rec, err := decodeRecord(encodeRecord(Record{Payload: []byte("x"), StoredAt: storedAt}))
	if err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if !rec.StoredAt.Equal(storedAt) {
		t.Fatalf("unexpected stored time: got=%s want=%s", rec.StoredAt, storedAt)
	}
	if string(rec.Payload) != "x" {
		t.Fatalf("unexpected payload: %q", rec.Payload)
	}
}

func TestStore_SetOverwritesAndRestampsEntry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, clock := newTestStore(t, NewMemoryBackend(0), Options{})
	key := Key(KindStandings, 39, 2025)

	store.Set(ctx, key, []byte("old"))
	clock.Advance(7 * time.Hour)
	store.Set(ctx, key, []byte("new"))

	got, ok := store.Get(ctx, key, KindStandings.TTL())
	if !ok || string(got) != "new" {
		t.Fatalf("expected overwritten fresh payload, got ok=%v payload=%s", ok, got)
	}
	if store.Len() != 1 {
		t.Fatalf("expected one entry, got %d", store.Len())
	}
}

func TestStore_QuotaEvictsOldestEntriesOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	payload := bytes.Repeat([]byte("x"), 100)
	entry := int64(len(DefaultNamespace)+len("team_1")) + int64(recordHeaderLen+len(payload))

	store, clock := newTestStore(t, NewMemoryBackend(0), Options{MaxBytes: entry * 3})

	for _, key := range []string{"team_1", "team_2", "team_3"} {
		store.Set(ctx, key, payload)
		clock.Advance(time.Minute)
	}
	store.Set(ctx, "team_4", payload)

	if _, ok := store.GetStale(ctx, "team_1"); ok {
		t.Fatalf("expected oldest entry to be evicted")
	}
	for _, key := range []string{"team_2", "team_3", "team_4"} {
		if _, ok := store.GetStale(ctx, key); !ok {
			t.Fatalf("expected %s to survive eviction", key)
		}
	}
	if store.UsedBytes() > entry*3 {
		t.Fatalf("used bytes %d exceed budget %d", store.UsedBytes(), entry*3)
	}
}

func TestStore_QuotaClearPolicyWipesNamespace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	payload := bytes.Repeat([]byte("y"), 100)
	entry := int64(len(DefaultNamespace)+len("team_1")) + int64(recordHeaderLen+len(payload))

	store, _ := newTestStore(t, NewMemoryBackend(0), Options{MaxBytes: entry * 2, Eviction: EvictAll})

	store.Set(ctx, "team_1", payload)
	store.Set(ctx, "team_2", payload)
	store.Set(ctx, "team_3", payload)

	if _, ok := store.GetStale(ctx, "team_1"); ok {
		t.Fatalf("expected team_1 cleared")
	}
	if _, ok := store.GetStale(ctx, "team_2"); ok {
		t.Fatalf("expected team_2 cleared")
	}
	if _, ok := store.GetStale(ctx, "team_3"); !ok {
		t.Fatalf("expected retried write to land")
	}
}

func TestStore_OversizedWriteIsDroppedWithoutCollateralEviction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newTestStore(t, NewMemoryBackend(0), Options{MaxBytes: 256})

	store.Set(ctx, "player_7_2025", []byte("small"))
	store.Set(ctx, "player_8_2025", bytes.Repeat([]byte("z"), 1024))

	if _, ok := store.GetStale(ctx, "player_8_2025"); ok {
		t.Fatalf("expected oversized write to be dropped")
	}
	if _, ok := store.GetStale(ctx, "player_7_2025"); !ok {
		t.Fatalf("expected existing entry to survive an oversized write")
	}
}

func TestStore_BackendQuotaTriggersReclaimAndRetry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	payload := bytes.Repeat([]byte("q"), 200)
	entry := int64(len(DefaultNamespace)+len("match_1_en")) + int64(recordHeaderLen+len(payload))
	backend := NewMemoryBackend(entry * 2)

	store, clock := newTestStore(t, backend, Options{})

	store.Set(ctx, "match_1_en", payload)
	clock.Advance(time.Second)
	store.Set(ctx, "match_2_en", payload)
	clock.Advance(time.Second)
	store.Set(ctx, "match_3_en", payload)

	if _, ok := store.GetStale(ctx, "match_3_en"); !ok {
		t.Fatalf("expected write to succeed after backend quota recovery")
	}
	if _, ok := store.GetStale(ctx, "match_1_en"); ok {
		t.Fatalf("expected oldest entry reclaimed")
	}
	if backend.Used() > entry*2 {
		t.Fatalf("backend over capacity: %d", backend.Used())
	}
}

func TestOpen_SchemaVersionChangeResetsNamespace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := NewMemoryBackend(0)
	if err := backend.Put(ctx, "football_pref_locale", []byte("ja")); err != nil {
		t.Fatalf("seed preference: %v", err)
	}

	first, _ := newTestStore(t, backend, Options{SchemaVersion: "1"})
	first.Set(ctx, "team_40_en", []byte("liverpool"))

	same, _ := newTestStore(t, backend, Options{SchemaVersion: "1"})
	if _, ok := same.GetStale(ctx, "team_40_en"); !ok {
		t.Fatalf("expected entry to survive reopen with same schema")
	}
	if same.UsedBytes() != first.UsedBytes() {
		t.Fatalf("index not rebuilt: got=%d want=%d", same.UsedBytes(), first.UsedBytes())
	}

	bumped, _ := newTestStore(t, backend, Options{SchemaVersion: "2"})
	if _, ok := bumped.GetStale(ctx, "team_40_en"); ok {
		t.Fatalf("expected schema bump to reset cache")
	}
	if bumped.Len() != 0 {
		t.Fatalf("expected empty index after reset, got %d", bumped.Len())
	}
	if _, ok, _ := backend.Get(ctx, "football_pref_locale"); !ok {
		t.Fatalf("reset must not touch keys outside the cache namespace")
	}
}

func TestStore_BadgerBackendRoundTrip(t *testing.T) {
	t.Parallel()

	backend, err := OpenBadger("")
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	ctx := context.Background()
	store, clock := newTestStore(t, backend, Options{SchemaVersion: "1"})
	defer store.Close()

	store.Set(ctx, "topscorers_140_2025", []byte(`[{"rank":1}]`))
	clock.Advance(KindTopScorers.TTL() + time.Second)

	if _, ok := store.Get(ctx, "topscorers_140_2025", KindTopScorers.TTL()); ok {
		t.Fatalf("expected badger entry to be expired")
	}
	got, ok := store.GetStale(ctx, "topscorers_140_2025")
	if !ok || string(got) != `[{"rank":1}]` {
		t.Fatalf("unexpected stale payload ok=%v payload=%s", ok, got)
	}
	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, ok := store.GetStale(ctx, "topscorers_140_2025"); ok {
		t.Fatalf("expected reset to clear badger namespace")
	}
}

func TestKey_NamespacesByKindAndParams(t *testing.T) {
	t.Parallel()

	if got := Key(KindFixtures, "2026-01-15", "en"); got != "fixtures_2026-01-15_en" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := KindOf(Key(KindPlayer, 276, 2025)); got != KindPlayer {
		t.Fatalf("unexpected kind %q", got)
	}

	cases := map[Kind]time.Duration{
		KindFixtures:   5 * time.Minute,
		KindMatch:      10 * time.Minute,
		KindStandings:  6 * time.Hour,
		KindTopScorers: 6 * time.Hour,
		KindTeam:       24 * time.Hour,
		KindPlayer:     24 * time.Hour,
	}
	for kind, want := range cases {
		if got := kind.TTL(); got != want {
			t.Fatalf("ttl for %s: got=%s want=%s", kind, got, want)
		}
	}
}

func TestIsRedisOOM(t *testing.T) {
	t.Parallel()

	if !isRedisOOM(errors.New("OOM command not allowed when used memory > 'maxmemory'.")) {
		t.Fatalf("expected OOM reply to be classified as quota")
	}
	if isRedisOOM(errors.New("connection refused")) || isRedisOOM(nil) {
		t.Fatalf("unexpected OOM classification")
	}
}
