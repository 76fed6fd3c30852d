package cache

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/metrics"
)

const (
	DefaultNamespace = "football_cache_"
	schemaMarker     = "__schema"
)

// EvictionPolicy decides what is removed when a write hits the quota.
type EvictionPolicy string

const (
	// EvictOldest removes the oldest-written entries until the new one fits.
	EvictOldest EvictionPolicy = "lru"
	// EvictAll clears the whole namespace before retrying.
	EvictAll EvictionPolicy = "clear"
)

type Options struct {
	Namespace string
	// MaxBytes caps keys plus encoded values within the namespace; 0 leaves
	// the bound to the backend.
	MaxBytes int64
	Eviction EvictionPolicy
	// SchemaVersion invalidates the whole namespace at open when it differs
	// from the version recorded by the previous run.
	SchemaVersion string
	Now           func() time.Time
	Logger        *logging.Logger
	Metrics       *metrics.Collectors
}

type indexEntry struct {
	size     int64
	storedAt time.Time
}

// Store is the TTL cache in front of the provider. Entries are written with
// their timestamp and judged fresh or stale only when read, so a stale entry
// stays available to GetStale until it is overwritten or evicted.
type Store struct {
	backend   Backend
	namespace string
	maxBytes  int64
	eviction  EvictionPolicy
	now       func() time.Time
	logger    *logging.Logger
	metrics   *metrics.Collectors

	mu    sync.Mutex
	index map[string]indexEntry
	used  int64
}

// Open wraps backend, applies the startup invalidation policy and indexes
// existing entries so the byte budget holds across restarts.
func Open(ctx context.Context, backend Backend, opts Options) (*Store, error) {
	if backend == nil {
		return nil, crerr.New("cache backend is required")
	}

	s := &Store{
		backend:   backend,
		namespace: opts.Namespace,
		maxBytes:  opts.MaxBytes,
		eviction:  opts.Eviction,
		now:       opts.Now,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		index:     make(map[string]indexEntry),
	}
	if s.namespace == "" {
		s.namespace = DefaultNamespace
	}
	if s.eviction != EvictAll {
		s.eviction = EvictOldest
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = logging.Default()
	}
	s.logger = s.logger.Named("cache")

	if err := s.checkSchema(ctx, opts.SchemaVersion); err != nil {
		return nil, err
	}
	if err := s.rebuildIndex(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the payload only while now-storedAt <= ttl. A stale entry is
// left in place for GetStale.
func (s *Store) Get(ctx context.Context, key string, ttl time.Duration) ([]byte, bool) {
	kind := KindOf(key).String()
	rec, ok := s.read(ctx, key)
	if !ok {
		s.metrics.CacheRead(kind, "miss")
		return nil, false
	}
	if s.now().Sub(rec.StoredAt) > ttl {
		s.metrics.CacheRead(kind, "expired")
		return nil, false
	}

	s.metrics.CacheRead(kind, "fresh")
	s.logger.DebugContext(ctx, "cache hit", "key", key, "age", s.now().Sub(rec.StoredAt))
	return rec.Payload, true
}

// GetStale returns the last written payload regardless of age. It is the
// fallback path when a live fetch fails.
func (s *Store) GetStale(ctx context.Context, key string) ([]byte, bool) {
	rec, ok := s.read(ctx, key)
	if !ok {
		return nil, false
	}
	s.metrics.CacheRead(KindOf(key).String(), "stale")
	return rec.Payload, true
}

// Set writes payload stamped with the current time. A quota failure triggers
// one eviction pass and one retry; if that also fails the write is dropped
// and only logged.
func (s *Store) Set(ctx context.Context, key string, payload []byte) {
	if strings.TrimSpace(key) == "" {
		return
	}

	storedAt := s.now()
	value := encodeRecord(Record{Payload: payload, StoredAt: storedAt})

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.putLocked(ctx, key, value, storedAt)
	if err == nil {
		s.metrics.CacheWrite("ok")
		return
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		s.metrics.CacheWrite("dropped")
		s.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
		return
	}

	size := int64(len(s.fullKey(key)) + len(value))
	if s.maxBytes > 0 && size > s.maxBytes {
		s.metrics.CacheWrite("dropped")
		s.logger.WarnContext(ctx, "cache write dropped, entry larger than quota", "key", key, "size", size, "max_bytes", s.maxBytes)
		return
	}

	evicted := s.reclaimLocked(ctx, key, size)
	s.logger.WarnContext(ctx, "cache quota exceeded, reclaimed space",
		"key", key,
		"policy", string(s.eviction),
		"evicted", evicted,
		"used_bytes", s.used,
	)

	if err := s.putLocked(ctx, key, value, storedAt); err != nil {
		s.metrics.CacheWrite("dropped")
		s.logger.WarnContext(ctx, "cache write dropped after quota recovery", "key", key, "size", len(value), "error", err)
		return
	}
	s.metrics.CacheWrite("recovered")
}

// Reset clears every entry in the namespace.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetLocked(ctx)
}

// Len reports the number of indexed entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.index)
}

// UsedBytes reports the bytes accounted against MaxBytes.
func (s *Store) UsedBytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.used
}

func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) read(ctx context.Context, key string) (Record, bool) {
	raw, ok, err := s.backend.Get(ctx, s.fullKey(key))
	if err != nil {
		s.logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
		return Record{}, false
	}
	if !ok {
		return Record{}, false
	}
	rec, err := decodeRecord(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "cache record unreadable", "key", key, "error", err)
		return Record{}, false
	}
	return rec, true
}

func (s *Store) putLocked(ctx context.Context, key string, value []byte, storedAt time.Time) error {
	full := s.fullKey(key)
	size := int64(len(full) + len(value))
	if s.overBudgetLocked(key, size) > 0 {
		return ErrQuotaExceeded
	}
	if err := s.backend.Put(ctx, full, value); err != nil {
		return err
	}

	if old, ok := s.index[key]; ok {
		s.used -= old.size
	}
	s.index[key] = indexEntry{size: size, storedAt: storedAt}
	s.used += size
	return nil
}

func (s *Store) overBudgetLocked(key string, size int64) int64 {
	if s.maxBytes <= 0 {
		return 0
	}
	used := s.used
	if old, ok := s.index[key]; ok {
		used -= old.size
	}
	return used + size - s.maxBytes
}

// reclaimLocked frees room for a write of size bytes under key and returns
// the number of entries removed.
func (s *Store) reclaimLocked(ctx context.Context, key string, size int64) int {
	if s.eviction == EvictAll {
		evicted := len(s.index)
		if err := s.resetLocked(ctx); err != nil {
			s.logger.WarnContext(ctx, "cache clear failed", "error", err)
		}
		s.metrics.CacheEvicted(evicted)
		return evicted
	}

	need := s.overBudgetLocked(key, size)
	if need <= 0 {
		// The backend refused on its own; free at least the incoming size.
		need = size
	}

	type candidate struct {
		key string
		indexEntry
	}
	candidates := make([]candidate, 0, len(s.index))
	for k, entry := range s.index {
		if k == key {
			continue
		}
		candidates = append(candidates, candidate{key: k, indexEntry: entry})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].storedAt.Equal(candidates[j].storedAt) {
			return candidates[i].key < candidates[j].key
		}
		return candidates[i].storedAt.Before(candidates[j].storedAt)
	})

	var freed int64
	evicted := 0
	for _, c := range candidates {
		if freed >= need {
			break
		}
		if err := s.backend.Delete(ctx, s.fullKey(c.key)); err != nil {
			s.logger.WarnContext(ctx, "cache eviction failed", "key", c.key, "error", err)
			continue
		}
		delete(s.index, c.key)
		s.used -= c.size
		freed += c.size
		evicted++
	}
	s.metrics.CacheEvicted(evicted)
	return evicted
}

func (s *Store) resetLocked(ctx context.Context) error {
	marker, hasMarker, err := s.backend.Get(ctx, s.fullKey(schemaMarker))
	if err != nil {
		hasMarker = false
	}
	if err := s.backend.DeletePrefix(ctx, s.namespace); err != nil {
		return crerr.Wrap(err, "clear cache namespace")
	}
	s.index = make(map[string]indexEntry)
	s.used = 0
	if hasMarker {
		if err := s.backend.Put(ctx, s.fullKey(schemaMarker), marker); err != nil {
			return crerr.Wrap(err, "restore cache schema marker")
		}
	}
	return nil
}

func (s *Store) checkSchema(ctx context.Context, version string) error {
	version = strings.TrimSpace(version)
	if version == "" {
		return nil
	}

	markerKey := s.fullKey(schemaMarker)
	current, ok, err := s.backend.Get(ctx, markerKey)
	if err != nil {
		return crerr.Wrap(err, "read cache schema marker")
	}
	if ok && string(current) == version {
		return nil
	}

	if ok {
		s.logger.InfoContext(ctx, "cache schema changed, resetting store", "from", string(current), "to", version)
	}
	if err := s.backend.DeletePrefix(ctx, s.namespace); err != nil {
		return crerr.Wrap(err, "reset cache namespace")
	}
	if err := s.backend.Put(ctx, markerKey, []byte(version)); err != nil {
		return crerr.Wrap(err, "write cache schema marker")
	}
	return nil
}

func (s *Store) rebuildIndex(ctx context.Context) error {
	markerKey := s.fullKey(schemaMarker)
	err := s.backend.Scan(ctx, s.namespace, func(full string, value []byte) error {
		if full == markerKey {
			return nil
		}
		rec, err := decodeRecord(value)
		if err != nil {
			return nil
		}
		key := strings.TrimPrefix(full, s.namespace)
		size := int64(len(full) + len(value))
		s.index[key] = indexEntry{size: size, storedAt: rec.StoredAt}
		s.used += size
		return nil
	})
	if err != nil {
		return crerr.Wrap(err, "index cache entries")
	}
	return nil
}

func (s *Store) fullKey(key string) string {
	return s.namespace + key
}
