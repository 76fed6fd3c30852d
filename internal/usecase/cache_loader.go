package usecase

import (
	"context"
	"errors"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/matchday/internal/platform/cache"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
)

// CacheStore is the TTL cache the query functions read through.
type CacheStore interface {
	Get(ctx context.Context, key string, ttl time.Duration) ([]byte, bool)
	GetStale(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte)
}

// Source tells how a loaded value was obtained.
type Source string

const (
	SourceCache    Source = "cache"
	SourceProvider Source = "provider"
	SourceStale    Source = "stale"
)

type cachedLoader struct {
	store  CacheStore
	logger *logging.Logger
	flight resilience.SingleFlight[[]byte]
}

func newCachedLoader(store CacheStore, logger *logging.Logger) *cachedLoader {
	return &cachedLoader{store: store, logger: logger}
}

// loadCached answers from a fresh entry, else calls fetch and caches its
// result. When fetch fails with a transport failure the last written entry
// is returned regardless of age. Provider errors and empty results are
// returned as is and never cached.
func loadCached[T any](
	ctx context.Context,
	l *cachedLoader,
	kind cache.Kind,
	key string,
	fetch func(ctx context.Context) (T, error),
) (T, Source, error) {
	var zero T

	if raw, ok := l.store.Get(ctx, key, kind.TTL()); ok {
		var cached T
		if err := sonic.Unmarshal(raw, &cached); err == nil {
			return cached, SourceCache, nil
		}
		l.logger.WarnContext(ctx, "discarding undecodable cache entry", "key", key)
	}

	// The shared fetch runs detached from this caller's cancellation so the
	// callers that joined it still get its result.
	sharedCtx := context.WithoutCancel(ctx)
	flight := l.flight.DoChan(key, func() ([]byte, error) {
		value, fetchErr := fetch(sharedCtx)
		if fetchErr != nil {
			return nil, fetchErr
		}
		encoded, encErr := sonic.Marshal(value)
		if encErr != nil {
			return nil, encErr
		}
		l.store.Set(sharedCtx, key, encoded)
		return encoded, nil
	})

	var res resilience.Result[[]byte]
	select {
	case <-ctx.Done():
		return zero, SourceProvider, ctx.Err()
	case res = <-flight:
	}
	raw, err := res.Val, res.Err
	if err == nil {
		var fresh T
		if decErr := sonic.Unmarshal(raw, &fresh); decErr != nil {
			return zero, SourceProvider, decErr
		}
		return fresh, SourceProvider, nil
	}

	if !isTransportFailure(err) {
		if perr, ok := asProviderError(err); ok {
			l.logger.InfoContext(ctx, "provider error, not serving stale cache",
				"key", key,
				"endpoint", perr.Endpoint,
				"rate_limited", perr.IsRateLimited(),
			)
		}
		return zero, SourceProvider, err
	}

	stale, ok := l.store.GetStale(ctx, key)
	if !ok {
		return zero, SourceProvider, err
	}
	var value T
	if decErr := sonic.Unmarshal(stale, &value); decErr != nil {
		return zero, SourceProvider, errors.Join(err, decErr)
	}
	l.logger.WarnContext(ctx, "serving stale cache after transport failure", "key", key, "error", err)
	return value, SourceStale, nil
}
