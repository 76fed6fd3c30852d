package cache

import (
	"context"
	"errors"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

const redisScanBatch = 256

// RedisBackend shares cached payloads between processes. A redis server
// running with maxmemory and noeviction answers writes with OOM, which is
// surfaced as ErrQuotaExceeded.
type RedisBackend struct {
	client *redis.Client
}

func NewRedisBackend(ctx context.Context, rawURL string) (*RedisBackend, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, crerr.Wrap(err, "parse redis url")
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, crerr.Wrap(err, "ping redis")
	}
	return &RedisBackend{client: client}, nil
}

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	out, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, crerr.Wrapf(err, "redis get key=%s", key)
	}
	return out, true, nil
}

func (r *RedisBackend) Put(ctx context.Context, key string, value []byte) error {
	err := r.client.Set(ctx, key, value, 0).Err()
	if isRedisOOM(err) {
		return crerr.Mark(crerr.Wrapf(err, "redis set key=%s", key), ErrQuotaExceeded)
	}
	if err != nil {
		return crerr.Wrapf(err, "redis set key=%s", key)
	}
	return nil
}

func (r *RedisBackend) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisBackend) Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error {
	iter := r.client.Scan(ctx, 0, prefix+"*", redisScanBatch).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		value, ok, err := r.Get(ctx, key)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (r *RedisBackend) DeletePrefix(ctx context.Context, prefix string) error {
	batch := make([]string, 0, redisScanBatch)
	iter := r.client.Scan(ctx, 0, prefix+"*", redisScanBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == redisScanBatch {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return crerr.Wrap(err, "redis delete batch")
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return crerr.Wrap(err, "redis scan")
	}
	if len(batch) > 0 {
		if err := r.client.Del(ctx, batch...).Err(); err != nil {
			return crerr.Wrap(err, "redis delete batch")
		}
	}
	return nil
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}

func isRedisOOM(err error) bool {
	if err == nil {
		return false
	}
	return strings.HasPrefix(err.Error(), "OOM ")
}
