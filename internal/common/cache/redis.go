package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/go-redis/redis/v8"
	"language-enricher/internal/common/errors"
)

// RedisCache stores JSON encoded values under a shared key prefix so several
// instances see the same entries
type RedisCache struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
}

// NewRedisCache creates a cache on an existing client. The caller owns the client.
func NewRedisCache(client *redis.Client, prefix string, defaultTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, defaultTTL: defaultTTL}
}

func (r *RedisCache) key(key string) string {
	return r.prefix + key
}

// Get decodes the stored JSON. Values written by other tools that are not
// JSON come back as the raw string.
func (r *RedisCache) Get(ctx context.Context, key string) (interface{}, bool, error) {
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.InternalError("cache read failed", err).WithContext("key", key)
	}

	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return string(raw), true, nil
	}
	return value, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.ValidationError("cache value is not JSON serializable")
	}
	if ttl == 0 {
		ttl = r.defaultTTL
	}
	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		return errors.InternalError("cache write failed", err).WithContext("key", key)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Health pings the server
func (r *RedisCache) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Backend() string { return string(TypeRedis) }
