package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// LocalCache keeps entries in process memory
type LocalCache struct {
	items *gocache.Cache
}

// NewLocalCache creates an in-memory cache. Expired entries are purged every cleanupInterval.
func NewLocalCache(defaultTTL, cleanupInterval time.Duration) *LocalCache {
	return &LocalCache{items: gocache.New(defaultTTL, cleanupInterval)}
}

func (l *LocalCache) Get(_ context.Context, key string) (interface{}, bool, error) {
	value, found := l.items.Get(key)
	return value, found, nil
}

func (l *LocalCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	l.items.Set(key, value, ttl)
	return nil
}

func (l *LocalCache) Delete(_ context.Context, key string) error {
	l.items.Delete(key)
	return nil
}

// Len reports the number of stored entries, including expired ones not yet purged
func (l *LocalCache) Len() int {
	return l.items.ItemCount()
}

func (l *LocalCache) Health(context.Context) error { return nil }

func (l *LocalCache) Backend() string { return string(TypeLocal) }
