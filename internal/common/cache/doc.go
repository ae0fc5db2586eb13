// Package cache provides the key/value store handed to the enricher as the
// host "cache" capability.
//
// Two backends are available:
//   - local: in-memory, github.com/patrickmn/go-cache
//   - redis: shared across instances, github.com/go-redis/redis/v8, values stored as JSON
//
// Usage:
//
//	c, err := cache.New(cache.Config{Type: cache.TypeLocal, TTL: 5 * time.Minute})
//	_ = c.Set(ctx, "key", "value", 0) // 0 uses the configured TTL
//	val, found, err := c.Get(ctx, "key")
package cache
