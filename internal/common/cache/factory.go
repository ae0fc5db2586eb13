package cache

import (
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Type selects the cache backend
type Type string

const (
	TypeLocal Type = "local"
	TypeRedis Type = "redis"
)

// Config holds cache configuration
type Config struct {
	Type            Type
	TTL             time.Duration
	CleanupInterval time.Duration
	KeyPrefix       string
	// RedisClient is required for TypeRedis and is not closed by the cache
	RedisClient *redis.Client
}

// DefaultConfig returns an in-memory cache with a five minute TTL
func DefaultConfig() Config {
	return Config{
		Type:            TypeLocal,
		TTL:             5 * time.Minute,
		CleanupInterval: 10 * time.Minute,
		KeyPrefix:       "language-enricher:",
	}
}

// New creates the backend named by config.Type. An empty type means local.
func New(config Config) (Cache, error) {
	if config.TTL <= 0 {
		config.TTL = DefaultConfig().TTL
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 2 * config.TTL
	}

	switch config.Type {
	case TypeLocal, "":
		return NewLocalCache(config.TTL, config.CleanupInterval), nil
	case TypeRedis:
		if config.RedisClient == nil {
			return nil, fmt.Errorf("redis cache requires a redis client")
		}
		return NewRedisCache(config.RedisClient, config.KeyPrefix, config.TTL), nil
	default:
		return nil, fmt.Errorf("unknown cache type: %s", config.Type)
	}
}
