package ratelimit

import "fmt"

// New creates a rate limiter for the configured backend. The store is only
// used by the redis backend.
func New(config Config, store WindowStore) (Limiter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case BackendLocal:
		return NewLocalLimiter(config)
	case BackendRedis:
		return NewDistributedLimiter(config, store)
	default:
		return nil, fmt.Errorf("unsupported rate limiter backend type: %s", config.Type)
	}
}
