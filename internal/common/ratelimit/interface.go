package ratelimit

import (
	"context"
	"time"
)

// Limiter throttles calls to the language detection service
type Limiter interface {
	// Wait blocks until a request may proceed or ctx is done
	Wait(ctx context.Context) error
	// TryAcquire reports whether a request may proceed right now
	TryAcquire() bool
	Stats() map[string]interface{}
}

// WindowStore is the shared state behind the distributed limiter.
// *redis.Client from the internal redis package satisfies it.
type WindowStore interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error)
}
