package ratelimit

import (
	"context"
	"fmt"
	"time"

	"language-enricher/internal/common/logging"
)

// globalKey is the window shared by every instance calling the detection service
const globalKey = "detect"

// distributedLimiter implements Redis-backed distributed rate limiting
type distributedLimiter struct {
	config Config
	store  WindowStore
}

// NewDistributedLimiter creates a limiter whose one-second sliding window is
// shared by every instance using the same store and key prefix.
func NewDistributedLimiter(config Config, store WindowStore) (Limiter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if store == nil {
		return nil, fmt.Errorf("redis client is required for distributed rate limiter")
	}

	return &distributedLimiter{
		config: config,
		store:  store,
	}, nil
}

// Wait blocks until a request can be made according to the distributed rate limit
func (rl *distributedLimiter) Wait(ctx context.Context) error {
	if !rl.config.Enabled {
		return nil
	}

	waitTime := time.Second / time.Duration(rl.config.RequestsPerSecond)
	if waitTime < 10*time.Millisecond {
		waitTime = 10 * time.Millisecond
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		allowed, err := rl.acquire(ctx)
		if err != nil {
			return err
		}
		if allowed {
			return nil
		}

		timer := time.NewTimer(waitTime)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// TryAcquire attempts to acquire a slot without blocking
func (rl *distributedLimiter) TryAcquire() bool {
	if !rl.config.Enabled {
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	allowed, _ := rl.acquire(ctx)
	return allowed
}

// acquire admits the request when the store fails, unless the failure came
// from ctx being done, in which case ctx.Err() is returned.
func (rl *distributedLimiter) acquire(ctx context.Context) (bool, error) {
	allowed, _, err := rl.store.CheckRateLimit(ctx, rl.config.KeyPrefix+globalKey, rl.config.RequestsPerSecond, time.Second)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		logging.Warn("Distributed rate limit check failed, allowing request", logging.Err(err))
		return true, nil
	}
	return allowed, nil
}

// Stats returns rate limiter statistics
func (rl *distributedLimiter) Stats() map[string]interface{} {
	return map[string]interface{}{
		"type":                "distributed",
		"enabled":             rl.config.Enabled,
		"requests_per_second": rl.config.RequestsPerSecond,
		"backend":             string(BackendRedis),
		"key_prefix":          rl.config.KeyPrefix,
	}
}
