// Package ratelimit throttles outbound calls to the language detection
// service.
//
// Two backends share the Limiter interface:
//   - local: a golang.org/x/time/rate token bucket per process
//   - redis: a one-second sliding window in Redis shared by all instances
//
// Usage:
//
//	limiter, err := ratelimit.New(ratelimit.Config{
//		Enabled:           true,
//		RequestsPerSecond: 10,
//		BurstSize:         20,
//		Type:              ratelimit.BackendLocal,
//	}, nil)
//	if err := limiter.Wait(ctx); err != nil {
//		return err
//	}
package ratelimit
