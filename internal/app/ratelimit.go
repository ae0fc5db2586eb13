package app

import (
	"language-enricher/internal/common/logging"
	"language-enricher/internal/common/ratelimit"
)

// initializeRateLimiter creates the outbound limiter for detection calls
func (app *App) initializeRateLimiter() error {
	if !app.Config.RateLimitEnabled {
		return nil
	}

	var store ratelimit.WindowStore
	if app.RedisClient != nil {
		store = app.RedisClient
	}

	limiter, err := ratelimit.New(ratelimit.Config{
		RequestsPerSecond: app.Config.RateLimitRPS,
		BurstSize:         app.Config.RateLimitBurst,
		Enabled:           true,
		Type:              ratelimit.BackendType(app.Config.RateLimitBackend),
		KeyPrefix:         "language-enricher:ratelimit:",
	}, store)
	if err != nil {
		return err
	}

	app.RateLimiter = limiter
	app.Logger.Info("Rate Limiting: Enabled",
		logging.Field{Key: "backend", Value: app.Config.RateLimitBackend},
		logging.Field{Key: "requests_per_second", Value: app.Config.RateLimitRPS},
		logging.Field{Key: "burst", Value: app.Config.RateLimitBurst},
	)
	return nil
}
