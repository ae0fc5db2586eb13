package app

import (
	"context"

	"language-enricher/internal/common/logging"
	"language-enricher/internal/redis"
)

// initializeRedis connects to Redis when the cache or the rate limiter needs it
func (app *App) initializeRedis(ctx context.Context) error {
	if !app.Config.UsesRedis() {
		app.Logger.Info("Redis: Not configured (local cache and rate limiting)")
		return nil
	}

	client, err := redis.NewClient(ctx, &redis.Config{
		Address:  app.Config.RedisAddress,
		Password: app.Config.RedisPassword,
		DB:       app.Config.RedisDB,
	})
	if err != nil {
		return err
	}

	app.RedisClient = client
	app.Logger.Info("Redis: Connected", logging.Field{Key: "address", Value: app.Config.RedisAddress})
	return nil
}
