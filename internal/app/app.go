package app

import (
	"context"

	"language-enricher/internal/circuitbreaker"
	"language-enricher/internal/common/cache"
	commonhttp "language-enricher/internal/common/http"
	"language-enricher/internal/common/logging"
	"language-enricher/internal/common/ratelimit"
	"language-enricher/internal/config"
	"language-enricher/internal/enrichers"
	"language-enricher/internal/redis"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// App holds all the application dependencies
type App struct {
	Config         *config.Config
	RedisClient    *redis.Client
	Cache          cache.Cache
	RateLimiter    ratelimit.Limiter
	CircuitBreaker *circuitbreaker.GoBreakerAdapter
	Client         *commonhttp.Client
	Enricher       *enrichers.LanguageEnricher
	Logger         logging.Logger
}

// New creates a new application instance with all dependencies
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "app"}),
	}

	// Initialize components in order of dependency
	if err := app.initializeRedis(ctx); err != nil {
		return nil, err
	}

	if err := app.initializeCache(); err != nil {
		app.Cleanup()
		return nil, err
	}

	if err := app.initializeRateLimiter(); err != nil {
		app.Cleanup()
		return nil, err
	}

	app.initializeCircuitBreaker()
	app.initializeEnricher()

	if err := app.Enricher.Setup(ctx); err != nil {
		app.Cleanup()
		return nil, err
	}

	return app, nil
}

func (app *App) initializeCache() error {
	settings := cache.Config{
		Type:            cache.Type(app.Config.CacheType),
		TTL:             app.Config.CacheTTL,
		CleanupInterval: 2 * app.Config.CacheTTL,
		KeyPrefix:       cache.DefaultConfig().KeyPrefix,
	}
	if app.RedisClient != nil {
		settings.RedisClient = app.RedisClient.Redis()
	}

	c, err := cache.New(settings)
	if err != nil {
		return err
	}

	app.Cache = c
	app.Logger.Info("Cache: Ready",
		logging.Field{Key: "backend", Value: c.Backend()},
		logging.Field{Key: "ttl", Value: app.Config.CacheTTL.String()},
	)
	return nil
}

func (app *App) initializeCircuitBreaker() {
	if !app.Config.CircuitBreakerEnabled {
		return
	}

	settings := circuitbreaker.HTTPConfig
	if app.Config.CircuitBreakerMaxFailures > 0 {
		settings.MaxFailures = app.Config.CircuitBreakerMaxFailures
	}
	if app.Config.CircuitBreakerTimeout > 0 {
		settings.Timeout = app.Config.CircuitBreakerTimeout
	}

	app.CircuitBreaker = circuitbreaker.NewGoBreaker("language-detection", settings, app.Logger)
	app.Logger.Info("Circuit Breaker: Enabled",
		logging.Field{Key: "max_failures", Value: settings.MaxFailures},
		logging.Field{Key: "timeout", Value: settings.Timeout.String()},
	)
}

func (app *App) initializeEnricher() {
	opts := []commonhttp.ClientOption{
		commonhttp.WithTimeout(app.Config.HTTPTimeout),
		commonhttp.WithLogger(logging.GetGlobalLogger()),
	}
	if app.Config.HTTPMaxIdleConns > 0 {
		opts = append(opts, commonhttp.WithMaxIdleConns(app.Config.HTTPMaxIdleConns))
	}
	if app.Config.HTTPMaxIdleConnsPerHost > 0 {
		opts = append(opts, commonhttp.WithMaxIdleConnsPerHost(app.Config.HTTPMaxIdleConnsPerHost))
	}
	if app.Config.HTTPIdleConnTimeout > 0 {
		opts = append(opts, commonhttp.WithIdleConnTimeout(app.Config.HTTPIdleConnTimeout))
	}
	if app.Config.HTTPDisableKeepAlives {
		opts = append(opts, commonhttp.WithoutKeepAlives())
	}
	if app.Config.HTTPDisableCompression {
		opts = append(opts, commonhttp.WithoutCompression())
	}
	if app.Config.HTTPInsecureSkipVerify {
		app.Logger.Warn("TLS certificate verification disabled for the detection service")
		opts = append(opts, commonhttp.WithInsecureSkipVerify())
	}
	if app.CircuitBreaker != nil {
		opts = append(opts, commonhttp.WithCircuitBreaker(app.CircuitBreaker))
	}
	if app.RateLimiter != nil {
		opts = append(opts, commonhttp.WithRateLimiter(app.RateLimiter))
	}
	app.Client = commonhttp.NewClient(opts...)

	app.Enricher = enrichers.NewLanguageEnricher(
		enrichers.EnricherConfig{
			APIServerURL: app.Config.APIServerURL,
			Token:        app.Config.APIToken,
		},
		enrichers.WithHTTPClient(app.Client),
		enrichers.WithCache(app.Cache),
		enrichers.WithLogger(logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "enricher"})),
	)
}

// Cleanup releases external connections
func (app *App) Cleanup() {
	if app.RedisClient != nil {
		if err := app.RedisClient.Close(); err != nil {
			app.Logger.Warn("Error closing Redis client", logging.Err(err))
		}
		app.RedisClient = nil
	}
}
