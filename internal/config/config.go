// Package config provides configuration management for the language enricher
// service. It loads configuration from environment variables with sensible
// defaults and validates it so the service refuses to start on bad settings.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - LOG_FORMAT: "console" or "json" (default: console)
//   - LOG_FILE: Write logs to this file instead of stdout
//
// Detection Service:
//   - API_SERVER_URL: Base URL of the language detection service (required)
//   - API_TOKEN: Bearer token sent to the detection service
//   - HTTP_TIMEOUT: Timeout of one detection request (default: 30s)
//   - HTTP_MAX_IDLE_CONNS: Idle connections kept across hosts (default: 100)
//   - HTTP_MAX_IDLE_CONNS_PER_HOST: Idle connections kept to the detection service (default: 10)
//   - HTTP_IDLE_CONN_TIMEOUT: How long an idle connection is kept (default: 90s)
//   - HTTP_DISABLE_KEEPALIVES: Open a new connection per request (default: false)
//   - HTTP_DISABLE_COMPRESSION: Do not request gzip responses (default: false)
//   - HTTP_INSECURE_SKIP_VERIFY: Accept any TLS certificate, for self-signed test deployments (default: false)
//
// Resilience:
//   - CIRCUIT_BREAKER_ENABLED: Guard detection calls with a circuit breaker (default: false)
//   - CIRCUIT_BREAKER_MAX_FAILURES: Consecutive failures that open the breaker (default: 3)
//   - CIRCUIT_BREAKER_TIMEOUT: How long the breaker stays open (default: 30s)
//   - RATE_LIMIT_ENABLED: Throttle detection calls (default: false)
//   - RATE_LIMIT_RPS: Requests per second when throttling (default: 10)
//   - RATE_LIMIT_BURST: Burst size when throttling (default: 20)
//   - RATE_LIMIT_BACKEND: "local" or "redis" to share the limit across instances (default: local)
//
// Cache:
//   - CACHE_TYPE: "local" or "redis" (default: local)
//   - CACHE_TTL: Default entry lifetime (default: 5m)
//   - REDIS_ADDRESS: Redis server address (default: localhost:6379)
//   - REDIS_PASSWORD: Redis password
//   - REDIS_DB: Redis database number 0-15 (default: 0)
//
// Example usage:
//
//	cfg := config.Load()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid configuration: %v", err)
//	}
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"language-enricher/internal/common/errors"
	"language-enricher/internal/common/validation"
)

// Config holds all configuration values for the language enricher service.
//
// The configuration is loaded using Load() and should be validated using
// Validate() before use.
type Config struct {
	// Application settings
	Port      string `env:"PORT" validate:"required"`
	LogLevel  string `env:"LOG_LEVEL" validate:"oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	LogFormat string `env:"LOG_FORMAT" validate:"oneof=console json"`
	LogFile   string `env:"LOG_FILE"`

	// Detection service
	APIServerURL            string        `env:"API_SERVER_URL" validate:"required,serverurl"`
	APIToken                string        `env:"API_TOKEN"`
	HTTPTimeout             time.Duration `env:"HTTP_TIMEOUT" validate:"gt=0"`
	HTTPMaxIdleConns        int           `env:"HTTP_MAX_IDLE_CONNS" validate:"min=0"`
	HTTPMaxIdleConnsPerHost int           `env:"HTTP_MAX_IDLE_CONNS_PER_HOST" validate:"min=0"`
	HTTPIdleConnTimeout     time.Duration `env:"HTTP_IDLE_CONN_TIMEOUT"`
	HTTPDisableKeepAlives   bool          `env:"HTTP_DISABLE_KEEPALIVES"`
	HTTPDisableCompression  bool          `env:"HTTP_DISABLE_COMPRESSION"`
	HTTPInsecureSkipVerify  bool          `env:"HTTP_INSECURE_SKIP_VERIFY"`

	// Resilience
	CircuitBreakerEnabled     bool          `env:"CIRCUIT_BREAKER_ENABLED"`
	CircuitBreakerMaxFailures int           `env:"CIRCUIT_BREAKER_MAX_FAILURES" validate:"min=0"`
	CircuitBreakerTimeout     time.Duration `env:"CIRCUIT_BREAKER_TIMEOUT"`
	RateLimitEnabled          bool          `env:"RATE_LIMIT_ENABLED"`
	RateLimitRPS              int           `env:"RATE_LIMIT_RPS" validate:"min=0"`
	RateLimitBurst            int           `env:"RATE_LIMIT_BURST" validate:"min=0"`
	RateLimitBackend          string        `env:"RATE_LIMIT_BACKEND" validate:"oneof=local redis"`

	// Cache
	CacheType     string        `env:"CACHE_TYPE" validate:"oneof=local redis"`
	CacheTTL      time.Duration `env:"CACHE_TTL" validate:"gt=0"`
	RedisAddress  string        `env:"REDIS_ADDRESS"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" validate:"min=0,max=15"`
}

// Load creates a new Config from environment variables. Unset variables and
// values that cannot be parsed fall back to their defaults.
//
// Load does not validate the configuration; call Validate() on the result.
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
		LogFile:   getEnv("LOG_FILE", ""),

		APIServerURL:            getEnv("API_SERVER_URL", ""),
		APIToken:                getEnv("API_TOKEN", ""),
		HTTPTimeout:             getDurationEnv("HTTP_TIMEOUT", 30*time.Second),
		HTTPMaxIdleConns:        getIntEnv("HTTP_MAX_IDLE_CONNS", 100),
		HTTPMaxIdleConnsPerHost: getIntEnv("HTTP_MAX_IDLE_CONNS_PER_HOST", 10),
		HTTPIdleConnTimeout:     getDurationEnv("HTTP_IDLE_CONN_TIMEOUT", 90*time.Second),
		HTTPDisableKeepAlives:   getBoolEnv("HTTP_DISABLE_KEEPALIVES", false),
		HTTPDisableCompression:  getBoolEnv("HTTP_DISABLE_COMPRESSION", false),
		HTTPInsecureSkipVerify:  getBoolEnv("HTTP_INSECURE_SKIP_VERIFY", false),

		CircuitBreakerEnabled:     getBoolEnv("CIRCUIT_BREAKER_ENABLED", false),
		CircuitBreakerMaxFailures: getIntEnv("CIRCUIT_BREAKER_MAX_FAILURES", 3),
		CircuitBreakerTimeout:     getDurationEnv("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		RateLimitEnabled:          getBoolEnv("RATE_LIMIT_ENABLED", false),
		RateLimitRPS:              getIntEnv("RATE_LIMIT_RPS", 10),
		RateLimitBurst:            getIntEnv("RATE_LIMIT_BURST", 20),
		RateLimitBackend:          getEnv("RATE_LIMIT_BACKEND", "local"),

		CacheType:     getEnv("CACHE_TYPE", "local"),
		CacheTTL:      getDurationEnv("CACHE_TTL", 5*time.Minute),
		RedisAddress:  getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
	}
}

// getEnv retrieves an environment variable value or returns a default value if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv retrieves a boolean environment variable value or returns a default value.
//
// Accepted values are those of strconv.ParseBool ("true", "1", "f", ...).
// Anything else returns defaultValue.
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Validate checks every field and returns a config error describing all
// problems found, or nil.
//
// This method checks:
//   - API_SERVER_URL is present and accepted by the URL validator
//   - numeric and duration ranges
//   - cross-field requirements (redis address when a redis backend is
//     selected, positive limiter settings when rate limiting is on)
func (c *Config) Validate() error {
	if err := validation.NewStructValidator().ValidateStruct(c); err != nil {
		return err
	}

	v := validation.NewValidator().
		RequirePort(c.Port, "PORT").
		ValidateIf(c.UsesRedis(), func() error {
			return validation.NewValidator().RequireString(c.RedisAddress, "REDIS_ADDRESS").Error()
		}).
		ValidateIf(c.CircuitBreakerEnabled, func() error {
			if c.CircuitBreakerTimeout <= 0 {
				return fmt.Errorf("CIRCUIT_BREAKER_TIMEOUT must be positive")
			}
			return validation.NewValidator().
				RequirePositive(c.CircuitBreakerMaxFailures, "CIRCUIT_BREAKER_MAX_FAILURES").
				Error()
		}).
		ValidateIf(c.RateLimitEnabled, func() error {
			return validation.NewValidator().
				RequirePositive(c.RateLimitRPS, "RATE_LIMIT_RPS").
				RequirePositive(c.RateLimitBurst, "RATE_LIMIT_BURST").
				Error()
		})

	if err := v.Error(); err != nil {
		return errors.ConfigError(err.Error())
	}
	return nil
}

// UsesRedis reports whether any component needs the Redis connection
func (c *Config) UsesRedis() bool {
	return c.CacheType == "redis" || (c.RateLimitEnabled && c.RateLimitBackend == "redis")
}
