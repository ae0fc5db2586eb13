package ratelimit

import "fmt"

// BackendType selects where limiter state lives
type BackendType string

const (
	// BackendLocal keeps a token bucket in process memory
	BackendLocal BackendType = "local"
	// BackendRedis shares a sliding window across instances through Redis
	BackendRedis BackendType = "redis"
)

// Config represents rate limiter configuration
type Config struct {
	RequestsPerSecond int         `json:"requests_per_second"`
	BurstSize         int         `json:"burst_size"`
	Enabled           bool        `json:"enabled"`
	Type              BackendType `json:"type"`
	KeyPrefix         string      `json:"key_prefix,omitempty"`
}

// Validate fills defaults for an enabled limiter and rejects negative values
func (c *Config) Validate() error {
	if c.Type == "" {
		c.Type = BackendLocal
	}

	if !c.Enabled {
		return nil
	}

	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second must not be negative, got %d", c.RequestsPerSecond)
	}
	if c.BurstSize < 0 {
		return fmt.Errorf("burst size must not be negative, got %d", c.BurstSize)
	}

	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = 10
	}
	if c.BurstSize == 0 {
		c.BurstSize = c.RequestsPerSecond
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "ratelimit:"
	}

	return nil
}
