package cache

import (
	"context"
	"time"
)

// Cache is the key/value capability handed to the enricher. A zero ttl on
// Set means the backend default.
type Cache interface {
	Get(ctx context.Context, key string) (value interface{}, found bool, err error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Health(ctx context.Context) error
	Backend() string
}
