package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Service is a minimal TTL cache used to throttle calls to rate-limited
// upstreams.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest *interface{}) error
	Delete(ctx context.Context, keys ...string) error
}
