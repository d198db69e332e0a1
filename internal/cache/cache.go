// Package cache provides the volatile key/value store used for auth
// sessions and in-progress reservation wizard state.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned when a key does not exist or has expired.
var ErrMiss = errors.New("cache miss")

// KV is a minimal key/value interface over the Redis client so session
// and wizard state can be tested against an in-memory implementation.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	// Expire refreshes a key's TTL, returning ErrMiss if the key is gone.
	Expire(ctx context.Context, key string, ttl time.Duration) error
}
