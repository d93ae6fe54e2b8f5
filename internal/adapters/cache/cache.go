// Package cache provides a small key/value abstraction with in-process and
// redis backends. It backs the revocation ledger's hot path and the
// login/register rate limiter.
package cache

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("cache: key not found")

type Client interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	// Incr atomically increments the counter at key, creating it with the
	// given ttl on first use. Returns the value after the increment.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)

	Close() error
}
