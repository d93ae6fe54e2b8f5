// Package rate implements a fixed-window request limiter for the
// credential endpoints.
package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/afisha/api/internal/adapters/cache"
)

type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// WindowLimiter counts hits per key in fixed windows (INCR + EXPIRE). The
// counter lives in whatever cache backend the process was wired with.
type WindowLimiter struct {
	client cache.Client
	prefix string
	max    int64
	window time.Duration
}

func NewWindowLimiter(client cache.Client, prefix string, max int64, window time.Duration) *WindowLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &WindowLimiter{client: client, prefix: prefix, max: max, window: window}
}

func (l *WindowLimiter) Allow(ctx context.Context, key string) (Result, error) {
	winStart := time.Now().UTC().Truncate(l.window)
	counterKey := fmt.Sprintf("%s%s:%d", l.prefix, strings.ReplaceAll(key, " ", "_"), winStart.Unix())

	hits, err := l.client.Incr(ctx, counterKey, l.window)
	if err != nil {
		return Result{}, err
	}

	remaining := l.max - hits
	if remaining < 0 {
		remaining = 0
	}

	res := Result{Allowed: hits <= l.max, Remaining: remaining}
	if !res.Allowed {
		res.RetryAfter = time.Until(winStart.Add(l.window))
		if res.RetryAfter < 0 {
			res.RetryAfter = l.window
		}
	}
	return res, nil
}
