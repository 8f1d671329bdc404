package ratelimit

import (
	"context"
	"time"
)

// Limits caps requests per sliding window. A zero limit disables that window.
type Limits struct {
	PerMinute int
	PerHour   int
}

// IsZero reports whether no window is limited.
func (l Limits) IsZero() bool {
	return l.PerMinute <= 0 && l.PerHour <= 0
}

// Tightest returns the shortest limited window and its cap.
func (l Limits) Tightest() (time.Duration, int, bool) {
	switch {
	case l.PerMinute > 0:
		return time.Minute, l.PerMinute, true
	case l.PerHour > 0:
		return time.Hour, l.PerHour, true
	default:
		return 0, 0, false
	}
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limits Limits) (bool, error)
	Remaining(ctx context.Context, key string, window time.Duration, limit int) (int64, error)
}
