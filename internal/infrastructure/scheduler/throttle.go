package scheduler

import (
	"context"
	"time"

	"ArticleSeeder/internal/ports"
)

// Throttle enforces a fixed courtesy pause between requests.
type Throttle struct {
	delay time.Duration
}

var _ ports.Throttle = (*Throttle)(nil)

// NewThrottle builds a throttle; zero or negative delays disable it.
func NewThrottle(delay time.Duration) *Throttle {
	return &Throttle{delay: delay}
}

// Wait sleeps for the configured delay or until ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil || t.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(t.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
