// Package throttle spaces out calls to rate-limited upstreams.
package throttle

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle blocks until the next call is allowed.
type Throttle interface {
	Wait(ctx context.Context) error
}

// Interval guarantees at least d between consecutive permits. The first
// permit is granted immediately.
type Interval struct {
	limiter *rate.Limiter
}

// NewInterval returns a Throttle that spaces permits by d. A non-positive d
// yields a throttle that never blocks.
func NewInterval(d time.Duration) Throttle {
	if d <= 0 {
		return None{}
	}
	return &Interval{limiter: rate.NewLimiter(rate.Every(d), 1)}
}

func (i *Interval) Wait(ctx context.Context) error {
	return i.limiter.Wait(ctx)
}

// None never blocks; it only observes ctx cancellation.
type None struct{}

func (None) Wait(ctx context.Context) error {
	return ctx.Err()
}
