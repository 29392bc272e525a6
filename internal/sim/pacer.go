package sim

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// pacer spaces ticks out to at most one per interval. Pacing is a
// presentation concern; a zero interval disables it.
type pacer struct {
	limiter *rate.Limiter
}

func newPacer(interval time.Duration) *pacer {
	if interval <= 0 {
		return nil
	}
	return &pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// prime consumes the initial burst token so the first wait after the first
// tick is a full interval.
func (p *pacer) prime() {
	if p == nil {
		return
	}
	p.limiter.Allow()
}

// Wait blocks until the next tick may run or ctx is done.
func (p *pacer) Wait(ctx context.Context) error {
	if p == nil {
		return ctx.Err()
	}
	res := p.limiter.Reserve()
	delay := res.Delay()
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		res.Cancel()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
