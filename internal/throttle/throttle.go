// Package throttle coalesces provider events into batches the UI can keep up with.
package throttle

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"everywhere/internal/config"
	"everywhere/internal/domain"
)

// Throttler turns a stream of result events into throttled batches.
// Everything that arrives during the initial window is delivered as a
// single AccumulatedBatch. Afterwards events pass through one by one
// while the limiter allows it and are held for the next tick otherwise.
type Throttler struct {
	initialWindow time.Duration
	interval      time.Duration
	limiter       *rate.Limiter
}

// New creates a throttler from the throttle settings
func New(cfg config.ThrottleConfig) *Throttler {
	limit := rate.Limit(cfg.RatePerSecond)
	if cfg.RatePerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	interval := cfg.Interval()
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}

	return &Throttler{
		initialWindow: cfg.InitialWindow(),
		interval:      interval,
		limiter:       rate.NewLimiter(limit, burst),
	}
}

// Run reads in until it is closed or ctx is done and always closes out.
// Held events are flushed when in closes but not when ctx is cancelled.
func (t *Throttler) Run(ctx context.Context, in <-chan domain.ResultEvent, out chan<- domain.ThrottledBatch) {
	defer close(out)

	var held []domain.ResultEvent
	accumulating := t.initialWindow > 0

	var windowC <-chan time.Time
	if accumulating {
		window := time.NewTimer(t.initialWindow)
		defer window.Stop()
		windowC = window.C
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	send := func(b domain.ThrottledBatch) bool {
		select {
		case out <- b:
			return true
		case <-ctx.Done():
			return false
		}
	}

	flush := func() bool {
		defer func() { held = nil }()
		switch {
		case len(held) == 0:
			return true
		case len(held) == 1 && !accumulating:
			return send(domain.SingleEvent{Event: held[0]})
		default:
			return send(domain.AccumulatedBatch{Items: held})
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-in:
			if !ok {
				flush()
				return
			}
			if accumulating || len(held) > 0 || !t.limiter.Allow() {
				held = append(held, ev)
				continue
			}
			if !send(domain.SingleEvent{Event: ev}) {
				return
			}

		case <-windowC:
			windowC = nil
			if len(held) > 0 && !send(domain.AccumulatedBatch{Items: held}) {
				return
			}
			held = nil
			accumulating = false

		case <-ticker.C:
			if !accumulating && !flush() {
				return
			}
		}
	}
}
