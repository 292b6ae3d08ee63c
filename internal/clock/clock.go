// Package clock drives periodic work from a single goroutine.
package clock

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Ticker runs a callback on a fixed cadence. Callbacks never overlap: a slow
// callback delays the next tick instead of running concurrently with it.
type Ticker struct {
	clock    clockwork.Clock
	interval time.Duration
}

// NewTicker creates a ticker over the given clock. In production use
// clockwork.NewRealClock(); in tests a FakeClock.
func NewTicker(clock clockwork.Clock, interval time.Duration) *Ticker {
	return &Ticker{clock: clock, interval: interval}
}

// Interval returns the tick cadence
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// Run blocks, invoking fn once per interval until ctx is cancelled.
func (t *Ticker) Run(ctx context.Context, fn func(ctx context.Context)) error {
	tk := t.clock.NewTicker(t.interval)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tk.Chan():
			fn(ctx)
		}
	}
}
