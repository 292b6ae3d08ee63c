// Package bidgate guards bid submission so that at most one bid per client is in flight.
package bidgate

import "sync/atomic"

// Gate is a single-slot lock. It never queues: TryAcquire fails while the slot is held.
type Gate struct {
	held atomic.Bool
}

// TryAcquire takes the slot if it is free
func (g *Gate) TryAcquire() bool {
	return g.held.CompareAndSwap(false, true)
}

// Release frees the slot. Releasing a free gate is a no-op.
func (g *Gate) Release() {
	g.held.Store(false)
}

// Held reports whether a bid is currently in flight
func (g *Gate) Held() bool {
	return g.held.Load()
}
