package runner

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// gate is the counting admission gate bounding concurrent checks. A nil
// gate admits everything. Acquisition is context-aware so a caller
// cancellation unblocks probes still waiting for a slot.
type gate struct {
	sem   *semaphore.Weighted
	limit int

	mu        sync.Mutex
	active    int
	maxActive int
}

// GateStats contains admission gate occupancy statistics for one run.
type GateStats struct {
	// Limit is the configured bound; 0 means unbounded.
	Limit int
	// MaxActive is the peak number of concurrently admitted checks.
	MaxActive int
}

// newGate creates a gate admitting at most limit concurrent checks.
// limit <= 0 disables bounding.
func newGate(limit int) *gate {
	if limit <= 0 {
		return nil
	}
	return &gate{
		sem:   semaphore.NewWeighted(int64(limit)),
		limit: limit,
	}
}

// acquire takes a slot, blocking until one is free or ctx is canceled.
func (g *gate) acquire(ctx context.Context) error {
	if g == nil {
		return nil
	}
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	g.mu.Lock()
	g.active++
	if g.active > g.maxActive {
		g.maxActive = g.active
	}
	g.mu.Unlock()
	return nil
}

// release returns a slot. Must be called exactly once per successful
// acquire, on every exit path, so the gate never leaks capacity.
func (g *gate) release() {
	if g == nil {
		return
	}

	g.mu.Lock()
	g.active--
	g.mu.Unlock()

	g.sem.Release(1)
}

// stats returns the gate's occupancy statistics.
func (g *gate) stats() GateStats {
	if g == nil {
		return GateStats{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return GateStats{Limit: g.limit, MaxActive: g.maxActive}
}
