package train

import (
	"sync"

	"racerai/internal/sim"
)

// BestPerformance is the best rollout seen across a whole run
type BestPerformance struct {
	Reward     float64
	Generation int
	Progress   int
	Weights    []float64
	Path       []sim.Point
}

// Tracker records the best-ever result. The record is replaced only on strict
// improvement, through a single compare-and-replace guarded by a mutex so
// parallel evaluations can report safely.
type Tracker struct {
	mu   sync.Mutex
	best *BestPerformance
}

// NewTracker creates an empty tracker; any first observation becomes the best
func NewTracker() *Tracker {
	return &Tracker{}
}

// Observe reports one rollout outcome. Returns true if it became the new best.
// Weights and path are copied so later mutation of the caller's buffers cannot
// corrupt the record.
func (t *Tracker) Observe(generation int, reward float64, progress int, weights []float64, path []sim.Point) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.best != nil && reward <= t.best.Reward {
		return false
	}

	w := make([]float64, len(weights))
	copy(w, weights)
	p := make([]sim.Point, len(path))
	copy(p, path)

	t.best = &BestPerformance{
		Reward:     reward,
		Generation: generation,
		Progress:   progress,
		Weights:    w,
		Path:       p,
	}
	return true
}

// Best returns the current best record, or nil before the first observation
func (t *Tracker) Best() *BestPerformance {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.best
}
