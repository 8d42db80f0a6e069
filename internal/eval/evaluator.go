package eval

import (
	"runtime"
	"sync"

	"racerai/internal/policy"
	"racerai/internal/sim"
)

// Result is the outcome of one rollout
type Result struct {
	Reward   float64
	Success  bool
	Steps    int
	Progress int
	Reason   sim.Termination
	Path     []sim.Point
}

// Evaluator scores candidate policies against a fixed track. Evaluations are
// deterministic, so running them in parallel cannot change results.
type Evaluator struct {
	track   *sim.Track
	car     sim.CarParams
	reward  sim.RewardParams
	workers int
}

// New creates an evaluator. workers <= 0 uses one worker per CPU.
func New(track *sim.Track, car sim.CarParams, reward sim.RewardParams, workers int) *Evaluator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Evaluator{
		track:   track,
		car:     car,
		reward:  reward,
		workers: workers,
	}
}

// Evaluate runs one deterministic rollout of the policy until termination
func (e *Evaluator) Evaluate(p *policy.Policy) Result {
	race := sim.NewRace(e.track, e.car, e.reward)
	for !race.Done {
		race.Step(p.Act(race.Car.Orientation, race.Car.Speed))
	}

	stats := race.Stats()
	return Result{
		Reward:   stats.Reward,
		Success:  stats.Success,
		Steps:    stats.Steps,
		Progress: stats.Progress,
		Reason:   stats.Reason,
		Path:     race.Path,
	}
}

// EvaluateBatch evaluates independent candidates in parallel and joins before
// returning, so the caller's population update always sees a complete
// generation.
func (e *Evaluator) EvaluateBatch(policies []*policy.Policy) []Result {
	results := make([]Result, len(policies))

	var wg sync.WaitGroup
	sem := make(chan struct{}, e.workers)

	for i, p := range policies {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, p *policy.Policy) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = e.Evaluate(p)
		}(i, p)
	}
	wg.Wait()

	return results
}
