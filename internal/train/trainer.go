package train

import (
	"context"

	"racerai/internal/eval"
	"racerai/internal/sim"
)

// GenerationResult summarizes one evaluate+update cycle
type GenerationResult struct {
	BestReward float64
	MeanReward float64
	Progress   int // best progress count this generation
	Success    bool
	Reasons    map[sim.Termination]int
}

// Summarize aggregates a generation's rollout results
func Summarize(results []eval.Result) GenerationResult {
	res := GenerationResult{
		Reasons: make(map[sim.Termination]int),
	}
	if len(results) == 0 {
		return res
	}

	res.BestReward = results[0].Reward
	var sum float64
	for _, r := range results {
		sum += r.Reward
		if r.Reward > res.BestReward {
			res.BestReward = r.Reward
		}
		if r.Progress > res.Progress {
			res.Progress = r.Progress
		}
		if r.Success {
			res.Success = true
		}
		res.Reasons[r.Reason]++
	}
	res.MeanReward = sum / float64(len(results))
	return res
}

// Strategy is one population-update algorithm driving the search. Both
// optimizers share the same policy and evaluator contracts, so the trainer is
// agnostic to which is used.
type Strategy interface {
	Name() string
	RunGeneration(generation int) GenerationResult
}

// RunReport is the outcome of a training run. Non-convergence is a normal
// outcome, not an error.
type RunReport struct {
	Generations int
	Converged   bool
	Best        *BestPerformance
}

// Trainer runs the generation loop until the first success or the generation
// cap. Each generation is a self-contained snapshot, so cancellation is
// checked once per generation and aborts cleanly between them.
type Trainer struct {
	Strategy    Strategy
	Tracker     *Tracker
	Generations int

	// OnGeneration, when set, is called after every generation for progress
	// reporting.
	OnGeneration func(generation int, res GenerationResult)
}

// Run executes the training loop
func (t *Trainer) Run(ctx context.Context) (*RunReport, error) {
	for gen := 1; gen <= t.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return &RunReport{Generations: gen - 1, Best: t.Tracker.Best()}, err
		}

		res := t.Strategy.RunGeneration(gen)
		if t.OnGeneration != nil {
			t.OnGeneration(gen, res)
		}
		if res.Success {
			return &RunReport{Generations: gen, Converged: true, Best: t.Tracker.Best()}, nil
		}
	}
	return &RunReport{Generations: t.Generations, Converged: false, Best: t.Tracker.Best()}, nil
}
