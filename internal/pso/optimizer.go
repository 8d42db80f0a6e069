package pso

import (
	"math"
	"math/rand"

	"racerai/internal/eval"
	"racerai/internal/policy"
	"racerai/internal/train"
)

// Optimizer is the particle-swarm strategy over the same policy-weight space
// as the genetic optimizer. The global best is owned by the optimizer for one
// run and updated serially after the parallel evaluation barrier, only on
// strict improvement.
type Optimizer struct {
	params    Params
	particles []*Particle

	globalBest        []float64
	globalBestFitness float64

	eval    *eval.Evaluator
	tracker *train.Tracker
	rng     *rand.Rand
}

// NewOptimizer creates the strategy with a freshly randomized swarm and an
// empty global best.
func NewOptimizer(params Params, evaluator *eval.Evaluator, tracker *train.Tracker, rng *rand.Rand) *Optimizer {
	dims := params.AngleBins * params.SpeedBins * params.Actions
	o := &Optimizer{
		params:            params,
		particles:         make([]*Particle, params.Swarm),
		globalBest:        make([]float64, dims),
		globalBestFitness: math.Inf(-1),
		eval:              evaluator,
		tracker:           tracker,
		rng:               rng,
	}
	for i := range o.particles {
		o.particles[i] = NewParticle(dims, params, rng)
	}
	return o
}

// Name identifies the strategy
func (o *Optimizer) Name() string {
	return "pso"
}

// Particles exposes the swarm
func (o *Optimizer) Particles() []*Particle {
	return o.particles
}

// GlobalBest returns the best position and fitness seen this run
func (o *Optimizer) GlobalBest() ([]float64, float64) {
	return o.globalBest, o.globalBestFitness
}

// RunGeneration evaluates every particle's current position in parallel, then
// serially folds in personal and global bests and moves the swarm unless a
// rollout succeeded.
func (o *Optimizer) RunGeneration(generation int) train.GenerationResult {
	policies := make([]*policy.Policy, len(o.particles))
	for i, p := range o.particles {
		policies[i] = policy.FromWeights(o.params.AngleBins, o.params.SpeedBins, o.params.Actions, p.Position)
	}
	results := o.eval.EvaluateBatch(policies)

	for i, res := range results {
		p := o.particles[i]
		p.UpdatePersonalBest(res.Reward)
		if res.Reward > o.globalBestFitness {
			o.globalBestFitness = res.Reward
			copy(o.globalBest, p.Position)
		}
		o.tracker.Observe(generation, res.Reward, res.Progress, p.Position, res.Path)
	}

	summary := train.Summarize(results)
	if summary.Success {
		return summary
	}

	for _, p := range o.particles {
		MoveParticle(p, o.globalBest, o.params, o.rng)
	}
	return summary
}
