package ga

import (
	"math/rand"

	"racerai/internal/eval"
	"racerai/internal/train"
)

// Params defines the genetic algorithm hyperparameters
type Params struct {
	Population    int
	TopN          int
	MutationRate  float64
	MutationSigma float64
	WeightMin     float64
	WeightMax     float64

	AngleBins int
	SpeedBins int
	Actions   int
}

// Optimizer is the elitist genetic strategy: evaluate all, select the top-N,
// rebuild the population from mutated clones. Reproduction never blends
// parents.
type Optimizer struct {
	params  Params
	pop     *Population
	eval    *eval.Evaluator
	tracker *train.Tracker
	rng     *rand.Rand
}

// NewOptimizer creates the strategy with a freshly randomized population
func NewOptimizer(params Params, evaluator *eval.Evaluator, tracker *train.Tracker, rng *rand.Rand) *Optimizer {
	return &Optimizer{
		params: params,
		pop: NewPopulation(params.Population, params.AngleBins, params.SpeedBins,
			params.Actions, params.WeightMin, params.WeightMax, rng),
		eval:    evaluator,
		tracker: tracker,
		rng:     rng,
	}
}

// Name identifies the strategy
func (o *Optimizer) Name() string {
	return "ga"
}

// Population exposes the current generation's individuals
func (o *Optimizer) Population() *Population {
	return o.pop
}

// RunGeneration evaluates every individual in parallel, records the best, and
// reproduces unless a rollout succeeded.
func (o *Optimizer) RunGeneration(generation int) train.GenerationResult {
	results := o.eval.EvaluateBatch(o.pop.Policies())
	for i, res := range results {
		ind := o.pop.Individuals[i]
		ind.Fitness = res.Reward
		ind.Success = res.Success
		ind.Progress = res.Progress
		o.tracker.Observe(generation, res.Reward, res.Progress, ind.Policy.Weights, res.Path)
	}

	summary := train.Summarize(results)
	if summary.Success {
		return summary
	}

	o.pop.Individuals = o.nextGeneration()
	return summary
}

// nextGeneration builds a full population of mutated clones of parents drawn
// uniformly from the top performers.
func (o *Optimizer) nextGeneration() []*Individual {
	pool := SelectTopPerformers(o.pop, o.params.TopN)

	next := make([]*Individual, o.params.Population)
	for i := range next {
		parent := PickParent(pool, o.rng)
		child := &Individual{Policy: parent.Policy.Clone()}
		Mutate(child.Policy.Weights, o.params.MutationRate, o.params.MutationSigma,
			o.params.WeightMin, o.params.WeightMax, o.rng)
		next[i] = child
	}
	return next
}
