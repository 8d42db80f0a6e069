package ga

import (
	"math/rand"
	"sort"

	"racerai/internal/policy"
)

// Individual is one population member. It owns its policy; reproduction
// deep-copies so individuals never share weight buffers.
type Individual struct {
	Policy   *policy.Policy
	Fitness  float64
	Success  bool
	Progress int
}

// Clone creates a deep copy of an individual
func (ind *Individual) Clone() *Individual {
	return &Individual{
		Policy:   ind.Policy.Clone(),
		Fitness:  ind.Fitness,
		Success:  ind.Success,
		Progress: ind.Progress,
	}
}

// Population manages the collection of individuals
type Population struct {
	Individuals []*Individual
}

// NewPopulation creates a population with independently randomized policies,
// weights uniform in [weightMin, weightMax).
func NewPopulation(size, angleBins, speedBins, actions int, weightMin, weightMax float64, rng *rand.Rand) *Population {
	p := &Population{Individuals: make([]*Individual, size)}
	for i := 0; i < size; i++ {
		p.Individuals[i] = &Individual{
			Policy: policy.Random(angleBins, speedBins, actions, weightMin, weightMax, rng),
		}
	}
	return p
}

// Size returns the population size
func (p *Population) Size() int {
	return len(p.Individuals)
}

// Policies returns the members' policies in population order
func (p *Population) Policies() []*policy.Policy {
	out := make([]*policy.Policy, len(p.Individuals))
	for i, ind := range p.Individuals {
		out[i] = ind.Policy
	}
	return out
}

// SortByFitness sorts individuals by fitness descending. The sort is stable so
// equal-reward individuals keep their relative order.
func (p *Population) SortByFitness() {
	sort.SliceStable(p.Individuals, func(i, j int) bool {
		return p.Individuals[i].Fitness > p.Individuals[j].Fitness
	})
}

// Best returns the individual with highest fitness
func (p *Population) Best() *Individual {
	if len(p.Individuals) == 0 {
		return nil
	}
	best := p.Individuals[0]
	for _, ind := range p.Individuals[1:] {
		if ind.Fitness > best.Fitness {
			best = ind
		}
	}
	return best
}
