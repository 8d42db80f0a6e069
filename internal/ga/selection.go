package ga

import "math/rand"

// SelectTopPerformers returns the best min(topN, size) individuals sorted by
// descending fitness. Elitist selection without replacement.
func SelectTopPerformers(pop *Population, topN int) []*Individual {
	pop.SortByFitness()
	if topN > len(pop.Individuals) {
		topN = len(pop.Individuals)
	}
	return pop.Individuals[:topN]
}

// PickParent chooses a parent uniformly at random from the survivor pool
func PickParent(pool []*Individual, rng *rand.Rand) *Individual {
	if len(pool) == 0 {
		return nil
	}
	return pool[rng.Intn(len(pool))]
}
