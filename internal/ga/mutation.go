package ga

import "math/rand"

// Mutate perturbs each weight independently with probability rate by Gaussian
// noise (mean 0, std-dev sigma), clamping the result to [min, max].
func Mutate(weights []float64, rate, sigma, min, max float64, rng *rand.Rand) {
	for i := range weights {
		if rng.Float64() < rate {
			weights[i] += rng.NormFloat64() * sigma
			if weights[i] < min {
				weights[i] = min
			}
			if weights[i] > max {
				weights[i] = max
			}
		}
	}
}
