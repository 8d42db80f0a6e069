package pso

import (
	"math"
	"math/rand"
)

// Particle is one swarm member: a position in policy-weight space, a velocity
// of the same length, and the best position it has personally visited.
type Particle struct {
	Position     []float64
	Velocity     []float64
	BestPosition []float64
	BestFitness  float64
}

// Params defines the particle-swarm hyperparameters
type Params struct {
	Swarm       int
	Inertia     float64 // w
	Cognitive   float64 // c1
	Social      float64 // c2
	MaxVelocity float64 // per-dimension velocity bound
	WeightMin   float64
	WeightMax   float64

	AngleBins int
	SpeedBins int
	Actions   int
}

// NewParticle creates a particle with a uniform random position in the weight
// bounds and a small random initial velocity.
func NewParticle(dims int, params Params, rng *rand.Rand) *Particle {
	p := &Particle{
		Position:     make([]float64, dims),
		Velocity:     make([]float64, dims),
		BestPosition: make([]float64, dims),
		BestFitness:  math.Inf(-1),
	}
	for d := 0; d < dims; d++ {
		p.Position[d] = params.WeightMin + rng.Float64()*(params.WeightMax-params.WeightMin)
		p.Velocity[d] = -0.1 + rng.Float64()*0.2
	}
	copy(p.BestPosition, p.Position)
	return p
}

// UpdatePersonalBest records the position if the fitness strictly improves
func (p *Particle) UpdatePersonalBest(fitness float64) {
	if fitness > p.BestFitness {
		p.BestFitness = fitness
		copy(p.BestPosition, p.Position)
	}
}

// MoveParticle applies one velocity/position update across every dimension.
// Two independent uniform draws r1, r2 are taken per dimension. Velocity is
// clamped to [-MaxVelocity, MaxVelocity] and position to the weight bounds.
func MoveParticle(p *Particle, globalBest []float64, params Params, rng *rand.Rand) {
	for d := range p.Position {
		r1 := rng.Float64()
		r2 := rng.Float64()

		v := params.Inertia*p.Velocity[d] +
			params.Cognitive*r1*(p.BestPosition[d]-p.Position[d]) +
			params.Social*r2*(globalBest[d]-p.Position[d])
		if v > params.MaxVelocity {
			v = params.MaxVelocity
		}
		if v < -params.MaxVelocity {
			v = -params.MaxVelocity
		}
		p.Velocity[d] = v

		x := p.Position[d] + v
		if x < params.WeightMin {
			x = params.WeightMin
		}
		if x > params.WeightMax {
			x = params.WeightMax
		}
		p.Position[d] = x
	}
}
