package policy

import (
	"math"
	"math/rand"

	"racerai/internal/sim"
)

// Policy is a lookup table mapping a discretized (orientation, speed) state to
// per-action scores. Weights are laid out row-major:
// weight(angleBin, speedBin, action) = Weights[(angleBin*SpeedBins+speedBin)*Actions+action].
type Policy struct {
	AngleBins int
	SpeedBins int
	Actions   int
	Weights   []float64
}

// New creates a zero-weight policy with the given discretization
func New(angleBins, speedBins, actions int) *Policy {
	return &Policy{
		AngleBins: angleBins,
		SpeedBins: speedBins,
		Actions:   actions,
		Weights:   make([]float64, angleBins*speedBins*actions),
	}
}

// Random creates a policy with weights drawn uniformly from [min, max)
func Random(angleBins, speedBins, actions int, min, max float64, rng *rand.Rand) *Policy {
	p := New(angleBins, speedBins, actions)
	for i := range p.Weights {
		p.Weights[i] = min + rng.Float64()*(max-min)
	}
	return p
}

// FromWeights creates a policy from a copy of the given weight vector
func FromWeights(angleBins, speedBins, actions int, weights []float64) *Policy {
	p := New(angleBins, speedBins, actions)
	copy(p.Weights, weights)
	return p
}

// Clone makes a deep copy; individuals never alias each other's weights
func (p *Policy) Clone() *Policy {
	return FromWeights(p.AngleBins, p.SpeedBins, p.Actions, p.Weights)
}

// Len returns the weight vector length
func (p *Policy) Len() int {
	return len(p.Weights)
}

// AngleBin maps an orientation in degrees to a fixed-width bin, wrap-safe:
// AngleBin(a) == AngleBin(a+360k) for any integer k.
func (p *Policy) AngleBin(orientation float64) int {
	deg := math.Mod(orientation, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	binWidth := 360.0 / float64(p.AngleBins)
	return int(deg/binWidth) % p.AngleBins
}

// SpeedBin maps a speed to a bin by floor-and-clamp into [0, SpeedBins-1]
func (p *Policy) SpeedBin(speed float64) int {
	b := int(math.Floor(speed))
	if b < 0 {
		b = 0
	}
	if b > p.SpeedBins-1 {
		b = p.SpeedBins - 1
	}
	return b
}

// Act returns the argmax action for the discretized state. Ties break toward
// the lowest action index (first seen wins under strict >). Pure and
// deterministic for a fixed policy and state.
func (p *Policy) Act(orientation, speed float64) sim.Action {
	row := (p.AngleBin(orientation)*p.SpeedBins + p.SpeedBin(speed)) * p.Actions
	best := 0
	bestScore := p.Weights[row]
	for i := 1; i < p.Actions; i++ {
		if p.Weights[row+i] > bestScore {
			bestScore = p.Weights[row+i]
			best = i
		}
	}
	return sim.Action(best)
}
