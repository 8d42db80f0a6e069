package pso

import (
	"math"
	"math/rand"
	"testing"

	"racerai/internal/eval"
	"racerai/internal/sim"
	"racerai/internal/train"
)

func testParams() Params {
	return Params{
		Swarm:       6,
		Inertia:     0.7,
		Cognitive:   1.5,
		Social:      1.5,
		MaxVelocity: 0.5,
		WeightMin:   -5,
		WeightMax:   5,
		AngleBins:   36,
		SpeedBins:   6,
		Actions:     sim.NumActions,
	}
}

func TestMoveParticleClampsVelocityAndPosition(t *testing.T) {
	params := testParams()
	global := make([]float64, 4)

	tests := []struct {
		name     string
		position []float64
		velocity []float64
	}{
		{"huge velocity", []float64{0, 0, 0, 0}, []float64{1e9, -1e9, 3, -3}},
		{"position outside bounds", []float64{100, -100, 5, -5}, []float64{0, 0, 0, 0}},
		{"mixed extremes", []float64{50, -50, 0.1, 0}, []float64{-42, 42, 0.4, -0.4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(0); seed < 5; seed++ {
				rng := rand.New(rand.NewSource(seed))
				p := &Particle{
					Position:     append([]float64(nil), tt.position...),
					Velocity:     append([]float64(nil), tt.velocity...),
					BestPosition: []float64{1, 1, 1, 1},
					BestFitness:  0,
				}

				MoveParticle(p, global, params, rng)

				for d := range p.Position {
					if p.Velocity[d] < -params.MaxVelocity || p.Velocity[d] > params.MaxVelocity {
						t.Fatalf("seed %d dim %d: velocity %v outside [-%v, %v]",
							seed, d, p.Velocity[d], params.MaxVelocity, params.MaxVelocity)
					}
					if p.Position[d] < params.WeightMin || p.Position[d] > params.WeightMax {
						t.Fatalf("seed %d dim %d: position %v outside [%v, %v]",
							seed, d, p.Position[d], params.WeightMin, params.WeightMax)
					}
				}
			}
		})
	}
}

func TestUpdatePersonalBestStrictImprovement(t *testing.T) {
	p := &Particle{
		Position:     []float64{1, 2},
		Velocity:     []float64{0, 0},
		BestPosition: []float64{0, 0},
		BestFitness:  math.Inf(-1),
	}

	p.UpdatePersonalBest(10)
	if p.BestFitness != 10 || p.BestPosition[0] != 1 {
		t.Fatalf("best = %v at %v, want 10 at current position", p.BestFitness, p.BestPosition)
	}

	// Equal fitness must not replace the stored position
	p.Position[0] = 9
	p.UpdatePersonalBest(10)
	if p.BestPosition[0] != 1 {
		t.Errorf("equal fitness replaced the personal best position")
	}

	p.UpdatePersonalBest(11)
	if p.BestFitness != 11 || p.BestPosition[0] != 9 {
		t.Errorf("strict improvement not recorded: %v at %v", p.BestFitness, p.BestPosition)
	}
}

func TestNewParticleStartsInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	params := testParams()
	p := NewParticle(20, params, rng)

	for d := range p.Position {
		if p.Position[d] < params.WeightMin || p.Position[d] >= params.WeightMax {
			t.Fatalf("dim %d: position %v outside bounds", d, p.Position[d])
		}
		if p.BestPosition[d] != p.Position[d] {
			t.Fatalf("dim %d: personal best not initialized to position", d)
		}
	}
	if !math.IsInf(p.BestFitness, -1) {
		t.Errorf("initial personal best fitness = %v, want -Inf", p.BestFitness)
	}
}

func TestRunGenerationTracksGlobalBest(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	evaluator := eval.New(sim.RectangleCircuit(), sim.DefaultCarParams(), sim.DefaultRewardParams(), 2)
	tracker := train.NewTracker()
	opt := NewOptimizer(testParams(), evaluator, tracker, rng)

	res := opt.RunGeneration(1)

	_, globalFitness := opt.GlobalBest()
	if globalFitness != res.BestReward {
		t.Errorf("global best %v != generation best %v", globalFitness, res.BestReward)
	}

	best := tracker.Best()
	if best == nil {
		t.Fatal("tracker recorded nothing")
	}
	if best.Reward != globalFitness {
		t.Errorf("tracker best %v != global best %v", best.Reward, globalFitness)
	}
	if len(best.Path) == 0 {
		t.Error("tracker best has no recorded path")
	}
}
