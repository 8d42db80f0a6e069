package ga

import (
	"math/rand"
	"testing"

	"racerai/internal/eval"
	"racerai/internal/policy"
	"racerai/internal/sim"
	"racerai/internal/train"
)

func TestSelectTopPerformers(t *testing.T) {
	tests := []struct {
		name     string
		fitness  []float64
		topN     int
		wantLen  int
		wantBest float64
	}{
		{"takes topN", []float64{1, 5, 3, 2}, 2, 2, 5},
		{"topN larger than population", []float64{1, 5}, 10, 2, 5},
		{"single survivor", []float64{4, 4, 4}, 1, 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pop := &Population{}
			for _, f := range tt.fitness {
				pop.Individuals = append(pop.Individuals, &Individual{
					Policy:  policy.New(2, 2, sim.NumActions),
					Fitness: f,
				})
			}

			top := SelectTopPerformers(pop, tt.topN)
			if len(top) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(top), tt.wantLen)
			}
			if top[0].Fitness != tt.wantBest {
				t.Errorf("best fitness = %v, want %v", top[0].Fitness, tt.wantBest)
			}
			for i := 1; i < len(top); i++ {
				if top[i].Fitness > top[i-1].Fitness {
					t.Errorf("not sorted descending at %d: %v > %v", i, top[i].Fitness, top[i-1].Fitness)
				}
			}
		})
	}
}

func TestSortByFitnessStableForTies(t *testing.T) {
	pop := &Population{}
	// Progress doubles as an identity marker here
	for i, f := range []float64{3, 7, 3, 3} {
		pop.Individuals = append(pop.Individuals, &Individual{
			Policy:   policy.New(2, 2, sim.NumActions),
			Fitness:  f,
			Progress: i,
		})
	}

	pop.SortByFitness()

	wantOrder := []int{1, 0, 2, 3}
	for i, want := range wantOrder {
		if pop.Individuals[i].Progress != want {
			t.Errorf("position %d holds individual %d, want %d", i, pop.Individuals[i].Progress, want)
		}
	}
}

func TestMutateRespectsBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	weights := make([]float64, 500)

	Mutate(weights, 1.0, 100.0, -5, 5, rng)

	changed := 0
	for i, w := range weights {
		if w < -5 || w > 5 {
			t.Fatalf("weight %d = %v outside [-5, 5]", i, w)
		}
		if w != 0 {
			changed++
		}
	}
	if changed == 0 {
		t.Error("rate 1.0 mutated nothing")
	}
}

func TestMutateRateZeroChangesNothing(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	weights := []float64{1, -2, 3}
	Mutate(weights, 0, 1.0, -5, 5, rng)
	for i, want := range []float64{1, -2, 3} {
		if weights[i] != want {
			t.Errorf("weight %d = %v, want %v", i, weights[i], want)
		}
	}
}

func TestRunGenerationReproducesWithoutAliasing(t *testing.T) {
	params := Params{
		Population:    8,
		TopN:          3,
		MutationRate:  0.5,
		MutationSigma: 0.5,
		WeightMin:     -5,
		WeightMax:     5,
		AngleBins:     36,
		SpeedBins:     6,
		Actions:       sim.NumActions,
	}
	rng := rand.New(rand.NewSource(42))
	evaluator := eval.New(sim.RectangleCircuit(), sim.DefaultCarParams(), sim.DefaultRewardParams(), 2)
	opt := NewOptimizer(params, evaluator, train.NewTracker(), rng)

	opt.RunGeneration(1)

	if got := opt.Population().Size(); got != params.Population {
		t.Fatalf("population size = %d, want %d", got, params.Population)
	}

	// Clone-on-reproduce: no two individuals share a weight buffer
	seen := make(map[*float64]bool)
	for _, ind := range opt.Population().Individuals {
		head := &ind.Policy.Weights[0]
		if seen[head] {
			t.Fatal("two individuals alias the same weight buffer")
		}
		seen[head] = true
	}
}
