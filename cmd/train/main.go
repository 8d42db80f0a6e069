package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"racerai/internal/config"
	"racerai/internal/eval"
	"racerai/internal/ga"
	"racerai/internal/live"
	"racerai/internal/logging"
	"racerai/internal/policy"
	"racerai/internal/pso"
	"racerai/internal/sim"
	"racerai/internal/train"
)

func main() {
	configPath := flag.String("config", "configs/ring.yaml", "path to config file")
	optimizer := flag.String("optimizer", "", "override optimizer (ga|pso)")
	generations := flag.Int("generations", 0, "override generation cap")
	liveAddr := flag.String("live", "", "listen address for the live progress websocket (e.g. :8090)")
	championPath := flag.String("champion", "artifacts/champion_final.json", "path for the final champion")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *optimizer != "" {
		cfg.Optimizer = *optimizer
	}
	if *generations > 0 {
		cfg.Train.Generations = *generations
	}
	if *liveAddr != "" {
		cfg.Live.Addr = *liveAddr
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	track, err := cfg.BuildTrack()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building track: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Racer AI Trainer - Optimizer: %s, Track: %s (%d waypoints, %d checkpoints)\n",
		cfg.Optimizer, cfg.Track.Kind, len(track.Waypoints), len(track.Checkpoints))
	fmt.Printf("Config: %s\n", *configPath)
	fmt.Printf("Policy: %dx%dx%d = %d weights, bounds [%.1f, %.1f]\n",
		cfg.Policy.AngleBins, cfg.Policy.SpeedBins, sim.NumActions,
		cfg.Policy.AngleBins*cfg.Policy.SpeedBins*sim.NumActions,
		cfg.Policy.WeightMin, cfg.Policy.WeightMax)
	fmt.Println("---")

	rng := rand.New(rand.NewSource(cfg.Seed))
	evaluator := eval.New(track, cfg.CarParams(), cfg.RewardParams(), cfg.Train.Workers)
	tracker := train.NewTracker()

	var strategy train.Strategy
	switch cfg.Optimizer {
	case "pso":
		strategy = pso.NewOptimizer(cfg.PSOParams(), evaluator, tracker, rng)
	default:
		strategy = ga.NewOptimizer(cfg.GAParams(), evaluator, tracker, rng)
	}

	logger, err := logging.NewLogger(cfg.Logging.CSVPath, cfg.Logging.JSONPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	var hub *live.Hub
	if cfg.Live.Addr != "" {
		hub = live.NewHub()
		go hub.Run()

		mux := http.NewServeMux()
		mux.HandleFunc("/ws", hub.ServeWS)
		go func() {
			if err := http.ListenAndServe(cfg.Live.Addr, mux); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: live hub stopped: %v\n", err)
			}
		}()
		fmt.Printf("Live progress on ws://%s/ws\n", cfg.Live.Addr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	trainer := &train.Trainer{
		Strategy:    strategy,
		Tracker:     tracker,
		Generations: cfg.Train.Generations,
		OnGeneration: func(gen int, res train.GenerationResult) {
			best := tracker.Best()
			logger.LogGeneration(gen, strategy.Name(), res, best)

			if hub != nil {
				ev := live.ProgressEvent{
					Generation: gen,
					Optimizer:  strategy.Name(),
					BestReward: res.BestReward,
					MeanReward: res.MeanReward,
					Progress:   res.Progress,
					Converged:  res.Success,
				}
				if best != nil {
					ev.Path = best.Path
				}
				hub.Broadcast(ev)
			}

			if cfg.Logging.SaveChampionEvery > 0 && gen%cfg.Logging.SaveChampionEvery == 0 && best != nil {
				p := policy.FromWeights(cfg.Policy.AngleBins, cfg.Policy.SpeedBins, sim.NumActions, best.Weights)
				path := filepath.Join("artifacts", fmt.Sprintf("champion_gen%d.json", gen))
				if err := policy.SaveChampion(path, p, best.Generation, best.Reward, best.Progress); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to save champion: %v\n", err)
				}
			}
		},
	}

	startTime := time.Now()
	report, err := trainer.Run(ctx)
	elapsed := time.Since(startTime)

	fmt.Println("---")
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Printf("Training aborted after %d generations in %v\n", report.Generations, elapsed)
	case report.Converged:
		fmt.Printf("Converged in %d generations (%v)\n", report.Generations, elapsed)
	default:
		fmt.Printf("No convergence after %d generations (%v)\n", report.Generations, elapsed)
	}

	best := report.Best
	if best == nil {
		return
	}
	targets := len(track.Waypoints)
	if cfg.RewardParams().Profile == sim.ProfileCheckpoint && len(track.Checkpoints) > 0 {
		targets = len(track.Checkpoints)
	}
	fmt.Printf("Best ever: Reward=%.1f, Generation=%d, Progress=%d/%d\n",
		best.Reward, best.Generation, best.Progress, targets)

	p := policy.FromWeights(cfg.Policy.AngleBins, cfg.Policy.SpeedBins, sim.NumActions, best.Weights)
	if err := policy.SaveChampion(*championPath, p, best.Generation, best.Reward, best.Progress); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save final champion: %v\n", err)
	}
	if err := logging.SavePath(filepath.Join("artifacts", "best_path.json"), best.Path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save best path: %v\n", err)
	}
}
