package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"racerai/internal/config"
	"racerai/internal/eval"
	"racerai/internal/logging"
	"racerai/internal/policy"
	"racerai/internal/sim"
)

func main() {
	configPath := flag.String("config", "configs/ring.yaml", "path to config file")
	championPath := flag.String("champion", "artifacts/champion_final.json", "path to champion JSON")
	delay := flag.Int("delay", 25, "delay between printed steps in milliseconds")
	every := flag.Int("every", 10, "print every Nth step")
	noDisplay := flag.Bool("no-display", false, "skip the step-by-step printout")
	outPath := flag.String("out", "", "optional path to write the rollout path as JSON")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
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

	p, meta, err := policy.LoadChampion(*championPath, cfg.Policy.AngleBins, cfg.Policy.SpeedBins, sim.NumActions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading champion: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded champion from gen %d (reward=%.1f, progress=%d)\n",
		meta.Generation, meta.Reward, meta.Progress)
	fmt.Printf("Config: %s, Track: %s\n", *configPath, cfg.Track.Kind)
	fmt.Println()

	if *noDisplay {
		evaluator := eval.New(track, cfg.CarParams(), cfg.RewardParams(), 1)
		printResult(evaluator.Evaluate(p), outPath)
		return
	}

	race := sim.NewRace(track, cfg.CarParams(), cfg.RewardParams())
	stepDelay := time.Duration(*delay) * time.Millisecond

	for !race.Done {
		action := p.Act(race.Car.Orientation, race.Car.Speed)
		race.Step(action)

		if *every > 0 && race.Steps%*every == 0 {
			fmt.Printf("Step %4d | pos=(%7.1f, %7.1f) | heading=%5.1f | speed=%.2f | target %d/%d | %s\n",
				race.Steps, race.Car.Position.X, race.Car.Position.Y,
				race.Car.Orientation, race.Car.Speed, race.Target, race.Targets(), action)
			time.Sleep(stepDelay)
		}
	}

	stats := race.Stats()
	printResult(eval.Result{
		Reward:   stats.Reward,
		Success:  stats.Success,
		Steps:    stats.Steps,
		Progress: stats.Progress,
		Reason:   stats.Reason,
		Path:     race.Path,
	}, outPath)
}

func printResult(res eval.Result, outPath *string) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════")
	fmt.Printf("  Rollout done: %s\n", res.Reason)
	fmt.Printf("  Reward: %.1f, Success: %v\n", res.Reward, res.Success)
	fmt.Printf("  Steps: %d, Targets reached: %d\n", res.Steps, res.Progress)
	fmt.Println("═══════════════════════════════════")

	if *outPath != "" {
		if err := logging.SavePath(*outPath, res.Path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to write path: %v\n", err)
			return
		}
		fmt.Printf("Path written to %s (%d points)\n", *outPath, len(res.Path))
	}
}
