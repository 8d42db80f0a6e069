package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"racerai/internal/ga"
	"racerai/internal/pso"
	"racerai/internal/sim"
)

// ErrInvalidConfig is the class of all configuration validation failures
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the root configuration structure
type Config struct {
	Seed      int64        `yaml:"seed"`
	Optimizer string       `yaml:"optimizer"` // ga|pso
	Track     TrackConfig  `yaml:"track"`
	Car       CarConfig    `yaml:"car"`
	Policy    PolicyConfig `yaml:"policy"`
	Reward    RewardConfig `yaml:"reward"`
	GA        GAConfig     `yaml:"ga"`
	PSO       PSOConfig    `yaml:"pso"`
	Train     TrainConfig  `yaml:"train"`
	Logging   LogConfig    `yaml:"logging"`
	Live      LiveConfig   `yaml:"live"`
}

// TrackConfig defines the training circuit
type TrackConfig struct {
	Kind             string    `yaml:"kind"` // ring|rectangle
	CenterX          float64   `yaml:"center_x"`
	CenterY          float64   `yaml:"center_y"`
	OuterRadius      float64   `yaml:"outer_radius"`
	InnerRadius      float64   `yaml:"inner_radius"`
	WaypointStep     float64   `yaml:"waypoint_step"` // degrees between ring waypoints
	CheckpointAngles []float64 `yaml:"checkpoint_angles"`
}

// CarConfig defines the kinematic vehicle model constants
type CarConfig struct {
	TurnRate  float64 `yaml:"turn_rate"`
	Accel     float64 `yaml:"accel"`
	Decel     float64 `yaml:"decel"`
	MaxSpeed  float64 `yaml:"max_speed"`
	NoopDecay float64 `yaml:"noop_decay"`
}

// PolicyConfig defines the policy discretization and weight bounds
type PolicyConfig struct {
	AngleBins int     `yaml:"angle_bins"`
	SpeedBins int     `yaml:"speed_bins"`
	WeightMin float64 `yaml:"weight_min"`
	WeightMax float64 `yaml:"weight_max"`
}

// RewardConfig defines reward shaping and termination thresholds
type RewardConfig struct {
	Profile          string  `yaml:"profile"` // waypoint|checkpoint
	StepCost         float64 `yaml:"step_cost"`
	HeadingBonus     float64 `yaml:"heading_bonus"`
	AlignBonus       float64 `yaml:"align_bonus"`
	SpeedBonus       float64 `yaml:"speed_bonus"`
	MisalignPenalty  float64 `yaml:"misalign_penalty"`
	ArriveRadius     float64 `yaml:"arrive_radius"`
	ArriveBonus      float64 `yaml:"arrive_bonus"`
	CompletionBonus  float64 `yaml:"completion_bonus"`
	OffCourseDist    float64 `yaml:"off_course_dist"`
	OffCoursePenalty float64 `yaml:"off_course_penalty"`
	MinSpeed         float64 `yaml:"min_speed"`
	SlowPenalty      float64 `yaml:"slow_penalty"`
	StuckSteps       int     `yaml:"stuck_steps"`
	StuckPenalty     float64 `yaml:"stuck_penalty"`
	StepCap          int     `yaml:"step_cap"`
}

// GAConfig defines genetic algorithm parameters
type GAConfig struct {
	Population    int     `yaml:"population"`
	TopN          int     `yaml:"top_n"`
	MutationRate  float64 `yaml:"mutation_rate"`
	MutationSigma float64 `yaml:"mutation_sigma"`
}

// PSOConfig defines particle-swarm parameters
type PSOConfig struct {
	Swarm       int     `yaml:"swarm"`
	Inertia     float64 `yaml:"inertia"`
	Cognitive   float64 `yaml:"cognitive"`
	Social      float64 `yaml:"social"`
	MaxVelocity float64 `yaml:"max_velocity"`
}

// TrainConfig defines the training loop parameters
type TrainConfig struct {
	Generations int `yaml:"generations"`
	Workers     int `yaml:"workers"` // <= 0 means one per CPU
}

// LogConfig defines logging parameters
type LogConfig struct {
	CSVPath           string `yaml:"csv_path"`
	JSONPath          string `yaml:"json_path"`
	SaveChampionEvery int    `yaml:"save_champion_every"`
}

// LiveConfig defines the optional live progress websocket
type LiveConfig struct {
	Addr string `yaml:"addr"` // empty disables the hub
}

// Load reads a YAML config file and returns a Config with defaults applied
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	return cfg, nil
}

// Default returns a Config with every default applied
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Seed == 0 {
		cfg.Seed = 1337
	}
	if cfg.Optimizer == "" {
		cfg.Optimizer = "ga"
	}
	if cfg.Track.Kind == "" {
		cfg.Track.Kind = "ring"
	}
	if cfg.Track.CenterX == 0 {
		cfg.Track.CenterX = 500
	}
	if cfg.Track.CenterY == 0 {
		cfg.Track.CenterY = 400
	}
	if cfg.Track.OuterRadius == 0 {
		cfg.Track.OuterRadius = 300
	}
	if cfg.Track.InnerRadius == 0 {
		cfg.Track.InnerRadius = 200
	}
	if cfg.Track.WaypointStep == 0 {
		cfg.Track.WaypointStep = 10
	}
	if len(cfg.Track.CheckpointAngles) == 0 {
		cfg.Track.CheckpointAngles = []float64{0, 90, 180, 270}
	}
	if cfg.Car.TurnRate == 0 {
		cfg.Car.TurnRate = 5.0
	}
	if cfg.Car.Accel == 0 {
		cfg.Car.Accel = 0.2
	}
	if cfg.Car.Decel == 0 {
		cfg.Car.Decel = 0.2
	}
	if cfg.Car.MaxSpeed == 0 {
		cfg.Car.MaxSpeed = 5.0
	}
	if cfg.Car.NoopDecay == 0 {
		cfg.Car.NoopDecay = 0.99
	}
	if cfg.Policy.AngleBins == 0 {
		cfg.Policy.AngleBins = 36
	}
	if cfg.Policy.SpeedBins == 0 {
		cfg.Policy.SpeedBins = 6
	}
	if cfg.Policy.WeightMin == 0 {
		cfg.Policy.WeightMin = -5.0
	}
	if cfg.Policy.WeightMax == 0 {
		cfg.Policy.WeightMax = 5.0
	}
	if cfg.Reward.Profile == "" {
		cfg.Reward.Profile = string(sim.ProfileCheckpoint)
	}
	def := sim.DefaultRewardParams()
	if cfg.Reward.StepCost == 0 {
		cfg.Reward.StepCost = def.StepCost
	}
	if cfg.Reward.HeadingBonus == 0 {
		cfg.Reward.HeadingBonus = def.HeadingBonus
	}
	if cfg.Reward.AlignBonus == 0 {
		cfg.Reward.AlignBonus = def.AlignBonus
	}
	if cfg.Reward.SpeedBonus == 0 {
		cfg.Reward.SpeedBonus = def.SpeedBonus
	}
	if cfg.Reward.MisalignPenalty == 0 {
		cfg.Reward.MisalignPenalty = def.MisalignPenalty
	}
	if cfg.Reward.ArriveRadius == 0 {
		cfg.Reward.ArriveRadius = def.ArriveRadius
	}
	if cfg.Reward.ArriveBonus == 0 {
		cfg.Reward.ArriveBonus = def.ArriveBonus
	}
	if cfg.Reward.CompletionBonus == 0 {
		cfg.Reward.CompletionBonus = def.CompletionBonus
	}
	if cfg.Reward.OffCourseDist == 0 {
		cfg.Reward.OffCourseDist = def.OffCourseDist
	}
	if cfg.Reward.OffCoursePenalty == 0 {
		cfg.Reward.OffCoursePenalty = def.OffCoursePenalty
	}
	if cfg.Reward.MinSpeed == 0 {
		cfg.Reward.MinSpeed = def.MinSpeed
	}
	if cfg.Reward.SlowPenalty == 0 {
		cfg.Reward.SlowPenalty = def.SlowPenalty
	}
	if cfg.Reward.StuckSteps == 0 {
		cfg.Reward.StuckSteps = def.StuckSteps
	}
	if cfg.Reward.StuckPenalty == 0 {
		cfg.Reward.StuckPenalty = def.StuckPenalty
	}
	if cfg.Reward.StepCap == 0 {
		cfg.Reward.StepCap = def.StepCap
	}
	if cfg.GA.Population == 0 {
		cfg.GA.Population = 150
	}
	if cfg.GA.TopN == 0 {
		cfg.GA.TopN = 20
	}
	if cfg.GA.MutationRate == 0 {
		cfg.GA.MutationRate = 0.05
	}
	if cfg.GA.MutationSigma == 0 {
		cfg.GA.MutationSigma = 0.5
	}
	if cfg.PSO.Swarm == 0 {
		cfg.PSO.Swarm = 200
	}
	if cfg.PSO.Inertia == 0 {
		cfg.PSO.Inertia = 0.7
	}
	if cfg.PSO.Cognitive == 0 {
		cfg.PSO.Cognitive = 1.5
	}
	if cfg.PSO.Social == 0 {
		cfg.PSO.Social = 1.5
	}
	if cfg.PSO.MaxVelocity == 0 {
		cfg.PSO.MaxVelocity = 0.5
	}
	if cfg.Train.Generations == 0 {
		cfg.Train.Generations = 100
	}
	if cfg.Logging.CSVPath == "" {
		cfg.Logging.CSVPath = "runs/run.csv"
	}
	if cfg.Logging.JSONPath == "" {
		cfg.Logging.JSONPath = "runs/run.jsonl"
	}
	if cfg.Logging.SaveChampionEvery == 0 {
		cfg.Logging.SaveChampionEvery = 25
	}
}

// Validate reports configuration errors before training starts
func (c *Config) Validate() error {
	if c.Optimizer != "ga" && c.Optimizer != "pso" {
		return fmt.Errorf("%w: unknown optimizer %q", ErrInvalidConfig, c.Optimizer)
	}
	if c.Track.Kind != "ring" && c.Track.Kind != "rectangle" {
		return fmt.Errorf("%w: unknown track kind %q", ErrInvalidConfig, c.Track.Kind)
	}
	if c.Policy.AngleBins <= 0 || c.Policy.SpeedBins <= 0 {
		return fmt.Errorf("%w: angle_bins and speed_bins must be positive", ErrInvalidConfig)
	}
	if c.Policy.WeightMin >= c.Policy.WeightMax {
		return fmt.Errorf("%w: weight_min %.2f must be below weight_max %.2f",
			ErrInvalidConfig, c.Policy.WeightMin, c.Policy.WeightMax)
	}
	if p := sim.RewardProfile(c.Reward.Profile); p != sim.ProfileWaypoint && p != sim.ProfileCheckpoint {
		return fmt.Errorf("%w: unknown reward profile %q", ErrInvalidConfig, c.Reward.Profile)
	}
	if c.Reward.StepCap <= 0 {
		return fmt.Errorf("%w: step_cap must be positive", ErrInvalidConfig)
	}
	if c.GA.Population <= 0 {
		return fmt.Errorf("%w: ga population must be positive", ErrInvalidConfig)
	}
	if c.GA.TopN <= 0 || c.GA.TopN > c.GA.Population {
		return fmt.Errorf("%w: ga top_n %d must be in [1, population %d]",
			ErrInvalidConfig, c.GA.TopN, c.GA.Population)
	}
	if c.GA.MutationRate < 0 || c.GA.MutationRate > 1 {
		return fmt.Errorf("%w: ga mutation_rate %.3f must be in [0, 1]",
			ErrInvalidConfig, c.GA.MutationRate)
	}
	if c.PSO.Swarm <= 0 {
		return fmt.Errorf("%w: pso swarm must be positive", ErrInvalidConfig)
	}
	if c.PSO.MaxVelocity <= 0 {
		return fmt.Errorf("%w: pso max_velocity must be positive", ErrInvalidConfig)
	}
	if c.Train.Generations <= 0 {
		return fmt.Errorf("%w: generations must be positive", ErrInvalidConfig)
	}
	return nil
}

// BuildTrack constructs and validates the configured track
func (c *Config) BuildTrack() (*sim.Track, error) {
	var track *sim.Track
	switch c.Track.Kind {
	case "rectangle":
		track = sim.RectangleCircuit()
	default:
		mid := (c.Track.OuterRadius + c.Track.InnerRadius) / 2.0
		track = sim.RingTrack(
			sim.Point{X: c.Track.CenterX, Y: c.Track.CenterY},
			mid, c.Track.WaypointStep, c.Track.CheckpointAngles)
	}
	if err := track.Validate(); err != nil {
		return nil, err
	}
	return track, nil
}

// CarParams converts the car section to simulation parameters
func (c *Config) CarParams() sim.CarParams {
	return sim.CarParams{
		TurnRate:  c.Car.TurnRate,
		Accel:     c.Car.Accel,
		Decel:     c.Car.Decel,
		MaxSpeed:  c.Car.MaxSpeed,
		NoopDecay: c.Car.NoopDecay,
	}
}

// RewardParams converts the reward section to simulation parameters
func (c *Config) RewardParams() sim.RewardParams {
	return sim.RewardParams{
		Profile:          sim.RewardProfile(c.Reward.Profile),
		StepCost:         c.Reward.StepCost,
		HeadingBonus:     c.Reward.HeadingBonus,
		AlignBonus:       c.Reward.AlignBonus,
		SpeedBonus:       c.Reward.SpeedBonus,
		MisalignPenalty:  c.Reward.MisalignPenalty,
		ArriveRadius:     c.Reward.ArriveRadius,
		ArriveBonus:      c.Reward.ArriveBonus,
		CompletionBonus:  c.Reward.CompletionBonus,
		OffCourseDist:    c.Reward.OffCourseDist,
		OffCoursePenalty: c.Reward.OffCoursePenalty,
		MinSpeed:         c.Reward.MinSpeed,
		SlowPenalty:      c.Reward.SlowPenalty,
		StuckSteps:       c.Reward.StuckSteps,
		StuckPenalty:     c.Reward.StuckPenalty,
		StepCap:          c.Reward.StepCap,
	}
}

// GAParams converts the ga and policy sections to optimizer parameters
func (c *Config) GAParams() ga.Params {
	return ga.Params{
		Population:    c.GA.Population,
		TopN:          c.GA.TopN,
		MutationRate:  c.GA.MutationRate,
		MutationSigma: c.GA.MutationSigma,
		WeightMin:     c.Policy.WeightMin,
		WeightMax:     c.Policy.WeightMax,
		AngleBins:     c.Policy.AngleBins,
		SpeedBins:     c.Policy.SpeedBins,
		Actions:       sim.NumActions,
	}
}

// PSOParams converts the pso and policy sections to optimizer parameters
func (c *Config) PSOParams() pso.Params {
	return pso.Params{
		Swarm:       c.PSO.Swarm,
		Inertia:     c.PSO.Inertia,
		Cognitive:   c.PSO.Cognitive,
		Social:      c.PSO.Social,
		MaxVelocity: c.PSO.MaxVelocity,
		WeightMin:   c.Policy.WeightMin,
		WeightMax:   c.Policy.WeightMax,
		AngleBins:   c.Policy.AngleBins,
		SpeedBins:   c.Policy.SpeedBins,
		Actions:     sim.NumActions,
	}
}
