package sim

import "math"

// RewardProfile selects the shaping variant
type RewardProfile string

const (
	// ProfileWaypoint chases every waypoint in order and terminates when the
	// car strays beyond the off-course threshold.
	ProfileWaypoint RewardProfile = "waypoint"
	// ProfileCheckpoint chases the ordered checkpoints with no off-course
	// cutoff; the final reward is scaled by the fraction of checkpoints
	// reached.
	ProfileCheckpoint RewardProfile = "checkpoint"
)

// RewardParams defines the shaping constants and termination thresholds
type RewardParams struct {
	Profile RewardProfile

	StepCost        float64 // constant cost per step
	HeadingBonus    float64 // heading error decreased versus previous step
	AlignBonus      float64 // scaled inversely with heading error under 45 degrees
	SpeedBonus      float64 // per unit of speed while aligned
	MisalignPenalty float64 // proportional to heading error otherwise

	ArriveRadius    float64 // distance at which a target counts as reached
	ArriveBonus     float64
	CompletionBonus float64

	OffCourseDist    float64 // waypoint profile only
	OffCoursePenalty float64

	MinSpeed     float64 // below this the car counts as slow
	SlowPenalty  float64 // per slow step
	StuckSteps   int     // consecutive slow steps before terminating
	StuckPenalty float64

	StepCap int
}

// DefaultRewardParams returns the reference shaping tuned for tracks on the
// order of a few hundred units across.
func DefaultRewardParams() RewardParams {
	return RewardParams{
		Profile:          ProfileCheckpoint,
		StepCost:         0.1,
		HeadingBonus:     1.0,
		AlignBonus:       0.5,
		SpeedBonus:       0.2,
		MisalignPenalty:  0.5,
		ArriveRadius:     30.0,
		ArriveBonus:      100.0,
		CompletionBonus:  1000.0,
		OffCourseDist:    500.0,
		OffCoursePenalty: 200.0,
		MinSpeed:         0.1,
		SlowPenalty:      1.0,
		StuckSteps:       50,
		StuckPenalty:     100.0,
		StepCap:          200,
	}
}

// Race runs one deterministic rollout of a driver against a track. The only
// randomness in the system lives in policy initialization and the optimizers,
// never here.
type Race struct {
	Track *Track
	Car   *Car

	Target int     // index of next target, never decreases
	Steps  int
	Reward float64
	Done   bool
	Reason Termination
	Path   []Point // append-only record of positions

	targets        []Point
	params         RewardParams
	lastHeadingErr float64
	slowSteps      int
}

// NewRace initializes the agent at the first waypoint, heading 0, speed 0.
// The targets are the waypoints themselves or, for the checkpoint profile,
// the ordered checkpoint list when one is present.
func NewRace(track *Track, car CarParams, params RewardParams) *Race {
	targets := track.Waypoints
	if params.Profile == ProfileCheckpoint && len(track.Checkpoints) > 0 {
		targets = track.Checkpoints
	}

	r := &Race{
		Track:   track,
		Car:     NewCar(track.Start(), car),
		targets: targets,
		params:  params,
	}
	r.Path = append(r.Path, r.Car.Position)
	r.lastHeadingErr = math.Abs(r.Car.HeadingError(targets[0]))
	return r
}

// Targets returns the number of points the rollout must reach
func (r *Race) Targets() int {
	return len(r.targets)
}

// Step advances the rollout by one action
func (r *Race) Step(a Action) {
	if r.Done {
		return
	}

	r.Car.Apply(a)
	r.Steps++
	r.Path = append(r.Path, r.Car.Position)
	r.Reward -= r.params.StepCost

	target := r.targets[r.Target]
	dist := Distance(r.Car.Position, target)

	// Arrival is checked first so a car sitting exactly on its target
	// short-circuits to "arrived" instead of dividing by zero downstream.
	if dist < r.params.ArriveRadius {
		r.Reward += r.params.ArriveBonus
		r.Target++
		if r.Target >= len(r.targets) {
			r.Reward += r.params.CompletionBonus
			r.finish(TermCompleted)
			return
		}
		r.lastHeadingErr = math.Abs(r.Car.HeadingError(r.targets[r.Target]))
		r.slowSteps = 0
		r.checkStepCap()
		return
	}

	errAbs := math.Abs(r.Car.HeadingError(target))
	if errAbs < r.lastHeadingErr {
		r.Reward += r.params.HeadingBonus
	}
	if errAbs < 45.0 {
		r.Reward += r.params.AlignBonus * (45.0 - errAbs) / 45.0
		r.Reward += r.Car.Speed * r.params.SpeedBonus
	} else {
		r.Reward -= r.params.MisalignPenalty * errAbs / 180.0
	}
	r.lastHeadingErr = errAbs

	if r.Car.Speed < r.params.MinSpeed {
		r.slowSteps++
		r.Reward -= r.params.SlowPenalty
		if r.slowSteps > r.params.StuckSteps {
			r.Reward -= r.params.StuckPenalty
			r.finish(TermStuck)
			return
		}
	} else {
		r.slowSteps = 0
	}

	if r.params.Profile == ProfileWaypoint && dist > r.params.OffCourseDist {
		r.Reward -= r.params.OffCoursePenalty
		r.finish(TermOffCourse)
		return
	}

	r.checkStepCap()
}

func (r *Race) checkStepCap() {
	if r.Steps >= r.params.StepCap {
		r.finish(TermStepCap)
	}
}

// finish ends the rollout and applies the checkpoint profile's final scaling
// by the fraction of targets reached.
func (r *Race) finish(reason Termination) {
	r.Done = true
	r.Reason = reason
	if r.params.Profile == ProfileCheckpoint {
		frac := float64(r.Target) / float64(len(r.targets))
		r.Reward *= 0.5 + frac
	}
}

// Stats returns the rollout outcome
func (r *Race) Stats() RolloutStats {
	return RolloutStats{
		Reward:   r.Reward,
		Success:  r.Reason == TermCompleted,
		Steps:    r.Steps,
		Progress: r.Target,
		Reason:   r.Reason,
	}
}
