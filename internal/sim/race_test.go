package sim

import (
	"testing"
)

func waypointParams() RewardParams {
	p := DefaultRewardParams()
	p.Profile = ProfileWaypoint
	return p
}

func TestCoincidentWaypointSucceedsInOneStep(t *testing.T) {
	track := &Track{Waypoints: []Point{{100, 100}}}
	race := NewRace(track, DefaultCarParams(), waypointParams())

	race.Step(Accelerate)

	if !race.Done {
		t.Fatal("race not done after one step")
	}
	stats := race.Stats()
	if !stats.Success {
		t.Error("success = false, want true")
	}
	if stats.Steps != 1 {
		t.Errorf("steps = %d, want 1", stats.Steps)
	}
	if stats.Reason != TermCompleted {
		t.Errorf("reason = %v, want completed", stats.Reason)
	}
	// Dominated by the completion bonus
	if stats.Reward < 1000 {
		t.Errorf("reward = %v, want >= 1000", stats.Reward)
	}
}

func TestOffCourseTerminatesWithPenalty(t *testing.T) {
	// Second waypoint sits beyond the off-course threshold; the first is the
	// start itself and is consumed immediately.
	track := &Track{Waypoints: []Point{{0, 0}, {600, 0}}}
	race := NewRace(track, DefaultCarParams(), waypointParams())

	for !race.Done {
		race.Step(Accelerate)
	}

	stats := race.Stats()
	if stats.Success {
		t.Error("success = true, want false")
	}
	if stats.Reason != TermOffCourse {
		t.Errorf("reason = %v, want off_course", stats.Reason)
	}
	if stats.Reward >= 0 {
		t.Errorf("reward = %v, want negative", stats.Reward)
	}
	if stats.Steps > race.params.StepCap {
		t.Errorf("steps = %d exceeds cap %d", stats.Steps, race.params.StepCap)
	}
}

func TestIdlingTerminatesStuck(t *testing.T) {
	track := &Track{Waypoints: []Point{{0, 0}, {100, 0}}}
	race := NewRace(track, DefaultCarParams(), waypointParams())

	for !race.Done {
		race.Step(Noop)
	}

	stats := race.Stats()
	if stats.Success {
		t.Error("success = true, want false")
	}
	if stats.Reason != TermStuck {
		t.Errorf("reason = %v, want stuck", stats.Reason)
	}
	if stats.Reward >= 0 {
		t.Errorf("reward = %v, want negative", stats.Reward)
	}
}

func TestStepCapBoundsEveryRollout(t *testing.T) {
	// Checkpoint profile has no off-course cutoff, so a runaway car is only
	// stopped by the step cap.
	params := DefaultRewardParams()
	track := &Track{
		Waypoints:   []Point{{0, 0}, {1, 0}},
		Checkpoints: []Point{{10000, 10000}},
	}
	race := NewRace(track, DefaultCarParams(), params)

	for !race.Done {
		race.Step(Accelerate)
	}

	stats := race.Stats()
	if stats.Reason != TermStepCap {
		t.Errorf("reason = %v, want step_cap", stats.Reason)
	}
	if stats.Steps != params.StepCap {
		t.Errorf("steps = %d, want %d", stats.Steps, params.StepCap)
	}
	if stats.Success {
		t.Error("success = true, want false")
	}
}

func TestCheckpointProfileScalesByProgress(t *testing.T) {
	// One checkpoint coincident with the start: completion in one step, and
	// the final reward is scaled by 0.5 + 1/1.
	track := &Track{
		Waypoints:   []Point{{0, 0}, {1, 0}},
		Checkpoints: []Point{{0, 0}},
	}
	race := NewRace(track, DefaultCarParams(), DefaultRewardParams())

	race.Step(Accelerate)

	if !race.Done || race.Reason != TermCompleted {
		t.Fatalf("race = done:%v reason:%v, want completed", race.Done, race.Reason)
	}
	want := (-0.1 + 100.0 + 1000.0) * 1.5
	if !approxEq(race.Reward, want, 1e-6) {
		t.Errorf("reward = %v, want %v", race.Reward, want)
	}
}

func TestTargetIndexMonotonicAndPathAppendOnly(t *testing.T) {
	track := RectangleCircuit()
	params := DefaultRewardParams()
	race := NewRace(track, DefaultCarParams(), params)

	actions := []Action{Accelerate, SteerLeft, Accelerate, SteerRight, Noop, Brake}
	lastTarget := race.Target
	for i := 0; !race.Done; i++ {
		race.Step(actions[i%len(actions)])
		if race.Target < lastTarget {
			t.Fatalf("target index decreased from %d to %d", lastTarget, race.Target)
		}
		if race.Target > race.Targets() {
			t.Fatalf("target index %d exceeds target count %d", race.Target, race.Targets())
		}
		lastTarget = race.Target
	}

	if got, want := len(race.Path), race.Steps+1; got != want {
		t.Errorf("path length = %d, want %d (steps+start)", got, want)
	}
}

func TestRolloutIsDeterministic(t *testing.T) {
	run := func() RolloutStats {
		race := NewRace(RectangleCircuit(), DefaultCarParams(), DefaultRewardParams())
		for !race.Done {
			race.Step(Accelerate)
		}
		return race.Stats()
	}

	a, b := run(), run()
	if a != b {
		t.Errorf("two identical rollouts diverged: %+v vs %+v", a, b)
	}
}
