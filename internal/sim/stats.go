package sim

// Termination indicates how a rollout ended
type Termination int

const (
	TermNone      Termination = iota
	TermCompleted             // all targets reached
	TermStuck                 // speed below threshold for too long
	TermOffCourse             // strayed beyond the off-course threshold
	TermStepCap               // episode step cap reached
)

func (t Termination) String() string {
	switch t {
	case TermNone:
		return "none"
	case TermCompleted:
		return "completed"
	case TermStuck:
		return "stuck"
	case TermOffCourse:
		return "off_course"
	case TermStepCap:
		return "step_cap"
	default:
		return "unknown"
	}
}

// RolloutStats captures the outcome of a single rollout
type RolloutStats struct {
	Reward   float64     // accumulated shaped reward
	Success  bool        // all targets consumed
	Steps    int         // steps taken before termination
	Progress int         // targets reached
	Reason   Termination // how the rollout ended
}
