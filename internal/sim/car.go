package sim

import "math"

// Action is one discrete control input
type Action int

const (
	SteerLeft Action = iota
	SteerRight
	Accelerate
	Brake
	Noop
)

// NumActions is the size of the discrete action set
const NumActions = 5

func (a Action) String() string {
	switch a {
	case SteerLeft:
		return "steer_left"
	case SteerRight:
		return "steer_right"
	case Accelerate:
		return "accelerate"
	case Brake:
		return "brake"
	case Noop:
		return "noop"
	default:
		return "unknown"
	}
}

// CarParams defines the kinematic integrator constants
type CarParams struct {
	TurnRate  float64 // degrees per steering action
	Accel     float64 // speed delta per accelerate action
	Decel     float64 // speed delta per brake action
	MaxSpeed  float64
	NoopDecay float64 // multiplicative speed decay while idling
}

// DefaultCarParams returns the reference vehicle tuning
func DefaultCarParams() CarParams {
	return CarParams{
		TurnRate:  5.0,
		Accel:     0.2,
		Decel:     0.2,
		MaxSpeed:  5.0,
		NoopDecay: 0.99,
	}
}

// Car is the kinematic vehicle state: position, heading in degrees normalized
// to [0,360), and speed clamped to [0, MaxSpeed].
type Car struct {
	Position    Point
	Orientation float64
	Speed       float64

	params CarParams
}

// NewCar creates a car at the start position, heading 0, standing still
func NewCar(start Point, params CarParams) *Car {
	return &Car{Position: start, params: params}
}

// Apply integrates one discrete action into the next car state. Steering adds
// half an acceleration step so cornering costs nothing; BRAKE strictly
// decelerates; NOOP decays speed multiplicatively. Deterministic, no
// side effects beyond mutating the receiver.
func (c *Car) Apply(a Action) {
	switch a {
	case SteerLeft:
		c.Orientation -= c.params.TurnRate
		c.Speed += c.params.Accel * 0.5
	case SteerRight:
		c.Orientation += c.params.TurnRate
		c.Speed += c.params.Accel * 0.5
	case Accelerate:
		c.Speed += c.params.Accel
	case Brake:
		c.Speed -= c.params.Decel
	default:
		c.Speed *= c.params.NoopDecay
	}

	c.Orientation = NormalizeAngle(c.Orientation)

	if c.Speed < 0 {
		c.Speed = 0
	}
	if c.Speed > c.params.MaxSpeed {
		c.Speed = c.params.MaxSpeed
	}

	rad := c.Orientation * math.Pi / 180.0
	c.Position.X += math.Cos(rad) * c.Speed
	c.Position.Y += math.Sin(rad) * c.Speed
}

// HeadingError returns the signed angle in (-180, 180] from the car's heading
// to the direction of target. Zero when the car sits exactly on the target.
func (c *Car) HeadingError(target Point) float64 {
	dx := target.X - c.Position.X
	dy := target.Y - c.Position.Y
	if dx == 0 && dy == 0 {
		return 0
	}
	targetAngle := math.Atan2(dy, dx) * 180.0 / math.Pi
	diff := targetAngle - c.Orientation
	for diff > 180.0 {
		diff -= 360.0
	}
	for diff <= -180.0 {
		diff += 360.0
	}
	return diff
}

// NormalizeAngle wraps an angle in degrees into [0, 360)
func NormalizeAngle(deg float64) float64 {
	m := math.Mod(deg, 360.0)
	if m < 0 {
		m += 360.0
	}
	return m
}
