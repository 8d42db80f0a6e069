package sim

import (
	"errors"
	"math"
)

// ErrInvalidTrack is returned when a track has too few waypoints to race on.
var ErrInvalidTrack = errors.New("track needs at least 2 waypoints")

// Point is a position on the 2D plane
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between two points
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Track is an ordered sequence of waypoints plus an optional shorter sequence
// of checkpoints that must be reached in strict order. Immutable for the
// duration of a training run.
type Track struct {
	Waypoints   []Point
	Checkpoints []Point
}

// Validate checks the track before any evaluation starts
func (t *Track) Validate() error {
	if len(t.Waypoints) < 2 {
		return ErrInvalidTrack
	}
	return nil
}

// Start returns the agent's starting position
func (t *Track) Start() Point {
	return t.Waypoints[0]
}

// RingTrack builds a circular circuit: waypoints every stepDeg degrees along
// the ring's centerline, checkpoints at the given angles in visit order.
func RingTrack(center Point, midRadius, stepDeg float64, checkpointAngles []float64) *Track {
	t := &Track{}
	for a := 0.0; a < 360.0; a += stepDeg {
		rad := a * math.Pi / 180.0
		t.Waypoints = append(t.Waypoints, Point{
			X: center.X + midRadius*math.Cos(rad),
			Y: center.Y + midRadius*math.Sin(rad),
		})
	}
	for _, a := range checkpointAngles {
		rad := a * math.Pi / 180.0
		t.Checkpoints = append(t.Checkpoints, Point{
			X: center.X + midRadius*math.Cos(rad),
			Y: center.Y + midRadius*math.Sin(rad),
		})
	}
	return t
}

// RectangleCircuit returns the fixed rectangular practice circuit: two
// straights joined by two turns, with one checkpoint per segment.
func RectangleCircuit() *Track {
	return &Track{
		Waypoints: []Point{
			{200, 400}, {400, 400}, {600, 400}, {800, 400}, // bottom straight
			{900, 400}, {900, 300}, {900, 200}, // first turn
			{800, 200}, {600, 200}, {400, 200}, {200, 200}, // top straight
			{200, 300}, {200, 400}, // final turn
		},
		Checkpoints: []Point{
			{500, 400},
			{900, 300},
			{500, 200},
			{200, 300},
		},
	}
}
