package flight

import "github.com/san-kum/flightctl/internal/control"

// Input is the per-step record handed over by the host.
type Input struct {
	Euler  control.Euler       // roll, pitch, yaw in radians
	Pos    control.Position    // world position, Z down-positive
	Vel    control.Velocity    // body velocity u, v, w, W down-positive
	Rate   control.AngularRate // body rates p, q, r
	Target Target
}

// Target carries the host set-points. Which fields are read, and how they
// are interpreted, depends on the variant.
type Target struct {
	Throttle          Throttle
	Attitude          AttitudeTarget
	DirectionVelocity DirectionVelocity
	Position          PositionTarget
	Speed             float64
	YawDeg            float64
}

type Throttle struct {
	Power float64
}

type AttitudeTarget struct {
	Roll, Pitch float64
}

type DirectionVelocity struct {
	R float64
}

type PositionTarget struct {
	X, Y, Z float64
}

// Output is the per-step command returned to the host.
type Output struct {
	Thrust  float64
	TorqueX float64
	TorqueY float64
	TorqueZ float64
}

// Strategy computes one command per simulation step.
type Strategy interface {
	Name() string
	Run(in Input) Output
}
