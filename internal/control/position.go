package control

import "math"

const (
	ParamPosCycle    = "POS_CONTROL_CYCLE"
	ParamPosMaxSpeed = "PID_POS_MAX_SPD"
	ParamPosMaxRoll  = "PID_POS_MAX_ROLL"
	ParamPosMaxPitch = "PID_POS_MAX_PITCH"
)

// PositionInput drives the position mode of the horizontal loop.
// TargetSpeed, when positive, further limits the commanded ground speed.
type PositionInput struct {
	Pos         Position
	Vel         Velocity
	Euler       Euler
	TargetX     float64
	TargetY     float64
	TargetSpeed float64
}

// VelocityInput drives the velocity mode with body-frame targets.
type VelocityInput struct {
	Vel      Velocity
	TargetVx float64
	TargetVy float64
}

// PositionOutput carries roll and pitch set-points in degrees.
type PositionOutput struct {
	TargetRoll  float64
	TargetPitch float64
}

// PositionController is the horizontal counterpart of Altitude: world position error
// to velocity, body velocity error to tilt.
type PositionController struct {
	x, y     *PID
	vx, vy   *PID
	cycle    Cycle
	maxSpeed float64
	maxRoll  float64
	maxPitch float64
	prev     PositionOutput
}

func NewPosition(p Params) (*PositionController, error) {
	names := append([]string{
		ParamDeltaTime, ParamPosCycle, ParamPosMaxSpeed, ParamPosMaxRoll, ParamPosMaxPitch,
	}, gainNames("PID_POS_X", "PID_POS_Y", "PID_POS_VX", "PID_POS_VY")...)
	if err := requireParams(p, "position", names...); err != nil {
		return nil, err
	}

	dt := p.Get(ParamDeltaTime)
	pid := func(prefix string) *PID {
		kp, ki, kd := gains(p, prefix)
		return NewPID(kp, ki, kd, dt)
	}
	return &PositionController{
		x:        pid("PID_POS_X"),
		y:        pid("PID_POS_Y"),
		vx:       pid("PID_POS_VX"),
		vy:       pid("PID_POS_VY"),
		cycle:    NewCycle(p.Get(ParamPosCycle), dt),
		maxSpeed: p.Get(ParamPosMaxSpeed),
		maxRoll:  p.Get(ParamPosMaxRoll),
		maxPitch: p.Get(ParamPosMaxPitch),
	}, nil
}

func (c *PositionController) Run(in PositionInput) PositionOutput {
	if c.cycle.Tick() {
		limit := c.maxSpeed
		if in.TargetSpeed > 0 && in.TargetSpeed < limit {
			limit = in.TargetSpeed
		}
		wx := LimitAbs(c.x.Calculate(in.TargetX, in.Pos.X), limit)
		wy := LimitAbs(c.y.Calculate(in.TargetY, in.Pos.Y), limit)

		// world -> heading frame
		sin, cos := math.Sincos(in.Euler.Z)
		bx := cos*wx + sin*wy
		by := -sin*wx + cos*wy
		c.prev = c.tilt(bx, by, in.Vel)
	}
	return c.prev
}

func (c *PositionController) RunSpeed(in VelocityInput) PositionOutput {
	if c.cycle.Tick() {
		c.prev = c.tilt(LimitAbs(in.TargetVx, c.maxSpeed), LimitAbs(in.TargetVy, c.maxSpeed), in.Vel)
	}
	return c.prev
}

// tilt runs the velocity stage. Forward acceleration needs nose-down
// (negative) pitch; rightward acceleration needs positive roll.
func (c *PositionController) tilt(targetVx, targetVy float64, vel Velocity) PositionOutput {
	pitch := -c.vx.Calculate(targetVx, vel.U)
	roll := c.vy.Calculate(targetVy, vel.V)
	return PositionOutput{
		TargetRoll:  LimitAbs(roll, c.maxRoll),
		TargetPitch: LimitAbs(pitch, c.maxPitch),
	}
}

func (c *PositionController) Reset() {
	for _, p := range []*PID{c.x, c.y, c.vx, c.vy} {
		p.Reset()
	}
	c.cycle.Reset()
	c.prev = PositionOutput{}
}
