package control

const (
	ParamAltCycle        = "PID_ALT_CONTROL_CYCLE"
	ParamAltMaxPower     = "PID_ALT_MAX_POWER"
	ParamAltMaxSpeed     = "PID_ALT_MAX_SPD"
	ParamAltThrottleGain = "PID_ALT_THROTTLE_GAIN"
	ParamMass            = "MASS"
	ParamGravity         = "GRAVITY"
)

// AltitudeInput drives the position mode of the altitude loop.
type AltitudeInput struct {
	Pos            Position
	Vel            Velocity
	TargetAltitude float64
}

// AltitudeSpeedInput drives the speed mode of the altitude loop.
type AltitudeSpeedInput struct {
	Euler       Euler
	Vel         Velocity
	TargetSpeed float64
}

type AltitudeOutput struct {
	Thrust float64
}

// Altitude is a two-stage cascade: altitude error to climb rate, climb rate
// error to throttle power. Thrust is hover thrust plus scaled power.
type Altitude struct {
	pos, spd     *PID
	cycle        Cycle
	mass         float64
	gravity      float64
	throttleGain float64
	maxPower     float64
	maxSpeed     float64
	prev         AltitudeOutput
}

func NewAltitude(p Params) (*Altitude, error) {
	names := append([]string{
		ParamDeltaTime, ParamAltCycle, ParamAltMaxPower, ParamAltMaxSpeed,
		ParamAltThrottleGain, ParamMass, ParamGravity,
	}, gainNames("PID_ALT", "PID_ALT_SPD")...)
	if err := requireParams(p, "altitude", names...); err != nil {
		return nil, err
	}

	dt := p.Get(ParamDeltaTime)
	a := &Altitude{
		cycle:        NewCycle(p.Get(ParamAltCycle), dt),
		mass:         p.Get(ParamMass),
		gravity:      p.Get(ParamGravity),
		throttleGain: p.Get(ParamAltThrottleGain),
		maxPower:     p.Get(ParamAltMaxPower),
		maxSpeed:     p.Get(ParamAltMaxSpeed),
	}
	kp, ki, kd := gains(p, "PID_ALT")
	a.pos = NewPID(kp, ki, kd, dt)
	kp, ki, kd = gains(p, "PID_ALT_SPD")
	a.spd = NewPID(kp, ki, kd, dt)
	return a, nil
}

// Run tracks a target altitude.
func (a *Altitude) Run(in AltitudeInput) AltitudeOutput {
	if a.cycle.Tick() {
		targetSpd := LimitAbs(a.pos.Calculate(in.TargetAltitude, in.Pos.Z), a.maxSpeed)
		a.prev.Thrust = a.thrust(targetSpd, in.Vel.W)
	}
	return a.prev
}

// RunSpeed tracks a target climb rate, bypassing the altitude stage.
func (a *Altitude) RunSpeed(in AltitudeSpeedInput) AltitudeOutput {
	if a.cycle.Tick() {
		a.prev.Thrust = a.thrust(in.TargetSpeed, in.Vel.W)
	}
	return a.prev
}

func (a *Altitude) thrust(targetSpd, w float64) float64 {
	power := LimitAbs(a.spd.Calculate(targetSpd, w), a.maxPower)
	return a.HoverThrust() + a.throttleGain*power
}

// HoverThrust is the gravity-compensating thrust, mass times gravity.
func (a *Altitude) HoverThrust() float64 {
	return a.mass * a.gravity
}

// Reset clears both PID elements, the cycle and the held output.
func (a *Altitude) Reset() {
	a.pos.Reset()
	a.spd.Reset()
	a.cycle.Reset()
	a.prev = AltitudeOutput{}
}
