package control

const (
	ParamAngleCycle = "ANGLE_CONTROL_CYCLE"
	ParamMaxTorqueX = "PID_PARAM_MAX_TORQUE_X"
	ParamMaxTorqueY = "PID_PARAM_MAX_TORQUE_Y"
	ParamMaxTorqueZ = "PID_PARAM_MAX_TORQUE_Z"
)

// AttitudeInput takes angles and set-points in degrees, the state in radians.
type AttitudeInput struct {
	Euler         Euler
	Rate          AngularRate
	TargetRoll    float64
	TargetPitch   float64
	TargetYawRate float64
}

// AttitudeOutput holds the body torques about x, y and z.
type AttitudeOutput struct {
	P, Q, R float64
}

type Attitude struct {
	roll, pitch, yawRate *PID
	cycle                Cycle
	maxTorque            [3]float64
	prev                 AttitudeOutput
}

func NewAttitude(p Params) (*Attitude, error) {
	names := append([]string{
		ParamDeltaTime, ParamAngleCycle, ParamMaxTorqueX, ParamMaxTorqueY, ParamMaxTorqueZ,
	}, gainNames("PID_ROLL", "PID_PITCH", "PID_YAW_RATE")...)
	if err := requireParams(p, "attitude", names...); err != nil {
		return nil, err
	}

	dt := p.Get(ParamDeltaTime)
	pid := func(prefix string) *PID {
		kp, ki, kd := gains(p, prefix)
		return NewPID(kp, ki, kd, dt)
	}
	return &Attitude{
		roll:    pid("PID_ROLL"),
		pitch:   pid("PID_PITCH"),
		yawRate: pid("PID_YAW_RATE"),
		cycle:   NewCycle(p.Get(ParamAngleCycle), dt),
		maxTorque: [3]float64{
			p.Get(ParamMaxTorqueX), p.Get(ParamMaxTorqueY), p.Get(ParamMaxTorqueZ),
		},
	}, nil
}

func (a *Attitude) Run(in AttitudeInput) AttitudeOutput {
	if a.cycle.Tick() {
		a.prev = AttitudeOutput{
			P: LimitAbs(a.roll.Calculate(in.TargetRoll, Rad2Deg(in.Euler.X)), a.maxTorque[0]),
			Q: LimitAbs(a.pitch.Calculate(in.TargetPitch, Rad2Deg(in.Euler.Y)), a.maxTorque[1]),
			R: LimitAbs(a.yawRate.Calculate(in.TargetYawRate, Rad2Deg(in.Rate.R)), a.maxTorque[2]),
		}
	}
	return a.prev
}

func (a *Attitude) Reset() {
	a.roll.Reset()
	a.pitch.Reset()
	a.yawRate.Reset()
	a.cycle.Reset()
	a.prev = AttitudeOutput{}
}
