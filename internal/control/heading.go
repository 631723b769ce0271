package control

import "math"

const (
	ParamHeadCycle  = "HEAD_CONTROL_CYCLE"
	ParamMaxYawRate = "PID_PARAM_MAX_YAW_RATE"
)

type HeadingInput struct {
	Euler          Euler
	TargetAngleDeg float64
}

type HeadingOutput struct {
	// YawRate is the commanded yaw rate in deg/s.
	YawRate float64
}

// Heading turns a target yaw angle into a yaw-rate set-point, always
// rotating through the shorter arc.
type Heading struct {
	pid        *PID
	cycle      Cycle
	maxYawRate float64
	prev       HeadingOutput
}

func NewHeading(p Params) (*Heading, error) {
	names := append([]string{ParamDeltaTime, ParamHeadCycle, ParamMaxYawRate}, gainNames("PID_YAW")...)
	if err := requireParams(p, "heading", names...); err != nil {
		return nil, err
	}
	dt := p.Get(ParamDeltaTime)
	kp, ki, kd := gains(p, "PID_YAW")
	return &Heading{
		pid:        NewPID(kp, ki, kd, dt),
		cycle:      NewCycle(p.Get(ParamHeadCycle), dt),
		maxYawRate: p.Get(ParamMaxYawRate),
	}, nil
}

func (h *Heading) Run(in HeadingInput) HeadingOutput {
	if h.cycle.Tick() {
		current := NormalizeAngle(Rad2Deg(in.Euler.Z))
		target := NormalizeAngle(in.TargetAngleDeg)
		diff := ShortestAngle(current, target)
		h.prev.YawRate = LimitAbs(h.pid.Calculate(current+diff, current), h.maxYawRate)
	}
	return h.prev
}

func (h *Heading) Reset() {
	h.pid.Reset()
	h.cycle.Reset()
	h.prev = HeadingOutput{}
}

// NormalizeAngle maps degrees into [0, 360).
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	// math.Mod of a tiny negative value can round back up to 360.
	if deg >= 360.0 {
		deg -= 360.0
	}
	return deg
}

// ShortestAngle returns the signed rotation in degrees, within [-180, 180],
// that takes current onto target.
func ShortestAngle(current, target float64) float64 {
	diff := NormalizeAngle(target - current)
	if diff > 180.0 {
		diff -= 360.0
	} else if diff < -180.0 {
		diff += 360.0
	}
	return diff
}
