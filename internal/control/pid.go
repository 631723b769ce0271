package control

// PID is a fixed-timestep proportional-integral-derivative element.
// The integral and previous error persist for the lifetime of the value.
type PID struct {
	Kp, Ki, Kd float64
	dt         float64
	integral   float64
	prevErr    float64
}

func NewPID(kp, ki, kd, dt float64) *PID {
	return &PID{
		Kp: kp,
		Ki: ki,
		Kd: kd,
		dt: dt,
	}
}

// Calculate returns the unsaturated control signal for one step.
func (p *PID) Calculate(target, current float64) float64 {
	err := target - current
	p.integral += err * p.dt
	derivative := (err - p.prevErr) / p.dt
	p.prevErr = err

	return p.Kp*err + p.Ki*p.integral + p.Kd*derivative
}

// Dt returns the integration timestep.
func (p *PID) Dt() float64 { return p.dt }

// Integral returns the accumulated error integral.
func (p *PID) Integral() float64 { return p.integral }

// Reset clears integral and derivative state. Nothing in this package
// calls it; it exists for callers that want an explicit bumpless restart.
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
}

// GetParams returns the gains for inspection.
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp": p.Kp,
		"Ki": p.Ki,
		"Kd": p.Kd,
		"dt": p.dt,
	}
}
