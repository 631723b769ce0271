package plant

import (
	"fmt"
	"math"

	"github.com/san-kum/flightctl/internal/control"
	"github.com/san-kum/flightctl/internal/flight"
	"github.com/san-kum/flightctl/internal/sim"
)

const (
	DefaultMass    = 1.0
	DefaultGravity = 9.81
)

// State indices. Position is NED (Z down), velocity is body-frame, Euler
// angles are ZYX in radians, rates are body-frame.
const (
	X = iota
	Y
	Z
	U
	V
	W
	Phi
	Theta
	Psi
	P
	Q
	R
	StateDim
)

// StateNames labels each state index.
var StateNames = []string{"x", "y", "z", "u", "v", "w", "phi", "theta", "psi", "p", "q", "r"}

// Control indices: collective thrust (N) and body torques (N·m).
const (
	Thrust = iota
	TorqueX
	TorqueY
	TorqueZ
	ControlDim
)

type Multirotor struct {
	Mass, Gravity float64
	Ixx, Iyy, Izz float64
	DragCoeff     float64
	AngDrag       float64
	// Mixer, when set, limits commands to what four rotors can produce.
	Mixer *Mixer
}

func NewMultirotor() *Multirotor {
	return &Multirotor{
		Mass:      DefaultMass,
		Gravity:   DefaultGravity,
		Ixx:       0.01,
		Iyy:       0.01,
		Izz:       0.02,
		DragCoeff: 0.1,
		AngDrag:   0.005,
	}
}

func (m *Multirotor) StateDim() int   { return StateDim }
func (m *Multirotor) ControlDim() int { return ControlDim }

func (m *Multirotor) Derivative(x sim.State, u sim.Control, t float64) sim.State {
	var thrust, tx, ty, tz float64
	if len(u) >= ControlDim {
		thrust, tx, ty, tz = u[Thrust], u[TorqueX], u[TorqueY], u[TorqueZ]
	} else if len(u) >= 1 {
		thrust = u[Thrust]
	}
	thrust = math.Max(0, thrust)

	vu, vv, vw := x[U], x[V], x[W]
	p, q, r := x[P], x[Q], x[R]
	sphi, cphi := math.Sincos(x[Phi])
	stheta, ctheta := math.Sincos(x[Theta])
	spsi, cpsi := math.Sincos(x[Psi])

	dx := make(sim.State, StateDim)

	// body -> NED
	dx[X] = ctheta*cpsi*vu + (sphi*stheta*cpsi-cphi*spsi)*vv + (cphi*stheta*cpsi+sphi*spsi)*vw
	dx[Y] = ctheta*spsi*vu + (sphi*stheta*spsi+cphi*cpsi)*vv + (cphi*stheta*spsi-sphi*cpsi)*vw
	dx[Z] = -stheta*vu + sphi*ctheta*vv + cphi*ctheta*vw

	k := m.DragCoeff / m.Mass
	dx[U] = r*vv - q*vw - m.Gravity*stheta - k*vu
	dx[V] = p*vw - r*vu + m.Gravity*ctheta*sphi - k*vv
	dx[W] = q*vu - p*vv + m.Gravity*ctheta*cphi - thrust/m.Mass - k*vw

	dx[Phi] = p + (q*sphi+r*cphi)*math.Tan(x[Theta])
	dx[Theta] = q*cphi - r*sphi
	dx[Psi] = (q*sphi + r*cphi) / ctheta

	dx[P] = (tx + (m.Iyy-m.Izz)*q*r - m.AngDrag*p) / m.Ixx
	dx[Q] = (ty + (m.Izz-m.Ixx)*p*r - m.AngDrag*q) / m.Iyy
	dx[R] = (tz + (m.Ixx-m.Iyy)*p*q - m.AngDrag*r) / m.Izz

	return dx
}

// Sense maps a state onto the controller input record. The target is left
// for the caller.
func (m *Multirotor) Sense(x sim.State) flight.Input {
	return flight.Input{
		Euler: control.Euler{X: x[Phi], Y: x[Theta], Z: x[Psi]},
		Pos:   control.Position{X: x[X], Y: x[Y], Z: x[Z]},
		Vel:   control.Velocity{U: x[U], V: x[V], W: x[W]},
		Rate:  control.AngularRate{P: x[P], Q: x[Q], R: x[R]},
	}
}

func (m *Multirotor) Actuate(cmd flight.Output) sim.Control {
	if m.Mixer != nil {
		cmd = m.Mixer.Apply(cmd)
	}
	return sim.Control{cmd.Thrust, cmd.TorqueX, cmd.TorqueY, cmd.TorqueZ}
}

func (m *Multirotor) HoverThrust() float64 {
	return m.Mass * m.Gravity
}

// Energy is kinetic plus potential energy, altitude measured up from Z=0.
func (m *Multirotor) Energy(x sim.State) float64 {
	ke := 0.5 * m.Mass * (x[U]*x[U] + x[V]*x[V] + x[W]*x[W])
	keRot := 0.5 * (m.Ixx*x[P]*x[P] + m.Iyy*x[Q]*x[Q] + m.Izz*x[R]*x[R])
	pe := -m.Mass * m.Gravity * x[Z]
	return ke + keRot + pe
}

// InitialState places the vehicle at rest at the given world position and
// heading. Altitude is up-positive.
func InitialState(x, y, altitude, yawDeg float64) sim.State {
	s := make(sim.State, StateDim)
	s[X], s[Y], s[Z] = x, y, -altitude
	s[Psi] = control.Deg2Rad(yawDeg)
	return s
}

func (m *Multirotor) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":     m.Mass,
		"gravity":  m.Gravity,
		"drag":     m.DragCoeff,
		"ang_drag": m.AngDrag,
		"ixx":      m.Ixx,
		"iyy":      m.Iyy,
		"izz":      m.Izz,
	}
}

func (m *Multirotor) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		m.Mass = value
	case "gravity":
		m.Gravity = value
	case "drag":
		m.DragCoeff = value
	case "ang_drag":
		m.AngDrag = value
	case "ixx":
		m.Ixx = value
	case "iyy":
		m.Iyy = value
	case "izz":
		m.Izz = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
