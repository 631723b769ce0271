package plant

import (
	"math"

	"github.com/san-kum/flightctl/internal/control"
	"github.com/san-kum/flightctl/internal/flight"
)

// Rotors is the number of rotors of the quad-X layout.
const Rotors = 4

// Duties are normalized rotor commands in [0, 1].
type Duties [Rotors]float64

// Mixer allocates collective thrust and body torques to a quad-X frame:
//
//	1: front-right  2: rear-left  3: front-left  4: rear-right
//
// Rotors 1 and 2 spin so that their reaction adds positive yaw torque.
type Mixer struct {
	ArmLength      float64 // centre to rotor, m
	YawCoeff       float64 // reaction torque per newton of thrust, m
	MaxRotorThrust float64 // thrust at duty 1, N
}

func NewMixer() *Mixer {
	return &Mixer{
		ArmLength:      0.25,
		YawCoeff:       0.016,
		MaxRotorThrust: 6.0,
	}
}

func (m *Mixer) lever() float64 { return m.ArmLength / math.Sqrt2 }

// Mix converts a command into rotor duties, each clamped to [0, 1].
func (m *Mixer) Mix(cmd flight.Output) Duties {
	d := m.lever()
	t := cmd.Thrust / 4
	x := cmd.TorqueX / (4 * d)
	y := cmd.TorqueY / (4 * d)
	z := cmd.TorqueZ / (4 * m.YawCoeff)

	forces := [Rotors]float64{
		t - x + y + z,
		t + x - y + z,
		t + x + y - z,
		t - x - y - z,
	}
	var duty Duties
	for i, f := range forces {
		duty[i] = control.Limit(f/m.MaxRotorThrust, 0, 1)
	}
	return duty
}

// Forces is the inverse of Mix: the thrust and torques the rotors produce.
func (m *Mixer) Forces(duty Duties) flight.Output {
	var f [Rotors]float64
	for i, v := range duty {
		f[i] = v * m.MaxRotorThrust
	}
	d := m.lever()
	return flight.Output{
		Thrust:  f[0] + f[1] + f[2] + f[3],
		TorqueX: d * (-f[0] + f[1] + f[2] - f[3]),
		TorqueY: d * (f[0] - f[1] + f[2] - f[3]),
		TorqueZ: m.YawCoeff * (f[0] + f[1] - f[2] - f[3]),
	}
}

// Apply returns the command after rotor saturation.
func (m *Mixer) Apply(cmd flight.Output) flight.Output {
	return m.Forces(m.Mix(cmd))
}
