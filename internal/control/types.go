package control

import "fmt"

// Params is the read-only parameter lookup the controllers are built from.
type Params interface {
	Get(name string) float64
	Require(names ...string) error
}

// Euler holds roll (X), pitch (Y) and yaw (Z) in radians.
type Euler struct {
	X, Y, Z float64
}

// Position is a world-frame position. Z is up-positive inside this package.
type Position struct {
	X, Y, Z float64
}

// Velocity is a body-frame velocity. W is up-positive inside this package.
type Velocity struct {
	U, V, W float64
}

// AngularRate holds body rates p, q, r in rad/s.
type AngularRate struct {
	P, Q, R float64
}

// gains reads the <prefix>_Kp/_Ki/_Kd triple.
func gains(p Params, prefix string) (kp, ki, kd float64) {
	return p.Get(prefix + "_Kp"), p.Get(prefix + "_Ki"), p.Get(prefix + "_Kd")
}

func gainNames(prefixes ...string) []string {
	names := make([]string, 0, 3*len(prefixes))
	for _, pre := range prefixes {
		names = append(names, pre+"_Kp", pre+"_Ki", pre+"_Kd")
	}
	return names
}

func requireParams(p Params, controller string, names ...string) error {
	if err := p.Require(names...); err != nil {
		return fmt.Errorf("%s controller: %w", controller, err)
	}
	return nil
}

const ParamDeltaTime = "SIMULATION_DELTA_TIME"
