package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/flightctl/internal/sim"
)

type simpleDynamics struct{}

func (s *simpleDynamics) Derivative(x sim.State, u sim.Control, t float64) sim.State {
	return sim.State{x[1], -x[0]}
}

func (s *simpleDynamics) StateDim() int   { return 2 }
func (s *simpleDynamics) ControlDim() int { return 0 }

// forced is a unit mass pushed by u[0]: x'' = u.
type forced struct{}

func (forced) Derivative(x sim.State, u sim.Control, t float64) sim.State {
	return sim.State{x[1], u[0]}
}

func (forced) StateDim() int   { return 2 }
func (forced) ControlDim() int { return 1 }

func integrate(integ sim.Integrator, dyn sim.Dynamics, x sim.State, u sim.Control, dt float64, steps int) sim.State {
	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, u, float64(i)*dt, dt)
	}
	return x
}

func TestRK4Accuracy(t *testing.T) {
	dt := 0.01
	steps := 100
	x := integrate(NewRK4(), &simpleDynamics{}, sim.State{1.0, 0.0}, sim.Control{}, dt, steps)

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestRK4ConstantForceExact(t *testing.T) {
	// x = a t^2 / 2 is a polynomial RK4 reproduces exactly.
	x := integrate(NewRK4(), forced{}, sim.State{0, 0}, sim.Control{2}, 0.1, 10)
	if math.Abs(x[0]-1) > 1e-12 || math.Abs(x[1]-2) > 1e-12 {
		t.Errorf("expected (1, 2), got (%.12f, %.12f)", x[0], x[1])
	}
}

func TestEulerFirstOrder(t *testing.T) {
	dyn := &simpleDynamics{}
	errAt := func(dt float64) float64 {
		steps := int(math.Round(1 / dt))
		x := integrate(NewEuler(), dyn, sim.State{1, 0}, nil, dt, steps)
		return math.Abs(x[0] - math.Cos(1))
	}
	ratio := errAt(0.01) / errAt(0.005)
	if ratio < 1.8 || ratio > 2.2 {
		t.Errorf("expected error to halve with dt, ratio %.3f", ratio)
	}
}

func TestEulerDoesNotMutateInput(t *testing.T) {
	x0 := sim.State{1, 0}
	NewEuler().Step(&simpleDynamics{}, x0, nil, 0, 0.1)
	if x0[0] != 1 || x0[1] != 0 {
		t.Errorf("input state modified: %v", x0)
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range Names() {
		if _, err := New(name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if integ, err := New(""); err != nil {
		t.Errorf("default: %v", err)
	} else if _, ok := integ.(*Euler); !ok {
		t.Errorf("default integrator is %T, want *Euler", integ)
	}
	if _, err := New("verlet"); !errors.Is(err, ErrUnknownIntegrator) {
		t.Errorf("expected ErrUnknownIntegrator, got %v", err)
	}
}
