package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/flightctl/internal/flight"
)

var (
	// ErrInvalidState indicates a NaN or Inf in the integrated state.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a non-positive step or duration.
	ErrInvalidConfig = errors.New("sim: invalid config")

	// ErrDimensionMismatch indicates an initial state of the wrong length.
	ErrDimensionMismatch = errors.New("sim: dimension mismatch between state and plant")
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

type Control []float64

type Dynamics interface {
	Derivative(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Plant is the simulated vehicle: dynamics plus the conversions to and from
// the controller records.
type Plant interface {
	Dynamics
	Sense(x State) flight.Input
	Actuate(cmd flight.Output) Control
}

type Integrator interface {
	Step(dyn Dynamics, x State, u Control, t float64, dt float64) State
}

// TargetSource yields the host set-points at time t.
type TargetSource interface {
	Target(t float64) flight.Target
}

// TargetFunc adapts a plain function to a TargetSource.
type TargetFunc func(t float64) flight.Target

func (f TargetFunc) Target(t float64) flight.Target { return f(t) }

// Constant holds one target for the whole run.
func Constant(tg flight.Target) TargetSource {
	return TargetFunc(func(float64) flight.Target { return tg })
}

// Sample is one closed-loop step as seen before integration.
type Sample struct {
	Step   int
	Time   float64
	State  State
	Target flight.Target
	Cmd    flight.Output
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

type Config struct {
	Dt       float64
	Duration float64
	// ValidateState stops the run with a StepError on NaN or Inf.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.001,
		Duration:      10.0,
		ValidateState: true,
	}
}

type Result struct {
	Times      []float64
	States     []State
	Targets    []flight.Target
	Commands   []flight.Output
	Metrics    map[string]float64
	StepsTaken int
}

// StepError wraps a failure with the step it occurred at.
type StepError struct {
	Step  int
	Time  float64
	State State
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
