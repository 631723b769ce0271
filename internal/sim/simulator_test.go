package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/flightctl/internal/flight"
)

// decayPlant is x' = -x + u, sensed as altitude (up-positive, so Pos.Z = -x).
type decayPlant struct{ gain float64 }

func (p *decayPlant) Derivative(x State, u Control, t float64) State {
	return State{-x[0] + p.gain*u[0]}
}

func (p *decayPlant) StateDim() int   { return 1 }
func (p *decayPlant) ControlDim() int { return 1 }

func (p *decayPlant) Sense(x State) flight.Input {
	var in flight.Input
	in.Pos.Z = -x[0]
	return in
}

func (p *decayPlant) Actuate(cmd flight.Output) Control { return Control{cmd.Thrust} }

type eulerStep struct{}

func (eulerStep) Step(dyn Dynamics, x State, u Control, t float64, dt float64) State {
	dx := dyn.Derivative(x, u, t)
	return State{x[0] + dt*dx[0]}
}

// echo commands thrust equal to the requested power.
type echo struct{ calls int }

func (e *echo) Name() string { return "echo" }
func (e *echo) Run(in flight.Input) flight.Output {
	e.calls++
	return flight.Output{Thrust: in.Target.Throttle.Power}
}

func TestSimulatorRun(t *testing.T) {
	s := New(&decayPlant{}, eulerStep{}, &echo{}, nil)

	result, err := s.Run(context.Background(), State{1.0}, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
	if len(result.Times) != 11 || len(result.Commands) != 11 || len(result.Targets) != 11 {
		t.Errorf("series lengths differ: times %d commands %d targets %d",
			len(result.Times), len(result.Commands), len(result.Targets))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}

	final := result.States[len(result.States)-1][0]
	expected := math.Exp(-1.0)
	if math.Abs(final-expected) > 0.2 {
		t.Errorf("expected final state ~%.4f, got %.4f", expected, final)
	}
}

func TestSimulatorRunsControllerOncePerStep(t *testing.T) {
	ctrl := &echo{}
	targets := TargetFunc(func(t float64) flight.Target {
		return flight.Target{Throttle: flight.Throttle{Power: 3}}
	})
	s := New(&decayPlant{gain: 1}, eulerStep{}, ctrl, targets)

	result, err := s.Run(context.Background(), State{0}, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if ctrl.calls != 10 {
		t.Errorf("expected 10 controller calls for 10 steps, got %d", ctrl.calls)
	}
	if len(result.Commands) != 11 {
		t.Fatalf("expected 11 commands, got %d", len(result.Commands))
	}
	if result.Commands[10] != result.Commands[9] {
		t.Errorf("final sample should carry the last command: %+v vs %+v", result.Commands[10], result.Commands[9])
	}
}

func TestSimulatorClosesLoop(t *testing.T) {
	targets := TargetFunc(func(t float64) flight.Target {
		return flight.Target{Throttle: flight.Throttle{Power: 2}}
	})
	s := New(&decayPlant{gain: 1}, eulerStep{}, &echo{}, targets)

	result, err := s.Run(context.Background(), State{0}, Config{Dt: 0.01, Duration: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	final := result.States[len(result.States)-1][0]
	if math.Abs(final-2) > 1e-3 {
		t.Errorf("expected equilibrium 2, got %.4f", final)
	}
	if result.Targets[0].Throttle.Power != 2 {
		t.Errorf("target not recorded: %+v", result.Targets[0])
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(&decayPlant{}, eulerStep{}, &echo{}, nil)

	tests := []struct {
		name string
		x0   State
		cfg  Config
		want error
	}{
		{"zero dt", State{1}, Config{Dt: 0, Duration: 1.0}, ErrInvalidConfig},
		{"negative dt", State{1}, Config{Dt: -0.1, Duration: 1.0}, ErrInvalidConfig},
		{"zero duration", State{1}, Config{Dt: 0.1, Duration: 0}, ErrInvalidConfig},
		{"negative duration", State{1}, Config{Dt: 0.1, Duration: -1.0}, ErrInvalidConfig},
		{"wrong dimension", State{1, 2}, Config{Dt: 0.1, Duration: 1.0}, ErrDimensionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), tt.x0, tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSimulatorInvalidState(t *testing.T) {
	targets := Constant(flight.Target{Throttle: flight.Throttle{Power: math.Inf(1)}})
	s := New(&decayPlant{gain: 1}, eulerStep{}, &echo{}, targets)

	result, err := s.Run(context.Background(), State{0}, Config{Dt: 0.1, Duration: 1, ValidateState: true})
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %v", err)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if stepErr.Step != 0 {
		t.Errorf("expected failure at step 0, got %d", stepErr.Step)
	}
	if result == nil || len(result.States) != 1 {
		t.Errorf("expected partial result with one state")
	}
}

func TestSimulatorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(&decayPlant{}, eulerStep{}, &echo{}, nil)
	_, err := s.Run(ctx, State{1}, Config{Dt: 0.1, Duration: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

type countMetric struct {
	count int
	sum   float64
}

func (c *countMetric) Name() string { return "test" }
func (c *countMetric) Observe(s Sample) {
	c.count++
	c.sum += s.State[0]
}
func (c *countMetric) Value() float64 {
	if c.count == 0 {
		return 0
	}
	return c.sum / float64(c.count)
}
func (c *countMetric) Reset() {
	c.count = 0
	c.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	s := New(&decayPlant{}, eulerStep{}, &echo{}, nil)

	metric := &countMetric{}
	s.AddMetric(metric)

	result, err := s.Run(context.Background(), State{1.0}, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 11 {
		t.Errorf("expected 11 observations, got %d", metric.count)
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	ctrl := &echo{}
	s := New(&decayPlant{}, eulerStep{}, ctrl, nil)

	seen := 0
	err := s.RunWithCallback(context.Background(), State{1}, Config{Dt: 0.1, Duration: 1}, func(Sample) bool {
		seen++
		return seen < 3
	})
	if err != nil {
		t.Fatalf("callback run failed: %v", err)
	}
	if seen != 3 || ctrl.calls != 3 {
		t.Errorf("expected 3 samples and 3 controller calls, got %d and %d", seen, ctrl.calls)
	}
}

func TestBatchRun(t *testing.T) {
	build := func(power float64) func() (*Simulator, error) {
		return func() (*Simulator, error) {
			tg := Constant(flight.Target{Throttle: flight.Throttle{Power: power}})
			return New(&decayPlant{gain: 1}, eulerStep{}, &echo{}, tg), nil
		}
	}
	cfg := Config{Dt: 0.01, Duration: 10}
	b := NewBatch(
		Job{Name: "one", Build: build(1), X0: State{0}, Cfg: cfg},
		Job{Name: "three", Build: build(3), X0: State{0}, Cfg: cfg},
	)
	b.Workers = 1

	results, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	for i, want := range []float64{1, 3} {
		got := results[i].States[len(results[i].States)-1][0]
		if math.Abs(got-want) > 1e-3 {
			t.Errorf("job %d: expected %.1f, got %.4f", i, want, got)
		}
	}
}

func TestBatchBuildError(t *testing.T) {
	boom := errors.New("boom")
	b := NewBatch(Job{Name: "bad", Build: func() (*Simulator, error) { return nil, boom }})
	if _, err := b.Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected build error, got %v", err)
	}
}
