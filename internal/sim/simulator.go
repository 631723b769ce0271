package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/flightctl/internal/flight"
)

// Simulator closes the loop between a plant and a flight strategy:
// sense, run the controller, actuate, integrate.
type Simulator struct {
	plant      Plant
	integrator Integrator
	controller flight.Strategy
	targets    TargetSource
	metrics    []Metric
	observers  []Observer
}

func New(plant Plant, integrator Integrator, controller flight.Strategy, targets TargetSource) *Simulator {
	if targets == nil {
		targets = Constant(flight.Target{})
	}
	return &Simulator{
		plant:      plant,
		integrator: integrator,
		controller: controller,
		targets:    targets,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Controller() flight.Strategy { return s.controller }

// Run simulates cfg.Duration seconds. On a StepError the partial result is
// returned alongside the error.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	result := &Result{
		Times:    make([]float64, 0, steps+1),
		States:   make([]State, 0, steps+1),
		Targets:  make([]flight.Target, 0, steps+1),
		Commands: make([]flight.Output, 0, steps+1),
		Metrics:  make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	var last flight.Output
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		sample := s.sample(i, x, float64(i)*cfg.Dt)
		s.record(result, sample)
		last = sample.Cmd

		next := s.integrator.Step(s.plant, x, s.plant.Actuate(sample.Cmd), sample.Time, cfg.Dt)
		if cfg.ValidateState && !next.IsValid() {
			s.finish(result)
			return result, &StepError{Step: i, Time: sample.Time, State: x.Clone(), Err: ErrInvalidState}
		}
		x = next
		result.StepsTaken++
	}

	// The final state is recorded with the command that produced it; the
	// controller runs exactly once per integrated step.
	tEnd := float64(steps) * cfg.Dt
	s.record(result, Sample{
		Step:   steps,
		Time:   tEnd,
		State:  x.Clone(),
		Target: s.targets.Target(tEnd),
		Cmd:    last,
	})
	s.finish(result)
	return result, nil
}

// RunWithCallback steps the loop until the duration elapses or callback
// returns false. Nothing is recorded.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 State, cfg Config, callback func(Sample) bool) error {
	if err := s.validate(x0, cfg); err != nil {
		return err
	}

	x := x0.Clone()
	for i := 0; float64(i)*cfg.Dt < cfg.Duration; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sample := s.sample(i, x, float64(i)*cfg.Dt)
		if !callback(sample) {
			return nil
		}

		x = s.integrator.Step(s.plant, x, s.plant.Actuate(sample.Cmd), sample.Time, cfg.Dt)
		if cfg.ValidateState && !x.IsValid() {
			return &StepError{Step: i, Time: sample.Time, State: x, Err: ErrInvalidState}
		}
	}
	return nil
}

func (s *Simulator) sample(i int, x State, t float64) Sample {
	in := s.plant.Sense(x)
	in.Target = s.targets.Target(t)
	return Sample{
		Step:   i,
		Time:   t,
		State:  x.Clone(),
		Target: in.Target,
		Cmd:    s.controller.Run(in),
	}
}

func (s *Simulator) record(r *Result, sample Sample) {
	for _, m := range s.metrics {
		m.Observe(sample)
	}
	for _, obs := range s.observers {
		obs.OnStep(sample)
	}
	r.Times = append(r.Times, sample.Time)
	r.States = append(r.States, sample.State)
	r.Targets = append(r.Targets, sample.Target)
	r.Commands = append(r.Commands, sample.Cmd)
}

func (s *Simulator) finish(r *Result) {
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validate(x0 State, cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if n := s.plant.StateDim(); len(x0) != n {
		return fmt.Errorf("%w: got %d values, plant has %d", ErrDimensionMismatch, len(x0), n)
	}
	return nil
}
