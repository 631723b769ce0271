// Package experiment assembles a scenario into a runnable closed loop:
// plant, integrator, flight controller, target schedule and metrics.
package experiment

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/san-kum/flightctl/internal/config"
	"github.com/san-kum/flightctl/internal/flight"
	"github.com/san-kum/flightctl/internal/integrators"
	"github.com/san-kum/flightctl/internal/plant"
	"github.com/san-kum/flightctl/internal/signal"
	"github.com/san-kum/flightctl/internal/sim"
	"github.com/san-kum/flightctl/internal/storage"
)

type Experiment struct {
	Scenario config.Scenario
	Params   config.Params
	Variant  flight.Variant
	Preset   string

	schedule *signal.Schedule
	log      logr.Logger
}

type Option func(*Experiment)

func WithLogger(l logr.Logger) Option {
	return func(e *Experiment) { e.log = l }
}

func WithPreset(name string) Option {
	return func(e *Experiment) { e.Preset = name }
}

// New validates the scenario up front so that Build cannot fail on
// configuration.
func New(sc config.Scenario, params config.Params, opts ...Option) (*Experiment, error) {
	e := &Experiment{Scenario: sc, Params: params, log: logr.Discard()}
	for _, o := range opts {
		o(e)
	}

	v, err := flight.Lookup(sc.Variant)
	if err != nil {
		return nil, err
	}
	e.Variant = v
	if _, err := integrators.New(sc.Integrator); err != nil {
		return nil, err
	}
	if e.schedule, err = signal.NewSchedule(sc.Phases); err != nil {
		return nil, err
	}
	if e.Scenario.Duration <= 0 {
		e.Scenario.Duration = e.schedule.Duration()
	}
	// fail now on a parameter set the controller rejects
	if _, err := e.Controller(); err != nil {
		return nil, err
	}
	return e, nil
}

// Dt is the controller step, which the simulator shares.
func (e *Experiment) Dt() float64 {
	if dt, ok := e.Params.Lookup("SIMULATION_DELTA_TIME"); ok && dt > 0 {
		return dt
	}
	return sim.DefaultConfig().Dt
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{Dt: e.Dt(), Duration: e.Scenario.Duration, ValidateState: true}
}

func (e *Experiment) InitialState() sim.State {
	s := e.Scenario.InitState
	return plant.InitialState(s.X, s.Y, s.Altitude, s.YawDeg)
}

func (e *Experiment) Schedule() *signal.Schedule { return e.schedule }

// Plant builds a multirotor whose mass and gravity match the controller's
// parameter set.
func (e *Experiment) Plant() *plant.Multirotor {
	p := plant.NewMultirotor()
	if m, ok := e.Params.Lookup("MASS"); ok && m > 0 {
		p.Mass = m
	}
	if g, ok := e.Params.Lookup("GRAVITY"); ok {
		p.Gravity = g
	}
	if e.Scenario.Mixer {
		p.Mixer = plant.NewMixer()
	}
	return p
}

// Controller builds a fresh flight module for the scenario's variant.
func (e *Experiment) Controller() (*flight.Module, error) {
	return flight.Create(e.Variant.Name, config.StaticSource(e.Params), flight.WithLogger(e.log))
}

// Build returns a fresh simulator with its own plant and controller, so
// independent builds may run concurrently.
func (e *Experiment) Build() (*sim.Simulator, error) {
	ctrl, err := e.Controller()
	if err != nil {
		return nil, err
	}
	if err := ctrl.Init(); err != nil {
		return nil, err
	}
	integ, err := integrators.New(e.Scenario.Integrator)
	if err != nil {
		return nil, err
	}
	p := e.Plant()
	s := sim.New(p, integ, ctrl, e.schedule)
	for _, m := range DefaultMetrics(p, e.Variant) {
		s.AddMetric(m)
	}
	return s, nil
}

// Job wraps the experiment for a sim.Batch.
func (e *Experiment) Job() sim.Job {
	return sim.Job{Name: e.Variant.Name, Build: e.Build, X0: e.InitialState(), Cfg: e.SimConfig()}
}

// Run simulates the scenario. A diverged run returns its partial result
// together with the sim.StepError.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	s, err := e.Build()
	if err != nil {
		return nil, err
	}
	e.log.Info("simulation started", "variant", e.Variant.Name, "duration", e.Scenario.Duration, "dt", e.Dt())
	r, err := s.Run(ctx, e.InitialState(), e.SimConfig())
	if err != nil {
		e.log.Error(err, "simulation stopped", "variant", e.Variant.Name)
		return r, err
	}
	e.log.V(1).Info("simulation finished", "steps", r.StepsTaken)
	return r, nil
}

// Metadata describes a finished run for storage.
func (e *Experiment) Metadata(r *sim.Result, runErr error) storage.RunMetadata {
	meta := storage.RunMetadata{
		Variant:    e.Variant.Name,
		Preset:     e.Preset,
		Dt:         e.Dt(),
		Duration:   e.Scenario.Duration,
		Integrator: e.Scenario.Integrator,
		Mixer:      e.Scenario.Mixer,
		Params:     e.Params,
	}
	if r != nil {
		meta.Steps = r.StepsTaken
		meta.Metrics = r.Metrics
	}
	if runErr != nil {
		meta.Error = runErr.Error()
	}
	return meta
}

// Series converts a result into named columns.
func Series(r *sim.Result) *storage.Series {
	return storage.NewSeries(r, plant.StateNames)
}

// FromPreset resolves a named preset of a variant.
func FromPreset(variant, preset string) (config.Scenario, error) {
	sc := config.GetPreset(variant, preset)
	if sc == nil {
		return config.Scenario{}, fmt.Errorf("unknown preset %q for %s (available: %v)",
			preset, variant, config.ListPresets(variant))
	}
	return *sc, nil
}
