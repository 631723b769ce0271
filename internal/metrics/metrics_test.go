package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/flightctl/internal/flight"
	"github.com/san-kum/flightctl/internal/plant"
	"github.com/san-kum/flightctl/internal/sim"
)

func sample(x sim.State, cmd flight.Output, tg flight.Target) sim.Sample {
	return sim.Sample{State: x, Cmd: cmd, Target: tg}
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort(9.81)
	x := plant.InitialState(0, 0, 1, 0)

	m.Observe(sample(x, flight.Output{Thrust: 9.81}, flight.Target{}))
	assert.Equal(t, 0.0, m.Value())

	m.Observe(sample(x, flight.Output{Thrust: 10.81, TorqueX: -0.5, TorqueZ: 0.5}, flight.Target{}))
	assert.InDelta(t, 1.0, m.Value(), 1e-9)

	m.Reset()
	assert.Equal(t, 0.0, m.Value())
}

func TestEnergy(t *testing.T) {
	p := plant.NewMultirotor()
	m := NewEnergy(p)
	m.Observe(sample(plant.InitialState(0, 0, 1, 0), flight.Output{}, flight.Target{}))
	m.Observe(sample(plant.InitialState(0, 0, 3, 0), flight.Output{}, flight.Target{}))
	assert.InDelta(t, 2*p.Mass*p.Gravity, m.Value(), 1e-9)

	m.Reset()
	assert.Equal(t, 0.0, m.Value())
}

func TestStability(t *testing.T) {
	m := NewStability(10)
	assert.Equal(t, 1.0, m.Value())

	level := plant.InitialState(0, 0, 1, 0)
	tilted := level.Clone()
	tilted[plant.Theta] = 0.3 // ~17 degrees

	m.Observe(sample(level, flight.Output{}, flight.Target{}))
	m.Observe(sample(tilted, flight.Output{}, flight.Target{}))
	assert.InDelta(t, 0.5, m.Value(), 1e-12)
}

func TestAltitudeError(t *testing.T) {
	drone := NewAltitudeError(flight.MustLookup(flight.DroneController))
	angle := NewAltitudeError(flight.MustLookup(flight.AngleController))

	x := plant.InitialState(0, 0, 1, 0)
	tg := flight.Target{Position: flight.PositionTarget{Z: -3}, Throttle: flight.Throttle{Power: 2}}

	drone.Observe(sample(x, flight.Output{}, tg))
	angle.Observe(sample(x, flight.Output{}, tg))
	assert.InDelta(t, 2, drone.Value(), 1e-12)
	assert.InDelta(t, 1, angle.Value(), 1e-12)
}

func TestHorizontalError(t *testing.T) {
	m := NewHorizontalError(flight.MustLookup(flight.DroneController))
	x := plant.InitialState(0, 0, 1, 0)
	m.Observe(sample(x, flight.Output{}, flight.Target{Position: flight.PositionTarget{X: 3, Y: 4}}))
	assert.InDelta(t, 5, m.Value(), 1e-12)
}

func firstOrder(initial, final, tau, dt, total float64) (ts, ys []float64) {
	for i := 0; float64(i)*dt <= total+1e-9; i++ {
		t := float64(i) * dt
		ts = append(ts, t)
		ys = append(ys, initial+(final-initial)*(1-math.Exp(-t/tau)))
	}
	return ts, ys
}

func TestEvaluateStepFirstOrder(t *testing.T) {
	ts, ys := firstOrder(0, 1, 1, 0.01, 10)
	c := DefaultCriteria()
	c.Target = 1

	r, err := EvaluateStep(ts, ys, c)
	require.NoError(t, err)
	assert.InDelta(t, 1, r.SteadyState, 1e-3)
	assert.InDelta(t, math.Log(9), r.RiseTime, 0.02)
	assert.InDelta(t, math.Ln2, r.DelayTime, 0.02)
	assert.InDelta(t, 0, r.Overshoot, 1e-3)
	assert.InDelta(t, 3.0, r.SettlingTime, 0.02)
	assert.True(t, r.OK())
}

func TestEvaluateStepDecreasing(t *testing.T) {
	ts, ys := firstOrder(5, 3, 1, 0.01, 10)
	c := DefaultCriteria()
	c.Target = 3

	r, err := EvaluateStep(ts, ys, c)
	require.NoError(t, err)
	assert.InDelta(t, 3, r.SteadyState, 1e-3)
	assert.InDelta(t, math.Log(9), r.RiseTime, 0.02)
	assert.InDelta(t, 0, r.Overshoot, 1e-3)
	assert.True(t, r.SteadyOK)
}

func TestEvaluateStepOvershoot(t *testing.T) {
	var ts, ys []float64
	for i := 0; i <= 1000; i++ {
		tm := float64(i) * 0.01
		ts = append(ts, tm)
		ys = append(ys, 1-math.Exp(-tm)*math.Cos(3*tm))
	}
	c := DefaultCriteria()
	c.Target = 1
	c.MaxOvershoot = 0.2

	r, err := EvaluateStep(ts, ys, c)
	require.NoError(t, err)
	assert.InDelta(t, 0.37, r.Overshoot, 0.01)
	assert.False(t, r.OvershootOK)
	assert.False(t, r.OK())
}

func TestEvaluateStepVerdicts(t *testing.T) {
	ts, ys := firstOrder(0, 1, 1, 0.01, 10)
	c := DefaultCriteria()
	c.Target = 1
	c.MaxRise = 3
	c.MaxDelay = 1
	c.MaxOvershoot = 0.1
	c.MaxSettling = 2

	r, err := EvaluateStep(ts, ys, c)
	require.NoError(t, err)
	assert.True(t, r.SteadyOK)
	assert.True(t, r.RiseOK)
	assert.True(t, r.DelayOK)
	assert.True(t, r.OvershootOK)
	assert.False(t, r.SettlingOK)

	c.Target = 2
	r, err = EvaluateStep(ts, ys, c)
	require.NoError(t, err)
	assert.False(t, r.SteadyOK)
}

func TestEvaluateStepStart(t *testing.T) {
	ts, ys := firstOrder(0, 1, 1, 0.01, 10)
	// hold at zero for two seconds before the step
	var hts, hys []float64
	for i := 0; i < 200; i++ {
		hts = append(hts, float64(i)*0.01)
		hys = append(hys, 0)
	}
	for i := range ts {
		hts = append(hts, ts[i]+2)
		hys = append(hys, ys[i])
	}

	c := DefaultCriteria()
	c.Start = 2
	r, err := EvaluateStep(hts, hys, c)
	require.NoError(t, err)
	assert.InDelta(t, math.Ln2, r.DelayTime, 0.02)
}

func TestEvaluateStepErrors(t *testing.T) {
	_, err := EvaluateStep([]float64{0}, []float64{1}, DefaultCriteria())
	assert.ErrorIs(t, err, ErrTooFewSamples)

	var ts, ys []float64
	for i := 0; i < 100; i++ {
		ts = append(ts, float64(i))
		ys = append(ys, float64((i%2)*10))
	}
	r, err := EvaluateStep(ts, ys, DefaultCriteria())
	assert.ErrorIs(t, err, ErrUnsteady)
	require.NotNil(t, r)
	assert.Greater(t, r.Variance, 1.0)
}
