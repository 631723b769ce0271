package metrics

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrTooFewSamples = errors.New("metrics: too few samples for step evaluation")
	ErrUnsteady      = errors.New("metrics: steady-state variance above threshold")
)

// NotReached stands in for a time the response never reaches.
const NotReached = 10000.0

// Criteria configures EvaluateStep. A zero Max* limit disables that check.
type Criteria struct {
	// Start drops samples before this time; the remaining times are
	// shifted to begin at zero.
	Start float64

	Target            float64
	TargetCV          float64
	VarianceThreshold float64

	RiseLow      float64
	RiseHigh     float64
	DelayFrac    float64
	SettlingBand float64

	MaxRise      float64
	MaxDelay     float64
	MaxOvershoot float64
	MaxSettling  float64
}

func DefaultCriteria() Criteria {
	return Criteria{
		TargetCV:          0.01,
		VarianceThreshold: 1.0,
		RiseLow:           0.1,
		RiseHigh:          0.9,
		DelayFrac:         0.5,
		SettlingBand:      0.05,
	}
}

// StepResponse holds the classic step metrics. Fractions are of the change
// from the initial value to the steady-state value.
type StepResponse struct {
	Initial      float64 `json:"initial"`
	SteadyState  float64 `json:"steady_state"`
	Variance     float64 `json:"variance"`
	RiseTime     float64 `json:"rise_time"`
	DelayTime    float64 `json:"delay_time"`
	Overshoot    float64 `json:"overshoot"`
	SettlingTime float64 `json:"settling_time"`

	SteadyOK    bool `json:"steady_ok"`
	RiseOK      bool `json:"rise_ok"`
	DelayOK     bool `json:"delay_ok"`
	OvershootOK bool `json:"overshoot_ok"`
	SettlingOK  bool `json:"settling_ok"`
}

func (r *StepResponse) OK() bool {
	return r.SteadyOK && r.RiseOK && r.DelayOK && r.OvershootOK && r.SettlingOK
}

// EvaluateStep measures a recorded step response. The steady-state value
// is the mean of the last tenth of the samples. When its variance exceeds
// the threshold the result is still returned, together with ErrUnsteady.
func EvaluateStep(times, values []float64, c Criteria) (*StepResponse, error) {
	var ts, ys []float64
	for i, t := range times {
		if i >= len(values) {
			break
		}
		if t >= c.Start {
			ts = append(ts, t-c.Start)
			ys = append(ys, values[i])
		}
	}
	if len(ys) < 2 {
		return nil, ErrTooFewSamples
	}

	tail := ys[len(ys)-max(len(ys)/10, 2):]
	r := &StepResponse{
		Initial:     ys[0],
		SteadyState: stat.Mean(tail, nil),
		Variance:    stat.Variance(tail, nil),
	}

	// Work on the change from the initial value so both directions
	// evaluate as a rise.
	sign := 1.0
	if r.SteadyState < r.Initial {
		sign = -1.0
	}
	rel := make([]float64, len(ys))
	for i, y := range ys {
		rel[i] = sign * (y - r.Initial)
	}
	span := sign * (r.SteadyState - r.Initial)

	riseStart := firstReach(ts, rel, span*c.RiseLow)
	riseEnd := firstReach(ts, rel, span*c.RiseHigh)
	if riseStart == NotReached || riseEnd == NotReached {
		r.RiseTime = NotReached
	} else {
		r.RiseTime = riseEnd - riseStart
	}
	r.DelayTime = firstReach(ts, rel, span*c.DelayFrac)
	r.Overshoot = math.Max(0, floats.Max(rel)-span)
	r.SettlingTime = settlingTime(ts, rel, span, c.SettlingBand)

	r.SteadyOK = math.Abs(r.SteadyState-c.Target) <= math.Abs(c.Target*c.TargetCV)
	r.RiseOK = within(r.RiseTime, c.MaxRise)
	r.DelayOK = within(r.DelayTime, c.MaxDelay)
	r.OvershootOK = within(r.Overshoot, c.MaxOvershoot)
	r.SettlingOK = within(r.SettlingTime, c.MaxSettling)

	if c.VarianceThreshold > 0 && r.Variance > c.VarianceThreshold {
		return r, ErrUnsteady
	}
	return r, nil
}

func firstReach(ts, rel []float64, level float64) float64 {
	for i, v := range rel {
		if v >= level {
			return ts[i]
		}
	}
	return NotReached
}

// settlingTime is the first time after which every sample stays inside the
// band around the steady-state value.
func settlingTime(ts, rel []float64, span, band float64) float64 {
	tol := math.Abs(span * band)
	first := -1
	for i := len(rel) - 1; i >= 0; i-- {
		if math.Abs(rel[i]-span) > tol {
			break
		}
		first = i
	}
	if first < 0 {
		return NotReached
	}
	return ts[first]
}

func within(v, limit float64) bool {
	return limit <= 0 || v <= limit
}
