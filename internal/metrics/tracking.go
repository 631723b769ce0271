package metrics

import (
	"math"

	"github.com/san-kum/flightctl/internal/flight"
	"github.com/san-kum/flightctl/internal/plant"
	"github.com/san-kum/flightctl/internal/sim"
)

// TrackingError is the RMS difference between a measured quantity and its
// set-point.
type TrackingError struct {
	name           string
	actual, target func(sim.Sample) float64
	sumSq          float64
	samples        int
}

func NewTrackingError(name string, actual, target func(sim.Sample) float64) *TrackingError {
	return &TrackingError{name: name, actual: actual, target: target}
}

// NewAltitudeError tracks altitude against the set-point the variant
// derives from the host target.
func NewAltitudeError(v flight.Variant) *TrackingError {
	return NewTrackingError("altitude_rms",
		func(s sim.Sample) float64 { return -s.State[plant.Z] },
		func(s sim.Sample) float64 { return v.Map(s.Target).Altitude },
	)
}

// NewHorizontalError tracks the world X/Y distance to the position target.
func NewHorizontalError(v flight.Variant) *TrackingError {
	return NewTrackingError("horizontal_rms",
		func(s sim.Sample) float64 {
			sp := v.Map(s.Target)
			return math.Hypot(s.State[plant.X]-sp.X, s.State[plant.Y]-sp.Y)
		},
		func(sim.Sample) float64 { return 0 },
	)
}

func (e *TrackingError) Name() string { return e.name }

func (e *TrackingError) Observe(s sim.Sample) {
	d := e.actual(s) - e.target(s)
	e.sumSq += d * d
	e.samples++
}

func (e *TrackingError) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return math.Sqrt(e.sumSq / float64(e.samples))
}

func (e *TrackingError) Reset() {
	e.sumSq = 0
	e.samples = 0
}
