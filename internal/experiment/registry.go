package experiment

import (
	"github.com/san-kum/flightctl/internal/flight"
	"github.com/san-kum/flightctl/internal/metrics"
	"github.com/san-kum/flightctl/internal/plant"
	"github.com/san-kum/flightctl/internal/sim"
)

// StabilityLimitDeg is the tilt beyond which the stability metric counts a
// sample as unstable.
const StabilityLimitDeg = 30.0

// DefaultMetrics are attached to every run. Tracking errors are only
// meaningful for variants that close the corresponding loop.
func DefaultMetrics(p *plant.Multirotor, v flight.Variant) []sim.Metric {
	ms := []sim.Metric{
		metrics.NewControlEffort(p.HoverThrust()),
		metrics.NewEnergy(p),
		metrics.NewStability(StabilityLimitDeg),
	}
	if v.Altitude == flight.AltitudePosition {
		ms = append(ms, metrics.NewAltitudeError(v))
	}
	if v.Horizontal == flight.HorizontalPosition {
		ms = append(ms, metrics.NewHorizontalError(v))
	}
	return ms
}
