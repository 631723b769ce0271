package metrics

import (
	"math"

	"github.com/san-kum/flightctl/internal/control"
	"github.com/san-kum/flightctl/internal/plant"
	"github.com/san-kum/flightctl/internal/sim"
)

// Stability is the fraction of samples whose roll and pitch stay within
// threshold degrees.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(thresholdDeg float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: thresholdDeg,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(smp sim.Sample) {
	s.samples++
	for _, i := range []int{plant.Phi, plant.Theta} {
		if math.Abs(control.Rad2Deg(smp.State[i])) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
