package metrics

import (
	"math"

	"github.com/san-kum/flightctl/internal/sim"
)

// ControlEffort is the mean absolute command per sample, thrust measured
// from hover so that a steady hover costs nothing.
type ControlEffort struct {
	name    string
	hover   float64
	sum     float64
	samples int
}

func NewControlEffort(hoverThrust float64) *ControlEffort {
	return &ControlEffort{
		name:  "control_effort",
		hover: hoverThrust,
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(s sim.Sample) {
	c.sum += math.Abs(s.Cmd.Thrust-c.hover) +
		math.Abs(s.Cmd.TorqueX) + math.Abs(s.Cmd.TorqueY) + math.Abs(s.Cmd.TorqueZ)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
