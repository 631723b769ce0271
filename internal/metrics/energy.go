package metrics

import "github.com/san-kum/flightctl/internal/sim"

// Energetic is implemented by plants that can report mechanical energy.
type Energetic interface {
	Energy(x sim.State) float64
}

// Energy averages the plant's mechanical energy over the run.
type Energy struct {
	name        string
	plant       Energetic
	samples     int
	totalEnergy float64
}

func NewEnergy(plant Energetic) *Energy {
	return &Energy{
		name:  "energy",
		plant: plant,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s sim.Sample) {
	e.totalEnergy += e.plant.Energy(s.State)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}
