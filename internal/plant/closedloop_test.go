package plant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/flightctl/internal/config"
	"github.com/san-kum/flightctl/internal/flight"
	"github.com/san-kum/flightctl/internal/integrators"
	"github.com/san-kum/flightctl/internal/plant"
	"github.com/san-kum/flightctl/internal/sim"
)

func runDrone(t *testing.T, x0 sim.State, target flight.Target, duration float64) *sim.Result {
	t.Helper()
	params := config.DefaultParams()
	ctrl, err := flight.Create(flight.DroneController, config.StaticSource(params))
	require.NoError(t, err)

	s := sim.New(plant.NewMultirotor(), integrators.NewEuler(), ctrl, sim.Constant(target))
	result, err := s.Run(context.Background(), x0, sim.Config{
		Dt:            params.Get("SIMULATION_DELTA_TIME"),
		Duration:      duration,
		ValidateState: true,
	})
	require.NoError(t, err)
	return result
}

func TestDroneHoldsHover(t *testing.T) {
	result := runDrone(t, plant.InitialState(0, 0, 2, 0),
		flight.Target{Position: flight.PositionTarget{Z: -2}}, 2)

	// thrust is held at zero until the first altitude cycle elapses
	final := result.States[len(result.States)-1]
	assert.InDelta(t, -2, final[plant.Z], 0.01)
	assert.InDelta(t, 0, final[plant.Phi], 1e-9)
}

func TestDroneClimbsToTarget(t *testing.T) {
	result := runDrone(t, plant.InitialState(0, 0, 0, 0),
		flight.Target{Position: flight.PositionTarget{Z: -1}}, 8)

	final := result.States[len(result.States)-1]
	assert.InDelta(t, 1, -final[plant.Z], 0.1)
	assert.InDelta(t, 0, final[plant.W], 0.05)
}
