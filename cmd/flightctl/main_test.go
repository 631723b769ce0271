package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/flightctl/internal/config"
	"github.com/san-kum/flightctl/internal/flight"
)

func flagged(t *testing.T, set map[string]string) (*cobra.Command, *scenarioFlags) {
	t.Helper()
	t.Setenv(config.EnvParamFile, "")
	f := &scenarioFlags{}
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	for k, v := range set {
		require.NoError(t, cmd.Flags().Set(k, v))
	}
	return cmd, f
}

func TestScenarioLayering(t *testing.T) {
	cmd, f := flagged(t, map[string]string{"preset": "box", "duration": "3", "mixer": "true"})
	e, err := f.experiment(cmd, flight.DroneController, logr.Discard())
	require.NoError(t, err)

	assert.Equal(t, flight.DroneController, e.Variant.Name)
	assert.Equal(t, "box", e.Preset)
	assert.Equal(t, 3.0, e.Scenario.Duration)
	assert.True(t, e.Scenario.Mixer)
	// integrator left to the preset
	assert.Equal(t, "rk4", e.Scenario.Integrator)
	assert.Equal(t, 3.0, e.Scenario.InitState.Altitude)
}

func TestScenarioDefaultsAndParamFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.txt")
	require.NoError(t, config.SaveParams(path, config.DefaultParams().Merge(config.Params{"MASS": 2})))

	cmd, f := flagged(t, map[string]string{"params": path, "integrator": "euler"})
	e, err := f.experiment(cmd, "", logr.Discard())
	require.NoError(t, err)

	assert.Equal(t, config.DefaultVariant, e.Variant.Name)
	assert.Equal(t, "euler", e.Scenario.Integrator)
	assert.Equal(t, 2.0, e.Plant().Mass)
}

func TestScenarioErrors(t *testing.T) {
	cmd, f := flagged(t, map[string]string{"preset": "loop"})
	_, err := f.experiment(cmd, flight.DroneController, logr.Discard())
	assert.Error(t, err)

	cmd, f = flagged(t, map[string]string{"params": filepath.Join(t.TempDir(), "missing.txt")})
	_, err = f.experiment(cmd, flight.DroneController, logr.Discard())
	assert.ErrorIs(t, err, config.ErrParamFileNotFound)

	bad := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("variant: [\n"), 0644))
	cmd, f = flagged(t, map[string]string{"scenario": bad})
	_, err = f.experiment(cmd, "", logr.Discard())
	assert.Error(t, err)
}

func TestTransform(t *testing.T) {
	v := []float64{-1, 3.141592653589793}
	transform(v, true, true)
	assert.InDelta(t, 57.2957795, v[0], 1e-6)
	assert.InDelta(t, -180, v[1], 1e-9)
}

func TestModeNames(t *testing.T) {
	assert.Equal(t, "speed", altitudeMode(flight.MustLookup(flight.AltSpeedController).Altitude))
	assert.Equal(t, "velocity", horizontalMode(flight.MustLookup(flight.SpeedController).Horizontal))
	assert.Equal(t, "-", horizontalMode(flight.MustLookup(flight.PlantController).Horizontal))
}
