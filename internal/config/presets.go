package config

import "sort"

func step(v float64) SignalConfig { return SignalConfig{Type: "step", Offset: v} }

var Presets = map[string]map[string]*Scenario{
	"AltSpeedController": {
		"climb": {
			Variant: "AltSpeedController", Integrator: "rk4", Duration: 5.0,
			Phases: []PhaseConfig{{Name: "climb", Duration: 5.0, Signals: map[string]SignalConfig{"power": step(-1.0)}}},
		},
	},
	"AngleController": {
		"hover": {
			Variant: "AngleController", Integrator: "rk4", Duration: 10.0,
			Phases: []PhaseConfig{{Name: "hover", Duration: 10.0, Signals: map[string]SignalConfig{"power": step(2.0)}}},
		},
		"roll": {
			Variant: "AngleController", Integrator: "rk4", Duration: 10.0,
			InitState: InitStateConfig{Altitude: 2.0},
			Phases: []PhaseConfig{
				{Name: "level", Duration: 2.0, Signals: map[string]SignalConfig{"power": step(2.0)}},
				{Name: "roll", Duration: 8.0, Signals: map[string]SignalConfig{"power": step(2.0), "roll": step(5.0)}},
			},
		},
	},
	"DroneController": {
		"hover": {
			Variant: "DroneController", Integrator: "rk4", Duration: 10.0,
			Phases: []PhaseConfig{{Name: "hover", Duration: 10.0, Signals: map[string]SignalConfig{"pos_z": step(-3.0)}}},
		},
		"box": {
			Variant: "DroneController", Integrator: "rk4", Duration: 20.0,
			InitState: InitStateConfig{Altitude: 3.0},
			Phases: []PhaseConfig{
				{Name: "east", Duration: 10.0, Signals: map[string]SignalConfig{"pos_z": step(-3.0), "pos_x": step(2.0), "speed": step(1.0)}},
				{Name: "turn", Duration: 10.0, Signals: map[string]SignalConfig{"pos_z": step(-3.0), "pos_x": step(2.0), "yaw_deg": step(90.0)}},
			},
		},
	},
	"SpeedController": {
		"forward": {
			Variant: "SpeedController", Integrator: "rk4", Duration: 10.0,
			InitState: InitStateConfig{Altitude: 2.0},
			Phases: []PhaseConfig{{Name: "forward", Duration: 10.0, Signals: map[string]SignalConfig{"power": step(-2.0), "pitch": step(1.0)}}},
		},
	},
	"PlantController": {
		"drop": {
			Variant: "PlantController", Integrator: "rk4", Duration: 2.0,
			InitState: InitStateConfig{Altitude: 10.0},
			Phases: []PhaseConfig{{Name: "idle", Duration: 2.0}},
		},
		"sweep": {
			Variant: "PlantController", Integrator: "rk4", Duration: 10.0,
			InitState: InitStateConfig{Altitude: 10.0},
			Phases: []PhaseConfig{{Name: "chirp", Duration: 10.0, Signals: map[string]SignalConfig{
				"power": {Type: "chirp", Offset: 9.81, Amp: 1.0, F0: 0.1, F1: 5.0},
			}}},
		},
	},
}

func GetPreset(variant, preset string) *Scenario {
	variantPresets, ok := Presets[variant]
	if !ok {
		return nil
	}
	cfg, ok := variantPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(variant string) []string {
	variantPresets, ok := Presets[variant]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(variantPresets))
	for name := range variantPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
