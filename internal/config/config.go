package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultVariant    = "DroneController"
	DefaultIntegrator = "rk4"
	DefaultDuration   = 10.0
	DefaultAltitude   = 0.0
)

// Scenario describes one closed-loop evaluation run.
type Scenario struct {
	Variant    string          `yaml:"variant"`
	Integrator string          `yaml:"integrator"`
	ParamFile  string          `yaml:"param_file,omitempty"`
	Duration   float64         `yaml:"duration"`
	Mixer      bool            `yaml:"mixer"`
	InitState  InitStateConfig `yaml:"init_state"`
	Phases     []PhaseConfig   `yaml:"phases"`
	// Params overrides individual values of the loaded parameter set.
	Params Params `yaml:"params,omitempty"`
}

// InitStateConfig is the plant's initial pose. Altitude is up-positive.
type InitStateConfig struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Altitude float64 `yaml:"altitude"`
	YawDeg   float64 `yaml:"yaw_deg"`
}

// PhaseConfig holds the target signals applied for Duration seconds.
// Signal keys name host target fields, see signal.Fields.
type PhaseConfig struct {
	Name     string                  `yaml:"name"`
	Duration float64                 `yaml:"duration"`
	Signals  map[string]SignalConfig `yaml:"signals"`
}

type SignalConfig struct {
	Type   string  `yaml:"type"`
	Offset float64 `yaml:"offset"`
	Amp    float64 `yaml:"amp,omitempty"`
	Freq   float64 `yaml:"freq,omitempty"`
	F0     float64 `yaml:"f0,omitempty"`
	F1     float64 `yaml:"f1,omitempty"`
}

func DefaultScenario() *Scenario {
	return &Scenario{
		Variant:    DefaultVariant,
		Integrator: DefaultIntegrator,
		Duration:   DefaultDuration,
		InitState:  InitStateConfig{Altitude: DefaultAltitude},
		Phases: []PhaseConfig{{
			Name:     "hold",
			Duration: DefaultDuration,
			Signals: map[string]SignalConfig{
				"pos_z": {Type: "step", Offset: -1.0},
			},
		}},
	}
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultScenario()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Scenario) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolveParams loads the scenario's parameter set: ParamFile when given,
// else src, else the defaults, then applies the Params overrides.
func (s *Scenario) ResolveParams(src ParamSource) (Params, error) {
	var (
		p   Params
		err error
	)
	switch {
	case s.ParamFile != "":
		p, err = LoadParams(s.ParamFile)
	case src != nil:
		p, err = src.Params()
	default:
		p = DefaultParams()
	}
	if err != nil {
		return nil, err
	}
	return p.Merge(s.Params), nil
}
