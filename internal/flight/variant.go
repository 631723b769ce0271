package flight

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownVariant = errors.New("flight: unknown controller variant")

type AltitudeMode int

const (
	AltitudeOff AltitudeMode = iota
	AltitudePosition
	AltitudeSpeed
)

type HorizontalMode int

const (
	HorizontalOff HorizontalMode = iota
	HorizontalPosition
	HorizontalVelocity
)

// Setpoints are the loop targets derived from a host Target, in the
// up-positive internal frame. Angles are degrees.
type Setpoints struct {
	Altitude  float64
	ClimbRate float64
	YawDeg    float64
	X, Y      float64
	Speed     float64
	Vx, Vy    float64
	// Roll and Pitch feed the attitude loop when no horizontal loop runs.
	Roll, Pitch float64
	// Direct is returned as-is by pass-through variants.
	Direct Output
}

// Variant selects the loops to run and maps the host target onto them.
type Variant struct {
	Name       string
	Altitude   AltitudeMode
	Heading    bool
	Horizontal HorizontalMode
	Attitude   bool
	Map        func(Target) Setpoints
}

// Passthrough reports whether the variant runs no loop at all.
func (v Variant) Passthrough() bool {
	return v.Altitude == AltitudeOff && !v.Heading && v.Horizontal == HorizontalOff && !v.Attitude
}

// NeedsParams reports whether construction requires a parameter set.
func (v Variant) NeedsParams() bool { return !v.Passthrough() }

const (
	AltSpeedController = "AltSpeedController"
	AngleController    = "AngleController"
	DroneController    = "DroneController"
	PlantController    = "PlantController"
	SpeedController    = "SpeedController"
)

// variants lists every known wiring by name. The sign conversions are part
// of each variant's host contract and differ between them.
var variants = map[string]Variant{
	AltSpeedController: {
		Name:     AltSpeedController,
		Altitude: AltitudeSpeed,
		Map: func(t Target) Setpoints {
			return Setpoints{ClimbRate: -t.Throttle.Power}
		},
	},
	AngleController: {
		Name:     AngleController,
		Altitude: AltitudePosition,
		Heading:  true,
		Attitude: true,
		Map: func(t Target) Setpoints {
			return Setpoints{
				Altitude: t.Throttle.Power,
				YawDeg:   0,
				Roll:     t.Attitude.Roll,
				Pitch:    t.Attitude.Pitch,
			}
		},
	},
	DroneController: {
		Name:       DroneController,
		Altitude:   AltitudePosition,
		Heading:    true,
		Horizontal: HorizontalPosition,
		Attitude:   true,
		Map: func(t Target) Setpoints {
			return Setpoints{
				Altitude: -t.Position.Z,
				YawDeg:   t.YawDeg,
				X:        t.Position.X,
				Y:        t.Position.Y,
				Speed:    t.Speed,
			}
		},
	},
	PlantController: {
		Name: PlantController,
		Map: func(t Target) Setpoints {
			return Setpoints{Direct: Output{
				Thrust:  t.Throttle.Power,
				TorqueX: t.Attitude.Roll,
				TorqueY: t.Attitude.Pitch,
				TorqueZ: t.DirectionVelocity.R,
			}}
		},
	},
	SpeedController: {
		Name:       SpeedController,
		Altitude:   AltitudePosition,
		Heading:    true,
		Horizontal: HorizontalVelocity,
		Attitude:   true,
		Map: func(t Target) Setpoints {
			return Setpoints{
				Altitude: -t.Throttle.Power,
				YawDeg:   0,
				Vx:       t.Attitude.Pitch,
				Vy:       t.Attitude.Roll,
			}
		},
	},
}

func Lookup(name string) (Variant, error) {
	v, ok := variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %s", ErrUnknownVariant, name)
	}
	return v, nil
}

// MustLookup is like Lookup but panics on an unknown name. Use it with the
// name constants or values from Names.
func MustLookup(name string) Variant {
	v, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return v
}

func Names() []string {
	names := make([]string, 0, len(variants))
	for n := range variants {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
