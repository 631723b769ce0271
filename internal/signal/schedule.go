package signal

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/flightctl/internal/config"
	"github.com/san-kum/flightctl/internal/flight"
)

var ErrUnknownField = errors.New("signal: unknown target field")

// Fields maps the configuration keys onto host target fields.
var Fields = map[string]func(*flight.Target, float64){
	"power":    func(t *flight.Target, v float64) { t.Throttle.Power = v },
	"roll":     func(t *flight.Target, v float64) { t.Attitude.Roll = v },
	"pitch":    func(t *flight.Target, v float64) { t.Attitude.Pitch = v },
	"yaw_rate": func(t *flight.Target, v float64) { t.DirectionVelocity.R = v },
	"pos_x":    func(t *flight.Target, v float64) { t.Position.X = v },
	"pos_y":    func(t *flight.Target, v float64) { t.Position.Y = v },
	"pos_z":    func(t *flight.Target, v float64) { t.Position.Z = v },
	"speed":    func(t *flight.Target, v float64) { t.Speed = v },
	"yaw_deg":  func(t *flight.Target, v float64) { t.YawDeg = v },
}

func FieldNames() []string {
	names := make([]string, 0, len(Fields))
	for n := range Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type Phase struct {
	Name     string
	Start    float64
	Duration float64
	signals  map[string]Signal
}

// Schedule plays phases back to back. Signals are evaluated on phase-local
// time; fields a phase does not name are zero. The last phase extends past
// its end.
type Schedule struct {
	phases []Phase
}

func NewSchedule(cfgs []config.PhaseConfig) (*Schedule, error) {
	s := &Schedule{}
	start := 0.0
	for i, pc := range cfgs {
		if pc.Duration <= 0 {
			return nil, fmt.Errorf("signal: phase %d (%s): duration must be positive", i, pc.Name)
		}
		ph := Phase{Name: pc.Name, Start: start, Duration: pc.Duration, signals: make(map[string]Signal, len(pc.Signals))}
		for field, sc := range pc.Signals {
			if _, ok := Fields[field]; !ok {
				return nil, fmt.Errorf("%w: %s in phase %s", ErrUnknownField, field, pc.Name)
			}
			sig, err := FromConfig(sc, pc.Duration)
			if err != nil {
				return nil, fmt.Errorf("phase %s, field %s: %w", pc.Name, field, err)
			}
			ph.signals[field] = sig
		}
		s.phases = append(s.phases, ph)
		start += pc.Duration
	}
	return s, nil
}

func (s *Schedule) Phases() []Phase { return s.phases }

// Duration is the total scheduled time.
func (s *Schedule) Duration() float64 {
	if len(s.phases) == 0 {
		return 0
	}
	last := s.phases[len(s.phases)-1]
	return last.Start + last.Duration
}

func (s *Schedule) phaseAt(t float64) (Phase, bool) {
	if len(s.phases) == 0 {
		return Phase{}, false
	}
	for _, ph := range s.phases {
		if t < ph.Start+ph.Duration {
			return ph, true
		}
	}
	return s.phases[len(s.phases)-1], true
}

// PhaseAt names the phase active at t.
func (s *Schedule) PhaseAt(t float64) string {
	ph, _ := s.phaseAt(t)
	return ph.Name
}

func (s *Schedule) Target(t float64) flight.Target {
	var tg flight.Target
	ph, ok := s.phaseAt(t)
	if !ok {
		return tg
	}
	local := t - ph.Start
	for field, sig := range ph.signals {
		Fields[field](&tg, sig.At(local))
	}
	return tg
}
