package storage

import (
	"errors"
	"fmt"

	"github.com/san-kum/flightctl/internal/flight"
	"github.com/san-kum/flightctl/internal/sim"
)

var ErrUnknownColumn = errors.New("storage: unknown column")

// Series is a run in tabular form: one row per sample, named columns,
// time kept separately.
type Series struct {
	Columns []string
	Times   []float64
	Rows    [][]float64
}

var targetColumns = []struct {
	name string
	get  func(flight.Target) float64
}{
	{"target_power", func(t flight.Target) float64 { return t.Throttle.Power }},
	{"target_roll", func(t flight.Target) float64 { return t.Attitude.Roll }},
	{"target_pitch", func(t flight.Target) float64 { return t.Attitude.Pitch }},
	{"target_yaw_rate", func(t flight.Target) float64 { return t.DirectionVelocity.R }},
	{"target_pos_x", func(t flight.Target) float64 { return t.Position.X }},
	{"target_pos_y", func(t flight.Target) float64 { return t.Position.Y }},
	{"target_pos_z", func(t flight.Target) float64 { return t.Position.Z }},
	{"target_speed", func(t flight.Target) float64 { return t.Speed }},
	{"target_yaw_deg", func(t flight.Target) float64 { return t.YawDeg }},
}

// CommandColumns name the controller output columns.
var CommandColumns = []string{"thrust", "torque_x", "torque_y", "torque_z"}

// NewSeries flattens a result. stateNames label the state vector; extra
// state entries get positional names.
func NewSeries(r *sim.Result, stateNames []string) *Series {
	s := &Series{Times: r.Times}
	dim := 0
	if len(r.States) > 0 {
		dim = len(r.States[0])
	}
	for i := 0; i < dim; i++ {
		if i < len(stateNames) {
			s.Columns = append(s.Columns, stateNames[i])
		} else {
			s.Columns = append(s.Columns, fmt.Sprintf("x%d", i))
		}
	}
	for _, c := range targetColumns {
		s.Columns = append(s.Columns, c.name)
	}
	s.Columns = append(s.Columns, CommandColumns...)

	s.Rows = make([][]float64, len(r.States))
	for i, x := range r.States {
		row := make([]float64, 0, len(s.Columns))
		row = append(row, x...)
		var tg flight.Target
		if i < len(r.Targets) {
			tg = r.Targets[i]
		}
		for _, c := range targetColumns {
			row = append(row, c.get(tg))
		}
		var cmd flight.Output
		if i < len(r.Commands) {
			cmd = r.Commands[i]
		}
		row = append(row, cmd.Thrust, cmd.TorqueX, cmd.TorqueY, cmd.TorqueZ)
		s.Rows[i] = row
	}
	return s
}

func (s *Series) Index(name string) int {
	for i, c := range s.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (s *Series) Column(name string) ([]float64, error) {
	j := s.Index(name)
	if j < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	col := make([]float64, len(s.Rows))
	for i, row := range s.Rows {
		if j < len(row) {
			col[i] = row[j]
		}
	}
	return col, nil
}

func (s *Series) Len() int { return len(s.Rows) }
