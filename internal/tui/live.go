// Package tui runs a closed-loop flight simulation interactively in the
// terminal.
package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/flightctl/internal/control"
	"github.com/san-kum/flightctl/internal/flight"
	"github.com/san-kum/flightctl/internal/plant"
	"github.com/san-kum/flightctl/internal/sim"
)

const (
	historyCapacity = 240
	frameRate       = 30
	graphWidth      = 60
	graphHeight     = 8
	trackCols       = 30
	trackRows       = 8
	minTrackSpan    = 2.0
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type resetter interface{ Reset() }

// Model advances the simulation by one frame of simulated time per tick.
type Model struct {
	plant      *plant.Multirotor
	integrator sim.Integrator
	controller flight.Strategy
	targets    sim.TargetSource
	altitudeOf func(flight.Target) float64

	state, initialState sim.State
	target              flight.Target
	cmd                 flight.Output
	t, dt               float64
	speed               int
	running             bool
	err                 error

	altHistory    []float64
	targetHistory []float64
	rollHistory   []float64
	pitchHistory  []float64
	trail         [][2]float64

	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int
}

// NewModel builds the live view. variant supplies the set-point mapping
// used to chart the target altitude.
func NewModel(p *plant.Multirotor, integ sim.Integrator, ctrl flight.Strategy, variant flight.Variant,
	targets sim.TargetSource, x0 sim.State, dt float64) Model {
	if targets == nil {
		targets = sim.Constant(flight.Target{})
	}
	params := p.GetParams()
	initial := make(map[string]float64, len(params))
	keys := make([]string, 0, len(params))
	for k, v := range params {
		keys = append(keys, k)
		initial[k] = v
	}
	sort.Strings(keys)

	return Model{
		plant:      p,
		integrator: integ,
		controller: ctrl,
		targets:    targets,
		altitudeOf: func(tg flight.Target) float64 {
			if variant.Map == nil {
				return 0
			}
			return variant.Map(tg).Altitude
		},
		state:         x0.Clone(),
		initialState:  x0.Clone(),
		dt:            dt,
		speed:         1,
		running:       true,
		params:        params,
		initialParams: initial,
		paramKeys:     keys,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			if len(m.paramKeys) > 0 {
				m.selected = (m.selected + 1) % len(m.paramKeys)
			}
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "+", "=":
			if m.speed < 16 {
				m.speed *= 2
			}
		case "-", "_":
			if m.speed > 1 {
				m.speed /= 2
			}
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance(float64(m.speed) / frameRate)
		}
		return m, tick()
	}
	return m, nil
}

// advance integrates span seconds of simulated time.
func (m *Model) advance(span float64) {
	steps := int(span/m.dt + 0.5)
	if steps < 1 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		m.step()
		if m.err != nil {
			return
		}
	}
	m.record()
}

func (m *Model) step() {
	in := m.plant.Sense(m.state)
	m.target = m.targets.Target(m.t)
	in.Target = m.target
	m.cmd = m.controller.Run(in)
	next := m.integrator.Step(m.plant, m.state, m.plant.Actuate(m.cmd), m.t, m.dt)
	if !next.IsValid() {
		m.err = fmt.Errorf("t=%.3f: %w", m.t, sim.ErrInvalidState)
		m.running = false
		return
	}
	m.state = next
	m.t += m.dt
}

func (m *Model) record() {
	push := func(h []float64, v float64) []float64 {
		h = append(h, v)
		if len(h) > historyCapacity {
			h = h[1:]
		}
		return h
	}
	m.altHistory = push(m.altHistory, -m.state[plant.Z])
	m.targetHistory = push(m.targetHistory, m.altitudeOf(m.target))
	m.rollHistory = push(m.rollHistory, control.Rad2Deg(m.state[plant.Phi]))
	m.pitchHistory = push(m.pitchHistory, control.Rad2Deg(m.state[plant.Theta]))
	m.trail = append(m.trail, [2]float64{m.state[plant.X], m.state[plant.Y]})
	if len(m.trail) > historyCapacity {
		m.trail = m.trail[1:]
	}
}

// groundTrack renders the recent X/Y trail, scaled to keep it in view.
func (m Model) groundTrack() string {
	span := minTrackSpan
	for _, p := range m.trail {
		span = math.Max(span, 1.2*math.Max(math.Abs(p[0]), math.Abs(p[1])))
	}
	tr := NewTrack(trackCols, trackRows, span)
	for _, p := range m.trail {
		tr.Plot(p[0], p[1])
	}
	tr.Heading(m.state[plant.X], m.state[plant.Y], m.state[plant.Psi])
	return fmt.Sprintf("%s\nground track ±%.1fm", tr.String(), span)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	m.params[key] *= factor
	_ = m.plant.SetParam(key, m.params[key])
}

// reset restores the initial state, plant parameters and controller.
func (m *Model) reset() {
	m.t = 0
	m.err = nil
	m.state = m.initialState.Clone()
	m.cmd = flight.Output{}
	m.altHistory = m.altHistory[:0]
	m.targetHistory = m.targetHistory[:0]
	m.rollHistory = m.rollHistory[:0]
	m.pitchHistory = m.pitchHistory[:0]
	m.trail = m.trail[:0]
	for k, v := range m.initialParams {
		m.params[k] = v
		_ = m.plant.SetParam(k, v)
	}
	if r, ok := m.controller.(resetter); ok {
		r.Reset()
	}
}

func (m Model) Time() float64 { return m.t }

func (m Model) State() sim.State { return m.state }

func (m Model) Running() bool { return m.running }

func (m Model) View() string {
	var graphs strings.Builder
	if len(m.altHistory) > 1 {
		graphs.WriteString(asciigraph.PlotMany([][]float64{m.targetHistory, m.altHistory},
			asciigraph.Height(graphHeight), asciigraph.Width(graphWidth),
			asciigraph.SeriesColors(asciigraph.DarkGray, asciigraph.Green),
			asciigraph.Caption("altitude (m) vs target")))
		graphs.WriteString("\n\n")
		graphs.WriteString(asciigraph.PlotMany([][]float64{m.rollHistory, m.pitchHistory},
			asciigraph.Height(graphHeight/2), asciigraph.Width(graphWidth),
			asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Yellow),
			asciigraph.Caption("roll / pitch (deg)")))
	} else {
		graphs.WriteString("waiting for samples...")
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.controller.Name())) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(pausedStyle.Render("DIVERGED "+m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(runningStyle.Render(fmt.Sprintf("RUNNING x%d", m.speed)) + "\n\n")
	default:
		s.WriteString(pausedStyle.Render("PAUSED") + "\n\n")
	}

	row := func(label, format string, v ...any) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(fmt.Sprintf(format, v...)) + "\n")
	}
	row("Time", "%.2fs", m.t)
	row("Position", "%.2f %.2f %.2f", m.state[plant.X], m.state[plant.Y], -m.state[plant.Z])
	row("Attitude", "%.1f %.1f %.1f", control.Rad2Deg(m.state[plant.Phi]),
		control.Rad2Deg(m.state[plant.Theta]), control.Rad2Deg(m.state[plant.Psi]))
	row("Thrust", "%.3f N", m.cmd.Thrust)
	row("Torque", "%.3f %.3f %.3f", m.cmd.TorqueX, m.cmd.TorqueY, m.cmd.TorqueZ)

	s.WriteString("\nPLANT\n")
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-9s %.4g", k, m.params[k])
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Width(0).Render(line) + "\n")
		}
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit\nTab ↑↓:Tune  +/-:Speed"))

	left := lipgloss.JoinVertical(lipgloss.Left, panelStyle.Render(graphs.String()), panelStyle.Render(m.groundTrack()))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, statsStyle.Render(s.String()))
}
