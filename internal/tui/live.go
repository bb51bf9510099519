package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/charvak/internal/metrics"
	"github.com/san-kum/charvak/internal/particles"
	"github.com/san-kum/charvak/internal/scene"
)

const (
	canvasWidth     = 40
	canvasHeight    = 20
	historyCapacity = 300
	maxStepsPerTick = 64
	tickRate        = time.Second / 30
)

// TickMsg drives the simulation clock.
type TickMsg time.Time

// Model runs a host scene in the terminal. Each tick advances the scene
// stepsPerTick times and redraws the particle cloud from its positions.
type Model struct {
	scene        *scene.Scene
	set          *particles.Set
	seed         int64
	dt           float32
	title        string
	stepsPerTick int
	running      bool
	canvas       *Canvas
	distance     *metrics.MeanDistance
	kinetic      *metrics.KineticEnergy
	escaped      *metrics.Escaped
	history      []float64
	err          error
}

// NewModel wraps a synced host scene. set must be the state the scene
// steps, so reset can re-seed it in place.
func NewModel(sc *scene.Scene, set *particles.Set, seed int64, dt float32, title string) Model {
	m := Model{
		scene:        sc,
		set:          set,
		seed:         seed,
		dt:           dt,
		title:        title,
		stepsPerTick: 1,
		running:      true,
		canvas:       NewCanvas(canvasWidth, canvasHeight),
		distance:     metrics.NewMeanDistance(set.Field().Center),
		kinetic:      metrics.NewKineticEnergy(),
		escaped:      metrics.NewEscaped(),
		history:      make([]float64, 0, historyCapacity),
	}
	m.observe()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.stepsPerTick = min(m.stepsPerTick*2, maxStepsPerTick)
		case "-", "_":
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
		case "n":
			if !m.running {
				m.advance(1)
			}
		}
	case TickMsg:
		if m.running {
			m.advance(m.stepsPerTick)
		}
		if m.err != nil {
			return m, tea.Quit
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance(steps int) {
	for i := 0; i < steps; i++ {
		if err := m.scene.Update(m.dt); err != nil {
			m.err = err
			m.running = false
			return
		}
	}
	m.observe()
}

func (m *Model) observe() {
	backend := m.scene.Backend()
	pos, vel := backend.Positions(), backend.Velocities()
	t := m.scene.Time()
	m.distance.Observe(pos, vel, t)
	m.kinetic.Observe(pos, vel, t)
	m.escaped.Observe(pos, vel, t)

	m.history = append(m.history, m.distance.Value())
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}

	m.canvas.Clear()
	m.canvas.Plot(pos)
}

func (m *Model) reset() {
	scene.Reseed(m.set, m.seed)
	if err := m.scene.Reset(m.set); err != nil {
		m.err = err
		return
	}
	m.history = m.history[:0]
	m.observe()
}

// Err reports the error that stopped the simulation, if any.
func (m Model) Err() error { return m.err }

func (m Model) Frame() int { return m.scene.Frame() }

func (m Model) Running() bool { return m.running }

func (m Model) StepsPerTick() int { return m.stepsPerTick }

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("Mean distance"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Particles", fmt.Sprintf("%d", m.set.Len()))
	row("Backend", m.scene.Backend().Name())
	row("Scheme", m.set.Scheme().Name())
	row("Frame", fmt.Sprintf("%d", m.scene.Frame()))
	row("Time", fmt.Sprintf("%.2fs", m.scene.Time()))
	row("Speed", fmt.Sprintf("%dx", m.stepsPerTick))
	row("Mean dist", fmt.Sprintf("%.4f", m.distance.Value()))
	row("Kinetic", fmt.Sprintf("%.5f", m.kinetic.Value()))
	row("Escaped", fmt.Sprintf("%.1f%%", 100*m.escaped.Value()))

	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset N:Step\n+/-:Speed Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(s.String()),
	)
}
