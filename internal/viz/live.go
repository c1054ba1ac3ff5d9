package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	maxTrailBodies  = 16
	trailLength     = 200
	frameInterval   = time.Second / 30
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model steps a simulation on every frame and draws the x/y projection with
// trails for the first bodies and a drift graph.
type Model struct {
	name       string
	forces     dynamo.ForceEngine
	integrator dynamo.Integrator

	initial dynamo.Bodies
	bodies  dynamo.Bodies
	acc     dynamo.Forces
	dt      float64
	t       float64
	step    int
	// stepsPerFrame is the number of integration steps per tick.
	stepsPerFrame int

	canvas   *Canvas
	camera   *Camera
	viewport Viewport
	trails   [][]dynamo.Vec3

	energy0      dynamo.EnergySample
	energy       dynamo.EnergySample
	driftHistory []float64
	running      bool
	showHelp     bool
	theme        int
	err          error
}

func NewModel(name string, forces dynamo.ForceEngine, integ dynamo.Integrator, bodies dynamo.Bodies, dt float64) Model {
	m := Model{
		name:          name,
		forces:        forces,
		integrator:    integ,
		initial:       bodies.Clone(),
		dt:            dt,
		stepsPerFrame: 1,
		canvas:        NewCanvas(width, height),
		camera:        NewCamera(),
		running:       true,
	}
	m.reset()
	return m
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
		case ">", ".":
			m.stepsPerFrame = min(m.stepsPerFrame*2, 1024)
		case "<", ",":
			m.stepsPerFrame = max(m.stepsPerFrame/2, 1)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

// advance runs stepsPerFrame steps, then samples energy and trails.
func (m *Model) advance() {
	for k := 0; k < m.stepsPerFrame; k++ {
		if err := sim.Advance(context.Background(), m.forces, m.integrator, m.bodies, m.acc, m.dt); err != nil {
			m.err = err
			m.running = false
			return
		}
		m.step++
		m.t = float64(m.step) * m.dt
	}

	if h, ok := m.forces.(dynamo.Hamiltonian); ok {
		m.energy = h.Energy(m.bodies)
		m.driftHistory = append(m.driftHistory, metrics.DriftPercent(m.energy0, m.energy))
		if len(m.driftHistory) > historyCapacity {
			m.driftHistory = m.driftHistory[1:]
		}
	}

	for i := range m.trails {
		m.trails[i] = append(m.trails[i], m.bodies[i].Pos())
		if len(m.trails[i]) > trailLength {
			m.trails[i] = m.trails[i][1:]
		}
	}
}

func (m *Model) reset() {
	m.bodies = m.initial.Clone()
	m.acc = make(dynamo.Forces, len(m.bodies))
	m.t, m.step = 0, 0
	m.err = nil
	m.camera.Reset()
	m.driftHistory = make([]float64, 0, historyCapacity)

	points := make([]dynamo.Vec3, len(m.bodies))
	for i, b := range m.bodies {
		points[i] = b.Pos()
	}
	m.viewport = FitViewport(points)

	m.trails = make([][]dynamo.Vec3, min(len(m.bodies), maxTrailBodies))
	for i := range m.trails {
		m.trails[i] = make([]dynamo.Vec3, 0, trailLength)
	}

	if h, ok := m.forces.(dynamo.Hamiltonian); ok {
		m.energy0 = h.Energy(m.bodies)
		m.energy = m.energy0
	}
}

// Step returns the number of completed steps.
func (m Model) Step() int { return m.step }

func (m Model) Running() bool { return m.running }

func (m Model) Bodies() dynamo.Bodies { return m.bodies }

func (m *Model) project(p dynamo.Vec3) (int, int) {
	return m.viewport.Project(m.camera.Transform(p, m.viewport), m.canvas)
}

func (m *Model) draw() {
	m.canvas.Clear()
	for _, trail := range m.trails {
		for _, p := range trail {
			x, y := m.project(p)
			m.canvas.Set(x, y)
		}
	}
	for i, b := range m.bodies {
		x, y := m.project(b.Pos())
		if i < len(m.trails) {
			m.canvas.Blob(x, y, 1)
		} else {
			m.canvas.Set(x, y)
		}
	}
}

func (m Model) View() string {
	st := Themes[m.theme].styles()
	m.draw()
	canvasView := st.canvas.Render(m.canvas.String())

	status := "RUNNING"
	switch {
	case m.err != nil:
		status = "ERROR: " + m.err.Error()
	case !m.running:
		status = "PAUSED"
	}

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(st.status.Render(status) + "\n\n")

	if len(m.driftHistory) > 1 {
		chart := asciigraph.Plot(m.driftHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy drift %"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2f days", m.t/86400))
	row("Step", fmt.Sprintf("%d (x%d/frame)", m.step, m.stepsPerFrame))
	row("Bodies", fmt.Sprintf("%d", len(m.bodies)))
	row("Energy", fmt.Sprintf("%.6e J", m.energy.Total))
	row("Drift", fmt.Sprintf("%.4f%%", metrics.DriftPercent(m.energy0, m.energy)))
	row("Integrator", m.integrator.Name())
	row("Theme", Themes[m.theme].Name)

	s.WriteString(st.help.Render("SP:Pause R:Reset Q:Quit\n<>:Speed +-:Zoom T:Theme ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))

	if m.showHelp {
		help := strings.Join([]string{
			"Space    pause / resume",
			"R        reset to initial bodies",
			"< >      halve / double steps per frame",
			"x X y Y  rotate view",
			"+ -      zoom",
			"T        cycle themes",
			"Q        quit",
		}, "\n")
		return st.stats.Render(help) + "\n\n" + mainView
	}
	return mainView
}

// Run starts the live viewer and blocks until it exits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
