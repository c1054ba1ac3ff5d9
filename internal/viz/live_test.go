package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/scenario"
)

func newTestModel() Model {
	grav := physics.NewGravity(dynamo.DefaultParams())
	return NewModel("earth_sun", grav, integrators.NewSymplecticEuler(), scenario.EarthSun(), scenario.Day)
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelTickAdvances(t *testing.T) {
	m := newTestModel()
	initial := m.Bodies().Clone()

	m = update(m, TickMsg(time.Now()))
	m = update(m, TickMsg(time.Now()))

	if m.Step() != 2 {
		t.Errorf("expected 2 steps, got %d", m.Step())
	}
	if m.Bodies()[1] == initial[1] {
		t.Error("expected earth to move")
	}
}

func TestModelPauseAndReset(t *testing.T) {
	m := newTestModel()

	m = update(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.Running() {
		t.Fatal("expected paused model")
	}
	m = update(m, TickMsg(time.Now()))
	if m.Step() != 0 {
		t.Errorf("paused model stepped to %d", m.Step())
	}

	m = update(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = update(m, TickMsg(time.Now()))
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.Step() != 0 {
		t.Errorf("expected reset to step 0, got %d", m.Step())
	}
	if m.Bodies()[1] != scenario.EarthSun()[1] {
		t.Error("expected initial bodies after reset")
	}
}

func TestModelSpeed(t *testing.T) {
	m := newTestModel()
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'>'}})
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'>'}})
	m = update(m, TickMsg(time.Now()))

	if m.Step() != 4 {
		t.Errorf("expected 4 steps per frame, got %d", m.Step())
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel()
	for i := 0; i < 3; i++ {
		m = update(m, TickMsg(time.Now()))
	}

	view := m.View()
	if !strings.Contains(view, "EARTH_SUN") {
		t.Error("expected header in view")
	}
	if !strings.Contains(view, "symplectic") {
		t.Error("expected integrator name in view")
	}
}
