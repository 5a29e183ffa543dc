package viz

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/experiment"
	"github.com/san-kum/physlab/internal/physics"
	"github.com/san-kum/physlab/internal/sim"
)

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

// frames feeds n ticks spaced by d after start.
func frames(m Model, start time.Time, n int, d time.Duration) Model {
	for i := 0; i <= n; i++ {
		m = send(m, tickMsg(start.Add(time.Duration(i)*d)))
	}
	return m
}

func TestModelAdvancesOnTicks(t *testing.T) {
	p := physics.NewPendulum(physics.DefaultPendulumConfig())
	m := NewModel(p, Options{})

	if m.runner.State() != sim.Running {
		t.Fatalf("expected running, got %v", m.runner.State())
	}

	m = frames(m, time.Unix(0, 0), 1, 110*time.Millisecond)
	if got := p.State().Time; got < 0.09 || got > 0.11 {
		t.Errorf("expected ~0.1 s of simulated time, got %v", got)
	}
	if m.trail.Len() != 6 || m.phase.Len() != 6 {
		t.Errorf("observers saw %d trail and %d phase samples, want 6", m.trail.Len(), m.phase.Len())
	}
	if m.energy.Len() != 2 {
		t.Errorf("expected 2 energy samples, got %d", m.energy.Len())
	}
}

func TestModelPauseAndStep(t *testing.T) {
	p := physics.NewPendulum(physics.DefaultPendulumConfig())
	m := NewModel(p, Options{})

	m = send(m, key(" "))
	if m.runner.State() != sim.Paused {
		t.Fatalf("expected paused, got %v", m.runner.State())
	}
	m = frames(m, time.Unix(0, 0), 5, 110*time.Millisecond)
	if p.Time() != 0 {
		t.Errorf("paused model advanced to %v", p.Time())
	}

	m = send(m, key("n"))
	if p.Time() == 0 {
		t.Error("single step did not advance")
	}
}

func TestModelProjectileFinishesAndRestarts(t *testing.T) {
	p := physics.NewProjectile(physics.DefaultProjectileConfig())
	m := NewModel(p, Options{})

	m = frames(m, time.Unix(0, 0), 100, 110*time.Millisecond)
	if m.runner.State() != sim.Finished {
		t.Fatalf("expected finished after landing, got %v", m.runner.State())
	}
	if m.events.counts[dynamo.EventImpact] != 1 {
		t.Errorf("expected one impact event, got %v", m.events.counts)
	}
	if !strings.Contains(m.View(), "Range") {
		t.Error("landed view should show the range")
	}

	m = send(m, key(" "))
	if m.runner.State() != sim.Running || p.Time() != 0 || m.trail.Len() != 0 {
		t.Errorf("restart failed: state=%v t=%v trail=%d", m.runner.State(), p.Time(), m.trail.Len())
	}
}

func TestModelTuneParameters(t *testing.T) {
	p := physics.NewPendulum(physics.DefaultPendulumConfig())
	m := NewModel(p, Options{})

	// keys are sorted, so "angle" is selected first
	m = send(m, key("up"))
	if got := p.Config().InitialAngleDeg; math.Abs(got-47.25) > 1e-9 {
		t.Errorf("angle = %v, want 47.25", got)
	}
	if math.Abs(m.params["angle"]-47.25) > 1e-9 {
		t.Errorf("panel shows %v", m.params["angle"])
	}

	m = send(m, key("tab"))
	m = send(m, key("down"))
	if got := p.Config().Damping; math.Abs(got-0.0475) > 1e-9 {
		t.Errorf("damping = %v, want 0.0475", got)
	}

	m = send(m, key("r"))
	if p.Config().InitialAngleDeg != 45 || p.Config().Damping != 0.05 {
		t.Errorf("reset did not restore params: %+v", p.Config())
	}
}

func TestModelReportsClamping(t *testing.T) {
	cfg := physics.DefaultPendulumConfig()
	cfg.InitialAngleDeg = 90
	m := NewModel(physics.NewPendulum(cfg), Options{})

	m = send(m, key("up"))
	if !strings.Contains(m.message, "clamped") {
		t.Errorf("expected clamp message, got %q", m.message)
	}
}

func TestModelThemeAndSpeed(t *testing.T) {
	m := NewModel(physics.NewBall(physics.DefaultBallConfig()), Options{Theme: "ocean"})
	if m.theme.Name != "ocean" {
		t.Fatalf("theme = %s", m.theme.Name)
	}
	m = send(m, key("t"))
	if m.theme.Name != "sunset" {
		t.Errorf("next theme = %s, want sunset", m.theme.Name)
	}
	m = send(m, key("+"))
	m = send(m, key("+"))
	if m.runner.Speed != 4 {
		t.Errorf("speed = %v, want 4", m.runner.Speed)
	}
	if m.trail.Len() != 0 {
		t.Errorf("untouched ball should have no trail")
	}
}

func TestModelView(t *testing.T) {
	m := NewModel(physics.NewPendulum(physics.DefaultPendulumConfig()), Options{ShowEnergy: true})
	m = frames(m, time.Unix(0, 0), 3, 110*time.Millisecond)

	out := m.View()
	for _, want := range []string{"Period", "PARAMETERS", "damping", "phase"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = send(m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("help overlay missing")
	}
}

func TestGetTheme(t *testing.T) {
	if GetTheme("nope").Name != "neon" {
		t.Error("unknown theme should fall back to neon")
	}
	if NextTheme("sunset").Name != "neon" {
		t.Error("themes should wrap around")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("ThemeNames length mismatch")
	}
}

func TestAppNavigation(t *testing.T) {
	app := NewApp(experiment.NewRegistry(), config.DefaultConfig())
	if len(app.engines) != 3 {
		t.Fatalf("expected 3 engines, got %v", app.engines)
	}

	step := func(msg tea.Msg) {
		next, _ := app.Update(msg)
		app = next.(*App)
	}

	step(key("down"))
	step(key("enter"))
	if app.state != statePresets || app.selected != "pendulum" {
		t.Fatalf("expected pendulum presets, got state=%d selected=%s", app.state, app.selected)
	}
	if app.presets[0] != "(config)" || len(app.presets) != 1+len(config.ListPresets("pendulum")) {
		t.Errorf("unexpected presets %v", app.presets)
	}

	step(key("down"))
	step(key("enter"))
	if app.state != stateSim || app.live.engine.Name() != "pendulum" {
		t.Fatalf("live view not started")
	}

	step(key("esc"))
	if app.state != stateMenu {
		t.Error("esc should return to the menu")
	}
	if !strings.Contains(app.View(), "projectile") {
		t.Error("menu should list engines")
	}
}

func TestSceneDraw(t *testing.T) {
	c := NewCanvas(40, 10)
	empty := c.String()

	b := physics.NewBall(physics.DefaultBallConfig())
	Scene{}.Draw(c, b)
	if c.String() == empty {
		t.Error("ball scene drew nothing")
	}

	p := physics.NewPendulum(physics.DefaultPendulumConfig())
	Scene{}.Draw(c, p)
	cw, _ := c.Dots()
	if !c.IsSet(cw/2, 4) {
		t.Error("pendulum rod should start at the pivot")
	}
}
