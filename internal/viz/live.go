package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/readout"
	"github.com/san-kum/physlab/internal/sim"
	"github.com/san-kum/physlab/internal/trail"
)

const (
	canvasWidth     = 60
	canvasHeight    = 20
	phaseWidth      = 30
	phaseHeight     = 6
	panelWidth      = 50
	historyCapacity = 600
	maxFrames       = 900
)

// Options configures a live view.
type Options struct {
	Theme       string
	FPS         int
	Step        float64
	TrailLength int
	PhaseLength int
	ShowEnergy  bool
	GIFPath     string
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Theme:       cfg.Display.Theme,
		FPS:         cfg.Display.FPS,
		Step:        cfg.Dt,
		TrailLength: cfg.Display.TrailLength,
		PhaseLength: cfg.Display.PhaseLength,
		ShowEnergy:  cfg.Display.ShowEnergy,
		GIFPath:     "physlab.gif",
	}
}

// trailLength picks the capacity for an engine's trail.
func trailLength(engine string, override int) int {
	if override > 0 {
		return override
	}
	switch engine {
	case "projectile":
		return trail.ProjectileLength
	case "ball":
		return trail.BallLength
	default:
		return trail.PendulumLength
	}
}

type tickMsg time.Time

// eventLog remembers the engine's one-shot events for the status panel.
type eventLog struct {
	last   dynamo.Event
	at     float64
	counts map[dynamo.Event]int
}

func newEventLog() *eventLog {
	return &eventLog{counts: make(map[dynamo.Event]int)}
}

func (l *eventLog) OnStep(dynamo.Sample) {}

func (l *eventLog) OnEvent(ev dynamo.Event, s dynamo.Sample) {
	l.last, l.at = ev, s.Time
	l.counts[ev]++
}

func (l *eventLog) reset() {
	l.last, l.at = 0, 0
	clear(l.counts)
}

// Model is the live view of one engine. The physics runs on fixed ticks
// from a sim.Runner; trails, phase points and events arrive through observers.
type Model struct {
	opts     Options
	runner   *sim.Runner
	engine   dynamo.Engine
	trail    *trail.Recorder
	phase    *trail.PhaseRecorder
	events   *eventLog
	throttle *readout.Throttle
	energy   *trail.Ring[float64]

	canvas      *Canvas
	phaseCanvas *Canvas
	theme       Theme
	styles      Styles

	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int

	last       time.Time
	frame      int
	showHelp   bool
	showEnergy bool
	recording  bool
	frames     []*image.Paletted
	message    string
}

// NewModel wires recorders to the engine and starts it running.
func NewModel(engine dynamo.Engine, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = config.DefaultFPS
	}
	if opts.Step <= 0 {
		opts.Step = sim.DefaultDt
	}
	theme := GetTheme(opts.Theme)

	m := Model{
		opts:        opts,
		runner:      sim.NewRunner(engine, opts.Step),
		engine:      engine,
		trail:       trail.NewRecorder(trailLength(engine.Name(), opts.TrailLength)),
		events:      newEventLog(),
		throttle:    readout.NewThrottle(readout.VelocityHysteresis),
		energy:      trail.NewRing[float64](historyCapacity),
		canvas:      NewCanvas(canvasWidth, canvasHeight),
		theme:       theme,
		styles:      NewStyles(theme),
		showEnergy:  opts.ShowEnergy,
	}
	m.params = make(map[string]float64)
	m.initialParams = make(map[string]float64)
	engine.Observe(m.trail)
	engine.Observe(m.events)

	if engine.Name() == "pendulum" {
		n := opts.PhaseLength
		if n <= 0 {
			n = trail.PhaseLength
		}
		m.phase = trail.NewPhaseRecorder(n)
		m.phaseCanvas = NewCanvas(phaseWidth, phaseHeight)
		engine.Observe(m.phase)
	}

	if t, ok := engine.(dynamo.Configurable); ok {
		for k, v := range t.GetParams() {
			m.params[k] = v
			m.initialParams[k] = v
			m.paramKeys = append(m.paramKeys, k)
		}
		sort.Strings(m.paramKeys)
	}

	m.energy.Push(engine.Derived().TotalEnergy)
	m.runner.Start()
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and advances the runner on frame ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tickMsg:
		now := time.Time(msg)
		var elapsed time.Duration
		if !m.last.IsZero() {
			elapsed = now.Sub(m.last)
		}
		m.last = now
		m.advance(elapsed)
		m.frame++
		if m.recording {
			m.capture()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.recording {
			m.stopRecording()
		}
		return m, tea.Quit
	case " ":
		if m.runner.State() == sim.Finished {
			m.restart()
		}
		m.runner.Toggle()
	case "r":
		m.reset()
	case "n":
		m.runner.Pause()
		m.runner.StepOnce()
		m.energy.Push(m.engine.Derived().TotalEnergy)
	case "tab":
		m.cycleParam()
	case "up", "k":
		m.adjustParam(1)
	case "down", "j":
		m.adjustParam(-1)
	case "+", "=":
		m.runner.Speed = math.Min(m.runner.Speed*2, 8)
	case "-", "_":
		m.runner.Speed = math.Max(m.runner.Speed/2, 0.125)
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.styles = NewStyles(m.theme)
	case "e":
		m.showEnergy = !m.showEnergy
	case "g":
		if m.recording {
			m.stopRecording()
		} else {
			m.recording = true
			m.frames = m.frames[:0]
			m.message = "recording"
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// advance feeds wall time to the runner and samples the total energy.
func (m *Model) advance(elapsed time.Duration) int {
	n := m.runner.Tick(elapsed)
	if n > 0 {
		m.energy.Push(m.engine.Derived().TotalEnergy)
	}
	return n
}

func (m *Model) resize(w, h int) {
	cw := w - panelWidth - 4
	ch := h - 4
	if m.phaseCanvas != nil {
		ch -= phaseHeight + 1
	}
	if cw < 20 {
		cw = 20
	}
	if ch < 8 {
		ch = 8
	}
	m.canvas = NewCanvas(cw, ch)
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

// adjustParam nudges the selected parameter by 5% in direction dir. The
// engine clamps and resets, so the view restarts with it.
func (m *Model) adjustParam(dir float64) {
	t, ok := m.engine.(dynamo.Configurable)
	if !ok || len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.params[key]

	var next float64
	switch {
	case key == "advanced":
		next = 1 - val
	case math.Abs(val) < 1e-9:
		next = 0.1 * dir
	default:
		next = val + 0.05*math.Abs(val)*dir
	}

	if err := t.SetParam(key, next); err != nil {
		m.message = err.Error()
		return
	}
	for k, v := range t.GetParams() {
		m.params[k] = v
	}
	m.message = ""
	if got := m.params[key]; math.Abs(got-next) > 1e-9 && key != "advanced" {
		m.message = dynamo.Adjustment{Param: key, Requested: next, Applied: got}.String()
	}
	m.restart()
}

// restart clears the display buffers and restarts the runner, keeping it
// running if it was.
func (m *Model) restart() {
	running := m.runner.State() == sim.Running
	m.runner.Reset()
	m.trail.Clear()
	if m.phase != nil {
		m.phase.Clear()
	}
	m.events.reset()
	m.throttle.Reset()
	m.energy.Clear()
	m.energy.Push(m.engine.Derived().TotalEnergy)
	if running {
		m.runner.Start()
	}
}

// reset restores the initial parameters and state.
func (m *Model) reset() {
	if t, ok := m.engine.(dynamo.Configurable); ok {
		for _, k := range m.paramKeys {
			_ = t.SetParam(k, m.initialParams[k])
			m.params[k] = m.initialParams[k]
		}
	}
	m.message = ""
	m.restart()
}

func (m *Model) capture() {
	if len(m.frames) >= maxFrames {
		m.stopRecording()
		return
	}
	m.frames = append(m.frames, m.canvas.Image(8, 16, color.White))
}

func (m *Model) stopRecording() {
	m.recording = false
	if err := saveGIF(m.opts.GIFPath, m.frames, m.opts.FPS); err != nil {
		m.message = err.Error()
	} else if len(m.frames) > 0 {
		m.message = fmt.Sprintf("saved %d frames to %s", len(m.frames), m.opts.GIFPath)
	}
	m.frames = nil
}

func saveGIF(path string, frames []*image.Paletted, fps int) error {
	if len(frames) == 0 {
		return nil
	}
	delay := 100 / fps
	if delay < 2 {
		delay = 2
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create gif: %w", err)
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

func (m Model) status() string {
	switch m.runner.State() {
	case sim.Running:
		return m.styles.Running.Render(fmt.Sprintf("%s RUNNING x%g", Spinner(m.frame), m.runner.Speed))
	case sim.Paused:
		return m.styles.Paused.Render("PAUSED")
	case sim.Finished:
		return m.styles.Done.Render("FINISHED")
	default:
		return m.styles.Paused.Render("IDLE")
	}
}

// View renders the canvas next to the readout panel.
func (m Model) View() string {
	scene := Scene{Trail: m.trail, Phase: m.phase}
	scene.Draw(m.canvas, m.engine)

	left := m.canvas.String()
	if m.phaseCanvas != nil {
		scene.DrawPhase(m.phaseCanvas)
		left += "\n" + m.styles.Label.Render("phase (θ, ω)") + "\n" + m.phaseCanvas.String()
	}
	canvasView := m.styles.Canvas.Render(left)

	var s strings.Builder
	s.WriteString(m.styles.Header.Render(GradientText(strings.ToUpper(m.engine.Name()), m.theme.Primary, m.theme.Secondary)) + "\n")
	s.WriteString(m.status() + "\n\n")

	for _, line := range readout.For(m.engine, m.throttle) {
		s.WriteString(m.styles.Label.Render(fmt.Sprintf("%-12s", line.Label)) + " " + m.styles.Value.Render(line.Value) + "\n")
	}

	if m.events.last != 0 {
		s.WriteString("\n" + m.styles.Event.Render(fmt.Sprintf("%s at %.2f s", m.events.last, m.events.at)))
		if n := m.events.counts[dynamo.EventBounce]; n > 0 {
			s.WriteString(m.styles.Label.Render(fmt.Sprintf("  (%d bounces)", n)))
		}
		s.WriteString("\n")
	}

	if m.showEnergy && m.energy.Len() > 1 {
		chart := asciigraph.Plot(m.energy.Items(),
			asciigraph.Height(4),
			asciigraph.Width(30),
			asciigraph.Caption("Total energy (J)"))
		s.WriteString(m.styles.Graph.Render(chart) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	if len(m.paramKeys) == 0 {
		s.WriteString(m.styles.Label.Render("  (none)") + "\n")
	}
	for i, k := range m.paramKeys {
		val, initial := m.params[k], m.initialParams[k]
		ratio := 0.5
		if initial != 0 {
			ratio = val / (2 * initial)
		}
		line := fmt.Sprintf("%-14s %s %8.3f", k, m.styles.ProgressBar(ratio, 10), val)
		if i == m.selected {
			s.WriteString(m.styles.Active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + m.styles.Label.Render(line) + "\n")
		}
	}

	if m.message != "" {
		s.WriteString("\n" + m.styles.Paused.Render(m.message) + "\n")
	}
	if m.recording {
		s.WriteString(m.styles.BarLow.Render(fmt.Sprintf("● REC %d", len(m.frames))) + "\n")
	}

	s.WriteString(m.styles.Help.Render("SP:Start/Pause R:Reset N:Step Q:Quit\nTab:Param ↑↓:Tune +-:Speed T:Theme ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.Panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Start/Pause simulation   ║
║  R        - Reset state and params   ║
║  N        - Single step (pauses)     ║
║  Q        - Quit                     ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  + / -    - Simulation speed         ║
║  E        - Toggle energy plot       ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run starts a full-screen live view.
func Run(engine dynamo.Engine, opts Options) error {
	_, err := tea.NewProgram(NewModel(engine, opts), tea.WithAltScreen()).Run()
	return err
}
