package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/experiment"
)

var engineInfo = map[string]string{
	"projectile": "launch, drag and crosswind",
	"ball":       "restitution and friction",
	"pendulum":   "nonlinear damped swing",
}

const (
	stateMenu = iota
	statePresets
	stateSim
)

var (
	menuTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuItem     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// App is the engine picker in front of the live view.
type App struct {
	reg      *experiment.Registry
	base     *config.Config
	state    int
	cursor   int
	engines  []string
	selected string
	presets  []string
	err      error
	live     Model
	width    int
	height   int
}

// NewApp lists the registered engines. base supplies display settings and
// the engine parameters used when no preset is picked.
func NewApp(reg *experiment.Registry, base *config.Config) *App {
	return &App{
		reg:     reg,
		base:    base,
		state:   stateMenu,
		engines: reg.ListEngines(),
	}
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		if a.state == stateSim {
			return a.forward(msg)
		}
	case tea.KeyMsg:
		switch a.state {
		case stateMenu:
			return a.menuKey(msg)
		case statePresets:
			return a.presetKey(msg)
		case stateSim:
			if msg.String() == "esc" {
				a.state = stateMenu
				return a, nil
			}
			return a.forward(msg)
		}
	default:
		if a.state == stateSim {
			return a.forward(msg)
		}
	}
	return a, nil
}

func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := a.live.Update(msg)
	a.live = next.(Model)
	return a, cmd
}

func (a *App) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.engines)-1 {
			a.cursor++
		}
	case "enter", " ":
		if len(a.engines) == 0 {
			return a, nil
		}
		a.selected = a.engines[a.cursor]
		// the first entry keeps the base config
		a.presets = append([]string{"(config)"}, config.ListPresets(a.selected)...)
		a.state, a.cursor = statePresets, 0
	}
	return a, nil
}

func (a *App) presetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc":
		a.state, a.cursor = stateMenu, 0
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.presets)-1 {
			a.cursor++
		}
	case "enter", " ":
		return a, a.start()
	}
	return a, nil
}

// start builds the engine for the highlighted preset and hands over to the live view.
func (a *App) start() tea.Cmd {
	cfg := a.base.Clone()
	if a.cursor > 0 {
		if p := config.GetPreset(a.selected, a.presets[a.cursor]); p != nil {
			p.Display = a.base.Display
			cfg = p
		}
	}
	cfg.Engine = a.selected

	engine, _, err := a.reg.GetEngine(a.selected, cfg)
	if err != nil {
		a.err = err
		return nil
	}
	a.err = nil
	a.live = NewModel(engine, OptionsFromConfig(cfg))
	if a.width > 0 {
		a.live.resize(a.width, a.height)
	}
	a.state = stateSim
	return a.live.Init()
}

func (a *App) View() string {
	switch a.state {
	case statePresets:
		return a.viewList(strings.ToUpper(a.selected), engineInfo[a.selected], a.presets, "select preset")
	case stateSim:
		return a.live.View()
	default:
		return a.viewList("PHYSLAB", "2d physics lab", a.engines, "select")
	}
}

func (a *App) viewList(title, sub string, items []string, action string) string {
	var b strings.Builder
	b.WriteString("\n\n    " + GradientText(title, "#00cccc", "#ff88ff") + "\n")
	b.WriteString("    " + menuSub.Render(sub) + "\n")
	b.WriteString("    " + menuSub.Render("─────────────────────────") + "\n\n")

	for i, name := range items {
		desc := ""
		if a.state == stateMenu {
			desc = engineInfo[name]
		}
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n",
				menuCursor.Render("▸"),
				menuSelected.Render(fmt.Sprintf("%-14s", name)),
				menuDesc.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n",
				menuItem.Render(fmt.Sprintf("  %-14s", name)),
				menuItem.Render(desc)))
		}
	}

	if a.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Render(a.err.Error()) + "\n")
	}

	b.WriteString("\n    " +
		menuKey.Render("j/k") + menuItem.Render(" navigate  ") +
		menuKey.Render("enter") + menuItem.Render(" "+action+"  ") +
		menuKey.Render("esc") + menuItem.Render(" back  ") +
		menuKey.Render("q") + menuItem.Render(" quit") + "\n")
	return b.String()
}

// RunInteractive opens the engine picker full screen.
func RunInteractive(reg *experiment.Registry, base *config.Config) error {
	_, err := tea.NewProgram(NewApp(reg, base), tea.WithAltScreen()).Run()
	return err
}
