package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/fluentdeco/internal/config"
	"github.com/1broseidon/fluentdeco/internal/deco"
)

// GeneralTab is the sub-model for the General settings tab.
type GeneralTab struct {
	cfg *config.Config

	// Display dimensions
	width  int
	height int

	// Edit mode
	editing bool
	form    *huh.Form

	// Form-bound values (strings for huh, converted on submit)
	fTitleAlignment     string
	fAnimationsEnabled  bool
	fAnimationsDuration string
	fBackgroundOpacity  string
	fPaletteBase        string
	fLogLevel           string
}

// NewGeneralTab creates a GeneralTab from the loaded config.
func NewGeneralTab(cfg *config.Config) GeneralTab {
	return GeneralTab{cfg: cfg}
}

// Update implements tea.Model.
func (g GeneralTab) Update(msg tea.Msg) (GeneralTab, tea.Cmd) {
	if g.editing {
		return g.updateEditing(msg)
	}
	return g.updateDisplay(msg)
}

func (g GeneralTab) updateDisplay(msg tea.Msg) (GeneralTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" && g.cfg != nil {
			g.startEditing()
			return g, g.form.Init()
		}
	case tea.WindowSizeMsg:
		g.width = msg.Width
		g.height = msg.Height
	}
	return g, nil
}

func (g GeneralTab) updateEditing(msg tea.Msg) (GeneralTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			g.editing = false
			g.form = nil
			return g, nil
		}
	case tea.WindowSizeMsg:
		g.width = msg.Width
		g.height = msg.Height
	}

	form, cmd := g.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		g.form = f
	}

	if g.form.State == huh.StateCompleted {
		g.applyForm()
		g.editing = false
		g.form = nil
		return g, nil
	}

	return g, cmd
}

func (g *GeneralTab) loadForm() {
	cfg := g.cfg
	g.fTitleAlignment = cfg.TitleAlignment
	g.fAnimationsEnabled = cfg.AnimationsEnabled
	g.fAnimationsDuration = strconv.Itoa(cfg.AnimationsDuration)
	g.fBackgroundOpacity = strconv.Itoa(cfg.BackgroundOpacity)
	g.fPaletteBase = cfg.Palette.Base
	g.fLogLevel = cfg.LogLevel
}

func (g *GeneralTab) startEditing() {
	g.loadForm()

	w := max(g.width-4, 40)

	g.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("title_alignment").
				Title("Title Alignment").
				Description("Where the caption sits in the title bar").
				Options(huh.NewOptions(deco.AlignmentNames()...)...).
				Value(&g.fTitleAlignment),

			huh.NewSelect[string]().
				Key("palette").
				Title("Palette").
				Description("Builtin title bar colors").
				Options(huh.NewOptions(config.BuiltinPaletteNames()...)...).
				Value(&g.fPaletteBase),

			huh.NewInput().
				Key("background_opacity").
				Title("Title Bar Opacity").
				Description("Percent, 0-100").
				Validate(intInRange(0, 100)).
				Value(&g.fBackgroundOpacity),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Key("animations_enabled").
				Title("Animations").
				Description("Crossfade the title bar on focus changes").
				Value(&g.fAnimationsEnabled),

			huh.NewInput().
				Key("animations_duration").
				Title("Animation Duration").
				Description("Milliseconds").
				Validate(intInRange(0, 10000)).
				Value(&g.fAnimationsDuration),

			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(huh.NewOptions("debug", "info", "warning", "error")...).
				Value(&g.fLogLevel),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	g.editing = true
}

func (g *GeneralTab) applyForm() {
	if g.cfg == nil {
		return
	}

	if g.fTitleAlignment != "" {
		g.cfg.TitleAlignment = g.fTitleAlignment
	}
	g.cfg.AnimationsEnabled = g.fAnimationsEnabled
	if v, err := strconv.Atoi(strings.TrimSpace(g.fAnimationsDuration)); err == nil && v >= 0 {
		g.cfg.AnimationsDuration = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(g.fBackgroundOpacity)); err == nil {
		g.cfg.BackgroundOpacity = min(max(v, 0), 100)
	}
	if g.fPaletteBase != "" && g.fPaletteBase != g.cfg.Palette.Base {
		g.cfg.Palette = rebasePalette(g.cfg.Palette, g.fPaletteBase)
	}
	if g.fLogLevel != "" {
		g.cfg.LogLevel = g.fLogLevel
	}
}

// rebasePalette switches p to another builtin base. Colors the user changed
// from the old base are kept.
func rebasePalette(p config.Palette, base string) config.Palette {
	builtins := config.BuiltinPalettes()
	next, ok := builtins[base]
	if !ok {
		return p
	}
	prev, ok := builtins[p.Base]
	if !ok {
		return next
	}
	pick := func(cur, old, replacement config.Color) config.Color {
		if cur == old {
			return replacement
		}
		return cur
	}
	out := config.Palette{Base: base}
	out.Active.TitleBar = pick(p.Active.TitleBar, prev.Active.TitleBar, next.Active.TitleBar)
	out.Active.Foreground = pick(p.Active.Foreground, prev.Active.Foreground, next.Active.Foreground)
	out.Inactive.TitleBar = pick(p.Inactive.TitleBar, prev.Inactive.TitleBar, next.Inactive.TitleBar)
	out.Inactive.Foreground = pick(p.Inactive.Foreground, prev.Inactive.Foreground, next.Inactive.Foreground)
	return out
}

func intInRange(lo, hi int) func(string) error {
	return func(s string) error {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("enter a whole number")
		}
		if v < lo || v > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

// View implements tea.Model.
func (g GeneralTab) View() string {
	if g.editing && g.form != nil {
		return g.viewEditing()
	}
	return g.viewDisplay()
}

func (g GeneralTab) viewDisplay() string {
	cfg := g.cfg
	if cfg == nil {
		return emptyPane("No config loaded", g.width, g.height)
	}

	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	swatch := func(c config.Color) string {
		return lipgloss.NewStyle().
			Background(lipgloss.Color(c.String())).
			Render("   ") + " " + c.String()
	}

	lines := []string{
		"",
		settingsRow("Title Alignment", cfg.TitleAlignment),
		settingsRow("Title Bar Opacity", fmt.Sprintf("%d%%", cfg.BackgroundOpacity)),
		"",
		settingsRow("Animations", onOff(cfg.AnimationsEnabled)),
		settingsRow("Animation Duration", fmt.Sprintf("%d ms", cfg.AnimationsDuration)),
		"",
		settingsRow("Palette", cfg.Palette.Base),
		settingsRow("Active Title Bar", swatch(cfg.Palette.Active.TitleBar)),
		settingsRow("Active Text", swatch(cfg.Palette.Active.Foreground)),
		settingsRow("Inactive Title Bar", swatch(cfg.Palette.Inactive.TitleBar)),
		settingsRow("Inactive Text", swatch(cfg.Palette.Inactive.Foreground)),
		"",
		settingsRow("Log Level", cfg.LogLevel),
		"",
		dimStyle.Render("  Press 'e' to edit settings"),
	}

	contentStyle := lipgloss.NewStyle().
		Width(g.width).
		Height(g.height).
		Padding(1, 2)

	return contentStyle.Render(strings.Join(lines, "\n"))
}

func (g GeneralTab) viewEditing() string {
	content := editingHeader("Editing General Settings") + "\n\n" + g.form.View()

	style := lipgloss.NewStyle().
		Width(g.width).
		Height(g.height).
		Padding(1, 2)

	return style.Render(content)
}
