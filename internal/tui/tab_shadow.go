package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/fluentdeco/internal/config"
	"github.com/1broseidon/fluentdeco/internal/geom"
	"github.com/1broseidon/fluentdeco/internal/shadow"
)

// The editor shows shadow strength as a percentage; the file stores 0-255.

func strengthToPercent(v int) int {
	v = min(max(v, 0), 255)
	return int(math.Round(float64(v) * 100 / 255))
}

func percentToStrength(p int) int {
	p = min(max(p, 0), 100)
	return int(math.Round(float64(p) * 255 / 100))
}

// ShadowTab is the sub-model for the Shadow tab.
type ShadowTab struct {
	cfg *config.Config

	width  int
	height int

	editing bool
	form    *huh.Form

	fSize     string
	fStrength string
	fColor    string

	extent *extentCache
}

// extentCache remembers the padding of the last built texture.
type extentCache struct {
	valid   bool
	key     shadow.Key
	padding geom.Margins
	ok      bool
	err     error
}

// NewShadowTab creates a ShadowTab from the loaded config.
func NewShadowTab(cfg *config.Config) ShadowTab {
	return ShadowTab{cfg: cfg, extent: &extentCache{}}
}

// Update implements tea.Model.
func (s ShadowTab) Update(msg tea.Msg) (ShadowTab, tea.Cmd) {
	if s.editing {
		return s.updateEditing(msg)
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" && s.cfg != nil {
			s.startEditing()
			return s, s.form.Init()
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}
	return s, nil
}

func (s ShadowTab) updateEditing(msg tea.Msg) (ShadowTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			s.editing = false
			s.form = nil
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}
	if s.form.State == huh.StateCompleted {
		s.applyForm()
		s.editing = false
		s.form = nil
		return s, nil
	}
	return s, cmd
}

func (s *ShadowTab) loadForm() {
	s.fSize = s.cfg.ShadowSize
	s.fStrength = strconv.Itoa(strengthToPercent(s.cfg.ShadowStrength))
	s.fColor = s.cfg.ShadowColor.String()
}

func (s *ShadowTab) startEditing() {
	s.loadForm()

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("shadow_size").
				Title("Shadow Size").
				Options(huh.NewOptions(shadow.SizeNames()...)...).
				Value(&s.fSize),

			huh.NewInput().
				Key("shadow_strength").
				Title("Shadow Strength").
				Description("Percent, 0-100").
				Validate(intInRange(0, 100)).
				Value(&s.fStrength),

			huh.NewInput().
				Key("shadow_color").
				Title("Shadow Color").
				Description("#rrggbb").
				Validate(func(v string) error {
					_, err := config.ParseColor(strings.TrimSpace(v))
					return err
				}).
				Value(&s.fColor),
		),
	).WithWidth(max(s.width-4, 40)).WithShowHelp(true).WithShowErrors(true)

	s.editing = true
}

func (s *ShadowTab) applyForm() {
	if s.cfg == nil {
		return
	}
	if s.fSize != "" {
		s.cfg.ShadowSize = s.fSize
	}
	if v, err := strconv.Atoi(strings.TrimSpace(s.fStrength)); err == nil {
		s.cfg.ShadowStrength = percentToStrength(v)
	}
	if c, err := config.ParseColor(strings.TrimSpace(s.fColor)); err == nil {
		c.A = 255
		s.cfg.ShadowColor = c
	}
}

// texturePadding builds the configured shadow once per key and reports how
// far it reaches past the window.
func (s ShadowTab) texturePadding() (geom.Margins, bool, error) {
	key := s.cfg.ShadowKey()
	c := s.extent
	if c.valid && c.key == key {
		return c.padding, c.ok, c.err
	}
	tex, err := shadow.Build(key)
	*c = extentCache{valid: true, key: key, err: err, ok: tex != nil}
	if tex != nil {
		c.padding = tex.Padding
	}
	return c.padding, c.ok, c.err
}

// View implements tea.Model.
func (s ShadowTab) View() string {
	if s.editing && s.form != nil {
		content := editingHeader("Editing Shadow") + "\n\n" + s.form.View()
		return lipgloss.NewStyle().
			Width(s.width).
			Height(s.height).
			Padding(1, 2).
			Render(content)
	}
	if s.cfg == nil {
		return emptyPane("No config loaded", s.width, s.height)
	}

	extent := "none"
	pad, ok, err := s.texturePadding()
	switch {
	case err != nil:
		extent = "error: " + err.Error()
	case ok:
		extent = fmt.Sprintf("left:%d top:%d right:%d bottom:%d", pad.Left, pad.Top, pad.Right, pad.Bottom)
	}

	swatch := lipgloss.NewStyle().
		Background(lipgloss.Color(s.cfg.ShadowColor.String())).
		Render("   ")

	lines := []string{
		"",
		settingsRow("Size", s.cfg.ShadowSize),
		settingsRow("Strength", fmt.Sprintf("%d%%", strengthToPercent(s.cfg.ShadowStrength))),
		settingsRow("Color", swatch+" "+s.cfg.ShadowColor.String()),
		"",
		settingsRow("Extent", extent),
		"",
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("  Press 'e' to edit the shadow"),
	}

	return lipgloss.NewStyle().
		Width(s.width).
		Height(s.height).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}
