package tui

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/fluentdeco/internal/config"
)

// exceptionItem is a list item for one window rule.
type exceptionItem struct {
	index int
	ex    config.Exception
}

func (i exceptionItem) Title() string {
	mark := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("✓")
	if !i.ex.Enabled {
		mark = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("✗")
	}
	return fmt.Sprintf("%s %d. %s", mark, i.index+1, i.ex.Pattern)
}

func (i exceptionItem) Description() string {
	return string(i.ex.Type) + " | " + describeOverrides(i.ex)
}

func (i exceptionItem) FilterValue() string { return i.ex.Pattern }

func describeOverrides(ex config.Exception) string {
	var parts []string
	if ex.HideTitleBar {
		parts = append(parts, "hide title bar")
	}
	if ex.OpaqueTitleBar {
		parts = append(parts, "opaque")
	}
	if ex.OpacityOverride >= 0 {
		parts = append(parts, fmt.Sprintf("opacity %d%%", ex.OpacityOverride))
	}
	if len(parts) == 0 {
		return "no overrides"
	}
	return strings.Join(parts, ", ")
}

// ExceptionsTab is the sub-model for the Exceptions tab.
type ExceptionsTab struct {
	list   list.Model
	cfg    *config.Config
	width  int
	height int

	// Edit mode; editIndex is -1 while adding.
	editing   bool
	editIndex int
	form      *huh.Form

	fType            string
	fPattern         string
	fEnabled         bool
	fHideTitleBar    bool
	fOpaqueTitleBar  bool
	fOpacityOverride string
}

// NewExceptionsTab creates an ExceptionsTab from the loaded config.
func NewExceptionsTab(cfg *config.Config) ExceptionsTab {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(buildExceptionItems(cfg), delegate, 0, 0)
	l.Title = "Exceptions"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	return ExceptionsTab{
		list:      l,
		cfg:       cfg,
		editIndex: -1,
	}
}

// Update handles messages for the exceptions tab.
func (t ExceptionsTab) Update(msg tea.Msg) (ExceptionsTab, tea.Cmd) {
	if t.editing {
		return t.updateEditing(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		t.list.SetSize(t.listWidth(), t.height)
		return t, nil

	case tea.KeyMsg:
		if t.cfg == nil {
			return t, nil
		}
		switch msg.String() {
		case "a":
			t.startEditing(-1)
			return t, t.form.Init()
		case "e", "enter":
			if item, ok := t.list.SelectedItem().(exceptionItem); ok {
				t.startEditing(item.index)
				return t, t.form.Init()
			}
			return t, nil
		case "x", "delete":
			if item, ok := t.list.SelectedItem().(exceptionItem); ok {
				t.remove(item.index)
				t.refresh()
			}
			return t, nil
		case " ":
			if item, ok := t.list.SelectedItem().(exceptionItem); ok {
				t.cfg.Exceptions[item.index].Enabled = !t.cfg.Exceptions[item.index].Enabled
				t.refresh()
			}
			return t, nil
		case "K", "shift+up":
			if item, ok := t.list.SelectedItem().(exceptionItem); ok && t.move(item.index, -1) {
				t.refresh()
				t.list.Select(item.index - 1)
			}
			return t, nil
		case "J", "shift+down":
			if item, ok := t.list.SelectedItem().(exceptionItem); ok && t.move(item.index, 1) {
				t.refresh()
				t.list.Select(item.index + 1)
			}
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.list, cmd = t.list.Update(msg)
	return t, cmd
}

func (t ExceptionsTab) updateEditing(msg tea.Msg) (ExceptionsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			t.editing = false
			t.form = nil
			return t, nil
		}
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		t.list.SetSize(t.listWidth(), t.height)
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}
	if t.form.State == huh.StateCompleted {
		t.applyForm()
		t.editing = false
		t.form = nil
		t.refresh()
		return t, nil
	}
	return t, cmd
}

func (t *ExceptionsTab) loadForm(index int) {
	ex := config.DefaultException()
	if index >= 0 && index < len(t.cfg.Exceptions) {
		ex = t.cfg.Exceptions[index]
	} else {
		index = -1
	}
	t.editIndex = index
	t.fType = string(ex.Type)
	t.fPattern = ex.Pattern
	t.fEnabled = ex.Enabled
	t.fHideTitleBar = ex.HideTitleBar
	t.fOpaqueTitleBar = ex.OpaqueTitleBar
	t.fOpacityOverride = strconv.Itoa(ex.OpacityOverride)
}

func (t *ExceptionsTab) startEditing(index int) {
	t.loadForm(index)

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("type").
				Title("Match").
				Options(
					huh.NewOption("window class", string(config.ExceptionWindowClass)),
					huh.NewOption("window title", string(config.ExceptionWindowTitle)),
				).
				Value(&t.fType),

			huh.NewInput().
				Key("pattern").
				Title("Pattern").
				Description("Regular expression").
				Validate(validatePattern).
				Value(&t.fPattern),

			huh.NewConfirm().
				Key("enabled").
				Title("Enabled").
				Value(&t.fEnabled),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Key("hide_title_bar").
				Title("Hide Title Bar").
				Value(&t.fHideTitleBar),

			huh.NewConfirm().
				Key("opaque_title_bar").
				Title("Opaque Title Bar").
				Value(&t.fOpaqueTitleBar),

			huh.NewInput().
				Key("opacity_override").
				Title("Opacity Override").
				Description("Percent, or -1 to keep the global opacity").
				Validate(intInRange(-1, 100)).
				Value(&t.fOpacityOverride),
		),
	).WithWidth(max(t.width-4, 40)).WithShowHelp(true).WithShowErrors(true)

	t.editing = true
}

func validatePattern(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("pattern is required")
	}
	if _, err := regexp.Compile(s); err != nil {
		return fmt.Errorf("invalid regular expression: %w", err)
	}
	return nil
}

func (t *ExceptionsTab) applyForm() {
	if t.cfg == nil || validatePattern(t.fPattern) != nil {
		return
	}
	ex := config.DefaultException()
	ex.Type = config.ExceptionType(t.fType)
	ex.Pattern = t.fPattern
	ex.Enabled = t.fEnabled
	ex.HideTitleBar = t.fHideTitleBar
	ex.OpaqueTitleBar = t.fOpaqueTitleBar
	if v, err := strconv.Atoi(strings.TrimSpace(t.fOpacityOverride)); err == nil {
		ex.OpacityOverride = min(max(v, -1), 100)
	}

	if t.editIndex >= 0 && t.editIndex < len(t.cfg.Exceptions) {
		t.cfg.Exceptions[t.editIndex] = ex
		return
	}
	t.cfg.Exceptions = append(t.cfg.Exceptions, ex)
}

func (t *ExceptionsTab) remove(index int) {
	if t.cfg == nil || index < 0 || index >= len(t.cfg.Exceptions) {
		return
	}
	t.cfg.Exceptions = append(t.cfg.Exceptions[:index], t.cfg.Exceptions[index+1:]...)
}

// move swaps an exception with its neighbour. Order matters: the first
// matching exception wins.
func (t *ExceptionsTab) move(index, delta int) bool {
	if t.cfg == nil {
		return false
	}
	j := index + delta
	if index < 0 || j < 0 || index >= len(t.cfg.Exceptions) || j >= len(t.cfg.Exceptions) {
		return false
	}
	t.cfg.Exceptions[index], t.cfg.Exceptions[j] = t.cfg.Exceptions[j], t.cfg.Exceptions[index]
	return true
}

func (t *ExceptionsTab) refresh() {
	t.list.SetItems(buildExceptionItems(t.cfg))
}

func (t ExceptionsTab) listWidth() int {
	return max(t.width*2/5, 20)
}

// View implements tea.Model.
func (t ExceptionsTab) View() string {
	if t.width == 0 || t.height == 0 {
		return ""
	}
	if t.editing && t.form != nil {
		title := "Editing Exception"
		if t.editIndex < 0 {
			title = "New Exception"
		}
		return lipgloss.NewStyle().
			Width(t.width).
			Height(t.height).
			Padding(1, 2).
			Render(editingHeader(title) + "\n\n" + t.form.View())
	}

	leftWidth := t.listWidth()
	rightWidth := max(t.width-leftWidth, 10)

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(t.height).
		Render(t.list.View())

	var right string
	if item, ok := t.list.SelectedItem().(exceptionItem); ok {
		right = renderExceptionDetail(item, rightWidth, t.height)
	} else {
		right = emptyPane("No exceptions configured\n\na: add", rightWidth, t.height)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// buildExceptionItems creates list items from the configured exceptions.
func buildExceptionItems(cfg *config.Config) []list.Item {
	if cfg == nil {
		return nil
	}
	items := make([]list.Item, 0, len(cfg.Exceptions))
	for i, ex := range cfg.Exceptions {
		items = append(items, exceptionItem{index: i, ex: ex})
	}
	return items
}

// renderExceptionDetail renders the right-side detail pane for the selected exception.
func renderExceptionDetail(item exceptionItem, width, height int) string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	b.WriteString(titleStyle.Render(item.ex.Pattern))
	b.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("248")).Width(20)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

	field := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	opacity := "global"
	if item.ex.OpacityOverride >= 0 {
		opacity = fmt.Sprintf("%d%%", item.ex.OpacityOverride)
	}
	field("match:", string(item.ex.Type))
	field("enabled:", onOff(item.ex.Enabled))
	field("hide title bar:", onOff(item.ex.HideTitleBar))
	field("opaque title bar:", onOff(item.ex.OpaqueTitleBar))
	field("opacity:", opacity)

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	b.WriteString(helpStyle.Render("a: add  e: edit  x: remove  space: toggle  J/K: reorder"))

	style := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(lipgloss.Color("236"))

	return style.Render(b.String())
}
