package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/fluentdeco/internal/config"
)

type savePhase int

const (
	saveHidden savePhase = iota
	savePreview
	saveResult
)

var errNoChanges = errors.New("no changes to save")

var (
	saveTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	saveAddStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	saveRmStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	saveEditStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	saveWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	saveDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// SaveOverlay lists the pending setting changes and writes them on confirm.
type SaveOverlay struct {
	phase     savePhase
	changes   []config.Change
	warnings  []config.Warning
	flattened int // included files folded into the saved file
	err       error
	notified  bool
	scroll    int
}

// Active reports whether the overlay is visible.
func (s SaveOverlay) Active() bool {
	return s.phase != saveHidden
}

// Show opens the overlay with the changes from original to current. files
// are the files the original was loaded from.
func (s *SaveOverlay) Show(original, current *config.Config, files []string) {
	s.err = nil
	s.notified = false
	s.scroll = 0

	s.changes = config.Diff(original, current)
	if len(s.changes) == 0 {
		s.phase = saveResult
		s.err = errNoChanges
		return
	}
	s.warnings = current.Warnings()
	s.flattened = max(len(files)-1, 0)
	s.phase = savePreview
}

// SaveSucceeded reports whether the last save completed without error.
func (s SaveOverlay) SaveSucceeded() bool {
	return s.phase == saveResult && s.err == nil
}

// Update handles input while the overlay is active. A confirmed save writes
// cfg to path and returns notify as the follow-up command.
func (s SaveOverlay) Update(msg tea.Msg, cfg *config.Config, path string, notify tea.Cmd) (SaveOverlay, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	if s.phase == saveResult {
		s.phase = saveHidden
		return s, nil
	}

	var cmd tea.Cmd
	switch km.String() {
	case "esc":
		s.phase = saveHidden
	case "enter", "y":
		s.err = cfg.SaveTo(path)
		if s.err == nil && notify != nil {
			s.notified = true
			cmd = notify
		}
		s.phase = saveResult
	case "up", "k":
		s.scroll = max(s.scroll-1, 0)
	case "down", "j":
		s.scroll = min(s.scroll+1, max(len(s.lines())-1, 0))
	}
	return s, cmd
}

// View renders the overlay for the given content area dimensions.
func (s SaveOverlay) View(width, height int) string {
	switch s.phase {
	case savePreview:
		return s.viewPreview(width, height)
	case saveResult:
		return s.viewResult(width, height)
	}
	return ""
}

// lines is the scrollable body: one line per change, then the warnings.
func (s SaveOverlay) lines() []string {
	var out []string
	for _, c := range s.changes {
		switch {
		case c.Before == nil:
			out = append(out, saveAddStyle.Render("+ "+formatChange(c)))
		case c.After == nil:
			out = append(out, saveRmStyle.Render("- "+formatChange(c)))
		default:
			out = append(out, saveEditStyle.Render("~ "+formatChange(c)))
		}
	}
	if len(s.warnings) > 0 {
		out = append(out, "", saveWarnStyle.Render("Adjusted when applied:"))
		for _, w := range s.warnings {
			out = append(out, saveWarnStyle.Render("  "+w.String()))
		}
	}
	return out
}

func formatChange(c config.Change) string {
	switch {
	case c.Before == nil:
		return fmt.Sprintf("%s: %s", c.Path, formatValue(c.After))
	case c.After == nil:
		return fmt.Sprintf("%s: %s", c.Path, formatValue(c.Before))
	}
	return fmt.Sprintf("%s: %s -> %s", c.Path, formatValue(c.Before), formatValue(c.After))
}

func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(v)
}

func (s SaveOverlay) viewPreview(areaW, areaH int) string {
	body := s.lines()
	bodyH := max(areaH-10, 3)
	off := min(s.scroll, max(len(body)-bodyH, 0))
	end := min(off+bodyH, len(body))

	n := len(s.changes)
	title := fmt.Sprintf("Save %d change", n)
	if n != 1 {
		title += "s"
	}
	var b strings.Builder
	b.WriteString(saveTitleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(body[off:end], "\n"))
	if s.flattened > 0 {
		fmt.Fprintf(&b, "\n\n%s", saveDimStyle.Render(
			fmt.Sprintf("Settings from %d included file(s) are written into the main file.", s.flattened)))
	}
	b.WriteString("\n\n")
	b.WriteString(saveDimStyle.Render("enter: save  esc: cancel  j/k: scroll"))

	return overlayBox(b.String(), 80, areaW, areaH)
}

func (s SaveOverlay) viewResult(areaW, areaH int) string {
	var msg string
	switch {
	case s.err != nil:
		msg = saveRmStyle.Bold(true).Render("Error: " + s.err.Error())
	case s.notified:
		msg = saveAddStyle.Bold(true).Render("Config saved") + "\n" +
			saveAddStyle.Render("Reload sent to the decoration host")
	default:
		msg = saveAddStyle.Bold(true).Render("Config saved")
	}
	return overlayBox(msg+"\n\n"+saveDimStyle.Render("press any key to dismiss"), 60, areaW, areaH)
}

func overlayBox(content string, maxW, areaW, areaH int) string {
	boxW := min(max(areaW-8, 30), maxW)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(boxW).
		Render(content)
	return lipgloss.Place(areaW, areaH, lipgloss.Center, lipgloss.Center, box)
}

// cloneConfig copies cfg deeply enough that edits to the copy never reach
// the original.
func cloneConfig(cfg *config.Config) *config.Config {
	if cfg == nil {
		return nil
	}
	clone := *cfg
	clone.Exceptions = append([]config.Exception(nil), cfg.Exceptions...)
	return &clone
}
