package tui

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/fluentdeco/internal/ipc"
)

// Run starts the configuration editor for configPath, or the default config
// file when configPath is empty.
func Run(configPath string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	// Logging to the terminal would tear the alternate screen.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	p := tea.NewProgram(newModel(configPath, ipc.NewClient(), logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// OpenEditor opens path in $EDITOR, falling back to $VISUAL and then vi.
func OpenEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	editorParts := strings.Fields(editor)
	if len(editorParts) == 0 {
		editorParts = []string{"vi"}
	}

	cmd := exec.Command(editorParts[0], append(editorParts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}
	return nil
}
