package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/fluentdeco/internal/config"
	"github.com/1broseidon/fluentdeco/internal/ipc"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRunConfigValidate(t *testing.T) {
	good := writeConfig(t, "shadow_size: small\ntitle_alignment: left\n")
	if rc := runConfig([]string{"validate", "--path", good}); rc != 0 {
		t.Fatalf("validate rc=%d, want 0", rc)
	}

	bad := writeConfig(t, "log_level: chatty\n")
	if rc := runConfig([]string{"validate", "--path", bad}); rc != 1 {
		t.Fatalf("validate rc=%d, want 1", rc)
	}

	missing := filepath.Join(t.TempDir(), "absent.yaml")
	if rc := runConfig([]string{"validate", "--path", missing}); rc != 0 {
		t.Fatalf("validate of a missing file rc=%d, want 0 (defaults)", rc)
	}
}

func TestRunConfigUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no subcommand", nil, 2},
		{"unknown subcommand", []string{"frobnicate"}, 2},
		{"explain without path", []string{"explain"}, 2},
		{"bad flag", []string{"print", "--bogus"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rc := runConfig(tt.args); rc != tt.want {
				t.Fatalf("rc=%d, want %d", rc, tt.want)
			}
		})
	}
}

func TestRunConfigExplain(t *testing.T) {
	path := writeConfig(t, "shadow_size: medium\n")
	if rc := runConfig([]string{"explain", "--path", path, "shadow_size"}); rc != 0 {
		t.Fatalf("explain rc=%d, want 0", rc)
	}
	if rc := runConfig([]string{"explain", "--path", path, "no_such_key"}); rc != 1 {
		t.Fatalf("explain of an unknown key rc=%d, want 1", rc)
	}
}

func TestRunRenderShadow(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "absent.yaml")
	out := filepath.Join(t.TempDir(), "out", "shadow.png")

	if rc := runRenderShadow([]string{"--path", cfgPath, "--size", "small", "-o", out}); rc != 0 {
		t.Fatalf("render-shadow rc=%d, want 0", rc)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 93 || b.Dy() != 93 {
		t.Fatalf("expected a 93x93 small shadow, got %v", b)
	}
}

func TestRunRenderShadowRejectsBadFlags(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "absent.yaml")
	out := filepath.Join(t.TempDir(), "shadow.png")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown size", []string{"--size", "huge"}},
		{"strength", []string{"--strength", "300"}},
		{"color", []string{"--color", "red"}},
		{"extra args", []string{"extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--path", cfgPath, "-o", out}, tt.args...)
			if rc := runRenderShadow(args); rc != 2 {
				t.Fatalf("rc=%d, want 2", rc)
			}
		})
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("expected no output file, got err=%v", err)
	}
}

func TestRunRenderShadowNone(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "absent.yaml")
	out := filepath.Join(t.TempDir(), "shadow.png")
	if rc := runRenderShadow([]string{"--path", cfgPath, "--size", "none", "-o", out}); rc != 0 {
		t.Fatalf("rc=%d, want 0", rc)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("expected nothing written for size none")
	}
}

func TestRunStatusWithoutHost(t *testing.T) {
	dir, err := os.MkdirTemp("", "fd")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	t.Setenv("XDG_RUNTIME_DIR", dir)

	if rc := runStatus(nil); rc != 1 {
		t.Fatalf("status rc=%d, want 1", rc)
	}
	if rc := runReload(nil); rc != 1 {
		t.Fatalf("reload rc=%d, want 1", rc)
	}
	if rc := runStatus([]string{"extra"}); rc != 2 {
		t.Fatalf("status with args rc=%d, want 2", rc)
	}
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, &ipc.StatusData{
		HostRunning:      true,
		Decorations:      1,
		ShadowSize:       "large",
		ShadowReferences: 1,
		ConfigPath:       "/tmp/config.yaml",
		Reloads:          2,
	})
	out := buf.String()
	for _, want := range []string{"host_running:      true", "shadow_size:       large", "reloads:           2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/a.yaml", Line: 3, Column: 5}, "file:/a.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/a.yaml"}, "file:/a.yaml"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceBuiltin, Name: "light"}, "builtin:light"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Fatalf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestRunMCPUsage(t *testing.T) {
	if rc := runMCP(nil); rc != 2 {
		t.Fatalf("rc=%d, want 2", rc)
	}
	if rc := runMCP([]string{"bogus"}); rc != 2 {
		t.Fatalf("rc=%d, want 2", rc)
	}
}
