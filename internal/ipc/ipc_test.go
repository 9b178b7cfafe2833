package ipc

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeHost struct {
	mu      sync.Mutex
	reloads int
	err     error
}

func (h *fakeHost) Reload() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reloads++
	return h.err
}

func (h *fakeHost) Status() StatusData {
	h.mu.Lock()
	defer h.mu.Unlock()
	return StatusData{Decorations: 2, ShadowSize: "large", ShadowReferences: 2, Reloads: h.reloads}
}

// socketPath keeps the path short enough for sun_path.
func socketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "fd")
	if err != nil {
		t.Fatalf("mkdtemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "s.sock")
}

func startServer(t *testing.T, host Host) *Server {
	t.Helper()
	srv := NewServer(socketPath(t), host, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return srv
}

func TestReloadRoundTrip(t *testing.T) {
	host := &fakeHost{}
	srv := startServer(t, host)
	c := NewClientForSocket(srv.SocketPath(), time.Second)

	if err := c.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	status, err := c.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.Reloads != 1 || status.Decorations != 2 || !status.HostRunning {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestReloadErrorIsReported(t *testing.T) {
	host := &fakeHost{err: errors.New("bad yaml")}
	srv := startServer(t, host)
	c := NewClientForSocket(srv.SocketPath(), time.Second)

	err := c.Reload()
	if err == nil || !strings.Contains(err.Error(), "bad yaml") {
		t.Fatalf("expected host error, got %v", err)
	}
}

func TestUnknownCommand(t *testing.T) {
	srv := startServer(t, &fakeHost{})
	c := NewClientForSocket(srv.SocketPath(), time.Second)

	_, err := c.sendRequest(&Request{Command: "TILE"})
	if err == nil || !strings.Contains(err.Error(), "Unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestNotifyReloadDelivers(t *testing.T) {
	host := &fakeHost{}
	srv := startServer(t, host)

	NewClientForSocket(srv.SocketPath(), time.Second).NotifyReload(nil)
	if host.Status().Reloads != 1 {
		t.Fatalf("expected the host to reload once")
	}
}

func TestNotifyReloadWithoutHost(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	NewClientForSocket(filepath.Join(t.TempDir(), "missing.sock"), time.Second).NotifyReload(logger)
	if !strings.Contains(buf.String(), "no decoration host") {
		t.Fatalf("expected a debug note about the missing host, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "level=WARN") {
		t.Fatalf("expected a missing host not to warn, got %q", buf.String())
	}
}

func TestStopRemovesSocket(t *testing.T) {
	srv := NewServer(socketPath(t), &fakeHost{}, nil)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	srv.Stop()
	if _, err := os.Stat(srv.SocketPath()); !os.IsNotExist(err) {
		t.Fatalf("expected socket to be removed, got %v", err)
	}
}
