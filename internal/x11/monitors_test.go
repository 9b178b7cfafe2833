package x11

import (
	"testing"

	"github.com/1broseidon/fluentdeco/internal/deco"
	"github.com/1broseidon/fluentdeco/internal/geom"
)

func TestAdjacentEdges(t *testing.T) {
	area := geom.Rect{X: 0, Y: 30, Width: 1920, Height: 1050}

	tests := []struct {
		name   string
		window geom.Rect
		want   deco.Edges
	}{
		{"floating", geom.Rect{X: 100, Y: 100, Width: 800, Height: 600}, 0},
		{"left half", geom.Rect{X: 0, Y: 30, Width: 960, Height: 1050}, deco.EdgeLeft | deco.EdgeTop | deco.EdgeBottom},
		{"right half", geom.Rect{X: 960, Y: 30, Width: 960, Height: 1050}, deco.EdgeRight | deco.EdgeTop | deco.EdgeBottom},
		{"maximized", area, deco.EdgeLeft | deco.EdgeTop | deco.EdgeRight | deco.EdgeBottom},
		{"pushed off left", geom.Rect{X: -50, Y: 200, Width: 400, Height: 300}, deco.EdgeLeft},
		{"under top panel", geom.Rect{X: 200, Y: 10, Width: 400, Height: 300}, deco.EdgeTop},
		{"empty", geom.Rect{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdjacentEdges(tt.window, area); got != tt.want {
				t.Fatalf("expected edges %04b, got %04b", tt.want, got)
			}
		})
	}
}

func TestMonitorForPicksLargestOverlap(t *testing.T) {
	monitors := []Monitor{
		{ID: 0, Name: "DP-1", Bounds: geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
		{ID: 1, Name: "DP-2", Bounds: geom.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440}},
	}

	tests := []struct {
		name   string
		window geom.Rect
		want   string
	}{
		{"inside first", geom.Rect{X: 100, Y: 100, Width: 400, Height: 300}, "DP-1"},
		{"straddling, mostly second", geom.Rect{X: 1800, Y: 100, Width: 400, Height: 300}, "DP-2"},
		{"straddling, mostly first", geom.Rect{X: 1600, Y: 100, Width: 400, Height: 300}, "DP-1"},
		{"off screen", geom.Rect{X: -5000, Y: -5000, Width: 10, Height: 10}, "DP-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mon, ok := MonitorFor(monitors, tt.window)
			if !ok {
				t.Fatalf("expected a monitor")
			}
			if mon.Name != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, mon.Name)
			}
		})
	}

	if _, ok := MonitorFor(nil, geom.Rect{Width: 1, Height: 1}); ok {
		t.Fatalf("expected no monitor without outputs")
	}
}

func TestIntersect(t *testing.T) {
	got := intersect(geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}, geom.Rect{X: 50, Y: 60, Width: 100, Height: 100})
	want := geom.Rect{X: 50, Y: 60, Width: 50, Height: 40}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if got := intersect(geom.Rect{Width: 10, Height: 10}, geom.Rect{X: 20, Width: 10, Height: 10}); got != (geom.Rect{}) {
		t.Fatalf("expected empty intersection, got %+v", got)
	}
}

func TestParseWMState(t *testing.T) {
	got := parseWMState([]string{"_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_ABOVE", "_NET_WM_STATE_SHADED"})
	want := WMState{MaximizedV: true, Shaded: true}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}
