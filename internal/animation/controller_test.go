package animation

import (
	"image/color"
	"math"
	"testing"
	"time"
)

func TestStartFromIdle(t *testing.T) {
	tests := []struct {
		name string
		dir  Status
		want float64
	}{
		{"forward starts at 0", Forward, 0},
		{"backward starts at 1", Backward, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(100 * time.Millisecond)
			c.Start(tt.dir)
			if c.Value() != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, c.Value())
			}
			if c.Status() != tt.dir {
				t.Fatalf("expected status %s, got %s", tt.dir, c.Status())
			}
		})
	}
}

func TestAdvanceReachesEndExactly(t *testing.T) {
	c := NewController(100 * time.Millisecond)
	c.Start(Forward)
	for i := 0; i < 3; i++ {
		c.Advance(40 * time.Millisecond)
	}
	if c.Running() {
		t.Fatalf("expected controller to stop at the end")
	}
	if c.Value() != 1 {
		t.Fatalf("expected exactly 1, got %v", c.Value())
	}

	c.Start(Backward)
	c.Advance(time.Second)
	if c.Value() != 0 || c.Running() {
		t.Fatalf("expected idle at 0, got %v running=%v", c.Value(), c.Running())
	}
}

func TestRetriggerFlipsDirection(t *testing.T) {
	c := NewController(100 * time.Millisecond)
	c.Start(Forward)
	c.Advance(30 * time.Millisecond)
	before := c.Progress()

	c.Start(Backward)
	if c.Progress() != before {
		t.Fatalf("expected position %v to be kept, got %v", before, c.Progress())
	}
	c.Advance(10 * time.Millisecond)
	if math.Abs(c.Progress()-0.2) > 1e-9 {
		t.Fatalf("expected progress 0.2 after reversing, got %v", c.Progress())
	}
	c.Advance(50 * time.Millisecond)
	if c.Running() || c.Value() != 0 {
		t.Fatalf("expected idle at 0, got %v", c.Value())
	}
}

func TestValueIsMonotonicWhileRunning(t *testing.T) {
	c := NewController(150 * time.Millisecond)
	c.Start(Forward)
	prev := c.Value()
	for c.Running() {
		v := c.Advance(16 * time.Millisecond)
		if v < prev {
			t.Fatalf("expected non-decreasing value, got %v after %v", v, prev)
		}
		if v < 0 || v > 1 {
			t.Fatalf("value out of range: %v", v)
		}
		prev = v
	}
}

func TestZeroDurationJumpsToEnd(t *testing.T) {
	c := NewController(0)
	c.Start(Forward)
	if c.Running() || c.Value() != 1 {
		t.Fatalf("expected immediate completion, got %v running=%v", c.Value(), c.Running())
	}
}

func TestListenerAndUnsubscribe(t *testing.T) {
	c := NewController(100 * time.Millisecond)
	calls := 0
	unsubscribe := c.AddListener(func(float64) { calls++ })
	c.Start(Forward)
	c.Advance(10 * time.Millisecond)
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	unsubscribe()
	c.Advance(10 * time.Millisecond)
	if calls != 2 {
		t.Fatalf("expected no calls after unsubscribe, got %d", calls)
	}
}

func TestEaseInOutQuad(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{0.25, 0.125},
		{0.5, 0.5},
		{0.75, 0.875},
		{1, 1},
	}
	for _, tt := range tests {
		if got := EaseInOutQuad(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("EaseInOutQuad(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestEaseInOutQuadClampsInput(t *testing.T) {
	if EaseInOutQuad(-0.5) != 0 || EaseInOutQuad(1.5) != 1 {
		t.Fatalf("expected progress outside [0,1] to clamp to the endpoints")
	}
}

func TestLerpColor(t *testing.T) {
	a := color.NRGBA{R: 0, G: 100, B: 200, A: 255}
	b := color.NRGBA{R: 100, G: 100, B: 0, A: 255}
	if LerpColor(a, b, 0) != a || LerpColor(a, b, 1) != b {
		t.Fatalf("expected exact endpoints")
	}
	got := LerpColor(a, b, 0.5)
	want := color.NRGBA{R: 50, G: 100, B: 100, A: 255}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}
