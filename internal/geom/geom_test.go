package geom

import "testing"

func TestRectEdgesAreInclusive(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 5, Height: 3}
	if r.Right() != 14 {
		t.Fatalf("expected right 14, got %d", r.Right())
	}
	if r.Bottom() != 22 {
		t.Fatalf("expected bottom 22, got %d", r.Bottom())
	}
}

func TestRectMoveCenterRoundTrips(t *testing.T) {
	tests := []struct {
		name   string
		rect   Rect
		center Point
		wantX  int
	}{
		{"odd box in even canvas", Rect{Width: 137, Height: 137}, Point{X: 136, Y: 136}, 68},
		{"even width", Rect{Width: 10, Height: 10}, Point{X: 5, Y: 5}, 1},
		{"single pixel", Rect{Width: 1, Height: 1}, Point{X: 7, Y: 7}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rect.MoveCenter(tt.center)
			if got.X != tt.wantX {
				t.Fatalf("expected x %d, got %d", tt.wantX, got.X)
			}
			if got.Center() != tt.center {
				t.Fatalf("expected center %+v, got %+v", tt.center, got.Center())
			}
			if got.Size() != tt.rect.Size() {
				t.Fatalf("expected size to be preserved, got %+v", got.Size())
			}
		})
	}
}

func TestRectShrinkAndContains(t *testing.T) {
	outer := Rect{Width: 273, Height: 273}
	inner := outer.Shrink(Margins{Left: 65, Top: 53, Right: 65, Bottom: 77})
	want := Rect{X: 65, Y: 53, Width: 143, Height: 143}
	if inner != want {
		t.Fatalf("expected %+v, got %+v", want, inner)
	}
	if !outer.Contains(inner) {
		t.Fatalf("expected outer to contain inner")
	}
	if inner.Contains(outer) {
		t.Fatalf("expected inner not to contain outer")
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	if !a.Intersects(Rect{X: 9, Y: 9, Width: 5, Height: 5}) {
		t.Fatalf("expected touching corner pixel to intersect")
	}
	if a.Intersects(Rect{X: 10, Y: 0, Width: 5, Height: 5}) {
		t.Fatalf("expected adjacent rect not to intersect")
	}
	if a.Intersects(Rect{}) {
		t.Fatalf("expected empty rect never to intersect")
	}
}

func TestSizeExpandedTo(t *testing.T) {
	got := Size{Width: 47, Height: 10}.ExpandedTo(Size{Width: 23, Height: 91})
	if got != (Size{Width: 47, Height: 91}) {
		t.Fatalf("unexpected size %+v", got)
	}
}

func TestRectUnited(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: 5, Width: 5, Height: 10}
	want := Rect{X: 0, Y: 0, Width: 25, Height: 15}
	if got := a.United(b); got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if got := a.United(Rect{}); got != a {
		t.Fatalf("expected empty rect to be ignored, got %+v", got)
	}
	if got := (Rect{}).United(b); got != b {
		t.Fatalf("expected empty receiver to be ignored, got %+v", got)
	}
}
