package shadow

import (
	"image/color"
	"testing"

	"github.com/1broseidon/fluentdeco/internal/geom"
)

func TestPresetIsNone(t *testing.T) {
	for s := SizeNone; s <= SizeVeryLarge; s++ {
		want := s == SizeNone
		if got := Lookup(s).IsNone(); got != want {
			t.Fatalf("%s: expected IsNone=%v, got %v", s, want, got)
		}
	}
}

func TestLookupFallsBackToLarge(t *testing.T) {
	if Lookup(Size(42)) != Lookup(SizeLarge) {
		t.Fatalf("expected out-of-range size to resolve to the large preset")
	}
	if Lookup(Size(-1)) != Lookup(SizeLarge) {
		t.Fatalf("expected negative size to resolve to the large preset")
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in     string
		want   Size
		wantOK bool
	}{
		{"none", SizeNone, true},
		{"Small", SizeSmall, true},
		{"very_large", SizeVeryLarge, true},
		{"very-large", SizeVeryLarge, true},
		{"huge", SizeLarge, false},
	}
	for _, tt := range tests {
		got, ok := ParseSize(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("ParseSize(%q): expected (%s, %v), got (%s, %v)", tt.in, tt.want, tt.wantOK, got, ok)
		}
	}
}

func TestBlurExtent(t *testing.T) {
	tests := []struct {
		radius int
		want   int
	}{
		{0, 2},
		{8, 11},
		{16, 23},
		{24, 34},
		{32, 45},
		{48, 68},
		{64, 90},
	}
	for _, tt := range tests {
		if got := BlurExtent(tt.radius); got != tt.want {
			t.Fatalf("radius %d: expected extent %d, got %d", tt.radius, tt.want, got)
		}
	}
}

func TestBuildGeometry(t *testing.T) {
	tests := []struct {
		size    Size
		canvas  int
		padding geom.Margins
	}{
		{SizeSmall, 93, geom.Margins{Left: 20, Top: 16, Right: 20, Bottom: 24}},
		{SizeMedium, 181, geom.Margins{Left: 42, Top: 34, Right: 42, Bottom: 50}},
		{SizeLarge, 273, geom.Margins{Left: 65, Top: 53, Right: 65, Bottom: 77}},
		{SizeVeryLarge, 361, geom.Margins{Left: 87, Top: 71, Right: 87, Bottom: 103}},
	}
	for _, tt := range tests {
		t.Run(tt.size.String(), func(t *testing.T) {
			tex, err := Build(Key{Size: tt.size, Strength: 255})
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if tex == nil {
				t.Fatalf("expected a texture")
			}
			b := tex.Bounds()
			if b.Width != tt.canvas || b.Height != tt.canvas {
				t.Fatalf("expected %dx%d canvas, got %dx%d", tt.canvas, tt.canvas, b.Width, b.Height)
			}
			if tex.Padding != tt.padding {
				t.Fatalf("expected padding %+v, got %+v", tt.padding, tex.Padding)
			}
			frame := tex.FrameRect()
			if !b.Contains(frame) {
				t.Fatalf("expected frame rect %+v inside %+v", frame, b)
			}
			for _, p := range []int{tex.Padding.Left, tex.Padding.Top, tex.Padding.Right, tex.Padding.Bottom} {
				if p < Overlap {
					t.Fatalf("expected padding >= %d, got %+v", Overlap, tex.Padding)
				}
			}
			c := b.Center()
			if tex.InnerRect != (geom.Rect{X: c.X, Y: c.Y, Width: 1, Height: 1}) {
				t.Fatalf("expected 1x1 anchor at %+v, got %+v", c, tex.InnerRect)
			}
		})
	}
}

func TestBuildLargeFrameRect(t *testing.T) {
	tex, err := Build(Key{Size: SizeLarge, Strength: 255})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := geom.Rect{X: 65, Y: 53, Width: 143, Height: 143}
	if got := tex.FrameRect(); got != want {
		t.Fatalf("expected frame rect %+v, got %+v", want, got)
	}
	if tex.InnerRect.X != 136 || tex.InnerRect.Y != 136 {
		t.Fatalf("expected anchor at 136,136, got %+v", tex.InnerRect)
	}
}

func TestBuildNoneReturnsNil(t *testing.T) {
	tex, err := Build(Key{Size: SizeNone, Strength: 255})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tex != nil {
		t.Fatalf("expected nil texture for the none preset")
	}
}

func TestBuildCutsOutFrame(t *testing.T) {
	tex, err := Build(Key{Size: SizeLarge, Strength: 255, Color: color.NRGBA{A: 255}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	img := tex.Image
	c := tex.FrameRect().Center()
	if a := img.RGBAAt(c.X, c.Y).A; a != 0 {
		t.Fatalf("expected transparent frame interior, got alpha %d", a)
	}
	below := tex.FrameRect().Bottom() + 5
	if a := img.RGBAAt(c.X, below).A; a == 0 {
		t.Fatalf("expected shadow below the frame at y=%d", below)
	}
	if a := img.RGBAAt(0, 0).A; a > img.RGBAAt(c.X, below).A {
		t.Fatalf("expected corner to be lighter than the area under the frame")
	}
}

func TestBuildZeroStrengthIsTransparent(t *testing.T) {
	tex, err := Build(Key{Size: SizeSmall, Strength: 0})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i := 3; i < len(tex.Image.Pix); i += 4 {
		if tex.Image.Pix[i] != 0 {
			t.Fatalf("expected fully transparent texture at zero strength")
		}
	}
}

func TestKeyNormalized(t *testing.T) {
	k := Key{Size: Size(9), Strength: 400, Color: color.NRGBA{R: 10, A: 3}}.Normalized()
	if k.Size != SizeLarge {
		t.Fatalf("expected large, got %s", k.Size)
	}
	if k.Strength != 255 {
		t.Fatalf("expected strength clamped to 255, got %d", k.Strength)
	}
	if k.Color != (color.NRGBA{R: 10, A: 255}) {
		t.Fatalf("expected opaque color, got %+v", k.Color)
	}
	if got := (Key{Strength: -4}).Normalized().Strength; got != 0 {
		t.Fatalf("expected strength clamped to 0, got %d", got)
	}
}

func TestRendererCanvasSize(t *testing.T) {
	r := &BoxRenderer{BoxSize: geom.Size{Width: 137, Height: 137}}
	r.AddShadow(geom.Point{}, 48, color.NRGBA{A: 200})
	r.AddShadow(geom.Point{Y: -6}, 24, color.NRGBA{A: 50})
	if got := r.CanvasSize(); got != (geom.Size{Width: 273, Height: 273}) {
		t.Fatalf("expected 273x273, got %+v", got)
	}
	if len(r.Layers()) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(r.Layers()))
	}
}

func TestEmptyRendererRendersNothing(t *testing.T) {
	img, err := (&BoxRenderer{BoxSize: geom.Size{Width: 10, Height: 10}}).Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if img != nil {
		t.Fatalf("expected nil image without layers")
	}
}

func TestBoxSizesAreOdd(t *testing.T) {
	for _, sigma := range []float64{1, 4, 12, 24, 32} {
		sizes := boxSizes(sigma, blurPasses)
		if len(sizes) != blurPasses {
			t.Fatalf("expected %d passes, got %d", blurPasses, len(sizes))
		}
		for _, s := range sizes {
			if s%2 != 1 {
				t.Fatalf("sigma %v: expected odd box sizes, got %v", sigma, sizes)
			}
		}
	}
}

func TestBlurLinePreservesFlatInterior(t *testing.T) {
	src := make([]uint8, 21)
	for i := range src {
		src[i] = 200
	}
	dst := make([]uint8, len(src))
	blurLine(src, 1, dst, 1, len(src), 3)
	if dst[10] != 200 {
		t.Fatalf("expected flat interior to stay 200, got %d", dst[10])
	}
	if dst[0] >= 200 {
		t.Fatalf("expected edge to fade against transparent outside, got %d", dst[0])
	}
}
