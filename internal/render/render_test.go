package render

import (
	"bytes"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/1broseidon/fluentdeco/internal/deco"
	"github.com/1broseidon/fluentdeco/internal/geom"
	"github.com/1broseidon/fluentdeco/internal/shadow"
)

func loadFont(t *testing.T) *Font {
	t.Helper()
	f, err := NewFont(DefaultFontSize)
	if err != nil {
		t.Fatalf("NewFont: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func newDecoration(t *testing.T, font *Font, size shadow.Size) *deco.Decoration {
	t.Helper()
	client := &deco.WindowState{
		WindowWidth: 400,
		Title:       "Terminal",
		Class:       "xterm",
		Active:      true,
		Colors: func(group deco.ColorGroup, role deco.ColorRole) color.NRGBA {
			if role == deco.RoleForeground {
				return color.NRGBA{A: 255}
			}
			return color.NRGBA{R: 240, G: 240, B: 240, A: 255}
		},
	}
	settings := deco.Settings{
		Font:                  font,
		SmallSpacing:          2,
		LargeSpacing:          8,
		AlphaChannelSupported: true,
		LeftButtons:           deco.DefaultLeftButtons,
		RightButtons:          deco.DefaultRightButtons,
	}
	opts := deco.DefaultOptions()
	opts.AnimationsEnabled = false
	opts.Shadow.Size = size
	d := deco.New(client, settings, deco.StaticOptions(opts), nil, nil, nil)
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(d.Close)
	return d
}

func TestFontMetrics(t *testing.T) {
	f := loadFont(t)
	if f.Height() <= 0 || f.Height() > 30 {
		t.Fatalf("expected a line height below the button height, got %d", f.Height())
	}
	if f.TextWidth("") != 0 {
		t.Fatalf("expected empty text to have no width")
	}
	short, long := f.TextWidth("Term"), f.TextWidth("Terminal")
	if short <= 0 || long <= short {
		t.Fatalf("expected width to grow with text, got %d and %d", short, long)
	}
}

func TestFrameLayout(t *testing.T) {
	font := loadFont(t)
	d := newDecoration(t, font, shadow.SizeLarge)
	f := Frame{Decoration: d, Font: font, ClientHeight: 200}

	size, window := f.Layout()
	wantWindow := geom.Rect{X: 65, Y: 53, Width: 400, Height: 230}
	if window != wantWindow {
		t.Fatalf("expected window %+v, got %+v", wantWindow, window)
	}
	if size.Width != 530 || size.Height != 360 {
		t.Fatalf("expected 530x360 canvas, got %dx%d", size.Width, size.Height)
	}
}

func TestFrameLayoutWithoutShadow(t *testing.T) {
	font := loadFont(t)
	d := newDecoration(t, font, shadow.SizeNone)
	size, window := Frame{Decoration: d, Font: font, ClientHeight: 100}.Layout()
	if window.X != 0 || window.Y != 0 || size.Width != 400 || size.Height != 130 {
		t.Fatalf("expected no padding, got %+v in %+v", window, size)
	}
}

func TestFrameRender(t *testing.T) {
	font := loadFont(t)
	d := newDecoration(t, font, shadow.SizeMedium)
	f := Frame{
		Decoration:   d,
		Font:         font,
		ClientHeight: 120,
		ClientColor:  color.NRGBA{R: 30, G: 30, B: 30, A: 255},
	}
	img, err := f.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	_, window := f.Layout()

	body := img.RGBAAt(window.X+200, window.Y+100)
	if body.A != 255 || body.R != 30 {
		t.Fatalf("expected opaque client color, got %+v", body)
	}

	// Title bar at 75% opacity over the cut-out shadow.
	title := img.RGBAAt(window.X+200, window.Y+2)
	if title.A < 189 || title.A > 193 {
		t.Fatalf("expected title bar alpha near 191, got %+v", title)
	}

	below := img.RGBAAt(window.X+200, window.Y+window.Height+10)
	if below.A == 0 {
		t.Fatalf("expected shadow below the window")
	}
}

func TestDrawShadowKeepsWindowClear(t *testing.T) {
	tex, err := shadow.Build(shadow.Key{Size: shadow.SizeSmall, Strength: 255, Color: color.NRGBA{A: 255}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	window := geom.Rect{X: 20, Y: 16, Width: 200, Height: 100}
	dst := imageFor(window, tex.Padding)
	DrawShadow(dst, tex, window)

	if c := dst.RGBAAt(window.X+100, window.Y+50); c.A != 0 {
		t.Fatalf("expected window interior to stay clear, got %+v", c)
	}
	if c := dst.RGBAAt(window.X+100, window.Y+window.Height+4); c.A == 0 {
		t.Fatalf("expected shadow under the bottom edge")
	}
	if c := dst.RGBAAt(window.X+window.Width+2, window.Y+50); c.A == 0 {
		t.Fatalf("expected shadow right of the window")
	}
}

func TestDrawShadowTinyWindow(t *testing.T) {
	tex, err := shadow.Build(shadow.Key{Size: shadow.SizeLarge, Strength: 255, Color: color.NRGBA{A: 255}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	window := geom.Rect{X: tex.Padding.Left, Y: tex.Padding.Top, Width: 1, Height: 1}
	// Must not panic when the corners are wider than the window.
	DrawShadow(imageFor(window, tex.Padding), tex, window)
}

func TestSplitsClamp(t *testing.T) {
	got := splits(0, 50, 10, 40)
	want := [4]int{0, 40, 40, 40}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSavePNG(t *testing.T) {
	tex, err := shadow.Build(shadow.Key{Size: shadow.SizeSmall, Strength: 128, Color: color.NRGBA{A: 255}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out", "shadow.png")
	if err := SavePNG(path, tex.Image); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	var buf bytes.Buffer
	if err := EncodePNG(&buf, tex.Image); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds() != tex.Image.Bounds() {
		t.Fatalf("expected bounds %v, got %v", tex.Image.Bounds(), img.Bounds())
	}
}

func TestSurfaceRecordsFirstError(t *testing.T) {
	s := &Surface{}
	s.record("first", errTest("a"))
	s.record("second", errTest("b"))
	if s.Err() == nil || s.Err().Error() != "first: a" {
		t.Fatalf("expected first error to be kept, got %v", s.Err())
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
