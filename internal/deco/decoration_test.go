package deco

import (
	"fmt"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/fluentdeco/internal/geom"
	"github.com/1broseidon/fluentdeco/internal/shadow"
)

type fakeClient struct {
	width      int
	caption    string
	class      string
	active     bool
	maxH       bool
	maxV       bool
	shaded     bool
	edges      Edges
	titleBar   [2]color.NRGBA
	foreground [2]color.NRGBA
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		width:   800,
		caption: "Terminal",
		class:   "xterm",
		titleBar: [2]color.NRGBA{
			Inactive: {R: 200, G: 200, B: 200, A: 255},
			Active:   {R: 0, G: 100, B: 200, A: 255},
		},
		foreground: [2]color.NRGBA{
			Inactive: {R: 100, G: 100, B: 100, A: 255},
			Active:   {R: 255, G: 255, B: 255, A: 255},
		},
	}
}

func (c *fakeClient) Width() int                    { return c.width }
func (c *fakeClient) Caption() string               { return c.caption }
func (c *fakeClient) WindowClass() string           { return c.class }
func (c *fakeClient) IsActive() bool                { return c.active }
func (c *fakeClient) IsMaximizedHorizontally() bool { return c.maxH }
func (c *fakeClient) IsMaximizedVertically() bool   { return c.maxV }
func (c *fakeClient) IsShaded() bool                { return c.shaded }
func (c *fakeClient) AdjacentEdges() Edges          { return c.edges }

func (c *fakeClient) Color(group ColorGroup, role ColorRole) color.NRGBA {
	if role == RoleTitleBar {
		return c.titleBar[group]
	}
	return c.foreground[group]
}

// recorder is a Surface that logs every call.
type recorder struct {
	ops []string
}

func (r *recorder) Save()                 { r.ops = append(r.ops, "save") }
func (r *recorder) Restore()              { r.ops = append(r.ops, "restore") }
func (r *recorder) ClipRect(rc geom.Rect) { r.ops = append(r.ops, fmt.Sprintf("clip %v", rc)) }

func (r *recorder) FillRect(rc geom.Rect, c color.NRGBA) {
	r.ops = append(r.ops, fmt.Sprintf("rect %v a=%d", rc, c.A))
}

func (r *recorder) FillRoundedRect(rc geom.Rect, radius float64, c color.NRGBA) {
	r.ops = append(r.ops, fmt.Sprintf("rounded %v r=%v a=%d", rc, radius, c.A))
}

func (r *recorder) DrawText(rc geom.Rect, align TextAlign, text string, c color.NRGBA) {
	r.ops = append(r.ops, fmt.Sprintf("text %v %s %q", rc, align, text))
}

func (r *recorder) DrawIcon(rc geom.Rect, b ButtonType, c color.NRGBA) {
	r.ops = append(r.ops, "icon "+b.String())
}

func testSettings() Settings {
	return Settings{
		Font:                  monoFont{height: 18},
		SmallSpacing:          2,
		LargeSpacing:          12,
		AlphaChannelSupported: true,
		LeftButtons:           DefaultLeftButtons,
		RightButtons:          DefaultRightButtons,
	}
}

func testOptions() Options {
	o := DefaultOptions()
	o.Shadow.Size = shadow.SizeSmall
	o.AnimationsDuration = 100 * time.Millisecond
	return o
}

func newTestDecoration(t *testing.T, c *fakeClient, o Options) *Decoration {
	t.Helper()
	d := New(c, testSettings(), StaticOptions(o), nil, nil, nil)
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(d.Close)
	return d
}

func TestInitComputesLayout(t *testing.T) {
	d := newTestDecoration(t, newFakeClient(), testOptions())
	if d.Borders() != (geom.Margins{Top: 30}) {
		t.Fatalf("unexpected borders %+v", d.Borders())
	}
	if d.ResizeOnlyBorders() != (geom.Margins{Left: 12, Top: 12, Right: 12, Bottom: 12}) {
		t.Fatalf("unexpected resize borders %+v", d.ResizeOnlyBorders())
	}
	if d.TitleBar() != (geom.Rect{Width: 800, Height: 30}) {
		t.Fatalf("unexpected title bar %+v", d.TitleBar())
	}
	left, right := d.Buttons()
	if len(left.Buttons) != 1 || len(right.Buttons) != 3 {
		t.Fatalf("expected 1 left and 3 right buttons, got %d and %d", len(left.Buttons), len(right.Buttons))
	}
	if d.Shadow() == nil {
		t.Fatalf("expected a shadow texture")
	}
}

func TestShadedIgnoresHideTitleBar(t *testing.T) {
	c := newFakeClient()
	c.shaded = true
	o := testOptions()
	o.HideTitleBar = true
	d := newTestDecoration(t, c, o)
	if d.Borders().Top != 30 {
		t.Fatalf("expected title bar while shaded, got borders %+v", d.Borders())
	}

	c.shaded = false
	d.ShadedChanged()
	if d.Borders().Top != 0 {
		t.Fatalf("expected hidden title bar once unshaded, got borders %+v", d.Borders())
	}
}

func TestColorsWithoutAnimation(t *testing.T) {
	c := newFakeClient()
	d := newTestDecoration(t, c, testOptions())
	if got := d.TitleBarColor(); got != c.titleBar[Inactive] {
		t.Fatalf("expected inactive color, got %+v", got)
	}
	c.active = true
	if got := d.TitleBarColor(); got != c.titleBar[Active] {
		t.Fatalf("expected active color, got %+v", got)
	}
	if got := d.FontColor(); got != c.foreground[Active] {
		t.Fatalf("expected active font color, got %+v", got)
	}
}

func TestHiddenTitleBarUsesInactiveColor(t *testing.T) {
	c := newFakeClient()
	c.active = true
	o := testOptions()
	o.HideTitleBar = true
	d := newTestDecoration(t, c, o)
	if got := d.TitleBarColor(); got != c.titleBar[Inactive] {
		t.Fatalf("expected inactive color for hidden title bar, got %+v", got)
	}
}

func TestActiveChangedCrossfades(t *testing.T) {
	c := newFakeClient()
	d := newTestDecoration(t, c, testOptions())
	d.TakeDamage()

	c.active = true
	d.ActiveChanged()
	if !d.Animating() {
		t.Fatalf("expected crossfade to run")
	}
	if got := d.TitleBarColor(); got != c.titleBar[Inactive] {
		t.Fatalf("expected crossfade to start at the inactive color, got %+v", got)
	}

	d.Advance(50 * time.Millisecond)
	if d.Opacity() != 0.5 {
		t.Fatalf("expected opacity 0.5 halfway, got %v", d.Opacity())
	}
	want := color.NRGBA{R: 100, G: 150, B: 200, A: 255}
	if got := d.TitleBarColor(); got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if _, ok := d.TakeDamage(); !ok {
		t.Fatalf("expected the crossfade to request a repaint")
	}

	d.Advance(60 * time.Millisecond)
	if d.Animating() {
		t.Fatalf("expected crossfade to finish")
	}
	if got := d.TitleBarColor(); got != c.titleBar[Active] {
		t.Fatalf("expected active color after crossfade, got %+v", got)
	}
}

func TestActiveChangedReversesMidway(t *testing.T) {
	c := newFakeClient()
	d := newTestDecoration(t, c, testOptions())

	c.active = true
	d.ActiveChanged()
	d.Advance(30 * time.Millisecond)

	c.active = false
	d.ActiveChanged()
	d.Advance(40 * time.Millisecond)
	if d.Animating() {
		t.Fatalf("expected reversed crossfade to finish early")
	}
	if d.Opacity() != 0 {
		t.Fatalf("expected opacity 0, got %v", d.Opacity())
	}
}

func TestActiveChangedWithoutAnimations(t *testing.T) {
	c := newFakeClient()
	o := testOptions()
	o.AnimationsEnabled = false
	d := newTestDecoration(t, c, o)
	d.TakeDamage()

	c.active = true
	d.ActiveChanged()
	if d.Animating() {
		t.Fatalf("expected no crossfade with animations disabled")
	}
	if _, ok := d.TakeDamage(); !ok {
		t.Fatalf("expected an immediate repaint")
	}
	if got := d.TitleBarColor(); got != c.titleBar[Active] {
		t.Fatalf("expected active color, got %+v", got)
	}
}

func TestPaint(t *testing.T) {
	full := geom.Rect{Width: 800, Height: 30}
	tests := []struct {
		name    string
		setup   func(c *fakeClient, s *Settings)
		wantTop []string
	}{
		{
			name:  "floating",
			setup: func(*fakeClient, *Settings) {},
			wantTop: []string{
				"save",
				fmt.Sprintf("clip %v", full),
				fmt.Sprintf("rounded %v r=3 a=191", geom.Rect{Width: 800, Height: 33}),
				"restore",
			},
		},
		{
			name:  "touching left and top edges",
			setup: func(c *fakeClient, _ *Settings) { c.edges = EdgeLeft | EdgeTop },
			wantTop: []string{
				"save",
				fmt.Sprintf("clip %v", full),
				fmt.Sprintf("rounded %v r=3 a=191", geom.Rect{X: -3, Y: -3, Width: 803, Height: 36}),
				"restore",
			},
		},
		{
			name:  "maximized",
			setup: func(c *fakeClient, _ *Settings) { c.maxH, c.maxV = true, true },
			wantTop: []string{
				"save",
				fmt.Sprintf("rect %v a=191", full),
				"restore",
			},
		},
		{
			name:  "no alpha channel",
			setup: func(_ *fakeClient, s *Settings) { s.AlphaChannelSupported = false },
			wantTop: []string{
				"save",
				fmt.Sprintf("rect %v a=191", full),
				"restore",
			},
		},
		{
			name:  "shaded",
			setup: func(c *fakeClient, _ *Settings) { c.shaded = true },
			wantTop: []string{
				"save",
				fmt.Sprintf("rounded %v r=3 a=191", full),
				"restore",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newFakeClient()
			s := testSettings()
			tt.setup(c, &s)
			d := New(c, s, StaticOptions(testOptions()), nil, nil, nil)
			if err := d.Init(); err != nil {
				t.Fatalf("Init: %v", err)
			}
			defer d.Close()

			r := &recorder{}
			d.Paint(r, full)
			if len(r.ops) != len(tt.wantTop)+5 {
				t.Fatalf("expected %d ops, got %d: %v", len(tt.wantTop)+5, len(r.ops), r.ops)
			}
			for i, want := range tt.wantTop {
				if r.ops[i] != want {
					t.Fatalf("op %d: expected %q, got %q", i, want, r.ops[i])
				}
			}
			wantText := fmt.Sprintf("text %v center %q", full, "Terminal")
			if r.ops[len(tt.wantTop)] != wantText {
				t.Fatalf("expected %q, got %q", wantText, r.ops[len(tt.wantTop)])
			}
			if r.ops[len(r.ops)-1] != "icon close" {
				t.Fatalf("expected close icon last, got %q", r.ops[len(r.ops)-1])
			}
		})
	}
}

func TestPaintSkipsOutsideRepaintRegion(t *testing.T) {
	d := newTestDecoration(t, newFakeClient(), testOptions())
	r := &recorder{}
	d.Paint(r, geom.Rect{Y: 100, Width: 800, Height: 50})
	if len(r.ops) != 0 {
		t.Fatalf("expected no paint, got %v", r.ops)
	}
}

func TestPaintSkipsHiddenTitleBar(t *testing.T) {
	o := testOptions()
	o.HideTitleBar = true
	d := newTestDecoration(t, newFakeClient(), o)
	r := &recorder{}
	d.Paint(r, geom.Rect{Width: 800, Height: 30})
	if len(r.ops) != 0 {
		t.Fatalf("expected no paint, got %v", r.ops)
	}
}

func TestPaintElidesLongCaption(t *testing.T) {
	c := newFakeClient()
	c.caption = "abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyz"
	d := newTestDecoration(t, c, testOptions())
	r := &recorder{}
	d.Paint(r, geom.Rect{Width: 800, Height: 30})

	var text string
	for _, op := range r.ops {
		if strings.HasPrefix(op, "text ") {
			text = op
		}
	}
	if !strings.Contains(text, "…") {
		t.Fatalf("expected an elided caption, got %q", text)
	}
}

func TestSettingsChangesCoalesce(t *testing.T) {
	q := &IdleQueue{}
	c := newFakeClient()
	d := New(c, testSettings(), StaticOptions(testOptions()), nil, q, nil)
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer d.Close()

	s := testSettings()
	s.SmallSpacing = 4
	d.SetSettings(s)
	s.RightButtons = []ButtonType{ButtonClose}
	d.SetSettings(s)

	if q.Pending() != 1 {
		t.Fatalf("expected one pending relayout, got %d", q.Pending())
	}
	_, right := d.Buttons()
	if len(right.Buttons) != 3 {
		t.Fatalf("expected layout to wait for the queue, got %d buttons", len(right.Buttons))
	}

	if n := q.Drain(); n != 1 {
		t.Fatalf("expected 1 job, got %d", n)
	}
	_, right = d.Buttons()
	if len(right.Buttons) != 1 || right.X != 755 {
		t.Fatalf("expected a single close button at 755, got %+v", right)
	}
}

func TestWidthChangedRelayoutsImmediately(t *testing.T) {
	q := &IdleQueue{}
	c := newFakeClient()
	d := New(c, testSettings(), StaticOptions(testOptions()), nil, q, nil)
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer d.Close()

	c.width = 400
	d.WidthChanged()
	_, right := d.Buttons()
	if right.X != 265 {
		t.Fatalf("expected right group at 265, got %d", right.X)
	}
	if d.TitleBar().Width != 400 {
		t.Fatalf("expected title bar width 400, got %d", d.TitleBar().Width)
	}
	if q.Pending() != 0 {
		t.Fatalf("expected no deferred work, got %d", q.Pending())
	}
}

func TestFontChangeResizesTitleBar(t *testing.T) {
	d := newTestDecoration(t, newFakeClient(), testOptions())
	s := testSettings()
	s.Font = monoFont{height: 40}
	d.SetSettings(s)
	if d.Borders().Top != 40 {
		t.Fatalf("expected top border 40, got %d", d.Borders().Top)
	}
	if d.TitleBar().Height != 40 {
		t.Fatalf("expected title bar height 40, got %d", d.TitleBar().Height)
	}
}
