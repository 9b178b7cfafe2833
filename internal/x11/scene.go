package x11

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/1broseidon/fluentdeco/internal/config"
	"github.com/1broseidon/fluentdeco/internal/deco"
	"github.com/1broseidon/fluentdeco/internal/geom"
	"github.com/1broseidon/fluentdeco/internal/render"
	"github.com/1broseidon/fluentdeco/internal/shadow"
)

// scene is the part of the preview that does not talk to the X server: one
// decorated window and the state changes a window manager would report.
type scene struct {
	factory      *deco.Factory
	queue        *deco.IdleQueue
	font         *render.Font
	window       *deco.WindowState
	decoration   *deco.Decoration
	clientHeight int
	clientColor  color.NRGBA
	dirty        bool
}

type sceneOptions struct {
	Caption      string
	Class        string
	Width        int
	ClientHeight int
	ClientColor  color.NRGBA
}

func newScene(cfg *config.Config, cache *shadow.Cache, font *render.Font, opts sceneOptions, logger *slog.Logger) (*scene, error) {
	queue := &deco.IdleQueue{}
	s := &scene{
		factory: deco.NewFactory(cfg, cache, queue, logger),
		queue:   queue,
		font:    font,
		window: &deco.WindowState{
			WindowWidth: opts.Width,
			Title:       opts.Caption,
			Class:       opts.Class,
			Active:      true,
			Colors:      cfg.Palette.NRGBA,
		},
		clientHeight: opts.ClientHeight,
		clientColor:  opts.ClientColor,
		dirty:        true,
	}
	d, err := s.factory.Create(s.window, render.DefaultSettings(font))
	if err != nil {
		return nil, err
	}
	s.decoration = d
	s.queue.Drain()
	return s, nil
}

func (s *scene) frame() render.Frame {
	return render.Frame{
		Decoration:   s.decoration,
		Font:         s.font,
		ClientHeight: s.clientHeight,
		ClientColor:  s.clientColor,
	}
}

// layout returns the canvas size and the window rect inside the canvas.
func (s *scene) layout() (geom.Size, geom.Rect) {
	return s.frame().Layout()
}

func (s *scene) padding() geom.Margins {
	if tex := s.decoration.Shadow(); tex != nil {
		return tex.Padding
	}
	return geom.Margins{}
}

// resize adopts a canvas size chosen by the window manager.
func (s *scene) resize(canvas geom.Size) {
	pad := s.padding()
	b := s.decoration.Borders()
	width := max(canvas.Width-pad.Left-pad.Right-b.Left-b.Right, 1)
	height := max(canvas.Height-pad.Top-pad.Bottom-b.Top-b.Bottom, 0)
	if height != s.clientHeight {
		s.clientHeight = height
		s.dirty = true
	}
	if width != s.window.WindowWidth {
		s.window.WindowWidth = width
		s.decoration.WidthChanged()
		s.dirty = true
	}
}

// place updates the adjacent edges for a canvas at origin on a screen whose
// usable area is area.
func (s *scene) place(origin geom.Point, area geom.Rect) {
	_, window := s.layout()
	edges := AdjacentEdges(window.Translate(origin), area)
	if edges == s.window.Edges {
		return
	}
	s.window.Edges = edges
	s.decoration.AdjacentEdgesChanged()
	s.dirty = true
}

func (s *scene) setActive(active bool) {
	if s.window.Active == active {
		return
	}
	s.window.Active = active
	s.decoration.ActiveChanged()
	s.dirty = true
}

func (s *scene) setWMState(st WMState) {
	if st.MaximizedH != s.window.MaximizedH || st.MaximizedV != s.window.MaximizedV {
		s.window.MaximizedH = st.MaximizedH
		s.window.MaximizedV = st.MaximizedV
		s.decoration.MaximizedChanged()
		s.dirty = true
	}
	if st.Shaded != s.window.Shaded {
		s.window.Shaded = st.Shaded
		s.decoration.ShadedChanged()
		s.dirty = true
	}
}

func (s *scene) wmState() WMState {
	return WMState{
		MaximizedH: s.window.MaximizedH,
		MaximizedV: s.window.MaximizedV,
		Shaded:     s.window.Shaded,
	}
}

func (s *scene) toggleMaximized() {
	st := s.wmState()
	on := !(st.MaximizedH && st.MaximizedV)
	st.MaximizedH, st.MaximizedV = on, on
	s.setWMState(st)
}

func (s *scene) toggleShaded() {
	st := s.wmState()
	st.Shaded = !st.Shaded
	s.setWMState(st)
}

func (s *scene) setCaption(caption string) {
	if caption == s.window.Title {
		return
	}
	s.window.Title = caption
	s.decoration.CaptionChanged()
	s.dirty = true
}

// reconfigure applies a reloaded configuration to every decoration.
func (s *scene) reconfigure(cfg *config.Config) error {
	s.window.Colors = cfg.Palette.NRGBA
	s.dirty = true
	if err := s.factory.Reconfigure(cfg); err != nil {
		return fmt.Errorf("reconfigure decorations: %w", err)
	}
	return nil
}

// tick advances the focus crossfade.
func (s *scene) tick(dt time.Duration) {
	if s.decoration.Animating() {
		s.decoration.Advance(dt)
	}
}

// idle runs deferred geometry updates and reports whether a redraw is due.
func (s *scene) idle() bool {
	s.queue.Drain()
	if _, ok := s.decoration.TakeDamage(); ok {
		s.dirty = true
	}
	dirty := s.dirty
	s.dirty = false
	return dirty
}

func (s *scene) close() {
	s.decoration.Close()
}
