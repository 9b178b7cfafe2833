package deco

import (
	"fmt"
	"image/color"
	"log/slog"
	"slices"
	"time"

	"github.com/1broseidon/fluentdeco/internal/animation"
	"github.com/1broseidon/fluentdeco/internal/geom"
	"github.com/1broseidon/fluentdeco/internal/shadow"
)

// Decoration is the title bar and shadow of one window.
//
// A Decoration is not safe for concurrent use. The host calls it from a
// single event loop.
type Decoration struct {
	client    Client
	settings  Settings
	provider  OptionsProvider
	opts      Options
	cache     *shadow.Cache
	scheduler Scheduler
	logger    *slog.Logger
	onClose   func(*Decoration)

	anim    *animation.Controller
	opacity float64

	borders       geom.Margins
	resizeBorders geom.Margins
	titleBar      geom.Rect
	left          ButtonGroup
	right         ButtonGroup
	shadow        *shadow.Texture

	geometryPending bool
	damage          geom.Rect
	initialized     bool
	closed          bool
}

// New returns a decoration for c. It acquires a reference on cache, which
// Close releases. Init must be called before use.
func New(c Client, s Settings, provider OptionsProvider, cache *shadow.Cache, scheduler Scheduler, logger *slog.Logger) *Decoration {
	if logger == nil {
		logger = slog.Default()
	}
	if scheduler == nil {
		scheduler = immediate{}
	}
	if provider == nil {
		provider = StaticOptions(DefaultOptions())
	}
	if cache == nil {
		cache = shadow.NewCache(logger, nil)
	}
	d := &Decoration{
		client:    c,
		settings:  s,
		provider:  provider,
		cache:     cache,
		scheduler: scheduler,
		logger:    logger,
		anim:      animation.NewController(0),
	}
	d.anim.Curve = animation.EaseInOutQuad
	d.anim.AddListener(d.setOpacity)
	cache.Acquire()
	return d
}

// Init resolves options, lays out the title bar and builds the shadow.
func (d *Decoration) Init() error {
	if d.closed {
		return fmt.Errorf("decoration closed")
	}
	if err := d.Reconfigure(); err != nil {
		return err
	}
	d.UpdateTitleBar()
	d.UpdateButtonsGeometry()
	d.initialized = true
	return nil
}

// Reconfigure reloads the options for the window and rebuilds whatever
// depends on them.
func (d *Decoration) Reconfigure() error {
	d.opts = d.provider.OptionsFor(d.client.WindowClass(), d.client.Caption())
	d.anim.Duration = d.opts.AnimationsDuration
	d.RecalculateBorders()
	if err := d.createShadow(); err != nil {
		return err
	}
	d.logger.Debug("decoration reconfigured",
		"class", d.client.WindowClass(),
		"alignment", d.opts.TitleAlignment.String(),
		"shadow", d.opts.Shadow.Size.String())
	return nil
}

func (d *Decoration) createShadow() error {
	tex, err := d.cache.Texture(d.opts.Shadow)
	if err != nil {
		return fmt.Errorf("create shadow: %w", err)
	}
	d.shadow = tex
	return nil
}

// Close releases the shared shadow. It is safe to call more than once.
func (d *Decoration) Close() {
	if d.closed {
		return
	}
	d.closed = true
	d.anim.Stop()
	d.shadow = nil
	d.cache.Release()
	if d.onClose != nil {
		d.onClose(d)
	}
}

func (d *Decoration) hideTitleBar() bool {
	return d.opts.HideTitleBar && !d.client.IsShaded()
}

func (d *Decoration) isMaximized() bool {
	return d.client.IsMaximizedHorizontally() && d.client.IsMaximizedVertically()
}

func (d *Decoration) isLeftEdge() bool {
	return d.client.IsMaximizedHorizontally() || d.client.AdjacentEdges().Has(EdgeLeft)
}

func (d *Decoration) isRightEdge() bool {
	return d.client.IsMaximizedHorizontally() || d.client.AdjacentEdges().Has(EdgeRight)
}

func (d *Decoration) isTopEdge() bool {
	return d.client.IsMaximizedVertically() || d.client.AdjacentEdges().Has(EdgeTop)
}

// RecalculateBorders recomputes the borders from the font and options.
func (d *Decoration) RecalculateBorders() {
	d.borders = ComputeBorders(d.hideTitleBar(), d.settings.fontHeight(), ButtonHeight)
	d.resizeBorders = ComputeResizeOnlyBorders(d.settings.LargeSpacing)
	if d.initialized {
		d.UpdateTitleBar()
	}
}

// UpdateTitleBar recomputes the title bar rect from the client width.
func (d *Decoration) UpdateTitleBar() {
	d.titleBar = geom.Rect{Width: d.client.Width(), Height: d.borders.Top}
	d.update(d.titleBar)
}

// UpdateButtonsGeometry lays out both button groups now.
func (d *Decoration) UpdateButtonsGeometry() {
	d.left, d.right = ComputeButtonGeometry(d.client.Width(), ButtonHeight,
		d.settings.LeftButtons, d.settings.RightButtons)
	d.update(d.rect())
}

// UpdateButtonsGeometryDelayed schedules a layout on the scheduler. Requests
// made while one is pending are merged into it.
func (d *Decoration) UpdateButtonsGeometryDelayed() {
	if d.geometryPending {
		return
	}
	d.geometryPending = true
	d.scheduler.Schedule(func() {
		d.geometryPending = false
		if !d.closed {
			d.UpdateButtonsGeometry()
		}
	})
}

// SetSettings applies new host settings. Font and spacing changes resize the
// borders, and spacing or button list changes relayout the buttons on the
// scheduler.
func (d *Decoration) SetSettings(s Settings) {
	old := d.settings
	d.settings = s

	fontChanged := old.fontHeight() != s.fontHeight()
	spacingChanged := old.SmallSpacing != s.SmallSpacing || old.LargeSpacing != s.LargeSpacing
	buttonsChanged := !slices.Equal(old.LeftButtons, s.LeftButtons) || !slices.Equal(old.RightButtons, s.RightButtons)

	if fontChanged || spacingChanged {
		d.RecalculateBorders()
	}
	if spacingChanged || buttonsChanged {
		d.UpdateButtonsGeometryDelayed()
	}
	if old.AlphaChannelSupported != s.AlphaChannelSupported {
		d.update(d.rect())
	}
}

// SettingsReconfigured is the host's full reconfiguration signal.
func (d *Decoration) SettingsReconfigured() error {
	err := d.Reconfigure()
	d.UpdateButtonsGeometryDelayed()
	return err
}

// WidthChanged is called after the client is resized.
func (d *Decoration) WidthChanged() {
	d.UpdateTitleBar()
	d.UpdateButtonsGeometry()
}

// MaximizedChanged is called after the client's maximization changed.
func (d *Decoration) MaximizedChanged() {
	d.RecalculateBorders()
	d.UpdateTitleBar()
	d.UpdateButtonsGeometry()
}

// AdjacentEdgesChanged is called when the client starts or stops touching a
// screen edge.
func (d *Decoration) AdjacentEdgesChanged() {
	d.RecalculateBorders()
	d.UpdateButtonsGeometry()
}

// ShadedChanged is called after the client was shaded or unshaded.
func (d *Decoration) ShadedChanged() {
	d.RecalculateBorders()
	d.UpdateButtonsGeometry()
}

// CaptionChanged repaints the title bar.
func (d *Decoration) CaptionChanged() {
	d.update(d.titleBar)
}

// ActiveChanged starts the crossfade toward the new focus state, or repaints
// immediately when animations are off.
func (d *Decoration) ActiveChanged() {
	if !d.opts.AnimationsEnabled {
		d.update(d.rect())
		return
	}
	dir := animation.Backward
	if d.client.IsActive() {
		dir = animation.Forward
	}
	if d.anim.Running() {
		d.anim.SetDirection(dir)
		return
	}
	d.anim.Start(dir)
}

// Animating reports whether the crossfade is running.
func (d *Decoration) Animating() bool {
	return d.anim.Running()
}

// Advance steps the crossfade by dt.
func (d *Decoration) Advance(dt time.Duration) {
	d.anim.Advance(dt)
}

func (d *Decoration) setOpacity(v float64) {
	if d.opacity == v {
		return
	}
	d.opacity = v
	d.update(d.rect())
}

// Opacity is the current crossfade position between inactive (0) and
// active (1).
func (d *Decoration) Opacity() float64 {
	return d.opacity
}

// TitleBarColor is the title bar fill before alpha is applied.
func (d *Decoration) TitleBarColor() color.NRGBA {
	c := d.client
	switch {
	case d.hideTitleBar():
		return c.Color(Inactive, RoleTitleBar)
	case d.anim.Running():
		return animation.LerpColor(c.Color(Inactive, RoleTitleBar), c.Color(Active, RoleTitleBar), d.opacity)
	default:
		return c.Color(groupFor(c.IsActive()), RoleTitleBar)
	}
}

// FontColor is the caption and icon color.
func (d *Decoration) FontColor() color.NRGBA {
	c := d.client
	if d.anim.Running() {
		return animation.LerpColor(c.Color(Inactive, RoleForeground), c.Color(Active, RoleForeground), d.opacity)
	}
	return c.Color(groupFor(c.IsActive()), RoleForeground)
}

func groupFor(active bool) ColorGroup {
	if active {
		return Active
	}
	return Inactive
}

// TitleBarAlpha is the alpha applied to the title bar fill.
func (d *Decoration) TitleBarAlpha() uint8 {
	return TitleBarAlpha(d.opts.OpaqueTitleBar, d.opts.OpacityOverride, d.opts.BackgroundOpacity)
}

// CaptionRect returns where the caption is drawn and how it is aligned.
func (d *Decoration) CaptionRect() (geom.Rect, TextAlign) {
	return ComputeCaptionRect(CaptionInput{
		HideTitleBar: d.hideTitleBar(),
		Alignment:    d.opts.TitleAlignment,
		Width:        d.client.Width(),
		ButtonHeight: ButtonHeight,
		SmallSpacing: d.settings.SmallSpacing,
		Left:         d.left,
		Right:        d.right,
		TextWidth:    d.settings.textWidth(d.client.Caption()),
	})
}

// Paint draws the title bar into s. Nothing is drawn when the title bar is
// hidden or lies outside repaint.
func (d *Decoration) Paint(s Surface, repaint geom.Rect) {
	if d.hideTitleBar() {
		return
	}
	d.paintTitleBar(s, repaint)
}

func (d *Decoration) paintTitleBar(s Surface, repaint geom.Rect) {
	titleRect := geom.Rect{Width: d.client.Width(), Height: ButtonHeight}
	if !titleRect.Intersects(repaint) {
		return
	}

	fill := d.TitleBarColor()
	fill.A = d.TitleBarAlpha()

	s.Save()
	switch {
	case d.isMaximized() || !d.settings.AlphaChannelSupported:
		s.FillRect(titleRect, fill)
	case d.client.IsShaded():
		s.FillRoundedRect(titleRect, shadow.FrameRadius, fill)
	default:
		s.ClipRect(titleRect)
		// Oversized so the clip removes the rounded corners at the bottom and
		// along screen edges.
		r := shadow.FrameRadius
		grown := titleRect.Adjusted(
			pick(d.isLeftEdge(), -r, 0),
			pick(d.isTopEdge(), -r, 0),
			pick(d.isRightEdge(), r, 0),
			r)
		s.FillRoundedRect(grown, shadow.FrameRadius, fill)
	}
	s.Restore()

	fg := d.FontColor()
	rect, align := d.CaptionRect()
	caption := ElideMiddle(d.settings.Font, d.client.Caption(), rect.Width)
	s.DrawText(rect, align, caption, fg)

	for _, g := range []ButtonGroup{d.left, d.right} {
		for _, b := range g.Buttons {
			if b.Geometry.Intersects(repaint) {
				s.DrawIcon(b.IconRect(), b.Type, fg)
			}
		}
	}
}

func pick(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}

func (d *Decoration) rect() geom.Rect {
	return geom.Rect{Width: d.client.Width(), Height: max(d.borders.Top, ButtonHeight)}
}

func (d *Decoration) update(r geom.Rect) {
	d.damage = d.damage.United(r)
}

// TakeDamage returns the area that needs repainting since the last call and
// clears it.
func (d *Decoration) TakeDamage() (geom.Rect, bool) {
	r := d.damage
	d.damage = geom.Rect{}
	return r, !r.Empty()
}

// Borders are the visible decoration borders.
func (d *Decoration) Borders() geom.Margins { return d.borders }

// ResizeOnlyBorders are the invisible grab borders.
func (d *Decoration) ResizeOnlyBorders() geom.Margins { return d.resizeBorders }

// TitleBar is the title bar rect in decoration coordinates.
func (d *Decoration) TitleBar() geom.Rect { return d.titleBar }

// Buttons returns the left and right button groups.
func (d *Decoration) Buttons() (ButtonGroup, ButtonGroup) { return d.left, d.right }

// Shadow is the shared shadow texture, nil when shadows are off.
func (d *Decoration) Shadow() *shadow.Texture { return d.shadow }

// Options are the options currently in effect.
func (d *Decoration) Options() Options { return d.opts }

// Client returns the decorated window.
func (d *Decoration) Client() Client { return d.client }
