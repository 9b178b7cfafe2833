package deco

import "image/color"

// ColorFunc resolves a palette color.
type ColorFunc func(group ColorGroup, role ColorRole) color.NRGBA

// WindowState is a Client backed by plain fields, for hosts that track the
// window themselves.
type WindowState struct {
	WindowWidth int
	Title       string
	Class       string
	Active      bool
	MaximizedH  bool
	MaximizedV  bool
	Shaded      bool
	Edges       Edges
	Colors      ColorFunc
}

var _ Client = (*WindowState)(nil)

func (w *WindowState) Width() int                    { return w.WindowWidth }
func (w *WindowState) Caption() string               { return w.Title }
func (w *WindowState) WindowClass() string           { return w.Class }
func (w *WindowState) IsActive() bool                { return w.Active }
func (w *WindowState) IsMaximizedHorizontally() bool { return w.MaximizedH }
func (w *WindowState) IsMaximizedVertically() bool   { return w.MaximizedV }
func (w *WindowState) IsShaded() bool                { return w.Shaded }
func (w *WindowState) AdjacentEdges() Edges          { return w.Edges }

// Color falls back to opaque black and white when no palette is set.
func (w *WindowState) Color(group ColorGroup, role ColorRole) color.NRGBA {
	if w.Colors != nil {
		return w.Colors(group, role)
	}
	if role == RoleForeground {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.NRGBA{A: 255}
}
