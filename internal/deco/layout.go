package deco

import (
	"math"

	"github.com/1broseidon/fluentdeco/internal/geom"
)

// ComputeBorders returns the decoration borders. Only the top border is used,
// sized to fit both the title font and the buttons.
func ComputeBorders(hideTitleBar bool, fontHeight, buttonHeight int) geom.Margins {
	if hideTitleBar {
		return geom.Margins{}
	}
	return geom.Margins{Top: max(fontHeight, buttonHeight)}
}

// ComputeResizeOnlyBorders returns the invisible grab area around the window.
func ComputeResizeOnlyBorders(largeSpacing int) geom.Margins {
	return geom.Margins{Left: largeSpacing, Top: largeSpacing, Right: largeSpacing, Bottom: largeSpacing}
}

// GroupPosition says which side of the title bar a button group sits on.
type GroupPosition int

const (
	GroupLeft GroupPosition = iota
	GroupRight
)

// Button is a laid out title bar button.
type Button struct {
	Type     ButtonType
	Geometry geom.Rect
}

// IconRect is the IconSize square centered in the button.
func (b Button) IconRect() geom.Rect {
	icon := geom.Rect{Width: IconSize, Height: IconSize}
	return icon.MoveCenter(b.Geometry.Center())
}

// ButtonGroup is a row of buttons laid out without spacing.
type ButtonGroup struct {
	Position GroupPosition
	X        int
	Buttons  []Button
}

// Empty reports whether the group has no buttons.
func (g ButtonGroup) Empty() bool {
	return len(g.Buttons) == 0
}

// Width is the sum of the button widths.
func (g ButtonGroup) Width() int {
	w := 0
	for _, b := range g.Buttons {
		w += b.Geometry.Width
	}
	return w
}

// Geometry is the rect the group covers.
func (g ButtonGroup) Geometry() geom.Rect {
	h := 0
	for _, b := range g.Buttons {
		h = max(h, b.Geometry.Height)
	}
	return geom.Rect{X: g.X, Width: g.Width(), Height: h}
}

// Last returns the last button of the group.
func (g ButtonGroup) Last() (Button, bool) {
	if g.Empty() {
		return Button{}, false
	}
	return g.Buttons[len(g.Buttons)-1], true
}

// ButtonWidth is the width of a button of type t. The menu button is square,
// everything else is one and a half times as wide as tall.
func ButtonWidth(t ButtonType, buttonHeight int) int {
	if t == ButtonMenu {
		return buttonHeight
	}
	return int(float64(buttonHeight) * 1.5)
}

func layoutGroup(pos GroupPosition, x, buttonHeight int, types []ButtonType) ButtonGroup {
	g := ButtonGroup{Position: pos, X: x, Buttons: make([]Button, 0, len(types))}
	cursor := x
	for _, t := range types {
		w := ButtonWidth(t, buttonHeight)
		g.Buttons = append(g.Buttons, Button{
			Type:     t,
			Geometry: geom.Rect{X: cursor, Width: w, Height: buttonHeight},
		})
		cursor += w
	}
	return g
}

// ComputeButtonGeometry lays out both button groups for a title bar of the
// given width. The left group starts at 0 and the right group ends flush with
// the right edge.
func ComputeButtonGeometry(width, buttonHeight int, left, right []ButtonType) (ButtonGroup, ButtonGroup) {
	lg := layoutGroup(GroupLeft, 0, buttonHeight, left)

	rg := layoutGroup(GroupRight, 0, buttonHeight, right)
	if !rg.Empty() {
		rg = layoutGroup(GroupRight, width-rg.Width(), buttonHeight, right)
	}
	return lg, rg
}

// CaptionInput is everything caption placement depends on.
type CaptionInput struct {
	HideTitleBar bool
	Alignment    Alignment
	Width        int
	ButtonHeight int
	SmallSpacing int
	Left         ButtonGroup
	Right        ButtonGroup
	// TextWidth is the natural width of the caption in the title font.
	TextWidth int
}

// ComputeCaptionRect places the caption between the button groups.
//
// For AlignCenterFullWidth the caption is centered across the whole title
// bar, falling back to left alignment when it would run into the left group
// and to right alignment when it would run into the right group. The left
// check wins when both apply.
func ComputeCaptionRect(in CaptionInput) (geom.Rect, TextAlign) {
	if in.HideTitleBar {
		return geom.Rect{}, TextCenter
	}

	gap := 4 * in.SmallSpacing

	leftOffset := gap
	if !in.Left.Empty() {
		lgeo := in.Left.Geometry()
		leftOffset = lgeo.X + lgeo.Width + gap
		if last, _ := in.Left.Last(); last.Type == ButtonMenu && in.Alignment == AlignLeft {
			leftOffset -= gap
		}
	}

	rightOffset := gap
	if !in.Right.Empty() {
		rightOffset = in.Width - in.Right.Geometry().X + gap
	}

	maxRect := geom.Rect{X: leftOffset, Width: in.Width - leftOffset - rightOffset, Height: in.ButtonHeight}

	switch in.Alignment {
	case AlignLeft:
		return maxRect, TextLeft
	case AlignRight:
		return maxRect, TextRight
	case AlignCenter:
		return maxRect, TextCenter
	}

	fullRect := geom.Rect{Width: in.Width, Height: in.ButtonHeight}
	bounding := geom.Rect{Width: in.TextWidth, Height: in.ButtonHeight}
	bounding = bounding.MoveLeft((in.Width - bounding.Width) / 2)

	switch {
	case bounding.Left() < leftOffset:
		return maxRect, TextLeft
	case bounding.Right() > in.Width-rightOffset:
		return maxRect, TextRight
	default:
		return fullRect, TextCenter
	}
}

// TitleBarAlpha converts the configured opacity into an 8-bit alpha.
func TitleBarAlpha(opaque bool, opacityOverride, backgroundOpacity int) uint8 {
	if opaque {
		return 255
	}
	a := backgroundOpacity
	if opacityOverride > -1 {
		a = opacityOverride
	}
	a = min(max(a, 0), 100)
	return uint8(math.Round(float64(a) * 2.55))
}

const ellipsis = "…"

// ElideMiddle shortens text to fit width by replacing its middle with an
// ellipsis. Text that already fits is returned unchanged. If not even the
// ellipsis fits the result is empty.
func ElideMiddle(fm FontMetrics, text string, width int) string {
	if fm == nil || fm.TextWidth(text) <= width {
		return text
	}
	runes := []rune(text)
	for keep := len(runes) - 1; keep >= 0; keep-- {
		head := (keep + 1) / 2
		tail := keep / 2
		candidate := string(runes[:head]) + ellipsis + string(runes[len(runes)-tail:])
		if fm.TextWidth(candidate) <= width {
			return candidate
		}
	}
	return ""
}
