package render

import (
	"fmt"
	"image/color"

	"github.com/gogpu/gg"

	"github.com/1broseidon/fluentdeco/internal/deco"
	"github.com/1broseidon/fluentdeco/internal/geom"
)

// Surface paints decorations onto a gg context. Coordinates are relative to
// Origin. Drawing errors do not stop painting; the first one is kept and
// returned by Err.
type Surface struct {
	dc     *gg.Context
	font   *Font
	origin geom.Point
	err    error
}

func NewSurface(dc *gg.Context, font *Font, origin geom.Point) *Surface {
	return &Surface{dc: dc, font: font, origin: origin}
}

// Err returns the first drawing error.
func (s *Surface) Err() error {
	return s.err
}

func (s *Surface) record(op string, err error) {
	if err != nil && s.err == nil {
		s.err = fmt.Errorf("%s: %w", op, err)
	}
}

func (s *Surface) abs(r geom.Rect) (x, y, w, h float64) {
	return float64(r.X + s.origin.X), float64(r.Y + s.origin.Y), float64(r.Width), float64(r.Height)
}

func (s *Surface) Save() {
	s.dc.Push()
}

func (s *Surface) Restore() {
	s.dc.Pop()
}

func (s *Surface) ClipRect(r geom.Rect) {
	s.dc.ClipRect(s.abs(r))
}

func (s *Surface) FillRect(r geom.Rect, c color.NRGBA) {
	if r.Empty() {
		return
	}
	x, y, w, h := s.abs(r)
	s.dc.SetColor(c)
	s.dc.DrawRectangle(x, y, w, h)
	s.record("fill rect", s.dc.Fill())
}

func (s *Surface) FillRoundedRect(r geom.Rect, radius float64, c color.NRGBA) {
	if r.Empty() {
		return
	}
	x, y, w, h := s.abs(r)
	s.dc.SetColor(c)
	s.dc.DrawRoundedRectangle(x, y, w, h, radius)
	s.record("fill rounded rect", s.dc.Fill())
}

// DrawText draws a single line vertically centered in r.
func (s *Surface) DrawText(r geom.Rect, align deco.TextAlign, text string, c color.NRGBA) {
	if text == "" || r.Empty() || s.font == nil {
		return
	}
	x, y, w, h := s.abs(r)
	width := float64(s.font.TextWidth(text))
	switch align {
	case deco.TextCenter:
		x += (w - width) / 2
	case deco.TextRight:
		x += w - width
	}
	baseline := y + (h-float64(s.font.Height()))/2 + s.font.Ascent()
	s.dc.SetFont(s.font.Face())
	s.dc.SetColor(c)
	s.dc.DrawString(text, x, baseline)
}

// DrawIcon draws a flat line glyph for the button type.
func (s *Surface) DrawIcon(r geom.Rect, button deco.ButtonType, c color.NRGBA) {
	if r.Empty() {
		return
	}
	x, y, w, h := s.abs(r)
	// Glyphs sit in the middle 10px of the icon box.
	inset := (w - 10) / 2
	l, t, rr, b := x+inset, y+inset, x+w-inset, y+h-inset
	mx, my := x+w/2, y+h/2

	s.dc.SetColor(c)
	s.dc.SetLineWidth(1)
	switch button {
	case deco.ButtonClose:
		s.dc.DrawLine(l, t, rr, b)
		s.dc.DrawLine(rr, t, l, b)
	case deco.ButtonMaximize:
		s.dc.DrawRectangle(l+0.5, t+0.5, rr-l-1, b-t-1)
	case deco.ButtonMinimize:
		s.dc.DrawLine(l, my+0.5, rr, my+0.5)
	case deco.ButtonMenu, deco.ButtonApplicationMenu:
		for _, yy := range []float64{t + 1.5, my + 0.5, b - 1.5} {
			s.dc.DrawLine(l, yy, rr, yy)
		}
	case deco.ButtonOnAllDesktops:
		s.dc.DrawCircle(mx, my, 3)
	case deco.ButtonShade:
		s.dc.DrawLine(l, t+0.5, rr, t+0.5)
		s.dc.DrawLine(l, b-1, mx, my)
		s.dc.DrawLine(mx, my, rr, b-1)
	case deco.ButtonKeepAbove:
		s.dc.DrawLine(l, my+2, mx, t+2)
		s.dc.DrawLine(mx, t+2, rr, my+2)
	case deco.ButtonKeepBelow:
		s.dc.DrawLine(l, my-2, mx, b-2)
		s.dc.DrawLine(mx, b-2, rr, my-2)
	case deco.ButtonContextHelp:
		s.DrawText(r, deco.TextCenter, "?", c)
		return
	default:
		return
	}
	s.record("draw icon", s.dc.Stroke())
}
