package geom

import "image"

// Point is an integer position in device pixels.
type Point struct {
	X int
	Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Size is an integer extent.
type Size struct {
	Width  int
	Height int
}

// ExpandedTo returns the component-wise maximum of s and o.
func (s Size) ExpandedTo(o Size) Size {
	out := s
	if o.Width > out.Width {
		out.Width = o.Width
	}
	if o.Height > out.Height {
		out.Height = o.Height
	}
	return out
}

// Margins is a four-sided inset.
type Margins struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Rect represents a window position and size.
//
// Edges follow the inclusive convention of the decoration host: Right() is
// X+Width-1 and Bottom() is Y+Height-1.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// FromSize returns a rect at the origin with the given size.
func FromSize(s Size) Rect {
	return Rect{Width: s.Width, Height: s.Height}
}

func (r Rect) Left() int   { return r.X }
func (r Rect) Top() int    { return r.Y }
func (r Rect) Right() int  { return r.X + r.Width - 1 }
func (r Rect) Bottom() int { return r.Y + r.Height - 1 }

// Size returns the rect's extent.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Empty reports whether the rect covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Center returns the inclusive center, rounding toward the top-left.
func (r Rect) Center() Point {
	return Point{X: (r.Left() + r.Right()) / 2, Y: (r.Top() + r.Bottom()) / 2}
}

// MoveCenter returns r translated so that its Center is c.
func (r Rect) MoveCenter(c Point) Rect {
	out := r
	out.X = c.X - (r.Width-1)/2
	out.Y = c.Y - (r.Height-1)/2
	return out
}

// MoveLeft returns r with its left edge at x, keeping its width.
func (r Rect) MoveLeft(x int) Rect {
	out := r
	out.X = x
	return out
}

// Translate returns r shifted by p.
func (r Rect) Translate(p Point) Rect {
	out := r
	out.X += p.X
	out.Y += p.Y
	return out
}

// Adjusted moves each edge independently, like growing the left edge by dx1.
func (r Rect) Adjusted(dx1, dy1, dx2, dy2 int) Rect {
	return Rect{
		X:      r.X + dx1,
		Y:      r.Y + dy1,
		Width:  r.Width - dx1 + dx2,
		Height: r.Height - dy1 + dy2,
	}
}

// Shrink returns r inset by m.
func (r Rect) Shrink(m Margins) Rect {
	return r.Adjusted(m.Left, m.Top, -m.Right, -m.Bottom)
}

// Intersects reports whether r and o share at least one pixel.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.Left() <= o.Right() && o.Left() <= r.Right() &&
		r.Top() <= o.Bottom() && o.Top() <= r.Bottom()
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return o.Left() >= r.Left() && o.Right() <= r.Right() &&
		o.Top() >= r.Top() && o.Bottom() <= r.Bottom()
}

// Image converts to a half-open image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// United returns the smallest rect covering r and o. Empty rects are ignored.
func (r Rect) United(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	left := min(r.Left(), o.Left())
	top := min(r.Top(), o.Top())
	right := max(r.Right(), o.Right())
	bottom := max(r.Bottom(), o.Bottom())
	return Rect{X: left, Y: top, Width: right - left + 1, Height: bottom - top + 1}
}
