package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"github.com/1broseidon/fluentdeco/internal/deco"
	"github.com/1broseidon/fluentdeco/internal/geom"
	"github.com/1broseidon/fluentdeco/internal/shadow"
)

// Frame is a decorated window ready to be rasterized: drop shadow, client
// area and title bar.
type Frame struct {
	Decoration   *deco.Decoration
	Font         *Font
	ClientHeight int
	ClientColor  color.NRGBA
}

// Layout returns the canvas size and the window rect inside it.
func (f Frame) Layout() (geom.Size, geom.Rect) {
	b := f.Decoration.Borders()
	window := geom.Rect{
		Width:  f.Decoration.Client().Width() + b.Left + b.Right,
		Height: f.ClientHeight + b.Top + b.Bottom,
	}
	var pad geom.Margins
	if tex := f.Decoration.Shadow(); tex != nil {
		pad = tex.Padding
	}
	window = window.Translate(geom.Point{X: pad.Left, Y: pad.Top})
	return geom.Size{
		Width:  window.Width + pad.Left + pad.Right,
		Height: window.Height + pad.Top + pad.Bottom,
	}, window
}

// Render rasterizes the frame.
func (f Frame) Render() (*image.RGBA, error) {
	size, window := f.Layout()
	if size.Width <= 0 || size.Height <= 0 {
		return nil, fmt.Errorf("empty frame %dx%d", size.Width, size.Height)
	}
	canvas := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	if tex := f.Decoration.Shadow(); tex != nil {
		DrawShadow(canvas, tex, window)
	}

	dc := gg.NewContextForImage(canvas)
	defer dc.Close()

	s := NewSurface(dc, f.Font, geom.Point{X: window.X, Y: window.Y})
	b := f.Decoration.Borders()
	s.FillRect(geom.Rect{
		X:      b.Left,
		Y:      b.Top,
		Width:  window.Width - b.Left - b.Right,
		Height: f.ClientHeight,
	}, f.ClientColor)
	f.Decoration.Paint(s, geom.FromSize(window.Size()))
	if err := s.Err(); err != nil {
		return nil, err
	}
	return toRGBA(dc.Image()), nil
}

// DrawShadow stretches the texture around window as a nine-patch split at the
// texture's inner rect. Corner tiles are copied as is and the middle row and
// column are stretched to fit.
func DrawShadow(dst *image.RGBA, tex *shadow.Texture, window geom.Rect) {
	src := tex.Bounds()
	inner := tex.InnerRect
	target := geom.Rect{
		X:      window.X - tex.Padding.Left,
		Y:      window.Y - tex.Padding.Top,
		Width:  window.Width + tex.Padding.Left + tex.Padding.Right,
		Height: window.Height + tex.Padding.Top + tex.Padding.Bottom,
	}

	srcCols := splits(src.X, inner.X, inner.X+inner.Width, src.X+src.Width)
	srcRows := splits(src.Y, inner.Y, inner.Y+inner.Height, src.Y+src.Height)
	left := inner.X - src.X
	right := src.X + src.Width - (inner.X + inner.Width)
	top := inner.Y - src.Y
	bottom := src.Y + src.Height - (inner.Y + inner.Height)
	dstCols := splits(target.X, target.X+left, target.X+target.Width-right, target.X+target.Width)
	dstRows := splits(target.Y, target.Y+top, target.Y+target.Height-bottom, target.Y+target.Height)

	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			s := image.Rect(srcCols[col], srcRows[row], srcCols[col+1], srcRows[row+1])
			d := image.Rect(dstCols[col], dstRows[row], dstCols[col+1], dstRows[row+1])
			if s.Empty() || d.Empty() {
				continue
			}
			if s.Dx() == d.Dx() && s.Dy() == d.Dy() {
				draw.Draw(dst, d, tex.Image, s.Min, draw.Over)
				continue
			}
			draw.NearestNeighbor.Scale(dst, d, tex.Image, s, draw.Over, nil)
		}
	}
}

func splits(a, b, c, d int) [4]int {
	// A window narrower than the corners overlaps the middle edges; clamp
	// so tiles never run backwards.
	b = min(max(b, a), d)
	c = min(max(c, b), d)
	return [4]int{a, b, c, d}
}

func toRGBA(img image.Image) *image.RGBA {
	if out, ok := img.(*image.RGBA); ok {
		return out
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Rect, img, img.Bounds().Min, draw.Src)
	return out
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	dc := gg.NewContextForImage(img)
	defer dc.Close()
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG writes img to path, creating parent directories.
func SavePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := EncodePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
