package shadow

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"github.com/1broseidon/fluentdeco/internal/geom"
)

// Layer is one blurred copy of the box.
type Layer struct {
	Offset geom.Point
	Radius int
	Color  color.NRGBA
}

// BoxRenderer composites blurred rounded boxes into a single texture.
type BoxRenderer struct {
	BoxSize      geom.Size
	BorderRadius float64

	layers []Layer
}

// AddShadow queues a layer. The color's alpha carries the layer opacity.
func (r *BoxRenderer) AddShadow(offset geom.Point, radius int, c color.NRGBA) {
	r.layers = append(r.layers, Layer{Offset: offset, Radius: radius, Color: c})
}

// Layers returns the queued layers.
func (r *BoxRenderer) Layers() []Layer {
	return r.layers
}

// CanvasSize is the size of the image Render will produce.
func (r *BoxRenderer) CanvasSize() geom.Size {
	var size geom.Size
	for _, l := range r.layers {
		size = size.ExpandedTo(textureSize(r.BoxSize, l.Radius, l.Offset))
	}
	return size
}

// Render draws every layer centered on the canvas. An empty renderer
// produces a nil image.
func (r *BoxRenderer) Render() (*image.RGBA, error) {
	size := r.CanvasSize()
	if size.Width <= 0 || size.Height <= 0 {
		return nil, nil
	}
	canvas := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	boxRect := geom.FromSize(r.BoxSize).MoveCenter(geom.FromSize(size).Center())
	for i, l := range r.layers {
		if err := r.renderLayer(canvas, boxRect, l); err != nil {
			return nil, fmt.Errorf("shadow layer %d: %w", i, err)
		}
	}
	return canvas, nil
}

func (r *BoxRenderer) renderLayer(canvas *image.RGBA, boxRect geom.Rect, l Layer) error {
	extent := BlurExtent(l.Radius)
	size := geom.Size{
		Width:  boxRect.Width + 2*extent,
		Height: boxRect.Height + 2*extent,
	}
	mask, err := roundedRectMask(size, float64(extent), float64(extent),
		float64(boxRect.Width), float64(boxRect.Height), r.BorderRadius)
	if err != nil {
		return err
	}
	boxBlurAlpha(mask, blurStdDev(l.Radius))

	dst := geom.FromSize(size).MoveCenter(boxRect.Center().Add(l.Offset))
	draw.DrawMask(canvas, dst.Image(), image.NewUniform(l.Color), image.Point{}, mask, image.Point{}, draw.Over)
	return nil
}

// roundedRectMask rasterizes an anti-aliased rounded rect into a coverage
// mask of the given size.
func roundedRectMask(size geom.Size, x, y, w, h, radius float64) (*image.Alpha, error) {
	dc := gg.NewContext(size.Width, size.Height)
	defer dc.Close()
	dc.SetRGBA(0, 0, 0, 1)
	dc.DrawRoundedRectangle(x, y, w, h, radius)
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("rasterize rounded rect: %w", err)
	}
	bounds := image.Rect(0, 0, size.Width, size.Height)
	mask := image.NewAlpha(bounds)
	draw.Draw(mask, bounds, dc.Image(), image.Point{}, draw.Src)
	return mask, nil
}
