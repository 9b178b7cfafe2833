package shadow

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"github.com/1broseidon/fluentdeco/internal/geom"
)

const (
	// FrameRadius is the corner radius of the window frame.
	FrameRadius = 3
	// Overlap is how far the shadow reaches under the frame so the cut-out
	// edge and the outline anti-alias into the blur.
	Overlap = 3
)

// Key identifies a texture. Two decorations with equal keys share one.
type Key struct {
	Size     Size
	Strength int
	Color    color.NRGBA
}

// Normalized clamps strength to 0..255 and maps unknown sizes to the default.
func (k Key) Normalized() Key {
	out := k
	if !out.Size.Valid() {
		out.Size = DefaultSize
	}
	out.Strength = min(max(out.Strength, 0), 255)
	out.Color.A = 255
	return out
}

// Texture is a rendered shadow ready to be nine-patched around a window.
type Texture struct {
	Image *image.RGBA
	// Padding is the distance from each outer edge to the window frame.
	Padding geom.Margins
	// InnerRect is a 1x1 anchor at the center of the image.
	InnerRect geom.Rect
	Key       Key
}

// Bounds is the rect of the whole texture.
func (t *Texture) Bounds() geom.Rect {
	b := t.Image.Bounds()
	return geom.Rect{Width: b.Dx(), Height: b.Dy()}
}

// FrameRect is the part of the texture the window frame covers.
func (t *Texture) FrameRect() geom.Rect {
	return t.Bounds().Shrink(t.Padding)
}

func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	out := c
	out.A = uint8(min(max(opacity, 0), 1)*255 + 0.5)
	return out
}

// Build renders the texture for key. A preset with no blur returns nil.
func Build(key Key) (*Texture, error) {
	key = key.Normalized()
	params := Lookup(key.Size)
	if params.IsNone() {
		return nil, nil
	}

	boxSize := MinimumBoxSize(params.Shadow1.Radius).ExpandedTo(MinimumBoxSize(params.Shadow2.Radius))
	strength := float64(key.Strength) / 255

	r := &BoxRenderer{
		BoxSize:      boxSize,
		BorderRadius: FrameRadius + 0.5,
	}
	r.AddShadow(params.Shadow1.Offset, params.Shadow1.Radius, withOpacity(key.Color, params.Shadow1.Opacity*strength))
	r.AddShadow(params.Shadow2.Offset, params.Shadow2.Radius, withOpacity(key.Color, params.Shadow2.Opacity*strength))

	img, err := r.Render()
	if err != nil {
		return nil, err
	}

	outer := geom.Rect{Width: img.Rect.Dx(), Height: img.Rect.Dy()}
	boxRect := geom.FromSize(boxSize).MoveCenter(outer.Center())
	padding := geom.Margins{
		Left:   boxRect.Left() - outer.Left() - Overlap - params.Offset.X,
		Top:    boxRect.Top() - outer.Top() - Overlap - params.Offset.Y,
		Right:  outer.Right() - boxRect.Right() - Overlap + params.Offset.X,
		Bottom: outer.Bottom() - boxRect.Bottom() - Overlap + params.Offset.Y,
	}
	inner := outer.Shrink(padding)

	if err := cutOut(img, inner, FrameRadius+0.5); err != nil {
		return nil, err
	}
	img, err = strokeOutline(img, inner, FrameRadius-0.5, withOpacity(key.Color, 0.2*strength))
	if err != nil {
		return nil, err
	}

	center := outer.Center()
	return &Texture{
		Image:     img,
		Padding:   padding,
		InnerRect: geom.Rect{X: center.X, Y: center.Y, Width: 1, Height: 1},
		Key:       key,
	}, nil
}

// cutOut erases the rounded rect from img, scaling every channel by the
// inverse of the shape's coverage.
func cutOut(img *image.RGBA, rect geom.Rect, radius float64) error {
	b := img.Rect
	mask, err := roundedRectMask(geom.Size{Width: b.Dx(), Height: b.Dy()},
		float64(rect.X), float64(rect.Y), float64(rect.Width), float64(rect.Height), radius)
	if err != nil {
		return fmt.Errorf("cut out frame: %w", err)
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			m := uint32(mask.Pix[y*mask.Stride+x])
			if m == 0 {
				continue
			}
			keep := 255 - m
			i := y*img.Stride + x*4
			for c := 0; c < 4; c++ {
				img.Pix[i+c] = uint8((uint32(img.Pix[i+c])*keep + 127) / 255)
			}
		}
	}
	return nil
}

func strokeOutline(img *image.RGBA, rect geom.Rect, radius float64, c color.NRGBA) (*image.RGBA, error) {
	dc := gg.NewContextForImage(img)
	defer dc.Close()
	dc.SetColor(c)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(float64(rect.X), float64(rect.Y), float64(rect.Width), float64(rect.Height), radius)
	if err := dc.Stroke(); err != nil {
		return nil, fmt.Errorf("stroke frame outline: %w", err)
	}
	if out, ok := dc.Image().(*image.RGBA); ok {
		return out, nil
	}
	out := image.NewRGBA(img.Rect)
	draw.Draw(out, out.Rect, dc.Image(), img.Rect.Min, draw.Src)
	return out, nil
}
