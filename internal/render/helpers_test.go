package render

import (
	"image"

	"github.com/1broseidon/fluentdeco/internal/geom"
)

func imageFor(window geom.Rect, pad geom.Margins) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0,
		window.X+window.Width+pad.Right,
		window.Y+window.Height+pad.Bottom))
}
