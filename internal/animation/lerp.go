package animation

import (
	"image/color"
	"math"
)

// LerpFloat64 linearly interpolates between a and b.
func LerpFloat64(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpColor mixes a and b channel by channel. t is clamped to [0, 1] and the
// endpoints are returned exactly.
func LerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(LerpFloat64(float64(x), float64(y), t)))
	}
	return color.NRGBA{
		R: mix(a.R, b.R),
		G: mix(a.G, b.G),
		B: mix(a.B, b.B),
		A: mix(a.A, b.A),
	}
}
