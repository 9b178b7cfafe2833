package shadow

import (
	"image"
	"math"

	"github.com/1broseidon/fluentdeco/internal/geom"
)

// gaussianScaleFactor converts a standard deviation into the reach of a
// three-pass box blur that approximates the Gaussian.
var gaussianScaleFactor = (3.0 * math.Sqrt(2*math.Pi) / 4) * 1.5

const blurPasses = 3

func blurStdDev(radius int) float64 {
	return float64(radius) * 0.5
}

func blurRadius(stdDev float64) int {
	return max(2, int(math.Floor(stdDev*gaussianScaleFactor+0.5)))
}

// BlurExtent is how far a layer of the given radius bleeds past its box.
func BlurExtent(radius int) int {
	return blurRadius(blurStdDev(radius))
}

// MinimumBoxSize is the smallest box whose blurred edges do not overlap for
// a layer of the given radius.
func MinimumBoxSize(radius int) geom.Size {
	n := 2*BlurExtent(radius) + 1
	return geom.Size{Width: n, Height: n}
}

// textureSize is the canvas needed to hold a blurred box with the offset.
func textureSize(box geom.Size, radius int, offset geom.Point) geom.Size {
	e := 2 * BlurExtent(radius)
	return geom.Size{
		Width:  box.Width + e + abs(offset.X),
		Height: box.Height + e + abs(offset.Y),
	}
}

// boxSizes returns the per-pass box widths whose repeated application has
// the requested standard deviation.
func boxSizes(sigma float64, passes int) []int {
	n := float64(passes)
	lower := int(math.Floor(math.Sqrt(12*sigma*sigma/n + 1)))
	if lower%2 == 0 {
		lower--
	}
	if lower < 1 {
		lower = 1
	}
	upper := lower + 2
	l := float64(lower)
	m := int(math.Round((12*sigma*sigma - n*l*l - 4*n*l - 3*n) / (-4*l - 4)))

	out := make([]int, passes)
	for i := range out {
		if i < m {
			out[i] = lower
		} else {
			out[i] = upper
		}
	}
	return out
}

// boxBlurAlpha blurs img in place. Pixels outside the image count as
// transparent.
func boxBlurAlpha(img *image.Alpha, sigma float64) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 || sigma <= 0 {
		return
	}
	tmp := make([]uint8, w*h)
	for _, size := range boxSizes(sigma, blurPasses) {
		half := size / 2
		for y := 0; y < h; y++ {
			row := img.Pix[y*img.Stride : y*img.Stride+w]
			blurLine(row, 1, tmp[y*w:y*w+w], 1, w, half)
		}
		for x := 0; x < w; x++ {
			blurLine(tmp[x:], w, img.Pix[x:], img.Stride, h, half)
		}
	}
}

// blurLine averages n samples from src into dst over a window of 2*half+1.
func blurLine(src []uint8, srcStep int, dst []uint8, dstStep int, n int, half int) {
	size := 2*half + 1
	sum := 0
	for i := 0; i < half && i < n; i++ {
		sum += int(src[i*srcStep])
	}
	for i := 0; i < n; i++ {
		if in := i + half; in < n {
			sum += int(src[in*srcStep])
		}
		dst[i*dstStep] = uint8((sum + size/2) / size)
		if out := i - half; out >= 0 {
			sum -= int(src[out*srcStep])
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
