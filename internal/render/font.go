package render

import (
	"fmt"
	"math"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/1broseidon/fluentdeco/internal/deco"
)

// DefaultFontSize is the title font size in pixels.
const DefaultFontSize = 13

// Font is the title font. It implements deco.FontMetrics.
type Font struct {
	source *text.FontSource
	face   text.Face
}

// NewFont loads Go Regular at the given size.
func NewFont(size float64) (*Font, error) {
	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load title font: %w", err)
	}
	return &Font{source: source, face: source.Face(size)}, nil
}

func (f *Font) Face() text.Face {
	return f.face
}

// Height is the line height rounded up to whole pixels.
func (f *Font) Height() int {
	return int(math.Ceil(f.face.Metrics().LineHeight()))
}

// Ascent is the baseline offset from the top of a line.
func (f *Font) Ascent() float64 {
	return f.face.Metrics().Ascent
}

func (f *Font) TextWidth(s string) int {
	if s == "" {
		return 0
	}
	return int(math.Ceil(f.face.Advance(s)))
}

func (f *Font) Close() error {
	return f.source.Close()
}

// Spacing used by the shipped hosts.
const (
	SmallSpacing = 2
	LargeSpacing = 8
)

// DefaultSettings are the decoration settings for a host drawing with f and
// compositing the title bar over its own background.
func DefaultSettings(f *Font) deco.Settings {
	return deco.Settings{
		Font:                  f,
		SmallSpacing:          SmallSpacing,
		LargeSpacing:          LargeSpacing,
		AlphaChannelSupported: true,
		LeftButtons:           append([]deco.ButtonType(nil), deco.DefaultLeftButtons...),
		RightButtons:          append([]deco.ButtonType(nil), deco.DefaultRightButtons...),
	}
}
