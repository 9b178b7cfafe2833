package config

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/gogpu/gg"
	"gopkg.in/yaml.v3"
)

// Color is an sRGB color written as "#rrggbb" or "#rrggbbaa" in YAML.
type Color color.NRGBA

// ParseColor parses "#rgb", "#rgba", "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3, 4, 6, 8:
	default:
		return Color{}, fmt.Errorf("invalid color %q: expected #rrggbb", s)
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return Color{}, fmt.Errorf("invalid color %q: %q is not a hex digit", s, r)
		}
	}
	c := gg.Hex(hex)
	return Color{
		R: to8(c.R),
		G: to8(c.G),
		B: to8(c.B),
		A: to8(c.A),
	}, nil
}

// MustParseColor is ParseColor for constants.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func to8(v float64) uint8 {
	return uint8(math.Round(min(max(v, 0), 1) * 255))
}

// NRGBA returns the color as a standard library value.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA(c)
}

// String formats the color as "#rrggbb", adding the alpha byte only when
// the color is not opaque.
func (c Color) String() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// IsZero reports whether the color was never set.
func (c Color) IsZero() bool {
	return c == Color{}
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string like \"#rrggbb\"")
	}
	if value.Tag == "!!null" {
		// An unquoted #rrggbb is read as a comment.
		return fmt.Errorf("color is empty; quote it, e.g. \"#000000\"")
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}
