package shadow

import (
	"fmt"
	"strings"

	"github.com/1broseidon/fluentdeco/internal/geom"
)

// Size selects one of the fixed shadow presets.
type Size int

const (
	SizeNone Size = iota
	SizeSmall
	SizeMedium
	SizeLarge
	SizeVeryLarge
)

// DefaultSize is used when nothing is configured or the value is unknown.
const DefaultSize = SizeLarge

var sizeNames = map[Size]string{
	SizeNone:      "none",
	SizeSmall:     "small",
	SizeMedium:    "medium",
	SizeLarge:     "large",
	SizeVeryLarge: "very-large",
}

func (s Size) String() string {
	if name, ok := sizeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Size(%d)", int(s))
}

// Valid reports whether s names a known preset.
func (s Size) Valid() bool {
	_, ok := sizeNames[s]
	return ok
}

// ParseSize maps a config name to a preset. Unknown names report ok=false and
// return DefaultSize.
func ParseSize(name string) (Size, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "_", "-")
	for size, n := range sizeNames {
		if n == name {
			return size, true
		}
	}
	return DefaultSize, false
}

// SizeNames lists preset names in preset order.
func SizeNames() []string {
	out := make([]string, 0, len(sizeNames))
	for s := SizeNone; s <= SizeVeryLarge; s++ {
		out = append(out, sizeNames[s])
	}
	return out
}

// Params describes one blur layer.
type Params struct {
	Offset  geom.Point
	Radius  int
	Opacity float64
}

// CompositeParams is a two-layer preset plus the offset of the window
// relative to the shadow.
type CompositeParams struct {
	Offset  geom.Point
	Shadow1 Params
	Shadow2 Params
}

// IsNone reports whether neither layer casts a shadow.
func (p CompositeParams) IsNone() bool {
	return max(p.Shadow1.Radius, p.Shadow2.Radius) == 0
}

var presets = [...]CompositeParams{
	SizeNone: {},
	SizeSmall: {
		Offset:  geom.Point{Y: 4},
		Shadow1: Params{Radius: 16, Opacity: 1},
		Shadow2: Params{Offset: geom.Point{Y: -2}, Radius: 8, Opacity: 0.4},
	},
	SizeMedium: {
		Offset:  geom.Point{Y: 8},
		Shadow1: Params{Radius: 32, Opacity: 0.9},
		Shadow2: Params{Offset: geom.Point{Y: -4}, Radius: 16, Opacity: 0.3},
	},
	SizeLarge: {
		Offset:  geom.Point{Y: 12},
		Shadow1: Params{Radius: 48, Opacity: 0.8},
		Shadow2: Params{Offset: geom.Point{Y: -6}, Radius: 24, Opacity: 0.2},
	},
	SizeVeryLarge: {
		Offset:  geom.Point{Y: 16},
		Shadow1: Params{Radius: 64, Opacity: 0.7},
		Shadow2: Params{Offset: geom.Point{Y: -8}, Radius: 32, Opacity: 0.1},
	},
}

// Lookup returns the preset for size, falling back to the large preset for
// out-of-range values.
func Lookup(size Size) CompositeParams {
	if !size.Valid() {
		return presets[DefaultSize]
	}
	return presets[size]
}
