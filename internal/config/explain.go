package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	title_alignment
//	animations_enabled
//	animations_duration
//	background_opacity
//	shadow_size
//	shadow_strength
//	shadow_color
//	log_level
//	palette.base
//	palette.active.title_bar
//	palette.inactive.foreground
//	exceptions.<index>.pattern
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	// Palette colors not set in a file come from the base palette.
	if strings.HasPrefix(path, "palette.") && path != "palette.base" {
		return value, Source{Kind: SourceBuiltin, Name: res.Config.Palette.Base}, nil
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	leaf := func(v any) (any, error) {
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return v, nil
	}

	switch parts[0] {
	case "title_alignment":
		return leaf(cfg.TitleAlignment)
	case "animations_enabled":
		return leaf(cfg.AnimationsEnabled)
	case "animations_duration":
		return leaf(cfg.AnimationsDuration)
	case "background_opacity":
		return leaf(cfg.BackgroundOpacity)
	case "shadow_size":
		return leaf(cfg.ShadowSize)
	case "shadow_strength":
		return leaf(cfg.ShadowStrength)
	case "shadow_color":
		return leaf(cfg.ShadowColor.String())
	case "log_level":
		return leaf(cfg.LogLevel)
	case "palette":
		return lookupPalette(cfg.Palette, parts[1:], path)
	case "exceptions":
		return lookupException(cfg.Exceptions, parts[1:], path)
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}

func lookupPalette(p Palette, parts []string, path string) (any, error) {
	if len(parts) == 0 {
		return p, nil
	}
	var set ColorSet
	switch parts[0] {
	case "base":
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return p.Base, nil
	case "active":
		set = p.Active
	case "inactive":
		set = p.Inactive
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	if len(parts) == 1 {
		return set, nil
	}
	if len(parts) != 2 {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	switch parts[1] {
	case "title_bar":
		return set.TitleBar.String(), nil
	case "foreground":
		return set.Foreground.String(), nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}

func lookupException(list []Exception, parts []string, path string) (any, error) {
	if len(parts) == 0 {
		return list, nil
	}
	i, err := strconv.Atoi(parts[0])
	if err != nil || i < 0 || i >= len(list) {
		return nil, fmt.Errorf("unknown exceptions entry %q", parts[0])
	}
	ex := list[i]
	if len(parts) == 1 {
		return ex, nil
	}
	if len(parts) != 2 {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	switch parts[1] {
	case "type":
		return string(ex.Type), nil
	case "pattern":
		return ex.Pattern, nil
	case "enabled":
		return ex.Enabled, nil
	case "hide_title_bar":
		return ex.HideTitleBar, nil
	case "opaque_title_bar":
		return ex.OpaqueTitleBar, nil
	case "opacity_override":
		return ex.OpacityOverride, nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
