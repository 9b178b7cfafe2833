package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawColorSet struct {
	TitleBar   *Color `yaml:"title_bar"`
	Foreground *Color `yaml:"foreground"`
}

type RawPalette struct {
	Base     *string      `yaml:"base"`
	Active   *RawColorSet `yaml:"active"`
	Inactive *RawColorSet `yaml:"inactive"`
}

type RawException struct {
	Type            *ExceptionType `yaml:"type"`
	Pattern         *string        `yaml:"pattern"`
	Enabled         *bool          `yaml:"enabled"`
	HideTitleBar    *bool          `yaml:"hide_title_bar"`
	OpaqueTitleBar  *bool          `yaml:"opaque_title_bar"`
	OpacityOverride *int           `yaml:"opacity_override"`
}

type RawConfig struct {
	Include            IncludeList    `yaml:"include"`
	TitleAlignment     *string        `yaml:"title_alignment"`
	AnimationsEnabled  *bool          `yaml:"animations_enabled"`
	AnimationsDuration *int           `yaml:"animations_duration"`
	BackgroundOpacity  *int           `yaml:"background_opacity"`
	ShadowSize         *string        `yaml:"shadow_size"`
	ShadowStrength     *int           `yaml:"shadow_strength"`
	ShadowColor        *Color         `yaml:"shadow_color"`
	LogLevel           *string        `yaml:"log_level"`
	Palette            *RawPalette    `yaml:"palette"`
	Exceptions         []RawException `yaml:"exceptions"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.TitleAlignment != nil {
		out.TitleAlignment = overlay.TitleAlignment
	}
	if overlay.AnimationsEnabled != nil {
		out.AnimationsEnabled = overlay.AnimationsEnabled
	}
	if overlay.AnimationsDuration != nil {
		out.AnimationsDuration = overlay.AnimationsDuration
	}
	if overlay.BackgroundOpacity != nil {
		out.BackgroundOpacity = overlay.BackgroundOpacity
	}
	if overlay.ShadowSize != nil {
		out.ShadowSize = overlay.ShadowSize
	}
	if overlay.ShadowStrength != nil {
		out.ShadowStrength = overlay.ShadowStrength
	}
	if overlay.ShadowColor != nil {
		out.ShadowColor = overlay.ShadowColor
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Palette != nil {
		if out.Palette == nil {
			p := *overlay.Palette
			out.Palette = &p
		} else {
			merged := mergeRawPalette(*out.Palette, *overlay.Palette)
			out.Palette = &merged
		}
	}
	// Exception lists are ordered, so a later file replaces the whole list.
	if overlay.Exceptions != nil {
		out.Exceptions = append([]RawException(nil), overlay.Exceptions...)
	}

	return out
}

func mergeRawPalette(base RawPalette, overlay RawPalette) RawPalette {
	out := base
	if overlay.Base != nil {
		out.Base = overlay.Base
	}
	out.Active = mergeRawColorSet(base.Active, overlay.Active)
	out.Inactive = mergeRawColorSet(base.Inactive, overlay.Inactive)
	return out
}

func mergeRawColorSet(base *RawColorSet, overlay *RawColorSet) *RawColorSet {
	if overlay == nil {
		return base
	}
	if base == nil {
		cs := *overlay
		return &cs
	}
	out := *base
	if overlay.TitleBar != nil {
		out.TitleBar = overlay.TitleBar
	}
	if overlay.Foreground != nil {
		out.Foreground = overlay.Foreground
	}
	return &out
}
