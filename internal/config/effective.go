package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies a merged raw config over the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.TitleAlignment != nil {
		cfg.TitleAlignment = strings.TrimSpace(*raw.TitleAlignment)
	}
	if raw.AnimationsEnabled != nil {
		cfg.AnimationsEnabled = *raw.AnimationsEnabled
	}
	if raw.AnimationsDuration != nil {
		cfg.AnimationsDuration = *raw.AnimationsDuration
	}
	if raw.BackgroundOpacity != nil {
		cfg.BackgroundOpacity = *raw.BackgroundOpacity
	}
	if raw.ShadowSize != nil {
		cfg.ShadowSize = strings.TrimSpace(*raw.ShadowSize)
	}
	if raw.ShadowStrength != nil {
		cfg.ShadowStrength = *raw.ShadowStrength
	}
	if raw.ShadowColor != nil {
		cfg.ShadowColor = *raw.ShadowColor
		// Shadow opacity comes from shadow_strength alone.
		cfg.ShadowColor.A = 255
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.TrimSpace(*raw.LogLevel)
	}

	palette, err := buildPalette(raw.Palette)
	if err != nil {
		return nil, err
	}
	cfg.Palette = palette

	if raw.Exceptions != nil {
		cfg.Exceptions = make([]Exception, 0, len(raw.Exceptions))
		for _, re := range raw.Exceptions {
			cfg.Exceptions = append(cfg.Exceptions, buildException(re))
		}
	}

	return cfg, nil
}

func buildPalette(raw *RawPalette) (Palette, error) {
	baseName := DefaultPaletteBase
	if raw != nil && raw.Base != nil {
		baseName = strings.TrimSpace(*raw.Base)
	}
	out, ok := BuiltinPalettes()[baseName]
	if !ok {
		return Palette{}, &ValidationError{
			Path: "palette.base",
			Err:  fmt.Errorf("unknown builtin palette %q (want one of: %s)", baseName, strings.Join(BuiltinPaletteNames(), ", ")),
		}
	}
	if raw == nil {
		return out, nil
	}
	applyColorSet(&out.Active, raw.Active)
	applyColorSet(&out.Inactive, raw.Inactive)
	return out, nil
}

func applyColorSet(dst *ColorSet, raw *RawColorSet) {
	if raw == nil {
		return
	}
	if raw.TitleBar != nil {
		dst.TitleBar = *raw.TitleBar
	}
	if raw.Foreground != nil {
		dst.Foreground = *raw.Foreground
	}
}

func buildException(raw RawException) Exception {
	out := DefaultException()
	if raw.Type != nil {
		out.Type = ExceptionType(strings.TrimSpace(string(*raw.Type)))
	}
	if raw.Pattern != nil {
		out.Pattern = *raw.Pattern
	}
	if raw.Enabled != nil {
		out.Enabled = *raw.Enabled
	}
	if raw.HideTitleBar != nil {
		out.HideTitleBar = *raw.HideTitleBar
	}
	if raw.OpaqueTitleBar != nil {
		out.OpaqueTitleBar = *raw.OpaqueTitleBar
	}
	if raw.OpacityOverride != nil {
		out.OpacityOverride = *raw.OpacityOverride
	}
	return out
}
