package config

import (
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/fluentdeco/internal/deco"
	"github.com/1broseidon/fluentdeco/internal/shadow"
)

const (
	DefaultTitleAlignment     = "center-full-width"
	DefaultAnimationsDuration = 150 // milliseconds
	DefaultBackgroundOpacity  = 75
	DefaultShadowSize         = "large"
	DefaultShadowStrength     = 255
	DefaultPaletteBase        = "light"
	DefaultLogLevel           = "info"
)

// ColorSet is the title bar palette for one focus state.
type ColorSet struct {
	TitleBar   Color `yaml:"title_bar,omitempty"`
	Foreground Color `yaml:"foreground,omitempty"`
}

// Palette holds the title bar colors. Colors left unset come from the
// builtin palette named by Base.
type Palette struct {
	Base     string   `yaml:"base"`
	Active   ColorSet `yaml:"active,omitempty"`
	Inactive ColorSet `yaml:"inactive,omitempty"`
}

// Color returns the palette color for a focus state and role.
func (p Palette) Color(group deco.ColorGroup, role deco.ColorRole) Color {
	set := p.Inactive
	if group == deco.Active {
		set = p.Active
	}
	if role == deco.RoleForeground {
		return set.Foreground
	}
	return set.TitleBar
}

// ExceptionType selects what an exception pattern is matched against.
type ExceptionType string

const (
	ExceptionWindowClass ExceptionType = "window_class"
	ExceptionWindowTitle ExceptionType = "window_title"
)

// Exception overrides a few title bar settings for matching windows.
type Exception struct {
	Type            ExceptionType `yaml:"type"`
	Pattern         string        `yaml:"pattern"`
	Enabled         bool          `yaml:"enabled"`
	HideTitleBar    bool          `yaml:"hide_title_bar"`
	OpaqueTitleBar  bool          `yaml:"opaque_title_bar"`
	OpacityOverride int           `yaml:"opacity_override"`

	re *regexp.Regexp
}

// DefaultException is the template for a new exception.
func DefaultException() Exception {
	return Exception{
		Type:            ExceptionWindowClass,
		Enabled:         true,
		OpacityOverride: -1,
	}
}

func (e *Exception) compile() error {
	re, err := regexp.Compile(e.Pattern)
	if err != nil {
		return err
	}
	e.re = re
	return nil
}

// Matches reports whether the exception applies to a window.
func (e *Exception) Matches(windowClass, title string) bool {
	if !e.Enabled || strings.TrimSpace(e.Pattern) == "" {
		return false
	}
	if e.re == nil {
		if err := e.compile(); err != nil {
			return false
		}
	}
	subject := windowClass
	if e.Type == ExceptionWindowTitle {
		subject = title
	}
	return e.re.MatchString(subject)
}

// Config holds the application configuration.
type Config struct {
	TitleAlignment     string      `yaml:"title_alignment"`
	AnimationsEnabled  bool        `yaml:"animations_enabled"`
	AnimationsDuration int         `yaml:"animations_duration"`
	BackgroundOpacity  int         `yaml:"background_opacity"`
	ShadowSize         string      `yaml:"shadow_size"`
	ShadowStrength     int         `yaml:"shadow_strength"`
	ShadowColor        Color       `yaml:"shadow_color"`
	LogLevel           string      `yaml:"log_level"`
	Palette            Palette     `yaml:"palette"`
	Exceptions         []Exception `yaml:"exceptions,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		TitleAlignment:     DefaultTitleAlignment,
		AnimationsEnabled:  true,
		AnimationsDuration: DefaultAnimationsDuration,
		BackgroundOpacity:  DefaultBackgroundOpacity,
		ShadowSize:         DefaultShadowSize,
		ShadowStrength:     DefaultShadowStrength,
		ShadowColor:        Color{A: 255},
		LogLevel:           DefaultLogLevel,
		Palette:            BuiltinPalettes()[DefaultPaletteBase],
	}
}

// Options resolves the global settings into decoration options. Unknown
// enum values fall back to their defaults and numbers are clamped.
func (c *Config) Options() deco.Options {
	align, _ := deco.ParseAlignment(c.TitleAlignment)
	return deco.Options{
		TitleAlignment:     align,
		AnimationsEnabled:  c.AnimationsEnabled,
		AnimationsDuration: time.Duration(max(c.AnimationsDuration, 0)) * time.Millisecond,
		BackgroundOpacity:  clamp(c.BackgroundOpacity, 0, 100),
		OpacityOverride:    -1,
		Shadow:             c.ShadowKey(),
	}
}

// ShadowKey is the shared shadow cache key for the configured shadow.
func (c *Config) ShadowKey() shadow.Key {
	size, _ := shadow.ParseSize(c.ShadowSize)
	return shadow.Key{
		Size:     size,
		Strength: clamp(c.ShadowStrength, 0, 255),
		Color:    c.ShadowColor.NRGBA(),
	}.Normalized()
}

// MatchException returns the first enabled exception matching the window.
func (c *Config) MatchException(windowClass, title string) (*Exception, bool) {
	for i := range c.Exceptions {
		if c.Exceptions[i].Matches(windowClass, title) {
			return &c.Exceptions[i], true
		}
	}
	return nil, false
}

// OptionsFor returns the options for one window: the global settings with
// the first matching exception applied.
func (c *Config) OptionsFor(windowClass, title string) deco.Options {
	opts := c.Options()
	if ex, ok := c.MatchException(windowClass, title); ok {
		opts.HideTitleBar = ex.HideTitleBar
		opts.OpaqueTitleBar = ex.OpaqueTitleBar
		opts.OpacityOverride = clamp(ex.OpacityOverride, -1, 100)
	}
	return opts
}

// SlogLevel maps log_level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a text logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: c.SlogLevel(),
	}))
}

// Save writes the configuration to the standard location.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal encodes the config as it would be saved.
func (c *Config) Marshal() ([]byte, error) {
	save := *c
	save.Palette = paletteForSave(c.Palette)
	data, err := yaml.Marshal(&save)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// paletteForSave drops colors that match the builtin base palette.
func paletteForSave(p Palette) Palette {
	base, ok := BuiltinPalettes()[p.Base]
	if !ok {
		return p
	}
	out := Palette{Base: p.Base}
	if p.Active.TitleBar != base.Active.TitleBar {
		out.Active.TitleBar = p.Active.TitleBar
	}
	if p.Active.Foreground != base.Active.Foreground {
		out.Active.Foreground = p.Active.Foreground
	}
	if p.Inactive.TitleBar != base.Inactive.TitleBar {
		out.Inactive.TitleBar = p.Inactive.TitleBar
	}
	if p.Inactive.Foreground != base.Inactive.Foreground {
		out.Inactive.Foreground = p.Inactive.Foreground
	}
	return out
}

// Validate performs strict validation of the effective configuration.
// Out-of-range numbers and unknown enum values pass; see Warnings.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if _, ok := BuiltinPalettes()[c.Palette.Base]; !ok {
		return &ValidationError{Path: "palette.base", Err: fmt.Errorf("palette.base must be one of: %s", strings.Join(BuiltinPaletteNames(), ", "))}
	}
	for i := range c.Exceptions {
		ex := &c.Exceptions[i]
		path := fmt.Sprintf("exceptions.%d", i)
		switch ex.Type {
		case ExceptionWindowClass, ExceptionWindowTitle:
		default:
			return &ValidationError{Path: path + ".type", Err: fmt.Errorf("type must be one of: window_class, window_title")}
		}
		if strings.TrimSpace(ex.Pattern) == "" {
			return &ValidationError{Path: path + ".pattern", Err: fmt.Errorf("pattern is required")}
		}
		if err := ex.compile(); err != nil {
			return &ValidationError{Path: path + ".pattern", Err: fmt.Errorf("invalid regular expression: %w", err)}
		}
	}

	return nil
}

// Warning is a setting that loads but resolves to a different value when
// used.
type Warning struct {
	Path    string
	Message string
	Source  Source
}

func (w Warning) String() string {
	if w.Source.Kind == SourceFile && w.Source.File != "" && w.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", w.Source.File, w.Source.Line, w.Source.Column, w.Path, w.Message)
	}
	return w.Path + ": " + w.Message
}

// Warnings lists the settings that Options and OptionsFor will clamp or
// replace with a default.
func (c *Config) Warnings() []Warning {
	if c == nil {
		return nil
	}

	var out []Warning
	warn := func(path, format string, args ...any) {
		out = append(out, Warning{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if _, ok := deco.ParseAlignment(c.TitleAlignment); !ok {
		warn("title_alignment", "%q is unknown; using %s", c.TitleAlignment, DefaultTitleAlignment)
	}
	if c.AnimationsDuration < 0 {
		warn("animations_duration", "%d is negative; using 0", c.AnimationsDuration)
	}
	if v := clamp(c.BackgroundOpacity, 0, 100); v != c.BackgroundOpacity {
		warn("background_opacity", "%d is outside 0-100; using %d", c.BackgroundOpacity, v)
	}
	if _, ok := shadow.ParseSize(c.ShadowSize); !ok {
		warn("shadow_size", "%q is unknown; using %s", c.ShadowSize, DefaultShadowSize)
	}
	if v := clamp(c.ShadowStrength, 0, 255); v != c.ShadowStrength {
		warn("shadow_strength", "%d is outside 0-255; using %d", c.ShadowStrength, v)
	}
	for i, ex := range c.Exceptions {
		if v := clamp(ex.OpacityOverride, -1, 100); v != ex.OpacityOverride {
			warn(fmt.Sprintf("exceptions.%d.opacity_override", i), "%d is outside -1-100; using %d", ex.OpacityOverride, v)
		}
	}
	return out
}

// LogWarnings reports the load warnings on logger.
func (r *LoadResult) LogWarnings(logger *slog.Logger) {
	for _, w := range r.Warnings {
		logger.Warn("setting adjusted", "path", w.Path, "detail", w.Message, "source", w.Source.File, "line", w.Source.Line)
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// NRGBA is Color as a deco.ColorFunc.
func (p Palette) NRGBA(group deco.ColorGroup, role deco.ColorRole) color.NRGBA {
	return p.Color(group, role).NRGBA()
}
