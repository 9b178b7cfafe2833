package deco

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/1broseidon/fluentdeco/internal/geom"
	"github.com/1broseidon/fluentdeco/internal/shadow"
)

// Theme metrics.
const (
	ButtonHeight       = 30
	ButtonNominalWidth = 46
	IconSize           = 16
)

// ColorGroup selects the palette for focused or unfocused windows.
type ColorGroup int

const (
	Inactive ColorGroup = iota
	Active
)

// ColorRole selects a color within a group.
type ColorRole int

const (
	RoleTitleBar ColorRole = iota
	RoleForeground
)

// Edges is a set of screen edges the window touches.
type Edges uint8

const (
	EdgeLeft Edges = 1 << iota
	EdgeTop
	EdgeRight
	EdgeBottom
)

// Has reports whether e contains every edge in o.
func (e Edges) Has(o Edges) bool {
	return e&o == o
}

// Alignment is the configured caption placement.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignCenterFullWidth
	AlignRight
)

// DefaultAlignment is the caption placement used when nothing is configured.
const DefaultAlignment = AlignCenterFullWidth

var alignmentNames = map[Alignment]string{
	AlignLeft:            "left",
	AlignCenter:          "center",
	AlignCenterFullWidth: "center-full-width",
	AlignRight:           "right",
}

func (a Alignment) String() string {
	if name, ok := alignmentNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Alignment(%d)", int(a))
}

// ParseAlignment maps a config name to an alignment. Unknown names return
// DefaultAlignment and false.
func ParseAlignment(name string) (Alignment, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "_", "-")
	for a, n := range alignmentNames {
		if n == name {
			return a, true
		}
	}
	return DefaultAlignment, false
}

// AlignmentNames lists the accepted names in declaration order.
func AlignmentNames() []string {
	return []string{"left", "center", "center-full-width", "right"}
}

// TextAlign is the horizontal placement of text inside its rect. Text is
// always vertically centered.
type TextAlign int

const (
	TextLeft TextAlign = iota
	TextCenter
	TextRight
)

func (a TextAlign) String() string {
	switch a {
	case TextLeft:
		return "left"
	case TextCenter:
		return "center"
	case TextRight:
		return "right"
	default:
		return fmt.Sprintf("TextAlign(%d)", int(a))
	}
}

// ButtonType identifies a title bar button.
type ButtonType int

const (
	ButtonMenu ButtonType = iota
	ButtonApplicationMenu
	ButtonOnAllDesktops
	ButtonMinimize
	ButtonMaximize
	ButtonClose
	ButtonContextHelp
	ButtonShade
	ButtonKeepBelow
	ButtonKeepAbove
)

var buttonNames = map[ButtonType]string{
	ButtonMenu:            "menu",
	ButtonApplicationMenu: "application-menu",
	ButtonOnAllDesktops:   "on-all-desktops",
	ButtonMinimize:        "minimize",
	ButtonMaximize:        "maximize",
	ButtonClose:           "close",
	ButtonContextHelp:     "context-help",
	ButtonShade:           "shade",
	ButtonKeepBelow:       "keep-below",
	ButtonKeepAbove:       "keep-above",
}

func (b ButtonType) String() string {
	if name, ok := buttonNames[b]; ok {
		return name
	}
	return fmt.Sprintf("ButtonType(%d)", int(b))
}

// ParseButtonType maps a name such as "close" to its button.
func ParseButtonType(name string) (ButtonType, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for b, n := range buttonNames {
		if n == name {
			return b, true
		}
	}
	return 0, false
}

// Default button lists used when the host supplies none.
var (
	DefaultLeftButtons  = []ButtonType{ButtonMenu}
	DefaultRightButtons = []ButtonType{ButtonMinimize, ButtonMaximize, ButtonClose}
)

// Client is the window being decorated.
type Client interface {
	Width() int
	Caption() string
	WindowClass() string
	IsActive() bool
	IsMaximizedHorizontally() bool
	IsMaximizedVertically() bool
	IsShaded() bool
	AdjacentEdges() Edges
	Color(group ColorGroup, role ColorRole) color.NRGBA
}

// FontMetrics measures the title font.
type FontMetrics interface {
	Height() int
	TextWidth(s string) int
}

// Settings are the host-wide decoration settings.
type Settings struct {
	Font                  FontMetrics
	SmallSpacing          int
	LargeSpacing          int
	AlphaChannelSupported bool
	LeftButtons           []ButtonType
	RightButtons          []ButtonType
}

func (s Settings) fontHeight() int {
	if s.Font == nil {
		return 0
	}
	return s.Font.Height()
}

func (s Settings) textWidth(text string) int {
	if s.Font == nil {
		return 0
	}
	return s.Font.TextWidth(text)
}

// Options are the theme settings in effect for one window.
type Options struct {
	TitleAlignment     Alignment
	AnimationsEnabled  bool
	AnimationsDuration time.Duration
	BackgroundOpacity  int
	HideTitleBar       bool
	OpaqueTitleBar     bool
	// OpacityOverride replaces BackgroundOpacity when >= 0.
	OpacityOverride int
	Shadow          shadow.Key
}

// DefaultOptions mirrors the shipped configuration defaults.
func DefaultOptions() Options {
	return Options{
		TitleAlignment:     DefaultAlignment,
		AnimationsEnabled:  true,
		AnimationsDuration: 150 * time.Millisecond,
		BackgroundOpacity:  75,
		OpacityOverride:    -1,
		Shadow: shadow.Key{
			Size:     shadow.DefaultSize,
			Strength: 255,
			Color:    color.NRGBA{A: 255},
		},
	}
}

// OptionsProvider resolves the options for a window.
type OptionsProvider interface {
	OptionsFor(windowClass, caption string) Options
}

// StaticOptions applies the same options to every window.
type StaticOptions Options

// OptionsFor returns o for every window.
func (o StaticOptions) OptionsFor(string, string) Options {
	return Options(o)
}

// Scheduler defers work until the host is idle.
type Scheduler interface {
	Schedule(fn func())
}

// Surface is the paint target for a decoration.
type Surface interface {
	Save()
	Restore()
	ClipRect(r geom.Rect)
	FillRect(r geom.Rect, c color.NRGBA)
	FillRoundedRect(r geom.Rect, radius float64, c color.NRGBA)
	DrawText(r geom.Rect, align TextAlign, text string, c color.NRGBA)
	DrawIcon(r geom.Rect, button ButtonType, c color.NRGBA)
}

// Plugin is the lifecycle a host drives.
type Plugin interface {
	Init() error
	Reconfigure() error
	Paint(s Surface, repaint geom.Rect)
	Close()
}
