package mcp

import "github.com/1broseidon/fluentdeco/internal/geom"

// Rect is a rectangle in tool output.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func rectOf(r geom.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Margins is a set of border widths in tool output.
type Margins struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

func marginsOf(m geom.Margins) Margins {
	return Margins{Left: m.Left, Top: m.Top, Right: m.Right, Bottom: m.Bottom}
}

// ShadowGeometryInput is the input for the shadow_geometry tool.
type ShadowGeometryInput struct {
	Size     string `json:"size,omitempty" jsonschema:"Shadow size: none, small, medium, large or very-large (default: configured size)"`
	Strength *int   `json:"strength,omitempty" jsonschema:"Shadow strength 0-255 (default: configured strength)"`
	Color    string `json:"color,omitempty" jsonschema:"Shadow color as #rrggbb (default: configured color)"`
}

// ShadowGeometryOutput is the output for the shadow_geometry tool.
type ShadowGeometryOutput struct {
	Size     string `json:"size"`
	Strength int    `json:"strength"`
	Color    string `json:"color"`
	// None is true when the size draws no shadow; the other fields are zero.
	None          bool    `json:"none"`
	Padding       Margins `json:"padding"`
	TextureWidth  int     `json:"texture_width"`
	TextureHeight int     `json:"texture_height"`
	InnerRect     Rect    `json:"inner_rect"`
}

// CaptionLayoutInput is the input for the caption_layout tool.
type CaptionLayoutInput struct {
	Width        int      `json:"width" jsonschema:"required,Client width in pixels"`
	Caption      string   `json:"caption,omitempty" jsonschema:"Window caption"`
	Class        string   `json:"class,omitempty" jsonschema:"Window class, used to match configured exceptions"`
	Alignment    string   `json:"alignment,omitempty" jsonschema:"Title alignment: left, center, center-full-width or right (default: configured alignment)"`
	LeftButtons  []string `json:"left_buttons,omitempty" jsonschema:"Buttons on the left, e.g. [menu] (default: [menu])"`
	RightButtons []string `json:"right_buttons,omitempty" jsonschema:"Buttons on the right (default: [minimize maximize close])"`
	Maximized    bool     `json:"maximized,omitempty" jsonschema:"Lay out a maximized window"`
	Shaded       bool     `json:"shaded,omitempty" jsonschema:"Lay out a shaded window"`
}

// ButtonInfo describes one laid out title bar button.
type ButtonInfo struct {
	Type  string `json:"type"`
	Group string `json:"group"`
	Rect  Rect   `json:"rect"`
}

// CaptionLayoutOutput is the output for the caption_layout tool.
type CaptionLayoutOutput struct {
	Borders      Margins      `json:"borders"`
	TitleBar     Rect         `json:"title_bar"`
	HideTitleBar bool         `json:"hide_title_bar"`
	CaptionRect  Rect         `json:"caption_rect"`
	TextAlign    string       `json:"text_align"`
	Caption      string       `json:"caption"`
	Buttons      []ButtonInfo `json:"buttons"`
	TitleBarRGBA string       `json:"title_bar_rgba"`
}

// RenderPreviewInput is the input for the render_preview tool.
type RenderPreviewInput struct {
	Width        int    `json:"width,omitempty" jsonschema:"Client width in pixels (default: 640)"`
	ClientHeight int    `json:"client_height,omitempty" jsonschema:"Client height in pixels (default: 360)"`
	Caption      string `json:"caption,omitempty" jsonschema:"Window caption (default: fluentdeco)"`
	Class        string `json:"class,omitempty" jsonschema:"Window class, used to match configured exceptions"`
	Inactive     bool   `json:"inactive,omitempty" jsonschema:"Render the unfocused palette"`
	Maximized    bool   `json:"maximized,omitempty" jsonschema:"Render a maximized window"`
}

// RenderPreviewOutput is the output for the render_preview tool. The PNG is
// returned as image content next to it.
type RenderPreviewOutput struct {
	Width  int  `json:"width"`
	Height int  `json:"height"`
	Window Rect `json:"window"`
	Bytes  int  `json:"bytes"`
}
