package mcp

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/fluentdeco/internal/config"
	"github.com/1broseidon/fluentdeco/internal/deco"
	"github.com/1broseidon/fluentdeco/internal/render"
	"github.com/1broseidon/fluentdeco/internal/shadow"
)

const (
	defaultPreviewWidth  = 640
	defaultPreviewHeight = 360
	defaultPreviewTitle  = "fluentdeco"
	maxPreviewSide       = 4096
)

var previewClientColor = color.NRGBA{R: 0xf3, G: 0xf3, B: 0xf3, A: 0xff}

func (s *Server) handleShadowGeometry(_ context.Context, _ *mcpsdk.CallToolRequest, args ShadowGeometryInput) (*mcpsdk.CallToolResult, ShadowGeometryOutput, error) {
	key, err := s.shadowKey(args)
	if err != nil {
		return nil, ShadowGeometryOutput{}, err
	}

	s.mu.Lock()
	tex, err := s.cache.Texture(key)
	s.mu.Unlock()
	if err != nil {
		return nil, ShadowGeometryOutput{}, fmt.Errorf("render shadow: %w", err)
	}

	out := ShadowGeometryOutput{
		Size:     key.Size.String(),
		Strength: key.Strength,
		Color:    config.Color(key.Color).String(),
		None:     tex == nil,
	}
	if tex != nil {
		b := tex.Bounds()
		out.Padding = marginsOf(tex.Padding)
		out.TextureWidth = b.Width
		out.TextureHeight = b.Height
		out.InnerRect = rectOf(tex.InnerRect)
	}
	return nil, out, nil
}

func (s *Server) shadowKey(args ShadowGeometryInput) (shadow.Key, error) {
	key := s.config.ShadowKey()
	if name := strings.TrimSpace(args.Size); name != "" {
		size, ok := shadow.ParseSize(name)
		if !ok {
			return shadow.Key{}, fmt.Errorf("unknown shadow size %q; available: %s", name, strings.Join(shadow.SizeNames(), ", "))
		}
		key.Size = size
	}
	if args.Strength != nil {
		if *args.Strength < 0 || *args.Strength > 255 {
			return shadow.Key{}, fmt.Errorf("strength %d is outside 0-255", *args.Strength)
		}
		key.Strength = *args.Strength
	}
	if args.Color != "" {
		c, err := config.ParseColor(args.Color)
		if err != nil {
			return shadow.Key{}, err
		}
		key.Color = c.NRGBA()
	}
	return key.Normalized(), nil
}

func (s *Server) handleCaptionLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args CaptionLayoutInput) (*mcpsdk.CallToolResult, CaptionLayoutOutput, error) {
	if args.Width <= 0 || args.Width > maxPreviewSide {
		return nil, CaptionLayoutOutput{}, fmt.Errorf("width must be between 1 and %d", maxPreviewSide)
	}
	settings := render.DefaultSettings(s.font)
	if args.LeftButtons != nil {
		buttons, err := parseButtons(args.LeftButtons)
		if err != nil {
			return nil, CaptionLayoutOutput{}, err
		}
		settings.LeftButtons = buttons
	}
	if args.RightButtons != nil {
		buttons, err := parseButtons(args.RightButtons)
		if err != nil {
			return nil, CaptionLayoutOutput{}, err
		}
		settings.RightButtons = buttons
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.decorate(window{
		Width:     args.Width,
		Caption:   args.Caption,
		Class:     args.Class,
		Alignment: args.Alignment,
		Active:    true,
		Maximized: args.Maximized,
		Shaded:    args.Shaded,
	}, settings)
	if err != nil {
		return nil, CaptionLayoutOutput{}, err
	}
	defer d.Close()

	rect, align := d.CaptionRect()
	fill := d.TitleBarColor()
	fill.A = d.TitleBarAlpha()
	out := CaptionLayoutOutput{
		Borders:      marginsOf(d.Borders()),
		TitleBar:     rectOf(d.TitleBar()),
		HideTitleBar: d.Borders().Top == 0,
		CaptionRect:  rectOf(rect),
		TextAlign:    align.String(),
		Caption:      deco.ElideMiddle(s.font, args.Caption, rect.Width),
		Buttons:      []ButtonInfo{},
		TitleBarRGBA: config.Color(fill).String(),
	}
	left, right := d.Buttons()
	for _, g := range []deco.ButtonGroup{left, right} {
		group := "left"
		if g.Position == deco.GroupRight {
			group = "right"
		}
		for _, b := range g.Buttons {
			out.Buttons = append(out.Buttons, ButtonInfo{
				Type:  b.Type.String(),
				Group: group,
				Rect:  rectOf(b.Geometry),
			})
		}
	}
	return nil, out, nil
}

func (s *Server) handleRenderPreview(_ context.Context, _ *mcpsdk.CallToolRequest, args RenderPreviewInput) (*mcpsdk.CallToolResult, RenderPreviewOutput, error) {
	width := args.Width
	if width == 0 {
		width = defaultPreviewWidth
	}
	height := args.ClientHeight
	if height == 0 {
		height = defaultPreviewHeight
	}
	if width < 1 || width > maxPreviewSide || height < 0 || height > maxPreviewSide {
		return nil, RenderPreviewOutput{}, fmt.Errorf("window size %dx%d is outside 1-%d", width, height, maxPreviewSide)
	}
	caption := args.Caption
	if caption == "" {
		caption = defaultPreviewTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.decorate(window{
		Width:     width,
		Caption:   caption,
		Class:     args.Class,
		Active:    !args.Inactive,
		Maximized: args.Maximized,
	}, render.DefaultSettings(s.font))
	if err != nil {
		return nil, RenderPreviewOutput{}, err
	}
	defer d.Close()

	frame := render.Frame{
		Decoration:   d,
		Font:         s.font,
		ClientHeight: height,
		ClientColor:  previewClientColor,
	}
	_, win := frame.Layout()
	img, err := frame.Render()
	if err != nil {
		return nil, RenderPreviewOutput{}, fmt.Errorf("render preview: %w", err)
	}
	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, img); err != nil {
		return nil, RenderPreviewOutput{}, err
	}

	out := RenderPreviewOutput{
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Window: rectOf(win),
		Bytes:  buf.Len(),
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.ImageContent{Data: buf.Bytes(), MIMEType: "image/png"},
			&mcpsdk.TextContent{Text: fmt.Sprintf("Rendered %dx%d preview with the window at %d,%d", out.Width, out.Height, win.X, win.Y)},
		},
	}, out, nil
}

// window describes the client a tool call decorates.
type window struct {
	Width     int
	Caption   string
	Class     string
	Alignment string
	Active    bool
	Maximized bool
	Shaded    bool
}

// decorate builds a decoration for w with deferred geometry already applied.
// The caller holds s.mu and closes the result.
func (s *Server) decorate(w window, settings deco.Settings) (*deco.Decoration, error) {
	cfg := *s.config
	if w.Alignment != "" {
		if _, ok := deco.ParseAlignment(w.Alignment); !ok {
			return nil, fmt.Errorf("unknown alignment %q; available: %s", w.Alignment, strings.Join(deco.AlignmentNames(), ", "))
		}
		cfg.TitleAlignment = w.Alignment
	}

	queue := &deco.IdleQueue{}
	factory := deco.NewFactory(&cfg, s.cache, queue, s.logger)
	d, err := factory.Create(&deco.WindowState{
		WindowWidth: w.Width,
		Title:       w.Caption,
		Class:       w.Class,
		Active:      w.Active,
		MaximizedH:  w.Maximized,
		MaximizedV:  w.Maximized,
		Shaded:      w.Shaded,
		Colors:      cfg.Palette.NRGBA,
	}, settings)
	if err != nil {
		return nil, err
	}
	queue.Drain()
	return d, nil
}

func parseButtons(names []string) ([]deco.ButtonType, error) {
	out := make([]deco.ButtonType, 0, len(names))
	for _, name := range names {
		b, ok := deco.ParseButtonType(name)
		if !ok {
			return nil, fmt.Errorf("unknown button %q", name)
		}
		out = append(out, b)
	}
	return out, nil
}
