package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/fluentdeco/internal/config"
	"github.com/1broseidon/fluentdeco/internal/render"
	"github.com/1broseidon/fluentdeco/internal/shadow"
)

const (
	ServerName    = "fluentdeco"
	ServerVersion = "0.1.0"
)

// Server is the MCP server exposing decoration geometry and previews.
type Server struct {
	mcpServer *mcpsdk.Server
	config    *config.Config
	font      *render.Font
	cache     *shadow.Cache
	logger    *slog.Logger

	// mu serializes tool calls. Decorations and the font are single threaded.
	mu sync.Mutex
}

// NewServer creates a server answering from cfg.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	font, err := render.NewFont(render.DefaultFontSize)
	if err != nil {
		return nil, fmt.Errorf("load title font: %w", err)
	}

	s := &Server{
		config: cfg,
		font:   font,
		cache:  shadow.NewCache(logger, nil),
		logger: logger,
	}
	// Held for the server's lifetime so the texture survives between calls.
	s.cache.Acquire()

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close releases server resources.
func (s *Server) Close() error {
	if s == nil {
		return nil
	}
	s.cache.Release()
	return s.font.Close()
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "shadow_geometry",
		Description: "Render the drop shadow texture for a size, strength and color and report its padding around the window frame, its pixel size and the nine-patch anchor. Unset fields use the loaded configuration.",
	}, s.handleShadowGeometry)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "caption_layout",
		Description: "Lay out the title bar for a window of the given width: borders, button rects, where the caption goes, how it is aligned and how it is elided. Configured exceptions are matched against class and caption.",
	}, s.handleCaptionLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "render_preview",
		Description: "Render a decorated window, including its drop shadow, on a transparent canvas and return it as a PNG image.",
	}, s.handleRenderPreview)
}
