package mcp

import (
	"context"
	"net/http"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/desktopmcp/internal/actionlog"
	"github.com/1broseidon/desktopmcp/internal/config"
	"github.com/1broseidon/desktopmcp/internal/desktop"
	"github.com/1broseidon/desktopmcp/internal/platform"
)

const (
	ServerName    = "desktopmcp"
	ServerVersion = "0.1.0"
)

// Server is the MCP server exposing desktop screen tools.
type Server struct {
	mcpServer   *mcpsdk.Server
	backend     platform.Backend
	logger      *actionlog.Logger
	defaultMode string
}

// NewServer creates an MCP server serving backend. logger may be nil.
func NewServer(cfg *config.Config, backend platform.Backend, logger *actionlog.Logger) *Server {
	defaultMode := string(desktop.DefaultContextMode)
	if cfg != nil && cfg.DefaultContextMode != "" {
		defaultMode = cfg.DefaultContextMode
	}

	s := &Server{
		backend:     backend,
		logger:      logger,
		defaultMode: defaultMode,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// HTTPHandler serves the same tools over the streamable HTTP transport.
func (s *Server) HTTPHandler() http.Handler {
	return mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server {
		return s.mcpServer
	}, nil)
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name: "get_screen_info",
		Description: "Get information about all connected screens/monitors. Returns position (x, y) in virtual desktop " +
			"coordinates, resolution (width, height), name, is_primary and physical size in millimeters for each display. " +
			"Call this first to choose screenshot coordinates; for three side-by-side 1920x1080 screens the second one " +
			"starts at x=1920, y=0.",
	}, s.handleGetScreenInfo)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name: "desktop_take_screenshot",
		Description: "Take a screenshot of a rectangular region of the virtual desktop spanning all connected screens. " +
			"Coordinates follow the layout returned by get_screen_info. The image is downscaled and WebP-compressed " +
			"according to context_mode: minimal (600px max, 30% quality) for basic UI detection, normal (800px, 50%) " +
			"for detailed inspection, detailed (1200px, 70%) for pixel-level analysis. Prefer minimal to avoid filling the context.",
	}, s.handleTakeScreenshot)
}
