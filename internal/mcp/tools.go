package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/desktopmcp/internal/actionlog"
	"github.com/1broseidon/desktopmcp/internal/desktop"
)

func (s *Server) handleGetScreenInfo(ctx context.Context, _ *mcpsdk.CallToolRequest, _ GetScreenInfoInput) (*mcpsdk.CallToolResult, GetScreenInfoOutput, error) {
	screens, err := desktop.ListScreens(ctx, s.backend)
	if err != nil {
		s.logger.Log(actionlog.ActionScreens, "mcp", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, GetScreenInfoOutput{}, err
	}

	s.logger.Log(actionlog.ActionScreens, "mcp", map[string]interface{}{
		"count": len(screens),
	})
	return nil, GetScreenInfoOutput{Screens: screens}, nil
}

func (s *Server) handleTakeScreenshot(ctx context.Context, _ *mcpsdk.CallToolRequest, args TakeScreenshotInput) (*mcpsdk.CallToolResult, desktop.ScreenshotResult, error) {
	mode := args.ContextMode
	if mode == "" {
		mode = s.defaultMode
	}

	details := map[string]interface{}{
		"x":            args.X,
		"y":            args.Y,
		"width":        args.Width,
		"height":       args.Height,
		"context_mode": mode,
	}

	res, err := desktop.Screenshot(ctx, s.backend, args.region(), mode)
	if err != nil {
		details["error"] = err.Error()
		details["kind"] = desktop.KindOf(err).String()
		s.logger.Log(actionlog.ActionScreenshot, "mcp", details)
		return nil, desktop.ScreenshotResult{}, err
	}

	details["out_width"] = res.Width
	details["out_height"] = res.Height
	details["bytes"] = len(res.Image)
	s.logger.Log(actionlog.ActionScreenshot, "mcp", details)

	result := &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.ImageContent{
				Data:     res.Image,
				MIMEType: desktop.MediaTypeWebP,
			},
		},
	}
	return result, *res, nil
}
