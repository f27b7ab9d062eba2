package mcp

import "github.com/1broseidon/desktopmcp/internal/desktop"

// GetScreenInfoInput is the input for the get_screen_info tool.
type GetScreenInfoInput struct{}

// GetScreenInfoOutput is the output for the get_screen_info tool.
type GetScreenInfoOutput struct {
	Screens []desktop.ScreenInfo `json:"screens"`
}

// TakeScreenshotInput is the input for the desktop_take_screenshot tool.
type TakeScreenshotInput struct {
	X           int    `json:"x" jsonschema:"Left edge of the region in virtual desktop coordinates"`
	Y           int    `json:"y" jsonschema:"Top edge of the region in virtual desktop coordinates"`
	Width       int    `json:"width" jsonschema:"Width of the region in pixels"`
	Height      int    `json:"height" jsonschema:"Height of the region in pixels"`
	ContextMode string `json:"context_mode,omitempty" jsonschema:"Image quality/size mode: minimal (600px max, 30% quality), normal (800px, 50%) or detailed (1200px, 70%). Default: minimal"`
}

func (in TakeScreenshotInput) region() desktop.CaptureRegion {
	return desktop.CaptureRegion{X: in.X, Y: in.Y, Width: in.Width, Height: in.Height}
}
