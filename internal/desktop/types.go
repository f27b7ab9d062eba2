package desktop

import (
	"encoding/base64"

	"github.com/1broseidon/desktopmcp/internal/platform"
)

// MediaTypeWebP is the media type of every screenshot payload.
const MediaTypeWebP = "image/webp"

// ScreenInfo describes one connected display.
type ScreenInfo struct {
	X         int    `json:"x" jsonschema:"Left edge in virtual desktop coordinates"`
	Y         int    `json:"y" jsonschema:"Top edge in virtual desktop coordinates"`
	Width     int    `json:"width" jsonschema:"Horizontal resolution in pixels"`
	Height    int    `json:"height" jsonschema:"Vertical resolution in pixels"`
	Name      string `json:"name" jsonschema:"Display name or identifier"`
	IsPrimary bool   `json:"is_primary" jsonschema:"Whether this is the primary display"`
	WidthMM   int    `json:"width_mm" jsonschema:"Physical width in millimeters (0 when unknown)"`
	HeightMM  int    `json:"height_mm" jsonschema:"Physical height in millimeters (0 when unknown)"`
}

// CaptureRegion is a rectangle in virtual desktop coordinates.
type CaptureRegion struct {
	X      int `json:"x" jsonschema:"Left edge of the region in virtual desktop coordinates"`
	Y      int `json:"y" jsonschema:"Top edge of the region in virtual desktop coordinates"`
	Width  int `json:"width" jsonschema:"Width of the region in pixels"`
	Height int `json:"height" jsonschema:"Height of the region in pixels"`
}

func (r CaptureRegion) rect() platform.Rect {
	return platform.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// ImageSource carries base64 image data inside a content block.
type ImageSource struct {
	Type      string `json:"type" jsonschema:"Always base64"`
	MediaType string `json:"media_type" jsonschema:"Media type of the decoded data"`
	Data      string `json:"data" jsonschema:"Base64 encoded image bytes"`
}

// ImageContentBlock is the envelope used to pass an image in a tool response.
type ImageContentBlock struct {
	Type   string      `json:"type" jsonschema:"Always image"`
	Source ImageSource `json:"source"`
}

// ScreenshotResult is the response of a region capture. Only Context is
// serialized; the remaining fields describe the encoded image for callers
// that need the raw bytes.
type ScreenshotResult struct {
	Context []ImageContentBlock `json:"context"`

	Image  []byte      `json:"-"`
	Width  int         `json:"-"`
	Height int         `json:"-"`
	Mode   ContextMode `json:"-"`
}

func newScreenshotResult(data []byte, width, height int, mode ContextMode) *ScreenshotResult {
	return &ScreenshotResult{
		Context: []ImageContentBlock{{
			Type: "image",
			Source: ImageSource{
				Type:      "base64",
				MediaType: MediaTypeWebP,
				Data:      base64.StdEncoding.EncodeToString(data),
			},
		}},
		Image:  data,
		Width:  width,
		Height: height,
		Mode:   mode,
	}
}
