//go:build !linux

package platform

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// ScreenshotBackend serves displays and captures through the native APIs
// wrapped by kbinani/screenshot. Physical sizes are not available there and
// are reported as zero.
type ScreenshotBackend struct{}

var _ Backend = ScreenshotBackend{}

// New returns the backend for the running platform.
func New(Options) Backend {
	return ScreenshotBackend{}
}

// Displays returns all active displays.
func (ScreenshotBackend) Displays() ([]Display, error) {
	n := screenshot.NumActiveDisplays()
	displays := make([]Display, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		displays = append(displays, Display{
			ID:   i,
			Name: fmt.Sprintf("Display%d", i),
			Bounds: Rect{
				X:      b.Min.X,
				Y:      b.Min.Y,
				Width:  b.Dx(),
				Height: b.Dy(),
			},
			// Windows and macOS both anchor the primary display at the origin.
			Primary: b.Min.X == 0 && b.Min.Y == 0,
		})
	}
	return displays, nil
}

// Capture grabs r from the virtual desktop.
func (ScreenshotBackend) Capture(r Rect) (*image.RGBA, error) {
	return captureRect(r)
}
