// Package platformtest provides an in-memory platform.Backend for tests.
package platformtest

import (
	"image"
	"image/color"
	"sync"

	"github.com/1broseidon/desktopmcp/internal/platform"
)

// Backend serves a fixed display list and synthesizes captured pixels.
type Backend struct {
	DisplayList []platform.Display
	DisplaysErr error
	CaptureErr  error

	mu       sync.Mutex
	captured []platform.Rect
}

var _ platform.Backend = (*Backend)(nil)

// Displays returns DisplayList or DisplaysErr.
func (b *Backend) Displays() ([]platform.Display, error) {
	if b.DisplaysErr != nil {
		return nil, b.DisplaysErr
	}
	out := make([]platform.Display, len(b.DisplayList))
	copy(out, b.DisplayList)
	return out, nil
}

// Capture records r and returns a gradient image of r's size, or CaptureErr.
func (b *Backend) Capture(r platform.Rect) (*image.RGBA, error) {
	b.mu.Lock()
	b.captured = append(b.captured, r)
	b.mu.Unlock()

	if b.CaptureErr != nil {
		return nil, b.CaptureErr
	}

	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8((x + r.X) % 256),
				G: uint8((y + r.Y) % 256),
				B: uint8((x + y) % 256),
				A: 0xff,
			})
		}
	}
	return img, nil
}

// Captures returns the regions passed to Capture so far.
func (b *Backend) Captures() []platform.Rect {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]platform.Rect, len(b.captured))
	copy(out, b.captured)
	return out
}

// ThreeHorizontal is a 3x1920x1080 side-by-side layout.
func ThreeHorizontal() []platform.Display {
	return []platform.Display{
		{ID: 0, Name: "DP-1", Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}, WidthMM: 527, HeightMM: 296, Primary: true},
		{ID: 1, Name: "DP-2", Bounds: platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}, WidthMM: 527, HeightMM: 296},
		{ID: 2, Name: "HDMI-1", Bounds: platform.Rect{X: 3840, Y: 0, Width: 1920, Height: 1080}, WidthMM: 527, HeightMM: 296},
	}
}
