//go:build linux

package platform

import (
	"fmt"
	"image"

	"github.com/1broseidon/desktopmcp/internal/x11"
)

// LinuxBackend enumerates displays through XRandR and captures the X11 root
// window. Each call opens its own connection so no X state outlives a request.
type LinuxBackend struct {
	opts Options
}

var _ Backend = (*LinuxBackend)(nil)

// New returns the backend for the running platform.
func New(opts Options) Backend {
	return &LinuxBackend{opts: opts}
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	if err := EnsureDisplayEnv(b.opts); err != nil {
		return nil, err
	}

	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	defer conn.Close()

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, Display{
			ID:   m.ID,
			Name: m.Name,
			Bounds: Rect{
				X:      m.X,
				Y:      m.Y,
				Width:  m.Width,
				Height: m.Height,
			},
			WidthMM:  m.WidthMM,
			HeightMM: m.HeightMM,
			Primary:  m.Primary,
		})
	}
	return displays, nil
}

// Capture grabs r from the X11 root window.
func (b *LinuxBackend) Capture(r Rect) (*image.RGBA, error) {
	if err := EnsureDisplayEnv(b.opts); err != nil {
		return nil, err
	}
	return captureRect(r)
}
