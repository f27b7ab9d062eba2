package platform

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

var captureFn = screenshot.Capture

func captureRect(r Rect) (*image.RGBA, error) {
	img, err := captureFn(r.X, r.Y, r.Width, r.Height)
	if err != nil {
		return nil, fmt.Errorf("unable to capture region %dx%d+%d+%d: %w", r.Width, r.Height, r.X, r.Y, err)
	}
	return img, nil
}
