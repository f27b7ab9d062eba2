package desktop

import (
	"context"
	"fmt"

	"github.com/1broseidon/desktopmcp/internal/platform"
)

// Screenshot captures region from the virtual desktop, downsamples it to the
// preset named by mode and returns it as a WebP content block.
//
// An unknown mode or an empty region fails with KindInvalidInput before the
// desktop is touched. Every later failure is KindCapture.
func Screenshot(ctx context.Context, b platform.Backend, region CaptureRegion, mode string) (*ScreenshotResult, error) {
	m, err := ParseContextMode(mode)
	if err != nil {
		return nil, invalidInput(err)
	}
	if region.Width <= 0 || region.Height <= 0 {
		return nil, invalidInput(fmt.Errorf("%w: got %dx%d", ErrEmptyRegion, region.Width, region.Height))
	}
	if err := ctx.Err(); err != nil {
		return nil, captureFailed(err)
	}

	preset, _ := m.Preset()

	img, err := b.Capture(region.rect())
	if err != nil {
		return nil, captureFailed(err)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, captureFailed(fmt.Errorf("received an empty screenshot"))
	}

	fitted := fitTo(img, preset.MaxDimension)
	data, err := encodeWebP(fitted, preset.Quality)
	if err != nil {
		return nil, captureFailed(err)
	}

	size := fitted.Bounds().Size()
	return newScreenshotResult(data, size.X, size.Y, m), nil
}
