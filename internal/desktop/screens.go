package desktop

import (
	"context"

	"github.com/1broseidon/desktopmcp/internal/platform"
)

// ListScreens returns one ScreenInfo per connected display, in the order the
// OS reports them. Indexes are not stable across calls.
func ListScreens(ctx context.Context, b platform.Backend) ([]ScreenInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	displays, err := b.Displays()
	if err != nil {
		return nil, &Error{Kind: KindEnumeration, Err: err}
	}

	screens := make([]ScreenInfo, 0, len(displays))
	for _, d := range displays {
		screens = append(screens, ScreenInfo{
			X:         d.Bounds.X,
			Y:         d.Bounds.Y,
			Width:     d.Bounds.Width,
			Height:    d.Bounds.Height,
			Name:      d.Name,
			IsPrimary: d.Primary,
			WidthMM:   d.WidthMM,
			HeightMM:  d.HeightMM,
		})
	}
	return screens, nil
}
