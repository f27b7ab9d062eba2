package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
)

// Monitor represents a physical display
type Monitor struct {
	ID       int
	Name     string
	X        int
	Y        int
	Width    int
	Height   int
	WidthMM  int
	HeightMM int
	Primary  bool
}

// GetMonitors retrieves all active monitors using XRandR, in CRTC order.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	// RandR < 1.3 has no primary output; fall back to the origin heuristic below.
	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		out := outputDetails{name: fmt.Sprintf("Monitor%d", i)}
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			out.name = string(outputInfo.Name)
			out.widthMM = int(outputInfo.MmWidth)
			out.heightMM = int(outputInfo.MmHeight)
		}

		isPrimary := false
		for _, o := range crtcInfo.Outputs {
			if primary != 0 && o == primary {
				isPrimary = true
				break
			}
		}

		monitors = append(monitors, newMonitor(i, crtcGeometry{
			x:      int(crtcInfo.X),
			y:      int(crtcInfo.Y),
			width:  int(crtcInfo.Width),
			height: int(crtcInfo.Height),
		}, out, isPrimary))
	}

	markOriginPrimary(monitors)
	return monitors, nil
}

type crtcGeometry struct {
	x, y, width, height int
}

type outputDetails struct {
	name     string
	widthMM  int
	heightMM int
}

func newMonitor(id int, geom crtcGeometry, out outputDetails, primary bool) Monitor {
	return Monitor{
		ID:       id,
		Name:     out.name,
		X:        geom.x,
		Y:        geom.y,
		Width:    geom.width,
		Height:   geom.height,
		WidthMM:  out.widthMM,
		HeightMM: out.heightMM,
		Primary:  primary,
	}
}

// markOriginPrimary flags the monitor at the desktop origin as primary when
// the server did not report one. At most one monitor is ever flagged.
func markOriginPrimary(monitors []Monitor) {
	for _, m := range monitors {
		if m.Primary {
			return
		}
	}
	for i := range monitors {
		if monitors[i].X == 0 && monitors[i].Y == 0 {
			monitors[i].Primary = true
			return
		}
	}
	if len(monitors) > 0 {
		monitors[0].Primary = true
	}
}
