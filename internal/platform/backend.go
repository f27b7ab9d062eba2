package platform

import "image"

// Rect describes a rectangular region in virtual-desktop coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical display as reported by the OS.
type Display struct {
	ID       int
	Name     string
	Bounds   Rect
	WidthMM  int
	HeightMM int
	Primary  bool
}

// Options carries the session hints a backend needs to reach the desktop.
type Options struct {
	Display    string
	XAuthority string
}

// Backend abstracts the desktop operations the server exposes.
type Backend interface {
	// Displays queries the connected displays in OS order.
	Displays() ([]Display, error)
	// Capture grabs a region of the virtual desktop spanning all displays.
	Capture(r Rect) (*image.RGBA, error)
}
