package desktop

import (
	"fmt"
	"strings"
)

// ContextMode names a quality/size preset trading image fidelity for payload
// size in the agent's context window.
type ContextMode string

const (
	ModeMinimal  ContextMode = "minimal"
	ModeNormal   ContextMode = "normal"
	ModeDetailed ContextMode = "detailed"
)

// DefaultContextMode is used when a caller does not name a mode.
const DefaultContextMode = ModeMinimal

// Preset is the fixed (max dimension, WebP quality) pair of a ContextMode.
type Preset struct {
	MaxDimension int
	Quality      int
}

var presets = map[ContextMode]Preset{
	ModeMinimal:  {MaxDimension: 600, Quality: 30},
	ModeNormal:   {MaxDimension: 800, Quality: 50},
	ModeDetailed: {MaxDimension: 1200, Quality: 70},
}

// ContextModes lists the modes from smallest to largest payload.
func ContextModes() []ContextMode {
	return []ContextMode{ModeMinimal, ModeNormal, ModeDetailed}
}

// Preset returns the fixed settings of m.
func (m ContextMode) Preset() (Preset, bool) {
	p, ok := presets[m]
	return p, ok
}

// ParseContextMode resolves s case-insensitively against the closed set of modes.
func ParseContextMode(s string) (ContextMode, error) {
	m := ContextMode(strings.ToLower(s))
	if _, ok := presets[m]; !ok {
		names := make([]string, 0, len(presets))
		for _, known := range ContextModes() {
			names = append(names, string(known))
		}
		return "", fmt.Errorf("%w %q; available: %s", ErrUnknownContextMode, s, strings.Join(names, ", "))
	}
	return m, nil
}
