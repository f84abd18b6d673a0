// Package widgets provides the structural widgets of the Arbor shell: basic
// containers, the tab bar, the splash gate, and the visibility detector.
package widgets

import "fmt"

// Color is a 32-bit ARGB color. The zero value is fully transparent.
type Color uint32

// Common colors.
const (
	ColorTransparent Color = 0x00000000
	ColorBlack       Color = 0xFF000000
	ColorWhite       Color = 0xFFFFFFFF
)

// RGB creates an opaque color from 8-bit components.
func RGB(r, g, b uint8) Color {
	return 0xFF000000 | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// RGBA creates a color from 8-bit components and an opacity in [0, 1].
func RGBA(r, g, b uint8, alpha float64) Color {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return Color(alpha*255)<<24 | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// String returns the color as #AARRGGBB.
func (c Color) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// EdgeInsets describes padding on each side.
type EdgeInsets struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// EdgeInsetsAll creates uniform insets.
func EdgeInsetsAll(value float64) EdgeInsets {
	return EdgeInsets{Top: value, Right: value, Bottom: value, Left: value}
}

// EdgeInsetsSymmetric creates insets mirrored across both axes.
func EdgeInsetsSymmetric(vertical, horizontal float64) EdgeInsets {
	return EdgeInsets{Top: vertical, Bottom: vertical, Left: horizontal, Right: horizontal}
}

// TextStyle describes how text is drawn by the host.
type TextStyle struct {
	Color Color
	Size  float64
	Bold  bool
}
