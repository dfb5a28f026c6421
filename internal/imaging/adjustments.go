// Package imaging implements the studio's adjustment compositor: a
// deterministic, parameterized filter stack applied to raster images.
// The six adjustment parameters mirror the CSS filter functions used for
// the client-side live preview, so a committed image matches what the
// user saw on screen.
package imaging

import "fmt"

// Adjustment ranges. Percent-valued parameters treat 100 as neutral.
const (
	MinPercent = 0
	MaxPercent = 200 // brightness, contrast, saturation
	MaxHue     = 360 // degrees
	MaxBlur    = 20  // pixels
	MaxSepia   = 100 // percent
)

// Adjustments holds the six slider values of the adjust panel.
type Adjustments struct {
	Brightness int `json:"brightness"` // percent, 0-200, neutral 100
	Contrast   int `json:"contrast"`   // percent, 0-200, neutral 100
	Saturation int `json:"saturation"` // percent, 0-200, neutral 100
	Hue        int `json:"hue"`        // degrees, 0-360, neutral 0
	Blur       int `json:"blur"`       // pixels, 0-20, neutral 0
	Sepia      int `json:"sepia"`      // percent, 0-100, neutral 0
}

// DefaultAdjustments returns the neutral slider set.
func DefaultAdjustments() Adjustments {
	return Adjustments{
		Brightness: 100,
		Contrast:   100,
		Saturation: 100,
		Hue:        0,
		Blur:       0,
		Sepia:      0,
	}
}

// IsNeutral reports whether the set leaves an image unchanged.
func (a Adjustments) IsNeutral() bool {
	return a == DefaultAdjustments()
}

// Clamp returns a copy with every value forced into its documented range.
func (a Adjustments) Clamp() Adjustments {
	a.Brightness = clampInt(a.Brightness, MinPercent, MaxPercent)
	a.Contrast = clampInt(a.Contrast, MinPercent, MaxPercent)
	a.Saturation = clampInt(a.Saturation, MinPercent, MaxPercent)
	a.Hue = clampInt(a.Hue, 0, MaxHue)
	a.Blur = clampInt(a.Blur, 0, MaxBlur)
	a.Sepia = clampInt(a.Sepia, 0, MaxSepia)
	return a
}

// FilterString renders the set as a CSS filter declaration in the same
// order the compositor applies: brightness, contrast, saturate,
// hue-rotate, blur, sepia. The client uses it for the live preview.
func (a Adjustments) FilterString() string {
	return fmt.Sprintf(
		"brightness(%d%%) contrast(%d%%) saturate(%d%%) hue-rotate(%ddeg) blur(%dpx) sepia(%d%%)",
		a.Brightness, a.Contrast, a.Saturation, a.Hue, a.Blur, a.Sepia,
	)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
