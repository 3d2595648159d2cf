package layout

import "math"

// Zoom limits and steps.
const (
	MinZoom     = 0.5
	MaxZoom     = 1.5
	DefaultZoom = 1.0
	ZoomStep    = 0.1
	FitMargin   = 100.0

	// zoomEpsilon is the smallest change worth re-rendering for.
	zoomEpsilon = 0.01
)

// AutoFitZoom returns the scale that fits dims into vp with [FitMargin]
// breathing room, never enlarging past 1 and always within
// [MinZoom, MaxZoom]. A non-positive dimension leaves that axis
// unconstrained; NaN and infinite inputs never leak into the result.
func AutoFitZoom(dims Dimensions, vp Viewport) float64 {
	zoom := math.Min(math.Min(fitAxis(vp.Width, dims.Width), fitAxis(vp.Height, dims.Height)), 1)
	return ClampZoom(zoom)
}

func fitAxis(available, size float64) float64 {
	if !(size > 0) || math.IsInf(size, 0) {
		return math.Inf(1)
	}
	return (available - FitMargin) / size
}

// ClampZoom clamps z into [MinZoom, MaxZoom]. NaN maps to [DefaultZoom].
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return DefaultZoom
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// ZoomIn returns z increased by one step.
func ZoomIn(z float64) float64 { return ClampZoom(roundZoom(z + ZoomStep)) }

// ZoomOut returns z decreased by one step.
func ZoomOut(z float64) float64 { return ClampZoom(roundZoom(z - ZoomStep)) }

// ResetZoom returns the default zoom.
func ResetZoom() float64 { return DefaultZoom }

// ShouldApplyZoom reports whether next differs enough from current to be
// applied.
func ShouldApplyZoom(current, next float64) bool {
	return math.Abs(next-current) > zoomEpsilon
}

// ZoomPercent formats z as a whole percentage, e.g. 0.75 → 75.
func ZoomPercent(z float64) int {
	return int(math.Round(z * 100))
}

// roundZoom keeps repeated steps from accumulating float error (0.1+0.2).
func roundZoom(z float64) float64 {
	return math.Round(z*100) / 100
}
