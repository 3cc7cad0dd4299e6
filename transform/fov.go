package transform

import "math"

// Exported cameras carry a horizontal field of view for landscape sensor
// fit. Viewers want the vertical angle for the current aspect ratio.
// Angles in degrees, aspect is width over height.
func HorizontalToVerticalFOV(angle, aspect float64) float64 {
	h := angle * math.Pi / 180.0
	v := 2.0 * math.Atan(math.Tan(h/2.0)/aspect)
	return v * 180.0 / math.Pi
}

func VerticalToHorizontalFOV(angle, aspect float64) float64 {
	v := angle * math.Pi / 180.0
	h := 2.0 * math.Atan(math.Tan(v/2.0)*aspect)
	return h * 180.0 / math.Pi
}
