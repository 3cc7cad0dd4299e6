package scene

import "math"

// Manifest light intensities are authored in Blender watts; the viewer
// follows the glTF punctual model with candela for point and spot
// lights. 683 lm/W is the luminous efficacy at 555nm the exporter
// pipeline builds on, spread over the full sphere.

const LUMENS_PER_WATT = 683.0

func WattsToCandela(watts float32) float32 {
	return float32(float64(watts) * LUMENS_PER_WATT / (4.0 * math.Pi))
}

func CandelaToWatts(candela float32) float32 {
	return float32(float64(candela) * (4.0 * math.Pi) / LUMENS_PER_WATT)
}
