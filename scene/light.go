package scene

import (
	"log"
	"math"

	"github.com/pkg/errors"

	"github.com/nxengine/nx_player/config"
	"github.com/nxengine/nx_player/engine"
	"github.com/nxengine/nx_player/project"
	"github.com/nxengine/nx_player/transform"
	"github.com/nxengine/nx_player/utils"
)

const (
	DEFAULT_AMBIENT_COLOR     = "#404040"
	DEFAULT_AMBIENT_INTENSITY = 0.4
	DEFAULT_KEY_COLOR         = "#ffffff"
	DEFAULT_KEY_INTENSITY     = 0.6
)

// BuildLight maps one manifest light onto the viewer's constructor
// vocabulary. Dispatch is by the exported type tag; anything
// unrecognized becomes a point light with a warning rather than a hole
// in the scene.
func BuildLight(l *project.Light) (*engine.Light, error) {
	d, err := transform.DecodeMatrix(l.Matrix)
	if err != nil {
		return nil, errors.Wrapf(err, "Light %q", l.Name)
	}

	out := &engine.Light{
		Name:      l.Name,
		Transform: EncodeTransform(d),
		Color:     lightColor(l.Color),
	}

	switch l.Type {
	case project.LIGHT_TYPE_POINT:
		out.Kind = engine.LIGHT_POINT
		out.Intensity = WattsToCandela(l.Intensity)
		out.Range = l.Radius
	case project.LIGHT_TYPE_SPOT:
		out.Kind = engine.LIGHT_SPOT
		out.Intensity = WattsToCandela(l.Intensity)
		out.Range = l.Radius
		cone := DecodeSpotSize(l.SpotSize)
		out.OuterCone = cone / 2
		out.InnerCone = out.OuterCone * (1 - clamp01(l.SpotBlend))
	case project.LIGHT_TYPE_SUN, project.LIGHT_TYPE_DIRECTIONAL:
		// sun strength is an irradiance already, pass it through as lux
		out.Kind = engine.LIGHT_DIRECTIONAL
		out.Intensity = l.Intensity
	case project.LIGHT_TYPE_AREA:
		log.Printf("[scene] Area light %q approximated as point", l.Name)
		out.Kind = engine.LIGHT_POINT
		out.Intensity = WattsToCandela(l.Intensity)
		out.Range = l.AreaSize[0]
	default:
		log.Printf("[scene] Unknown light type %q for %q, using point", l.Type, l.Name)
		out.Kind = engine.LIGHT_POINT
		out.Intensity = WattsToCandela(l.Intensity)
	}

	if l.Shadow && out.Kind != engine.LIGHT_AMBIENT {
		out.Shadow = &engine.Shadow{
			Resolution: config.GetShadowResolution(),
			Filtering:  config.GetShadowFiltering().String(),
		}
	}

	return out, nil
}

// DecodeSpotSize undoes the exporter's opposite-angle storage: the
// authored cone angle is written shifted by pi around the circle.
func DecodeSpotSize(stored float32) float32 {
	if stored > math.Pi {
		return stored - math.Pi
	}
	return stored + math.Pi
}

// DefaultLights fills a scene that exports no lights at all: a dim
// ambient plus one white key light angled down at the origin.
func DefaultLights() []*engine.Light {
	ambient, _ := utils.NewColorFloatFromHex(DEFAULT_AMBIENT_COLOR)
	key, _ := utils.NewColorFloatFromHex(DEFAULT_KEY_COLOR)

	return []*engine.Light{
		{
			Name:      "DefaultAmbient",
			Kind:      engine.LIGHT_AMBIENT,
			Color:     ambient.Vec3(),
			Intensity: DEFAULT_AMBIENT_INTENSITY,
			Transform: identityTransform(),
		},
		{
			Name:      "DefaultKey",
			Kind:      engine.LIGHT_DIRECTIONAL,
			Color:     key.Vec3(),
			Intensity: DEFAULT_KEY_INTENSITY,
			Transform: defaultKeyTransform(),
		},
	}
}

func lightColor(c []float32) [3]float32 {
	out := [3]float32{1, 1, 1}
	copy(out[:], c)
	return out
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
