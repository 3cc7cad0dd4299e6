package scene

import (
	"github.com/nxengine/nx_player/engine"
	"github.com/nxengine/nx_player/project"
)

// BuildEnvironment maps the manifest background block. The texture field
// stays the raw manifest name; the orchestrator rewrites it to a served
// URL once the asset is staged.
func BuildEnvironment(env *project.Environment) *engine.Environment {
	out := &engine.Environment{Intensity: env.BackgroundIntensity}
	if out.Intensity == 0 {
		out.Intensity = 1
	}

	switch env.BackgroundType {
	case project.BACKGROUND_TYPE_TEXTURE:
		out.Mode = engine.ENVIRONMENT_TEXTURE
		out.Texture = env.BackgroundTexture
	case project.BACKGROUND_TYPE_SKY:
		out.Mode = engine.ENVIRONMENT_SKY
		out.Sky = &engine.Sky{
			Turbidity:       env.Turbidity,
			Rayleigh:        env.Rayleigh,
			MieCoefficient:  env.MieCoefficient,
			MieDirectionalG: env.MieDirectionalG,
			Elevation:       env.Elevation,
			Azimuth:         env.Azimuth,
			Exposure:        env.Exposure,
		}
	default:
		out.Mode = engine.ENVIRONMENT_COLOR
		out.Color = lightColor(env.BackgroundColor)
	}
	return out
}
