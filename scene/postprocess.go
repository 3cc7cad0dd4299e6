package scene

import (
	"log"

	"github.com/nxengine/nx_player/config"
	"github.com/nxengine/nx_player/engine"
	"github.com/nxengine/nx_player/project"
)

// Effect types the viewer implements. The exporter writes more than the
// player can promise; unknown ones are dropped with a warning instead of
// stalling the build.
func knownEffect(effectType string) bool {
	switch effectType {
	case "bloom", "bokeh", "chromatic_aberration", "depthoffield", "fxaa",
		"godray", "smaa", "ssao", "tiltshift", "tonemapping", "vignette":
		return true
	}
	return false
}

func cheapEffect(effectType string) bool {
	switch effectType {
	case "fxaa", "smaa", "tonemapping":
		return true
	}
	return false
}

// BuildPostprocess filters the manifest's effect stack by the configured
// pipeline: Performance keeps only the antialiasing class passes,
// Standard and Custom forward the full stack in authored order.
func BuildPostprocess(g *project.Graphics) []*engine.Effect {
	performance := config.GetPipeline() == config.PIPELINE_PERFORMANCE

	stack := make([]*engine.Effect, 0, len(g.PostprocessStack))
	for _, effect := range g.PostprocessStack {
		if !knownEffect(effect.Type) {
			log.Printf("[scene] Skipping unknown postprocess effect %q", effect.Type)
			continue
		}
		if performance && !cheapEffect(effect.Type) {
			continue
		}
		stack = append(stack, &engine.Effect{
			Type:      effect.Type,
			Threshold: effect.Threshold,
			Radius:    effect.Radius,
			Intensity: effect.Intensity,
			Focus:     effect.Focus,
			Distance:  effect.Distance,
			Aperture:  effect.Aperture,
		})
	}
	return stack
}

// GraphicsSnapshot captures the resolved config for the viewer.
func GraphicsSnapshot() *engine.Graphics {
	return &engine.Graphics{
		Pipeline:         config.GetPipeline().String(),
		ShadowFiltering:  config.GetShadowFiltering().String(),
		ShadowResolution: config.GetShadowResolution(),
		Antialiasing:     config.GetAntialiasing().String(),
		Tonemapper:       config.GetTonemapper().String(),
		TextureQuality:   config.GetTextureQuality(),
	}
}
