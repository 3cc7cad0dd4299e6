package scene

import (
	"log"
	"math"

	"github.com/nxengine/nx_player/engine"
	"github.com/nxengine/nx_player/exprlang"
	"github.com/nxengine/nx_player/project"
)

// BuildMaterial prepares the command that retargets one of the materials
// the asset phase created. Scroll expressions are compiled here so a typo
// surfaces in the player log instead of a broken frame loop; the text
// still travels to the viewer, which drives it per frame.
func BuildMaterial(m *project.Material) *engine.Material {
	built := &engine.Material{
		Name:        m.Name,
		Reflectance: m.Reflectance,
		IOR:         m.IOR,
		BlendMode:   m.BlendMode,
	}
	built.ScrollX, built.Offset[0] = compileScroll(m.Name, "x", m.XExpression)
	built.ScrollY, built.Offset[1] = compileScroll(m.Name, "y", m.YExpression)
	return built
}

// compileScroll returns the expression to forward and its value at t=0.
// An expression that does not compile or evaluate is dropped with a
// warning, the rest of the material still applies.
func compileScroll(material, axis, text string) (string, float32) {
	if text == "" {
		return "", 0
	}
	expr, err := exprlang.Compile(text)
	if err != nil {
		log.Printf("[scene] Material %q: bad %s expression %q: %v", material, axis, text, err)
		return "", 0
	}
	at := expr.Eval(0)
	if math.IsNaN(at) || math.IsInf(at, 0) {
		log.Printf("[scene] Material %q: %s expression %q is not finite at t=0", material, axis, text)
		return "", 0
	}
	return text, float32(at)
}
