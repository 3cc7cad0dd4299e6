package scene

import (
	"io"

	"github.com/qmuntal/gltf"

	"github.com/nxengine/nx_player/engine"
	"github.com/nxengine/nx_player/project"
)

const EXT_LIGHTS_PUNCTUAL = "KHR_lights_punctual"

// ExportGLTF writes the scene's constructed scaffolding (cameras,
// punctual lights, empty and speaker locators) as a binary glTF
// document. Mesh geometry already ships in the glb groups; this export
// carries everything around it for external viewers.
func ExportGLTF(s *project.Scene, w io.Writer) error {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "nx_player"

	punctual := make([]interface{}, 0, len(s.Lights))

	for _, c := range s.Cameras {
		built, err := BuildCamera(c)
		if err != nil {
			return err
		}
		camera := &gltf.Camera{Name: built.Name}
		if built.Projection == engine.PROJECTION_ORTHOGRAPHIC {
			camera.Orthographic = &gltf.Orthographic{
				Xmag:  1,
				Ymag:  1,
				Znear: built.Near,
				Zfar:  built.Far,
			}
		} else {
			camera.Perspective = &gltf.Perspective{
				Yfov:  built.FOV,
				Znear: built.Near,
				Zfar:  gltf.Float(built.Far),
			}
		}
		index := uint32(len(doc.Cameras))
		doc.Cameras = append(doc.Cameras, camera)
		addNode(doc, built.Name, built.Transform, func(n *gltf.Node) {
			n.Camera = gltf.Index(index)
		})
	}

	for _, l := range s.Lights {
		built, err := BuildLight(l)
		if err != nil {
			return err
		}
		if built.Kind == engine.LIGHT_AMBIENT {
			continue
		}
		index := len(punctual)
		punctual = append(punctual, punctualLight(built))
		addNode(doc, built.Name, built.Transform, func(n *gltf.Node) {
			n.Extensions = gltf.Extensions{
				EXT_LIGHTS_PUNCTUAL: map[string]interface{}{"light": index},
			}
		})
	}

	for _, e := range s.Empties {
		built, err := BuildEmpty(e)
		if err != nil {
			return err
		}
		addNode(doc, built.Name, built.Transform, nil)
	}
	for _, sp := range s.Speakers {
		built, err := BuildSpeaker(sp, sp.Sound)
		if err != nil {
			return err
		}
		addNode(doc, built.Name, built.Transform, nil)
	}

	if len(punctual) > 0 {
		doc.ExtensionsUsed = append(doc.ExtensionsUsed, EXT_LIGHTS_PUNCTUAL)
		doc.Extensions = gltf.Extensions{
			EXT_LIGHTS_PUNCTUAL: map[string]interface{}{"lights": punctual},
		}
	}

	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}

func punctualLight(l *engine.Light) map[string]interface{} {
	entry := map[string]interface{}{
		"name":      l.Name,
		"type":      l.Kind,
		"color":     l.Color,
		"intensity": l.Intensity,
	}
	if l.Range > 0 {
		entry["range"] = l.Range
	}
	if l.Kind == engine.LIGHT_SPOT {
		entry["spot"] = map[string]interface{}{
			"innerConeAngle": l.InnerCone,
			"outerConeAngle": l.OuterCone,
		}
	}
	return entry
}

func addNode(doc *gltf.Document, name string, t engine.Transform, customize func(*gltf.Node)) {
	node := &gltf.Node{
		Name:        name,
		Translation: t.Translation,
		Rotation:    t.Rotation,
		Scale:       t.Scale,
	}
	if customize != nil {
		customize(node)
	}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)))
	doc.Nodes = append(doc.Nodes, node)
}

func f64(v float64) *float64 {
	return &v
}
