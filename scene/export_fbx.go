package scene

import (
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mogaika/fbx"
	"github.com/mogaika/fbx/builders/bfbx73"

	"github.com/nxengine/nx_player/engine"
	"github.com/nxengine/nx_player/project"
	"github.com/nxengine/nx_player/transform"
	"github.com/nxengine/nx_player/utils"
	"github.com/nxengine/nx_player/utils/fbxbuilder"
)

const (
	FBX_LIGHT_POINT       = 0
	FBX_LIGHT_DIRECTIONAL = 1
	FBX_LIGHT_SPOT        = 2
)

// ExportFBX writes the scene scaffolding as a binary FBX document, the
// flavor DCC tools import without a glTF plugin. Same coverage as the
// glb export: cameras, lights, empty and speaker locators; the mesh
// geometry stays in the glb groups.
func ExportFBX(s *project.Scene, w io.Writer) error {
	f, err := buildFBX(s)
	if err != nil {
		return err
	}
	return f.Write(w)
}

// ExportFBXBundle wraps the document in a zip together with sidecar
// files, keyed by their manifest locations.
func ExportFBXBundle(s *project.Scene, sidecars map[string][]byte, w io.Writer) error {
	f, err := buildFBX(s)
	if err != nil {
		return err
	}
	for name, data := range sidecars {
		f.AddExportFile(name, data)
	}
	return f.WriteZip(w, s.Name+".fbx")
}

func buildFBX(s *project.Scene) (*fbxbuilder.FBXBuilder, error) {
	f := fbxbuilder.NewFBXBuilder(s.Name + ".fbx")

	for _, c := range s.Cameras {
		built, err := BuildCamera(c)
		if err != nil {
			return nil, err
		}
		model := fbxModel(f, built.Name, "Camera", built.Transform)
		fbxAttribute(f, model, built.Name, "Camera",
			bfbx73.P("FieldOfView", "FieldOfView", "", "A", radToDeg(built.FOV)),
			bfbx73.P("NearPlane", "double", "Number", "", float64(built.Near)),
			bfbx73.P("FarPlane", "double", "Number", "", float64(built.Far)),
		)
	}

	for _, l := range s.Lights {
		built, err := BuildLight(l)
		if err != nil {
			return nil, err
		}
		if built.Kind == engine.LIGHT_AMBIENT {
			continue
		}
		model := fbxModel(f, built.Name, "Light", built.Transform)
		fbxAttribute(f, model, built.Name, "Light",
			bfbx73.P("LightType", "enum", "", "", fbxLightType(built.Kind)),
			bfbx73.P("Color", "Color", "", "A",
				float64(built.Color[0]), float64(built.Color[1]), float64(built.Color[2])),
			bfbx73.P("Intensity", "Number", "", "A", float64(built.Intensity)),
		)
	}

	for _, e := range s.Empties {
		built, err := BuildEmpty(e)
		if err != nil {
			return nil, err
		}
		model := fbxModel(f, built.Name, "Null", built.Transform)
		fbxAttribute(f, model, built.Name, "Null")
	}
	for _, sp := range s.Speakers {
		built, err := BuildSpeaker(sp, sp.Sound)
		if err != nil {
			return nil, err
		}
		model := fbxModel(f, built.Name, "Null", built.Transform)
		fbxAttribute(f, model, built.Name, "Null")
	}

	return f, nil
}

// fbxModel emits one root level model node. FBX wants local rotations
// as euler degrees, so the viewer quaternion is decomposed here.
func fbxModel(f *fbxbuilder.FBXBuilder, name, element string, t engine.Transform) int64 {
	rotation := utils.RadiansToDegreeV3(transform.QuatToEuler(mgl32.Quat{
		W: t.Rotation[3],
		V: mgl32.Vec3{t.Rotation[0], t.Rotation[1], t.Rotation[2]},
	}))

	id := f.GenerateId()
	f.AddObjects(bfbx73.Model(id, name+"\x00\x01Model", element).AddNodes(
		bfbx73.Version(232),
		bfbx73.Properties70().AddNodes(
			bfbx73.P("InheritType", "enum", "", "", int32(1)),
			bfbx73.P("DefaultAttributeIndex", "int", "Integer", "", int32(0)),
			bfbx73.P("Lcl Translation", "Lcl Translation", "", "A+",
				float64(t.Translation[0]), float64(t.Translation[1]), float64(t.Translation[2])),
			bfbx73.P("Lcl Rotation", "Lcl Rotation", "", "A+",
				float64(rotation[0]), float64(rotation[1]), float64(rotation[2])),
			bfbx73.P("Lcl Scaling", "Lcl Scaling", "", "A+",
				float64(t.Scale[0]), float64(t.Scale[1]), float64(t.Scale[2])),
		),
		bfbx73.Shading(true),
		bfbx73.Culling("CullingOff"),
	))
	f.AddConnections(bfbx73.C("OO", id, 0))
	return id
}

func fbxAttribute(f *fbxbuilder.FBXBuilder, model int64, name, element string, properties ...*fbx.Node) {
	id := f.GenerateId()
	attr := bfbx73.NodeAttribute(id, name+"\x00\x01NodeAttribute", element).AddNodes(
		bfbx73.TypeFlags(element),
	)
	if len(properties) > 0 {
		attr.AddNodes(bfbx73.Properties70().AddNodes(properties...))
	}
	f.AddObjects(attr)
	f.AddConnections(bfbx73.C("OO", id, model))
}

func fbxLightType(kind string) int32 {
	switch kind {
	case engine.LIGHT_DIRECTIONAL:
		return FBX_LIGHT_DIRECTIONAL
	case engine.LIGHT_SPOT:
		return FBX_LIGHT_SPOT
	}
	return FBX_LIGHT_POINT
}

func radToDeg(radians float32) float64 {
	return float64(radians) * 180.0 / math.Pi
}
