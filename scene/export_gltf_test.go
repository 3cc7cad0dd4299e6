package scene

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/nxengine/nx_player/project"
)

func TestExportGLTF(t *testing.T) {
	s := &project.Scene{
		Name: "Main",
		Cameras: []*project.Camera{{
			Object: project.Object{Name: "Camera", Matrix: translationMatrix(0, 1.6, 3)},
			FOV:    50,
			Active: true,
		}},
		Lights: []*project.Light{
			{
				Object:    project.Object{Name: "Bulb", Matrix: translationMatrix(1, 2, 1)},
				Type:      project.LIGHT_TYPE_POINT,
				Intensity: 60,
				Radius:    10,
			},
			{
				Object:    project.Object{Name: "Lamp", Matrix: identityMatrix()},
				Type:      project.LIGHT_TYPE_SPOT,
				Intensity: 40,
				SpotSize:  1.2 + math.Pi,
				SpotBlend: 0.2,
			},
		},
		Empties: []*project.Empty{{
			Object: project.Object{Name: "Spawn", Matrix: identityMatrix()},
		}},
		Speakers: []*project.Speaker{{
			Object: project.Object{Name: "Radio", Matrix: identityMatrix()},
			Sound:  "radio.ogg",
		}},
	}

	var buf bytes.Buffer
	if err := ExportGLTF(s, &buf); err != nil {
		t.Fatalf("ExportGLTF: %v", err)
	}
	raw := buf.Bytes()
	if len(raw) < 12 || binary.LittleEndian.Uint32(raw) != 0x46546C67 {
		t.Fatalf("Output is not a glb container")
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(raw)).Decode(doc); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(doc.Cameras) != 1 || doc.Cameras[0].Perspective == nil {
		t.Errorf("Cameras = %+v", doc.Cameras)
	}
	// camera + two lights + empty + speaker
	if len(doc.Nodes) != 5 {
		t.Fatalf("Expected 5 nodes, got %d", len(doc.Nodes))
	}
	if doc.Scene == nil || len(doc.Scenes[0].Nodes) != 5 {
		t.Errorf("Scene graph = %+v", doc.Scenes)
	}

	found := false
	for _, used := range doc.ExtensionsUsed {
		if used == EXT_LIGHTS_PUNCTUAL {
			found = true
		}
	}
	if !found {
		t.Errorf("ExtensionsUsed = %v", doc.ExtensionsUsed)
	}
	if _, ok := doc.Extensions[EXT_LIGHTS_PUNCTUAL]; !ok {
		t.Errorf("Document extension block missing")
	}

	cameraNodes, litNodes := 0, 0
	for _, node := range doc.Nodes {
		if node.Camera != nil {
			cameraNodes++
		}
		if _, ok := node.Extensions[EXT_LIGHTS_PUNCTUAL]; ok {
			litNodes++
		}
	}
	if cameraNodes != 1 || litNodes != 2 {
		t.Errorf("Node wiring: %d camera, %d light nodes", cameraNodes, litNodes)
	}
}

func TestExportGLTFOrthographic(t *testing.T) {
	s := &project.Scene{
		Name: "Flat",
		Cameras: []*project.Camera{{
			Object: project.Object{Name: "Ortho", Matrix: identityMatrix()},
			Type:   project.CAMERA_TYPE_ORTHOGRAPHIC,
		}},
	}
	var buf bytes.Buffer
	if err := ExportGLTF(s, &buf); err != nil {
		t.Fatalf("ExportGLTF: %v", err)
	}
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(doc); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(doc.Cameras) != 1 || doc.Cameras[0].Orthographic == nil {
		t.Fatalf("Cameras = %+v", doc.Cameras)
	}
	if doc.Cameras[0].Orthographic == nil || doc.Cameras[0].Orthographic.Znear == 0 {
		t.Errorf("Orthographic block = %+v", doc.Cameras[0].Orthographic)
	}
}

func TestExportGLTFBadMatrix(t *testing.T) {
	s := &project.Scene{
		Name: "Broken",
		Lights: []*project.Light{{
			Object: project.Object{Name: "Strobe", Matrix: []float32{1}},
			Type:   project.LIGHT_TYPE_POINT,
		}},
	}
	if err := ExportGLTF(s, &bytes.Buffer{}); err == nil {
		t.Fatalf("Expected the malformed matrix to surface")
	}
}
