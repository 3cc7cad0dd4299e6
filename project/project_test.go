package project

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleManifest = `{
	"name": "demo",
	"developer": "DEV",
	"version": "VER",
	"debug": true,
	"livelink": true,
	"splash": {"type": "gif", "duration": "0", "src": ""},
	"gltf_mode": "Combined",
	"manifest": {
		"initial": "Scene",
		"scenes": [
			{
				"name": "Scene",
				"glb_groups": ["Scene.glb"],
				"environment": {
					"backgroundType": "color",
					"backgroundColor": [0.05, 0.05, 0.05, 1.0],
					"backgroundIntensity": 1.0
				},
				"scene_cameras": [
					{
						"name": "Camera",
						"identifier": 1,
						"matrix": [1,0,0,0, 0,1,0,0, 0,0,1,0, 0,1.6,3,1],
						"fov": 50.0,
						"clip_near": 0.1,
						"clip_far": 1000.0,
						"type": "Perspective",
						"active": true
					}
				],
				"scene_lights": [
					{
						"name": "Sun",
						"identifier": 2,
						"matrix": [1,0,0,0, 0,1,0,0, 0,0,1,0, 0,5,0,1],
						"color": [1.0, 0.95, 0.9],
						"intensity": 3.5,
						"type": "SUN",
						"shadow": true,
						"angle": 0.009
					},
					{
						"name": "Lamp",
						"identifier": 3,
						"matrix": [1,0,0,0, 0,1,0,0, 0,0,1,0, 2,2,2,1],
						"color": [1.0, 1.0, 1.0],
						"intensity": 100.0,
						"type": "SPOT",
						"shadow": false,
						"radius": 0.25,
						"spotSize": 4.18879,
						"spotBlend": 0.15
					}
				],
				"scene_speakers": [
					{
						"name": "Radio",
						"identifier": 4,
						"matrix": [1,0,0,0, 0,1,0,0, 0,0,1,0, 0,1,0,1],
						"volume": 0.8,
						"distance_ref": 1.0,
						"distance_max": 30.0,
						"sound": "radio.ogg",
						"autoplay": true,
						"loop": true
					}
				],
				"scene_materials": [
					{
						"name": "Conveyor",
						"identifier": 5,
						"reflectance": 0.5,
						"x_expression": "t*0.25",
						"y_expression": "",
						"blendmode": "Opaque",
						"ior": 1.45
					}
				]
			}
		]
	},
	"options": {
		"pipeline": "Standard",
		"graphics": {
			"antialiasing": true,
			"antialiasing_mode": "TAA",
			"shadows": true,
			"tonemapping_type": "AgX",
			"postprocessStack": [
				{"type": "bloom", "threshold": 1.0, "radius": 0.6, "intensity": 0.4},
				{"type": "vignette"}
			]
		},
		"video": {"width": 1920, "height": 1080}
	}
}`

func TestParseManifest(t *testing.T) {
	p, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatal(err)
	}

	if p.Name != "demo" {
		t.Errorf("Name = %q; expected %q", p.Name, "demo")
	}
	if !p.LiveLink {
		t.Errorf("LiveLink = false; expected true")
	}

	scene, err := p.InitialScene()
	if err != nil {
		t.Fatal(err)
	}
	if scene.Name != "Scene" {
		t.Errorf("Initial scene = %q; expected %q", scene.Name, "Scene")
	}
	if len(scene.GLBGroups) != 1 || scene.GLBGroups[0] != "Scene.glb" {
		t.Errorf("GLBGroups = %v; expected [Scene.glb]", scene.GLBGroups)
	}
	if scene.Environment.BackgroundType != BACKGROUND_TYPE_COLOR {
		t.Errorf("BackgroundType = %q; expected color", scene.Environment.BackgroundType)
	}

	camera := scene.ActiveCamera()
	if camera == nil {
		t.Fatal("ActiveCamera() = nil")
	}
	if camera.Name != "Camera" || camera.FOV != 50.0 {
		t.Errorf("Active camera = %v %v; expected Camera 50", camera.Name, camera.FOV)
	}
	if len(camera.Matrix) != 16 {
		t.Errorf("Camera matrix has %v elements", len(camera.Matrix))
	}

	if len(scene.Lights) != 2 {
		t.Fatalf("Lights = %v; expected 2", len(scene.Lights))
	}
	sun := scene.Lights[0]
	if sun.Type != LIGHT_TYPE_SUN || !sun.Shadow {
		t.Errorf("Sun light = %q shadow %v; expected SUN true", sun.Type, sun.Shadow)
	}
	spot := scene.Lights[1]
	if spot.SpotSize == 0 || spot.SpotBlend != 0.15 {
		t.Errorf("Spot = size %v blend %v", spot.SpotSize, spot.SpotBlend)
	}

	if len(scene.Speakers) != 1 || scene.Speakers[0].Sound != "radio.ogg" {
		t.Errorf("Speakers = %v", scene.Speakers)
	}
	if len(scene.Materials) != 1 || scene.Materials[0].XExpression != "t*0.25" {
		t.Errorf("Materials = %v", scene.Materials)
	}

	stack := p.Options.Graphics.PostprocessStack
	if len(stack) != 2 || stack[0].Type != "bloom" || stack[1].Type != "vignette" {
		t.Errorf("PostprocessStack = %v", stack)
	}
}

func TestParseInvalid(t *testing.T) {
	var parseTests = []struct {
		name string
		data string
	}{
		{"garbage", "{not json"},
		{"unnamed", `{"manifest":{"scenes":[{"name":"A"}]}}`},
		{"no scenes", `{"name":"x","manifest":{"scenes":[]}}`},
		{"duplicate scenes", `{"name":"x","manifest":{"scenes":[{"name":"A"},{"name":"A"}]}}`},
	}

	for _, test := range parseTests {
		if _, err := Parse([]byte(test.data)); err == nil {
			t.Errorf("Parse(%s): expected error", test.name)
		}
	}
}

func TestInitialSceneFallback(t *testing.T) {
	p, err := Parse([]byte(`{"name":"x","manifest":{"initial":"Gone","scenes":[{"name":"A"},{"name":"B"}]}}`))
	if err != nil {
		t.Fatal(err)
	}
	scene, err := p.InitialScene()
	if err != nil {
		t.Fatal(err)
	}
	if scene.Name != "A" {
		t.Errorf("Fallback initial scene = %q; expected %q", scene.Name, "A")
	}
}

func TestTryLoadURLNotFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	if p := TryLoadURL(ts.Client(), ts.URL+"/project.nx"); p != nil {
		t.Errorf("TryLoadURL on 404 = %v; expected nil", p)
	}
}

func TestTryLoadURLOk(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleManifest))
	}))
	defer ts.Close()

	p := TryLoadURL(ts.Client(), ts.URL+"/project.nx")
	if p == nil {
		t.Fatal("TryLoadURL = nil; expected project")
	}
	if p.Name != "demo" {
		t.Errorf("Name = %q; expected demo", p.Name)
	}
}
