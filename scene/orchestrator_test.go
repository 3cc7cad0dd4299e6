package scene

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/nxengine/nx_player/engine"
	"github.com/nxengine/nx_player/project"
	"github.com/nxengine/nx_player/vfs"
)

// commandRecorder stands in for a viewer session and keeps the call
// order. failOn makes the matching command report a viewer error.
type commandRecorder struct {
	calls  []string
	failOn string
}

func (r *commandRecorder) hit(tag string) error {
	r.calls = append(r.calls, tag)
	if r.failOn != "" && strings.HasPrefix(tag, r.failOn) {
		return fmt.Errorf("viewer rejected %s", tag)
	}
	return nil
}

func (r *commandRecorder) ClearScene() error { return r.hit("clear") }
func (r *commandRecorder) SetEnvironment(env *engine.Environment) error {
	return r.hit("environment:" + env.Mode)
}
func (r *commandRecorder) SpawnCamera(c *engine.Camera) error  { return r.hit("camera:" + c.Name) }
func (r *commandRecorder) UpdateCamera(c *engine.Camera) error { return r.hit("update_camera:" + c.Name) }
func (r *commandRecorder) SpawnLight(l *engine.Light) error    { return r.hit("light:" + l.Name) }
func (r *commandRecorder) ConfigureMaterial(m *engine.Material) error {
	return r.hit("material:" + m.Name)
}
func (r *commandRecorder) SpawnSpeaker(sp *engine.Speaker) error {
	return r.hit("speaker:" + sp.Name)
}
func (r *commandRecorder) SpawnEmpty(e *engine.Empty) error { return r.hit("empty:" + e.Name) }
func (r *commandRecorder) EnqueueAsset(t *engine.AssetTask) error {
	return r.hit("enqueue:" + t.Name)
}
func (r *commandRecorder) ConfigureGraphics(g *engine.Graphics) error  { return r.hit("graphics") }
func (r *commandRecorder) SetPostprocess(stack []*engine.Effect) error { return r.hit("postprocess") }
func (r *commandRecorder) StartRenderLoop() error                      { return r.hit("run") }
func (r *commandRecorder) FadeLoadingScreen(seconds float32) error {
	return r.hit(fmt.Sprintf("fade:%.1f", seconds))
}

func testProject() *project.Project {
	return &project.Project{
		Name:   "demo",
		Splash: project.Splash{Duration: "2"},
		Manifest: project.Manifest{
			Initial: "Main",
			Scenes: []*project.Scene{
				{
					Name: "Main",
					Environment: project.Environment{
						BackgroundType:  project.BACKGROUND_TYPE_COLOR,
						BackgroundColor: []float32{0.1, 0.1, 0.1},
					},
					Cameras: []*project.Camera{{
						Object: project.Object{Name: "Camera", Matrix: translationMatrix(0, 1.6, 3)},
						FOV:    50,
						Active: true,
					}},
					Lights: []*project.Light{{
						Object:    project.Object{Name: "Sun", Matrix: identityMatrix()},
						Type:      project.LIGHT_TYPE_SUN,
						Intensity: 3.5,
					}},
					Speakers: []*project.Speaker{{
						Object: project.Object{Name: "Radio", Matrix: identityMatrix()},
						Sound:  "radio.ogg",
						Volume: 0.8,
					}},
					Empties: []*project.Empty{{
						Object: project.Object{Name: "Spawn", Matrix: identityMatrix()},
					}},
				},
			},
		},
	}
}

func testSource(t *testing.T) vfs.Directory {
	root := t.TempDir()
	ogg := append([]byte("OggS"), make([]byte, 60)...)
	if err := ioutil.WriteFile(filepath.Join(root, "radio.ogg"), ogg, 0666); err != nil {
		t.Fatal(err)
	}
	return vfs.NewDirectoryDriver(root)
}

func TestBuilderPhases(t *testing.T) {
	recorder := &commandRecorder{}
	var percents []float32
	builder := &Builder{
		Project: testProject(),
		Source:  testSource(t),
		Session: recorder,
		OnProgress: func(percent float32, message string) {
			percents = append(percents, percent)
		},
	}

	result, err := builder.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{
		"clear", "environment:color", "camera:Camera",
		"enqueue:radio.ogg",
		"light:Sun", "speaker:Radio", "empty:Spawn",
		"graphics", "postprocess", "run", "fade:2.0",
	}
	if !reflect.DeepEqual(recorder.calls, want) {
		t.Errorf("Call order:\n got %v\nwant %v", recorder.calls, want)
	}

	if !reflect.DeepEqual(percents, []float32{0, 10, 20, 80, 90, 100}) {
		t.Errorf("Progress = %v", percents)
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] <= percents[i-1] {
			t.Errorf("Progress not strictly increasing at %d: %v", i, percents)
		}
	}
	if percents[len(percents)-1] != 100 {
		t.Errorf("Progress should finish at 100, got %v", percents[len(percents)-1])
	}

	if len(result.Staged) != 1 || result.Staged[0].Name != "radio.ogg" {
		t.Errorf("Staged = %+v", result.Staged)
	}
	if result.Active == nil || result.Active.Name != "Camera" {
		t.Errorf("Active camera = %+v", result.Active)
	}
	entities := result.State.Entities()
	if len(entities) != 4 {
		t.Fatalf("Expected 4 registered entities, got %d", len(entities))
	}
	lit := result.State.Query([]string{LightComponent("demo")})
	if len(lit) != 1 || lit[0].Name != "Sun" {
		t.Errorf("Light entities = %+v", lit)
	}
}

func TestBuilderFailureStopsBuild(t *testing.T) {
	recorder := &commandRecorder{failOn: "light"}
	var percents []float32
	builder := &Builder{
		Project: testProject(),
		Source:  testSource(t),
		Session: recorder,
		OnProgress: func(percent float32, message string) {
			percents = append(percents, percent)
		},
	}

	_, err := builder.Run()
	if err == nil {
		t.Fatalf("Expected the light failure to propagate")
	}
	if !strings.Contains(err.Error(), "Sun") {
		t.Errorf("Error should name the light: %v", err)
	}
	for _, call := range recorder.calls {
		if call == "run" || strings.HasPrefix(call, "fade") {
			t.Errorf("Build went on after the failure: %v", recorder.calls)
		}
	}
	if last := percents[len(percents)-1]; last >= 100 {
		t.Errorf("Progress reached %v despite the failure", last)
	}
}

func TestBuilderFillsEmptyScene(t *testing.T) {
	p := &project.Project{
		Name: "bare",
		Manifest: project.Manifest{
			Scenes: []*project.Scene{{Name: "Bare"}},
		},
	}
	recorder := &commandRecorder{}
	builder := &Builder{Project: p, Session: recorder, OnProgress: func(float32, string) {}}

	result, err := builder.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	joined := strings.Join(recorder.calls, " ")
	for _, expected := range []string{"camera:DefaultCamera", "light:DefaultAmbient", "light:DefaultKey"} {
		if !strings.Contains(joined, expected) {
			t.Errorf("Missing %q in %v", expected, recorder.calls)
		}
	}
	if result.Active == nil || result.Active.Name != "DefaultCamera" {
		t.Errorf("Active camera = %+v", result.Active)
	}
}

func TestBuilderInteractionHook(t *testing.T) {
	recorder := &commandRecorder{}
	builder := &Builder{
		Project:    testProject(),
		Source:     testSource(t),
		Session:    recorder,
		OnProgress: func(float32, string) {},
		OnInteraction: func() error {
			recorder.calls = append(recorder.calls, "hook")
			return nil
		},
	}
	if _, err := builder.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	hook, run := -1, -1
	for i, call := range recorder.calls {
		switch call {
		case "hook":
			hook = i
		case "run":
			run = i
		}
	}
	if hook < 0 || run < 0 || hook > run {
		t.Errorf("Hook should fire before the render loop: %v", recorder.calls)
	}

	broken := &Builder{
		Project:       testProject(),
		Source:        testSource(t),
		Session:       &commandRecorder{},
		OnProgress:    func(float32, string) {},
		OnInteraction: func() error { return fmt.Errorf("no editor") },
	}
	if _, err := broken.Run(); err == nil {
		t.Errorf("Hook errors should abort the build")
	}
}

func TestRuntimeResize(t *testing.T) {
	runtime := NewRuntime(testProject(), testSource(t))
	recorder := &commandRecorder{}

	if err := runtime.BuildScene(recorder, ""); err != nil {
		t.Fatalf("BuildScene: %v", err)
	}
	if runtime.SceneName() != "Main" {
		t.Errorf("SceneName = %q", runtime.SceneName())
	}
	if err := runtime.BuildScene(recorder, "Nope"); err == nil {
		t.Errorf("Unknown scene name should fail")
	}

	authored := runtime.ActiveCamera().FOV
	if err := runtime.HandleResize(recorder, 1080, 1920); err != nil {
		t.Fatalf("HandleResize: %v", err)
	}
	last := recorder.calls[len(recorder.calls)-1]
	if last != "update_camera:Camera" {
		t.Errorf("Last call = %q", last)
	}
	if got := runtime.ActiveCamera().FOV; got != authored {
		t.Errorf("Stored fov drifted from %v to %v", authored, got)
	}
	// a second identical resize must produce the same refit, not compound
	if err := runtime.HandleResize(recorder, 1080, 1920); err != nil {
		t.Fatalf("HandleResize again: %v", err)
	}
	if got := runtime.ActiveCamera().FOV; got != authored {
		t.Errorf("Second resize drifted the stored fov to %v", got)
	}
}

func TestRuntimeRebuild(t *testing.T) {
	runtime := NewRuntime(testProject(), testSource(t))
	recorder := &commandRecorder{}
	if err := runtime.BuildScene(recorder, ""); err != nil {
		t.Fatalf("BuildScene: %v", err)
	}

	replacement := testProject()
	replacement.Manifest.Initial = "Other"
	replacement.Manifest.Scenes[0].Name = "Other"
	runtime.ReplaceProject(replacement)

	if err := runtime.Rebuild(recorder); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if runtime.SceneName() != "Other" {
		t.Errorf("SceneName after rebuild = %q", runtime.SceneName())
	}
}
