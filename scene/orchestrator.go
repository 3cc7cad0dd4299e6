package scene

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/nxengine/nx_player/assets"
	"github.com/nxengine/nx_player/engine"
	"github.com/nxengine/nx_player/project"
	"github.com/nxengine/nx_player/status"
	"github.com/nxengine/nx_player/vfs"
)

// Commander is the slice of the viewer session the builder drives.
// engine.Session satisfies it; tests substitute a recorder.
type Commander interface {
	ClearScene() error
	SetEnvironment(env *engine.Environment) error
	SpawnCamera(c *engine.Camera) error
	UpdateCamera(c *engine.Camera) error
	SpawnLight(l *engine.Light) error
	ConfigureMaterial(m *engine.Material) error
	SpawnSpeaker(sp *engine.Speaker) error
	SpawnEmpty(e *engine.Empty) error
	EnqueueAsset(t *engine.AssetTask) error
	ConfigureGraphics(g *engine.Graphics) error
	SetPostprocess(stack []*engine.Effect) error
	StartRenderLoop() error
	FadeLoadingScreen(seconds float32) error
}

// Build phases, in percent. Asset staging owns the wide middle band,
// everything else is bookkeeping around it.
const (
	PHASE_ENVIRONMENT = 10
	PHASE_CAMERA      = 20
	PHASE_ASSETS      = 80
	PHASE_OBJECTS     = 90
	PHASE_READY       = 100
)

// Builder turns one manifest scene into a live viewer scene. Phases run
// in a fixed order: environment, camera, assets, scene objects,
// interaction. The first failing engine call aborts the build.
type Builder struct {
	Project *project.Project
	Scene   *project.Scene
	Source  vfs.Directory
	Session Commander
	Client  *http.Client

	// OnProgress receives every percent step exactly once, strictly
	// increasing. Defaults to the loading screen broadcast.
	OnProgress func(percent float32, message string)

	// OnInteraction runs after graphics setup, right before the render
	// loop starts. The shell arms live link and the watcher here.
	OnInteraction func() error

	last float32
}

// Result is what the build leaves behind for the running session.
type Result struct {
	State  *State
	Staged []*assets.Info
	Active *engine.Camera
}

func (b *Builder) Run() (*Result, error) {
	if b.Project == nil {
		return nil, errors.New("No project loaded")
	}
	if b.Session == nil {
		return nil, errors.New("No viewer session to build on")
	}
	scene := b.Scene
	if scene == nil {
		var err error
		if scene, err = b.Project.InitialScene(); err != nil {
			return nil, err
		}
	}

	log.Printf("[scene] Building scene %q of project %q", scene.Name, b.Project.Name)
	state := NewState(b.Project.Name)
	result := &Result{State: state}

	b.last = -1
	b.report(0, "Preparing scene %q", scene.Name)

	if err := b.Session.ClearScene(); err != nil {
		return nil, errors.Wrap(err, "Failed to clear scene")
	}
	env := BuildEnvironment(&scene.Environment)
	if env.Texture != "" {
		env.Texture = AssetURL(env.Texture)
	}
	if err := b.Session.SetEnvironment(env); err != nil {
		return nil, errors.Wrap(err, "Failed to apply environment")
	}
	b.report(PHASE_ENVIRONMENT, "Environment ready")

	if err := b.spawnCameras(scene, state, result); err != nil {
		return nil, err
	}
	b.report(PHASE_CAMERA, "Camera ready")

	staged, err := b.stageAssets(scene)
	if err != nil {
		return nil, err
	}
	result.Staged = staged
	for _, info := range staged {
		task := &engine.AssetTask{
			Task: info.Task.String(),
			Type: info.Type,
			Name: info.Name,
			URL:  AssetURL(info.Location()),
			Size: info.Size,
		}
		if err := b.Session.EnqueueAsset(task); err != nil {
			return nil, errors.Wrapf(err, "Failed to enqueue %q", info.Name)
		}
	}

	if err := b.spawnObjects(scene, state); err != nil {
		return nil, err
	}
	b.report(PHASE_OBJECTS, "Scene objects placed")

	if err := b.Session.ConfigureGraphics(GraphicsSnapshot()); err != nil {
		return nil, errors.Wrap(err, "Failed to configure graphics")
	}
	stack := BuildPostprocess(&b.Project.Options.Graphics)
	if err := b.Session.SetPostprocess(stack); err != nil {
		return nil, errors.Wrap(err, "Failed to set postprocess stack")
	}
	if b.OnInteraction != nil {
		if err := b.OnInteraction(); err != nil {
			return nil, errors.Wrap(err, "Interaction setup failed")
		}
	}
	if err := b.Session.StartRenderLoop(); err != nil {
		return nil, errors.Wrap(err, "Failed to start render loop")
	}
	if err := b.Session.FadeLoadingScreen(fadeSeconds(b.Project.Splash.Duration)); err != nil {
		return nil, errors.Wrap(err, "Failed to fade loading screen")
	}
	b.report(PHASE_READY, "Scene %q ready", scene.Name)

	return result, nil
}

func (b *Builder) spawnCameras(scene *project.Scene, state *State, result *Result) error {
	if len(scene.Cameras) == 0 {
		camera := DefaultCamera()
		if err := b.Session.SpawnCamera(camera); err != nil {
			return errors.Wrap(err, "Failed to spawn default camera")
		}
		state.Add(camera.Name, ENTITY_CAMERA, camera.Transform, nil)
		result.Active = camera
		return nil
	}

	chosen := scene.ActiveCamera()
	for _, c := range scene.Cameras {
		built, err := BuildCamera(c)
		if err != nil {
			return err
		}
		built.Active = c == chosen
		if err := b.Session.SpawnCamera(built); err != nil {
			return errors.Wrapf(err, "Failed to spawn camera %q", built.Name)
		}
		state.Add(built.Name, ENTITY_CAMERA, built.Transform, nil)
		if built.Active {
			result.Active = built
		}
	}
	return nil
}

func (b *Builder) stageAssets(scene *project.Scene) ([]*assets.Info, error) {
	batch := assets.NewBatch(b.Source)
	batch.SetClient(b.Client)
	batch.OnProgress = func(fraction float32) {
		percent := PHASE_CAMERA + fraction*(PHASE_ASSETS-PHASE_CAMERA)
		b.report(percent, "Loading assets")
	}
	staged, err := batch.Run(CollectDescriptors(scene))
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to stage assets of %q", scene.Name)
	}
	return staged, nil
}

func (b *Builder) spawnObjects(scene *project.Scene, state *State) error {
	if len(scene.Lights) == 0 {
		for _, built := range DefaultLights() {
			if err := b.Session.SpawnLight(built); err != nil {
				return errors.Wrapf(err, "Failed to spawn light %q", built.Name)
			}
			state.AddLight(built, lightControllerOf(built.Color, built.Intensity))
		}
	}
	for _, l := range scene.Lights {
		built, err := BuildLight(l)
		if err != nil {
			return err
		}
		if err := b.Session.SpawnLight(built); err != nil {
			return errors.Wrapf(err, "Failed to spawn light %q", built.Name)
		}
		state.AddLight(built, lightControllerOf(lightColor(l.Color), l.Intensity))
	}

	for _, m := range scene.Materials {
		if err := b.Session.ConfigureMaterial(BuildMaterial(m)); err != nil {
			return errors.Wrapf(err, "Failed to configure material %q", m.Name)
		}
	}

	for _, sp := range scene.Speakers {
		built, err := BuildSpeaker(sp, AssetURL(sp.Sound))
		if err != nil {
			return err
		}
		if err := b.Session.SpawnSpeaker(built); err != nil {
			return errors.Wrapf(err, "Failed to spawn speaker %q", built.Name)
		}
		state.Add(built.Name, ENTITY_SPEAKER, built.Transform, nil)
	}

	for _, e := range scene.Empties {
		built, err := BuildEmpty(e)
		if err != nil {
			return err
		}
		if err := b.Session.SpawnEmpty(built); err != nil {
			return errors.Wrapf(err, "Failed to spawn empty %q", built.Name)
		}
		state.Add(built.Name, ENTITY_EMPTY, built.Transform, nil)
	}
	return nil
}

func (b *Builder) report(percent float32, format string, a ...interface{}) {
	if percent <= b.last {
		return
	}
	b.last = percent
	if b.OnProgress != nil {
		b.OnProgress(percent, fmt.Sprintf(format, a...))
		return
	}
	status.Progress(percent/100, format, a...)
}

func lightControllerOf(color [3]float32, intensity float32) LightController {
	return LightController{
		Color: ColorValue{Srgba: SrgbaColor{
			Red:   color[0],
			Green: color[1],
			Blue:  color[2],
			Alpha: 1,
		}},
		Intensity: intensity,
	}
}

// AssetURL maps a manifest location onto the player's asset mount.
// Remote urls pass through untouched, everything else is served from
// the project source.
func AssetURL(location string) string {
	if location == "" {
		return ""
	}
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return location
	}
	return "/assets/" + location
}

func fadeSeconds(duration string) float32 {
	if duration == "" {
		return 1
	}
	seconds, err := strconv.ParseFloat(strings.TrimSuffix(duration, "s"), 32)
	if err != nil || seconds <= 0 {
		return 1
	}
	return float32(seconds)
}
