package scene

import (
	"log"
	"net/http"
	"sync"

	"github.com/pkg/errors"

	"github.com/nxengine/nx_player/assets"
	"github.com/nxengine/nx_player/engine"
	"github.com/nxengine/nx_player/project"
	"github.com/nxengine/nx_player/vfs"
)

// Runtime is the player's view of the running project: the manifest,
// its source, and whatever the connected viewer currently shows. Safe
// for concurrent use; web handlers, the watcher and the live link all
// read from it.
type Runtime struct {
	lock   sync.Mutex
	proj   *project.Project
	source vfs.Directory
	client *http.Client

	state  *State
	staged []*assets.Info
	active *engine.Camera
	scene  string

	// OnInteraction is handed to every build.
	OnInteraction func() error
}

func NewRuntime(p *project.Project, source vfs.Directory) *Runtime {
	return &Runtime{proj: p, source: source}
}

func (r *Runtime) SetClient(client *http.Client) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.client = client
}

func (r *Runtime) Project() *project.Project {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.proj
}

func (r *Runtime) Source() vfs.Directory {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.source
}

// State returns the entity registry of the last successful build, nil
// before the first one.
func (r *Runtime) State() *State {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.state
}

func (r *Runtime) Staged() []*assets.Info {
	r.lock.Lock()
	defer r.lock.Unlock()
	staged := make([]*assets.Info, len(r.staged))
	copy(staged, r.staged)
	return staged
}

func (r *Runtime) ActiveCamera() *engine.Camera {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.active
}

func (r *Runtime) SceneName() string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.scene
}

// BuildScene runs the five phase build for the named scene, or the
// manifest's initial scene when name is empty.
func (r *Runtime) BuildScene(session Commander, name string) error {
	r.lock.Lock()
	p, source, client, hook := r.proj, r.source, r.client, r.OnInteraction
	r.lock.Unlock()

	if p == nil {
		return errors.New("No project loaded")
	}

	var scene *project.Scene
	var err error
	if name == "" {
		if scene, err = p.InitialScene(); err != nil {
			return err
		}
	} else if scene = p.SceneByName(name); scene == nil {
		return errors.Errorf("No scene %q in project %q", name, p.Name)
	}

	builder := &Builder{
		Project:       p,
		Scene:         scene,
		Source:        source,
		Session:       session,
		Client:        client,
		OnInteraction: hook,
	}
	result, err := builder.Run()
	if err != nil {
		return err
	}

	r.lock.Lock()
	r.state = result.State
	r.staged = result.Staged
	r.active = result.Active
	r.scene = scene.Name
	r.lock.Unlock()
	return nil
}

// HandleResize refits the active camera to the viewer's new viewport.
// The stored camera keeps the authored fov, the session only sees the
// refitted copy, so repeated resizes never accumulate.
func (r *Runtime) HandleResize(session Commander, width, height int) error {
	r.lock.Lock()
	active := r.active
	r.lock.Unlock()

	if active == nil || active.Projection != engine.PROJECTION_PERSPECTIVE {
		return nil
	}

	refit := *active
	refit.FOV = RefitFOV(active.FOV, width, height)
	if width > 0 && height > 0 {
		refit.Aspect = float32(width) / float32(height)
	}
	if err := session.UpdateCamera(&refit); err != nil {
		return errors.Wrapf(err, "Failed to refit camera %q", refit.Name)
	}
	log.Printf("[scene] Viewport %dx%d, camera %q refitted", width, height, refit.Name)
	return nil
}

// ReplaceProject swaps the manifest after the watcher saw the source
// change. The viewer keeps the old scene until the next build.
func (r *Runtime) ReplaceProject(p *project.Project) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.proj = p
	log.Printf("[scene] Project %q reloaded, %d scenes", p.Name, len(p.Manifest.Scenes))
}

// Rebuild replays the current scene, falling back to the initial one
// when a reload removed it.
func (r *Runtime) Rebuild(session Commander) error {
	r.lock.Lock()
	name := r.scene
	p := r.proj
	r.lock.Unlock()

	if p == nil {
		return errors.New("No project loaded")
	}
	if name != "" && p.SceneByName(name) == nil {
		log.Printf("[scene] Scene %q gone after reload, using initial scene", name)
		name = ""
	}
	return r.BuildScene(session, name)
}
