package main

import (
	"flag"
	"log"
	"strings"

	"github.com/nxengine/nx_player/engine"
	"github.com/nxengine/nx_player/project"
	"github.com/nxengine/nx_player/scene"
	"github.com/nxengine/nx_player/vfs"
)

// dryCommander swallows viewer commands so every scene can be built
// without a browser attached.
type dryCommander struct{}

func (dryCommander) ClearScene() error                        { return nil }
func (dryCommander) SetEnvironment(*engine.Environment) error { return nil }
func (dryCommander) SpawnCamera(*engine.Camera) error         { return nil }
func (dryCommander) UpdateCamera(*engine.Camera) error        { return nil }
func (dryCommander) SpawnLight(*engine.Light) error           { return nil }
func (dryCommander) ConfigureMaterial(*engine.Material) error { return nil }
func (dryCommander) SpawnSpeaker(*engine.Speaker) error       { return nil }
func (dryCommander) SpawnEmpty(*engine.Empty) error           { return nil }
func (dryCommander) EnqueueAsset(*engine.AssetTask) error     { return nil }
func (dryCommander) ConfigureGraphics(*engine.Graphics) error { return nil }
func (dryCommander) SetPostprocess([]*engine.Effect) error    { return nil }
func (dryCommander) StartRenderLoop() error                   { return nil }
func (dryCommander) FadeLoadingScreen(float32) error          { return nil }

func checkNames(s *project.Scene) int {
	conflicts := 0
	seen := make(map[string]string)
	note := func(name, kind string) {
		if name == "" {
			return
		}
		if prev, ok := seen[name]; ok {
			log.Printf("Scene %q: conflicting object name %q (%s and %s)", s.Name, name, prev, kind)
			conflicts++
			return
		}
		seen[name] = kind
	}

	for _, c := range s.Cameras {
		note(c.Name, "camera")
	}
	for _, l := range s.Lights {
		note(l.Name, "light")
	}
	for _, sp := range s.Speakers {
		note(sp.Name, "speaker")
	}
	for _, e := range s.Empties {
		note(e.Name, "empty")
	}
	for _, m := range s.Meshes {
		note(m.Name, "mesh")
	}
	for _, c := range s.Curves {
		note(c.Name, "curve")
	}
	return conflicts
}

func main() {
	var inPath string
	flag.StringVar(&inPath, "i", "", "Path to an exported build directory or .nxb bundle")
	flag.Parse()

	if inPath == "" {
		log.Fatal("Provide path to a build. Use --help if you stuck.")
	}

	var source vfs.Directory
	if strings.HasSuffix(strings.ToLower(inPath), vfs.BUNDLE_EXTENSION) {
		z, err := vfs.NewZipDriver(inPath)
		if err != nil {
			log.Fatal(err)
		}
		defer z.Close()
		source = z
	} else {
		source = vfs.NewDirectoryDriver(inPath)
	}

	p, err := project.LoadFromDirectory(source)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Project %q version %q, %d scenes", p.Name, p.Version, len(p.Manifest.Scenes))

	failed := 0
	for _, s := range p.Manifest.Scenes {
		conflicts := checkNames(s)

		b := &scene.Builder{
			Project:    p,
			Scene:      s,
			Source:     source,
			Session:    dryCommander{},
			OnProgress: func(float32, string) {},
		}
		if _, err := b.Run(); err != nil {
			log.Printf("Scene %q: %v", s.Name, err)
			failed++
			continue
		}
		if conflicts != 0 {
			log.Printf("Scene %q: builds, %d name conflicts", s.Name, conflicts)
			continue
		}
		log.Printf("Scene %q: ok", s.Name)
	}

	if failed != 0 {
		log.Fatalf("%d of %d scenes failed to build", failed, len(p.Manifest.Scenes))
	}
	log.Println("All scenes build")
}
