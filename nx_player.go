package main

import (
	"flag"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/nxengine/nx_player/config"
	"github.com/nxengine/nx_player/engine"
	"github.com/nxengine/nx_player/livelink"
	"github.com/nxengine/nx_player/project"
	"github.com/nxengine/nx_player/scene"
	"github.com/nxengine/nx_player/status"
	"github.com/nxengine/nx_player/vfs"
	"github.com/nxengine/nx_player/watch"
	"github.com/nxengine/nx_player/web"
)

func main() {
	var addr, dir, bundle, url, linkAddr string
	var debug, nolink, nowatch bool
	flag.StringVar(&addr, "i", ":8000", "Address of server")
	flag.StringVar(&dir, "dir", "", "Path to an exported project build directory (or an .nxb bundle)")
	flag.StringVar(&bundle, "bundle", "", "Path to a compiled project bundle (*.nxb)")
	flag.StringVar(&url, "url", "", "Base url of a hosted project build")
	flag.StringVar(&linkAddr, "linkaddr", livelink.DEFAULT_ADDR, "Address of the editor live link")
	flag.BoolVar(&nolink, "nolink", false, "Never start the editor live link")
	flag.BoolVar(&nowatch, "nowatch", false, "Do not watch the project source for changes")
	flag.BoolVar(&debug, "debug", false, "Verbose manifest and state dumps")
	flag.Parse()

	config.ApplyOverlay()
	if debug {
		config.SetDebug(true)
	}

	var source vfs.Directory
	var watchRoot string
	client := http.DefaultClient

	if bundle != "" {
		z, err := vfs.NewZipDriver(bundle)
		if err != nil {
			log.Fatal(err)
		}
		defer z.Close()
		source = z
	} else if dir != "" {
		if strings.HasSuffix(strings.ToLower(dir), vfs.BUNDLE_EXTENSION) {
			z, err := vfs.NewZipDriver(dir)
			if err != nil {
				log.Fatal(err)
			}
			defer z.Close()
			source = z
		} else {
			source = vfs.NewDirectoryDriver(dir)
			watchRoot = dir
		}
	} else if url == "" {
		flag.PrintDefaults()
		return
	}

	var p *project.Project
	if source != nil {
		p = project.TryLoad(source)
	} else {
		p = project.TryLoadURL(client, manifestURL(url))
	}
	if p == nil {
		status.Error("Failed to load project, check the player log")
	} else {
		p.ApplyOptions()
		log.Printf("[main] Project %q, %d scenes", p.Name, len(p.Manifest.Scenes))
	}

	runtime := scene.NewRuntime(p, source)
	runtime.SetClient(client)

	armLink := linkStarter(runtime, linkAddr, nolink)
	armWatch := watchStarter(watchRoot, source, runtime, nowatch)
	runtime.OnInteraction = func() error {
		armLink()
		armWatch()
		return nil
	}
	if p == nil {
		// nothing builds until the manifest is fixed, watch right away
		armWatch()
	}

	if err := web.StartServer(addr, runtime, "web"); err != nil {
		log.Fatal(err)
	}
}

func manifestURL(base string) string {
	if strings.HasSuffix(base, project.PROJECT_FILE_NAME) {
		return base
	}
	return strings.TrimSuffix(base, "/") + "/" + project.PROJECT_FILE_NAME
}

// linkStarter defers the live link to the build's interaction phase, so
// a headless player never binds the editor port.
func linkStarter(runtime *scene.Runtime, addr string, disabled bool) func() {
	var once sync.Once
	return func() {
		p := runtime.Project()
		if disabled || p == nil || (!p.LiveLink && !config.GetDebug()) {
			return
		}
		once.Do(func() {
			link := livelink.NewServer(runtime)
			if err := link.Start(addr); err != nil {
				log.Printf("[main] Live link not started: %v", err)
			}
		})
	}
}

func watchStarter(root string, source vfs.Directory, runtime *scene.Runtime, disabled bool) func() {
	if disabled {
		return func() {}
	}
	if root == "" {
		var once sync.Once
		return func() {
			once.Do(func() {
				log.Printf("[main] Source is not watchable, hot reload off")
			})
		}
	}

	watcher := watch.New(root, source, runtime)
	watcher.OnReload = func(p *project.Project) {
		status.Info("Project %q reloaded", p.Name)
		session, err := engine.Active()
		if err != nil {
			return
		}
		if err := runtime.Rebuild(session); err != nil {
			log.Printf("[main] Rebuild after reload failed: %v", err)
			status.Error("Rebuild failed: %v", err)
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := watcher.Start(); err != nil {
				log.Printf("[main] Watcher failed to start: %v", err)
			}
		})
	}
}
