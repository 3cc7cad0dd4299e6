// Package watch reloads the project when the exporter rewrites it. Only
// directory sources can be watched; zip builds and hosted projects are
// immutable from the player's point of view.
package watch

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/nxengine/nx_player/project"
	"github.com/nxengine/nx_player/scene"
	"github.com/nxengine/nx_player/vfs"
)

// Exporters write the manifest and the glb groups in one burst; the
// reload waits for the burst to settle.
const SETTLE_DELAY = 300 * time.Millisecond

type Watcher struct {
	root    string
	source  vfs.Directory
	runtime *scene.Runtime

	// OnReload runs after the runtime swapped to the new manifest. The
	// shell rebuilds the viewer scene here.
	OnReload func(p *project.Project)

	fs        *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
}

func New(root string, source vfs.Directory, runtime *scene.Runtime) *Watcher {
	return &Watcher{
		root:    root,
		source:  source,
		runtime: runtime,
		done:    make(chan struct{}),
	}
}

func (w *Watcher) Start() error {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "Failed to create watcher")
	}
	if err := fs.Add(w.root); err != nil {
		fs.Close()
		return errors.Wrapf(err, "Failed to watch %q", w.root)
	}
	w.fs = fs
	go w.loop()
	log.Printf("[watch] Watching %q for manifest rewrites", w.root)
	return nil
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		if w.fs != nil {
			err = w.fs.Close()
		}
	})
	return err
}

func (w *Watcher) loop() {
	var settle *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !manifestEvent(event) {
				continue
			}
			if settle == nil {
				settle = time.NewTimer(SETTLE_DELAY)
				fire = settle.C
			} else {
				if !settle.Stop() {
					select {
					case <-settle.C:
					default:
					}
				}
				settle.Reset(SETTLE_DELAY)
			}
		case <-fire:
			settle = nil
			fire = nil
			w.reload()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("[watch] %v", err)
		case <-w.done:
			return
		}
	}
}

func manifestEvent(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != project.PROJECT_FILE_NAME {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) reload() {
	p := project.TryLoad(w.source)
	if p == nil {
		log.Printf("[watch] Manifest rewrite ignored, project did not load")
		return
	}
	p.ApplyOptions()
	w.runtime.ReplaceProject(p)
	if w.OnReload != nil {
		w.OnReload(p)
	}
}
