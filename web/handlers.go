package web

import (
	"bytes"
	"fmt"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/nxengine/nx_player/config"
	"github.com/nxengine/nx_player/engine"
	"github.com/nxengine/nx_player/project"
	"github.com/nxengine/nx_player/scene"
	"github.com/nxengine/nx_player/utils"
	"github.com/nxengine/nx_player/vfs"
	"github.com/nxengine/nx_player/webutils"
)

// loadedProject fetches the runtime's project, answering the error the
// startup loader swallowed when there is none.
func loadedProject(w http.ResponseWriter) *project.Project {
	p := ServerRuntime.Project()
	if p == nil {
		webutils.WriteError(w, fmt.Errorf("No project loaded"))
	}
	return p
}

// HandlerManifest serves the manifest the runtime currently holds, not
// the file on disk. Zip and url sources have no file to serve, and the
// watcher may have swapped the project since startup.
func HandlerManifest(w http.ResponseWriter, r *http.Request) {
	if p := loadedProject(w); p != nil {
		webutils.WriteJson(w, p)
	}
}

type projectInfo struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Initial string   `json:"initial"`
	Scenes  []string `json:"scenes"`
	Built   string   `json:"built"`
	Viewer  bool     `json:"viewer"`
}

func HandlerProject(w http.ResponseWriter, r *http.Request) {
	p := loadedProject(w)
	if p == nil {
		return
	}
	info := &projectInfo{
		Name:    p.Name,
		Version: p.Version,
		Initial: p.Manifest.Initial,
		Scenes:  make([]string, 0, len(p.Manifest.Scenes)),
		Built:   ServerRuntime.SceneName(),
	}
	for _, s := range p.Manifest.Scenes {
		info.Scenes = append(info.Scenes, s.Name)
	}
	if _, err := engine.Active(); err == nil {
		info.Viewer = true
	}
	webutils.WriteJson(w, info)
}

type entityInfo struct {
	ID         uint64   `json:"id"`
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Components []string `json:"components"`
}

func HandlerSceneState(w http.ResponseWriter, r *http.Request) {
	state := ServerRuntime.State()
	rows := make([]*entityInfo, 0)
	if state == nil {
		webutils.WriteJson(w, rows)
		return
	}
	for _, e := range state.Entities() {
		row := &entityInfo{ID: e.ID, Name: e.Name, Kind: e.Kind}
		for component := range e.Components {
			row.Components = append(row.Components, component)
		}
		sort.Strings(row.Components)
		rows = append(rows, row)
	}
	webutils.WriteJson(w, rows)
}

type assetInfo struct {
	Task string `json:"task"`
	Type string `json:"type"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
	MIME string `json:"mime"`
}

func HandlerStagedAssets(w http.ResponseWriter, r *http.Request) {
	rows := make([]*assetInfo, 0)
	for _, info := range ServerRuntime.Staged() {
		rows = append(rows, &assetInfo{
			Task: info.Task.String(),
			Type: info.Type,
			Name: info.Name,
			URL:  scene.AssetURL(info.Location()),
			Size: info.Size,
			MIME: info.MIME,
		})
	}
	webutils.WriteJson(w, rows)
}

// The stock sniffers cover images and audio; the formats the exporter
// emits itself need spelling out.
func assetContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".glb":
		return "model/gltf-binary"
	case ".gltf":
		return "model/gltf+json"
	case ".hdr":
		return "image/vnd.radiance"
	case ".nx":
		return "application/json"
	}
	return ""
}

// HandlerAsset serves project source files under the mount the builder
// rewrote asset urls onto. ServeContent gives the viewer range requests,
// which streaming speakers rely on.
func HandlerAsset(w http.ResponseWriter, r *http.Request) {
	source := ServerRuntime.Source()
	if source == nil {
		webutils.WriteError(w, fmt.Errorf("No local project source"))
		return
	}
	p := strings.TrimPrefix(r.URL.Path, "/assets/")
	data, err := vfs.ReadFileAll(source, p)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	mime := assetContentType(p)
	for _, info := range ServerRuntime.Staged() {
		if info.Location() == p && info.MIME != "" {
			mime = info.MIME
			break
		}
	}
	if mime != "" {
		w.Header().Set("Content-Type", mime)
	}
	http.ServeContent(w, r, path.Base(p), time.Time{}, bytes.NewReader(data))
}

func HandlerExportScene(w http.ResponseWriter, r *http.Request) {
	p := loadedProject(w)
	if p == nil {
		return
	}
	name := mux.Vars(r)["scene"]
	s := p.SceneByName(name)
	if s == nil {
		webutils.WriteError(w, fmt.Errorf("No scene %q in project", name))
		return
	}
	exportScene(w, s)
}

func HandlerExportCurrentScene(w http.ResponseWriter, r *http.Request) {
	p := loadedProject(w)
	if p == nil {
		return
	}
	s := p.SceneByName(ServerRuntime.SceneName())
	if s == nil {
		var err error
		if s, err = p.InitialScene(); err != nil {
			webutils.WriteError(w, err)
			return
		}
	}
	exportScene(w, s)
}

func exportScene(w http.ResponseWriter, s *project.Scene) {
	var buf bytes.Buffer
	if err := scene.ExportGLTF(s, &buf); err != nil {
		webutils.WriteError(w, fmt.Errorf("Export of scene %q failed: %v", s.Name, err))
		return
	}
	webutils.WriteFile(w, &buf, s.Name+".glb")
}

// HandlerExportSceneFBX serves the fbx flavor. With ?bundle=1 the
// document comes zipped together with the scene's staged asset bytes.
func HandlerExportSceneFBX(w http.ResponseWriter, r *http.Request) {
	p := loadedProject(w)
	if p == nil {
		return
	}
	name := mux.Vars(r)["scene"]
	s := p.SceneByName(name)
	if s == nil {
		webutils.WriteError(w, fmt.Errorf("No scene %q in project", name))
		return
	}

	var buf bytes.Buffer
	if r.URL.Query().Get("bundle") == "" {
		if err := scene.ExportFBX(s, &buf); err != nil {
			webutils.WriteError(w, fmt.Errorf("Export of scene %q failed: %v", s.Name, err))
			return
		}
		webutils.WriteFile(w, &buf, s.Name+".fbx")
		return
	}

	if err := scene.ExportFBXBundle(s, exportSidecars(s), &buf); err != nil {
		webutils.WriteError(w, fmt.Errorf("Export of scene %q failed: %v", s.Name, err))
		return
	}
	webutils.WriteFile(w, &buf, s.Name+".zip")
}

// exportSidecars collects the scene's local asset bytes. Remote urls
// and unreadable files are skipped, the export is best effort.
func exportSidecars(s *project.Scene) map[string][]byte {
	source := ServerRuntime.Source()
	if source == nil {
		return nil
	}
	sidecars := map[string][]byte{}
	for _, d := range scene.CollectDescriptors(s) {
		if strings.HasPrefix(d.Location(), "http://") || strings.HasPrefix(d.Location(), "https://") {
			continue
		}
		data, err := vfs.ReadFileAll(source, d.Location())
		if err != nil {
			continue
		}
		sidecars[d.Location()] = data
	}
	return sidecars
}

func HandlerDownloadAsset(w http.ResponseWriter, r *http.Request) {
	source := ServerRuntime.Source()
	if source == nil {
		webutils.WriteError(w, fmt.Errorf("No local project source"))
		return
	}
	p := mux.Vars(r)["path"]
	f, err := vfs.GetFileByPath(source, p)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	if reader, err := vfs.OpenFileAndGetReader(f); err == nil {
		webutils.WriteFile(w, reader, path.Base(p))
		defer f.Close()
	} else {
		fmt.Fprintf(w, "Error getting file reader: %v", err)
	}
}

func HandlerDumpState(w http.ResponseWriter, r *http.Request) {
	if !config.GetDebug() {
		http.NotFound(w, r)
		return
	}
	state := ServerRuntime.State()
	if state == nil {
		fmt.Fprintln(w, "No scene built yet")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, utils.SDump(state.Entities()))
}

func HandlerActionRebuild(w http.ResponseWriter, r *http.Request) {
	session, err := engine.Active()
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	if err := ServerRuntime.Rebuild(session); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, map[string]string{"scene": ServerRuntime.SceneName()})
}

func HandlerActionBuildScene(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["scene"]
	session, err := engine.Active()
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	if err := ServerRuntime.BuildScene(session, name); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, map[string]string{"scene": name})
}
