package web

import (
	"log"
	"net/http"
	"os"
	"path"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/nxengine/nx_player/scene"
)

// ServerRuntime is the runtime every handler reads from. Assigned once
// in StartServer, swapped never; the runtime itself is what changes.
var ServerRuntime *scene.Runtime

func Router(webPath string) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/project.nx", HandlerManifest)
	r.HandleFunc("/json/project", HandlerProject)
	r.HandleFunc("/json/scene", HandlerSceneState)
	r.HandleFunc("/json/assets", HandlerStagedAssets)
	r.HandleFunc("/action/rebuild", HandlerActionRebuild)
	r.HandleFunc("/action/build/{scene}", HandlerActionBuildScene)
	r.HandleFunc("/export/scene", HandlerExportCurrentScene)
	r.HandleFunc("/export/scene/{scene}", HandlerExportScene)
	r.HandleFunc("/export/fbx/{scene}", HandlerExportSceneFBX)
	r.HandleFunc("/dump/asset/{path:.*}", HandlerDownloadAsset)
	r.HandleFunc("/dump/state", HandlerDumpState)
	r.HandleFunc("/ws/status", HandlerStatusWebsocket)
	r.HandleFunc("/ws/engine", HandlerEngineWebsocket)
	r.PathPrefix("/assets/").HandlerFunc(HandlerAsset)

	r.PathPrefix("/").Handler(http.FileServer(http.Dir(path.Join(webPath, "data"))))
	return r
}

func StartServer(addr string, runtime *scene.Runtime, webPath string) error {
	ServerRuntime = runtime

	r := Router(webPath)

	h := handlers.RecoveryHandler()(r)
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
