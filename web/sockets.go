package web

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nxengine/nx_player/engine"
	"github.com/nxengine/nx_player/status"
)

// Viewer pages may be served from a dev origin while the player runs on
// localhost, so the origin check stays open.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func HandlerStatusWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] Status upgrade failed: %v", err)
		return
	}
	status.NewClient(conn)
}

// HandlerEngineWebsocket accepts a viewer, makes it the active session
// and builds the project's initial scene once it reports ready.
func HandlerEngineWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] Engine upgrade failed: %v", err)
		return
	}

	// Ready can arrive before NewSession returns, and the build issues
	// calls that are settled on the session's read goroutine. Callbacks
	// wait for the handle and push the heavy work off that goroutine.
	var session *engine.Session
	bound := make(chan struct{})

	session = engine.NewSession(conn, engine.Events{
		OnReady: func(width, height int) {
			<-bound
			go buildForViewer(session, width, height)
		},
		OnResize: func(width, height int) {
			<-bound
			go func() {
				if err := ServerRuntime.HandleResize(session, width, height); err != nil {
					log.Printf("[web] %v", err)
				}
			}()
		},
		OnTaskDone: func(task uuid.UUID) {
			log.Printf("[web] Viewer finished task %v", task)
		},
		OnTaskFailed: func(task uuid.UUID, message string) {
			log.Printf("[web] Viewer failed task %v: %v", task, message)
			status.Error("Asset task failed: %v", message)
		},
		OnError: func(message string) {
			status.Error("Viewer error: %v", message)
		},
	})
	engine.SetActive(session)
	close(bound)
}

func buildForViewer(session *engine.Session, width, height int) {
	status.Reset()
	if err := ServerRuntime.BuildScene(session, ""); err != nil {
		log.Printf("[web] Scene build failed: %v", err)
		status.Error("Scene build failed: %v", err)
		return
	}
	if err := ServerRuntime.HandleResize(session, width, height); err != nil {
		log.Printf("[web] %v", err)
	}
}
