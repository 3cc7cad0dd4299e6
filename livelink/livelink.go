// Package livelink lets the editor that exported the project reach into
// the running scene. It speaks the editor's remote protocol: JSON-RPC
// over HTTP POST, entities correlated by the namespaced id component
// the exporter writes. Transform and light edits are applied to the
// player state and forwarded to the connected viewer.
package livelink

import (
	"log"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/nxengine/nx_player/engine"
	"github.com/nxengine/nx_player/scene"
)

// The editor dials this port unless its own settings say otherwise.
const DEFAULT_ADDR = ":15702"

// Updater is the slice of the viewer session live edits go through.
type Updater interface {
	UpdateTransform(name string, t *engine.Transform) error
	SpawnLight(l *engine.Light) error
}

type Server struct {
	runtime *scene.Runtime
	resolve func() (Updater, error)
	httpd   *http.Server
}

func NewServer(runtime *scene.Runtime) *Server {
	return &Server{
		runtime: runtime,
		resolve: func() (Updater, error) {
			session, err := engine.Active()
			if err != nil {
				return nil, err
			}
			return session, nil
		},
	}
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleRPC).Methods("POST")
	return r
}

// Start binds the editor endpoint and serves it in the background. Bind
// failures surface immediately; once bound the server runs until Close.
func (s *Server) Start(addr string) error {
	if addr == "" {
		addr = DEFAULT_ADDR
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "Failed to bind live link on %q", addr)
	}

	s.httpd = &http.Server{Handler: s.Handler()}
	go func() {
		if err := s.httpd.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("[livelink] Server stopped: %v", err)
		}
	}()
	log.Printf("[livelink] Editor link on %q", listener.Addr())
	return nil
}

func (s *Server) Close() error {
	if s.httpd == nil {
		return nil
	}
	return s.httpd.Close()
}
