package livelink

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/pkg/errors"

	"github.com/nxengine/nx_player/engine"
	"github.com/nxengine/nx_player/scene"
	"github.com/nxengine/nx_player/transform"
	"github.com/nxengine/nx_player/webutils"
)

const (
	METHOD_QUERY  = "bevy/query"
	METHOD_GET    = "bevy/get"
	METHOD_INSERT = "bevy/insert"
	METHOD_LIST   = "bevy/list"
)

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *uint64         `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// handleRPC answers one editor request. Whatever goes wrong becomes a
// JSON-RPC error object; the link never drops the connection over a bad
// payload.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := webutils.ReadJsonBody(r, &req); err != nil {
		s.respond(w, nil, nil, engine.NewError(engine.RPC_PARSE_ERROR, "Bad request: %v", err))
		return
	}
	if req.Method == "" {
		s.respond(w, req.ID, nil, engine.NewError(engine.RPC_INVALID_REQUEST, "Missing method"))
		return
	}

	result, rpcErr := s.dispatch(&req)
	s.respond(w, req.ID, result, rpcErr)
}

func (s *Server) respond(w http.ResponseWriter, id *uint64, result interface{}, rpcErr *engine.Error) {
	webutils.WriteJson(w, &engine.Response{
		JSONRPC: engine.JSONRPC_VERSION,
		ID:      id,
		Result:  result,
		Error:   rpcErr,
	})
}

func (s *Server) dispatch(req *request) (interface{}, *engine.Error) {
	switch req.Method {
	case METHOD_QUERY:
		return s.handleQuery(req.Params)
	case METHOD_GET:
		return s.handleGet(req.Params)
	case METHOD_INSERT:
		return s.handleInsert(req.Params)
	case METHOD_LIST:
		return s.handleList()
	}
	return nil, engine.NewError(engine.RPC_METHOD_NOT_FOUND, "No such method %q", req.Method)
}

type queryParams struct {
	Data struct {
		Components []string `json:"components"`
		Option     []string `json:"option"`
		Has        []string `json:"has"`
	} `json:"data"`
	Filter struct {
		With    []string `json:"with"`
		Without []string `json:"without"`
	} `json:"filter"`
}

type queryRow struct {
	Entity     uint64                 `json:"entity"`
	Components map[string]interface{} `json:"components"`
	Has        map[string]bool        `json:"has,omitempty"`
}

// handleQuery walks the entity registry. Before the first scene build
// there is nothing to walk and the editor just sees an empty world.
func (s *Server) handleQuery(params json.RawMessage) (interface{}, *engine.Error) {
	var q queryParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &q); err != nil {
			return nil, engine.NewError(engine.RPC_INVALID_PARAMS, "Bad query: %v", err)
		}
	}

	rows := []queryRow{}
	state := s.runtime.State()
	if state == nil {
		return rows, nil
	}

	required := append(append([]string{}, q.Data.Components...), q.Filter.With...)
entities:
	for _, entity := range state.Query(required) {
		for _, banned := range q.Filter.Without {
			if entity.Has([]string{banned}) {
				continue entities
			}
		}

		row := queryRow{Entity: entity.ID, Components: map[string]interface{}{}}
		for _, component := range q.Data.Components {
			row.Components[component] = entity.Components[component]
		}
		for _, component := range q.Data.Option {
			if value, ok := entity.Components[component]; ok {
				row.Components[component] = value
			}
		}
		if len(q.Data.Has) > 0 {
			row.Has = map[string]bool{}
			for _, component := range q.Data.Has {
				row.Has[component] = entity.Has([]string{component})
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type getParams struct {
	Entity     uint64   `json:"entity"`
	Components []string `json:"components"`
}

func (s *Server) handleGet(params json.RawMessage) (interface{}, *engine.Error) {
	var g getParams
	if err := json.Unmarshal(params, &g); err != nil {
		return nil, engine.NewError(engine.RPC_INVALID_PARAMS, "Bad get: %v", err)
	}
	state := s.runtime.State()
	if state == nil {
		return nil, engine.NewError(engine.RPC_INVALID_PARAMS, "No scene built yet")
	}
	picked, err := state.Pick(g.Entity, g.Components)
	if err != nil {
		return nil, engine.NewError(engine.RPC_INVALID_PARAMS, "%v", err)
	}
	return &struct {
		Components map[string]interface{} `json:"components"`
	}{Components: picked}, nil
}

type insertParams struct {
	Entity     uint64                     `json:"entity"`
	Components map[string]json.RawMessage `json:"components"`
}

// handleInsert applies editor edits. Transforms and light controllers
// get typed handling and a viewer push, anything else is stored as-is.
func (s *Server) handleInsert(params json.RawMessage) (interface{}, *engine.Error) {
	var in insertParams
	if err := json.Unmarshal(params, &in); err != nil {
		return nil, engine.NewError(engine.RPC_INVALID_PARAMS, "Bad insert: %v", err)
	}
	state := s.runtime.State()
	if state == nil {
		return nil, engine.NewError(engine.RPC_INVALID_PARAMS, "No scene built yet")
	}
	entity, ok := state.Get(in.Entity)
	if !ok {
		return nil, engine.NewError(engine.RPC_INVALID_PARAMS, "Unknown entity %d", in.Entity)
	}

	for component, raw := range in.Components {
		switch component {
		case scene.TRANSFORM_COMPONENT:
			t, err := decodeTransformShape(raw)
			if err != nil {
				return nil, engine.NewError(engine.RPC_INVALID_PARAMS, "Transform of %q: %v", entity.Name, err)
			}
			if _, err := state.UpdateTransform(in.Entity, t); err != nil {
				return nil, engine.NewError(engine.RPC_INVALID_PARAMS, "%v", err)
			}
			s.pushTransform(entity.Name, t)

		case scene.LightComponent(state.Namespace()):
			var controller scene.LightController
			if err := json.Unmarshal(raw, &controller); err != nil {
				return nil, engine.NewError(engine.RPC_INVALID_PARAMS, "Light controller of %q: %v", entity.Name, err)
			}
			updated, err := state.UpdateLight(in.Entity, controller)
			if err != nil {
				return nil, engine.NewError(engine.RPC_INVALID_PARAMS, "%v", err)
			}
			s.pushLight(updated)

		default:
			var generic interface{}
			if err := json.Unmarshal(raw, &generic); err != nil {
				return nil, engine.NewError(engine.RPC_INVALID_PARAMS, "Component %q: %v", component, err)
			}
			if err := state.Insert(in.Entity, map[string]interface{}{component: generic}); err != nil {
				return nil, engine.NewError(engine.RPC_INVALID_PARAMS, "%v", err)
			}
		}
	}
	return struct{}{}, nil
}

// handleList reports every component path the registry currently holds.
func (s *Server) handleList() (interface{}, *engine.Error) {
	seen := map[string]struct{}{}
	list := []string{}
	state := s.runtime.State()
	if state == nil {
		return list, nil
	}
	for _, entity := range state.Entities() {
		for component := range entity.Components {
			if _, dup := seen[component]; dup {
				continue
			}
			seen[component] = struct{}{}
			list = append(list, component)
		}
	}
	return list, nil
}

func (s *Server) pushTransform(name string, t engine.Transform) {
	updater, err := s.resolve()
	if err != nil {
		log.Printf("[livelink] Edit of %q not forwarded: %v", name, err)
		return
	}
	if err := updater.UpdateTransform(name, &t); err != nil {
		log.Printf("[livelink] Failed to move %q: %v", name, err)
	}
}

func (s *Server) pushLight(l *engine.Light) {
	updater, err := s.resolve()
	if err != nil {
		log.Printf("[livelink] Edit of %q not forwarded: %v", l.Name, err)
		return
	}
	if err := updater.SpawnLight(l); err != nil {
		log.Printf("[livelink] Failed to update light %q: %v", l.Name, err)
	}
}

// transformShape accepts both ways the editor side expresses a
// transform: the decomposed viewer shape the exporter addon streams,
// or a raw 16 element matrix that goes through the manifest decode
// path.
type transformShape struct {
	Translation *[3]float32 `json:"translation"`
	Rotation    *[4]float32 `json:"rotation"`
	Scale       *[3]float32 `json:"scale"`
	Matrix      []float32   `json:"matrix"`
}

func decodeTransformShape(raw json.RawMessage) (engine.Transform, error) {
	var shape transformShape
	if err := json.Unmarshal(raw, &shape); err != nil {
		return engine.Transform{}, err
	}

	if len(shape.Matrix) > 0 {
		d, err := transform.DecodeMatrix(shape.Matrix)
		if err != nil {
			return engine.Transform{}, err
		}
		return scene.EncodeTransform(d), nil
	}

	if shape.Translation == nil && shape.Rotation == nil && shape.Scale == nil {
		return engine.Transform{}, errors.New("Empty transform payload")
	}

	t := engine.Transform{
		Rotation: [4]float32{0, 0, 0, 1},
		Scale:    [3]float32{1, 1, 1},
	}
	if shape.Translation != nil {
		t.Translation = *shape.Translation
	}
	if shape.Rotation != nil {
		t.Rotation = *shape.Rotation
	}
	if shape.Scale != nil {
		t.Scale = *shape.Scale
	}
	return t, nil
}
