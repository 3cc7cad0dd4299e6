package web

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nxengine/nx_player/engine"
	"github.com/nxengine/nx_player/status"
)

func dialWS(t *testing.T, httpURL string, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(httpURL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %v: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHandlerStatusWebsocket(t *testing.T) {
	srv := playerServer(t)
	conn := dialWS(t, srv.URL, "/ws/status")

	status.Info("status probe %d", 42)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("No status message arrived: %v", err)
		}
		var m status.Message
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("status payload %q: %v", data, err)
		}
		if strings.Contains(m.Message, "status probe 42") {
			if m.Kind != status.KIND_INFO {
				t.Errorf("Kind = %q", m.Kind)
			}
			return
		}
	}
}

type wireMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *uint64         `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// TestHandlerEngineWebsocket plays the browser half of the engine socket:
// report ready, acknowledge every build call, watch the scene come up.
func TestHandlerEngineWebsocket(t *testing.T) {
	srv := playerServer(t)
	conn := dialWS(t, srv.URL, "/ws/engine")

	if err := conn.WriteJSON(map[string]interface{}{
		"jsonrpc": engine.JSONRPC_VERSION,
		"method":  engine.EVENT_READY,
		"params":  &engine.ReadyEvent{Width: 1280, Height: 720},
	}); err != nil {
		t.Fatal(err)
	}

	var methods []string
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg wireMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("Viewer read after %v: %v", methods, err)
		}
		methods = append(methods, msg.Method)
		if msg.ID != nil {
			if err := conn.WriteJSON(map[string]interface{}{
				"jsonrpc": engine.JSONRPC_VERSION,
				"id":      *msg.ID,
				"result":  map[string]interface{}{},
			}); err != nil {
				t.Fatal(err)
			}
		}
		// the resize refit follows the build, nothing comes after
		if msg.Method == engine.METHOD_UPDATE_CAMERA {
			break
		}
	}

	if methods[0] != engine.METHOD_CLEAR {
		t.Errorf("Build starts with %v", methods[0])
	}
	for _, expected := range []string{
		engine.METHOD_CLEAR,
		engine.METHOD_ENVIRONMENT,
		engine.METHOD_CAMERA,
		engine.METHOD_ENQUEUE,
		engine.METHOD_LIGHT,
		engine.METHOD_SPEAKER,
		engine.METHOD_GRAPHICS,
		engine.METHOD_POSTPROCESS,
		engine.METHOD_RUN,
		engine.METHOD_FADE,
	} {
		if !containsMethod(methods, expected) {
			t.Errorf("Build never issued %v: %v", expected, methods)
		}
	}

	if ServerRuntime.SceneName() != "Main" {
		t.Errorf("Runtime scene = %q after build", ServerRuntime.SceneName())
	}
	if _, err := engine.Active(); err != nil {
		t.Errorf("No active session after connect: %v", err)
	}

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := engine.Active(); err != nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Session never dropped after close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func containsMethod(list []string, method string) bool {
	for _, item := range list {
		if item == method {
			return true
		}
	}
	return false
}
