package engine

import (
	"encoding/json"
	"fmt"
)

const JSONRPC_VERSION = "2.0"

const (
	RPC_PARSE_ERROR      = -32700
	RPC_INVALID_REQUEST  = -32600
	RPC_METHOD_NOT_FOUND = -32601
	RPC_INVALID_PARAMS   = -32602
	RPC_INTERNAL_ERROR   = -32603
)

// Commands the player issues to the viewer.
const (
	METHOD_CLEAR         = "nx/clear"
	METHOD_ENVIRONMENT   = "nx/environment"
	METHOD_CAMERA        = "nx/camera"
	METHOD_UPDATE_CAMERA = "nx/update_camera"
	METHOD_TRANSFORM     = "nx/transform"
	METHOD_LIGHT         = "nx/light"
	METHOD_MATERIAL      = "nx/material"
	METHOD_SPEAKER       = "nx/speaker"
	METHOD_EMPTY         = "nx/empty"
	METHOD_ENQUEUE       = "nx/enqueue"
	METHOD_GRAPHICS      = "nx/graphics"
	METHOD_POSTPROCESS   = "nx/postprocess"
	METHOD_RUN           = "nx/run"
	METHOD_FADE          = "nx/fade"
)

// Notifications the viewer pushes back.
const (
	EVENT_READY    = "nx/ready"
	EVENT_RESIZE   = "nx/resize"
	EVENT_PROGRESS = "nx/progress"
	EVENT_DONE     = "nx/done"
	EVENT_FAILED   = "nx/failed"
	EVENT_ERROR    = "nx/error"
)

type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      *uint64     `json:"id,omitempty"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      *uint64     `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %v: %v", e.Code, e.Message)
}

func NewError(code int, format string, a ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

// envelope is the incoming side of the wire: a viewer message is either
// a notification (method set) or a reply to one of our calls (id set).
type envelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *uint64         `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error"`
}

type ReadyEvent struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type ResizeEvent struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type TaskEvent struct {
	Task     string  `json:"task"`
	Fraction float32 `json:"fraction"`
	Message  string  `json:"message"`
}

type ErrorEvent struct {
	Message string `json:"message"`
}
