package engine

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/nxengine/nx_player/utils"
)

const (
	pingPeriod  = time.Second * 30
	writeWait   = time.Second * 40
	pongWait    = time.Second * 60
	callTimeout = time.Second * 15
)

// Events are the viewer notifications a session owner can subscribe to.
// Callbacks run on the session's read goroutine.
type Events struct {
	OnReady        func(width, height int)
	OnResize       func(width, height int)
	OnTaskProgress func(task uuid.UUID, fraction float32)
	OnTaskDone     func(task uuid.UUID)
	OnTaskFailed   func(task uuid.UUID, message string)
	OnError        func(message string)
}

// Session is one connected viewer. The player issues scene construction
// calls and receives task/viewport notifications until the socket drops.
type Session struct {
	ID   uuid.UUID
	Name string

	conn   *websocket.Conn
	send   chan []byte
	events Events

	lastID  uint64
	lock    sync.Mutex
	pending map[uint64]chan *envelope

	closed    chan struct{}
	closeOnce sync.Once
}

func NewSession(conn *websocket.Conn, events Events) *Session {
	s := &Session{
		ID:      utils.NewUUID(),
		Name:    utils.RandomName(),
		conn:    conn,
		send:    make(chan []byte, 64),
		events:  events,
		pending: make(map[uint64]chan *envelope),
		closed:  make(chan struct{}),
	}
	log.Printf("[engine] Viewer %v (%v) connected from %v", s.Name, s.ID, conn.RemoteAddr())
	go s.writePump()
	go s.readPump()
	return s
}

func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		s.conn.Close()
		dropActive(s)
		log.Printf("[engine] Viewer %v disconnected", s.Name)
	})
}

// Wait blocks until the viewer disconnects.
func (s *Session) Wait() {
	<-s.closed
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()
	for {
		select {
		case msg := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[engine] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[engine] ws write ping error: %v", err)
				return
			}
		case <-s.closed:
			return
		}
	}
}

func (s *Session) readPump() {
	defer s.Close()
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[engine] ws read error: %v", err)
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(pongWait))

		var e envelope
		if err := json.Unmarshal(data, &e); err != nil {
			log.Printf("[engine] Cannot parse viewer message %q: %v", data, err)
			continue
		}
		switch {
		case e.Method != "":
			s.dispatchEvent(&e)
		case e.ID != nil:
			s.settle(&e)
		default:
			log.Printf("[engine] Viewer message without method or id: %q", data)
		}
	}
}

func (s *Session) settle(e *envelope) {
	s.lock.Lock()
	ch, found := s.pending[*e.ID]
	if found {
		delete(s.pending, *e.ID)
	}
	s.lock.Unlock()
	if !found {
		log.Printf("[engine] Reply to unknown call id %v", *e.ID)
		return
	}
	ch <- e
}

func (s *Session) dispatchEvent(e *envelope) {
	switch e.Method {
	case EVENT_READY:
		var ev ReadyEvent
		if s.parseEvent(e, &ev) && s.events.OnReady != nil {
			s.events.OnReady(ev.Width, ev.Height)
		}
	case EVENT_RESIZE:
		var ev ResizeEvent
		if s.parseEvent(e, &ev) && s.events.OnResize != nil {
			s.events.OnResize(ev.Width, ev.Height)
		}
	case EVENT_PROGRESS:
		var ev TaskEvent
		if s.parseEvent(e, &ev) && s.events.OnTaskProgress != nil {
			s.events.OnTaskProgress(s.parseTask(ev.Task), ev.Fraction)
		}
	case EVENT_DONE:
		var ev TaskEvent
		if s.parseEvent(e, &ev) && s.events.OnTaskDone != nil {
			s.events.OnTaskDone(s.parseTask(ev.Task))
		}
	case EVENT_FAILED:
		var ev TaskEvent
		if s.parseEvent(e, &ev) && s.events.OnTaskFailed != nil {
			s.events.OnTaskFailed(s.parseTask(ev.Task), ev.Message)
		}
	case EVENT_ERROR:
		var ev ErrorEvent
		if s.parseEvent(e, &ev) {
			log.Printf("[engine] Viewer error: %v", ev.Message)
			if s.events.OnError != nil {
				s.events.OnError(ev.Message)
			}
		}
	default:
		log.Printf("[engine] Unknown viewer event %q", e.Method)
	}
}

func (s *Session) parseEvent(e *envelope, v interface{}) bool {
	if err := json.Unmarshal(e.Params, v); err != nil {
		log.Printf("[engine] Cannot parse %v params: %v", e.Method, err)
		return false
	}
	return true
}

func (s *Session) parseTask(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		log.Printf("[engine] Bad task id %q: %v", raw, err)
		return uuid.Nil
	}
	return id
}

// Call issues one JSON-RPC request and waits for the viewer's reply.
func (s *Session) Call(method string, params interface{}) (json.RawMessage, error) {
	id := atomic.AddUint64(&s.lastID, 1)
	data, err := json.Marshal(&Request{
		JSONRPC: JSONRPC_VERSION,
		ID:      &id,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to marshal %v call", method)
	}

	ch := make(chan *envelope, 1)
	s.lock.Lock()
	s.pending[id] = ch
	s.lock.Unlock()
	defer func() {
		s.lock.Lock()
		delete(s.pending, id)
		s.lock.Unlock()
	}()

	select {
	case s.send <- data:
	case <-s.closed:
		return nil, errors.Errorf("Viewer %v gone before %v call", s.Name, method)
	}

	select {
	case e := <-ch:
		if e.Error != nil {
			return nil, errors.Wrapf(e.Error, "Call %v failed", method)
		}
		return e.Result, nil
	case <-time.After(callTimeout):
		return nil, errors.Errorf("Call %v timed out after %v", method, callTimeout)
	case <-s.closed:
		return nil, errors.Errorf("Viewer %v gone during %v call", s.Name, method)
	}
}

// Notify issues a fire and forget notification.
func (s *Session) Notify(method string, params interface{}) error {
	data, err := json.Marshal(&Request{
		JSONRPC: JSONRPC_VERSION,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return errors.Wrapf(err, "Failed to marshal %v notification", method)
	}
	select {
	case s.send <- data:
		return nil
	case <-s.closed:
		return errors.Errorf("Viewer %v gone before %v notification", s.Name, method)
	}
}
