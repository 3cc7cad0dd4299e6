package status

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Loading screen feed. Every connected browser tab gets the same stream;
// a late joiner is replayed the newest message so it never shows a blank
// screen mid-load.

const (
	KIND_INFO     = "info"
	KIND_ERROR    = "error"
	KIND_PROGRESS = "progress"
)

type Message struct {
	Kind     string    `json:"type"`
	Message  string    `json:"message"`
	Progress float32   `json:"progress"`
	Time     time.Time `json:"time"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	ticker := time.NewTicker(time.Second * 30)
	defer func() {
		ticker.Stop()
		unregisterClient(c)
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second)); err != nil {
				panic(err)
			}
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[status] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[status] ws write ping error: %v", err)
				return
			}
		}
	}
}

// readPump only drains. Loading screens never talk back, but close and
// pong frames still have to be consumed.
func (c *client) readPump() {
	defer c.conn.Close()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func NewClient(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan []byte, 32)}
	registerClient(c)
	go c.writePump()
	go c.readPump()
	globalLock.Lock()
	defer globalLock.Unlock()
	if lastMessage != nil {
		c.send <- lastMessage
	}
	return c
}

var statusBroadcast chan *Message
var broadcastList map[*client]bool
var globalLock sync.Mutex
var lastMessage []byte = nil

func registerClient(c *client) {
	globalLock.Lock()
	defer globalLock.Unlock()
	broadcastList[c] = true
}

func unregisterClient(c *client) {
	globalLock.Lock()
	defer globalLock.Unlock()
	delete(broadcastList, c)
}

func init() {
	statusBroadcast = make(chan *Message, 16)
	broadcastList = make(map[*client]bool)
	go func() {
		for {
			select {
			case m := <-statusBroadcast:
				data, err := json.Marshal(m)
				if err != nil {
					panic(err)
				}
				globalLock.Lock()
				lastMessage = data
				for c := range broadcastList {
					c.send <- data
				}
				globalLock.Unlock()
			}
		}
	}()
}

// Reset clears the replay message when a new load sequence begins.
func Reset() {
	globalLock.Lock()
	defer globalLock.Unlock()
	lastMessage = nil
}

func Status(msg string, kind string, progress float32) {
	if math.IsNaN(float64(progress)) || math.IsInf(float64(progress), 0) {
		progress = 0
	}
	statusBroadcast <- &Message{
		Kind:     kind,
		Message:  msg,
		Progress: progress,
		Time:     time.Now()}
}

func Info(format string, a ...interface{}) {
	Status(fmt.Sprintf(format, a...), KIND_INFO, 0.0)
}

func Error(format string, a ...interface{}) {
	Status(fmt.Sprintf(format, a...), KIND_ERROR, 0.0)
}

func Progress(progress float32, format string, a ...interface{}) {
	Status(fmt.Sprintf(format, a...), KIND_PROGRESS, progress)
}
