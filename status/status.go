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

const (
	INFO = iota
	ERROR
	FRAME
)

// status is the message pushed to connected viewers. FRAME messages carry the
// playback fields, INFO and ERROR carry only Message.
type status struct {
	Message   string
	Time      time.Time
	Type      int
	Animation string  `json:",omitempty"`
	Ratio     float32 `json:",omitempty"`
	Speed     float32 `json:",omitempty"`
	Paused    bool    `json:",omitempty"`
	Frame     uint64  `json:",omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	ticker := time.NewTicker(time.Second * 30)
	defer func() {
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

func NewClient(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan []byte, 32)}
	registerClient(c)
	go c.writePump()
	globalLock.Lock()
	defer globalLock.Unlock()
	if lastMessage != nil {
		c.send <- lastMessage
	}
	return c
}

var statusBroadcast chan *status
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
	statusBroadcast = make(chan *status, 16)
	broadcastList = make(map[*client]bool)
	go func() {
		for s := range statusBroadcast {
			data, err := json.Marshal(s)
			if err != nil {
				panic(err)
			}
			globalLock.Lock()
			lastMessage = data
			for c := range broadcastList {
				select {
				case c.send <- data:
				default:
				}
			}
			globalLock.Unlock()
		}
	}()
}

func push(s *status) {
	// Frame updates are best effort, a full channel drops the frame instead
	// of stalling the playback loop.
	select {
	case statusBroadcast <- s:
	default:
	}
}

func Info(format string, a ...interface{}) {
	push(&status{Message: fmt.Sprintf(format, a...), Time: time.Now(), Type: INFO})
}

func Error(format string, a ...interface{}) {
	push(&status{Message: fmt.Sprintf(format, a...), Time: time.Now(), Type: ERROR})
}

// Frame publishes the playback state for the current simulation step.
func Frame(animation string, ratio, speed float32, paused bool, frame uint64) {
	if math.IsNaN(float64(ratio)) || math.IsInf(float64(ratio), 0) {
		ratio = 0
	}
	push(&status{
		Time:      time.Now(),
		Type:      FRAME,
		Animation: animation,
		Ratio:     ratio,
		Speed:     speed,
		Paused:    paused,
		Frame:     frame,
	})
}
