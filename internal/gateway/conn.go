package gateway

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer
	pongWait = 60 * time.Second

	// Ping interval; must be shorter than pongWait
	pingPeriod = 54 * time.Second

	// Maximum inbound frame size
	maxMessageSize = 4096

	// Buffer size for outgoing events
	sendBufferSize = 16
)

// Conn is one client connection as seen by the gateway. The interface
// exists so tests can stand in a fake transport.
type Conn interface {
	// Send queues an outbound event without blocking the caller
	Send(v any)
	// Close tears down the transport
	Close()
}

// wsConn wraps a websocket connection with a buffered, single-writer
// send channel
type wsConn struct {
	ws   *websocket.Conn
	send chan any

	closeOnce sync.Once
	done      chan struct{}
}

func newWSConn(ws *websocket.Conn) *wsConn {
	return &wsConn{
		ws:   ws,
		send: make(chan any, sendBufferSize),
		done: make(chan struct{}),
	}
}

// Send queues an event for the write pump. A client too slow to drain its
// buffer loses the connection rather than stalling the room.
func (c *wsConn) Send(v any) {
	select {
	case c.send <- v:
	default:
		c.Close()
	}
}

// Close shuts the connection down; safe to call more than once
func (c *wsConn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

// writePump serializes all writes to the websocket and keeps the
// connection alive with pings
func (c *wsConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case v := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(v); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			_ = c.ws.WriteControl(websocket.CloseMessage, nil, time.Now().Add(writeWait))
			return
		}
	}
}
