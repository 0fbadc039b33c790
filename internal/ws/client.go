package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is one long-lived player (or observer) connection, bound to a match
// group for its lifetime.
type Client struct {
	id        string
	matchCode string
	username  string

	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// mu guards closed. The hub may drop a client while its read pump is
	// mid-action, so every send and the close itself synchronize here.
	mu     sync.Mutex
	closed bool
}

// close shuts the send channel exactly once. Safe to call concurrently with
// trySend and with itself.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// trySend queues a message unless the client is already closed or its buffer
// is full. Reports whether the message was queued.
func (c *Client) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// clientAction is the inbound message format: {"action": "bowl"|"bat", "choice": "A"}.
type clientAction struct {
	Action string `json:"action"`
	Choice string `json:"choice"`
}

// errorEvent is delivered only to the originating connection.
type errorEvent struct {
	Error string `json:"error"`
}

func (c *Client) sendJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("client %s: marshal failed: %v", c.id, err)
		return
	}
	// Dropped or saturated clients lose the message; the write pump or hub
	// cleans them up.
	c.trySend(data)
}

func (c *Client) sendError(message string) {
	c.sendJSON(errorEvent{Error: message})
}

// readPump reads actions from the connection and hands them to the server.
// It owns the read side of the connection.
func (c *Client) readPump(s *GameServer) {
	defer func() {
		c.hub.remove(c.matchCode, c)
		c.conn.Close()
		log.Printf("WebSocket disconnected for match %s (user %s)", c.matchCode, c.username)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("client %s: read error: %v", c.id, err)
			}
			return
		}

		var action clientAction
		if err := json.Unmarshal(raw, &action); err != nil {
			c.sendError("invalid message format")
			continue
		}
		s.handleAction(c, action)
	}
}

// writePump writes queued messages and pings to the connection. It owns the
// write side of the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
