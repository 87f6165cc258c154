package notify

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
	sendBufferSize = 16
)

// Event is a message pushed to connected dashboard clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// client wraps a single websocket connection with an outbound queue.
type client struct {
	conn *websocket.Conn
	send chan Event
}

// Hub fans dashboard events out to the websocket connections of each user.
// A user may hold several connections (multiple tabs); an event is delivered
// to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*client]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[uint]map[*client]struct{}),
	}
}

// Register attaches a websocket connection for the given user and starts its
// writer goroutine. The connection is owned by the hub from this point on.
func (h *Hub) Register(userID uint, conn *websocket.Conn) {
	cl := &client{
		conn: conn,
		send: make(chan Event, sendBufferSize),
	}

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]struct{})
	}
	h.clients[userID][cl] = struct{}{}
	h.mu.Unlock()

	go h.writePump(userID, cl)
	go h.readPump(userID, cl)
}

// Push delivers an event to every connection the user currently holds.
// Slow connections that cannot keep up are dropped rather than blocking.
func (h *Hub) Push(userID uint, event Event) {
	h.mu.RLock()
	conns := make([]*client, 0, len(h.clients[userID]))
	for cl := range h.clients[userID] {
		conns = append(conns, cl)
	}
	h.mu.RUnlock()

	for _, cl := range conns {
		select {
		case cl.send <- event:
		default:
			h.unregister(userID, cl)
		}
	}
}

// ConnectionCount returns the number of open connections for a user.
func (h *Hub) ConnectionCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) unregister(userID uint, cl *client) {
	h.mu.Lock()
	if conns, ok := h.clients[userID]; ok {
		if _, ok := conns[cl]; ok {
			delete(conns, cl)
			close(cl.send)
			if len(conns) == 0 {
				delete(h.clients, userID)
			}
		}
	}
	h.mu.Unlock()
}

// readPump drains client frames so close and pong handling work; incoming
// payloads are ignored, the dashboard socket is push-only.
func (h *Hub) readPump(userID uint, cl *client) {
	defer func() {
		h.unregister(userID, cl)
		cl.conn.Close()
	}()
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(userID uint, cl *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()
	for {
		select {
		case event, ok := <-cl.send:
			if !ok {
				cl.conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(writeWait))
				return
			}
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteJSON(event); err != nil {
				h.unregister(userID, cl)
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(userID, cl)
				return
			}
		}
	}
}
