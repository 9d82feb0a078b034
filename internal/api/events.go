package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/workspace-agent/workspace-agent/internal/logging"
)

// Event is one message pushed to websocket subscribers.
type Event struct {
	Type string      `json:"type"` // chat, snapshot, report
	Data interface{} `json:"data,omitempty"`
	Time time.Time   `json:"time"`
}

// EventHub fans agent events out to connected websocket clients.
// Slow clients are dropped rather than allowed to block broadcasts.
type EventHub struct {
	upgrader websocket.Upgrader
	clients  map[*websocket.Conn]chan Event
	mu       sync.Mutex
	closed   bool
	log      *logging.Logger
}

// NewEventHub creates an empty hub.
func NewEventHub() *EventHub {
	return &EventHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*websocket.Conn]chan Event),
		log:     logging.Component("events"),
	}
}

// HandleWebSocket upgrades the connection and streams events until the
// client disconnects.
func (h *EventHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithField("error", err.Error()).Warn("websocket upgrade failed")
		return
	}

	ch := make(chan Event, 16)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[conn] = ch
	h.mu.Unlock()

	h.log.WithField("remote", conn.RemoteAddr().String()).Debug("websocket client connected")

	// Reader goroutine: we ignore client messages but need the read
	// loop to notice disconnects.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.remove(conn)
				return
			}
		}
	}()

	for event := range ch {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(event); err != nil {
			h.remove(conn)
			return
		}
	}
	conn.Close()
}

// Broadcast sends an event to every connected client.
func (h *EventHub) Broadcast(event Event) {
	event.Time = time.Now().UTC()

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, ch := range h.clients {
		select {
		case ch <- event:
		default:
			// Buffer full: drop the client.
			delete(h.clients, conn)
			close(ch)
			conn.Close()
		}
	}
}

// Close disconnects every client.
func (h *EventHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for conn, ch := range h.clients {
		close(ch)
		conn.Close()
		delete(h.clients, conn)
	}
}

func (h *EventHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(ch)
	}
	conn.Close()
}
