package socket

import (
	"encoding/json"
	"sync"
	"time"

	"service-request-form/internal/form"
	"service-request-form/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait = 5 * time.Second
	// events queued per connection before it is considered too slow
	sendBuffer = 16
)

// Event is pushed to the browser on every status transition.
type Event struct {
	FormID  string      `json:"formId"`
	Status  form.Status `json:"status"`
	Message string      `json:"message,omitempty"`
	// StatusToken of the form when the event was produced
	Token uint64 `json:"token"`
}

type subscriber struct {
	conn *websocket.Conn
	send chan Event
}

// Hub keeps the websocket connections watching each form session. Each
// connection has its own writer goroutine, the hub only queues events.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[*websocket.Conn]*subscriber
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*websocket.Conn]*subscriber),
	}
}

func (h *Hub) Register(formID string, conn *websocket.Conn) {
	s := &subscriber{conn: conn, send: make(chan Event, sendBuffer)}

	h.mu.Lock()
	conns, ok := h.clients[formID]
	if !ok {
		conns = make(map[*websocket.Conn]*subscriber)
		h.clients[formID] = conns
	}
	conns[conn] = s
	h.mu.Unlock()

	go h.writeLoop(formID, s)
	logger.Debug("WebSocket client registered for form", formID)
}

// Unregister stops the writer of conn, which then closes the connection.
func (h *Hub) Unregister(formID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.remove(formID, conn)
}

// Subscribers is the number of open connections for a form.
func (h *Hub) Subscribers(formID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients[formID])
}

// Publish queues the event for every subscriber of the form. It never waits
// on the network; a subscriber whose queue is full is dropped.
func (h *Hub) Publish(formID string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, s := range h.clients[formID] {
		h.enqueue(formID, s, ev)
	}
}

// Send queues the event for a single connection, used for the snapshot a
// new subscriber gets.
func (h *Hub) Send(formID string, conn *websocket.Conn, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.clients[formID][conn]; ok {
		h.enqueue(formID, s, ev)
	}
}

// CloseForm disconnects every subscriber, used when a session is deleted.
func (h *Hub) CloseForm(formID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, s := range h.clients[formID] {
		close(s.send)
	}
	delete(h.clients, formID)
}

// enqueue must be called with mu held.
func (h *Hub) enqueue(formID string, s *subscriber, ev Event) {
	ev.FormID = formID
	select {
	case s.send <- ev:
	default:
		logger.Debug("WebSocket client too slow, dropping it", formID)
		h.remove(formID, s.conn)
	}
}

func (h *Hub) remove(formID string, conn *websocket.Conn) {
	conns, ok := h.clients[formID]
	if !ok {
		return
	}
	s, ok := conns[conn]
	if !ok {
		return
	}
	close(s.send)
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.clients, formID)
	}
}

// writeLoop owns all writes to the connection. Events older than the last
// one written are skipped, so a snapshot queued after a newer transition
// cannot roll the browser back.
func (h *Hub) writeLoop(formID string, s *subscriber) {
	defer s.conn.Close()

	var (
		written bool
		last    uint64
		failed  bool
	)
	for ev := range s.send {
		if failed || (written && ev.Token < last) {
			continue
		}

		message, err := json.Marshal(ev)
		if err != nil {
			logger.Warning("Error while encoding status event", err)
			continue
		}

		_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Debug("WebSocket write failed, dropping client", formID, err)
			failed = true
			h.Unregister(formID, s.conn)
			continue
		}
		written, last = true, ev.Token
	}
}

func Inject(key string, h *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(key, h)
	}
}
