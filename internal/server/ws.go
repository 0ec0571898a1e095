package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/logger"
)

const (
	eventBuffer  = 16
	writeTimeout = 5 * time.Second
)

// EventHub broadcasts recognized poses to WebSocket subscribers.
type EventHub struct {
	log     *zap.Logger
	mu      sync.RWMutex
	clients map[*websocket.Conn]chan app.Event
	closed  bool
}

// NewEventHub creates an empty hub.
func NewEventHub(log *zap.Logger) *EventHub {
	log = logger.OrNop(log)
	return &EventHub{
		log:     log,
		clients: make(map[*websocket.Conn]chan app.Event),
	}
}

// ServeHTTP upgrades the connection and streams events until either side
// closes it.
func (h *EventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ch := make(chan app.Event, eventBuffer)
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.clients[conn] = ch
	h.mu.Unlock()

	defer h.remove(conn)

	// Reads only detect the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}

func (h *EventHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(ch)
	}
}

// Publish queues ev for every subscriber. Subscribers that fall behind miss
// events rather than slowing detection down.
func (h *EventHub) Publish(ev app.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.clients {
		select {
		case ch <- ev:
		default:
			h.log.Debug("dropping event for slow subscriber", zap.String("pose", ev.Pose))
		}
	}
}

// Clients returns the number of connected subscribers.
func (h *EventHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects all subscribers.
func (h *EventHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for conn, ch := range h.clients {
		delete(h.clients, conn)
		close(ch)
	}
}
