// Package inspect provides the development inspector: an HTTP API over a
// live component tree plus a websocket stream of pipeline events.
package inspect

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/strandui/strand/pkg/component"
	"github.com/strandui/strand/pkg/scheduler"
)

// EventMessage is sent to inspector clients over the websocket.
type EventMessage struct {
	Type        string  `json:"type"`
	ComponentID uint64  `json:"component_id,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	Phase       string  `json:"phase,omitempty"`
	Op          string  `json:"op,omitempty"`
	Processed   int     `json:"processed,omitempty"`
	DurationMS  float64 `json:"duration_ms,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// Hub manages inspector websocket connections and broadcasts pipeline
// events to them. It implements scheduler.Observer and
// component.TreeObserver, so registering it on both streams every event a
// client needs to follow the pipeline live.
type Hub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
}

// NewHub creates a hub with no clients.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // inspector is a dev tool, allow all origins
			},
		},
	}
}

// HandleWebSocket upgrades the request and keeps the connection registered
// until the client disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// broadcast sends the message to every connected client, dropping clients
// whose connection fails.
func (h *Hub) broadcast(msg EventMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			h.mu.Lock()
			delete(h.clients, client)
			h.mu.Unlock()
			client.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes every client connection.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}

// UpdateScheduled implements scheduler.Observer.
func (h *Hub) UpdateScheduled(id uint64, priority scheduler.Priority) {
	h.broadcast(EventMessage{
		Type:        "update_scheduled",
		ComponentID: id,
		Priority:    priority.String(),
	})
}

// DrainStarted implements scheduler.Observer.
func (h *Hub) DrainStarted(ctx context.Context) context.Context {
	h.broadcast(EventMessage{Type: "drain_started"})
	return ctx
}

// UpdateProcessed implements scheduler.Observer.
func (h *Hub) UpdateProcessed(id uint64, err error) {
	msg := EventMessage{Type: "update_processed", ComponentID: id}
	if err != nil {
		msg.Error = err.Error()
	}
	h.broadcast(msg)
}

// DrainCompleted implements scheduler.Observer.
func (h *Hub) DrainCompleted(ctx context.Context, processed int, took time.Duration) {
	h.broadcast(EventMessage{
		Type:       "drain_completed",
		Processed:  processed,
		DurationMS: float64(took.Microseconds()) / 1000,
	})
}

// OpStarted implements component.TreeObserver.
func (h *Hub) OpStarted(ctx context.Context, op string, id component.ID) (context.Context, func(error)) {
	start := time.Now()
	h.broadcast(EventMessage{Type: "op_started", Op: op, ComponentID: uint64(id)})
	return ctx, func(err error) {
		msg := EventMessage{
			Type:        "op_completed",
			Op:          op,
			ComponentID: uint64(id),
			DurationMS:  float64(time.Since(start).Microseconds()) / 1000,
		}
		if err != nil {
			msg.Error = err.Error()
		}
		h.broadcast(msg)
	}
}

// PhaseChanged implements component.TreeObserver.
func (h *Hub) PhaseChanged(id component.ID, phase component.Phase) {
	h.broadcast(EventMessage{
		Type:        "phase_changed",
		ComponentID: uint64(id),
		Phase:       phase.String(),
	})
}
