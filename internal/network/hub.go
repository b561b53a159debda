// Package network carries the HUD feed: every outbound notification is
// broadcast as JSON to connected WebSocket clients, and inbound player
// actions call the engine's command surface. Clients never see the
// resource state except through this surface.
package network

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/hambruna/server/internal/events"
	"github.com/hambruna/server/internal/platform/logger"
	"github.com/hambruna/server/internal/platform/metrics"
)

// Message is the wire shape of one HUD update.
type Message struct {
	Type     string  `json:"type"` // "LEVEL_CHANGED", "SEVERITY_CHANGED", "STARVATION_TICK"
	Fraction float64 `json:"fraction,omitempty"`
	Severity string  `json:"severity,omitempty"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	logger     *logger.Logger
}

// NewHub initializes a new WebSocket Hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     log,
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("New HUD client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("HUD client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					metrics.Get().RecordWSMessage(false)
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast serializes a HUD message and queues it for all clients.
// Non-blocking: if the hub is saturated the update is dropped (the next
// frame supersedes it anyway).
func (h *Hub) Broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to serialize HUD message: " + err.Error())
		metrics.Get().RecordWSError()
		return
	}
	select {
	case h.broadcast <- payload:
	default:
	}
}

// Attach subscribes the hub to the notification bus. The callbacks run on
// the simulation goroutine, so they only enqueue.
func (h *Hub) Attach(bus *events.Bus) {
	bus.SubscribeLevelChanged(func(fraction float64) {
		h.Broadcast(Message{Type: "LEVEL_CHANGED", Fraction: fraction})
	})
	bus.SubscribeSeverityChanged(func(severity string) {
		h.Broadcast(Message{Type: "SEVERITY_CHANGED", Severity: severity})
	})
	bus.SubscribeStarvationTick(func() {
		h.Broadcast(Message{Type: "STARVATION_TICK"})
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}
