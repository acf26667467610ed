package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"histcli/internal/dataset"
)

// Message type constants used on the wire.
const (
	TypeConnection    = "connection"
	TypeBuildProgress = "build:progress"
	TypeBuildComplete = "build:complete"
	TypeBuildError    = "build:error"
)

// Hub maintains the set of active clients and broadcasts dataset build
// events to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	logger  *slog.Logger
	quit    chan struct{}
	running bool
}

// NewHub creates a new hub. A nil logger falls back to the default.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		quit:       make(chan struct{}),
	}
}

// Start launches the hub loop. Calling Start twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.run()
}

// Stop shuts the hub down and disconnects all clients.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) run() {
	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("hub shutting down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()

			h.logger.Info("client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			h.sendTo(client, envelope(TypeConnection, map[string]any{
				"status":    "connected",
				"client_id": client.id,
			}))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()

			h.logger.Info("client unregistered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.Duration("connection_duration", time.Since(client.connectedAt)))

		case message := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			for _, client := range clients {
				if !h.sendTo(client, message) {
					// Client's send buffer is full; drop the slow client.
					h.mu.Lock()
					if _, ok := h.clients[client]; ok {
						delete(h.clients, client)
						close(client.send)
					}
					h.mu.Unlock()
					h.logger.Warn("client send buffer full, disconnecting",
						slog.String("client_id", client.id))
				}
			}
		}
	}
}

func (h *Hub) sendTo(client *Client, message []byte) bool {
	select {
	case client.send <- message:
		return true
	default:
		return false
	}
}

// Broadcast sends a typed message to all connected clients. Safe to call
// from any goroutine; drops the message if the hub's queue is full.
func (h *Hub) Broadcast(messageType string, data any) {
	select {
	case h.broadcast <- envelope(messageType, data):
	default:
		h.logger.Warn("broadcast queue full, dropping message",
			slog.String("type", messageType))
	}
}

// BroadcastProgress publishes one build progress step.
func (h *Hub) BroadcastProgress(p dataset.BuildProgress) {
	messageType := TypeBuildProgress
	if p.Done {
		messageType = TypeBuildComplete
	}
	h.Broadcast(messageType, p)
}

// BroadcastBuildError publishes a failed build.
func (h *Hub) BroadcastBuildError(err error) {
	h.Broadcast(TypeBuildError, map[string]any{"error": err.Error()})
}

func envelope(messageType string, data any) []byte {
	msg := map[string]any{
		"type":      messageType,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(msg)
	if err != nil {
		b, _ = json.Marshal(map[string]any{"type": TypeBuildError, "data": err.Error()})
	}
	return b
}
