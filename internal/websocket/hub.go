package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"leasecli/internal/config"
)

// Message type constants for the progress feed.
const (
	TypeConnection = "connection"
	TypeProgress   = "progress"
	TypeStatus     = "status"
	TypeError      = "error"
)

// broadcastQueueSize bounds the hub's pending-broadcast queue. Publishers
// never block; messages beyond the queue are dropped.
const broadcastQueueSize = 256

// Hub maintains the set of active clients and broadcasts messages to the
// clients. One hub serves the whole process.
type Hub struct {
	cfg config.WebSocketConfig

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger *slog.Logger

	quit    chan struct{}
	running bool
}

// NewHub creates a new Hub instance with dependency injection
func NewHub(cfg config.WebSocketConfig, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "websocket.hub"))

	return &Hub{
		cfg:        cfg,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastQueueSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
		quit:       make(chan struct{}),
	}
}

// Start runs the hub loop in its own goroutine. Starting twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.Run()
}

// Run is the hub's main loop. Register, unregister, and broadcast all pass
// through here so client-set mutations stay on one goroutine.
func (h *Hub) Run() {
	for {
		select {
		case <-h.quit:
			h.logger.Info("hub shutting down")
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
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

			h.greet(client)

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
				select {
				case client.send <- message:
				default:
					// Slow consumer: drop the client rather than stall
					// the feed for everyone else.
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

// Stop terminates the hub loop and disconnects all clients.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		return
	}
	h.running = false
	close(h.quit)
}

// Register queues a client for registration with the hub loop.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// greet sends the connection acknowledgement to a newly registered client.
func (h *Hub) greet(client *Client) {
	msg := map[string]interface{}{
		"type": TypeConnection,
		"data": map[string]interface{}{
			"status":    "connected",
			"client_id": client.id,
		},
		"timestamp": time.Now().Format(time.RFC3339),
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case client.send <- jsonData:
	default:
		h.logger.Warn("failed to send connection message, client buffer full",
			slog.String("client_id", client.id))
	}
}

// BroadcastProgress sends a progress update to all clients.
func (h *Hub) BroadcastProgress(step string, progress int, message string) {
	h.Broadcast(TypeProgress, map[string]interface{}{
		"step":     step,
		"progress": progress,
		"message":  message,
	})
}

// BroadcastStatus sends a status change to all clients.
func (h *Hub) BroadcastStatus(status, message string) {
	h.Broadcast(TypeStatus, map[string]interface{}{
		"status":  status,
		"message": message,
	})
}

// BroadcastError sends an error notification to all clients.
func (h *Hub) BroadcastError(code, message string) {
	h.Broadcast(TypeError, map[string]interface{}{
		"code":    code,
		"message": message,
	})
}

// Broadcast wraps data in the standard envelope and queues it for all
// clients. Never blocks; when the queue is full the message is dropped.
func (h *Hub) Broadcast(messageType string, data interface{}) {
	envelope := map[string]interface{}{
		"type":      messageType,
		"data":      data,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	jsonData, err := json.Marshal(envelope)
	if err != nil {
		h.logger.Error("error marshaling message",
			slog.String("error", err.Error()),
			slog.String("message_type", messageType))
		return
	}

	select {
	case h.broadcast <- jsonData:
	default:
		h.logger.Warn("broadcast queue full, dropping message",
			slog.String("message_type", messageType))
	}
}
