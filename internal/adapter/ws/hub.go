package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"

	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/ports"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const broadcastBuffer = 256

// Message is the frame sent to subscribers. It carries no task data;
// receivers re-fetch the list.
type Message struct {
	Type domain.TaskEvent `json:"type"`
}

// Hub tracks connected websocket clients and fans task events out to them.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan domain.TaskEvent
	done       chan struct{}
	mu         sync.RWMutex

	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHub creates a hub. Browser connections are accepted when their Origin
// is in allowedOrigins ("*" allows any); requests without an Origin header
// are always accepted.
func NewHub(logger *zap.Logger, allowedOrigins []string) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan domain.TaskEvent, broadcastBuffer),
		done:       make(chan struct{}),
		logger:     logger.Named("ws"),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

// Run owns client membership until ctx is cancelled, then closes every
// client connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("hub shutting down", zap.Int("clients", h.ClientCount()))
			h.closeAllClients()
			close(h.done)
			return
		case client := <-h.register:
			h.handleRegister(client)
		case client := <-h.unregister:
			h.handleUnregister(client)
		case event := <-h.broadcast:
			h.handleBroadcast(event)
		}
	}
}

// Wait blocks until Run has returned.
func (h *Hub) Wait() {
	<-h.done
}

// Notify queues event for delivery to every connected client. It never
// blocks; the event is dropped when the queue is full or the hub stopped.
func (h *Hub) Notify(_ context.Context, event domain.TaskEvent) {
	select {
	case <-h.done:
		return
	default:
	}

	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("broadcast queue full, dropping event", zap.String("event", string(event)))
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) handleRegister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	h.logger.Info("client connected", zap.String("client_id", client.ID), zap.Int("clients", len(h.clients)))
}

func (h *Hub) handleUnregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.send)
		h.logger.Info("client disconnected", zap.String("client_id", client.ID), zap.Int("clients", len(h.clients)))
	}
}

func (h *Hub) handleBroadcast(event domain.TaskEvent) {
	data, err := json.Marshal(Message{Type: event})
	if err != nil {
		h.logger.Error("failed to marshal broadcast message", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.send <- data:
		default:
			h.logger.Warn("client send buffer full, dropping event",
				zap.String("client_id", client.ID),
				zap.String("event", string(event)),
			)
		}
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.send)
	}
	h.clients = make(map[string]*Client)
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	allowAny := slices.Contains(allowedOrigins, "*")
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || allowAny {
			return true
		}
		return slices.Contains(allowedOrigins, origin)
	}
}

var _ ports.TaskNotifier = (*Hub)(nil)
