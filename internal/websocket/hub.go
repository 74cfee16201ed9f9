// Package websocket pushes tree change events to a user's open connections.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"fileflow/internal/logging"
	"fileflow/internal/models"

	"github.com/gorilla/websocket"
)

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	EventNodeCreated = "node_created"
	EventNodeUpdated = "node_updated"
	EventNodeDeleted = "node_deleted"
)

type Event struct {
	Type      string       `json:"type"`
	Node      *models.Node `json:"node,omitempty"`
	NodeID    string       `json:"node_id"`
	Timestamp time.Time    `json:"timestamp"`
}

func NewNodeEvent(eventType string, node *models.Node) Event {
	return Event{
		Type:      eventType,
		Node:      node,
		NodeID:    node.ID,
		Timestamp: time.Now().UTC(),
	}
}

type Hub struct {
	clients    map[int64]map[*Client]bool
	mu         sync.RWMutex
	log        logging.Logger
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub(log logging.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		log:        log.With("component", "websocket"),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Register hands client to the running hub. It reports false once Run has
// returned, in which case the caller owns the connection.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister detaches client. It is a no-op after Run has returned.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Run processes registrations until ctx is cancelled, then closes every
// remaining client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.registerClient(ctx, client)
		case client := <-h.unregister:
			h.unregisterClient(ctx, client)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

func (h *Hub) registerClient(ctx context.Context, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.UserID]; !ok {
		h.clients[client.UserID] = make(map[*Client]bool)
	}
	h.clients[client.UserID][client] = true
	h.log.Debug(ctx, "client registered", "user_id", client.UserID)
}

func (h *Hub) unregisterClient(ctx context.Context, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if userClients, ok := h.clients[client.UserID]; ok {
		if _, ok := userClients[client]; ok {
			delete(userClients, client)
			close(client.send)
			if len(userClients) == 0 {
				delete(h.clients, client.UserID)
			}
			h.log.Debug(ctx, "client unregistered", "user_id", client.UserID)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, userClients := range h.clients {
		for client := range userClients {
			close(client.send)
		}
		delete(h.clients, userID)
	}
}

// ClientCount reports how many connections userID has open.
func (h *Hub) ClientCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// PublishEvent delivers event to every connection of userID. Slow clients
// whose buffers are full miss the event.
func (h *Hub) PublishEvent(ctx context.Context, userID int64, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error(ctx, "failed to marshal event", "type", event.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- data:
		default:
			h.log.Warn(ctx, "client send buffer is full, dropping message", "user_id", userID)
		}
	}
}
