package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Notification event types pushed to connected users
const (
	EventCourseCompleted     = "course_completed"
	EventLevelUp             = "level_up"
	EventAchievementUnlocked = "achievement_unlocked"
)

// Notification is one server-to-client event
type Notification struct {
	Type      string      `json:"type"`
	UserID    int64       `json:"userId"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub maintains the active connections of every user and fans notifications
// out to them. A user may hold several connections (tabs, devices).
type Hub struct {
	// Registered clients organized by user ID
	clients map[int64]map[*Client]bool

	notify     chan *Notification
	register   chan *Client
	unregister chan *Client

	// closed once Run returns; register and unregister give up on it
	done     chan struct{}
	stopOnce sync.Once

	// guards counts for readers outside the run loop
	mu     sync.RWMutex
	counts map[int64]int

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		notify:     make(chan *Notification, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		counts:     make(map[int64]int),
		logger:     logger.With().Str("component", "ws_hub").Logger(),
	}
}

// Run handles registrations and deliveries until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case n := <-h.notify:
			h.deliver(n)
		}
	}
}

// Register hands a client to the run loop. It reports false once the hub
// has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client; it returns immediately once the hub has stopped
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true
	h.setCount(client.userID, len(h.clients[client.userID]))

	h.logger.Debug().Int64("userID", client.userID).Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	conns, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}
	h.setCount(client.userID, len(conns))

	h.logger.Debug().Int64("userID", client.userID).Msg("Client unregistered")
}

// deliver sends a notification to every connection of its user. Clients
// whose buffer is full are dropped.
func (h *Hub) deliver(n *Notification) {
	conns, ok := h.clients[n.UserID]
	if !ok {
		return
	}

	data, err := json.Marshal(n)
	if err != nil {
		h.logger.Error().Err(err).Int64("userID", n.UserID).Msg("Failed to marshal notification")
		return
	}

	for client := range conns {
		select {
		case client.send <- data:
		default:
			h.logger.Warn().Int64("userID", n.UserID).Msg("Dropping slow websocket client")
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) closeAll() {
	for _, conns := range h.clients {
		for client := range conns {
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) setCount(userID int64, n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n == 0 {
		delete(h.counts, userID)
		return
	}
	h.counts[userID] = n
}

// Notify queues an event for a user without blocking. Events are discarded
// when the queue is full.
func (h *Hub) Notify(userID int64, eventType string, payload interface{}) {
	n := &Notification{Type: eventType, UserID: userID, Payload: payload, Timestamp: time.Now().UTC()}
	select {
	case h.notify <- n:
	default:
		h.logger.Warn().Int64("userID", userID).Str("type", eventType).Msg("Notification queue full, dropping event")
	}
}

// ClientCount returns the number of open connections of a user
func (h *Hub) ClientCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.counts[userID]
}
