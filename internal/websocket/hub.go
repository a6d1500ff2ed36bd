package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	// ErrClientClosed is returned when attempting to send to a closed client
	ErrClientClosed = errors.New("client is closed")

	// ErrClientTooSlow is returned when a client's send buffer is full
	ErrClientTooSlow = errors.New("client send buffer is full")
)

// ClientInterface defines the interface that clients must implement
type ClientInterface interface {
	ID() string
	Send(data []byte) error
	Close() error
}

type subscriber struct {
	client ClientInterface
	filter Filter
}

// Hub fans change events out to connected clients according to each client's Filter.
// It is safe for concurrent use
type Hub struct {
	subscribers map[string]*subscriber
	mu          sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]*subscriber),
	}
}

// Register adds a client to the hub with an empty filter
func (h *Hub) Register(client ClientInterface) {
	h.RegisterFiltered(client, Filter{})
}

// RegisterFiltered adds a client that only receives events matching filter
func (h *Hub) RegisterFiltered(client ClientInterface, filter Filter) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.subscribers[client.ID()] = &subscriber{client: client, filter: filter}

	log.Debug().
		Str("client_id", client.ID()).
		Msg("WebSocket client registered")
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.subscribers[client.ID()]; exists {
		delete(h.subscribers, client.ID())

		log.Debug().
			Str("client_id", client.ID()).
			Msg("WebSocket client unregistered")
	}
}

// SetFilter replaces the filter of a registered client. It reports false when the
// client is not registered.
func (h *Hub) SetFilter(clientID string, filter Filter) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subscribers[clientID]
	if !ok {
		return false
	}
	sub.filter = filter

	log.Debug().
		Str("client_id", clientID).
		Interface("entities", filter.Entities).
		Str("month", filter.Month).
		Msg("WebSocket client filter updated")
	return true
}

// Broadcast sends an event to every client whose filter matches it
func (h *Hub) Broadcast(event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	h.mu.RLock()
	targets := make([]ClientInterface, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		if sub.filter.Matches(event) {
			targets = append(targets, sub.client)
		}
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return
	}

	for _, client := range targets {
		go h.deliver(client, data)
	}

	log.Debug().
		Str("event_type", event.Type).
		Str("month", event.Month).
		Int("client_count", len(targets)).
		Msg("Broadcast event")
}

// deliver sends one frame and evicts the client if it cannot keep up
func (h *Hub) deliver(client ClientInterface, data []byte) {
	err := client.Send(data)
	switch {
	case err == nil:
	case errors.Is(err, ErrClientTooSlow):
		log.Warn().
			Str("client_id", client.ID()).
			Msg("Disconnecting slow WebSocket client")
		h.Unregister(client)
		_ = client.Close()
	default:
		log.Warn().
			Err(err).
			Str("client_id", client.ID()).
			Msg("Failed to send to client")
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// CloseAll disconnects every client, used on shutdown
func (h *Hub) CloseAll() {
	h.mu.Lock()
	subscribers := h.subscribers
	h.subscribers = make(map[string]*subscriber)
	h.mu.Unlock()

	for _, sub := range subscribers {
		_ = sub.client.Close()
	}
}
