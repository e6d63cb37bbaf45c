package events

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event types published to the admin dashboard.
const (
	ReservationCreated = "reservation.created"
	ReservationUpdated = "reservation.updated"
	GalleryCommented   = "gallery.commented"
	GalleryLiked       = "gallery.liked"
	GalleryRated       = "gallery.rated"
)

// Event is one message on the admin feed.
type Event struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Hub maintains the connected admin clients and broadcasts events to them.
// Publishing never blocks a request: the broadcast channel is buffered and
// a slow client is disconnected rather than waited on.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	log        *zap.Logger
	mu         sync.RWMutex
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run starts the hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			payload, err := json.Marshal(event)
			if err != nil {
				h.log.Warn("failed to marshal event", zap.Error(err))
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues an event for broadcast. The payload is marshalled here so
// a bad value surfaces as a warning instead of a dropped frame.
func (h *Hub) Publish(eventType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		h.log.Warn("failed to marshal event payload", zap.String("type", eventType), zap.Error(err))
		return
	}
	event := Event{Type: eventType, Data: raw, Timestamp: time.Now().UTC()}
	select {
	case h.broadcast <- event:
	default:
		h.log.Warn("event feed full, dropping event", zap.String("type", eventType))
	}
}
