// Package ws streams secret events to connected browsers.
package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Event types sent to clients.
const (
	EventNewPost  = "new_post"
	EventApproval = "approval"
	EventDelete   = "delete"
)

// Message is the JSON envelope every client receives.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Publisher is what handlers need from the hub.
type Publisher interface {
	Publish(eventType string, data any)
}

// Hub fans broadcast messages out to every registered client.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	Broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	log *zap.Logger
}

var _ Publisher = (*Hub)(nil)

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run owns client registration and delivery. It never returns.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.Debug("ws client connected", zap.Int("clients", h.Len()))

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.Broadcast:
			h.mu.RLock()
			var slow []*Client
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()
			for _, c := range slow {
				h.remove(c)
			}
		}
	}
}

// Publish encodes an event and queues it for broadcast. The event is
// dropped when the broadcast queue is full.
func (h *Hub) Publish(eventType string, data any) {
	payload, err := json.Marshal(Message{Type: eventType, Data: data})
	if err != nil {
		h.log.Error("marshal ws message", zap.Error(err))
		return
	}
	select {
	case h.Broadcast <- payload:
	default:
		h.log.Warn("ws broadcast queue full, dropping event", zap.String("type", eventType))
	}
}

// Len reports the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}
