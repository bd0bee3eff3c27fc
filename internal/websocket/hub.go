package websocket

import (
	"encoding/json"
	"sync"

	"github.com/seriate-dev/seriate/internal/logger"
)

// Hub fans broadcast messages out to every subscribed client. A client
// whose send buffer is full gets dropped instead of stalling the fan-out.
type Hub struct {
	subscribers map[*Client]bool
	broadcast   chan Message
	register    chan *Client
	unregister  chan *Client

	// Guards subscribers; Run mutates it, ClientCount and fanOut read it.
	mu sync.RWMutex
}

// NewHub creates a hub. Call Run on it before broadcasting.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[*Client]bool),
		broadcast:   make(chan Message, 256),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
	}
}

// Run processes subscriptions and broadcasts until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.subscribers[client] = true
			count := len(h.subscribers)
			h.mu.Unlock()
			logger.Debug("websocket subscriber connected", "subscribers", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.subscribers[client]; ok {
				delete(h.subscribers, client)
				client.Close() // idempotent
			}
			count := len(h.subscribers)
			h.mu.Unlock()
			logger.Debug("websocket subscriber disconnected", "subscribers", count)

		case message := <-h.broadcast:
			h.fanOut(message)
		}
	}
}

// fanOut delivers one message to every subscriber. Subscribers whose send
// buffer is full are collected first and unregistered after the pass, so
// the read lock is never held while pushing onto the unregister channel.
func (h *Hub) fanOut(message Message) {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("marshaling websocket message", "error", err)
		return
	}

	var stalled []*Client
	h.mu.RLock()
	for client := range h.subscribers {
		select {
		case client.send <- data:
		default:
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stalled {
		select {
		case h.unregister <- client:
		default:
			logger.Warn("unregister channel full, keeping stalled subscriber")
		}
	}
}

// Broadcast queues a message for delivery. When the queue is full the
// message is dropped; event listings remain queryable over HTTP.
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		logger.Warn("broadcast queue full, dropping message", "message_type", msg.Type)
	}
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
