// Package http provides the websocket transport for the live kill feed
package http

import (
	"encoding/json"
	"sync"

	"killfeed/internal/platform/logger"
	"killfeed/internal/services/api/feed/domain"
	killsdom "killfeed/internal/services/kills/domain"
)

// sendBuffer is the per subscriber backlog; a consumer further behind
// than this is dropped rather than allowed to stall the fan out
const sendBuffer = 64

// client is one websocket subscriber
type client struct {
	send chan []byte
}

// Hub fans applied kills out to websocket subscribers. It implements
// the kills feed sink; Publish never blocks the ingest pipeline
type Hub struct {
	log logger.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub constructs an empty hub
func NewHub(log logger.Logger) *Hub {
	return &Hub{log: log, clients: make(map[*client]struct{})}
}

// Publish implements the kills feed sink
func (h *Hub) Publish(k killsdom.Kill) {
	data, err := json.Marshal(domain.EventFrom(k))
	if err != nil {
		h.log.Error().Err(err).Msg("feed: marshal kill event")
		return
	}

	h.mu.Lock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// slow consumer; closing send ends its write pump
			delete(h.clients, c)
			close(c.send)
		}
	}
	h.mu.Unlock()
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add() *client {
	c := &client{send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug().Int("clients", n).Msg("feed: subscriber connected")
	return c
}

// remove is safe to call twice; only the call that finds the client
// still registered closes its channel
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug().Int("clients", n).Msg("feed: subscriber disconnected")
}

var _ killsdom.FeedSink = (*Hub)(nil)
