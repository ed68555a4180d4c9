// Package websocket implements a WebSocket Hub for pushing scorecard changes to watchers.
// Anyone with a scorecard open (a second tab, a playing partner's phone) keeps a
// connection here and gets the new card the moment it is saved, or a notice that it was
// deleted, instead of polling the API.
package websocket

import (
	"context"
	"sync"
)

// Client represents a single connected WebSocket client.
type Client struct {
	ScorecardID string      // Which scorecard this client is watching
	Send        chan []byte // Buffered outgoing messages; the Hub writes here, the connection drains it
}

// Message is a unit of data to broadcast to every client watching one scorecard.
type Message struct {
	ScorecardID string
	Data        []byte
}

// Hub manages all active WebSocket connections, grouped by scorecard id.
// All map writes happen on the Run goroutine; registration and broadcasts arrive
// through channels.
type Hub struct {
	clients map[string]map[*Client]bool // scorecardID -> set of clients

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{} // closed when Run returns

	mu sync.RWMutex
}

// NewHub creates a Hub with empty channels and maps. The broadcast channel has a buffer
// of 256 so handlers don't block if the Hub goroutine is briefly busy.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run is the Hub's event loop. Start it in a goroutine; it returns when ctx is cancelled,
// after closing every client's Send channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, clients := range h.clients {
				for client := range clients {
					close(client.Send)
				}
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.ScorecardID] == nil {
				h.clients[client.ScorecardID] = make(map[*Client]bool)
			}
			h.clients[client.ScorecardID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for client := range h.clients[msg.ScorecardID] {
				select {
				case client.Send <- msg.Data:
				// A full buffer means the client is too slow; drop it rather than
				// stall every other watcher.
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()
			for _, client := range slow {
				h.remove(client)
			}
		}
	}
}

// remove deletes a client and closes its Send channel. Removing an unknown client is a no-op.
func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[client.ScorecardID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.ScorecardID)
	}
}

// BroadcastToScorecard sends data to every client watching the scorecard.
// It never blocks once the Hub has stopped.
func (h *Hub) BroadcastToScorecard(scorecardID string, data []byte) {
	select {
	case h.broadcast <- &Message{ScorecardID: scorecardID, Data: data}:
	case <-h.done:
	}
}

// Register adds a client so it starts receiving broadcasts for its scorecard.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// Unregister removes a client when its connection closes.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Watchers reports how many clients are watching a scorecard.
func (h *Hub) Watchers(scorecardID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[scorecardID])
}
