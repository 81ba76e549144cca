// Package websocket pushes journal events to the live connections of the
// user they belong to.
package websocket

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("blog.websocket")

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub tracks connected clients per user. Registration goes through Run; event
// delivery through PublishEvent never blocks on a slow client.
type Hub struct {
	clients    map[int64]map[*Client]struct{}
	mu         sync.RWMutex
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves registrations until ctx is done, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)
		case client := <-h.Unregister:
			h.unregisterClient(client)
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.UserID]; !ok {
		h.clients[client.UserID] = make(map[*Client]struct{})
	}
	h.clients[client.UserID][client] = struct{}{}
	logger.Debugf("client for user %d registered", client.UserID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	userClients, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := userClients[client]; !ok {
		return
	}
	delete(userClients, client)
	close(client.send)
	if len(userClients) == 0 {
		delete(h.clients, client.UserID)
	}
	logger.Debugf("client for user %d unregistered", client.UserID)
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

// ClientCount returns the number of live connections of userID.
func (h *Hub) ClientCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// PublishEvent queues eventData for every connection of userID. A client
// whose buffer is full misses the event and can catch up through the journal.
func (h *Hub) PublishEvent(userID int64, eventData []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- eventData:
		default:
			logger.Warningf("send buffer of a client for user %d is full, dropping event", userID)
		}
	}
}
