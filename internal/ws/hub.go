package ws

import (
	"sync"
	"time"

	"github.com/mehrbod2002/horizon/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type retainRequest struct {
	live         map[string]bool
	openedBefore time.Time
}

type Hub struct {
	clients map[string]*models.Client

	register chan *models.Client

	unregister chan *models.Client

	broadcast chan *models.UserEvent

	retain chan retainRequest

	quit chan struct{}
	once sync.Once

	mu  sync.RWMutex
	log *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*models.Client),
		register:   make(chan *models.Client),
		unregister: make(chan *models.Client),
		broadcast:  make(chan *models.UserEvent),
		retain:     make(chan retainRequest),
		quit:       make(chan struct{}),
		log:        log,
	}
}

// Run owns the client set until Stop is called, then closes every client.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				client.Close()
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				if client.UserID != event.UserID {
					continue
				}
				if !client.Enqueue(event) {
					h.log.WithField("client_id", client.ID).Warn("client buffer full, skipping message")
				}
			}
			h.mu.RUnlock()

		case req := <-h.retain:
			h.mu.Lock()
			for id, client := range h.clients {
				if req.live[client.SessionID] || !client.OpenedAt.Before(req.openedBefore) {
					continue
				}
				delete(h.clients, id)
				client.Close()
				h.log.WithFields(logrus.Fields{
					"client_id":  client.ID,
					"session_id": client.SessionID,
				}).Info("closed client of ended session")
			}
			h.mu.Unlock()

		case <-h.quit:
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				client.Close()
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) Stop() {
	h.once.Do(func() { close(h.quit) })
}

func (h *Hub) RegisterClient(userID, sessionID string, conn *websocket.Conn) *models.Client {
	client := models.NewClient(uuid.New().String(), userID, sessionID, conn)
	select {
	case h.register <- client:
	case <-h.quit:
		client.Close()
	}
	return client
}

func (h *Hub) UnregisterClient(client *models.Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// PublishUserEvent hands the event to the user's connected clients. It is a
// no-op once the hub has stopped.
func (h *Hub) PublishUserEvent(event *models.UserEvent) {
	select {
	case h.broadcast <- event:
	case <-h.quit:
	}
}

// RetainSessions closes clients opened before openedBefore whose session is
// not in live. Clients opened later may belong to sessions the caller never
// saw and are kept.
func (h *Hub) RetainSessions(live map[string]bool, openedBefore time.Time) {
	select {
	case h.retain <- retainRequest{live: live, openedBefore: openedBefore}:
	case <-h.quit:
	}
}

func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) GetUserClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, client := range h.clients {
		if client.UserID == userID {
			n++
		}
	}
	return n
}
