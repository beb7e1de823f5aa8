package models

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type UserEventType string

const (
	UserEventUpdated         UserEventType = "user_updated"
	UserEventIncomingPayment UserEventType = "incoming_payment"
)

// UserEvent is pushed to every websocket client of a user when their stored
// record changes.
type UserEvent struct {
	Type         UserEventType `json:"type"`
	UserID       string        `json:"user_id"`
	User         *User         `json:"user,omitempty"`
	Transactions []Transaction `json:"transactions,omitempty"`
	Timestamp    int64         `json:"timestamp"`
}

// Client is one websocket connection of an authenticated user. Everything
// written to the connection goes through Send.
type Client struct {
	ID        string
	UserID    string
	SessionID string
	OpenedAt  time.Time
	Conn      *websocket.Conn
	Send      chan interface{}

	mu     sync.Mutex
	closed bool
}

func NewClient(id, userID, sessionID string, conn *websocket.Conn) *Client {
	return &Client{
		ID:        id,
		UserID:    userID,
		SessionID: sessionID,
		OpenedAt:  time.Now(),
		Conn:      conn,
		Send:      make(chan interface{}, 256),
	}
}

// Enqueue reports false when the client is closed or its buffer is full.
func (c *Client) Enqueue(msg interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

type SocketMessage struct {
	Action string `json:"action"`
}

type SocketResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
