package ws

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/mehrbod2002/horizon/internal/models"
	"github.com/sirupsen/logrus"
)

func newTestServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	hub := NewHub(log)
	go hub.Run()
	t.Cleanup(hub.Stop)

	handler := NewWebSocketHandler(hub)
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		if id := c.Query("user"); id != "" {
			c.Set("user_id", id)
			c.Set("session_id", "session-"+id)
		}
		handler.HandleConnection(c)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, hub *Hub, userID string) *websocket.Conn {
	t.Helper()
	before := hub.GetUserClientCount(userID)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?user=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for hub.GetUserClientCount(userID) == before {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func TestPublishReachesOnlyThatUser(t *testing.T) {
	hub, srv := newTestServer(t)
	alice := dial(t, srv, hub, "alice")
	bob := dial(t, srv, hub, "bob")

	hub.PublishUserEvent(&models.UserEvent{Type: models.UserEventIncomingPayment, UserID: "alice"})

	alice.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got models.UserEvent
	if err := alice.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Type != models.UserEventIncomingPayment || got.UserID != "alice" {
		t.Errorf("unexpected event: %+v", got)
	}

	bob.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if err := bob.ReadJSON(&got); err == nil {
		t.Errorf("bob should not receive alice's event, got %+v", got)
	}
}

func TestReadPumpActions(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := dial(t, srv, hub, "carol")
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	if err := conn.WriteJSON(models.SocketMessage{Action: "status"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var status models.SocketResponse
	if err := conn.ReadJSON(&status); err != nil {
		t.Fatalf("read: %v", err)
	}
	if status.Status != "success" || status.UserID != "carol" {
		t.Errorf("unexpected status: %+v", status)
	}

	if err := conn.WriteJSON(models.SocketMessage{Action: "dance"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var errResp models.ErrorResponse
	if err := conn.ReadJSON(&errResp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if errResp.Error != "Unknown action" {
		t.Errorf("unexpected error response: %+v", errResp)
	}
}

func TestRetainSessionsClosesEndedSessions(t *testing.T) {
	hub, srv := newTestServer(t)
	alice := dial(t, srv, hub, "alice")
	dial(t, srv, hub, "bob")

	hub.RetainSessions(map[string]bool{"session-bob": true}, time.Now())

	alice.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := alice.ReadMessage(); err == nil {
		t.Fatal("expected alice's connection to be closed")
	}
	deadline := time.Now().Add(2 * time.Second)
	for hub.GetUserClientCount("alice") != 0 {
		if time.Now().After(deadline) {
			t.Fatal("alice's client still registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if hub.GetUserClientCount("bob") != 1 {
		t.Error("bob's live session should keep its client")
	}

	hub.RetainSessions(map[string]bool{}, time.Now().Add(-time.Hour))
	if hub.GetUserClientCount("bob") != 1 {
		t.Error("clients opened after the cutoff must be kept")
	}
}

func TestUnregisterOnClose(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := dial(t, srv, hub, "dave")
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.GetUserClientCount("dave") != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client not unregistered after close")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestUpgradeRequiresUser(t *testing.T) {
	_, srv := newTestServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail without a user")
	}
	if resp == nil || resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %v", resp)
	}
}

func TestPublishAfterStopDoesNotBlock(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	hub := NewHub(log)
	hub.Stop()

	done := make(chan struct{})
	go func() {
		hub.PublishUserEvent(&models.UserEvent{UserID: "x"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("PublishUserEvent blocked on a stopped hub")
	}
}
