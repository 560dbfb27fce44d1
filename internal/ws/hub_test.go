package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial hub: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		n := len(hub.clients)
		hub.mu.RUnlock()
		if n == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("hub never reached %d clients", want)
}

func TestHubBroadcastsStatusEvents(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	hub.PublishChargePointStatus(3, "In Use")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event StatusEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("failed to read event: %v", err)
	}
	if event.ChargePointID != 3 || event.Status != "In Use" {
		t.Errorf("event = %+v", event)
	}
	if event.OccurredAt.IsZero() {
		t.Error("event has no timestamp")
	}
}

func TestHubDropsDisconnectedClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	conn.Close()
	hub.PublishChargePointStatus(3, "Available")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		n := len(hub.clients)
		hub.mu.RUnlock()
		if n == 0 {
			return
		}
		// Keep the queue moving so the write failure is observed.
		hub.PublishChargePointStatus(3, "Available")
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("disconnected client was never removed")
}
