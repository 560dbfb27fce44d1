package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chargehub/internal/ws"
)

func TestMetricsRecordsStatus(t *testing.T) {
	handler := Metrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}

func TestMetricsAllowsWebsocketUpgrade(t *testing.T) {
	hub := ws.NewHub(zap.NewNop())
	server := httptest.NewServer(Metrics(http.HandlerFunc(hub.HandleWS)))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial through middleware: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	hub.PublishChargePointStatus(5, "Out of Service")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event ws.StatusEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("failed to read event: %v", err)
	}
	if event.ChargePointID != 5 || event.Status != "Out of Service" {
		t.Errorf("event = %+v", event)
	}
}
