package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for hub.ClientCount() != n {
		select {
		case <-deadline:
			t.Fatalf("client count never reached %d", n)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestBroadcastEventReachesClient(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	hub.BroadcastEvent(domain.Event{
		Kind:     domain.EventDeviceDetected,
		Severity: domain.SeverityInfo,
		Message:  "New device: host-01",
	})

	msg := readMessage(t, conn)
	assert.Equal(t, "event", msg.Type)
	payload, ok := msg.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "device_detected", payload["kind"])
}

func TestBroadcastAlertEnvelope(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	hub.BroadcastAlert("New Device", "host-01 joined", domain.SeverityWarning)

	msg := readMessage(t, conn)
	assert.Equal(t, "alert", msg.Type)
	payload, ok := msg.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "New Device", payload["title"])
	assert.Equal(t, "warning", payload["severity"])
}

func TestBroadcastWithoutClientsDoesNotBlock(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.BroadcastAlert("t", "m", domain.SeverityInfo)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked with no clients")
	}
}

func TestDisconnectPrunesClient(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}
