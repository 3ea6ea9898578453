package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobnest/internal/domain/notification"
	"jobnest/internal/realtime"
)

func startRelay(t *testing.T) (*Hub, *Relay, string) {
	t.Helper()
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	srv := httptest.NewServer(NewHandler(hub, nil))
	t.Cleanup(srv.Close)

	relay := NewRelay(hub)
	relay.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return hub, relay, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, hub *Hub, url string, want int) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.Eventually(t, func() bool { return hub.ClientCount() == want }, time.Second, 5*time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var evt Event
	require.NoError(t, json.Unmarshal(data, &evt))
	return evt
}

func TestRelay_BroadcastsToEveryClient(t *testing.T) {
	hub, relay, url := startRelay(t)
	a := dial(t, hub, url, 1)
	b := dial(t, hub, url, 2)

	relay.Handle(realtime.Message{
		Parsed:       true,
		Notification: notification.Notification{ID: 4, Message: "Your application was reviewed"},
	})

	for _, conn := range []*websocket.Conn{a, b} {
		evt := readEvent(t, conn)
		assert.Equal(t, EventNotification, evt.Type)
		require.NotNil(t, evt.Notification)
		assert.Equal(t, int64(4), evt.Notification.ID)
		assert.Equal(t, "2026-01-02T03:04:05Z", evt.Timestamp)
	}
}

func TestRelay_RawAndStateEvents(t *testing.T) {
	hub, relay, url := startRelay(t)
	conn := dial(t, hub, url, 1)

	relay.Handle(realtime.Message{Raw: "ping"})
	evt := readEvent(t, conn)
	assert.Nil(t, evt.Notification)
	assert.Equal(t, "ping", evt.Raw)

	relay.State(realtime.StateReconnecting)
	evt = readEvent(t, conn)
	assert.Equal(t, EventConnection, evt.Type)
	assert.Equal(t, "reconnecting", evt.State)
}

func TestHub_UnregistersClosedClients(t *testing.T) {
	hub, _, url := startRelay(t)
	conn := dial(t, hub, url, 1)
	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_NilSafe(t *testing.T) {
	var h *Hub
	h.Broadcast([]byte("x"))
	assert.Equal(t, 0, h.ClientCount())

	var r *Relay
	r.Handle(realtime.Message{Raw: "x"})
}

func TestHandler_RejectsUnlistedOrigins(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(NewHandler(hub, nil, "http://localhost:3000/"))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://localhost:3000"}})
	require.NoError(t, err)
	_ = conn.Close()
}
