package realtime

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/wonny/ohaasa/backend/pkg/logger"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func waitForSubscribers(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.Count() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastReachesSubscribers(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(logger.Nop())
	srv := httptest.NewServer(hub)

	a := dial(t, srv)
	b := dial(t, srv)
	waitForSubscribers(t, hub, 2)

	hub.Broadcast(Event{Type: EventRankingsUpdated, DateKST: "2026-10-16", Status: "ok"})

	for _, conn := range []*websocket.Conn{a, b} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var ev Event
		require.NoError(t, json.Unmarshal(data, &ev))
		assert.Equal(t, EventRankingsUpdated, ev.Type)
		assert.Equal(t, "2026-10-16", ev.DateKST)
		assert.Equal(t, "ok", ev.Status)
		assert.False(t, ev.At.IsZero())
	}

	a.Close()
	waitForSubscribers(t, hub, 1)

	b.Close()
	hub.Close()
	srv.Close()
}

func TestHub_CloseRejectsNewSubscribers(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(logger.Nop())
	srv := httptest.NewServer(hub)

	conn := dial(t, srv)
	waitForSubscribers(t, hub, 1)

	hub.Close()
	assert.Equal(t, 0, hub.Count())

	// 서버가 끊었으므로 읽기는 실패
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	conn.Close()

	late := dial(t, srv)
	require.NoError(t, late.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = late.ReadMessage()
	assert.Error(t, err)
	late.Close()
	assert.Equal(t, 0, hub.Count())

	srv.Close()
}

func TestHub_BroadcastWithoutSubscribers(t *testing.T) {
	hub := NewHub(logger.Nop())
	assert.NotPanics(t, func() {
		hub.Broadcast(Event{Type: EventRankingsUpdated})
	})
	hub.Close()
}
