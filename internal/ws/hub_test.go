package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHub_BroadcastReachesClient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 5*time.Millisecond)

	hub.Publish(EventNewPost, map[string]any{"id": 7})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	require.Equal(t, EventNewPost, msg.Type)
	require.EqualValues(t, 7, msg.Data["id"])
}

func TestHub_PublishDropsWhenQueueFull(t *testing.T) {
	hub := NewHub(zap.NewNop())
	for i := 0; i < cap(hub.Broadcast)+5; i++ {
		hub.Publish(EventDelete, i)
	}
	require.Len(t, hub.Broadcast, cap(hub.Broadcast))
}
