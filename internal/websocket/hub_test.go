package websocket

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"histcli/internal/dataset"
)

func dialTestHub(t *testing.T, hub *Hub) *gorilla.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, slog.Default(), w, r)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *gorilla.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg map[string]any
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHubSendsConnectionMessage(t *testing.T) {
	hub := NewHub(slog.Default())
	hub.Start()
	defer hub.Stop()

	conn := dialTestHub(t, hub)

	msg := readMessage(t, conn)
	assert.Equal(t, TypeConnection, msg["type"])
	data := msg["data"].(map[string]any)
	assert.Equal(t, "connected", data["status"])
	assert.NotEmpty(t, data["client_id"])
}

func TestHubBroadcastsProgress(t *testing.T) {
	hub := NewHub(slog.Default())
	hub.Start()
	defer hub.Stop()

	conn := dialTestHub(t, hub)
	readMessage(t, conn) // connection message

	hub.BroadcastProgress(dataset.BuildProgress{
		File: "table_aapl.csv", Symbol: "aapl", FilesDone: 1, FilesTotal: 2, RecordCount: 10,
	})
	msg := readMessage(t, conn)
	assert.Equal(t, TypeBuildProgress, msg["type"])
	data := msg["data"].(map[string]any)
	assert.Equal(t, "aapl", data["symbol"])
	assert.Equal(t, float64(2), data["files_total"])

	hub.BroadcastProgress(dataset.BuildProgress{FilesDone: 2, FilesTotal: 2, RecordCount: 20, Done: true})
	msg = readMessage(t, conn)
	assert.Equal(t, TypeBuildComplete, msg["type"])
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(slog.Default())
	hub.Start()
	defer hub.Stop()

	first := dialTestHub(t, hub)
	readMessage(t, first)
	second := dialTestHub(t, hub)
	readMessage(t, second)

	require.Eventually(t, func() bool { return hub.ClientCount() == 2 },
		time.Second, 10*time.Millisecond)

	hub.Broadcast(TypeBuildError, map[string]any{"error": "boom"})

	for _, conn := range []*gorilla.Conn{first, second} {
		msg := readMessage(t, conn)
		assert.Equal(t, TypeBuildError, msg["type"])
	}
}

func TestHubStopDisconnectsClients(t *testing.T) {
	hub := NewHub(slog.Default())
	hub.Start()

	conn := dialTestHub(t, hub)
	readMessage(t, conn)

	hub.Stop()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
