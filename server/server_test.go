package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"chat-rooms/runtime"
)

func newTestServer(t *testing.T) (*httptest.Server, *runtime.Registry) {
	t.Helper()
	log := slog.Default()
	registry := runtime.NewRegistry()
	handlers := runtime.NewHandlers(log, registry, runtime.NewBroadcaster(log, registry))
	dispatcher := runtime.NewChatDispatcher(log, handlers)

	srv := NewServer(log, Config{Host: "127.0.0.1", Port: 0, ConnectionBufferSize: 16},
		registry, dispatcher, handlers)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, registry
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sendJSON(t *testing.T, conn *websocket.Conn, frame string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
}

// readUntil drains frames until one of the wanted type arrives. Broadcast
// ordering between connections is not fixed, only per-connection order is.
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %q", msgType)

		var msg map[string]any
		require.NoError(t, json.Unmarshal(raw, &msg))
		if msg["type"] == msgType {
			return msg
		}
	}
}

func TestServer_Health(t *testing.T) {
	req := require.New(t)
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	req.NoError(err)
	defer resp.Body.Close()

	req.Equal(http.StatusOK, resp.StatusCode)

	var body map[string]any
	req.NoError(json.NewDecoder(resp.Body).Decode(&body))
	req.Equal("ok", body["status"])
	req.EqualValues(0, body["activeRooms"])
	req.EqualValues(0, body["connectedUsers"])
}

func TestServer_Index(t *testing.T) {
	req := require.New(t)
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	req.NoError(err)
	defer resp.Body.Close()

	req.Equal(http.StatusOK, resp.StatusCode)
	req.Contains(resp.Header.Get("Content-Type"), "text/html")
}

func TestServer_ConnectAndChat(t *testing.T) {
	req := require.New(t)
	ts, registry := newTestServer(t)

	// Given alice connects and creates a room
	alice := dial(t, ts)
	sendJSON(t, alice, `{"type":"connect","username":"alice"}`)
	welcome := readUntil(t, alice, "connected")
	req.Equal("Welcome, alice!", welcome["message"])
	readUntil(t, alice, "rooms")

	sendJSON(t, alice, `{"type":"create_room","roomName":"general"}`)
	joined := readUntil(t, alice, "joined")
	req.Equal("general", joined["room"])

	// When bob connects and joins
	bob := dial(t, ts)
	sendJSON(t, bob, `{"type":"connect","username":"bob"}`)
	readUntil(t, bob, "connected")
	sendJSON(t, bob, `{"type":"join_room","roomName":"general"}`)
	bobJoined := readUntil(t, bob, "joined")
	req.Equal([]any{"alice", "bob"}, bobJoined["members"])

	presence := readUntil(t, alice, "user_joined")
	req.Equal("bob", presence["name"])

	// Then a chat line from bob reaches both sides
	sendJSON(t, bob, `{"type":"message","content":"hello"}`)

	for _, conn := range []*websocket.Conn{alice, bob} {
		chat := readUntil(t, conn, "chat")
		req.Equal("bob", chat["sender"])
		req.Equal("hello", chat["content"])
		req.Equal("general", chat["room"])
	}

	_, users := registry.Counts()
	req.Equal(2, users)
}

func TestServer_DisconnectCleansUp(t *testing.T) {
	req := require.New(t)
	ts, registry := newTestServer(t)

	alice := dial(t, ts)
	sendJSON(t, alice, `{"type":"connect","username":"alice"}`)
	readUntil(t, alice, "connected")
	sendJSON(t, alice, `{"type":"join_room","roomName":"general"}`)
	readUntil(t, alice, "joined")

	bob := dial(t, ts)
	sendJSON(t, bob, `{"type":"connect","username":"bob"}`)
	readUntil(t, bob, "connected")
	sendJSON(t, bob, `{"type":"join_room","roomName":"general"}`)
	readUntil(t, bob, "joined")
	readUntil(t, alice, "user_joined")

	// When bob's socket drops without an explicit leave
	req.NoError(bob.Close())

	// Then alice is told, and the registry forgets bob
	left := readUntil(t, alice, "user_left")
	req.Equal("bob", left["name"])
	req.Equal([]any{"alice"}, left["members"])

	deadline := time.Now().Add(2 * time.Second)
	for {
		_, users := registry.Counts()
		if users == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("registry still holds the dropped connection")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServer_ErrorsDoNotKillConnection(t *testing.T) {
	req := require.New(t)
	ts, _ := newTestServer(t)

	conn := dial(t, ts)

	// Acting before identifying is rejected, but the socket survives
	sendJSON(t, conn, `{"type":"join_room","roomName":"general"}`)
	errMsg := readUntil(t, conn, "error")
	req.Equal("not connected", errMsg["message"])

	sendJSON(t, conn, `not json at all`)
	errMsg = readUntil(t, conn, "error")
	req.Equal("invalid JSON", errMsg["message"])

	sendJSON(t, conn, `{"type":"connect","username":"alice"}`)
	readUntil(t, conn, "connected")
}
