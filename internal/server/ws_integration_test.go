package server

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabletop-backend/internal/config"
	"tabletop-backend/internal/protocol"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
		WebSocket: config.WebSocketConfig{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		CORS: config.CORSConfig{AllowOrigins: "*", AllowHeaders: "Origin, Content-Type, Accept"},
		Room: config.RoomConfig{ChatHistorySize: 50},
	}
}

// startTestServer serves the relay on a loopback listener.
func startTestServer(t *testing.T) (wsURL string, shutdown func()) {
	t.Helper()

	srv := New(testConfig())
	srv.SetupMiddleware()
	srv.SetupRoutes()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		_ = srv.Serve(ln)
	}()
	// Give fasthttp a beat to start accepting.
	time.Sleep(50 * time.Millisecond)

	return "ws://" + ln.Addr().String() + "/ws/table", func() { _ = srv.Shutdown() }
}

func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	return conn
}

func send(t *testing.T, conn *websocket.Conn, kind protocol.MsgType, payload any) {
	t.Helper()
	data, err := protocol.Encode(kind, payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

// waitFor reads frames until one of the given kind arrives.
func waitFor(t *testing.T, conn *websocket.Conn, kind protocol.MsgType, into any) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %s", kind)
		var env protocol.Envelope
		require.NoError(t, json.Unmarshal(data, &env))
		if env.Type != kind {
			continue
		}
		if into != nil {
			require.NoError(t, json.Unmarshal(env.Payload, into))
		}
		return
	}
}

func TestRelayRoomScenario(t *testing.T) {
	wsURL, shutdown := startTestServer(t)
	defer shutdown()

	hostConn := dial(t, wsURL)
	defer hostConn.Close()

	send(t, hostConn, protocol.MsgCreateRoom, protocol.CreateRoom{RoomID: "abc", PlayerName: "Alice"})

	var created protocol.RoomCreated
	waitFor(t, hostConn, protocol.MsgRoomCreated, &created)
	assert.Equal(t, "abc", created.RoomID)
	assert.True(t, created.IsHost)

	guestConn := dial(t, wsURL)
	defer guestConn.Close()

	send(t, guestConn, protocol.MsgJoinRoom, protocol.JoinRoom{RoomID: "abc", PlayerName: "Bob"})

	var joined protocol.RoomJoined
	waitFor(t, guestConn, protocol.MsgRoomJoined, &joined)
	assert.False(t, joined.IsHost)
	assert.Equal(t, created.PlayerID, joined.HostID)

	var newPlayer protocol.PlayerJoined
	waitFor(t, hostConn, protocol.MsgPlayerJoined, &newPlayer)
	assert.Equal(t, "Bob", newPlayer.PlayerName)

	var roster protocol.PlayerList
	waitFor(t, hostConn, protocol.MsgPlayerList, &roster)
	assert.Len(t, roster.Players, 2)
	waitFor(t, guestConn, protocol.MsgPlayerList, &roster)
	assert.Len(t, roster.Players, 2)

	// Host publishes state; the guest receives it verbatim.
	state := json.RawMessage(`{"objects":[{"id":"card1","kind":"CARD","x":10,"y":20}]}`)
	send(t, hostConn, protocol.MsgGameStateUpdate, protocol.GameStateUpdate{State: state})

	var sync protocol.SyncState
	waitFor(t, guestConn, protocol.MsgSyncState, &sync)
	assert.JSONEq(t, string(state), string(sync.State))

	// Guest submits an action; the host receives it with the sender id.
	send(t, guestConn, protocol.MsgGameAction, protocol.GameAction{Action: json.RawMessage(`{"op":"flip","id":"card1"}`)})

	var action protocol.PlayerAction
	waitFor(t, hostConn, protocol.MsgPlayerAction, &action)
	assert.Equal(t, joined.PlayerID, action.SenderID)
	assert.JSONEq(t, `{"op":"flip","id":"card1"}`, string(action.Action))

	// Chat reaches both sides.
	send(t, guestConn, protocol.MsgChatMessage, protocol.ChatSend{Message: "gg"})
	var chat protocol.ChatBroadcast
	waitFor(t, hostConn, protocol.MsgChatMessage, &chat)
	assert.Equal(t, "Bob", chat.SenderName)
	assert.Equal(t, "gg", chat.Message)

	// Host disconnects; the guest sees the departure and is promoted.
	require.NoError(t, hostConn.Close())

	var left protocol.PlayerLeft
	waitFor(t, guestConn, protocol.MsgPlayerLeft, &left)
	assert.Equal(t, created.PlayerID, left.PlayerID)
	waitFor(t, guestConn, protocol.MsgBecameHost, nil)
}

func TestRelayMalformedFramesAreDropped(t *testing.T) {
	wsURL, shutdown := startTestServer(t)
	defer shutdown()

	conn := dial(t, wsURL)
	defer conn.Close()

	// Unknown and malformed frames are logged and dropped; the
	// connection stays usable.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"NO_SUCH_KIND"}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`garbage`)))

	send(t, conn, protocol.MsgCreateRoom, protocol.CreateRoom{PlayerName: "Alice"})

	var created protocol.RoomCreated
	waitFor(t, conn, protocol.MsgRoomCreated, &created)
	assert.NotEmpty(t, created.RoomID)
	assert.True(t, created.IsHost)
}

func TestJoinUnknownRoomOverWire(t *testing.T) {
	wsURL, shutdown := startTestServer(t)
	defer shutdown()

	conn := dial(t, wsURL)
	defer conn.Close()

	send(t, conn, protocol.MsgJoinRoom, protocol.JoinRoom{RoomID: "missing", PlayerName: "Bob"})

	var errMsg protocol.Error
	waitFor(t, conn, protocol.MsgError, &errMsg)
	assert.Equal(t, "Room not found", errMsg.Error)
}
