package server

import (
	"encoding/json"
	"io"
	"math/rand"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/nocturne/engine"
	"github.com/minaorangina/nocturne/game"
	utils "github.com/minaorangina/nocturne/internal"
	"github.com/minaorangina/nocturne/protocol"
	"github.com/minaorangina/nocturne/store"
	"github.com/sirupsen/logrus"
)

const serverTestTimeout = 2 * time.Second

func quietLogger() *logrus.Entry {
	logger := logrus.New()
	logger.Out = io.Discard
	return logrus.NewEntry(logger)
}

// newTestStore returns a store that opens real rooms with a seeded deck
func newTestStore(t *testing.T) *store.InMemoryRoomStore {
	t.Helper()

	s := store.NewInMemoryRoomStore(func(roomID string, onClose func(engine.GameEngine)) (engine.GameEngine, error) {
		gameOpts := game.DefaultOpts()
		gameOpts.Rand = rand.New(rand.NewSource(5))

		return store.RoomFactory(engine.GameEngineOpts{
			Game:   gameOpts,
			Logger: quietLogger(),
		})(roomID, onClose)
	})
	t.Cleanup(s.Close)

	return s
}

// newTestServer starts a GameServer over the given store.
// It is shut down when the test ends.
func newTestServer(t *testing.T, s store.RoomStore) *httptest.Server {
	t.Helper()

	gs := NewServer(s, Opts{Logger: quietLogger()})
	server := httptest.NewServer(gs)
	t.Cleanup(func() {
		server.Close()
		gs.Close()
	})

	return server
}

func mustDialWS(t *testing.T, serverURL string) *websocket.Conn {
	t.Helper()

	url := makeWSUrl(serverURL)
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("could not open a ws connection on %s, %v (%v)", url, err, resp)
	}
	t.Cleanup(func() { ws.Close() })

	return ws
}

func makeWSUrl(serverURL string) string {
	return "ws" + strings.TrimPrefix(serverURL, "http") + "/ws"
}

func sendCommand(t *testing.T, ws *websocket.Conn, cmd protocol.Cmd, payload interface{}) {
	t.Helper()

	raw, err := json.Marshal(payload)
	utils.AssertNoError(t, err)
	data, err := json.Marshal(protocol.Envelope{Type: cmd, Payload: raw})
	utils.AssertNoError(t, err)

	utils.AssertNoError(t, ws.WriteMessage(websocket.TextMessage, data))
}

func joinRoom(t *testing.T, ws *websocket.Conn, name, roomID string) {
	t.Helper()
	sendCommand(t, ws, protocol.JoinGame, map[string]string{"name": name, "roomId": roomID})
}

// readUntil reads envelopes until one of the wanted type arrives
func readUntil(t *testing.T, ws *websocket.Conn, want protocol.Cmd) protocol.Envelope {
	t.Helper()

	ws.SetReadDeadline(time.Now().Add(serverTestTimeout))
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %s: %v", want, err)
		}

		var env protocol.Envelope
		utils.AssertNoError(t, json.Unmarshal(data, &env))
		if env.Type == want {
			return env
		}
	}
}

func readLobby(t *testing.T, ws *websocket.Conn) protocol.LobbyUpdate {
	t.Helper()

	var lobby protocol.LobbyUpdate
	env := readUntil(t, ws, protocol.Lobby)
	utils.AssertNoError(t, json.Unmarshal(env.Payload, &lobby))
	return lobby
}

func readState(t *testing.T, ws *websocket.Conn) protocol.GameState {
	t.Helper()

	var state protocol.GameState
	env := readUntil(t, ws, protocol.GameStateUpdate)
	utils.AssertNoError(t, json.Unmarshal(env.Payload, &state))
	return state
}

func readNotice(t *testing.T, ws *websocket.Conn, cmd protocol.Cmd) protocol.Notice {
	t.Helper()

	var notice protocol.Notice
	env := readUntil(t, ws, cmd)
	utils.AssertNoError(t, json.Unmarshal(env.Payload, &notice))
	return notice
}

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("got status %d, want %d", got, want)
	}
}
