package engine

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/nocturne/game"
	utils "github.com/minaorangina/nocturne/internal"
	"github.com/minaorangina/nocturne/protocol"
	"github.com/stretchr/testify/assert"
)

// newConnectedPlayer returns a WSPlayer and the client end of its websocket
func newConnectedPlayer(t *testing.T) (*WSPlayer, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	playerCh := make(chan *WSPlayer, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("could not upgrade: %v", err)
			return
		}
		playerCh <- NewWSPlayer("ws-player", conn, quietLogger())
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	utils.AssertNoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case player := <-playerCh:
		t.Cleanup(player.Close)
		return player, client
	case <-time.After(gameEngineTestTimeout):
		t.Fatal("server never saw the connection")
	}
	return nil, nil
}

func readEnvelope(t *testing.T, client *websocket.Conn) protocol.Envelope {
	t.Helper()

	client.SetReadDeadline(time.Now().Add(gameEngineTestTimeout))
	_, data, err := client.ReadMessage()
	utils.AssertNoError(t, err)

	var env protocol.Envelope
	utils.AssertNoError(t, json.Unmarshal(data, &env))
	return env
}

func TestWSPlayerSend(t *testing.T) {
	t.Run("messages arrive as envelopes", func(t *testing.T) {
		player, client := newConnectedPlayer(t)

		err := player.Send(game.BuildErrorMessage(player.ID(), game.ErrRoomFull))
		utils.AssertNoError(t, err)

		env := readEnvelope(t, client)
		utils.AssertEqual(t, env.Type, protocol.Error)
		var notice protocol.Notice
		utils.AssertNoError(t, json.Unmarshal(env.Payload, &notice))
		utils.AssertEqual(t, notice.Message, game.ErrRoomFull.Error())
	})

	t.Run("queued messages are written before the connection closes", func(t *testing.T) {
		player, client := newConnectedPlayer(t)
		lobby := protocol.LobbyUpdate{Players: []string{"Ghoul"}, HostName: "Ghoul"}

		utils.AssertNoError(t, player.Send(protocol.OutboundMessage{PlayerID: player.ID(), Command: protocol.Lobby, Lobby: &lobby}))
		utils.AssertNoError(t, player.Send(protocol.OutboundMessage{PlayerID: player.ID(), Command: protocol.PlayerLeft, Message: "gone"}))
		player.Close()

		utils.AssertEqual(t, readEnvelope(t, client).Type, protocol.Lobby)
		utils.AssertEqual(t, readEnvelope(t, client).Type, protocol.PlayerLeft)

		_, _, err := client.ReadMessage()
		assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
	})

	t.Run("closed players refuse messages", func(t *testing.T) {
		player, _ := newConnectedPlayer(t)
		player.Close()

		err := player.Send(game.BuildErrorMessage(player.ID(), game.ErrRoomFull))

		assert.ErrorIs(t, err, ErrPlayerGone)
	})

	t.Run("unencodable messages are refused", func(t *testing.T) {
		player, _ := newConnectedPlayer(t)
		err := player.Send(protocol.OutboundMessage{Command: protocol.StartGame})
		utils.AssertErrored(t, err)
	})
}

func TestWSPlayerAwaitJoin(t *testing.T) {
	t.Log("Given a fresh connection")
	player, client := newConnectedPlayer(t)

	t.Log("When the client sends an action and then asks to join")
	utils.AssertNoError(t, client.WriteMessage(websocket.TextMessage, []byte(`{"type":"drawCard"}`)))
	utils.AssertNoError(t, client.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	utils.AssertNoError(t, client.WriteMessage(websocket.TextMessage, []byte(`{"type":"joinGame","payload":{"name":"Ghoul","roomId":"A"}}`)))

	t.Log("Then only the join is returned")
	msg, err := player.AwaitJoin()
	utils.AssertNoError(t, err)
	utils.AssertEqual(t, msg.Command, protocol.JoinGame)
	utils.AssertEqual(t, msg.RoomID, "A")
	utils.AssertEqual(t, msg.PlayerID, player.ID())
	utils.AssertEqual(t, player.Name(), "Ghoul")
}

func TestWSPlayerReadPump(t *testing.T) {
	t.Log("Given a player reading into a room")
	player, client := newConnectedPlayer(t)
	spy := NewSpyEngine("A")
	go player.ReadPump(spy)

	t.Log("When the client plays a card and hangs up")
	utils.AssertNoError(t, client.WriteMessage(websocket.TextMessage, []byte(`{"type":"playCard","payload":{"cardIndex":2,"color":"green","calledOut":true}}`)))
	assert.Eventually(t, func() bool { return len(spy.Received()) == 1 }, time.Second, 10*time.Millisecond)
	client.Close()

	t.Log("Then the room gets the move and then the leave")
	assert.Eventually(t, func() bool { return len(spy.Left()) == 1 }, time.Second, 10*time.Millisecond)
	got := spy.Received()[0]
	assert.Equal(t, protocol.InboundMessage{
		PlayerID:  player.ID(),
		Command:   protocol.PlayCard,
		CardIndex: 2,
		Color:     "green",
		CalledOut: true,
	}, got)
	assert.Equal(t, []string{player.ID()}, spy.Left())
}

func TestPlayers(t *testing.T) {
	ghoul, wraith := APlayer("Ghoul"), APlayer("Wraith")
	ps := NewPlayers(ghoul)

	ps = AddPlayer(ps, wraith)
	ps = AddPlayer(ps, wraith)
	utils.AssertEqual(t, len(ps), 2)

	found, ok := ps.Find(wraith.ID())
	utils.AssertTrue(t, ok)
	utils.AssertEqual(t, found.Name(), "Wraith")

	ps = ps.Remove(ghoul.ID())
	_, ok = ps.Find(ghoul.ID())
	assert.False(t, ok)
	utils.AssertEqual(t, len(ps), 1)
}
