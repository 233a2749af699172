package game

import (
	"errors"
	"strings"
	"testing"

	utils "github.com/minaorangina/nocturne/internal"
	"github.com/minaorangina/nocturne/protocol"
	"github.com/stretchr/testify/assert"
)

func TestView(t *testing.T) {
	t.Run("players never see each other's cards", func(t *testing.T) {
		t.Log("Given a started game of three")
		f := newFixture(t, 3)
		msgs, err := f.game.Start("p1")
		utils.AssertNoError(t, err)

		t.Log("Then each message only carries its recipient's hand")
		for _, msg := range msgs {
			encoded, err := msg.Encode()
			utils.AssertNoError(t, err)

			for _, s := range f.game.Seats {
				for _, c := range s.Hand {
					leaked := strings.Contains(string(encoded), c.ID)
					if s.ID == msg.PlayerID {
						assert.True(t, leaked, "own card %s missing", c)
					} else if leaked {
						t.Errorf("%s can see %s's card %s", msg.PlayerID, s.ID, c)
					}
				}
			}
		}
	})

	t.Run("opponents are shown as card counts", func(t *testing.T) {
		f := newFixture(t, 3)
		f.start(t)

		view := f.game.View("p2")

		assert.Equal(t, f.game.Seats[1].Hand, view.Hand)
		assert.Equal(t, []protocol.Opponent{
			{Name: "Ghoul", CardCount: 7, IsTurn: true},
			{Name: "Banshee", CardCount: 7, IsTurn: false},
		}, view.Opponents)
		assert.False(t, view.IsMyTurn)
		assert.Equal(t, "p1", view.CurrentPlayerID)
		assert.Equal(t, "Ghoul", view.CurrentPlayerName)
		assert.Equal(t, f.game.ActiveColor, view.ActiveColor)
		assert.Equal(t, "The night begins...", view.Status)
		assert.NotNil(t, view.TopCard)
	})

	t.Run("the view holds a copy of the hand", func(t *testing.T) {
		f := newFixture(t, 2)
		f.start(t)

		view := f.game.View("p1")
		view.Hand[0].ID = "tampered"

		assert.NotEqual(t, "tampered", f.game.Seats[0].Hand[0].ID)
	})

	t.Run("strangers get an empty hand", func(t *testing.T) {
		f := newFixture(t, 2)
		f.start(t)

		view := f.game.View("ghost")

		assert.NotNil(t, view.Hand)
		assert.Empty(t, view.Hand)
		assert.Len(t, view.Opponents, 2)
	})

	t.Run("a room in the lobby has no top card", func(t *testing.T) {
		f := newFixture(t, 2)

		view := f.game.View("p1")

		assert.Nil(t, view.TopCard)
		assert.False(t, view.GameActive)
		assert.Equal(t, "Waiting for players...", view.Status)
	})
}

func TestLobbyUpdate(t *testing.T) {
	t.Run("empty room", func(t *testing.T) {
		g := New("crypt", Opts{Logger: quietLogger()})

		lobby := g.LobbyUpdate()

		assert.Equal(t, []string{}, lobby.Players)
		assert.Equal(t, "Nobody", lobby.HostName)
		assert.Equal(t, "", lobby.HostID)
		assert.False(t, lobby.CanStart)
	})

	t.Run("room with enough players can start", func(t *testing.T) {
		f := newFixture(t, 2)

		lobby := f.game.LobbyUpdate()

		assert.Equal(t, []string{"Ghoul", "Wraith"}, lobby.Players)
		assert.Equal(t, "p1", lobby.HostID)
		assert.Equal(t, "Ghoul", lobby.HostName)
		assert.True(t, lobby.CanStart)
	})

	t.Run("everyone seated is sent the lobby", func(t *testing.T) {
		f := newFixture(t, 2)

		msgs, err := f.game.AddPlayer("p3", "Banshee")

		utils.AssertNoError(t, err)
		assert.Len(t, msgs, 3)
		for i, msg := range msgs {
			assert.Equal(t, f.game.Seats[i].ID, msg.PlayerID)
			assert.Equal(t, protocol.Lobby, msg.Command)
			assert.Len(t, msg.Lobby.Players, 3)
		}
	})
}

func TestBuildErrorMessage(t *testing.T) {
	msg := BuildErrorMessage("p1", errors.New("boo"))

	assert.Equal(t, protocol.OutboundMessage{PlayerID: "p1", Command: protocol.Error, Message: "boo"}, msg)
}
