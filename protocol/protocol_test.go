package protocol

import (
	"encoding/json"
	"testing"

	"github.com/minaorangina/nocturne/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInbound(t *testing.T) {
	t.Run("play card with a chosen color", func(t *testing.T) {
		raw := []byte(`{"type":"playCard","payload":{"cardIndex":3,"color":"green","calledOut":true}}`)

		msg, err := DecodeInbound("p1", raw)
		require.NoError(t, err)

		assert.Equal(t, InboundMessage{
			PlayerID:  "p1",
			Command:   PlayCard,
			CardIndex: 3,
			Color:     deck.Green,
			CalledOut: true,
		}, msg)
	})

	t.Run("join game", func(t *testing.T) {
		raw := []byte(`{"type":"joinGame","payload":{"name":"Vlad","roomId":"crypt"}}`)

		msg, err := DecodeInbound("p2", raw)
		require.NoError(t, err)
		assert.Equal(t, JoinGame, msg.Command)
		assert.Equal(t, "Vlad", msg.Name)
		assert.Equal(t, "crypt", msg.RoomID)
	})

	t.Run("commands without a payload", func(t *testing.T) {
		msg, err := DecodeInbound("p1", []byte(`{"type":"drawCard"}`))
		require.NoError(t, err)
		assert.Equal(t, DrawCard, msg.Command)
	})

	t.Run("rejects unknown and outbound commands", func(t *testing.T) {
		_, err := DecodeInbound("p1", []byte(`{"type":"summon"}`))
		assert.Error(t, err)

		_, err = DecodeInbound("p1", []byte(`{"type":"gameState"}`))
		assert.Error(t, err)

		_, err = DecodeInbound("p1", []byte(`not json`))
		assert.Error(t, err)
	})
}

func TestOutboundEncode(t *testing.T) {
	t.Run("game state", func(t *testing.T) {
		msg := OutboundMessage{
			PlayerID: "p1",
			Command:  GameStateUpdate,
			State: &GameState{
				ActiveColor: deck.Red,
				Event:       Event{Kind: EventGameStarted},
				Status:      Event{Kind: EventGameStarted}.String(),
				GameActive:  true,
			},
		}

		data, err := msg.Encode()
		require.NoError(t, err)

		var env struct {
			Type    string                 `json:"type"`
			Payload map[string]interface{} `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(data, &env))
		assert.Equal(t, "gameState", env.Type)
		assert.Equal(t, "red", env.Payload["activeColor"])
		assert.Equal(t, true, env.Payload["gameActive"])
	})

	t.Run("notices carry a message", func(t *testing.T) {
		data, err := OutboundMessage{Command: PlayerLeft, Message: "gone"}.Encode()
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"playerLeft","payload":{"message":"gone"}}`, string(data))
	})

	t.Run("inbound commands cannot be sent", func(t *testing.T) {
		_, err := OutboundMessage{Command: DrawCard}.Encode()
		assert.Error(t, err)
	})
}

func TestEventStatus(t *testing.T) {
	assert.Equal(t, "Mina has been released!", Event{Kind: EventWon, Player: "Mina"}.String())
	assert.Equal(t, "Igor enters a dark pact (+4)", Event{Kind: EventDrawFour, Target: "Igor", Count: 4}.String())
	assert.Equal(t, "", Event{}.String())
	assert.Equal(t,
		"Igor pays in blood (+2) Mina forgot to call their last card (+2)",
		Event{Kind: EventDrawTwo, Player: "Mina", Target: "Igor", Count: 2, Penalty: 2}.String(),
	)
}
