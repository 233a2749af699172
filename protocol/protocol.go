package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/minaorangina/nocturne/deck"
)

// PlayerInfo identifies a player
type PlayerInfo struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

// InboundMessage is a message from Player to GameEngine
type InboundMessage struct {
	PlayerID  string     `json:"-"`
	Command   Cmd        `json:"-"`
	Name      string     `json:"name,omitempty"`
	RoomID    string     `json:"roomId,omitempty"`
	CardIndex int        `json:"cardIndex"`
	Color     deck.Color `json:"color,omitempty"`
	CalledOut bool       `json:"calledOut,omitempty"`
}

// OutboundMessage is a message from GameEngine to a single Player
type OutboundMessage struct {
	PlayerID string       `json:"-"`
	Command  Cmd          `json:"-"`
	State    *GameState   `json:"-"`
	Lobby    *LobbyUpdate `json:"-"`
	Message  string       `json:"-"`
}

// Opponent is what a player gets to know about another player
type Opponent struct {
	Name      string `json:"name"`
	CardCount int    `json:"cardCount"`
	IsTurn    bool   `json:"isTurn"`
}

// GameState is a player's private view of a room
type GameState struct {
	Hand              []deck.Card `json:"hand"`
	Opponents         []Opponent  `json:"opponents"`
	TopCard           *deck.Card  `json:"topCard"`
	ActiveColor       deck.Color  `json:"activeColor"`
	IsMyTurn          bool        `json:"isMyTurn"`
	CurrentPlayerID   string      `json:"currentPlayerId"`
	CurrentPlayerName string      `json:"currentPlayerName"`
	Status            string      `json:"status"`
	Event             Event       `json:"event"`
	GameActive        bool        `json:"gameActive"`
}

// LobbyUpdate describes who is waiting in a room
type LobbyUpdate struct {
	Players  []string `json:"players"`
	HostID   string   `json:"hostId"`
	HostName string   `json:"hostName"`
	CanStart bool     `json:"canStart"`
}

// Notice carries a human readable reason
type Notice struct {
	Message string `json:"message"`
}

type Cmd int

const (
	Null Cmd = iota
	// inbound
	JoinGame
	StartGame
	PlayCard
	DrawCard
	// outbound
	GameStateUpdate
	Lobby
	PlayerLeft
	Error
)

var CmdNames = map[Cmd]string{
	Null:            "null",
	JoinGame:        "joinGame",
	StartGame:       "startGame",
	PlayCard:        "playCard",
	DrawCard:        "drawCard",
	GameStateUpdate: "gameState",
	Lobby:           "lobbyUpdate",
	PlayerLeft:      "playerLeft",
	Error:           "error",
}

var NameToCmd = map[string]Cmd{
	"null":        Null,
	"joinGame":    JoinGame,
	"startGame":   StartGame,
	"playCard":    PlayCard,
	"drawCard":    DrawCard,
	"gameState":   GameStateUpdate,
	"lobbyUpdate": Lobby,
	"playerLeft":  PlayerLeft,
	"error":       Error,
}

func (c Cmd) String() string {
	return CmdNames[c]
}

func (c Cmd) MarshalJSON() ([]byte, error) {
	name, ok := CmdNames[c]
	if !ok {
		return nil, fmt.Errorf("unknown command %d", int(c))
	}
	return json.Marshal(name)
}

func (c *Cmd) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	cmd, ok := NameToCmd[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	*c = cmd
	return nil
}

// Envelope is the wire format of every websocket message
type Envelope struct {
	Type    Cmd             `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DecodeInbound parses a raw websocket message from a player
func DecodeInbound(playerID string, data []byte) (InboundMessage, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return InboundMessage{}, fmt.Errorf("could not decode message: %w", err)
	}

	switch env.Type {
	case JoinGame, StartGame, PlayCard, DrawCard:
	default:
		return InboundMessage{}, fmt.Errorf("unexpected inbound command %s", env.Type)
	}

	msg := InboundMessage{}
	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			return InboundMessage{}, fmt.Errorf("could not decode %s payload: %w", env.Type, err)
		}
	}
	msg.PlayerID = playerID
	msg.Command = env.Type

	return msg, nil
}

// Encode converts an OutboundMessage into its wire format
func (m OutboundMessage) Encode() ([]byte, error) {
	var payload interface{}
	switch m.Command {
	case GameStateUpdate:
		payload = m.State
	case Lobby:
		payload = m.Lobby
	case PlayerLeft, Error:
		payload = Notice{Message: m.Message}
	default:
		return nil, fmt.Errorf("unexpected outbound command %s", m.Command)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("could not encode %s payload: %w", m.Command, err)
	}

	return json.Marshal(Envelope{Type: m.Command, Payload: raw})
}
