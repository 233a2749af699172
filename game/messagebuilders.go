package game

import (
	"github.com/minaorangina/nocturne/deck"
	"github.com/minaorangina/nocturne/protocol"
)

// View builds a player's private view of the room.
// Opponents are only ever shown as a card count.
func (g *Game) View(playerID string) protocol.GameState {
	state := protocol.GameState{
		Hand:        []deck.Card{},
		Opponents:   g.buildOpponents(playerID),
		ActiveColor: g.ActiveColor,
		Status:      g.Event.String(),
		Event:       g.Event,
		GameActive:  g.active,
	}

	if idx := g.seatIndex(playerID); idx >= 0 {
		state.Hand = copyCards(g.Seats[idx].Hand)
	}

	if top, ok := g.DiscardPile.Top(); ok {
		state.TopCard = &top
	}

	if current := g.currentSeat(); current != nil {
		state.CurrentPlayerID = current.ID
		state.CurrentPlayerName = current.Name
		state.IsMyTurn = current.ID == playerID
	}

	return state
}

// LobbyUpdate describes the waiting room
func (g *Game) LobbyUpdate() protocol.LobbyUpdate {
	lobby := protocol.LobbyUpdate{
		Players:  []string{},
		HostName: "Nobody",
		CanStart: len(g.Seats) >= minPlayers,
	}
	for _, s := range g.Seats {
		lobby.Players = append(lobby.Players, s.Name)
	}
	if len(g.Seats) > 0 {
		lobby.HostID = g.Seats[0].ID
		lobby.HostName = g.Seats[0].Name
	}

	return lobby
}

func (g *Game) currentSeat() *Seat {
	if g.Turn.Current < 0 || g.Turn.Current >= len(g.Seats) {
		return nil
	}
	return g.Seats[g.Turn.Current]
}

func (g *Game) buildOpponents(playerID string) []protocol.Opponent {
	opponents := []protocol.Opponent{}
	current := g.currentSeat()

	for _, s := range g.Seats {
		if s.ID == playerID {
			continue
		}
		opponents = append(opponents, protocol.Opponent{
			Name:      s.Name,
			CardCount: len(s.Hand),
			IsTurn:    current != nil && current.ID == s.ID,
		})
	}

	return opponents
}

func (g *Game) buildGameStateMessages() []protocol.OutboundMessage {
	msgs := []protocol.OutboundMessage{}
	for _, s := range g.Seats {
		state := g.View(s.ID)
		msgs = append(msgs, protocol.OutboundMessage{
			PlayerID: s.ID,
			Command:  protocol.GameStateUpdate,
			State:    &state,
		})
	}

	return msgs
}

func (g *Game) buildLobbyMessages() []protocol.OutboundMessage {
	msgs := []protocol.OutboundMessage{}
	for _, s := range g.Seats {
		lobby := g.LobbyUpdate()
		msgs = append(msgs, protocol.OutboundMessage{
			PlayerID: s.ID,
			Command:  protocol.Lobby,
			Lobby:    &lobby,
		})
	}

	return msgs
}

func (g *Game) buildPlayerLeftMessages() []protocol.OutboundMessage {
	msgs := []protocol.OutboundMessage{}
	for _, s := range g.Seats {
		msgs = append(msgs, protocol.OutboundMessage{
			PlayerID: s.ID,
			Command:  protocol.PlayerLeft,
			Message:  "A shadow has vanished. The game is over.",
		})
	}

	return msgs
}

// BuildErrorMessage addresses an error to a single player
func BuildErrorMessage(playerID string, err error) protocol.OutboundMessage {
	return protocol.OutboundMessage{
		PlayerID: playerID,
		Command:  protocol.Error,
		Message:  err.Error(),
	}
}
