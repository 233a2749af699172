package engine

import (
	"io"
	"sync"

	"github.com/minaorangina/nocturne/deck"
	"github.com/minaorangina/nocturne/protocol"
)

// BotPlayer plays automatically, always taking the first legal card.
// It is used to simulate games without any connections.
type BotPlayer struct {
	id   string
	name string
	// Narrate prints every state the bot sees
	Narrate bool

	out        io.Writer
	inbox      chan protocol.OutboundMessage
	done       chan struct{}
	finished   chan struct{}
	closeOnce  sync.Once
	finishOnce sync.Once
}

func NewBotPlayer(id, name string, out io.Writer) *BotPlayer {
	return &BotPlayer{
		id:       id,
		name:     name,
		out:      out,
		inbox:    make(chan protocol.OutboundMessage, sendBufferSize),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

func (b *BotPlayer) ID() string {
	return b.id
}

func (b *BotPlayer) Name() string {
	return b.name
}

// Send is called by the room, so the bot reacts on its own goroutine
func (b *BotPlayer) Send(msg protocol.OutboundMessage) error {
	select {
	case <-b.done:
		return ErrPlayerGone
	default:
	}

	select {
	case b.inbox <- msg:
		return nil
	default:
		return ErrSlowPlayer
	}
}

func (b *BotPlayer) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
	})
}

// Finished is closed once the bot has seen the game end
func (b *BotPlayer) Finished() <-chan struct{} {
	return b.finished
}

// Play reacts to the room's messages until the bot is closed
func (b *BotPlayer) Play(ge GameEngine) {
	for {
		select {
		case msg := <-b.inbox:
			b.handle(ge, msg)
		case <-b.done:
			return
		}
	}
}

func (b *BotPlayer) handle(ge GameEngine, msg protocol.OutboundMessage) {
	switch msg.Command {
	case protocol.GameStateUpdate:
		state := *msg.State
		if b.Narrate {
			SendText(b.out, buildStateText(b.name, state))
		}

		if !state.GameActive {
			if state.Event.Kind == protocol.EventWon {
				b.finish()
			}
			return
		}
		if !state.IsMyTurn {
			return
		}
		// our pass is already on its way
		if state.Event.Kind == protocol.EventCannotPlay && state.Event.Player == b.name {
			return
		}
		ge.Receive(b.decide(state))

	case protocol.PlayerLeft, protocol.Error:
		SendText(b.out, "[%s] %s\n", b.name, msg.Message)
		b.finish()
	}
}

func (b *BotPlayer) finish() {
	b.finishOnce.Do(func() {
		close(b.finished)
	})
}

func (b *BotPlayer) decide(state protocol.GameState) protocol.InboundMessage {
	moves := playableCards(state)
	if len(moves) == 0 {
		return protocol.InboundMessage{PlayerID: b.id, Command: protocol.DrawCard}
	}

	// wilds are worth holding on to
	choice := moves[0]
	for _, idx := range moves {
		if !state.Hand[idx].IsWild() {
			choice = idx
			break
		}
	}

	return protocol.InboundMessage{
		PlayerID:  b.id,
		Command:   protocol.PlayCard,
		CardIndex: choice,
		Color:     favouriteColor(state.Hand),
		CalledOut: len(state.Hand) == 2,
	}
}

func playableCards(state protocol.GameState) []int {
	moves := []int{}
	for i, c := range state.Hand {
		switch {
		case c.IsWild(), c.Color == state.ActiveColor:
			moves = append(moves, i)
		case state.TopCard != nil && c.Value == state.TopCard.Value:
			moves = append(moves, i)
		}
	}
	return moves
}

// favouriteColor is the color the hand holds most of
func favouriteColor(hand []deck.Card) deck.Color {
	counts := map[deck.Color]int{}
	for _, c := range hand {
		counts[c.Color]++
	}

	favourite := deck.Red
	for _, color := range deck.Colors {
		if counts[color] > counts[favourite] {
			favourite = color
		}
	}
	return favourite
}
