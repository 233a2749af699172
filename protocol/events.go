package protocol

import "fmt"

// EventKind names what the latest transition in a room did
type EventKind string

const (
	EventWaiting      EventKind = "waiting"
	EventGameStarted  EventKind = "game_started"
	EventCardPlayed   EventKind = "card_played"
	EventSkip         EventKind = "skip"
	EventReverse      EventKind = "reverse"
	EventDrawTwo      EventKind = "draw_two"
	EventDrawFour     EventKind = "draw_four"
	EventDrew         EventKind = "drew"
	EventCannotPlay   EventKind = "cannot_play"
	EventTimedOut     EventKind = "timed_out"
	EventForgotToCall EventKind = "forgot_to_call"
	EventWon          EventKind = "won"
)

// Event is the structured outcome of a transition.
// Player is who acted, Target is who it was done to.
// Penalty counts the cards Player drew for not calling their last card
// when the card they played had an effect of its own.
type Event struct {
	Kind    EventKind `json:"kind"`
	Player  string    `json:"player,omitempty"`
	Target  string    `json:"target,omitempty"`
	Count   int       `json:"count,omitempty"`
	Penalty int       `json:"penalty,omitempty"`
}

// String renders the status line shown to players
func (e Event) String() string {
	status := e.headline()
	if e.Penalty > 0 {
		status += " " + Event{Kind: EventForgotToCall, Player: e.Player, Count: e.Penalty}.headline()
	}
	return status
}

func (e Event) headline() string {
	switch e.Kind {
	case EventWaiting:
		return "Waiting for players..."
	case EventGameStarted:
		return "The night begins..."
	case EventCardPlayed:
		return fmt.Sprintf("%s plays a card.", e.Player)
	case EventSkip:
		return fmt.Sprintf("%s scares %s out of a turn!", e.Player, e.Target)
	case EventReverse:
		return "The ritual turns the circle around..."
	case EventDrawTwo:
		return fmt.Sprintf("%s pays in blood (+%d)", e.Target, e.Count)
	case EventDrawFour:
		return fmt.Sprintf("%s enters a dark pact (+%d)", e.Target, e.Count)
	case EventDrew:
		return fmt.Sprintf("%s drew a card...", e.Player)
	case EventCannotPlay:
		return fmt.Sprintf("%s cannot play.", e.Player)
	case EventTimedOut:
		return fmt.Sprintf("%s fell asleep! (time ran out)", e.Player)
	case EventForgotToCall:
		return fmt.Sprintf("%s forgot to call their last card (+%d)", e.Player, e.Count)
	case EventWon:
		return fmt.Sprintf("%s has been released!", e.Player)
	}
	return ""
}
