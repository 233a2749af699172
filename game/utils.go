package game

import (
	"github.com/minaorangina/nocturne/deck"
)

// legalMoves returns the indices of the cards that can be played
func legalMoves(hand []deck.Card, isLegal func(deck.Card) bool) []int {
	moves := []int{}
	for i, c := range hand {
		if isLegal(c) {
			moves = append(moves, i)
		}
	}
	return moves
}

// LegalMoves returns the indices of the cards in the player's hand
// that could be played right now
func (g *Game) LegalMoves(playerID string) []int {
	idx := g.seatIndex(playerID)
	if idx < 0 || !g.active {
		return []int{}
	}
	return legalMoves(g.Seats[idx].Hand, g.isLegal)
}

// removeCard removes the card at idx without disturbing the order of the rest
func removeCard(cards []deck.Card, idx int) []deck.Card {
	remaining := make([]deck.Card, 0, len(cards)-1)
	remaining = append(remaining, cards[:idx]...)
	return append(remaining, cards[idx+1:]...)
}

func copyCards(cards []deck.Card) []deck.Card {
	c := make([]deck.Card, len(cards))
	copy(c, cards)
	return c
}
