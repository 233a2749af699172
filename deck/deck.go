package deck

import (
	"math/rand"
)

const (
	wildCopies = 4
	// Size is the number of cards in a full deck
	Size = 108
)

// Deck represents a pile of cards. The top of the pile is the end of the slice.
type Deck []Card

// New creates a full, unshuffled deck of cards
func New() Deck {
	cards := make(Deck, 0, Size)
	for _, color := range Colors {
		for i, value := range ColoredValues {
			cards = append(cards, NewCard(color, value))
			if i != 0 {
				cards = append(cards, NewCard(color, value))
			}
		}
	}
	for i := 0; i < wildCopies; i++ {
		for _, value := range WildValues {
			cards = append(cards, NewCard(Black, value))
		}
	}
	return cards
}

// Shuffle shuffles the deck of cards in place (Fisher-Yates)
func (d *Deck) Shuffle(r *rand.Rand) {
	actualDeck := *d
	for i := len(actualDeck) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		actualDeck[i], actualDeck[j] = actualDeck[j], actualDeck[i]
	}
}

// Deal takes up to n cards from the top of the deck.
// It returns fewer than n cards if the deck runs out.
func (d *Deck) Deal(n int) []Card {
	numCardsInDeck := len(*d)
	if n <= 0 {
		return []Card{}
	}
	if n > numCardsInDeck {
		n = numCardsInDeck
	}
	startingIndex := numCardsInDeck - n
	dealt := make([]Card, n)
	copy(dealt, (*d)[startingIndex:])
	*d = (*d)[:startingIndex]

	// dealt in the order they come off the top
	for i, j := 0, len(dealt)-1; i < j; i, j = i+1, j-1 {
		dealt[i], dealt[j] = dealt[j], dealt[i]
	}
	return dealt
}

// Top returns the top card, if any
func (d Deck) Top() (Card, bool) {
	if len(d) == 0 {
		return Card{}, false
	}
	return d[len(d)-1], true
}
