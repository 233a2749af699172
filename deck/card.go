package deck

import (
	"fmt"

	uuid "github.com/satori/go.uuid"
)

// Color represents the color of a card
type Color string

const (
	Red    Color = "red"
	Blue   Color = "blue"
	Green  Color = "green"
	Yellow Color = "yellow"
	// Black is the color of wild cards until a color is chosen
	Black Color = "black"
)

// Colors are the playable colors, in deck order
var Colors = []Color{Red, Blue, Green, Yellow}

// Valid reports whether c can be an active color
func (c Color) Valid() bool {
	for _, playable := range Colors {
		if c == playable {
			return true
		}
	}
	return false
}

// Value represents the face value of a card
type Value string

const (
	Zero  Value = "0"
	One   Value = "1"
	Two   Value = "2"
	Three Value = "3"
	Four  Value = "4"
	Five  Value = "5"
	Six   Value = "6"
	Seven Value = "7"
	Eight Value = "8"
	Nine  Value = "9"

	// JumpScare skips the next player
	JumpScare Value = "jump-scare"
	// Ritual reverses the direction of play
	Ritual Value = "ritual"
	// BloodPact makes the next player draw two and lose their turn
	BloodPact Value = "blood-pact"

	// Choice is a wild card
	Choice Value = "choice"
	// DarkPact is a wild card that makes the next player draw four and lose their turn
	DarkPact Value = "dark-pact"
)

// ColoredValues are the values printed once per color.
// The first value gets a single copy, the rest get two.
var ColoredValues = []Value{
	Zero, One, Two, Three, Four, Five, Six, Seven, Eight, Nine,
	JumpScare, Ritual, BloodPact,
}

// WildValues are the values printed on black cards
var WildValues = []Value{Choice, DarkPact}

// Card is a single playing card.
// Cards with the same color and value are told apart by ID.
type Card struct {
	ID    string `json:"id"`
	Color Color  `json:"color"`
	Value Value  `json:"value"`
}

// NewCard constructs a card with a fresh ID
func NewCard(color Color, value Value) Card {
	return Card{ID: uuid.NewV4().String(), Color: color, Value: value}
}

// IsWild reports whether the card has no inherent color
func (c Card) IsWild() bool {
	return c.Color == Black
}

func (c Card) String() string {
	if c.IsWild() {
		return fmt.Sprintf("wild %s", c.Value)
	}
	return fmt.Sprintf("%s %s", c.Color, c.Value)
}
