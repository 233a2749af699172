package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCard(t *testing.T) {
	cases := []struct {
		name     string
		card     Card
		expected string
	}{
		{"Numbered card", Card{Color: Red, Value: Seven}, "red 7"},
		{"Action card", Card{Color: Green, Value: Ritual}, "green ritual"},
		{"Wild card", Card{Color: Black, Value: DarkPact}, "wild dark-pact"},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, c.card.String(), c.name)
	}

	t.Run("only black cards are wild", func(t *testing.T) {
		assert.True(t, NewCard(Black, Choice).IsWild())
		assert.False(t, NewCard(Yellow, JumpScare).IsWild())
	})

	t.Run("identical cards get different ids", func(t *testing.T) {
		a, b := NewCard(Blue, Two), NewCard(Blue, Two)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("black is not a playable color", func(t *testing.T) {
		assert.True(t, Red.Valid())
		assert.False(t, Black.Valid())
		assert.False(t, Color("purple").Valid())
	})
}
