package engine

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/minaorangina/nocturne/deck"
	"github.com/minaorangina/nocturne/protocol"
)

func SendText(w io.Writer, text string, a ...interface{}) {
	fmt.Fprintf(w, text, a...)
}

// buildStateText describes a game state from one player's seat
func buildStateText(name string, state protocol.GameState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s\n", name, state.Status)
	if !state.GameActive {
		return b.String()
	}

	top := "nothing"
	if state.TopCard != nil {
		top = state.TopCard.String()
	}
	fmt.Fprintf(&b, "  on the pile: %s (%s is active)\n", top, state.ActiveColor)

	counts := []string{}
	for _, o := range state.Opponents {
		counts = append(counts, fmt.Sprintf("%s has %d", o.Name, o.CardCount))
	}
	fmt.Fprintf(&b, "  %s\n", strings.Join(counts, ", "))
	fmt.Fprintf(&b, "  hand: %s\n", buildHandText(state.Hand))

	return b.String()
}

func buildHandText(hand []deck.Card) string {
	cards := []string{}
	for _, c := range hand {
		cards = append(cards, c.String())
	}
	return strings.Join(cards, ", ")
}

// TestBuffer is an io.ReadWriter that is safe to share between goroutines
type TestBuffer struct {
	buf bytes.Buffer
	m   sync.Mutex
}

func NewTestBuffer() *TestBuffer {
	return &TestBuffer{}
}

func (tb *TestBuffer) Read(p []byte) (int, error) {
	tb.m.Lock()
	defer tb.m.Unlock()
	return tb.buf.Read(p)
}

func (tb *TestBuffer) Write(p []byte) (int, error) {
	tb.m.Lock()
	defer tb.m.Unlock()
	return tb.buf.Write(p)
}

func (tb *TestBuffer) String() string {
	tb.m.Lock()
	defer tb.m.Unlock()
	return tb.buf.String()
}
