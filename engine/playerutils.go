package engine

import (
	"sync"

	"github.com/minaorangina/nocturne/protocol"
)

// TestPlayer is a Player that records what it is sent
type TestPlayer struct {
	id       string
	name     string
	mu       sync.Mutex
	received []protocol.OutboundMessage
	closed   bool
	inbox    chan protocol.OutboundMessage
}

func NewTestPlayer(id, name string) *TestPlayer {
	return &TestPlayer{
		id:    id,
		name:  name,
		inbox: make(chan protocol.OutboundMessage, 256),
	}
}

func (tp *TestPlayer) ID() string {
	return tp.id
}

func (tp *TestPlayer) Name() string {
	return tp.name
}

func (tp *TestPlayer) Send(msg protocol.OutboundMessage) error {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	if tp.closed {
		return ErrPlayerGone
	}
	tp.received = append(tp.received, msg)

	select {
	case tp.inbox <- msg:
	default:
	}
	return nil
}

func (tp *TestPlayer) Close() {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	tp.closed = true
}

// Inbox delivers messages in the order they were sent
func (tp *TestPlayer) Inbox() <-chan protocol.OutboundMessage {
	return tp.inbox
}

func (tp *TestPlayer) Received() []protocol.OutboundMessage {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	received := make([]protocol.OutboundMessage, len(tp.received))
	copy(received, tp.received)
	return received
}

func (tp *TestPlayer) Closed() bool {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	return tp.closed
}

// APlayer returns a TestPlayer with a fresh ID
func APlayer(name string) *TestPlayer {
	return NewTestPlayer(NewID(), name)
}
