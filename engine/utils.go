package engine

import (
	"sync"

	"github.com/minaorangina/nocturne/protocol"
)

// SpyEngine is a GameEngine that records what it is asked to do
type SpyEngine struct {
	RoomID   string
	JoinErr  error
	mu       sync.Mutex
	joined   []Player
	received []protocol.InboundMessage
	left     []string
	done     chan struct{}
	once     sync.Once
}

func NewSpyEngine(roomID string) *SpyEngine {
	return &SpyEngine{RoomID: roomID, done: make(chan struct{})}
}

func (e *SpyEngine) ID() string {
	return e.RoomID
}

func (e *SpyEngine) Join(p Player) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.JoinErr != nil {
		return e.JoinErr
	}
	e.joined = append(e.joined, p)
	return nil
}

func (e *SpyEngine) Receive(msg protocol.InboundMessage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.received = append(e.received, msg)
}

func (e *SpyEngine) Leave(playerID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.left = append(e.left, playerID)
}

func (e *SpyEngine) Info() (RoomInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	info := RoomInfo{RoomID: e.RoomID, Status: statusWaiting, Players: []string{}}
	for _, p := range e.joined {
		info.Players = append(info.Players, p.Name())
	}
	return info, nil
}

func (e *SpyEngine) Close() {
	e.once.Do(func() { close(e.done) })
}

func (e *SpyEngine) Done() <-chan struct{} {
	return e.done
}

func (e *SpyEngine) Received() []protocol.InboundMessage {
	e.mu.Lock()
	defer e.mu.Unlock()

	received := make([]protocol.InboundMessage, len(e.received))
	copy(received, e.received)
	return received
}

func (e *SpyEngine) Left() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	left := make([]string, len(e.left))
	copy(left, e.left)
	return left
}
