package store

import (
	"errors"
	"sort"
	"sync"

	"github.com/minaorangina/nocturne/engine"
)

var ErrMissingRoomID = errors.New("missing room ID")

// RoomStore keeps track of the rooms that are open
type RoomStore interface {
	Join(roomID string, p engine.Player) (engine.GameEngine, error)
	FindRoom(roomID string) engine.GameEngine
	Rooms() []string
	Remove(room engine.GameEngine)
	Close()
}

// NewRoomFunc opens a room. The room must call onClose when it shuts down.
type NewRoomFunc func(roomID string, onClose func(engine.GameEngine)) (engine.GameEngine, error)

// RoomFactory opens rooms backed by a GameEngine
func RoomFactory(opts engine.GameEngineOpts) NewRoomFunc {
	return func(roomID string, onClose func(engine.GameEngine)) (engine.GameEngine, error) {
		roomOpts := opts
		roomOpts.RoomID = roomID
		roomOpts.OnClose = onClose

		ge, err := engine.NewGameEngine(roomOpts)
		if err != nil {
			return nil, err
		}
		return ge, nil
	}
}

// InMemoryRoomStore maps room ID to game engine
type InMemoryRoomStore struct {
	mu      sync.RWMutex
	rooms   map[string]engine.GameEngine
	newRoom NewRoomFunc
}

// NewInMemoryRoomStore constructs an InMemoryRoomStore
func NewInMemoryRoomStore(newRoom NewRoomFunc) *InMemoryRoomStore {
	return &InMemoryRoomStore{
		rooms:   map[string]engine.GameEngine{},
		newRoom: newRoom,
	}
}

// Join seats a player in a room, opening the room if it does not exist yet
func (s *InMemoryRoomStore) Join(roomID string, p engine.Player) (engine.GameEngine, error) {
	if roomID == "" {
		return nil, ErrMissingRoomID
	}

	for attempt := 0; attempt < 2; attempt++ {
		room, err := s.findOrCreate(roomID)
		if err != nil {
			return nil, err
		}

		err = room.Join(p)
		if errors.Is(err, engine.ErrRoomClosed) {
			// the room shut down as the player arrived
			s.Remove(room)
			continue
		}
		if err != nil {
			return nil, err
		}

		return room, nil
	}

	return nil, engine.ErrRoomClosed
}

func (s *InMemoryRoomStore) findOrCreate(roomID string) (engine.GameEngine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if room, ok := s.rooms[roomID]; ok {
		return room, nil
	}

	room, err := s.newRoom(roomID, s.Remove)
	if err != nil {
		return nil, err
	}
	s.rooms[roomID] = room

	return room, nil
}

func (s *InMemoryRoomStore) FindRoom(roomID string) engine.GameEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	return room
}

// Rooms lists the open rooms
func (s *InMemoryRoomStore) Rooms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// Remove forgets a room. A newer room that has since taken the same ID is left alone.
func (s *InMemoryRoomStore) Remove(room engine.GameEngine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.rooms[room.ID()]; ok && current == room {
		delete(s.rooms, room.ID())
	}
}

// Close shuts every room down
func (s *InMemoryRoomStore) Close() {
	s.mu.RLock()
	rooms := make([]engine.GameEngine, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	s.mu.RUnlock()

	for _, room := range rooms {
		room.Close()
		s.Remove(room)
	}
}
