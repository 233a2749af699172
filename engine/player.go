package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/nocturne/protocol"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	// Messages queued for a player before they count as too slow to keep up.
	sendBufferSize = 64
)

var (
	ErrPlayerGone = errors.New("player has disconnected")
	ErrSlowPlayer = errors.New("player is not keeping up")
)

// NewID constructs a player ID
func NewID() string {
	return uuid.NewV4().String()
}

// Player is the room's handle on a connected player
type Player interface {
	ID() string
	Name() string
	Send(msg protocol.OutboundMessage) error
	Close()
}

// WSPlayer is a player connected over a websocket
type WSPlayer struct {
	id        string
	name      string
	conn      *websocket.Conn
	sendCh    chan []byte
	done      chan struct{}
	closeOnce sync.Once
	log       *logrus.Entry
}

// NewWSPlayer constructs a player and starts writing to its connection
func NewWSPlayer(id string, ws *websocket.Conn, log *logrus.Entry) *WSPlayer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	player := &WSPlayer{
		id:     id,
		conn:   ws,
		sendCh: make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		log:    log.WithField("player", id),
	}
	go player.writePump()

	return player
}

func (p *WSPlayer) ID() string {
	return p.id
}

func (p *WSPlayer) Name() string {
	return p.name
}

// Send queues a message for the player. A player whose queue is full is disconnected.
func (p *WSPlayer) Send(msg protocol.OutboundMessage) error {
	data, err := msg.Encode()
	if err != nil {
		return err
	}

	select {
	case <-p.done:
		return ErrPlayerGone
	default:
	}

	select {
	case p.sendCh <- data:
		return nil
	default:
		p.Close()
		return ErrSlowPlayer
	}
}

// Close disconnects the player once anything already queued has been written
func (p *WSPlayer) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
	})
}

// AwaitJoin reads until the player asks to join a room.
// Anything else sent before then is ignored.
func (p *WSPlayer) AwaitJoin() (protocol.InboundMessage, error) {
	p.conn.SetReadLimit(maxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			return protocol.InboundMessage{}, err
		}

		msg, err := protocol.DecodeInbound(p.id, data)
		if err != nil {
			p.log.WithError(err).Debug("ignoring malformed message")
			continue
		}
		if msg.Command != protocol.JoinGame {
			p.log.WithField("command", msg.Command.String()).Debug("ignoring message before join")
			continue
		}

		p.name = msg.Name
		return msg, nil
	}
}

// ReadPump forwards the player's messages to the room until the
// connection drops, then gives up the player's seat.
func (p *WSPlayer) ReadPump(ge GameEngine) {
	defer func() {
		ge.Leave(p.id)
		p.Close()
	}()

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.log.WithError(err).Warn("connection lost")
			}
			return
		}

		msg, err := protocol.DecodeInbound(p.id, data)
		if err != nil {
			p.log.WithError(err).Debug("ignoring malformed message")
			continue
		}
		ge.Receive(msg)
	}
}

func (p *WSPlayer) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case msg := <-p.sendCh:
			if err := p.write(websocket.TextMessage, msg); err != nil {
				p.Close()
				return
			}

		case <-ticker.C:
			if err := p.write(websocket.PingMessage, nil); err != nil {
				p.Close()
				return
			}

		case <-p.done:
			p.flush()
			p.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// flush writes whatever is still queued
func (p *WSPlayer) flush() {
	for {
		select {
		case msg := <-p.sendCh:
			if err := p.write(websocket.TextMessage, msg); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (p *WSPlayer) write(messageType int, data []byte) error {
	p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return p.conn.WriteMessage(messageType, data)
}

// Players represents everyone seated in a room
type Players []Player

// NewPlayers returns a set of Players
func NewPlayers(p ...Player) Players {
	return Players(p)
}

// AddPlayer adds a player to a set of Players
func AddPlayer(ps Players, p Player) Players {
	if _, ok := ps.Find(p.ID()); !ok {
		return Players(append(ps, p))
	}
	return ps
}

// Find finds a player by id
func (ps Players) Find(id string) (Player, bool) {
	for _, p := range ps {
		if got := p.ID(); got == id {
			return p, true
		}
	}
	return nil, false
}

// Remove returns the players without the one with the given id
func (ps Players) Remove(id string) Players {
	remaining := NewPlayers()
	for _, p := range ps {
		if p.ID() != id {
			remaining = append(remaining, p)
		}
	}
	return remaining
}
