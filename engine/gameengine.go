package engine

import (
	"errors"
	"fmt"

	"github.com/minaorangina/nocturne/game"
	"github.com/minaorangina/nocturne/protocol"
	"github.com/sirupsen/logrus"
)

var (
	ErrMissingRoomID     = errors.New("missing room ID")
	ErrRoomClosed        = errors.New("room has closed")
	ErrAlreadySeated     = errors.New("already seated in this room")
	ErrUnexpectedCommand = errors.New("unexpected command")
)

const (
	statusWaiting = "waiting"
	statusPlaying = "playing"
)

// GameEngine runs a single room. Every change to the room's game happens
// on the engine's own goroutine, in the order the events arrived.
type GameEngine interface {
	ID() string
	Join(p Player) error
	Receive(msg protocol.InboundMessage)
	Leave(playerID string)
	Info() (RoomInfo, error)
	Close()
	Done() <-chan struct{}
}

// RoomInfo is a public summary of a room
type RoomInfo struct {
	RoomID  string   `json:"room_id"`
	Status  string   `json:"status"`
	Players []string `json:"players"`
}

type GameEngineOpts struct {
	RoomID string
	Game   game.Opts
	// OnClose is called once, from the engine's goroutine, after the room has shut down
	OnClose func(GameEngine)
	Logger  *logrus.Entry
}

type joinRequest struct {
	player Player
	reply  chan error
}

type gameEngine struct {
	id           string
	game         *game.Game
	players      Players
	registerCh   chan joinRequest
	inboundCh    chan protocol.InboundMessage
	unregisterCh chan string
	timerCh      chan int
	infoCh       chan chan RoomInfo
	stopCh       chan struct{}
	done         chan struct{}
	onClose      func(GameEngine)
	log          *logrus.Entry
}

// NewGameEngine constructs a room and starts listening for events
func NewGameEngine(opts GameEngineOpts) (*gameEngine, error) {
	if opts.RoomID == "" {
		return nil, ErrMissingRoomID
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	ge := &gameEngine{
		id:           opts.RoomID,
		players:      NewPlayers(),
		registerCh:   make(chan joinRequest),
		inboundCh:    make(chan protocol.InboundMessage),
		unregisterCh: make(chan string),
		timerCh:      make(chan int),
		infoCh:       make(chan chan RoomInfo),
		stopCh:       make(chan struct{}),
		done:         make(chan struct{}),
		onClose:      opts.OnClose,
		log:          opts.Logger.WithField("room", opts.RoomID),
	}

	gameOpts := opts.Game
	gameOpts.OnTimer = ge.enqueueTimer
	gameOpts.Logger = opts.Logger
	ge.game = game.New(opts.RoomID, gameOpts)

	go ge.Listen()

	ge.log.Info("room created")

	return ge, nil
}

func (ge *gameEngine) ID() string {
	return ge.id
}

func (ge *gameEngine) Done() <-chan struct{} {
	return ge.done
}

// Join seats a player. It waits for the room to accept or refuse them.
func (ge *gameEngine) Join(p Player) error {
	req := joinRequest{player: p, reply: make(chan error, 1)}
	select {
	case ge.registerCh <- req:
	case <-ge.done:
		return ErrRoomClosed
	}

	return <-req.reply
}

// Receive queues an action from a seated player
func (ge *gameEngine) Receive(msg protocol.InboundMessage) {
	select {
	case ge.inboundCh <- msg:
	case <-ge.done:
	}
}

// Leave gives up a player's seat
func (ge *gameEngine) Leave(playerID string) {
	select {
	case ge.unregisterCh <- playerID:
	case <-ge.done:
	}
}

// Info summarises the room
func (ge *gameEngine) Info() (RoomInfo, error) {
	reply := make(chan RoomInfo, 1)
	select {
	case ge.infoCh <- reply:
	case <-ge.done:
		return RoomInfo{}, ErrRoomClosed
	}

	return <-reply, nil
}

// Close shuts the room down and disconnects everyone in it
func (ge *gameEngine) Close() {
	select {
	case ge.stopCh <- struct{}{}:
	case <-ge.done:
	}
}

// enqueueTimer runs on the timer's goroutine
func (ge *gameEngine) enqueueTimer(turnID int) {
	select {
	case ge.timerCh <- turnID:
	case <-ge.done:
	}
}

// Listen handles the room's events one at a time until the room closes
func (ge *gameEngine) Listen() {
	for {
		select {
		case req := <-ge.registerCh:
			req.reply <- ge.handleJoin(req.player)

		case msg := <-ge.inboundCh:
			ge.handleInbound(msg)

		case playerID := <-ge.unregisterCh:
			if closed := ge.handleLeave(playerID); closed {
				ge.shutdown()
				return
			}

		case turnID := <-ge.timerCh:
			msgs, err := ge.game.HandleTimer(turnID)
			if err != nil {
				ge.log.WithError(err).Debug("ignoring timer")
				continue
			}
			ge.messagePlayers(msgs)

		case reply := <-ge.infoCh:
			reply <- ge.info()

		case <-ge.stopCh:
			ge.shutdown()
			return
		}
	}
}

func (ge *gameEngine) handleJoin(p Player) error {
	msgs, err := ge.game.AddPlayer(p.ID(), p.Name())
	if err != nil {
		ge.log.WithField("player", p.ID()).WithError(err).Debug("join refused")
		return err
	}

	ge.players = AddPlayer(ge.players, p)
	ge.messagePlayers(msgs)

	return nil
}

func (ge *gameEngine) handleInbound(msg protocol.InboundMessage) {
	var (
		msgs []protocol.OutboundMessage
		err  error
	)

	switch msg.Command {
	case protocol.StartGame:
		msgs, err = ge.game.Start(msg.PlayerID)
	case protocol.PlayCard:
		msgs, err = ge.game.Play(msg.PlayerID, msg.CardIndex, msg.Color, msg.CalledOut)
	case protocol.DrawCard:
		msgs, err = ge.game.Draw(msg.PlayerID)
	case protocol.JoinGame:
		err = ErrAlreadySeated
	default:
		err = fmt.Errorf("%w: %s", ErrUnexpectedCommand, msg.Command)
	}

	if err != nil {
		ge.log.WithFields(logrus.Fields{
			"player":  msg.PlayerID,
			"command": msg.Command.String(),
		}).WithError(err).Debug("action rejected")
		return
	}

	ge.messagePlayers(msgs)
}

// handleLeave reports whether the room should shut down
func (ge *gameEngine) handleLeave(playerID string) bool {
	p, ok := ge.players.Find(playerID)
	if !ok {
		return false
	}
	ge.players = ge.players.Remove(playerID)
	p.Close()

	msgs, closed, err := ge.game.RemovePlayer(playerID)
	if err != nil {
		ge.log.WithField("player", playerID).WithError(err).Warn("could not remove player")
		return false
	}
	ge.messagePlayers(msgs)

	return closed
}

func (ge *gameEngine) shutdown() {
	ge.game.Close()

	for _, p := range ge.players {
		p.Close()
	}
	ge.players = NewPlayers()
	close(ge.done)

	ge.log.Info("room closed")

	if ge.onClose != nil {
		ge.onClose(ge)
	}
}

func (ge *gameEngine) info() RoomInfo {
	info := RoomInfo{
		RoomID:  ge.id,
		Status:  statusWaiting,
		Players: []string{},
	}
	if ge.game.Active() {
		info.Status = statusPlaying
	}
	for _, p := range ge.game.Players() {
		info.Players = append(info.Players, p.Name)
	}

	return info
}

// messagePlayers delivers each message to the player it is addressed to
func (ge *gameEngine) messagePlayers(msgs []protocol.OutboundMessage) {
	for _, m := range msgs {
		p, ok := ge.players.Find(m.PlayerID)
		if !ok {
			continue
		}
		if err := p.Send(m); err != nil {
			ge.log.WithField("player", m.PlayerID).WithError(err).Warn("could not send message")
		}
	}
}
