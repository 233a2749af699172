package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/minaorangina/nocturne/deck"
	"github.com/minaorangina/nocturne/protocol"
	"github.com/sirupsen/logrus"
)

var (
	ErrTooFewPlayers  = errors.New("minimum of 2 players required")
	ErrRoomFull       = errors.New("room is full")
	ErrGameInProgress = errors.New("game is already in progress")
	ErrGameNotActive  = errors.New("game is not active")
	ErrNotHost        = errors.New("only the host can start the game")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrUnknownPlayer  = errors.New("unknown player")
	ErrInvalidCard    = errors.New("no such card in hand")
	ErrIllegalMove    = errors.New("illegal move")
	ErrAwaitingPass   = errors.New("turn is about to pass")
	ErrStaleTimer     = errors.New("timer belongs to a finished turn")
	ErrNoOpeningCard  = errors.New("no card left to open the pile with")
)

const (
	minPlayers          = 2
	handSize            = 7
	forgotToCallPenalty = 2
	drawTwo             = 2
	drawFour            = 4

	DefaultMaxSeats    = 5
	// MaxSeatsLimit is the most seats a room can have
	MaxSeatsLimit = DefaultMaxSeats
	DefaultTurnTimeout = 60 * time.Second
	DefaultPassDelay   = 1500 * time.Millisecond

	// FallbackColor is used when a wild card is played without a valid color
	FallbackColor = deck.Red
)

// Opts configures a Game
type Opts struct {
	// Rand belongs to one game. Leave it nil for a time-seeded source.
	Rand      *rand.Rand
	AfterFunc AfterFunc
	// OnTimer is called from the timer's goroutine with the turn the
	// timer was armed for. It must hand the turn ID back to HandleTimer
	// on the goroutine that owns the Game.
	OnTimer func(turnID int)
	// TurnTimeout of zero disables the turn timer
	TurnTimeout time.Duration
	// PassDelay of zero passes the turn straight away
	PassDelay time.Duration
	MaxSeats  int
	Logger    *logrus.Entry
}

// DefaultOpts returns the standard room settings
func DefaultOpts() Opts {
	return Opts{
		TurnTimeout: DefaultTurnTimeout,
		PassDelay:   DefaultPassDelay,
		MaxSeats:    DefaultMaxSeats,
	}
}

// Seat is a player's place at the table
type Seat struct {
	ID   string
	Name string
	Hand []deck.Card
}

// Game is the state of a single room. It is not safe for concurrent use:
// every method must be called from the goroutine that owns the room.
type Game struct {
	ID          string
	Seats       []*Seat
	DrawPile    deck.Deck
	DiscardPile deck.Deck
	Turn        TurnSequencer
	ActiveColor deck.Color
	Event       protocol.Event
	// TurnID changes every time the turn moves
	TurnID int

	active      bool
	pendingPass bool
	stopTimer   func() bool
	rand        *rand.Rand
	opts        Opts
	log         *logrus.Entry
}

// New constructs an empty room
func New(id string, opts Opts) *Game {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = clockAfterFunc
	}
	if opts.MaxSeats <= 0 {
		opts.MaxSeats = DefaultMaxSeats
	}
	if opts.MaxSeats > MaxSeatsLimit {
		opts.MaxSeats = MaxSeatsLimit
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Game{
		ID:          id,
		Seats:       []*Seat{},
		DrawPile:    deck.Deck{},
		DiscardPile: deck.Deck{},
		Turn:        NewTurnSequencer(),
		Event:       protocol.Event{Kind: protocol.EventWaiting},
		rand:        opts.Rand,
		opts:        opts,
		log:         opts.Logger.WithField("room", id),
	}
}

// Active reports whether a game is being played
func (g *Game) Active() bool {
	return g.active
}

// HostID returns the ID of the player in seat 0
func (g *Game) HostID() string {
	if len(g.Seats) == 0 {
		return ""
	}
	return g.Seats[0].ID
}

// Players lists who is seated, in seat order
func (g *Game) Players() []protocol.PlayerInfo {
	info := make([]protocol.PlayerInfo, 0, len(g.Seats))
	for _, s := range g.Seats {
		info = append(info, protocol.PlayerInfo{PlayerID: s.ID, Name: s.Name})
	}
	return info
}

// Close cancels any pending timer
func (g *Game) Close() {
	g.cancelTimer()
}

// AddPlayer seats a player. Joining twice just resends the lobby.
func (g *Game) AddPlayer(id, name string) ([]protocol.OutboundMessage, error) {
	if g.seatIndex(id) >= 0 {
		return g.buildLobbyMessages(), nil
	}
	if g.active {
		return nil, ErrGameInProgress
	}
	if len(g.Seats) >= g.opts.MaxSeats {
		return nil, ErrRoomFull
	}

	if name == "" {
		name = fmt.Sprintf("Shadow %d", len(g.Seats)+1)
	}
	g.Seats = append(g.Seats, &Seat{ID: id, Name: name, Hand: []deck.Card{}})
	g.log.WithField("player", id).Debugf("%s joined", name)

	return g.buildLobbyMessages(), nil
}

// RemovePlayer takes a player's seat away. It reports whether
// the room is finished with: either nobody is left, or a game was interrupted.
func (g *Game) RemovePlayer(id string) ([]protocol.OutboundMessage, bool, error) {
	idx := g.seatIndex(id)
	if idx < 0 {
		return nil, false, ErrUnknownPlayer
	}

	g.Seats = append(g.Seats[:idx], g.Seats[idx+1:]...)

	if len(g.Seats) == 0 {
		g.active = false
		g.Close()
		return nil, true, nil
	}

	if g.active {
		g.active = false
		g.pendingPass = false
		g.Close()
		g.log.WithField("player", id).Info("player left mid-game, room closing")
		return g.buildPlayerLeftMessages(), true, nil
	}

	return g.buildLobbyMessages(), false, nil
}

// Start deals a new game. Only the host can start, and only with enough players.
func (g *Game) Start(actorID string) ([]protocol.OutboundMessage, error) {
	if g.active {
		return nil, ErrGameInProgress
	}
	if g.HostID() != actorID {
		return nil, ErrNotHost
	}
	if len(g.Seats) < minPlayers {
		return nil, ErrTooFewPlayers
	}

	pile := deck.New()
	pile.Shuffle(g.rand)

	// initial card deal
	hands := make([][]deck.Card, len(g.Seats))
	for i := range g.Seats {
		hands[i] = pile.Deal(handSize)
	}

	first, err := openingCard(&pile, g.rand)
	if err != nil {
		return nil, err
	}

	for i, s := range g.Seats {
		s.Hand = hands[i]
	}
	g.DrawPile = pile
	g.DiscardPile = deck.Deck{first}
	g.ActiveColor = first.Color

	g.Turn = NewTurnSequencer()
	g.active = true
	g.pendingPass = false
	g.Event = protocol.Event{Kind: protocol.EventGameStarted}
	g.TurnID++
	g.armTimer(g.opts.TurnTimeout)

	g.log.WithField("players", len(g.Seats)).Info("game started")

	return g.buildGameStateMessages(), nil
}

// openingCard turns over the first card of the discard pile. It may not be
// wild, so wilds go back into the pile and the pile is reshuffled.
func openingCard(pile *deck.Deck, r *rand.Rand) (deck.Card, error) {
	hasNonWild := false
	for _, c := range *pile {
		if !c.IsWild() {
			hasNonWild = true
			break
		}
	}
	if !hasNonWild {
		return deck.Card{}, ErrNoOpeningCard
	}

	for {
		first := pile.Deal(1)[0]
		if !first.IsWild() {
			return first, nil
		}
		*pile = append(*pile, first)
		pile.Shuffle(r)
	}
}

// Play puts a card from the actor's hand on the discard pile and resolves it.
// chosenColor only matters for wild cards; calledOut is the player announcing
// their last card.
func (g *Game) Play(actorID string, cardIndex int, chosenColor deck.Color, calledOut bool) ([]protocol.OutboundMessage, error) {
	seatIdx, err := g.checkTurn(actorID)
	if err != nil {
		return nil, err
	}

	seat := g.Seats[seatIdx]
	if cardIndex < 0 || cardIndex >= len(seat.Hand) {
		return nil, ErrInvalidCard
	}

	card := seat.Hand[cardIndex]
	if !g.isLegal(card) {
		return nil, ErrIllegalMove
	}

	seat.Hand = removeCard(seat.Hand, cardIndex)
	g.DiscardPile = append(g.DiscardPile, card)

	if card.IsWild() {
		if chosenColor.Valid() {
			g.ActiveColor = chosenColor
		} else {
			g.ActiveColor = FallbackColor
		}
	} else {
		g.ActiveColor = card.Color
	}

	if len(seat.Hand) == 0 {
		g.active = false
		g.Close()
		g.Event = protocol.Event{Kind: protocol.EventWon, Player: seat.Name}
		g.log.WithField("player", seat.ID).Infof("%s won", seat.Name)
		return g.buildGameStateMessages(), nil
	}

	numPlayers := len(g.Seats)
	skip := false

	switch card.Value {
	case deck.JumpScare:
		skip = true
		target := g.Seats[g.Turn.Peek(numPlayers)]
		g.Event = protocol.Event{Kind: protocol.EventSkip, Player: seat.Name, Target: target.Name}

	case deck.Ritual:
		skip = g.Turn.Reverse(numPlayers)
		g.Event = protocol.Event{Kind: protocol.EventReverse, Player: seat.Name}

	case deck.BloodPact:
		skip = true
		victim, drawn := g.punishNext(drawTwo)
		g.Event = protocol.Event{Kind: protocol.EventDrawTwo, Player: seat.Name, Target: victim.Name, Count: drawn}

	case deck.DarkPact:
		skip = true
		victim, drawn := g.punishNext(drawFour)
		g.Event = protocol.Event{Kind: protocol.EventDrawFour, Player: seat.Name, Target: victim.Name, Count: drawn}

	default:
		g.Event = protocol.Event{Kind: protocol.EventCardPlayed, Player: seat.Name}
	}

	g.advance(skip)

	if len(seat.Hand) == 1 && !calledOut {
		penalty := g.drawCards(forgotToCallPenalty)
		seat.Hand = append(seat.Hand, penalty...)
		if g.Event.Kind == protocol.EventCardPlayed {
			g.Event = protocol.Event{Kind: protocol.EventForgotToCall, Player: seat.Name, Count: len(penalty)}
		} else {
			// the card's effect stays the headline
			g.Event.Penalty = len(penalty)
		}
	}

	return g.buildGameStateMessages(), nil
}

// Draw gives the actor one card. If they still cannot play, the turn
// passes once PassDelay has elapsed.
func (g *Game) Draw(actorID string) ([]protocol.OutboundMessage, error) {
	seatIdx, err := g.checkTurn(actorID)
	if err != nil {
		return nil, err
	}

	seat := g.Seats[seatIdx]
	seat.Hand = append(seat.Hand, g.drawCards(1)...)

	if g.hasLegalMove(seat.Hand) {
		g.Event = protocol.Event{Kind: protocol.EventDrew, Player: seat.Name}
		return g.buildGameStateMessages(), nil
	}

	g.Event = protocol.Event{Kind: protocol.EventCannotPlay, Player: seat.Name}

	// nothing would ever fire the pass without a timer
	if g.opts.PassDelay <= 0 || g.opts.OnTimer == nil {
		g.advance(false)
		return g.buildGameStateMessages(), nil
	}

	g.pendingPass = true
	g.armTimer(g.opts.PassDelay)

	return g.buildGameStateMessages(), nil
}

// HandleTimer resolves a fired timer. A pending pass moves the turn on;
// otherwise the current player has run out of time, draws a card and loses the turn.
func (g *Game) HandleTimer(turnID int) ([]protocol.OutboundMessage, error) {
	if !g.active || turnID != g.TurnID {
		return nil, ErrStaleTimer
	}
	g.stopTimer = nil

	if g.pendingPass {
		g.advance(false)
		return g.buildGameStateMessages(), nil
	}

	seat := g.Seats[g.Turn.Current]
	seat.Hand = append(seat.Hand, g.drawCards(1)...)
	g.Event = protocol.Event{Kind: protocol.EventTimedOut, Player: seat.Name}
	g.log.WithField("player", seat.ID).Debug("turn timed out")

	g.advance(false)

	return g.buildGameStateMessages(), nil
}

// drawCards takes up to n cards from the draw pile. When it runs out, the
// discard pile (minus its top card) is shuffled into a new draw pile.
// It returns fewer than n cards if both piles are exhausted.
func (g *Game) drawCards(n int) []deck.Card {
	drawn := []deck.Card{}
	for len(drawn) < n {
		if len(g.DrawPile) == 0 {
			if len(g.DiscardPile) <= 1 {
				break
			}
			g.recycleDiscardPile()
		}
		drawn = append(drawn, g.DrawPile.Deal(1)...)
	}
	return drawn
}

func (g *Game) recycleDiscardPile() {
	top := g.DiscardPile[len(g.DiscardPile)-1]
	g.DrawPile = append(deck.Deck{}, g.DiscardPile[:len(g.DiscardPile)-1]...)
	g.DrawPile.Shuffle(g.rand)
	g.DiscardPile = deck.Deck{top}
}

// punishNext makes the player next in line draw n cards
func (g *Game) punishNext(n int) (*Seat, int) {
	victim := g.Seats[g.Turn.Peek(len(g.Seats))]
	drawn := g.drawCards(n)
	victim.Hand = append(victim.Hand, drawn...)
	return victim, len(drawn)
}

// advance hands the turn on and rearms the turn timer
func (g *Game) advance(skip bool) {
	g.Turn.Advance(len(g.Seats), skip)
	g.TurnID++
	g.pendingPass = false
	g.armTimer(g.opts.TurnTimeout)
}

func (g *Game) checkTurn(actorID string) (int, error) {
	if !g.active {
		return -1, ErrGameNotActive
	}
	idx := g.seatIndex(actorID)
	if idx < 0 {
		return -1, ErrUnknownPlayer
	}
	if idx != g.Turn.Current {
		return -1, ErrNotYourTurn
	}
	if g.pendingPass {
		return -1, ErrAwaitingPass
	}
	return idx, nil
}

func (g *Game) isLegal(card deck.Card) bool {
	if card.IsWild() {
		return true
	}
	if card.Color == g.ActiveColor {
		return true
	}
	top, ok := g.DiscardPile.Top()
	return ok && card.Value == top.Value
}

func (g *Game) hasLegalMove(hand []deck.Card) bool {
	return len(legalMoves(hand, g.isLegal)) > 0
}

func (g *Game) seatIndex(id string) int {
	for i, s := range g.Seats {
		if s.ID == id {
			return i
		}
	}
	return -1
}
