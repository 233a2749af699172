package game

// TurnSequencer tracks whose turn it is and which way play moves.
type TurnSequencer struct {
	Current   int
	Direction int
}

// NewTurnSequencer starts with seat 0, moving clockwise
func NewTurnSequencer() TurnSequencer {
	return TurnSequencer{Current: 0, Direction: 1}
}

// Peek returns the seat that plays next if nobody is skipped.
func (ts TurnSequencer) Peek(numPlayers int) int {
	return wrap(ts.Current+ts.Direction, numPlayers)
}

// Advance moves the turn to the next seat. With skip set,
// the next seat is passed over.
func (ts *TurnSequencer) Advance(numPlayers int, skip bool) {
	if numPlayers == 0 {
		return
	}
	ts.Current = ts.Peek(numPlayers)
	if skip {
		ts.Current = ts.Peek(numPlayers)
	}
}

// Reverse flips the direction of play. It reports whether the
// next player must be skipped: with two players a reverse works like a skip.
func (ts *TurnSequencer) Reverse(numPlayers int) bool {
	ts.Direction = -ts.Direction
	return numPlayers == 2
}

func wrap(idx, n int) int {
	if n == 0 {
		return 0
	}
	return ((idx % n) + n) % n
}
