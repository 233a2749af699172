package game

import "time"

// AfterFunc runs f on its own goroutine once d has elapsed.
// The returned stop func cancels the call if it has not happened yet.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func clockAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// armTimer replaces the room's pending timer. The callback only reports
// the turn it was armed for; the state change happens in HandleTimer.
func (g *Game) armTimer(d time.Duration) {
	g.cancelTimer()
	if d <= 0 || g.opts.OnTimer == nil {
		return
	}

	turnID := g.TurnID
	onTimer := g.opts.OnTimer
	g.stopTimer = g.opts.AfterFunc(d, func() {
		onTimer(turnID)
	})
}

func (g *Game) cancelTimer() {
	if g.stopTimer != nil {
		g.stopTimer()
		g.stopTimer = nil
	}
}

// TimerPending reports whether a timer is armed for the current turn
func (g *Game) TimerPending() bool {
	return g.stopTimer != nil
}
