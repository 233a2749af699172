package internal

import (
	"sync"
	"testing"
	"time"
)

// AssertNoError stops the test on an unexpected error
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
}

// AssertErrored stops the test if err is nil
func AssertErrored(t *testing.T, err error) {
	t.Helper()

	if err == nil {
		t.Fatal("Expected an error, but got nil")
	}
}

// AssertEqual compares comparable values
func AssertEqual(t *testing.T, got, want interface{}) {
	t.Helper()

	if got != want {
		t.Errorf("\nGot: %+v\nwant: %+v", got, want)
	}
}

func AssertTrue(t *testing.T, got bool) {
	t.Helper()

	if !got {
		t.Error("Expected to be true, but it wasn't")
	}
}

// Within fails the test if assert does not return within d
func Within(t *testing.T, d time.Duration, assert func()) {
	t.Helper()

	done := make(chan struct{}, 1)

	go func() {
		assert()
		done <- struct{}{}
	}()

	select {
	case <-time.After(d):
		t.Error("timed out")
	case <-done:
	}
}

// FakeTimer is a timer armed on a FakeScheduler
type FakeTimer struct {
	Delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

// FakeScheduler records timers instead of running them.
// Tests fire them explicitly.
type FakeScheduler struct {
	mu     sync.Mutex
	timers []*FakeTimer
}

func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{}
}

// AfterFunc has the same shape as game.AfterFunc
func (s *FakeScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer := &FakeTimer{Delay: d, fn: f}
	s.timers = append(s.timers, timer)

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if timer.stopped || timer.fired {
			return false
		}
		timer.stopped = true
		return true
	}
}

// Pending returns the timers that have neither fired nor been stopped
func (s *FakeScheduler) Pending() []*FakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := []*FakeTimer{}
	for _, timer := range s.timers {
		if !timer.stopped && !timer.fired {
			pending = append(pending, timer)
		}
	}
	return pending
}

// FireNext runs the oldest pending timer. It reports whether there was one.
func (s *FakeScheduler) FireNext() bool {
	s.mu.Lock()
	var next *FakeTimer
	for _, timer := range s.timers {
		if !timer.stopped && !timer.fired {
			next = timer
			break
		}
	}
	if next != nil {
		next.fired = true
	}
	s.mu.Unlock()

	if next == nil {
		return false
	}
	next.fn()
	return true
}

// FireStopped runs a timer that was already stopped, the way a real
// timer can fire just before it is cancelled.
func (s *FakeScheduler) FireStopped() bool {
	s.mu.Lock()
	var stale *FakeTimer
	for _, timer := range s.timers {
		if timer.stopped && !timer.fired {
			stale = timer
			break
		}
	}
	if stale != nil {
		stale.fired = true
	}
	s.mu.Unlock()

	if stale == nil {
		return false
	}
	stale.fn()
	return true
}
