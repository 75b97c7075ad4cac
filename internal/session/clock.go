package session

import (
	"sync"
	"time"
)

// Clock abstracts wall time so timers can be driven in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending AfterFunc call.
type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// ticker calls fn every interval until stopped. It re-arms a one-shot timer
// after each call, so a slow fn never overlaps itself.
type ticker struct {
	clock    Clock
	interval time.Duration
	fn       func()

	mu      sync.Mutex
	t       Timer
	stopped bool
}

func startTicker(c Clock, interval time.Duration, fn func()) *ticker {
	tk := &ticker{clock: c, interval: interval, fn: fn}
	tk.arm()
	return tk
}

func (tk *ticker) arm() {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	if tk.stopped {
		return
	}
	tk.t = tk.clock.AfterFunc(tk.interval, tk.fire)
}

func (tk *ticker) fire() {
	tk.mu.Lock()
	stopped := tk.stopped
	tk.mu.Unlock()
	if stopped {
		return
	}
	tk.fn()
	tk.arm()
}

// Stop cancels the ticker. Safe to call more than once and on nil.
func (tk *ticker) Stop() {
	if tk == nil {
		return
	}
	tk.mu.Lock()
	defer tk.mu.Unlock()
	tk.stopped = true
	if tk.t != nil {
		tk.t.Stop()
	}
}
