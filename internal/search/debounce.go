package search

import (
	"sync"
	"time"
)

// DefaultDebounce is how long the controller waits after the last
// keystroke before issuing a remote search.
const DefaultDebounce = 150 * time.Millisecond

// Debouncer coalesces a burst of triggers into one callback. Each
// Trigger resets the single pending timer, so only the last callback
// of a burst runs.
type Debouncer interface {
	// Trigger schedules fn, replacing any pending callback.
	Trigger(fn func())

	// Stop cancels the pending callback, if any.
	Stop()
}

// timerDebouncer implements Debouncer on a time.Timer.
type timerDebouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer returns a Debouncer with the given delay.
func NewDebouncer(delay time.Duration) Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &timerDebouncer{delay: delay}
}

func (d *timerDebouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

func (d *timerDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
