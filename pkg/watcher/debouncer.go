// Package watcher coalesces bursts of events, such as keystrokes in a search
// box or writes to the session database, into a single callback.
package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is used when a Debouncer is created with zero duration.
const DefaultDebounceDuration = 250 * time.Millisecond

// Debouncer runs only the last of a burst of scheduled callbacks, once the
// burst has been quiet for the configured duration.
type Debouncer struct {
	mu       sync.Mutex
	duration time.Duration
	timer    *time.Timer
	gen      uint64
	fired    uint64
}

// NewDebouncer creates a Debouncer. A zero or negative duration selects
// DefaultDebounceDuration.
func NewDebouncer(duration time.Duration) *Debouncer {
	if duration <= 0 {
		duration = DefaultDebounceDuration
	}
	return &Debouncer{duration: duration}
}

// Trigger (re)schedules fn, replacing any callback still waiting.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, func() {
		if !d.claim(gen) {
			return
		}
		fn()
	})
}

// claim reports whether gen is still the newest schedule. A timer that fired
// while Trigger or Cancel held the lock loses here.
func (d *Debouncer) claim(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		return false
	}
	d.timer = nil
	d.fired++
	return true
}

// Cancel drops the waiting callback, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a callback is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Fired returns how many callbacks have run.
func (d *Debouncer) Fired() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fired
}

// Duration returns the quiet period.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}
