// Package draft holds the autosave plumbing that sits in front of a
// repository.DraftStore.
package draft

import (
	"sync"
	"time"
)

// DefaultDelay is how long typing has to pause before a draft is written.
const DefaultDelay = 500 * time.Millisecond

// Debouncer runs fn once on the trailing edge of a burst of Trigger calls.
// With a delay of zero or less fn runs inline on every Trigger.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending bool
}

func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger (re)starts the wait.
func (d *Debouncer) Trigger() {
	if d.delay <= 0 {
		d.fn()
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// fire runs for the timer armed as gen. A timer that went off while a later
// Trigger re-armed is stale and leaves the new one alone.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	run := d.pending
	d.pending = false
	d.timer = nil
	d.mu.Unlock()
	if run {
		d.fn()
	}
}

// Flush runs a pending call now instead of waiting.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	run := d.pending
	d.pending = false
	d.mu.Unlock()
	if run {
		d.fn()
	}
}

// Cancel drops a pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
	d.mu.Unlock()
}

// Pending reports whether a call is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
