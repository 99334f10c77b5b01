// Package debounce runs the most recently scheduled function after a quiet
// period.
package debounce

import (
	"sync"
	"time"
)

// Debouncer holds at most one pending function. Scheduling replaces it and
// restarts the quiet period.
type Debouncer struct {
	mu      sync.Mutex
	wait    time.Duration
	timer   *time.Timer
	pending func()
	seq     uint64
}

// New returns a debouncer with the given quiet period.
func New(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait}
}

// Schedule arranges for fn to run after the quiet period, cancelling any
// function scheduled earlier.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.seq++
	seq := d.seq
	d.pending = fn
	d.timer = time.AfterFunc(d.wait, func() { d.fire(seq) })
}

// Cancel drops the pending function, if any, and reports whether one was
// dropped.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	had := d.pending != nil
	d.stopLocked()
	d.seq++
	return had
}

// Flush runs the pending function now, on the caller's goroutine.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	fn := d.pending
	d.stopLocked()
	d.seq++
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Pending reports whether a function is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	if seq != d.seq || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}
