// Package capture buffers dictated lines and flushes them to the note in
// batches, so rapid speech fragments don't each trigger a file write.
package capture

import (
	"sync"
	"time"
)

// DefaultIdleFlush is how long the recorder waits after the last line before
// flushing the buffer.
const DefaultIdleFlush = 800 * time.Millisecond

// Recorder accumulates capture lines and hands them to flush after an idle
// gap. Each new line resets the single pending timer; there is never more
// than one flush scheduled.
type Recorder struct {
	idle  time.Duration
	flush func(lines []string)

	mu     sync.Mutex
	buf    []string
	timer  *time.Timer
	closed bool
}

// NewRecorder builds a recorder flushing through fn. A non-positive idle
// duration falls back to DefaultIdleFlush.
func NewRecorder(idle time.Duration, fn func(lines []string)) *Recorder {
	if idle <= 0 {
		idle = DefaultIdleFlush
	}
	return &Recorder{idle: idle, flush: fn}
}

// Add buffers one line and (re)starts the idle timer.
func (r *Recorder) Add(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	r.buf = append(r.buf, line)
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.idle, r.Flush)
}

// Flush writes out the buffered lines immediately. Safe to call at any time;
// a flush with an empty buffer is a no-op.
func (r *Recorder) Flush() {
	r.mu.Lock()
	if r.closed || len(r.buf) == 0 {
		r.mu.Unlock()
		return
	}
	lines := r.buf
	r.buf = nil
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.mu.Unlock()

	// Called outside the lock so the flush target may call back in.
	r.flush(lines)
}

// Close stops the recorder and drops any unflushed lines. Capture is
// best-effort by contract; callers wanting the tail call Flush first.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.buf = nil
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
