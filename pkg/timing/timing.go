// Package timing rate-limits calls. Every Debouncer and Throttler owns its
// own timer state; nothing is shared between instances.
package timing

import (
	"context"
	"sync"
	"time"
)

// Debouncer delays fn until wait has elapsed since the most recent Call.
type Debouncer struct {
	mu    sync.Mutex
	wait  time.Duration
	fn    func()
	timer *time.Timer
}

// NewDebouncer returns a Debouncer running fn.
func NewDebouncer(wait time.Duration, fn func()) *Debouncer {
	return &Debouncer{wait: wait, fn: fn}
}

// Call schedules fn, cancelling any call still waiting.
func (d *Debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, d.fn)
}

// Cancel drops a pending call. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}

// Flush runs a pending call immediately.
func (d *Debouncer) Flush() {
	if d.Cancel() {
		d.fn()
	}
}

// Throttler runs fn at most once per limit window. Calls inside the window
// are dropped.
type Throttler struct {
	mu    sync.Mutex
	limit time.Duration
	fn    func()
	now   func() time.Time
	last  time.Time
	fired bool
}

// NewThrottler returns a Throttler running fn.
func NewThrottler(limit time.Duration, fn func()) *Throttler {
	return &Throttler{limit: limit, fn: fn, now: time.Now}
}

// Call runs fn unless it already ran within the current window. It reports
// whether fn ran.
func (t *Throttler) Call() bool {
	t.mu.Lock()
	now := t.now()
	if t.fired && now.Sub(t.last) < t.limit {
		t.mu.Unlock()
		return false
	}
	t.fired = true
	t.last = now
	t.mu.Unlock()

	t.fn()
	return true
}

// Delay waits for d or until ctx is done.
func Delay(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
