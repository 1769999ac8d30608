package timing

import "time"

// SetClock swaps the throttler clock in tests.
func (t *Throttler) SetClock(now func() time.Time) {
	t.now = now
}
