// Package toggle holds a goroutine-safe boolean switch.
package toggle

import "sync"

// Toggle is a boolean with flip helpers. The zero value is off.
type Toggle struct {
	mu       sync.Mutex
	value    bool
	onChange func(bool)
}

// New returns a Toggle starting at initial. onChange, when non-nil, runs after
// every transition.
func New(initial bool, onChange func(bool)) *Toggle {
	return &Toggle{value: initial, onChange: onChange}
}

// Value reports the current state.
func (t *Toggle) Value() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

// Toggle flips the state and returns the new value.
func (t *Toggle) Toggle() bool {
	t.mu.Lock()
	t.value = !t.value
	v := t.value
	t.mu.Unlock()
	t.changed(v)
	return v
}

// SetOn switches the toggle on.
func (t *Toggle) SetOn() { t.Set(true) }

// SetOff switches the toggle off.
func (t *Toggle) SetOff() { t.Set(false) }

// Set assigns v. onChange only fires when the value actually changes.
func (t *Toggle) Set(v bool) {
	t.mu.Lock()
	changed := t.value != v
	t.value = v
	t.mu.Unlock()
	if changed {
		t.changed(v)
	}
}

func (t *Toggle) changed(v bool) {
	if t.onChange != nil {
		t.onChange(v)
	}
}
