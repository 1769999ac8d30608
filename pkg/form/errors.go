package form

import "errors"

var (
	// ErrSubmitPanic wraps a panic recovered from a submit callback.
	ErrSubmitPanic = errors.New("form: submit callback panicked")
)
