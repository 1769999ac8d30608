package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrDeclined is returned when the user declines the final submission.
	ErrDeclined = errors.New("prompt: submission declined")
	// ErrTooManyAttempts is returned when the form is still rejected after the
	// configured number of rounds.
	ErrTooManyAttempts = errors.New("prompt: too many attempts")
)
