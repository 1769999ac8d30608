package form

import (
	"context"
	"log"
	"os"

	"github.com/goliatone/go-formkit/pkg/validation"
)

// SubmitFunc completes a submission. It receives the values captured when
// Submit began.
type SubmitFunc func(ctx context.Context, values Values) error

// Listener observes every state change.
type Listener func(State)

// Logger receives submit callback failures.
type Logger interface {
	Printf(format string, args ...any)
}

// Sanitizer rewrites a value before SetValue stores it.
type Sanitizer func(field string, value any) any

// Option configures a Controller.
type Option func(*Controller)

// WithSubmit registers the completion callback run by Submit.
func WithSubmit(fn SubmitFunc) Option {
	return func(c *Controller) {
		c.submit = fn
	}
}

// WithLogger overrides the logger used for callback failures.
func WithLogger(logger Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithValidationOptions forwards options to every validation run.
func WithValidationOptions(opts ...validation.Option) Option {
	return func(c *Controller) {
		c.validationOpts = append(c.validationOpts, opts...)
	}
}

// WithListener subscribes fn to state changes.
func WithListener(fn Listener) Option {
	return func(c *Controller) {
		if fn != nil {
			c.listeners = append(c.listeners, fn)
		}
	}
}

// WithSanitizer rewrites incoming values in SetValue.
func WithSanitizer(fn Sanitizer) Option {
	return func(c *Controller) {
		c.sanitizer = fn
	}
}

func defaultLogger() Logger {
	return log.New(os.Stderr, "formkit: ", log.LstdFlags)
}
