package form

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-formkit/pkg/validation"
)

// Controller owns the values, errors, and submitting flag of one form.
//
// Custom rule checks run while the controller lock is held and must not call
// back into the Controller.
type Controller struct {
	mu         sync.Mutex
	initial    Values
	values     Values
	errors     Errors
	submitting bool
	// generation changes on every Submit start and every Reset so a callback
	// that settles late can tell its submission is no longer current.
	generation uint64

	rules          *validation.RuleSet
	submit         SubmitFunc
	logger         Logger
	validationOpts []validation.Option
	listeners      []Listener
	sanitizer      Sanitizer
}

// New constructs a Controller seeded with a copy of initial.
func New(initial Values, rules *validation.RuleSet, options ...Option) *Controller {
	c := &Controller{
		initial: cloneValues(initial),
		values:  cloneValues(initial),
		errors:  make(Errors),
		rules:   rules,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.rules == nil {
		c.rules = validation.NewRuleSet()
	}
	if c.logger == nil {
		c.logger = defaultLogger()
	}
	return c
}

// Rules returns the rule set the controller validates against.
func (c *Controller) Rules() *validation.RuleSet {
	return c.rules
}

// State returns a snapshot of the current values, errors, and submitting flag.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Values returns a copy of the current values.
func (c *Controller) Values() Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneValues(c.values)
}

// Value returns the current value of field.
func (c *Controller) Value(field string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[field]
	return deepCopy(v), ok
}

// Errors returns a copy of the current errors.
func (c *Controller) Errors() Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneErrors(c.errors)
}

// FieldErrors returns the messages recorded for field.
func (c *Controller) FieldErrors(field string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.errors[field]...)
}

// FirstError returns the first message recorded for field.
func (c *Controller) FirstError(field string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors.First(field)
}

// IsSubmitting reports whether a submit callback is outstanding.
func (c *Controller) IsSubmitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// IsDirty reports whether the values differ from the initial snapshot.
func (c *Controller) IsDirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !valuesEqual(c.values, c.initial)
}

// SetValue replaces the value of field and clears any error recorded for it.
// Validation does not run.
func (c *Controller) SetValue(field string, value any) {
	if c.sanitizer != nil {
		value = c.sanitizer(field, value)
	}
	c.mu.Lock()
	c.values[field] = value
	delete(c.errors, field)
	state := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(state)
}

// Validate checks every ruled field, replaces the whole error map with the
// outcome, and reports whether the form is valid.
func (c *Controller) Validate() bool {
	c.mu.Lock()
	valid := c.validateLocked()
	state := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(state)
	return valid
}

// Check evaluates value against the rule for field using the controller's
// validation options. State is not touched and listeners are not notified.
func (c *Controller) Check(field string, value any) []string {
	rule, ok := c.rules.Rule(field)
	if !ok {
		return nil
	}
	return validation.ValidateField(value, rule, c.validationOpts...).Errors
}

// Submit validates the form. When it is invalid Submit returns false without
// touching the callback. Otherwise IsSubmitting is raised, the callback runs
// with the values captured here, and the flag is lowered once it settles.
// Callback errors and panics are logged and swallowed; the error map is left
// as validation produced it. Submit reports whether the callback succeeded.
func (c *Controller) Submit(ctx context.Context) bool {
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	if !c.validateLocked() {
		state := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(state)
		return false
	}
	c.generation++
	generation := c.generation
	c.submitting = true
	values := cloneValues(c.values)
	fn := c.submit
	state := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(state)

	err := runSubmit(ctx, fn, values)

	c.mu.Lock()
	current := generation == c.generation
	if current {
		c.submitting = false
	}
	state = c.snapshotLocked()
	c.mu.Unlock()

	if err != nil {
		c.logger.Printf("submit failed: %v", err)
	}
	if current {
		c.notify(state)
	}
	return err == nil
}

// Reset restores the initial values, clears every error, and lowers the
// submitting flag. An in-flight callback keeps running but can no longer
// change the state when it settles.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.values = cloneValues(c.initial)
	c.errors = make(Errors)
	c.submitting = false
	c.generation++
	state := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(state)
}

// SetFieldError records message as the only error for field, bypassing
// validation. Blank messages are ignored.
func (c *Controller) SetFieldError(field, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	c.setFieldErrors(field, []string{message})
}

// AddFieldError appends message to the errors recorded for field.
func (c *Controller) AddFieldError(field, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	c.mu.Lock()
	c.errors[field] = append(c.errors[field], message)
	state := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(state)
}

// ClearFieldError removes any error recorded for field.
func (c *Controller) ClearFieldError(field string) {
	c.mu.Lock()
	if _, ok := c.errors[field]; !ok {
		c.mu.Unlock()
		return
	}
	delete(c.errors, field)
	state := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(state)
}

func (c *Controller) setFieldErrors(field string, messages []string) {
	c.mu.Lock()
	c.errors[field] = messages
	state := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(state)
}

func (c *Controller) validateLocked() bool {
	result := validation.ValidateForm(c.values, c.rules, c.validationOpts...)
	errs := make(Errors, len(result.Errors))
	for field, msgs := range result.Errors {
		errs[field] = msgs
	}
	c.errors = errs
	return result.Valid
}

func (c *Controller) snapshotLocked() State {
	return State{
		Values:       cloneValues(c.values),
		Errors:       cloneErrors(c.errors),
		IsSubmitting: c.submitting,
	}
}

func (c *Controller) notify(state State) {
	for _, fn := range c.listeners {
		fn(state)
	}
}

func runSubmit(ctx context.Context, fn SubmitFunc, values Values) (err error) {
	if fn == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSubmitPanic, r)
		}
	}()
	return fn(ctx, values)
}
