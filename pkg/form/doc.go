// Package form provides Controller, a per-instance owner of form values,
// field errors, and the submitting flag.
//
// A Controller is created with initial values, a validation.RuleSet, and an
// optional submit callback. SetValue stores a value and optimistically clears
// that field's error; Validate recomputes every error; Submit validates and,
// only when the form is valid, runs the callback with a snapshot of the values
// while IsSubmitting reports true. Reset returns the controller to its initial
// snapshot without creating a new instance.
//
// Controllers are safe to call from several goroutines. The submit callback
// and listeners always run without the internal lock held, and a Reset issued
// while a callback is in flight is never undone by that callback settling.
package form
