// Package prompt fills a form.Controller interactively, one prompt per ruled
// field, and submits it once the user confirms.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// Option customises a Filler.
type Option func(*Filler)

// Filler drives a Driver over a Controller.
type Filler struct {
	driver      Driver
	secret      func(field string) bool
	labels      map[string]string
	confirm     bool
	maxAttempts int
}

// WithLabels overrides the prompt message per field. Fields without a label
// are prompted by name.
func WithLabels(labels map[string]string) Option {
	return func(f *Filler) {
		for k, v := range labels {
			f.labels[k] = v
		}
	}
}

// WithSecretFields masks input for the named fields.
func WithSecretFields(fields ...string) Option {
	return func(f *Filler) {
		set := make(map[string]struct{}, len(fields))
		for _, field := range fields {
			set[field] = struct{}{}
		}
		prev := f.secret
		f.secret = func(field string) bool {
			_, ok := set[field]
			return ok || prev(field)
		}
	}
}

// WithoutConfirm submits without asking first.
func WithoutConfirm() Option {
	return func(f *Filler) {
		f.confirm = false
	}
}

// WithMaxAttempts bounds how many times rejected fields are asked again.
func WithMaxAttempts(n int) Option {
	return func(f *Filler) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

// New returns a Filler. Fields whose name contains "password" are masked by
// default.
func New(driver Driver, opts ...Option) *Filler {
	f := &Filler{
		driver:      driver,
		labels:      make(map[string]string),
		confirm:     true,
		maxAttempts: 3,
		secret: func(field string) bool {
			return strings.Contains(strings.ToLower(field), "password")
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Fill prompts for every ruled field, then submits. Answers are checked as
// they are typed using the controller's rules. When Submit leaves errors
// behind (for example from server-side errors applied by the callback) the
// offending fields are asked again, up to the attempt limit. Fill reports
// whether the submit callback succeeded.
func (f *Filler) Fill(ctx context.Context, c *form.Controller) (bool, error) {
	fields := c.Rules().Fields()
	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		for _, field := range fields {
			if err := f.ask(ctx, c, field); err != nil {
				return false, err
			}
		}

		if f.confirm {
			ok, err := f.driver.Confirm(ctx, ConfirmConfig{Message: "Submit?", Default: true})
			if err != nil {
				return false, err
			}
			if !ok {
				return false, ErrDeclined
			}
		}

		submitted := c.Submit(ctx)
		errs := c.Errors()
		if len(errs) == 0 {
			return submitted, nil
		}

		var retry []string
		for _, field := range c.Rules().Fields() {
			msgs, ok := errs[field]
			if !ok {
				continue
			}
			retry = append(retry, field)
			if err := f.driver.Info(ctx, fmt.Sprintf("%s: %s", f.label(field), strings.Join(msgs, "; "))); err != nil {
				return false, err
			}
		}
		for field, msgs := range errs {
			if _, ruled := c.Rules().Rule(field); ruled {
				continue
			}
			if err := f.driver.Info(ctx, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; "))); err != nil {
				return false, err
			}
		}
		if len(retry) == 0 {
			return submitted, nil
		}
		fields = retry
	}
	return false, ErrTooManyAttempts
}

func (f *Filler) ask(ctx context.Context, c *form.Controller, field string) error {
	current, _ := c.Value(field)
	cfg := InputConfig{
		Message: f.label(field),
		Validator: func(answer string) error {
			if msgs := c.Check(field, answer); len(msgs) > 0 {
				return errors.New(msgs[0])
			}
			return nil
		},
	}

	var (
		answer string
		err    error
	)
	if f.secret(field) {
		answer, err = f.driver.Password(ctx, cfg)
	} else {
		cfg.Default = validation.Stringify(current)
		answer, err = f.driver.Input(ctx, cfg)
	}
	if err != nil {
		return err
	}
	c.SetValue(field, answer)
	return nil
}

func (f *Filler) label(field string) string {
	if label, ok := f.labels[field]; ok && label != "" {
		return label
	}
	return field
}
