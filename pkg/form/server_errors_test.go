package form_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/validation"
)

func TestController_ApplyServerErrors(t *testing.T) {
	rules := validation.NewRuleSet().
		Add("email", validation.EmailRule()).
		Add("tags", &validation.FieldRule{})
	c := form.New(form.Values{"name": "alice"}, rules)

	leftover := c.ApplyServerErrors(map[string][]string{
		"/body/email":      {"Email already registered", "Email already registered"},
		"$.name":           {" Name is reserved "},
		"data.tags[0]":     {"Tags must be unique"},
		"non_field_errors": {"Rate limited"},
		"unknown.field":    {"Lost field"},
		"name":             {"  "},
	})

	want := form.Errors{
		"email": {"Email already registered"},
		"name":  {"Name is reserved"},
		"tags":  {"Tags must be unique"},
	}
	if diff := cmp.Diff(want, c.Errors()); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Rate limited", "Lost field"}, leftover); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestController_ApplyServerErrorsEmpty(t *testing.T) {
	c := form.New(nil, nil)
	if got := c.ApplyServerErrors(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
