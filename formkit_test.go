package formkit_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit"
	"github.com/goliatone/go-formkit/internal/config"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/ruleset"
	"github.com/goliatone/go-formkit/pkg/validation"
)

const contactYAML = `
forms:
  contact:
    locale: zh
    defaults:
      topic: general
    fields:
      - name: message
        required: true
        maxLength: 10
`

func TestLoadCatalogMergesSources(t *testing.T) {
	store, err := formkit.LoadCatalog(context.Background(), formkit.CatalogOptions{
		Rules:   fstest.MapFS{"contact.yaml": {Data: []byte(contactYAML)}},
		OpenAPI: "pkg/openapi/testdata/petstore.yaml",
	})
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	want := []string{"contact", "createAccount", "put:/accounts/{id}/notes"}
	if diff := cmp.Diff(want, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCatalogRejectsCollisions(t *testing.T) {
	rules := fstest.MapFS{"dup.yaml": {Data: []byte("forms:\n  createAccount:\n    fields: []\n")}}
	_, err := formkit.LoadCatalog(context.Background(), formkit.CatalogOptions{
		Rules:   rules,
		OpenAPI: "pkg/openapi/testdata/petstore.yaml",
	})
	if !errors.Is(err, ruleset.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestNewControllerUsesFormSettings(t *testing.T) {
	store, err := formkit.LoadCatalog(context.Background(), formkit.CatalogOptions{
		Rules: fstest.MapFS{"contact.yaml": {Data: []byte(contactYAML)}},
	})
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	f, _ := store.Form("contact")

	c := formkit.NewController(f)
	if v, _ := c.Value("topic"); v != "general" {
		t.Fatalf("expected default topic, got %v", v)
	}
	if c.Validate() {
		t.Fatalf("expected invalid form")
	}
	if diff := cmp.Diff([]string{"此字段为必填项"}, c.FieldErrors("message")); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	global := formkit.NewController(f, form.WithValidationOptions(validation.WithMessages(validation.DefaultMessages())))
	global.Validate()
	if diff := cmp.Diff([]string{"此字段为必填项"}, global.FieldErrors("message")); diff != "" {
		t.Fatalf("declared locale should beat caller options (-want +got):\n%s", diff)
	}

	res := formkit.Validate(f, formkit.Values{"message": "far too long for this"})
	if diff := cmp.Diff(map[string][]string{"message": {"最多允许10个字符"}}, res.Errors); diff != "" {
		t.Fatalf("validate mismatch (-want +got):\n%s", diff)
	}
}

const layeredYAML = `
forms:
  plain:
    fields:
      - name: name
        required: true
        minLength: 3
  strict:
    strategy: short-circuit
    locale: zh
    fields:
      - name: name
        required: true
        minLength: 3
`

func TestNewControllerLayersGlobalAndFormSettings(t *testing.T) {
	store, err := formkit.LoadCatalog(context.Background(), formkit.CatalogOptions{
		Rules: fstest.MapFS{"layered.yaml": {Data: []byte(layeredYAML)}},
	})
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	plain, _ := store.Form("plain")
	strict, _ := store.Form("strict")

	cases := []struct {
		name   string
		form   formkit.Form
		global config.ValidationConfig
		want   []string
	}{
		{
			name:   "global settings apply to undeclared forms",
			form:   plain,
			global: config.ValidationConfig{Strategy: "short-circuit", Locale: "zh"},
			want:   []string{"此字段为必填项"},
		},
		{
			name:   "global defaults",
			form:   plain,
			global: config.ValidationConfig{Strategy: "exhaustive", Locale: "en"},
			want:   []string{"This field is required", "Must be at least 3 characters"},
		},
		{
			name:   "declared settings win",
			form:   strict,
			global: config.ValidationConfig{Strategy: "exhaustive", Locale: "en"},
			want:   []string{"此字段为必填项"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Config{Validation: tc.global}
			c := formkit.NewController(tc.form, form.WithValidationOptions(cfg.ValidationOptions()...))
			c.Validate()
			if diff := cmp.Diff(tc.want, c.FieldErrors("name")); diff != "" {
				t.Fatalf("controller errors mismatch (-want +got):\n%s", diff)
			}

			res := formkit.Validate(tc.form, formkit.Values{}, cfg.ValidationOptions()...)
			if diff := cmp.Diff(tc.want, res.Errors["name"]); diff != "" {
				t.Fatalf("validate errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
