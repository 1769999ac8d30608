// Package formkit is the top-level entry point: it re-exports the common
// types and wires rule files, OpenAPI documents, and controllers together.
package formkit

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/openapi"
	"github.com/goliatone/go-formkit/pkg/ruleset"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// FieldRule aliases validation.FieldRule.
type FieldRule = validation.FieldRule

// RuleSet aliases validation.RuleSet.
type RuleSet = validation.RuleSet

// Values aliases form.Values.
type Values = form.Values

// Errors aliases form.Errors.
type Errors = form.Errors

// Controller aliases form.Controller.
type Controller = form.Controller

// Form aliases ruleset.Form.
type Form = ruleset.Form

// CatalogOptions says where forms come from.
type CatalogOptions struct {
	// Rules holds JSON/YAML rule files. Nil skips rule files.
	Rules fs.FS
	// OpenAPI optionally names a document (path or URL) whose request bodies
	// are turned into forms.
	OpenAPI string
	// Loader fetches the OpenAPI document; defaults to a file-only loader.
	Loader *openapi.Loader
	// Registry resolves named checks for both sources.
	Registry *validation.Registry
}

// LoadCatalog loads every form from the configured sources into one store.
// Ids must be unique across sources.
func LoadCatalog(ctx context.Context, opts CatalogOptions) (*ruleset.Store, error) {
	var rulesOpts []ruleset.Option
	var apiOpts []openapi.Option
	if opts.Registry != nil {
		rulesOpts = append(rulesOpts, ruleset.WithRegistry(opts.Registry))
		apiOpts = append(apiOpts, openapi.WithRegistry(opts.Registry))
	}

	store, err := ruleset.LoadFS(opts.Rules, rulesOpts...)
	if err != nil {
		return nil, err
	}
	if opts.OpenAPI == "" {
		return store, nil
	}

	src, err := openapi.ParseSource(opts.OpenAPI)
	if err != nil {
		return nil, err
	}
	doc, err := openapi.Load(ctx, opts.Loader, src, apiOpts...)
	if err != nil {
		return nil, err
	}
	forms, err := doc.Forms()
	if err != nil {
		return nil, err
	}
	if err := store.Add(forms...); err != nil {
		return nil, fmt.Errorf("formkit: merge openapi forms: %w", err)
	}
	return store, nil
}

// NewController builds a controller for f seeded with its defaults. Caller
// options carry the global settings; the strategy and locale declared by f are
// applied after them and win.
func NewController(f Form, opts ...form.Option) *form.Controller {
	all := make([]form.Option, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, form.WithValidationOptions(f.ValidationOptions()...))
	return form.New(form.Values(f.Defaults), f.Rules, all...)
}

// Validate checks values against f without building a controller. As with
// NewController, the form's declared settings override opts.
func Validate(f Form, values Values, opts ...validation.Option) validation.FormResult {
	all := make([]validation.Option, 0, len(opts)+2)
	all = append(all, opts...)
	all = append(all, f.ValidationOptions()...)
	return validation.ValidateForm(values, f.Rules, all...)
}
