package openapi

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/ruleset"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// ValidatorsExtension lists registry check names on a property schema.
const ValidatorsExtension = "x-formkit-validators"

var formatChecks = map[string]string{
	"email": "email",
	"uri":   "url",
	"url":   "url",
}

// Document is a parsed OpenAPI document.
type Document struct {
	spec     *openapi3.T
	source   string
	registry *validation.Registry
}

// Option configures rule derivation.
type Option func(*Document)

// WithRegistry resolves formats and x-formkit-validators against registry.
func WithRegistry(registry *validation.Registry) Option {
	return func(d *Document) {
		if registry != nil {
			d.registry = registry
		}
	}
}

// Parse loads an OpenAPI 3 document from data. source labels derived forms.
func Parse(ctx context.Context, data []byte, source string, opts ...Option) (*Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, source)
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}

	doc := &Document{spec: spec, source: source}
	for _, opt := range opts {
		if opt != nil {
			opt(doc)
		}
	}
	if doc.registry == nil {
		doc.registry = validation.DefaultRegistry()
	}
	return doc, nil
}

// Load reads src with loader and parses it.
func Load(ctx context.Context, loader *Loader, src Source, opts ...Option) (*Document, error) {
	if loader == nil {
		loader = NewLoader()
	}
	data, err := loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return Parse(ctx, data, src.String(), opts...)
}

type operationRef struct {
	method string
	path   string
	op     *openapi3.Operation
}

func (d *Document) operations() map[string]operationRef {
	out := make(map[string]operationRef)
	if d.spec.Paths == nil {
		return out
	}
	for path, item := range d.spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			out[id] = operationRef{method: method, path: path, op: op}
		}
	}
	return out
}

// OperationIDs lists the operations with an object request body, sorted.
func (d *Document) OperationIDs() []string {
	var ids []string
	for id, ref := range d.operations() {
		if requestSchema(ref.op) != nil {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Form derives the form for operationID.
func (d *Document) Form(operationID string) (ruleset.Form, error) {
	ref, ok := d.operations()[operationID]
	if !ok {
		return ruleset.Form{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}
	schema := requestSchema(ref.op)
	if schema == nil {
		return ruleset.Form{}, fmt.Errorf("%w: %q", ErrNoRequestBody, operationID)
	}

	rules, err := d.rules(schema, operationID)
	if err != nil {
		return ruleset.Form{}, err
	}

	title := strings.TrimSpace(ref.op.Summary)
	if title == "" {
		title = ref.method + " " + ref.path
	}
	return ruleset.Form{
		ID:       operationID,
		Title:    title,
		Source:   d.source,
		Defaults: defaults(schema),
		Rules:    rules,
	}, nil
}

// Forms derives a form for every operation listed by OperationIDs.
func (d *Document) Forms() ([]ruleset.Form, error) {
	ids := d.OperationIDs()
	forms := make([]ruleset.Form, 0, len(ids))
	for _, id := range ids {
		f, err := d.Form(id)
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, nil
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	var media *openapi3.MediaType
	for _, name := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[name]; ok {
			media = mt
			break
		}
	}
	if media == nil {
		for _, name := range sortedKeys(content) {
			media = content[name]
			break
		}
	}
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil
	}
	schema := media.Schema.Value
	if len(schema.Properties) == 0 {
		return nil
	}
	return schema
}

// fieldOrder puts required properties first, in their declared order, then
// the rest alphabetically.
func fieldOrder(schema *openapi3.Schema) []string {
	seen := make(map[string]struct{}, len(schema.Properties))
	order := make([]string, 0, len(schema.Properties))
	for _, name := range schema.Required {
		if _, ok := schema.Properties[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		order = append(order, name)
	}
	for _, name := range sortedKeys(schema.Properties) {
		if _, ok := seen[name]; !ok {
			order = append(order, name)
		}
	}
	return order
}

func (d *Document) rules(schema *openapi3.Schema, operationID string) (*validation.RuleSet, error) {
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	rules := validation.NewRuleSet()
	for _, name := range fieldOrder(schema) {
		prop := schema.Properties[name]
		if prop == nil || prop.Value == nil {
			rules.Add(name, &validation.FieldRule{Required: required[name]})
			continue
		}
		rule, err := d.fieldRule(prop.Value, required[name])
		if err != nil {
			return nil, fmt.Errorf("openapi: operation %q property %q: %w", operationID, name, err)
		}
		rules.Add(name, rule)
	}
	return rules, nil
}

func (d *Document) fieldRule(schema *openapi3.Schema, required bool) (*validation.FieldRule, error) {
	rule := &validation.FieldRule{
		Required:  required,
		MinLength: int(schema.MinLength),
	}
	if schema.MaxLength != nil {
		rule.MaxLength = int(*schema.MaxLength)
	}
	if schema.Pattern != "" {
		re, err := regexp.Compile(schema.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
		rule.Pattern = re
	}

	var names []string
	if name, ok := formatChecks[strings.ToLower(schema.Format)]; ok {
		names = append(names, name)
	}
	names = append(names, extensionNames(schema.Extensions[ValidatorsExtension])...)

	var checks []validation.CustomFunc
	for _, name := range names {
		fn, ok := d.registry.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w %q", ruleset.ErrUnknownValidator, name)
		}
		checks = append(checks, fn)
	}
	switch len(checks) {
	case 0:
	case 1:
		rule.Custom = checks[0]
	default:
		rule.Custom = validation.Chain(checks...)
	}
	return rule, nil
}

func extensionNames(raw any) []string {
	switch v := raw.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case []string:
		return v
	}
	return nil
}

func defaults(schema *openapi3.Schema) map[string]any {
	out := make(map[string]any)
	for name, prop := range schema.Properties {
		if prop != nil && prop.Value != nil && prop.Value.Default != nil {
			out[name] = prop.Value.Default
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
