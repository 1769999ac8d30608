package ruleset

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/validation"
)

// Form is a compiled form definition. StrategySet records whether the source
// declared a strategy; an undeclared strategy or locale leaves the caller's
// engine settings in force.
type Form struct {
	ID          string
	Title       string
	Source      string
	Strategy    validation.Strategy
	StrategySet bool
	Locale      string
	Defaults    map[string]any
	Rules       *validation.RuleSet
}

// ValidationOptions returns the engine options declared by the form. Apply
// them after any global options so the form's declarations win.
func (f Form) ValidationOptions() []validation.Option {
	var opts []validation.Option
	if f.StrategySet {
		opts = append(opts, validation.WithStrategy(f.Strategy))
	}
	if f.Locale != "" {
		opts = append(opts, validation.WithMessages(validation.MessagesForLocale(f.Locale)))
	}
	return opts
}

// Store holds loaded forms keyed by id.
type Store struct {
	forms map[string]Form
}

// Form returns the form registered under id.
func (s *Store) Form(id string) (Form, bool) {
	if s == nil {
		return Form{}, false
	}
	f, ok := s.forms[strings.TrimSpace(id)]
	return f, ok
}

// MustForm returns the form registered under id or ErrFormNotFound.
func (s *Store) MustForm(id string) (Form, error) {
	f, ok := s.Form(id)
	if !ok {
		return Form{}, fmt.Errorf("%w: %q", ErrFormNotFound, id)
	}
	return f, nil
}

// IDs lists the loaded form ids in sorted order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

// Option customises loading.
type Option func(*loader)

type loader struct {
	registry *validation.Registry
}

// WithRegistry resolves named validators against registry instead of the
// built-in registry for each form's locale.
func WithRegistry(registry *validation.Registry) Option {
	return func(l *loader) {
		if registry != nil {
			l.registry = registry
		}
	}
}

func newLoader(opts []Option) *loader {
	l := &loader{}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// registryFor returns the registry named validators resolve against for a
// form declared in locale.
func (l *loader) registryFor(locale string) *validation.Registry {
	if l.registry != nil {
		return l.registry
	}
	return validation.RegistryForLocale(locale)
}

// LoadFS walks fsys and compiles every .json, .yaml, and .yml file. The first
// problem found aborts loading; use Lint to collect all of them. A nil fsys
// yields an empty store.
func LoadFS(fsys fs.FS, opts ...Option) (*Store, error) {
	l := newLoader(opts)
	store := &Store{forms: make(map[string]Form)}
	if fsys == nil {
		return store, nil
	}

	err := walkRuleFiles(fsys, func(path string, data []byte) error {
		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(doc.Forms))
		for id := range doc.Forms {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, rawID := range ids {
			id := strings.TrimSpace(rawID)
			if id == "" {
				return fmt.Errorf("ruleset: file %s defines an empty form id", path)
			}
			if _, exists := store.forms[id]; exists {
				return fmt.Errorf("%w: form %q (file %s)", ErrDuplicate, id, path)
			}
			form, issues := l.compileForm(doc.Forms[rawID], id, path)
			if len(issues) > 0 {
				return issues[0].Err
			}
			store.forms[id] = form
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Parse compiles a single rule document held in memory.
func Parse(data []byte, source string, opts ...Option) ([]Form, error) {
	l := newLoader(opts)
	doc, err := parseDocument(data, source)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(doc.Forms))
	for id := range doc.Forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	forms := make([]Form, 0, len(ids))
	for _, rawID := range ids {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return nil, fmt.Errorf("ruleset: file %s defines an empty form id", source)
		}
		form, issues := l.compileForm(doc.Forms[rawID], id, source)
		if len(issues) > 0 {
			return nil, issues[0].Err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

type documentFile struct {
	Forms map[string]formFile `json:"forms" yaml:"forms"`
}

type formFile struct {
	Title    string         `json:"title" yaml:"title"`
	Strategy string         `json:"strategy" yaml:"strategy"`
	Locale   string         `json:"locale" yaml:"locale"`
	Defaults map[string]any `json:"defaults" yaml:"defaults"`
	Fields   []fieldFile    `json:"fields" yaml:"fields"`
}

type fieldFile struct {
	Name       string   `json:"name" yaml:"name"`
	Required   bool     `json:"required" yaml:"required"`
	MinLength  int      `json:"minLength" yaml:"minLength"`
	MaxLength  int      `json:"maxLength" yaml:"maxLength"`
	Pattern    string   `json:"pattern" yaml:"pattern"`
	Message    string   `json:"message" yaml:"message"`
	Validators []string `json:"validators" yaml:"validators"`
}

func walkRuleFiles(fsys fs.FS, fn func(path string, data []byte) error) error {
	return fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isRuleFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("ruleset: read %s: %w", path, err)
		}
		return fn(path, data)
	})
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("%w: %s", ErrEmptyFile, source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return documentFile{}, fmt.Errorf("%w: %s", ErrInvalidDocument, source)
}

func (l *loader) compileForm(raw formFile, id, source string) (Form, []Issue) {
	form := Form{
		ID:       id,
		Title:    strings.TrimSpace(raw.Title),
		Source:   source,
		Locale:   strings.TrimSpace(raw.Locale),
		Defaults: cloneDefaults(raw.Defaults),
		Rules:    validation.NewRuleSet(),
	}

	var issues []Issue
	report := func(field string, err error) {
		issues = append(issues, Issue{Source: source, Form: id, Field: field, Err: err})
	}

	if declared := strings.TrimSpace(raw.Strategy); declared != "" {
		strategy, ok := validation.LookupStrategy(declared)
		if !ok {
			report("", fmt.Errorf("%w %q: form %q (file %s)", ErrInvalidStrategy, declared, id, source))
		}
		form.Strategy, form.StrategySet = strategy, ok
	}
	registry := l.registryFor(form.Locale)

	seen := make(map[string]struct{}, len(raw.Fields))
	for idx, f := range raw.Fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			report("", fmt.Errorf("ruleset: form %q (file %s) field %d has no name", id, source, idx))
			continue
		}
		if _, dup := seen[name]; dup {
			report(name, fmt.Errorf("%w: field %q in form %q (file %s)", ErrDuplicate, name, id, source))
			continue
		}
		seen[name] = struct{}{}

		rule, errs := compileField(registry, f, id, name, source)
		for _, err := range errs {
			report(name, err)
		}
		if len(errs) == 0 {
			form.Rules.Add(name, rule)
		}
	}

	return form, issues
}

func compileField(registry *validation.Registry, f fieldFile, formID, name, source string) (*validation.FieldRule, []error) {
	var errs []error
	rule := &validation.FieldRule{
		Required:  f.Required,
		MinLength: f.MinLength,
		MaxLength: f.MaxLength,
	}
	where := fmt.Sprintf("field %q in form %q (file %s)", name, formID, source)

	if f.MinLength < 0 || f.MaxLength < 0 {
		errs = append(errs, fmt.Errorf("%w: %s has a negative length", ErrInvalidLength, where))
	} else if f.MinLength > 0 && f.MaxLength > 0 && f.MinLength > f.MaxLength {
		errs = append(errs, fmt.Errorf("%w: %s minLength %d exceeds maxLength %d", ErrInvalidLength, where, f.MinLength, f.MaxLength))
	}

	if pattern := strings.TrimSpace(f.Pattern); pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %v", ErrInvalidPattern, where, err))
		} else {
			rule.Pattern = re
		}
	}

	var checks []validation.CustomFunc
	for _, raw := range f.Validators {
		checkName := strings.TrimSpace(raw)
		if checkName == "" {
			continue
		}
		fn, ok := registry.Lookup(checkName)
		if !ok {
			err := fmt.Errorf("%w %q: %s", ErrUnknownValidator, checkName, where)
			if hint := suggest(checkName, registry.Names()); hint != "" {
				err = fmt.Errorf("%w %q: %s (did you mean %q?)", ErrUnknownValidator, checkName, where, hint)
			}
			errs = append(errs, err)
			continue
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
	if msg := strings.TrimSpace(f.Message); msg != "" {
		switch {
		case rule.Custom != nil:
			rule.Custom = withMessage(rule.Custom, msg)
		case len(f.Validators) == 0:
			errs = append(errs, fmt.Errorf("%w: %s", ErrOrphanMessage, where))
		}
	}

	return rule, errs
}

// withMessage replaces the message of any failure reported by fn.
func withMessage(fn validation.CustomFunc, message string) validation.CustomFunc {
	return func(value any) validation.CustomResult {
		if fn(value).Failed() {
			return validation.Fail(message)
		}
		return validation.Pass()
	}
}

func cloneDefaults(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func isRuleFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// NewStore builds a store from already compiled forms, such as those derived
// from an OpenAPI document.
func NewStore(forms ...Form) (*Store, error) {
	store := &Store{forms: make(map[string]Form, len(forms))}
	if err := store.Add(forms...); err != nil {
		return nil, err
	}
	return store, nil
}

// Add registers forms, rejecting ids that are blank or already present.
func (s *Store) Add(forms ...Form) error {
	if s.forms == nil {
		s.forms = make(map[string]Form, len(forms))
	}
	for _, f := range forms {
		id := strings.TrimSpace(f.ID)
		if id == "" {
			return fmt.Errorf("ruleset: form from %s has an empty id", f.Source)
		}
		if _, exists := s.forms[id]; exists {
			return fmt.Errorf("%w: form %q (%s)", ErrDuplicate, id, f.Source)
		}
		if f.Rules == nil {
			f.Rules = validation.NewRuleSet()
		}
		f.ID = id
		s.forms[id] = f
	}
	return nil
}
