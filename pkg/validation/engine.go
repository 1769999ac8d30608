package validation

import (
	"strings"
	"unicode/utf8"
)

// Strategy controls what happens after a required check fails.
type Strategy int

const (
	// StrategyExhaustive keeps running length, pattern, and custom checks on
	// the coerced value after a required failure.
	StrategyExhaustive Strategy = iota
	// StrategyShortCircuit stops evaluating a field once it fails required.
	StrategyShortCircuit
)

// String implements fmt.Stringer.
func (s Strategy) String() string {
	switch s {
	case StrategyShortCircuit:
		return "short-circuit"
	default:
		return "exhaustive"
	}
}

// ParseStrategy maps a configuration string onto a Strategy. Unknown values
// yield StrategyExhaustive.
func ParseStrategy(raw string) Strategy {
	s, _ := LookupStrategy(raw)
	return s
}

// LookupStrategy is ParseStrategy that also reports whether raw named a known
// strategy. Matching ignores case and surrounding space; a blank string is not
// known.
func LookupStrategy(raw string) (Strategy, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "short-circuit", "short_circuit", "shortcircuit", "bail":
		return StrategyShortCircuit, true
	case "exhaustive":
		return StrategyExhaustive, true
	default:
		return StrategyExhaustive, false
	}
}

// Option customises a validation run.
type Option func(*config)

type config struct {
	strategy   Strategy
	messages   Messages
	translator Translator
	locale     string
}

// WithStrategy selects the evaluation strategy.
func WithStrategy(strategy Strategy) Option {
	return func(c *config) {
		c.strategy = strategy
	}
}

// WithMessages replaces the message catalogue. Blank entries keep the
// English defaults.
func WithMessages(messages Messages) Option {
	return func(c *config) {
		c.messages = messages.merged()
	}
}

// WithTranslator routes messages through t for locale. Keys the translator
// cannot resolve fall back to the configured catalogue.
func WithTranslator(t Translator, locale string) Option {
	return func(c *config) {
		c.translator = t
		c.locale = locale
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{
		strategy: StrategyExhaustive,
		messages: DefaultMessages(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	return cfg
}

// Result is the outcome of validating one field.
type Result struct {
	Valid  bool
	Errors []string
}

// FormResult is the outcome of validating a whole value set. Order lists the
// failing fields in RuleSet order.
type FormResult struct {
	Valid  bool
	Errors map[string][]string
	Order  []string
}

// ValidateField evaluates value against rule. A nil rule accepts anything.
func ValidateField(value any, rule *FieldRule, opts ...Option) Result {
	return newConfig(opts).validateField(value, rule)
}

// ValidateForm runs ValidateField once for every field in rules. Fields
// missing from values are validated as absent; fields without a rule are never
// rejected.
func ValidateForm(values map[string]any, rules *RuleSet, opts ...Option) FormResult {
	cfg := newConfig(opts)
	result := FormResult{
		Valid:  true,
		Errors: make(map[string][]string),
	}

	rules.Each(func(field string, rule *FieldRule) {
		res := cfg.validateField(values[field], rule)
		if res.Valid {
			return
		}
		result.Valid = false
		result.Errors[field] = res.Errors
		result.Order = append(result.Order, field)
	})

	return result
}

func (c *config) validateField(value any, rule *FieldRule) Result {
	if rule == nil {
		return Result{Valid: true}
	}

	var errs []string

	if rule.Required && IsEmpty(value) {
		errs = append(errs, c.requiredMessage())
		if c.strategy == StrategyShortCircuit {
			return Result{Valid: false, Errors: errs}
		}
	}

	if !rule.Required && isAbsent(value) {
		return Result{Valid: true}
	}

	str := Stringify(value)
	length := utf8.RuneCountInString(str)

	if rule.MinLength > 0 && length < rule.MinLength {
		errs = append(errs, c.minLengthMessage(rule.MinLength))
	}
	if rule.MaxLength > 0 && length > rule.MaxLength {
		errs = append(errs, c.maxLengthMessage(rule.MaxLength))
	}
	if rule.Pattern != nil && !rule.Pattern.MatchString(str) {
		errs = append(errs, c.patternMessage())
	}
	if rule.Custom != nil {
		if res := runCustom(rule.Custom, value); res.Failed() {
			msg := res.Message()
			if msg == "" {
				msg = c.customMessage()
			}
			errs = append(errs, msg)
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// runCustom treats a panicking custom check as a generic failure.
func runCustom(fn CustomFunc, value any) (res CustomResult) {
	defer func() {
		if recover() != nil {
			res = FailGeneric()
		}
	}()
	return fn(value)
}
