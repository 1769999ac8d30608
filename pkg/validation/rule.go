package validation

import (
	"regexp"
	"sort"
	"strings"
)

// FieldRule is a declarative constraint on a single field. Zero-valued
// MinLength/MaxLength disable the corresponding check. Rules are treated as
// immutable once handed to a RuleSet; callers own them and the engine only
// reads them.
type FieldRule struct {
	Required  bool
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
	Custom    CustomFunc
}

// CustomFunc receives the raw, non-coerced field value.
type CustomFunc func(value any) CustomResult

// CustomResult is the outcome of a custom check. The zero value passes.
type CustomResult struct {
	failed  bool
	message string
}

// Pass reports a successful custom check.
func Pass() CustomResult { return CustomResult{} }

// Fail reports a failed custom check carrying message. An empty message falls
// back to the generic failure text.
func Fail(message string) CustomResult {
	return CustomResult{failed: true, message: strings.TrimSpace(message)}
}

// FailGeneric reports a failed custom check without a specific message.
func FailGeneric() CustomResult { return CustomResult{failed: true} }

// Failed reports whether the check failed.
func (r CustomResult) Failed() bool { return r.failed }

// Message returns the failure message, empty for passes and generic failures.
func (r CustomResult) Message() string { return r.message }

// CustomMessage adapts a func returning an error message. An empty string
// passes.
func CustomMessage(fn func(value any) string) CustomFunc {
	if fn == nil {
		return nil
	}
	return func(value any) CustomResult {
		if msg := strings.TrimSpace(fn(value)); msg != "" {
			return Fail(msg)
		}
		return Pass()
	}
}

// CustomBool adapts a predicate. false yields the generic failure message.
func CustomBool(fn func(value any) bool) CustomFunc {
	if fn == nil {
		return nil
	}
	return func(value any) CustomResult {
		if fn(value) {
			return Pass()
		}
		return FailGeneric()
	}
}

// RuleSet maps field names to at most one FieldRule, remembering insertion
// order so results are reported deterministically.
type RuleSet struct {
	fields []string
	rules  map[string]*FieldRule
}

// NewRuleSet returns an empty RuleSet.
func NewRuleSet() *RuleSet {
	return &RuleSet{rules: make(map[string]*FieldRule)}
}

// RulesFromMap builds a RuleSet from a plain map. Map iteration order is not
// stable, so fields are ordered alphabetically.
func RulesFromMap(rules map[string]*FieldRule) *RuleSet {
	keys := make([]string, 0, len(rules))
	for key := range rules {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rs := NewRuleSet()
	for _, key := range keys {
		rs.Add(key, rules[key])
	}
	return rs
}

// Add attaches rule to field. Re-adding a field replaces the rule but keeps the
// original position. Empty field names and nil rules are ignored.
func (rs *RuleSet) Add(field string, rule *FieldRule) *RuleSet {
	field = strings.TrimSpace(field)
	if field == "" || rule == nil {
		return rs
	}
	if rs.rules == nil {
		rs.rules = make(map[string]*FieldRule)
	}
	if _, exists := rs.rules[field]; !exists {
		rs.fields = append(rs.fields, field)
	}
	rs.rules[field] = rule
	return rs
}

// Rule returns the rule attached to field.
func (rs *RuleSet) Rule(field string) (*FieldRule, bool) {
	if rs == nil {
		return nil, false
	}
	rule, ok := rs.rules[field]
	return rule, ok
}

// Fields lists ruled fields in insertion order.
func (rs *RuleSet) Fields() []string {
	if rs == nil {
		return nil
	}
	return append([]string(nil), rs.fields...)
}

// Len reports how many fields carry a rule.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.fields)
}

// Each visits every rule in insertion order.
func (rs *RuleSet) Each(fn func(field string, rule *FieldRule)) {
	if rs == nil || fn == nil {
		return
	}
	for _, field := range rs.fields {
		fn(field, rs.rules[field])
	}
}
