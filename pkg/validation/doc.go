// Package validation evaluates form values against declarative field rules.
//
// A FieldRule describes the constraints attached to one field (required,
// length bounds, a pattern, and an optional custom check). ValidateField runs a
// single rule and ValidateForm runs every rule in a RuleSet, collecting ordered
// messages per field. Neither function panics or returns an error: malformed
// values are coerced with Stringify and judged like any other input.
//
//	rules := validation.NewRuleSet().
//	    Add("username", validation.UsernameRule()).
//	    Add("phone", &validation.FieldRule{Required: true, Pattern: validation.ChinesePhonePattern})
//
//	result := validation.ValidateForm(values, rules)
//	if !result.Valid {
//	    // result.Errors["phone"] -> []string{"Invalid format"}
//	}
//
// Two evaluation strategies exist. StrategyExhaustive (the default) keeps
// running length, pattern, and custom checks after a required failure so every
// problem is reported at once. StrategyShortCircuit stops after the required
// failure.
package validation
