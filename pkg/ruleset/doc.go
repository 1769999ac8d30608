// Package ruleset loads declarative form definitions from JSON or YAML files
// and compiles them into validation.RuleSet values.
//
// A rule file declares one or more forms keyed by id:
//
//	forms:
//	  signup:
//	    title: Sign up
//	    strategy: short-circuit
//	    fields:
//	      - name: email
//	        required: true
//	        validators: [email]
//	      - name: password
//	        required: true
//	        minLength: 8
//
// Field order in the file is the order errors are reported in. Custom checks
// are referenced by name and resolved against a validation.Registry; without
// WithRegistry that is the built-in registry for the form's locale. A form's
// strategy and locale are only applied when declared, on top of whatever the
// caller configured globally.
package ruleset
