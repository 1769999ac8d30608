package ruleset

import "errors"

var (
	// ErrEmptyFile is returned for rule files with no content.
	ErrEmptyFile = errors.New("ruleset: file is empty")
	// ErrInvalidDocument is returned when a file is neither JSON nor YAML.
	ErrInvalidDocument = errors.New("ruleset: invalid JSON or YAML")
	// ErrUnknownValidator is returned when a field names an unregistered check.
	ErrUnknownValidator = errors.New("ruleset: unknown validator")
	// ErrInvalidPattern is returned when a pattern does not compile.
	ErrInvalidPattern = errors.New("ruleset: invalid pattern")
	// ErrInvalidLength is returned for negative or inverted length bounds.
	ErrInvalidLength = errors.New("ruleset: invalid length bounds")
	// ErrDuplicate is returned for repeated form ids or field names.
	ErrDuplicate = errors.New("ruleset: duplicate definition")
	// ErrInvalidStrategy is returned when a form names an unknown strategy.
	ErrInvalidStrategy = errors.New("ruleset: unknown strategy")
	// ErrOrphanMessage is returned when a field sets message without any
	// validators for it to replace.
	ErrOrphanMessage = errors.New("ruleset: message without validators")
	// ErrFormNotFound is returned by Store.Form callers that require a form.
	ErrFormNotFound = errors.New("ruleset: form not found")
)
