package format

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

func stripPolicy() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// StripTags removes every HTML element from s and trims the result. Entities
// produced by the sanitiser are decoded so plain text round-trips.
func StripTags(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(stripPolicy().Sanitize(s)))
}

// SanitizeValue strips markup from string values and leaves everything else
// untouched. It matches form.Sanitizer so controllers can install it directly.
func SanitizeValue(_ string, value any) any {
	if s, ok := value.(string); ok {
		return StripTags(s)
	}
	return value
}
