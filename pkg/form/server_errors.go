package form

import (
	"sort"
	"strconv"
	"strings"
)

// ApplyServerErrors records errors reported by a backend after submission.
// Payload keys may use JSON pointers ("/body/email"), JSONPath-like prefixes
// ("$.email"), bracket indexes, or request wrappers ("data.email"); they are
// matched against the ruled and known fields. Messages that cannot be tied to
// a field are trimmed, de-duplicated, and returned as form-level errors.
func (c *Controller) ApplyServerErrors(payload map[string][]string) []string {
	if len(payload) == 0 {
		return nil
	}

	known := c.knownFields()
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fieldErrs := make(map[string][]string)
	var formErrs []string
	for _, key := range keys {
		msgs := normalizeMessages(payload[key])
		if len(msgs) == 0 {
			continue
		}
		field, ok := mapErrorPath(key, known)
		if !ok {
			formErrs = append(formErrs, msgs...)
			continue
		}
		fieldErrs[field] = append(fieldErrs[field], msgs...)
	}

	if len(fieldErrs) > 0 {
		c.mu.Lock()
		for field, msgs := range fieldErrs {
			c.errors[field] = normalizeMessages(msgs)
		}
		state := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(state)
	}

	return normalizeMessages(formErrs)
}

func (c *Controller) knownFields() map[string]struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	known := make(map[string]struct{}, len(c.values)+c.rules.Len())
	for field := range c.values {
		known[field] = struct{}{}
	}
	for _, field := range c.rules.Fields() {
		known[field] = struct{}{}
	}
	return known
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, known map[string]struct{}) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", false
	}
	if _, ok := known[trimmed]; ok {
		return trimmed, true
	}

	segments := parsePathSegments(trimmed)
	if len(segments) == 0 {
		return "", false
	}

	for _, variant := range [][]string{
		segments,
		dropWrapperSegments(segments),
		stripNumericSegments(dropWrapperSegments(segments)),
	} {
		for end := len(variant); end > 0; end-- {
			candidate := strings.Join(variant[:end], ".")
			if _, ok := known[candidate]; ok {
				return candidate, true
			}
		}
	}
	return "", false
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = clean[1:]
	}
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

var wrapperSegments = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"attributes": {},
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 0 {
		if _, ok := wrapperSegments[strings.ToLower(out[0])]; !ok {
			break
		}
		out = out[1:]
	}
	return out
}

func stripNumericSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(key) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
