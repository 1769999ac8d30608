// Package ident generates identifiers for fields and form instances.
package ident

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultPrefix is used by WithPrefix when prefix is blank.
const DefaultPrefix = "fk"

// New returns a random UUID string.
func New() string {
	return uuid.NewString()
}

// WithPrefix returns prefix followed by a short random suffix, for example
// "fk-3f2a9c1be". The suffix is the first nine hex digits of a random UUID.
func WithPrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + id[:9]
}

// Stable derives a deterministic id for name within namespace.
func Stable(namespace, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(namespace+":"+name)).String()
}
