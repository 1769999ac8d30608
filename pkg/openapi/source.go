package openapi

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// SourceKind enumerates where a document can be read from.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Source identifies an OpenAPI document.
type Source struct {
	Kind     SourceKind
	Location string
}

func (s Source) String() string {
	return string(s.Kind) + ":" + s.Location
}

// SourceFromFile points at a file on disk.
func SourceFromFile(path string) Source {
	return Source{Kind: SourceKindFile, Location: filepath.Clean(path)}
}

// SourceFromFS points at a file inside the loader's fs.FS.
func SourceFromFS(name string) Source {
	return Source{Kind: SourceKindFS, Location: name}
}

// SourceFromURL points at an http(s) endpoint.
func SourceFromURL(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Source{}, fmt.Errorf("openapi: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return Source{}, fmt.Errorf("openapi: invalid URL %q: %w", raw, err)
	}
	return Source{Kind: SourceKindURL, Location: raw}, nil
}

// ParseSource classifies raw as a URL when it carries an http(s) scheme and
// as a file path otherwise.
func ParseSource(raw string) (Source, error) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return SourceFromURL(raw)
	}
	if lower == "" {
		return Source{}, fmt.Errorf("openapi: empty source")
	}
	return SourceFromFile(raw), nil
}
