package ruleset

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Issue is one problem found in a rule file.
type Issue struct {
	Source string
	Form   string
	Field  string
	Err    error
}

func (i Issue) String() string {
	return i.Err.Error()
}

// Lint checks every rule file in fsys and returns all problems found instead
// of stopping at the first one. Issues are ordered by source, form, then field
// position.
func Lint(fsys fs.FS, opts ...Option) ([]Issue, error) {
	if fsys == nil {
		return nil, nil
	}
	l := newLoader(opts)
	var issues []Issue
	formSources := make(map[string]string)

	err := walkRuleFiles(fsys, func(path string, data []byte) error {
		doc, err := parseDocument(data, path)
		if err != nil {
			issues = append(issues, Issue{Source: path, Err: err})
			return nil
		}
		ids := make([]string, 0, len(doc.Forms))
		for id := range doc.Forms {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, rawID := range ids {
			id := strings.TrimSpace(rawID)
			if id == "" {
				issues = append(issues, Issue{Source: path, Err: fmt.Errorf("ruleset: file %s defines an empty form id", path)})
				continue
			}
			if prev, exists := formSources[id]; exists {
				issues = append(issues, Issue{Source: path, Form: id, Err: fmt.Errorf("%w: form %q (file %s, first defined in %s)", ErrDuplicate, id, path, prev)})
				continue
			}
			formSources[id] = path
			_, formIssues := l.compileForm(doc.Forms[rawID], id, path)
			issues = append(issues, formIssues...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return issues, nil
}

// suggest returns the candidate closest to name when it is near enough to be
// a plausible typo.
func suggest(name string, candidates []string) string {
	best := ""
	bestDist := -1
	for _, candidate := range candidates {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(candidate))
		if bestDist < 0 || d < bestDist {
			best, bestDist = candidate, d
		}
	}
	limit := len(name) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}
