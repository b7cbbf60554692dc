package document

import (
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern selects markdown documents at any depth.
const DefaultPattern = "**/*.{md,markdown}"

// Matcher selects document identifiers with a doublestar glob.
type Matcher struct {
	pattern string
}

// NewMatcher validates pattern. An empty pattern uses DefaultPattern.
func NewMatcher(pattern string) (Matcher, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return Matcher{}, fmt.Errorf("document: invalid pattern %q", pattern)
	}
	return Matcher{pattern: pattern}, nil
}

// Pattern returns the glob in use.
func (m Matcher) Pattern() string {
	return m.pattern
}

// Match reports whether id matches the pattern.
func (m Matcher) Match(id string) bool {
	ok, err := doublestar.Match(m.pattern, id)
	return err == nil && ok
}

// Filter returns the matching identifiers of files, sorted.
func (m Matcher) Filter(files Collection) []string {
	var out []string
	for id := range files {
		if m.Match(id) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
