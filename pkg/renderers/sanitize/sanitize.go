// Package sanitize holds the bluemonday policy applied to HTML output when
// the sanitize engine option is set.
package sanitize

import (
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy

	languageClass = regexp.MustCompile(`^language-[\w+#.-]+$`)
	checkboxType  = regexp.MustCompile(`^checkbox$`)
)

// HTML strips unsafe markup from rendered output, keeping the elements
// markdown produces (including GFM tables, task list checkboxes, and
// fenced-code language classes).
func HTML(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return Policy().Sanitize(raw)
}

// Policy returns the shared policy. bluemonday policies are safe for
// concurrent use once configured.
func Policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()

		p.AllowAttrs("class").Matching(languageClass).OnElements("code")

		p.AllowElements("input")
		p.AllowAttrs("type").Matching(checkboxType).OnElements("input")
		p.AllowAttrs("checked", "disabled").OnElements("input")

		p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6", "li", "sup")
		p.AllowAttrs("align").Matching(regexp.MustCompile(`^(left|right|center)$`)).OnElements("th", "td")

		policy = p
	})
	return policy
}
