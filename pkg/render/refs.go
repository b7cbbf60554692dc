package render

import (
	"fmt"
	"sort"
	"strings"
)

// RefsToMarkdown renders refs as markdown reference-style link definitions,
// one "[name]: target" line per entry, sorted by name.
func RefsToMarkdown(refs map[string]string) string {
	if len(refs) == 0 {
		return ""
	}
	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("[%s]: %s", name, refs[name]))
	}
	return strings.Join(lines, "\n")
}

// PrefixBlock returns the text prepended to every rendered value: the link
// definitions followed by a blank line, or "" when refs is empty.
func PrefixBlock(refs map[string]string) string {
	block := RefsToMarkdown(refs)
	if block == "" {
		return ""
	}
	return block + "\n\n"
}

// RefsFromValue converts a decoded metadata node into a refs map. Non-string
// values are formatted with fmt. It reports false when value is not a map.
func RefsFromValue(value any) (map[string]string, bool) {
	switch typed := value.(type) {
	case map[string]string:
		out := make(map[string]string, len(typed))
		for k, v := range typed {
			out[k] = v
		}
		return out, true
	case map[string]any:
		out := make(map[string]string, len(typed))
		for k, v := range typed {
			if str, ok := v.(string); ok {
				out[k] = str
				continue
			}
			out[k] = fmt.Sprint(v)
		}
		return out, true
	default:
		return nil, false
	}
}
