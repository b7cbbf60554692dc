package document

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	fenceOpen  = []byte("---")
	fenceClose = [][]byte{[]byte("---"), []byte("...")}
)

// SplitFrontMatter separates a leading YAML front matter block from body.
// Content without an opening fence is returned unchanged with nil fields.
func SplitFrontMatter(content []byte) (map[string]any, []byte, error) {
	first, rest, found := cutLine(content)
	if !found || !bytes.Equal(bytes.TrimRight(first, " \t\r"), fenceOpen) {
		return nil, content, nil
	}

	var header []byte
	remaining := rest
	for len(remaining) > 0 {
		line, next, _ := cutLine(remaining)
		if isClosingFence(line) {
			fields := map[string]any{}
			if len(bytes.TrimSpace(header)) > 0 {
				if err := yaml.Unmarshal(header, &fields); err != nil {
					return nil, nil, fmt.Errorf("document: front matter: %w", err)
				}
			}
			return fields, next, nil
		}
		header = append(header, line...)
		header = append(header, '\n')
		remaining = next
	}

	return nil, content, nil
}

func isClosingFence(line []byte) bool {
	trimmed := bytes.TrimRight(line, " \t\r")
	for _, fence := range fenceClose {
		if bytes.Equal(trimmed, fence) {
			return true
		}
	}
	return false
}

func cutLine(b []byte) (line, rest []byte, found bool) {
	if len(b) == 0 {
		return nil, nil, false
	}
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i], b[i+1:], true
	}
	return b, nil, true
}
