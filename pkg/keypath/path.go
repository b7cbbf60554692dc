package keypath

import (
	"fmt"
	"strconv"
	"strings"
)

// Path is a concrete address: an ordered list of literal map keys and
// decimal sequence indexes.
type Path []string

// Parse splits a dotted keypath into its segments.
func Parse(s string) Path {
	return Path(strings.Split(s, "."))
}

// String joins the segments with dots.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Append returns a new path with segment appended, leaving p untouched.
func (p Path) Append(segment string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, segment)
}

// Get walks tree along path. Missing keys, invalid indexes, and scalar
// intermediates report false; a present nil value reports (nil, true).
func Get(tree any, path Path) (any, bool) {
	current := tree
	for _, segment := range path {
		next, ok := child(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Set overwrites the value at path in place. The parent of the final segment
// must already exist; nothing is created along the way.
func Set(tree any, path Path, value any) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: empty path", ErrNotAddressable)
	}
	parent, ok := Get(tree, path[:len(path)-1])
	if !ok {
		return fmt.Errorf("%w: parent of %q not found", ErrNotAddressable, path.String())
	}

	last := path[len(path)-1]
	switch node := parent.(type) {
	case map[string]any:
		node[last] = value
		return nil
	case map[string]string:
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %q holds strings only", ErrNotAddressable, path.String())
		}
		node[last] = str
		return nil
	case []any:
		idx, ok := index(last, len(node))
		if !ok {
			return fmt.Errorf("%w: index %q out of range", ErrNotAddressable, path.String())
		}
		node[idx] = value
		return nil
	case []string:
		idx, ok := index(last, len(node))
		if !ok {
			return fmt.Errorf("%w: index %q out of range", ErrNotAddressable, path.String())
		}
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %q holds strings only", ErrNotAddressable, path.String())
		}
		node[idx] = str
		return nil
	default:
		return fmt.Errorf("%w: parent of %q is not a map or sequence", ErrNotAddressable, path.String())
	}
}

func child(node any, segment string) (any, bool) {
	switch typed := node.(type) {
	case map[string]any:
		v, ok := typed[segment]
		return v, ok
	case map[string]string:
		v, ok := typed[segment]
		return v, ok
	case []any:
		idx, ok := index(segment, len(typed))
		if !ok {
			return nil, false
		}
		return typed[idx], true
	case []string:
		idx, ok := index(segment, len(typed))
		if !ok {
			return nil, false
		}
		return typed[idx], true
	default:
		return nil, false
	}
}

func index(segment string, length int) (int, bool) {
	idx, err := strconv.Atoi(segment)
	if err != nil || idx < 0 || idx >= length {
		return 0, false
	}
	return idx, true
}

// isContainer reports whether v is a map or sequence Get can walk into.
func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, map[string]string, []any, []string:
		return true
	default:
		return false
	}
}
