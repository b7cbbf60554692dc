package keypath

import (
	"sort"
	"strconv"
)

// Normalize converts a declarative keypath into its segments. Strings are
// split on dots; sequences must contain strings only.
func Normalize(keypath any) (Path, error) {
	switch typed := keypath.(type) {
	case string:
		return Parse(typed), nil
	case []string:
		return append(Path(nil), typed...), nil
	case Path:
		return append(Path(nil), typed...), nil
	case []any:
		out := make(Path, 0, len(typed))
		for _, segment := range typed {
			str, ok := segment.(string)
			if !ok {
				return nil, invalidArgument(msgInvalidKeypaths)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, invalidArgument(msgInvalidKeypaths)
	}
}

// NormalizeAll normalizes every entry, failing on the first malformed one.
func NormalizeAll(keypaths []any) ([]Path, error) {
	out := make([]Path, 0, len(keypaths))
	for _, keypath := range keypaths {
		path, err := Normalize(keypath)
		if err != nil {
			return nil, err
		}
		out = append(out, path)
	}
	return out, nil
}

// HasWildcard reports whether any segment equals the wildcard token. An empty
// token never matches.
func HasWildcard(path Path, wildcard string) bool {
	if wildcard == "" {
		return false
	}
	for _, segment := range path {
		if segment == wildcard {
			return true
		}
	}
	return false
}

// Expand resolves keypaths against root, replacing wildcard segments with
// every index or key present at that position. Keypaths without a wildcard
// are returned as-is and are not checked for existence. Results follow
// keypath order, then ascending index (or sorted key) order.
func Expand(root any, keypaths []any, wildcard string) ([]Path, error) {
	if !isContainer(root) {
		return nil, invalidArgument(msgInvalidRoot)
	}
	normalized, err := NormalizeAll(keypaths)
	if err != nil {
		return nil, err
	}

	var out []Path
	for _, path := range normalized {
		if !HasWildcard(path, wildcard) {
			out = append(out, path)
			continue
		}
		out = append(out, expandOne(root, path, wildcard)...)
	}
	return out, nil
}

func expandOne(root any, path Path, wildcard string) []Path {
	candidates := []Path{{}}
	for _, segment := range path {
		next := make([]Path, 0, len(candidates))
		for _, prefix := range candidates {
			if segment != wildcard {
				if _, ok := Get(root, prefix.Append(segment)); ok {
					next = append(next, prefix.Append(segment))
				}
				continue
			}
			node, ok := Get(root, prefix)
			if !ok {
				continue
			}
			for _, key := range childKeys(node) {
				next = append(next, prefix.Append(key))
			}
		}
		candidates = next
		if len(candidates) == 0 {
			return nil
		}
	}
	return candidates
}

// childKeys lists the segments a wildcard fans out to. Scalars yield none.
func childKeys(node any) []string {
	switch typed := node.(type) {
	case []any:
		return indexKeys(len(typed))
	case []string:
		return indexKeys(len(typed))
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		return keys
	case map[string]string:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		return keys
	default:
		return nil
	}
}

func indexKeys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	return keys
}
