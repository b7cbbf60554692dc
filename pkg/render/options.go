package render

import (
	"strconv"
	"strings"
)

// EngineOptions are backend settings forwarded verbatim to every Render call.
// Keys mirror the configuration file (gfm, sanitize, breaks, ...); each
// backend reads the ones it understands and ignores the rest.
type EngineOptions map[string]any

// Bool reads key as a boolean, accepting "true"/"false" strings.
func (o EngineOptions) Bool(key string, fallback bool) bool {
	raw, ok := o[key]
	if !ok || raw == nil {
		return fallback
	}
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fallback
		}
		return parsed
	default:
		return fallback
	}
}

// Int reads key as an integer. YAML and JSON decoders produce int and
// float64 respectively; both are accepted.
func (o EngineOptions) Int(key string, fallback int) int {
	raw, ok := o[key]
	if !ok || raw == nil {
		return fallback
	}
	switch v := raw.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fallback
		}
		return parsed
	default:
		return fallback
	}
}

// String reads key as a trimmed string.
func (o EngineOptions) String(key, fallback string) string {
	raw, ok := o[key].(string)
	if !ok {
		return fallback
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

// Clone returns a shallow copy, never nil.
func (o EngineOptions) Clone() EngineOptions {
	out := make(EngineOptions, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}
