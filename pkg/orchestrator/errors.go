package orchestrator

import "errors"

// ErrGlobalRefsNotFound is matched by the ConfigError returned when the
// globalRefs keypath does not resolve to a map in the metadata tree.
var ErrGlobalRefsNotFound = errors.New("orchestrator: globalRefs not found")

// ConfigError reports an option that cannot be honoured with the inputs of a
// pass. It is returned before any rendering starts.
type ConfigError struct {
	Option  string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	return e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
