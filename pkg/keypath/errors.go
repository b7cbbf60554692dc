package keypath

import "errors"

// CodeInvalidArgument identifies malformed roots or keypath lists.
const CodeInvalidArgument = "EINVALID_ARGUMENT"

var (
	// ErrInvalidArgument matches every *Error carrying CodeInvalidArgument.
	ErrInvalidArgument = errors.New("keypath: invalid argument")
	// ErrNotAddressable is returned by Set when the parent of the final segment
	// does not exist or cannot hold the value.
	ErrNotAddressable = errors.New("keypath: path not addressable")
)

const (
	msgInvalidRoot     = "root must be an object or array"
	msgInvalidKeypaths = "keypaths must be strings or arrays of strings"
)

// Error describes a malformed Expand input. Error returns Message verbatim so
// callers can surface it without a package prefix.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrInvalidArgument) match invalid argument errors.
func (e *Error) Is(target error) bool {
	return target == ErrInvalidArgument && e.Code == CodeInvalidArgument
}

func invalidArgument(message string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: message}
}
