package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Protocol errors
const (
	// ErrCodeUnsupportedProtocol indicates a synchronous pull on an asynchronous-only flow.
	ErrCodeUnsupportedProtocol ErrorCode = "UNSUPPORTED_PROTOCOL"
)

// Argument errors
const (
	// ErrCodeInvalidArgument indicates an operator or source was built with an unusable argument.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeStageMismatch indicates two composed stages disagree on the element type.
	ErrCodeStageMismatch ErrorCode = "STAGE_MISMATCH"
)

// Internal errors
const (
	// ErrCodeInternal indicates a failure inside the library itself.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var codeMessages = map[ErrorCode]string{
	ErrCodeUnsupportedProtocol: "unsupported pull protocol",
	ErrCodeInvalidArgument:     "invalid argument",
	ErrCodeStageMismatch:       "stage type mismatch",
	ErrCodeInternal:            "internal error",
}

// CodeMessage returns the generic description of a code.
func CodeMessage(code ErrorCode) string {
	if msg, ok := codeMessages[code]; ok {
		return msg
	}
	return string(code)
}
