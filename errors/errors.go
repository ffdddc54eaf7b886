package errors

import (
	"fmt"
)

// AppError is the unified library error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Sentinels for use with errors.Is. Any *AppError with the same code matches.
var (
	ErrUnsupportedProtocol = &AppError{Code: ErrCodeUnsupportedProtocol, Message: CodeMessage(ErrCodeUnsupportedProtocol)}
	ErrInvalidArgument     = &AppError{Code: ErrCodeInvalidArgument, Message: CodeMessage(ErrCodeInvalidArgument)}
	ErrStageMismatch       = &AppError{Code: ErrCodeStageMismatch, Message: CodeMessage(ErrCodeStageMismatch)}
)

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an *AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || t == nil {
		return false
	}
	return e.Code == t.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// --- Common Error Constructors ---

// UnsupportedProtocol creates a new AppError for a pull the source cannot serve.
func UnsupportedProtocol(protocol string) *AppError {
	return &AppError{
		Code:    ErrCodeUnsupportedProtocol,
		Message: fmt.Sprintf("%s pull is not supported by an asynchronous-only flow", protocol),
		Details: map[string]any{"protocol": protocol},
	}
}

// InvalidArgument creates a new AppError for an argument that cannot be used.
func InvalidArgument(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid argument: %s", reason),
		Details: details,
	}
}

// Validation creates a new AppError for a struct that failed validation.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidArgument, Message: message}
}

// StageMismatch creates a new AppError for a composed stage receiving the wrong flow type.
func StageMismatch(index int, want, got string) *AppError {
	return &AppError{
		Code:    ErrCodeStageMismatch,
		Message: fmt.Sprintf("stage %d expects %s, got %s", index, want, got),
		Details: map[string]any{"stage": index, "want": want, "got": got},
	}
}

// Internal creates a new AppError for an unexpected library failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred",
		Cause: cause,
	}
}
