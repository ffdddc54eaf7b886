package validation

import (
	"strings"

	"github.com/kbukum/flowkit/errors"
)

// FieldError is a validation failure for one config field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string { return e.Field + ": " + e.Message }

// Validator accumulates field errors from struct tags, nested config
// sections, and cross-field rules, and reports them as one error.
type Validator struct {
	errors []FieldError
}

// New creates an empty Validator.
func New() *Validator { return &Validator{} }

func (v *Validator) add(field, message string) {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any field error was recorded.
func (v *Validator) HasErrors() bool { return len(v.errors) > 0 }

// Errors returns the recorded field errors in the order they were added.
func (v *Validator) Errors() []FieldError { return v.errors }

// Custom records message for field unless ok holds.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	if !ok {
		v.add(field, message)
	}
	return v
}

// Merge folds err into v. Field errors carried by a validation AppError from
// this package are kept as they are; any other error is recorded under field.
func (v *Validator) Merge(field string, err error) *Validator {
	if err == nil {
		return v
	}
	if appErr, ok := errors.AsAppError(err); ok {
		if fields, ok := appErr.Details["fields"].([]FieldError); ok {
			v.errors = append(v.errors, fields...)
			return v
		}
	}
	v.add(field, err.Error())
	return v
}

// Validate returns an INVALID_ARGUMENT AppError joining every field error,
// or nil when there are none.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}
	parts := make([]string, len(v.errors))
	for i, e := range v.errors {
		parts[i] = e.String()
	}
	appErr := errors.Validation(strings.Join(parts, "; "))
	appErr.Details = map[string]any{"fields": v.errors}
	return appErr
}
