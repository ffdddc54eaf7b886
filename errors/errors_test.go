package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeInvalidArgument, "bad size")
	if err.Code != ErrCodeInvalidArgument {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidArgument, err.Code)
	}
	if err.Message != "bad size" {
		t.Errorf("expected message 'bad size', got %q", err.Message)
	}
}

func TestAppError_UnsupportedProtocol_Success(t *testing.T) {
	err := UnsupportedProtocol("synchronous")
	if err.Code != ErrCodeUnsupportedProtocol {
		t.Errorf("expected UNSUPPORTED_PROTOCOL, got %s", err.Code)
	}
	if err.Details["protocol"] != "synchronous" {
		t.Errorf("expected protocol=synchronous, got %v", err.Details["protocol"])
	}
	if !strings.Contains(err.Message, "synchronous") {
		t.Errorf("expected message to name the protocol, got %q", err.Message)
	}
}

func TestAppError_InvalidArgument_Success(t *testing.T) {
	err := InvalidArgument("size", "must be positive")
	if err.Code != ErrCodeInvalidArgument {
		t.Errorf("expected INVALID_ARGUMENT, got %s", err.Code)
	}
	if err.Details["field"] != "size" {
		t.Errorf("expected field=size, got %v", err.Details["field"])
	}
}

func TestAppError_InvalidArgument_EmptyField(t *testing.T) {
	err := InvalidArgument("", "nothing to open")
	if _, ok := err.Details["field"]; ok {
		t.Error("expected no 'field' key in details when field is empty")
	}
}

func TestAppError_StageMismatch_Success(t *testing.T) {
	err := StageMismatch(2, "*flow.Flow[int]", "*flow.Flow[string]")
	if err.Code != ErrCodeStageMismatch {
		t.Errorf("expected STAGE_MISMATCH, got %s", err.Code)
	}
	if err.Details["stage"] != 2 {
		t.Errorf("expected stage=2, got %v", err.Details["stage"])
	}
}

func TestAppError_Internal_Success(t *testing.T) {
	cause := fmt.Errorf("cursor lost")
	err := Internal(cause)
	if err.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", err.Code)
	}
	if err.Cause != cause {
		t.Error("expected cause to be set")
	}
}

func TestAppError_Is_MatchesByCode(t *testing.T) {
	err := UnsupportedProtocol("synchronous")
	if !stderrors.Is(err, ErrUnsupportedProtocol) {
		t.Error("expected errors.Is to match the sentinel by code")
	}
	if stderrors.Is(err, ErrInvalidArgument) {
		t.Error("expected no match across codes")
	}

	wrapped := fmt.Errorf("pull failed: %w", InvalidArgument("size", "zero"))
	if !stderrors.Is(wrapped, ErrInvalidArgument) {
		t.Error("expected errors.Is to see through fmt wrapping")
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := InvalidArgument("size", "zero").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := InvalidArgument("size", "zero").WithDetails(map[string]any{
		"operator": "batch",
	})
	if err.Details["operator"] != "batch" {
		t.Errorf("expected operator=batch in details")
	}
	if err.Details["field"] != "size" {
		t.Error("expected original details to be preserved")
	}
}

func TestAppError_WithDetails_Nil(t *testing.T) {
	err := Internal(nil).WithDetails(nil)
	if err.Details == nil {
		t.Fatal("expected Details map to be initialized even with nil input")
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_Error_Format(t *testing.T) {
	s := InvalidArgument("size", "must be positive").Error()
	if !strings.Contains(s, "INVALID_ARGUMENT") {
		t.Errorf("expected error string to contain code, got %q", s)
	}
	if !strings.Contains(s, "must be positive") {
		t.Errorf("expected error string to contain message, got %q", s)
	}
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", StageMismatch(0, "a", "b"))
	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to find the AppError")
	}
	if appErr.Code != ErrCodeStageMismatch {
		t.Errorf("expected STAGE_MISMATCH, got %s", appErr.Code)
	}
	if IsAppError(fmt.Errorf("plain")) {
		t.Error("plain errors are not AppErrors")
	}
	if !HasCode(wrapped, ErrCodeStageMismatch) {
		t.Error("expected HasCode to match")
	}
	if HasCode(nil, ErrCodeStageMismatch) {
		t.Error("nil error has no code")
	}
}

func TestCodeMessage(t *testing.T) {
	if CodeMessage(ErrCodeInvalidArgument) != "invalid argument" {
		t.Errorf("unexpected message %q", CodeMessage(ErrCodeInvalidArgument))
	}
	if CodeMessage(ErrorCode("OTHER")) != "OTHER" {
		t.Error("unknown codes fall back to the code itself")
	}
}
