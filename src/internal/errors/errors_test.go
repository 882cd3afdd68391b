package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "error without cause",
			err:      &Error{Code: ErrCodeKeyNotFound, Message: "smtpd_data_restrictions not declared"},
			expected: "[KEY_NOT_FOUND] smtpd_data_restrictions not declared",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeConfig, "failed to read main.cf", errors.New("permission denied")),
			expected: "[CONFIG_ERROR] failed to read main.cf: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "wrapper", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestError_Is(t *testing.T) {
	err1 := &Error{Code: ErrCodeUnsupportedLayout, Message: "test error"}
	err2 := &Error{Code: ErrCodeUnsupportedLayout, Message: "another error"}
	err3 := &Error{Code: ErrCodeInvalidPort, Message: "port error"}

	if !err1.Is(err2) {
		t.Errorf("Expected errors with same code to match")
	}

	if err1.Is(err3) {
		t.Errorf("Expected errors with different codes to not match")
	}

	wrapped := fmt.Errorf("connect: %w", err1)
	if !errors.Is(wrapped, err2) {
		t.Errorf("Expected errors.Is to see through fmt wrapping")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ErrCodeInternal},
		{"plain", errors.New("boom"), ErrCodeInternal},
		{"direct", NewInvalidPortError("bad"), ErrCodeInvalidPort},
		{"wrapped", fmt.Errorf("ctx: %w", NewListenerNotFoundError("127.0.0.1", 3579)), ErrCodeListenerNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewConfigError(t *testing.T) {
	cause := errors.New("file not found")
	err := NewConfigError("failed to load valvula.conf", cause)

	if err.Code != ErrCodeConfig {
		t.Errorf("Expected code %v, got %v", ErrCodeConfig, err.Code)
	}

	if err.Message != "failed to load valvula.conf" {
		t.Errorf("Expected message 'failed to load valvula.conf', got %v", err.Message)
	}

	if err.Cause != cause {
		t.Errorf("Expected cause to be preserved")
	}
}
