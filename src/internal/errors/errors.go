// Package errors provides domain-specific error types for valvula-mgr.
//
// Errors carry a code so callers (CLI and HTTP API) can tell apart conditions
// like a missing Postfix declaration from an unsupported layout without
// matching on message text.
package errors

import "fmt"

// ErrorCode represents a category of error that can occur in the application.
type ErrorCode string

const (
	// ErrCodeConfig indicates a configuration-related error (settings file, valvula.conf, main.cf I/O).
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeKeyNotFound indicates that augmentation was attempted on a declaration that does not exist.
	ErrCodeKeyNotFound ErrorCode = "KEY_NOT_FOUND"

	// ErrCodeUnsupportedLayout indicates a declaration layout the merger refuses to edit.
	ErrCodeUnsupportedLayout ErrorCode = "UNSUPPORTED_LAYOUT"

	// ErrCodeInvalidPort indicates a non-numeric or out of range port.
	ErrCodeInvalidPort ErrorCode = "INVALID_PORT"

	// ErrCodeInvalidOrder indicates an order other than "first" or "last".
	ErrCodeInvalidOrder ErrorCode = "INVALID_ORDER"

	// ErrCodeUnsupportedSection indicates a Postfix restriction list that is not in the catalogue.
	ErrCodeUnsupportedSection ErrorCode = "UNSUPPORTED_SECTION"

	// ErrCodeListenerNotFound indicates that no listener is declared at host:port.
	ErrCodeListenerNotFound ErrorCode = "LISTENER_NOT_FOUND"

	// ErrCodeListenerExists indicates that a listener is already declared at host:port.
	ErrCodeListenerExists ErrorCode = "LISTENER_EXISTS"

	// ErrCodeModule indicates an error related to valvula modules.
	ErrCodeModule ErrorCode = "MODULE_ERROR"

	// ErrCodeService indicates that a daemon control command failed.
	ErrCodeService ErrorCode = "SERVICE_ERROR"

	// ErrCodeValidation indicates a validation error.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Error represents a domain-specific error with an error code and optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new domain error with the specified code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the code of the first *Error in err's chain, or ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return ErrCodeInternal
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, cause error) *Error {
	return Wrap(ErrCodeConfig, message, cause)
}

// NewInvalidPortError creates a new port validation error.
func NewInvalidPortError(message string) *Error {
	return New(ErrCodeInvalidPort, message)
}

// NewListenerNotFoundError reports a listener missing at host:port.
func NewListenerNotFoundError(host string, port int) *Error {
	return New(ErrCodeListenerNotFound, fmt.Sprintf("listener %s:%d is not declared", host, port))
}

// NewModuleError creates a new module error.
func NewModuleError(message string, cause error) *Error {
	return Wrap(ErrCodeModule, message, cause)
}

// NewServiceError creates a new daemon control error.
func NewServiceError(message string, cause error) *Error {
	return Wrap(ErrCodeService, message, cause)
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, cause error) *Error {
	return Wrap(ErrCodeValidation, message, cause)
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *Error {
	return Wrap(ErrCodeInternal, message, cause)
}
