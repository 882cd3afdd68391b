package api

import (
	"encoding/json"
	goerrors "errors"
	"net/http"

	"github.com/maksimkurb/valvula-mgr/src/internal/config"
	"github.com/maksimkurb/valvula-mgr/src/internal/errors"
	"github.com/maksimkurb/valvula-mgr/src/internal/log"
)

// ErrorCode represents standard API error codes.
type ErrorCode string

const (
	// ErrCodeInvalidRequest indicates malformed or invalid request data.
	ErrCodeInvalidRequest ErrorCode = "invalid_request"

	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"

	// ErrCodeForbidden indicates the client is not allowed to use the API.
	ErrCodeForbidden ErrorCode = "forbidden"

	// ErrCodeInternalError indicates an internal server error.
	ErrCodeInternalError ErrorCode = "internal_error"

	// ErrCodeValidationFailed indicates request validation failed.
	ErrCodeValidationFailed ErrorCode = "validation_failed"
)

// APIError represents a structured API error response.
type APIError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError for JSON responses.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// NewAPIError creates a new APIError with the given code and message.
func NewAPIError(code ErrorCode, message string) APIError {
	return APIError{Code: code, Message: message}
}

// WithDetails adds details to an APIError.
func (e APIError) WithDetails(details map[string]interface{}) APIError {
	e.Details = details
	return e
}

// WriteError writes an error response to the HTTP response writer.
func WriteError(w http.ResponseWriter, statusCode int, err APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if encErr := json.NewEncoder(w).Encode(ErrorResponse{Error: err}); encErr != nil {
		log.Warnf("Failed to encode error response: %v", encErr)
	}
}

// WriteInvalidRequest writes a 400 Bad Request error.
func WriteInvalidRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, NewAPIError(ErrCodeInvalidRequest, message))
}

// WriteNotFound writes a 404 Not Found error.
func WriteNotFound(w http.ResponseWriter, resource string) {
	WriteError(w, http.StatusNotFound, NewAPIError(ErrCodeNotFound, resource+" not found"))
}

// WriteForbidden writes a 403 Forbidden error.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, NewAPIError(ErrCodeForbidden, message))
}

// WriteInternalError writes a 500 Internal Server Error.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// WriteValidationError writes a 400 Bad Request with validation details.
func WriteValidationError(w http.ResponseWriter, message string, details map[string]interface{}) {
	WriteError(w, http.StatusBadRequest, NewAPIError(ErrCodeValidationFailed, message).WithDetails(details))
}

// statusForCode maps domain error codes to HTTP statuses.
func statusForCode(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeInvalidPort, errors.ErrCodeInvalidOrder, errors.ErrCodeValidation:
		return http.StatusBadRequest
	case errors.ErrCodeListenerNotFound, errors.ErrCodeUnsupportedSection:
		return http.StatusNotFound
	case errors.ErrCodeListenerExists, errors.ErrCodeKeyNotFound, errors.ErrCodeUnsupportedLayout:
		return http.StatusConflict
	case errors.ErrCodeModule:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteDomainError writes err with its domain code and the matching status.
func WriteDomainError(w http.ResponseWriter, err error) {
	var cfgErrs config.ValidationErrors
	if goerrors.As(err, &cfgErrs) {
		details := make(map[string]interface{}, len(cfgErrs))
		for _, e := range cfgErrs {
			details[e.FieldPath] = e.Message
		}
		WriteValidationError(w, "configuration validation failed", details)
		return
	}

	code := errors.CodeOf(err)
	status := statusForCode(code)
	if status == http.StatusInternalServerError {
		log.Errorf("API request failed: %v", err)
	}
	WriteError(w, status, NewAPIError(ErrorCode(code), err.Error()))
}
