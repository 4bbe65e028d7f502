package errors

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies API errors for status mapping.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindBadRequest      ErrorKind = "bad_request"
	KindNotFound        ErrorKind = "not_found"
	KindUnauthorized    ErrorKind = "unauthorized"
	KindPaymentRequired ErrorKind = "payment_required"
	KindConflict        ErrorKind = "conflict"
	KindInternal        ErrorKind = "internal"
)

// APIError is the structured error body every endpoint returns.
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus maps the error kind to a status code.
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindPaymentRequired:
		return http.StatusPaymentRequired
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with field details.
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{Kind: KindValidation, Message: message, Details: fields}
}

// NewBadRequestError creates a bad request error.
func NewBadRequestError(message string) *APIError {
	return &APIError{Kind: KindBadRequest, Message: message}
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(resource string) *APIError {
	return &APIError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// NewUnauthorizedError creates an unauthorized error.
func NewUnauthorizedError(message string) *APIError {
	return &APIError{Kind: KindUnauthorized, Message: message}
}

// NewPaymentRequiredError creates an insufficient-credits error.
func NewPaymentRequiredError(message string) *APIError {
	return &APIError{Kind: KindPaymentRequired, Message: message}
}

// NewConflictError creates a conflict error.
func NewConflictError(message string) *APIError {
	return &APIError{Kind: KindConflict, Message: message}
}

// NewInternalError creates an internal server error.
func NewInternalError(message string) *APIError {
	return &APIError{Kind: KindInternal, Message: message}
}
