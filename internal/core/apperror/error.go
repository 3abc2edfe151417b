// Package apperror provides structured error handling for the API.
// Every business error returned to a caller is an AppError so the HTTP edge
// can render a consistent {code, message, details} body.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes rendered in the response body.
const (
	CodeInternal   = "INTERNAL_ERROR"
	CodeValidation = "VALIDATION_ERROR"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict    = "CONFLICT"
	CodeDuplicate   = "DUPLICATE_ENTRY"
	CodeIdempotency = "IDEMPOTENCY_CONFLICT"
)

// DetailErrors is the details key holding the full list of validation messages.
const DetailErrors = "errors"

// AppError is the standard error type of the application.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, ids, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// Messages returns the validation messages carried by the error.
// A validation error built from a single message yields that message.
func (e *AppError) Messages() []string {
	if e.Details != nil {
		if list, ok := e.Details[DetailErrors].([]string); ok {
			return list
		}
	}
	return []string{e.Message}
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{DetailErrors: []string{message}},
	}
}

// NewValidationList creates a validation error (400) that carries every
// violation found, so a client can show all of them at once.
func NewValidationList(messages []string) *AppError {
	msg := "validation failed"
	if len(messages) == 1 {
		msg = messages[0]
	}
	list := make([]string, len(messages))
	copy(list, messages)
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{DetailErrors: list},
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInternal wraps an unexpected failure. Only the code and a generic
// message reach the client; err stays in the logs.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewIdempotencyConflict creates error when operation is already in progress
func NewIdempotencyConflict(key string) *AppError {
	return &AppError{
		Code:       CodeIdempotency,
		Message:    "operation with this idempotency key is still in progress",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"idempotency_key": key},
	}
}

// NewIdempotencyMismatch is returned when the same idempotency key is reused for
// a different request (different user/operation/body hash).
func NewIdempotencyMismatch(key string) *AppError {
	return &AppError{
		Code:       CodeIdempotency,
		Message:    "idempotency key was used for a different request",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"idempotency_key": key},
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicate creates a duplicate entry error (409)
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsValidation checks if error is CodeValidation
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

// IsConflict reports conflict and duplicate errors.
func IsConflict(err error) bool {
	return hasCode(err, CodeConflict) || hasCode(err, CodeDuplicate)
}

func hasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// Collector accumulates validation messages so every violation is reported
// in one round trip instead of failing on the first.
type Collector struct {
	messages []string
}

// Add appends a message.
func (c *Collector) Add(message string) {
	c.messages = append(c.messages, message)
}

// Addf appends a formatted message.
func (c *Collector) Addf(format string, args ...any) {
	c.messages = append(c.messages, fmt.Sprintf(format, args...))
}

// Merge appends the messages of a validation error; other errors are returned as-is.
func (c *Collector) Merge(err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok && appErr.Code == CodeValidation {
		c.messages = append(c.messages, appErr.Messages()...)
		return nil
	}
	return err
}

// Len returns the number of collected messages.
func (c *Collector) Len() int { return len(c.messages) }

// Err returns a validation error carrying every message, or nil.
func (c *Collector) Err() error {
	if len(c.messages) == 0 {
		return nil
	}
	return NewValidationList(c.messages)
}
