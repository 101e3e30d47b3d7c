package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Application error codes.
// These map to HTTP status codes and determine user-facing messages.
const (
	EINVALID      = "invalid"         // 400 - Validation error (bad input)
	EUNAUTHORIZED = "unauthorized"    // 401 - Authentication required or failed
	EFORBIDDEN    = "forbidden"       // 403 - Authenticated but not permitted
	ENOTFOUND     = "not_found"       // 404 - Resource not found
	ECONFLICT     = "conflict"        // 409 - Resource conflict (duplicate email, etc.)
	ETOOLARGE     = "too_large"       // 413 - Request body or upload too large
	ERATELIMIT    = "rate_limit"      // 429 - Too many requests
	EINTERNAL     = "internal"        // 500 - Internal server error
	ENOTIMPL      = "not_implemented" // 501 - Feature not implemented
)

// GenericMessage replaces the message of non-operational errors outside development.
const GenericMessage = "Something went wrong"

// Error represents an application error with a code and message.
// It implements the error interface and supports error wrapping.
type Error struct {
	// Code is a machine-readable error code (e.g., EINVALID, ENOTFOUND).
	Code string

	// Message is a human-readable error message.
	Message string

	// Op is the operation where the error occurred (e.g., "cart.add").
	// Used for debugging and logging, not shown to users.
	Op string

	// Err is the underlying error, if any.
	Err error

	// Operational marks an expected failure whose message is safe to show
	// to clients in every environment.
	Operational bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		if e.Op != "" {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode extracts the error code from an error.
// Returns EINTERNAL for non-domain errors.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return EINTERNAL
}

// ErrorStatus maps an error to its HTTP status code. Unknown errors are 500.
func ErrorStatus(err error) int {
	return StatusForCode(ErrorCode(err))
}

// StatusForCode maps a domain error code to an HTTP status code.
func StatusForCode(code string) int {
	switch code {
	case EINVALID:
		return http.StatusBadRequest
	case EUNAUTHORIZED:
		return http.StatusUnauthorized
	case EFORBIDDEN:
		return http.StatusForbidden
	case ENOTFOUND:
		return http.StatusNotFound
	case ECONFLICT:
		return http.StatusConflict
	case ETOOLARGE:
		return http.StatusRequestEntityTooLarge
	case ERATELIMIT:
		return http.StatusTooManyRequests
	case ENOTIMPL:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// IsOperational reports whether err is an expected, client-safe failure.
func IsOperational(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Operational
	}
	return false
}

// ErrorMessage extracts a user-facing message from an error.
// Non-operational errors are replaced with GenericMessage.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) && e.Operational {
		return e.Message
	}

	return GenericMessage
}

// RawMessage returns the message of a domain error, or err.Error() for
// anything else. Only for development responses and logs.
func RawMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ErrorOp extracts the operation from an error (for logging).
func ErrorOp(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}

// Errorf creates a new domain error with formatted message.
// Every code except EINTERNAL is operational.
// Example: domain.Errorf(domain.EINVALID, "product.list", "invalid sort field: %s", field)
func Errorf(code, op, format string, args ...interface{}) error {
	return &Error{
		Code:        code,
		Op:          op,
		Message:     fmt.Sprintf(format, args...),
		Operational: code != EINTERNAL,
	}
}

// WrapError wraps an existing error with a domain error code and operation.
// Returns nil if err is nil.
func WrapError(err error, code, op, message string) error {
	if err == nil {
		return nil
	}

	return &Error{
		Code:        code,
		Op:          op,
		Message:     message,
		Err:         err,
		Operational: code != EINTERNAL,
	}
}

// IsCode returns true if err has the given error code.
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}

// NotFound creates a not found error for a resource.
// Example: domain.NotFound("cart.add", "Product") -> "Product not found"
func NotFound(op, resource string) error {
	return &Error{
		Code:        ENOTFOUND,
		Op:          op,
		Message:     resource + " not found",
		Operational: true,
	}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(op, message string) error {
	return &Error{
		Code:        EUNAUTHORIZED,
		Op:          op,
		Message:     message,
		Operational: true,
	}
}

// Forbidden creates a forbidden error.
func Forbidden(op, message string) error {
	return &Error{
		Code:        EFORBIDDEN,
		Op:          op,
		Message:     message,
		Operational: true,
	}
}

// Invalid creates a validation error for a single issue.
func Invalid(op, message string) error {
	return &Error{
		Code:        EINVALID,
		Op:          op,
		Message:     message,
		Operational: true,
	}
}

// Conflict creates a conflict error.
func Conflict(op, message string) error {
	return &Error{
		Code:        ECONFLICT,
		Op:          op,
		Message:     message,
		Operational: true,
	}
}

// Upstream creates an operational 500 for a failing external collaborator
// (media host, etc.) whose failure message is safe to report.
func Upstream(err error, op, message string) error {
	return &Error{
		Code:        EINTERNAL,
		Op:          op,
		Message:     message,
		Err:         err,
		Operational: true,
	}
}

// Internal creates a non-operational internal error.
// The message shown to users outside development is GenericMessage.
func Internal(err error, op, message string) error {
	return &Error{
		Code:    EINTERNAL,
		Op:      op,
		Message: message,
		Err:     err,
	}
}
