package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name: "message only",
			err: &Error{
				Code:    EINVALID,
				Message: "invalid input",
			},
			expected: "invalid input",
		},
		{
			name: "with operation",
			err: &Error{
				Code:    EINVALID,
				Op:      "product.create",
				Message: "invalid input",
			},
			expected: "product.create: invalid input",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Code:    EINTERNAL,
				Op:      "cart.save",
				Message: "failed to save cart",
				Err:     errors.New("connection refused"),
			},
			expected: "cart.save: failed to save cart: connection refused",
		},
		{
			name: "wrapped error without op",
			err: &Error{
				Code:    EINTERNAL,
				Message: "failed to save cart",
				Err:     errors.New("connection refused"),
			},
			expected: "failed to save cart: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid", Invalid("op", "bad"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("op", "no"), http.StatusUnauthorized},
		{"forbidden", Forbidden("op", "no"), http.StatusForbidden},
		{"not found", NotFound("op", "Product"), http.StatusNotFound},
		{"conflict", Conflict("op", "dup"), http.StatusConflict},
		{"too large", Errorf(ETOOLARGE, "op", "big"), http.StatusRequestEntityTooLarge},
		{"rate limit", Errorf(ERATELIMIT, "op", "slow down"), http.StatusTooManyRequests},
		{"not implemented", Errorf(ENOTIMPL, "op", "later"), http.StatusNotImplemented},
		{"internal", Internal(nil, "op", "boom"), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped domain error", fmt.Errorf("outer: %w", NotFound("op", "User")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorStatus(tt.err); got != tt.want {
				t.Errorf("ErrorStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsOperational(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"invalid is operational", Invalid("op", "bad"), true},
		{"not found is operational", NotFound("op", "Product"), true},
		{"errorf non-internal is operational", Errorf(ECONFLICT, "op", "dup"), true},
		{"errorf internal is not", Errorf(EINTERNAL, "op", "boom"), false},
		{"upstream is operational", Upstream(errors.New("timeout"), "media.upload", "Failed to upload image"), true},
		{"internal is not", Internal(errors.New("db"), "op", "failed"), false},
		{"plain error is not", errors.New("boom"), false},
		{"sentinel", ErrProductNotFound, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOperational(tt.err); got != tt.want {
				t.Errorf("IsOperational() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"operational", Invalid("op", "Invalid sort parameter"), "Invalid sort parameter"},
		{"not found", NotFound("op", "Product"), "Product not found"},
		{"internal masked", Internal(errors.New("db down"), "op", "failed to query 10.0.0.1"), GenericMessage},
		{"plain masked", errors.New("nil pointer"), GenericMessage},
		{"upstream shown", Upstream(nil, "op", "Failed to upload image"), "Failed to upload image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.want {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRawMessage(t *testing.T) {
	if got := RawMessage(Internal(errors.New("db"), "op", "failed to query")); got != "failed to query" {
		t.Errorf("RawMessage() = %q", got)
	}
	if got := RawMessage(errors.New("nil pointer")); got != "nil pointer" {
		t.Errorf("RawMessage() = %q", got)
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, EINTERNAL, "op", "msg") != nil {
		t.Fatal("WrapError(nil) should return nil")
	}

	cause := errors.New("cause")
	err := WrapError(cause, EINVALID, "op", "msg")
	if !errors.Is(err, cause) {
		t.Error("wrapped error should unwrap to cause")
	}
	if ErrorCode(err) != EINVALID {
		t.Errorf("code = %q, want %q", ErrorCode(err), EINVALID)
	}
	if ErrorOp(err) != "op" {
		t.Errorf("op = %q, want %q", ErrorOp(err), "op")
	}
}

func TestSentinelsMatchWithErrorsIs(t *testing.T) {
	err := fmt.Errorf("store: %w", ErrUserNotFound)
	if !errors.Is(err, ErrUserNotFound) {
		t.Error("errors.Is should match the wrapped sentinel")
	}
	if errors.Is(err, ErrProductNotFound) {
		t.Error("errors.Is should not match a different sentinel")
	}
}
