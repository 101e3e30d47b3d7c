package middleware

import (
	"net/http"

	"github.com/dukerupert/forever/internal/domain"
)

// ErrBodyTooLarge is returned when a request declares a body over the limit.
var ErrBodyTooLarge = &domain.Error{
	Code:        domain.ETOOLARGE,
	Message:     "Request body too large",
	Operational: true,
}

// MaxBodySize limits the size of request bodies.
// If the declared body exceeds maxBytes, onError receives ErrBodyTooLarge;
// bodies without a declared length are cut off by http.MaxBytesReader.
func MaxBodySize(maxBytes int64, onError ErrorFunc) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodySize
	}
	onError = orDefault(onError)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.ContentLength > maxBytes {
				onError(w, r, ErrBodyTooLarge)
				return
			}

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Common size limits
const (
	KB = 1024
	MB = 1024 * KB

	// DefaultMaxBodySize fits four 5MB product images plus form fields.
	DefaultMaxBodySize = 25 * MB

	// SmallMaxBodySize is for JSON-only endpoints (1MB)
	SmallMaxBodySize = 1 * MB
)
