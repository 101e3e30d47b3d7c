package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/forever/internal/domain"
)

// ErrorFunc writes an error response. The HTTP layer passes its formatter
// in so every rejection uses the same body; middleware cannot import the
// handler package (handler imports middleware for GetLogger, etc.)
type ErrorFunc func(w http.ResponseWriter, r *http.Request, err error)

// orDefault returns f, or respondWithError when f is nil.
func orDefault(f ErrorFunc) ErrorFunc {
	if f != nil {
		return f
	}
	return respondWithError
}

// respondWithError is the fallback error writer. It produces the same body
// shape as the handler formatter without development detail.
func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	status := domain.ErrorStatus(err)

	logger := GetLogger(r.Context())
	attrs := []any{
		"error", err.Error(),
		"code", domain.ErrorCode(err),
		"status", status,
	}
	if status >= 500 {
		logger.Error("middleware error", attrs...)
	} else {
		logger.Info("middleware error", attrs...)
	}

	kind := "fail"
	if status >= 500 {
		kind = "error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"status":  kind,
		"message": domain.ErrorMessage(err),
	})
}
