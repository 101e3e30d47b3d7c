// Package handler holds the response helpers shared by the HTTP handlers.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/forever/internal/domain"
	"github.com/dukerupert/forever/internal/middleware"
	"github.com/dukerupert/forever/internal/telemetry"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// Responder writes error responses. In development the raw message and the
// wrapped error chain are included.
type Responder struct {
	dev    bool
	logger *slog.Logger
}

// NewResponder creates a Responder.
func NewResponder(dev bool, logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{dev: dev, logger: logger}
}

// Error maps err to a status and writes the error body.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := domain.ErrorStatus(err)
	body := ErrorBody{
		Success: false,
		Status:  "fail",
		Message: domain.ErrorMessage(err),
	}
	if status >= 500 {
		body.Status = "error"
	}
	if rs.dev {
		body.Message = domain.RawMessage(err)
		body.Stack = err.Error()
	}

	logger := middleware.GetLogger(r.Context(), rs.logger)
	attrs := []any{
		"error", err.Error(),
		"code", domain.ErrorCode(err),
		"op", domain.ErrorOp(err),
		"status", status,
	}
	if status >= 500 {
		logger.Error("request failed", attrs...)
		telemetry.CaptureErrorFromContext(r.Context(), err, map[string]interface{}{
			"request_id": middleware.GetRequestID(r.Context()),
			"path":       r.URL.Path,
		})
	} else {
		logger.Info("request rejected", attrs...)
	}

	writeJSON(w, status, body)
}

// NotFound answers requests that match no route.
func (rs *Responder) NotFound(w http.ResponseWriter, r *http.Request) {
	rs.Error(w, r, domain.Errorf(domain.ENOTFOUND, "http.route", "Route %s %s not found", r.Method, r.URL.Path))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("failed to encode response", "error", err)
	}
}
