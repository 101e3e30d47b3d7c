package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dukerupert/forever/internal/domain"
)

// Envelope is the JSON body of every successful response.
type Envelope struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Count      *int   `json:"count,omitempty"`
	Data       any    `json:"data,omitempty"`
	Pagination any    `json:"pagination,omitempty"`
	Filters    any    `json:"filters,omitempty"`
	Token      string `json:"token,omitempty"`
}

// OK writes a 200 envelope.
func OK(w http.ResponseWriter, env Envelope) {
	JSON(w, http.StatusOK, env)
}

// JSON writes env with status, marking it successful.
func JSON(w http.ResponseWriter, status int, env Envelope) {
	env.Success = true
	writeJSON(w, status, env)
}

// Count returns a pointer for Envelope.Count so zero is still reported.
func Count(n int) *int {
	return &n
}

// ErrInvalidBody is returned for request bodies that are not valid JSON.
var ErrInvalidBody = &domain.Error{
	Code:        domain.EINVALID,
	Message:     "Invalid request body",
	Operational: true,
}

// DecodeJSON reads a JSON body into v. An empty body leaves v unchanged.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return domain.WrapError(err, domain.ETOOLARGE, "http.decode", "Request body too large")
	}
	return domain.WrapError(err, domain.EINVALID, "http.decode", ErrInvalidBody.Message)
}
