package api

import (
	"context"
	"io"
	"net/http"

	"github.com/dukerupert/forever/internal/handler"
	"github.com/dukerupert/forever/internal/service"
	"github.com/dukerupert/forever/internal/validation"
)

// UserHandler handles account creation and sign-in.
type UserHandler struct {
	users service.UserService
	rs    *handler.Responder
}

// NewUserHandler creates a new user handler
func NewUserHandler(users service.UserService, rs *handler.Responder) *UserHandler {
	return &UserHandler{users: users, rs: rs}
}

// Ping handles GET /user/
func (h *UserHandler) Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, "user route is working!")
}

// Register handles POST /user/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req validation.RegisterRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if err := validation.ValidateRegister(&req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	token, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	handler.OK(w, handler.Envelope{Token: token})
}

// Login handles POST /user/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.users.Login)
}

// AdminLogin handles POST /user/admin
func (h *UserHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.users.AdminLogin)
}

func (h *UserHandler) login(w http.ResponseWriter, r *http.Request, login func(ctx context.Context, email, password string) (string, error)) {
	var req validation.LoginRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if err := validation.ValidateLogin(&req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	token, err := login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	handler.OK(w, handler.Envelope{Token: token})
}
