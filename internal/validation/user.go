package validation

import "strings"

// RegisterRequest is the body of POST /user/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the body of POST /user/login and /user/admin.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

var userMessages = messages{
	"name":              "Name is required",
	"email.required":    "Email is required",
	"email":             "Please enter a valid email",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 8 characters",
}

// ValidateRegister trims and checks a registration body.
func ValidateRegister(r *RegisterRequest) error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return check("user.register", r, userMessages, "Invalid registration request")
}

// ValidateLogin trims and checks a login body.
func ValidateLogin(r *LoginRequest) error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return check("user.login", r, userMessages, "Email and password are required")
}
