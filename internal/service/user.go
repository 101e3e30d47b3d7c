package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/dukerupert/forever/internal/auth"
	"github.com/dukerupert/forever/internal/domain"
	"github.com/dukerupert/forever/internal/telemetry"
)

// AdminSubject is the token subject of the configured administrator.
const AdminSubject = "admin"

// UserService registers and signs in storefront accounts.
// Every successful call returns a signed access token.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	AdminLogin(ctx context.Context, email, password string) (string, error)
}

// AdminCredentials is the single configured administrator account.
type AdminCredentials struct {
	Email    string
	Password string
}

type userService struct {
	users  domain.UserStore
	tokens *TokenService
	admin  AdminCredentials
	logger *slog.Logger
}

// NewUserService creates a new UserService instance
func NewUserService(users domain.UserStore, tokens *TokenService, admin AdminCredentials, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	// Login emails arrive lowercased.
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	return &userService{
		users:  users,
		tokens: tokens,
		admin:  admin,
		logger: logger.With("service", "user"),
	}
}

// Register creates an account with an empty cart.
func (s *userService) Register(ctx context.Context, name, email, password string) (string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return "", domain.Invalid("user.register", "Password must be at least 8 characters")
		}
		return "", domain.Internal(err, "user.register", "failed to hash password")
	}

	user := &domain.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return "", err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	if telemetry.Business != nil {
		telemetry.Business.Signups.Inc()
	}
	return s.tokens.Issue(user.ID, domain.RoleUser)
}

// Login verifies an account's password. Unknown emails and wrong passwords
// fail the same way.
func (s *userService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			auth.VerifyNothing(password)
			s.loginFailed(domain.RoleUser)
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.loginFailed(domain.RoleUser)
			return "", ErrInvalidCredentials
		}
		return "", domain.Internal(err, "user.login", "failed to verify password")
	}

	if telemetry.Business != nil {
		telemetry.Business.Logins.WithLabelValues(domain.RoleUser).Inc()
	}
	return s.tokens.Issue(user.ID, domain.RoleUser)
}

// AdminLogin checks the configured administrator credentials and issues an
// admin token. With no administrator configured every attempt fails.
func (s *userService) AdminLogin(ctx context.Context, email, password string) (string, error) {
	if s.admin.Email == "" || s.admin.Password == "" {
		s.loginFailed(domain.RoleAdmin)
		return "", ErrInvalidCredentials
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.admin.Email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
	if !emailOK || !passOK {
		s.logger.Warn("admin login rejected")
		s.loginFailed(domain.RoleAdmin)
		return "", ErrInvalidCredentials
	}

	if telemetry.Business != nil {
		telemetry.Business.Logins.WithLabelValues(domain.RoleAdmin).Inc()
	}
	return s.tokens.Issue(AdminSubject, domain.RoleAdmin)
}

func (s *userService) loginFailed(role string) {
	if telemetry.Business != nil {
		telemetry.Business.LoginFailed.WithLabelValues(role).Inc()
	}
}
