package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/dukerupert/forever/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the JWT payload of an access token.
type TokenClaims struct {
	UserID string `json:"id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 access tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService signing with secret.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for userID with role.
func (s *TokenService) Issue(userID, role string) (string, error) {
	now := s.now()
	claims := TokenClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", domain.Internal(fmt.Errorf("sign token: %w", err), "auth.issue", "failed to issue token")
	}
	return signed, nil
}

// Parse verifies raw and returns its claims. Failures are EUNAUTHORIZED with
// a distinct message for missing, invalid and expired tokens.
func (s *TokenService) Parse(raw string) (*domain.Claims, error) {
	if raw == "" {
		return nil, ErrTokenMissing
	}

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}

	role := claims.Role
	if role == "" {
		role = domain.RoleUser
	}
	return &domain.Claims{UserID: claims.UserID, Role: role}, nil
}
