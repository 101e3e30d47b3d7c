package service

import (
	"testing"
	"time"

	"github.com/dukerupert/forever/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndParse(t *testing.T) {
	s := NewTokenService("test-secret", time.Hour)

	token, err := s.Issue("user-1", domain.RoleUser)
	require.NoError(t, err)

	claims, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.False(t, claims.IsAdmin())
}

func TestTokenService_AdminRole(t *testing.T) {
	s := NewTokenService("test-secret", time.Hour)

	token, err := s.Issue("admin@example.com", domain.RoleAdmin)
	require.NoError(t, err)

	claims, err := s.Parse(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
}

func TestTokenService_ParseFailures(t *testing.T) {
	s := NewTokenService("test-secret", time.Hour)
	other := NewTokenService("other-secret", time.Hour)

	foreign, err := other.Issue("user-1", domain.RoleUser)
	require.NoError(t, err)

	expired := NewTokenService("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, err := expired.Issue("user-1", domain.RoleUser)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, TokenClaims{UserID: "user-1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"missing", "", ErrTokenMissing},
		{"garbage", "not.a.jwt", ErrTokenInvalid},
		{"wrong secret", foreign, ErrTokenInvalid},
		{"alg none", unsigned, ErrTokenInvalid},
		{"no user id", noID, ErrTokenInvalid},
		{"expired", stale, ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := s.Parse(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
		})
	}
}

func TestTokenService_Messages(t *testing.T) {
	assert.Equal(t, "Not Authorized - Please login again", domain.ErrorMessage(ErrTokenMissing))
	assert.Equal(t, "Invalid token - Please login again", domain.ErrorMessage(ErrTokenInvalid))
	assert.Equal(t, "Token expired - Please login again", domain.ErrorMessage(ErrTokenExpired))
}
