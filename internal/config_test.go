package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFrom_Defaults(t *testing.T) {
	cfg, err := configFrom(newViper())
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, uint16(4000), cfg.Port)
	assert.Equal(t, ":4000", cfg.Addr())
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 168*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Auth.ProductAddRequiresAdmin)
	assert.Equal(t, "local", cfg.Media.Provider)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.True(t, cfg.IsDev())
}

func TestConfigFrom_Overrides(t *testing.T) {
	v := newViper()
	v.Set("ENV", "staging")
	v.Set("LOG_LEVEL", "verbose")
	v.Set("DATABASE_DRIVER", "mongo")
	v.Set("TOKEN_TTL", "1h")
	v.Set("CORS_ORIGINS", "https://shop.example.com, https://admin.example.com")
	v.Set("JWT_SECRET", "s3cret")
	v.Set("ADMIN_EMAIL", "admin@example.com")
	v.Set("ADMIN_PASSWORD", "password123")

	cfg, err := configFrom(v)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env, "unknown env falls back to prod")
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "mongo", cfg.Database.Driver)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
}

func TestConfigFrom_Errors(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]any
	}{
		{"unknown driver", map[string]any{"DATABASE_DRIVER": "sqlite"}},
		{"non-positive ttl", map[string]any{"TOKEN_TTL": "0s"}},
		{"prod default secret", map[string]any{"ENV": "prod"}},
		{"prod missing admin", map[string]any{"ENV": "prod", "JWT_SECRET": "x"}},
		{"prod cloudinary without credentials", map[string]any{
			"ENV": "prod", "JWT_SECRET": "x", "ADMIN_EMAIL": "a@b.c", "ADMIN_PASSWORD": "password1",
			"MEDIA_PROVIDER": "cloudinary",
		}},
		{"prod s3 without bucket", map[string]any{
			"ENV": "prod", "JWT_SECRET": "x", "ADMIN_EMAIL": "a@b.c", "ADMIN_PASSWORD": "password1",
			"MEDIA_PROVIDER": "s3", "S3_ACCESS_KEY_ID": "k", "S3_SECRET_ACCESS_KEY": "s",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := configFrom(v)
			assert.Error(t, err)
		})
	}
}
