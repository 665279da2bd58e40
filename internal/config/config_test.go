package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "DATABASE_URL", "JWT_SECRET", "ACCESS_TOKEN_TTL_MIN", "API_PREFIX", "CORS_ALLOWED_ORIGINS", "ADMIN_EMAIL"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, ":5000", cfg.HTTPAddress())
	assert.Equal(t, DefaultDatabaseURL, cfg.DatabaseURL)
	assert.Equal(t, InsecureJWTSecret, cfg.JWTSecret)
	assert.True(t, cfg.UsingInsecureSecret())
	assert.Equal(t, 30*time.Minute, cfg.AccessTTL)
	assert.Equal(t, "/api/auth", cfg.APIPrefix)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.AdminEmail)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DATABASE_URL", "postgres://localhost/app")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "5")
	t.Setenv("API_PREFIX", "/v1/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("ADMIN_EMAIL", "  Root@Example.com ")
	t.Setenv("USER_CACHE_ENABLED", "false")
	t.Setenv("USER_CACHE_TTL", "5m")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres://localhost/app", cfg.DatabaseURL)
	assert.False(t, cfg.UsingInsecureSecret())
	assert.Equal(t, 5*time.Minute, cfg.AccessTTL)
	assert.Equal(t, "/v1", cfg.APIPrefix)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "root@example.com", cfg.AdminEmail)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "soon")
	t.Setenv("BCRYPT_COST", "-1")
	t.Setenv("USER_CACHE_TTL", "forever")

	cfg := Load()

	assert.Equal(t, 30*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 60*time.Second, cfg.Cache.TTL)
}
