package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/clinic")
	for _, key := range []string{"ENV", "HTTP_ADDR", "LOG_LEVEL", "MIGRATIONS_DIR", "BCRYPT_COST",
		"SHUTDOWN_TIMEOUT", "DB_MAX_CONNS", "CORS_ALLOWED_ORIGINS", "RATE_LIMIT_RPS"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "migrations", cfg.MigrationsDir)
	assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/clinic")
	t.Setenv("ENV", "production")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestFromEnv_Errors(t *testing.T) {
	t.Setenv("DB_DSN", "")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("DB_DSN", "postgres://localhost/clinic")
	t.Setenv("BCRYPT_COST", "99")
	_, err = FromEnv()
	assert.Error(t, err)

	t.Setenv("BCRYPT_COST", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	_, err = FromEnv()
	assert.Error(t, err)
}
