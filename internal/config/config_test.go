package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("LOGIN_MAX_ATTEMPTS", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5, cfg.LoginMaxAttempts)
	assert.Equal(t, "invoices", cfg.MinioBucket)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
}
