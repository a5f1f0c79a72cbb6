package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRES", "")
	t.Setenv("JWT_REFRESH_EXPIRES", "")
	t.Setenv("AUTH_SESSION_CHECK", "")
	t.Setenv("REDIS_PORT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "15m", cfg.JWT.AccessExpires)
	assert.Equal(t, "7d", cfg.JWT.RefreshExpires)
	assert.False(t, cfg.Auth.SessionCheck)
	assert.Equal(t, 6379, cfg.Redis.Port)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_ACCESS_EXPIRES", "30m")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("AUTH_SESSION_CHECK", "TRUE")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "30m", cfg.JWT.AccessExpires)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.True(t, cfg.Auth.SessionCheck)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowOrigins)
}

func TestGetEnvAsInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("LOG_MAX_SIZE", "lots")
	assert.Equal(t, 100, getEnvAsInt("LOG_MAX_SIZE", 100))
}
