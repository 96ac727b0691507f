package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "helpdesk")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "helpdesk")
	t.Setenv("JWT_SECRET", "s")

	c := Load()
	require.NotEmpty(t, c.JWTSecret)
	assert.Equal(t, 60, c.AccessTTLMin)
	assert.Equal(t, 7, c.RefreshTTLDays)
	assert.Equal(t, 12, c.BcryptCost)
	assert.Empty(t, c.DBPass)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "helpdesk")
	t.Setenv("DB_PASS", "pw")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "helpdesk")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "30")
	t.Setenv("BCRYPT_COST", "10")

	c := Load()
	assert.Equal(t, 15, c.AccessTTLMin)
	assert.Equal(t, 30, c.RefreshTTLDays)
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, "pw", c.DBPass)
}

func TestLoadRateLimitConfig_Sanitizes(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "0s")

	rl := LoadRateLimitConfig()
	assert.GreaterOrEqual(t, rl.Capacity, 1)
	assert.Greater(t, rl.RefillInterval, time.Duration(0))
	assert.GreaterOrEqual(t, rl.TTL, 5*rl.RefillInterval)
}
