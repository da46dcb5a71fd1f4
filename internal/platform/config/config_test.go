package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("STORE_BACKEND", "CSV")
	t.Setenv("SESSION_TTL", "")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, BackendCSV, cfg.Store.Backend)
	assert.Equal(t, 8*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "latin-1", cfg.Import.Encoding)
	assert.False(t, cfg.Sale.DiscountRemainderToLast)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("SALE_DISCOUNT_REMAINDER_TO_LAST", "true")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.True(t, cfg.Sale.DiscountRemainderToLast)
	assert.Equal(t, 3, cfg.Session.RedisDB)
}

func TestGetEnvHelpers_Fallbacks(t *testing.T) {
	t.Setenv("POS_TEST_INT", "abc")
	t.Setenv("POS_TEST_BOOL", "maybe")
	t.Setenv("POS_TEST_DURATION", "-5m")

	assert.Equal(t, 7, GetEnvAsInt("POS_TEST_INT", 7))
	assert.True(t, GetEnvAsBool("POS_TEST_BOOL", true))
	assert.Equal(t, time.Minute, GetEnvAsDuration("POS_TEST_DURATION", time.Minute))
	assert.Equal(t, "fallback", GetEnv("POS_TEST_UNSET_KEY", "fallback"))
}
