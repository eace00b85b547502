package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "home_services", cfg.Database.Database)
	assert.Equal(t, 3, cfg.Matching.SurplusMultiplier)
	assert.Equal(t, 120, cfg.Matching.DefaultDurationMinutes)
	assert.Equal(t, 2*time.Second, cfg.Matching.AvailabilityTimeout)
	assert.True(t, cfg.Matching.SynthesisEnabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MATCH_SURPLUS_MULTIPLIER", "5")
	t.Setenv("MATCH_SYNTHESIS_ENABLED", "false")
	t.Setenv("MATCH_AVAILABILITY_TIMEOUT", "500ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Matching.SurplusMultiplier)
	assert.False(t, cfg.Matching.SynthesisEnabled)
	assert.Equal(t, 500*time.Millisecond, cfg.Matching.AvailabilityTimeout)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: 5433, User: "u", Password: "p",
		Database: "matching", SSLMode: "require",
	}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=matching sslmode=require", cfg.DatabaseDSN())
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", cfg.RedisAddr())
}
