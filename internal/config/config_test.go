package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CWALabs/SkyCMS-sub002/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, time.Minute, cfg.Scheduler.Interval)
	assert.Equal(t, 4, cfg.Scheduler.TenantParallel)
	assert.False(t, cfg.Statics.Enabled, "static publishing should default off")
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SCHEDULER_INTERVAL", "30s")
	t.Setenv("STATICS_ENABLED", "true")
	t.Setenv("REDIS_HOST", "cache.internal")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.Interval)
	assert.True(t, cfg.Statics.Enabled)
	assert.Equal(t, "cache.internal:6379", cfg.Redis.Addr())
}

func TestRedisAddr_DisabledWithoutHost(t *testing.T) {
	cfg := config.RedisConfig{Port: "6379"}
	assert.Empty(t, cfg.Addr(), "no host means the Redis layer is disabled")
}

func TestValidate_RejectsSubSecondInterval(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	cfg.Scheduler.Interval = 100 * time.Millisecond
	assert.Error(t, cfg.Validate())
}

func TestGetDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host: "db", Port: "5432", User: "app", Password: "secret",
		Name: "skycms", SSLMode: "disable",
	}
	want := "host=db port=5432 user=app password=secret dbname=skycms sslmode=disable"
	assert.Equal(t, want, cfg.GetDSN())
}
