package factory

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/highscores-go/internal/services/token"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestConfigFromEnvDefaults(t *testing.T) {
	cfg, err := ConfigFromEnv(envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "", cfg.Host)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, StorageTypeMemory, cfg.App.StorageType)
	assert.Nil(t, cfg.App.RedisConfig)
	assert.Equal(t, token.DefaultSecret, cfg.App.TokenConfig.Secret)
	assert.Zero(t, cfg.App.TokenConfig.Expiry)
	assert.True(t, cfg.UsesDefaultSecret())
}

func TestConfigFromEnvOverrides(t *testing.T) {
	cfg, err := ConfigFromEnv(envFrom(map[string]string{
		EnvPort:        "8081",
		EnvHost:        "127.0.0.1",
		EnvJWTSecret:   "s3cret",
		EnvTokenExpiry: "2h",
		EnvStorage:     "Redis",
		EnvRedisURL:    "redis://cache:6379/1",
		EnvLogLevel:    "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "s3cret", cfg.App.TokenConfig.Secret)
	assert.Equal(t, 2*time.Hour, cfg.App.TokenConfig.Expiry)
	assert.Equal(t, StorageTypeRedis, cfg.App.StorageType)
	require.NotNil(t, cfg.App.RedisConfig)
	assert.Equal(t, "redis://cache:6379/1", cfg.App.RedisConfig.URL)
	assert.False(t, cfg.UsesDefaultSecret())
}

func TestConfigFromEnvSQLite(t *testing.T) {
	cfg, err := ConfigFromEnv(envFrom(map[string]string{EnvStorage: "sqlite"}))
	require.NoError(t, err)
	assert.Equal(t, StorageTypeSQLite, cfg.App.StorageType)
	assert.Equal(t, DefaultSQLitePath, cfg.App.SQLitePath)

	cfg, err = ConfigFromEnv(envFrom(map[string]string{EnvStorage: "sqlite", EnvSQLitePath: "/data/hs.db"}))
	require.NoError(t, err)
	assert.Equal(t, "/data/hs.db", cfg.App.SQLitePath)
}

func TestConfigFromEnvRejectsBadValues(t *testing.T) {
	bad := []map[string]string{
		{EnvPort: "eighty"},
		{EnvPort: "70000"},
		{EnvTokenExpiry: "soon"},
		{EnvTokenExpiry: "-1h"},
		{EnvStorage: "postgres"},
		{EnvStorage: "redis"},
		{EnvLogLevel: "loud"},
	}
	for _, env := range bad {
		_, err := ConfigFromEnv(envFrom(env))
		assert.Error(t, err, "env %v", env)
	}
}
