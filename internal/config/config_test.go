package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-features/internal/config"
	"github.com/KirkDiggler/rpg-features/internal/errors"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := config.Parse()
	require.NoError(t, err)

	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, config.CatalogSourceYAML, cfg.CatalogSource)
	assert.Equal(t, "./catalogs", cfg.CatalogDir)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 1, cfg.DefaultLevel)
	assert.False(t, cfg.RollSessions)
	assert.Equal(t, 15*time.Minute, cfg.RollTTL)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestParseRollSessions(t *testing.T) {
	t.Setenv("RPG_FEATURES_ROLL_SESSIONS", "true")
	t.Setenv("RPG_FEATURES_ROLL_TTL", "1h")

	cfg, err := config.Parse()
	require.NoError(t, err)
	assert.True(t, cfg.RollSessions)
	assert.Equal(t, time.Hour, cfg.RollTTL)

	t.Setenv("RPG_FEATURES_ROLL_TTL", "0s")
	_, err = config.Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rollTTL")
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("RPG_FEATURES_GRPC_PORT", "6000")
	t.Setenv("RPG_FEATURES_LOG_LEVEL", "DEBUG")
	t.Setenv("RPG_FEATURES_CATALOG_SOURCE", "redis")
	t.Setenv("RPG_FEATURES_REDIS_ADDR", "cache:6379")
	t.Setenv("RPG_FEATURES_DEFAULT_LEVEL", "5")

	cfg, err := config.Parse()
	require.NoError(t, err)

	assert.Equal(t, 6000, cfg.GRPCPort)
	assert.Equal(t, config.CatalogSourceRedis, cfg.CatalogSource)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.Equal(t, 5, cfg.DefaultLevel)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestParseInvalid(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
		field string
	}{
		{name: "bad source", key: "RPG_FEATURES_CATALOG_SOURCE", value: "postgres", field: "catalogSource"},
		{name: "bad level", key: "RPG_FEATURES_DEFAULT_LEVEL", value: "21", field: "defaultLevel"},
		{name: "bad port", key: "RPG_FEATURES_GRPC_PORT", value: "0", field: "grpcPort"},
		{name: "bad log level", key: "RPG_FEATURES_LOG_LEVEL", value: "trace", field: "logLevel"},
		{name: "empty catalog dir", key: "RPG_FEATURES_CATALOG_DIR", value: " ", field: "catalogDir"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			_, err := config.Parse()
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgument(err))
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestParseNotAnInteger(t *testing.T) {
	t.Setenv("RPG_FEATURES_GRPC_PORT", "abc")

	_, err := config.Parse()
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, (&config.Config{LogLevel: "warn"}).SlogLevel())
	assert.Equal(t, slog.LevelError, (&config.Config{LogLevel: "error"}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&config.Config{LogLevel: ""}).SlogLevel())
}
