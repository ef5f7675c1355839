// Package config loads process configuration from the environment
package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/KirkDiggler/rpg-features/internal/entities/features"
	"github.com/KirkDiggler/rpg-features/internal/errors"
)

// Catalog sources
const (
	CatalogSourceYAML  = "yaml"
	CatalogSourceRedis = "redis"
)

// Config holds the server and CLI settings
type Config struct {
	GRPCPort      int    `env:"RPG_FEATURES_GRPC_PORT" envDefault:"50051"`
	LogLevel      string `env:"RPG_FEATURES_LOG_LEVEL" envDefault:"info"`
	CatalogSource string `env:"RPG_FEATURES_CATALOG_SOURCE" envDefault:"yaml"`
	CatalogDir    string `env:"RPG_FEATURES_CATALOG_DIR" envDefault:"./catalogs"`
	RedisAddr     string `env:"RPG_FEATURES_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"RPG_FEATURES_REDIS_PASSWORD"`
	RedisDB       int    `env:"RPG_FEATURES_REDIS_DB" envDefault:"0"`
	DefaultLevel  int    `env:"RPG_FEATURES_DEFAULT_LEVEL" envDefault:"1"`

	// RollSessions stores server-side rolls in redis so clients can reuse them
	RollSessions bool          `env:"RPG_FEATURES_ROLL_SESSIONS" envDefault:"false"`
	RollTTL      time.Duration `env:"RPG_FEATURES_ROLL_TTL" envDefault:"15m"`
}

// Load reads an optional .env file and then the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load .env file")
	}

	return Parse()
}

// Parse reads the environment without touching .env files
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the Config
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRange("grpcPort", c.GRPCPort, 1, 65535, vb)
	errors.ValidateEnum("logLevel", strings.ToLower(c.LogLevel), []string{"debug", "info", "warn", "error"}, vb)
	errors.ValidateEnum("catalogSource", c.CatalogSource, []string{CatalogSourceYAML, CatalogSourceRedis}, vb)
	errors.ValidateRange("defaultLevel", c.DefaultLevel, 1, features.MaxLevel, vb)
	errors.ValidateRange("redisDB", c.RedisDB, 0, 15, vb)

	switch c.CatalogSource {
	case CatalogSourceYAML:
		errors.ValidateRequired("catalogDir", c.CatalogDir, vb)
	case CatalogSourceRedis:
		errors.ValidateRequired("redisAddr", c.RedisAddr, vb)
	}
	if c.RollSessions {
		errors.ValidateRequired("redisAddr", c.RedisAddr, vb)
		if c.RollTTL <= 0 {
			vb.Field("rollTTL", "must be positive")
		}
	}

	return vb.Build()
}

// SlogLevel maps LogLevel onto slog
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
