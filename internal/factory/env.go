package factory

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/highscores-go/internal/services/token"
	redisstorage "github.com/mcoot/highscores-go/internal/storage/redis"
)

// Environment variable names read by ConfigFromEnv
const (
	EnvPort        = "PORT"
	EnvHost        = "HSCORE_HOST"
	EnvJWTSecret   = "HSCORE_JWT_SECRET"
	EnvTokenExpiry = "HSCORE_TOKEN_EXPIRY"
	EnvStorage     = "HSCORE_STORAGE"
	EnvRedisURL    = "REDIS_URL"
	EnvSQLitePath  = "HSCORE_SQLITE_PATH"
	EnvLogLevel    = "HSCORE_LOG_LEVEL"
)

// DefaultPort is used when PORT is unset
const DefaultPort = 3000

// DefaultSQLitePath is used when HSCORE_STORAGE=sqlite and no path is given
const DefaultSQLitePath = "highscores.db"

// EnvConfig is the process configuration read from the environment
type EnvConfig struct {
	Host     string
	Port     int
	LogLevel slog.Level
	App      Config
}

// UsesDefaultSecret reports whether tokens will be signed with the development secret
func (c EnvConfig) UsesDefaultSecret() bool {
	return c.App.TokenConfig.Secret == token.DefaultSecret
}

// ConfigFromEnv builds an EnvConfig using getenv (normally os.Getenv)
func ConfigFromEnv(getenv func(string) string) (EnvConfig, error) {
	cfg := EnvConfig{
		Host:     getenv(EnvHost),
		Port:     DefaultPort,
		LogLevel: slog.LevelInfo,
	}

	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 0 || port > 65535 {
			return EnvConfig{}, fmt.Errorf("invalid %s %q", EnvPort, v)
		}
		cfg.Port = port
	}

	if v := getenv(EnvLogLevel); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return EnvConfig{}, fmt.Errorf("invalid %s %q: %w", EnvLogLevel, v, err)
		}
	}

	tokenCfg := token.DefaultConfig()
	if v := getenv(EnvJWTSecret); v != "" {
		tokenCfg.Secret = v
	}
	if v := getenv(EnvTokenExpiry); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return EnvConfig{}, fmt.Errorf("invalid %s %q", EnvTokenExpiry, v)
		}
		tokenCfg.Expiry = d
	}
	cfg.App.TokenConfig = tokenCfg

	storageType := strings.ToLower(getenv(EnvStorage))
	switch storageType {
	case "", StorageTypeMemory:
		cfg.App.StorageType = StorageTypeMemory
	case StorageTypeRedis:
		redisURL := getenv(EnvRedisURL)
		if redisURL == "" {
			return EnvConfig{}, fmt.Errorf("%s required when %s=redis", EnvRedisURL, EnvStorage)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.App.StorageType = StorageTypeRedis
		cfg.App.RedisConfig = &redisCfg
	case StorageTypeSQLite:
		cfg.App.StorageType = StorageTypeSQLite
		cfg.App.SQLitePath = DefaultSQLitePath
		if v := getenv(EnvSQLitePath); v != "" {
			cfg.App.SQLitePath = v
		}
	default:
		return EnvConfig{}, fmt.Errorf("invalid %s %q: must be 'memory', 'redis' or 'sqlite'", EnvStorage, storageType)
	}

	return cfg, nil
}
