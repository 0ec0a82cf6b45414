package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/highscores-go/internal/dependencies/clock"
	"github.com/mcoot/highscores-go/internal/metrics"
	"github.com/mcoot/highscores-go/internal/services/auth"
	"github.com/mcoot/highscores-go/internal/services/scores"
	"github.com/mcoot/highscores-go/internal/services/token"
	"github.com/mcoot/highscores-go/internal/storage"
	"github.com/mcoot/highscores-go/internal/storage/memory"
	redisstorage "github.com/mcoot/highscores-go/internal/storage/redis"
	"github.com/mcoot/highscores-go/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	TokenService *token.Service
	AuthService  *auth.Service
	ScoreService *scores.Service
	Metrics      *metrics.Metrics

	closer io.Closer
}

// Close releases the storage backend, if it holds any resources
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Config holds configuration for the application factory
type Config struct {
	// TokenConfig holds configuration for the token service (optional)
	// If the secret is empty, defaults to token.DefaultConfig()
	TokenConfig token.Config
	// HasherConfig holds argon2id parameters (optional)
	// Zero fields default to auth.DefaultHasherConfig()
	HasherConfig auth.HasherConfig
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// MetricsNamespace prefixes metric names (optional)
	MetricsNamespace string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	var closer io.Closer
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closer = redisStore
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlite.New(context.Background(), cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
		closer = sqliteStore
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'sqlite'", storageType)
	}

	// Use default token config if not provided
	tokenCfg := cfg.TokenConfig
	if tokenCfg.Secret == "" {
		def := token.DefaultConfig()
		tokenCfg.Secret = def.Secret
		if tokenCfg.Issuer == "" {
			tokenCfg.Issuer = def.Issuer
		}
	}

	app, err := newWithDependencies(store, clock.New(), tokenCfg, cfg.HasherConfig, metrics.New(cfg.MetricsNamespace), logger)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}
	app.closer = closer
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, tokenCfg token.Config, hasherCfg auth.HasherConfig, m *metrics.Metrics, logger *slog.Logger) (*App, error) {
	tokenService, err := token.New(clk, tokenCfg)
	if err != nil {
		return nil, err
	}

	authService := auth.New(store, auth.NewHasher(hasherCfg), tokenService, logger)
	scoreService := scores.New(store, m, logger)

	return &App{
		Storage:      store,
		Clock:        clk,
		TokenService: tokenService,
		AuthService:  authService,
		ScoreService: scoreService,
		Metrics:      m,
	}, nil
}
