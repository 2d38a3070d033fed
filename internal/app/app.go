// Package app assembles the calculator service and its backing stores from
// the server configuration. Both full servers share this wiring.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/clinical-calculator-mcp-server/internal/api"
	"github.com/clinical-calculator-mcp-server/internal/cache"
	"github.com/clinical-calculator-mcp-server/internal/calculators"
	"github.com/clinical-calculator-mcp-server/internal/database"
	"github.com/clinical-calculator-mcp-server/internal/domain"
	"github.com/clinical-calculator-mcp-server/internal/history"
	"github.com/clinical-calculator-mcp-server/internal/registry"
	"github.com/clinical-calculator-mcp-server/internal/repository"
	"github.com/clinical-calculator-mcp-server/internal/service"
)

// History backends.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendNone     = "none"
)

// App holds the assembled components.
type App struct {
	Registry *registry.Registry
	Service  *service.CalculatorService
	DB       *database.DB
	Usage    *repository.UsageRepository

	redis  *cache.RedisCache
	logger *logrus.Logger
}

// NewLogger builds a logger from the logging configuration. Output is stdout,
// stderr or a file path.
func NewLogger(cfg domain.LoggingConfig) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	var out io.Writer
	switch cfg.Output {
	case "", "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		out = f
	}
	logger.SetOutput(out)
	return logger, nil
}

// Build registers the built-in calculators and connects the configured cache
// and history backend.
func Build(ctx context.Context, cfg *domain.Config, logger *logrus.Logger) (*App, error) {
	a := &App{logger: logger}

	a.Registry = registry.New(logger)
	if err := calculators.RegisterAll(a.Registry); err != nil {
		return nil, err
	}

	var opts []service.Option

	resultCache, err := a.buildCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	if resultCache != nil {
		opts = append(opts, service.WithCache(resultCache))
	}

	store, err := a.buildHistory(ctx, cfg)
	if err != nil {
		if resultCache != nil {
			_ = resultCache.Close()
		}
		return nil, err
	}
	if store != nil {
		opts = append(opts, service.WithHistory(store))
	}

	a.Service = service.NewCalculatorService(a.Registry, logger, opts...)

	logger.WithFields(logrus.Fields{
		"calculators": a.Registry.Count(),
		"cache":       resultCache != nil,
		"shared":      a.redis != nil,
		"history":     historyBackend(cfg),
	}).Info("Calculator service assembled")
	return a, nil
}

func (a *App) buildCache(ctx context.Context, cfg domain.CacheConfig) (domain.ResultCache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	local, err := cache.NewMemoryCache(cfg.MaxItems, cfg.DefaultTTL)
	if err != nil {
		return nil, fmt.Errorf("creating memory cache: %w", err)
	}
	if cfg.RedisURL == "" {
		return local, nil
	}

	shared, err := cache.NewRedisCache(ctx, cfg, a.logger)
	if err != nil {
		a.logger.WithError(err).Warn("Redis unavailable, using in-process cache only")
		return local, nil
	}
	a.redis = shared
	return cache.NewTiered(local, shared, a.logger), nil
}

func historyBackend(cfg *domain.Config) string {
	if !cfg.History.Enabled || cfg.History.Backend == "" {
		return BackendNone
	}
	return cfg.History.Backend
}

func (a *App) buildHistory(ctx context.Context, cfg *domain.Config) (history.Store, error) {
	switch backend := historyBackend(cfg); backend {
	case BackendNone:
		return nil, nil
	case BackendSQLite:
		store, err := history.NewSQLiteStore(cfg.History.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite history: %w", err)
		}
		return store, nil
	case BackendPostgres:
		if cfg.Database.AutoMigrate {
			if err := migrate(ctx, database.URL(cfg.Database), a.logger); err != nil {
				return nil, err
			}
		}
		db, err := database.NewConnection(ctx, cfg.Database, a.logger)
		if err != nil {
			return nil, err
		}
		a.DB = db
		a.Usage = repository.NewUsageRepository(db.Pool, a.logger)
		return repository.NewEvaluationRepository(db.Pool, a.logger), nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", backend)
	}
}

func migrate(ctx context.Context, url string, logger *logrus.Logger) error {
	runner, err := database.NewMigrationRunner(url, logger)
	if err != nil {
		return err
	}
	defer runner.Close()
	return runner.Up(ctx)
}

// APIOptions returns health checks for the connected backends and, with
// PostgreSQL history, the usage statistics source.
func (a *App) APIOptions() []api.Option {
	var opts []api.Option
	if a.DB != nil {
		opts = append(opts, api.WithHealthCheck("database", a.DB.Health))
	}
	if a.redis != nil {
		opts = append(opts, api.WithHealthCheck("redis", a.redis.Ping))
	}
	if a.Usage != nil {
		opts = append(opts, api.WithUsage(a.Usage))
	}
	return opts
}

// Close releases the service and the database pool.
func (a *App) Close() error {
	var errs []error
	if a.Service != nil {
		errs = append(errs, a.Service.Close())
	}
	if a.DB != nil {
		a.DB.Close()
	}
	return errors.Join(errs...)
}
