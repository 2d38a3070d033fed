package mcp

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/clinical-calculator-mcp-server/internal/cache"
	"github.com/clinical-calculator-mcp-server/internal/calculators"
	litecfg "github.com/clinical-calculator-mcp-server/internal/config"
	"github.com/clinical-calculator-mcp-server/internal/history"
	"github.com/clinical-calculator-mcp-server/internal/registry"
	"github.com/clinical-calculator-mcp-server/internal/service"
)

// Lite server identity reported to MCP clients.
const (
	LiteServerName    = "clinical-calculator-mcp-lite"
	LiteServerVersion = "v1.0.0"
)

// LiteServer is a self-contained MCP server. It keeps results in an in-memory
// cache and history in SQLite, or PostgreSQL when a database URL is configured.
type LiteServer struct {
	config       *litecfg.LiteConfig
	server       *Server
	service      *service.CalculatorService
	cache        *cache.MemoryCache
	historyStore history.Store
	logger       *logrus.Logger
}

// LiteServerOption is a functional option for LiteServer.
type LiteServerOption func(*LiteServer) error

// WithHistoryStore sets a custom history store.
func WithHistoryStore(store history.Store) LiteServerOption {
	return func(s *LiteServer) error {
		s.historyStore = store
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logrus.Logger) LiteServerOption {
	return func(s *LiteServer) error {
		s.logger = logger
		return nil
	}
}

// NewLogger builds the lite server logger. Logs go to stderr because stdout
// carries the stdio transport.
func NewLogger(format, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if lvl, err := logrus.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

// NewLiteServer creates a new lightweight MCP server instance.
func NewLiteServer(cfg *litecfg.LiteConfig, opts ...LiteServerOption) (*LiteServer, error) {
	server := &LiteServer{
		config: cfg,
		logger: NewLogger(cfg.LogFormat, cfg.LogLevel),
	}

	for _, opt := range opts {
		if err := opt(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	reg := registry.New(server.logger)
	if err := calculators.RegisterAll(reg); err != nil {
		return nil, fmt.Errorf("failed to register calculators: %w", err)
	}

	memCache, err := cache.NewMemoryCache(cfg.CacheMaxItems, cfg.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}
	server.cache = memCache

	svcOpts := []service.Option{service.WithCache(memCache)}
	if cfg.HistoryEnabled {
		if server.historyStore == nil {
			store, err := openHistoryStore(cfg)
			if err != nil {
				return nil, err
			}
			server.historyStore = store
		}
		svcOpts = append(svcOpts, service.WithHistory(server.historyStore))
	}
	server.service = service.NewCalculatorService(reg, server.logger, svcOpts...)

	var serverOpts []Option
	if cfg.HistoryEnabled {
		serverOpts = append(serverOpts, WithExportDir(cfg.ExportDir()))
	}
	server.server = NewServer(server.service, LiteServerName, LiteServerVersion, server.logger, serverOpts...)

	server.logger.WithFields(logrus.Fields{
		"calculators": reg.Count(),
		"history":     cfg.HistoryEnabled,
		"transport":   cfg.Transport,
	}).Info("Lite server initialized successfully")
	return server, nil
}

func openHistoryStore(cfg *litecfg.LiteConfig) (history.Store, error) {
	if cfg.HistoryDatabaseURL != "" {
		store, err := history.NewPostgresStoreFromURL(cfg.HistoryDatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL history store: %w", err)
		}
		return store, nil
	}
	store, err := history.NewSQLiteStore(cfg.HistoryDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to create history store: %w", err)
	}
	return store, nil
}

// Start serves on the configured transport until ctx is cancelled.
func (s *LiteServer) Start(ctx context.Context) error {
	s.logger.Info("Starting Clinical Calculator MCP Server (Lite)...")
	return s.server.Serve(ctx, s.config.Transport, s.config.HTTPHost, s.config.HTTPPort)
}

// Close releases the cache and history store.
func (s *LiteServer) Close() error {
	if err := s.service.Close(); err != nil {
		s.logger.WithError(err).Error("Failed to close server resources")
		return err
	}
	return nil
}

// Server returns the MCP server.
func (s *LiteServer) Server() *Server {
	return s.server
}

// Service returns the calculator service.
func (s *LiteServer) Service() *service.CalculatorService {
	return s.service
}

// GetCache returns the memory cache for external access.
func (s *LiteServer) GetCache() *cache.MemoryCache {
	return s.cache
}
