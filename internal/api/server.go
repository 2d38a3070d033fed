// Package api exposes the calculator service over HTTP with gin.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/clinical-calculator-mcp-server/internal/domain"
	"github.com/clinical-calculator-mcp-server/internal/middleware"
	"github.com/clinical-calculator-mcp-server/internal/repository"
	"github.com/clinical-calculator-mcp-server/internal/service"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// HealthCheck reports the state of one dependency.
type HealthCheck func(ctx context.Context) error

// UsageSource reports per-calculator evaluation statistics.
type UsageSource interface {
	All(ctx context.Context) ([]repository.UsageStats, error)
	ForCalculator(ctx context.Context, calculatorID string) (repository.UsageStats, error)
}

// Server represents the HTTP server
type Server struct {
	config  domain.Config
	service *service.CalculatorService
	usage   UsageSource
	logger  *logrus.Logger
	checks  map[string]HealthCheck
	router  *gin.Engine
	server  *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithHealthCheck adds a named dependency check to GET /health.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(s *Server) { s.checks[name] = check }
}

// WithUsage enables the /stats/usage routes.
func WithUsage(usage UsageSource) Option {
	return func(s *Server) { s.usage = usage }
}

// NewServer creates a new HTTP server instance
func NewServer(cfg domain.Config, svc *service.CalculatorService, logger *logrus.Logger, opts ...Option) *Server {
	// Set Gin mode based on environment
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.AuditLogger(logger))
	router.Use(middleware.RequestTimeout(cfg.Server.RequestTimeout))
	router.Use(corsMiddleware())

	s := &Server{
		config:  cfg,
		service: svc,
		logger:  logger,
		checks:  make(map[string]HealthCheck),
		router:  router,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		var err error
		if cfg.TLSEnabled {
			err = s.server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving HTTP: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	v1.GET("/health", s.handleHealth)

	if s.config.Auth.Enabled {
		v1.Use(middleware.JWTAuth(s.config.Auth, s.logger))
	}
	if s.config.RateLimit.Enabled {
		v1.Use(middleware.RateLimit(middleware.NewRateLimiter(s.config.RateLimit, s.logger)))
	}

	v1.GET("/calculators", s.handleListCalculators)
	v1.GET("/calculators/:id", s.handleGetCalculator)
	v1.GET("/calculators/:id/schema", s.handleGetSchema)
	v1.GET("/calculators/:id/related", s.handleRelated)
	v1.POST("/calculators/:id/evaluate", s.handleEvaluate)
	v1.GET("/categories", s.handleCategories)
	v1.GET("/search", s.handleSearch)
	v1.GET("/history", s.handleListHistory)
	v1.GET("/history/:id", s.handleGetHistory)
	v1.DELETE("/history/:id", s.handleDeleteHistory)
	v1.POST("/formulas/:name", s.handleFormula)
	v1.GET("/formulas", s.handleListFormulas)

	if s.usage != nil {
		v1.GET("/stats/usage", s.handleUsage)
		v1.GET("/stats/usage/:id", s.handleCalculatorUsage)
	}
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, "+middleware.CorrelationIDHeader)
		c.Header("Access-Control-Expose-Headers", middleware.CorrelationIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
