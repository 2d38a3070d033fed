// Package main runs the calculator MCP server backed by the full configuration:
// PostgreSQL or SQLite history and an optional Redis result cache.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/clinical-calculator-mcp-server/internal/app"
	"github.com/clinical-calculator-mcp-server/internal/config"
	"github.com/clinical-calculator-mcp-server/internal/mcp"
)

func main() {
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	cfg := configManager.GetConfig()

	// stdout carries the stdio transport.
	if cfg.MCP.TransportType == mcp.TransportStdio && (cfg.Logging.Output == "" || cfg.Logging.Output == "stdout") {
		cfg.Logging.Output = "stderr"
	}
	logger, err := app.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to assemble calculator service")
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.WithError(err).Warn("Error during shutdown")
		}
	}()

	server := mcp.NewServer(application.Service, cfg.MCP.ServerName, cfg.MCP.ServerVersion, logger)

	logger.WithField("transport", cfg.MCP.TransportType).Info("Starting calculator MCP server")
	if err := server.Serve(ctx, cfg.MCP.TransportType, cfg.MCP.HTTPHost, cfg.MCP.HTTPPort); err != nil {
		logger.WithError(err).Error("MCP server failed")
		return
	}
	logger.Info("MCP server stopped")
}
