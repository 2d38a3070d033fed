// Package main runs the calculator REST API.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/clinical-calculator-mcp-server/internal/api"
	"github.com/clinical-calculator-mcp-server/internal/app"
	"github.com/clinical-calculator-mcp-server/internal/config"
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

	server := api.NewServer(*cfg, application.Service, logger, application.APIOptions()...)

	logger.WithField("addr", cfg.Server.Host).WithField("port", cfg.Server.Port).Info("Starting calculator API")
	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Error("Server failed")
		return
	}
	logger.Info("Server stopped")
}
