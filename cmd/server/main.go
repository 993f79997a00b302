package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mediq-risk-service/internal/api"
	"github.com/mediq-risk-service/internal/config"
	"github.com/mediq-risk-service/internal/domain"
	"github.com/mediq-risk-service/internal/middleware"
	"github.com/mediq-risk-service/internal/service"
	"github.com/mediq-risk-service/internal/setup"
)

func main() {
	// Load .env before the config manager reads the environment
	_ = godotenv.Load()

	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := setup.NewLogger(cfg.Logging)

	// Build the scoring core over the immutable rule catalog
	catalog := domain.DefaultRuleCatalog()
	engine := service.NewRiskEngine(logger, catalog)
	explainer := service.NewExplainer(catalog)
	alerts := service.NewAlertGenerator(logger, explainer)

	limiter, err := middleware.NewRateLimiter(logger, cfg.RateLimit)
	if err != nil {
		log.Fatalf("Failed to build rate limiter: %v", err)
	}

	logger.WithField("addr", cfg.Server.Host).WithField("port", cfg.Server.Port).
		Info("Starting MedIQ risk service")

	// Create server
	server := api.NewServer(cfg, logger, engine, alerts, explainer, limiter)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	// Start server
	if err := server.Start(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}

	logger.Info("Server stopped")
}
