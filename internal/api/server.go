// Package api is the thin HTTP shell over the risk assessment core. It
// validates request schemas, forwards validated data into the services, and
// returns their output verbatim.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mediq-risk-service/internal/domain"
	"github.com/mediq-risk-service/internal/middleware"
	"github.com/mediq-risk-service/internal/service"
)

// Service identity reported by the banner and health endpoints.
const (
	ServiceName    = "MedIQ Risk Service"
	ServiceVersion = "1.0.0"
)

// Server represents the HTTP server
type Server struct {
	cfg       *domain.Config
	logger    *logrus.Logger
	engine    *service.RiskEngine
	alerts    *service.AlertGenerator
	explainer *service.Explainer
	router    *gin.Engine
	server    *http.Server
}

// NewServer creates a new HTTP server instance wired to the scoring core.
func NewServer(
	cfg *domain.Config,
	logger *logrus.Logger,
	engine *service.RiskEngine,
	alerts *service.AlertGenerator,
	explainer *service.Explainer,
	limiter *middleware.RateLimiter,
) *Server {
	// Set Gin mode based on environment
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CorrelationID())
	router.Use(requestLogger(logger))
	router.Use(corsMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(limiter.Middleware())

	server := &Server{
		cfg:       cfg,
		logger:    logger,
		engine:    engine,
		alerts:    alerts,
		explainer: explainer,
		router:    router,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// Router exposes the configured handler, primarily for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.cfg.Server
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
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleRoot)
	s.router.GET("/health", s.handleHealth)

	ai := s.router.Group("/api/ai")
	{
		ai.POST("/assess-risk", s.handleAssessRisk)
		ai.POST("/generate-alert", s.handleGenerateAlert)
		ai.POST("/batch-assess-risk", s.handleBatchAssessRisk)
		ai.GET("/explain-rules", s.handleExplainRules)
		ai.POST("/risk-heatmap", s.handleRiskHeatmap)
	}
}

// requestLogger emits one structured log line per request.
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"status":         c.Writer.Status(),
			"latency":        time.Since(start).String(),
			"client_ip":      c.ClientIP(),
			"correlation_id": c.GetString("correlation_id"),
		}).Info("Handled request")
	}
}

// corsMiddleware allows the configured dashboard/backend origins.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-Correlation-ID")
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
