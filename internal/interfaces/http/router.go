// Package http exposes the highlighting pipeline over HTTP.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/GeneHighlighter/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GeneHighlighter/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/GeneHighlighter/internal/interfaces/http/handlers"
	"github.com/turtacn/GeneHighlighter/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware dependencies of the
// route tree.
type RouterConfig struct {
	// Handlers
	AnnotateHandler *handlers.AnnotateHandler
	HealthHandler   *handlers.HealthHandler

	// Infrastructure
	Logger           logging.Logger
	Metrics          *prometheus.PipelineMetrics
	MetricsCollector prometheus.MetricsCollector

	// Mode is the gin mode: debug, release or test.
	Mode        string
	MaxBodySize int64
	Logging     middleware.LoggingConfig
}

// NewRouter constructs the route tree: global middleware, probes, the
// Prometheus scrape endpoint and the v1 API.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// --- Global middleware ---
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger, cfg.Logging))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// --- Probes ---
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}

	// --- Metrics ---
	if cfg.MetricsCollector != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	// --- API v1 ---
	api := r.Group("/api/v1")
	api.Use(middleware.BodyLimit(cfg.MaxBodySize))
	if cfg.AnnotateHandler != nil {
		api.POST("/annotate", cfg.AnnotateHandler.Annotate)
	}

	return r
}

//Personal.AI order the ending
