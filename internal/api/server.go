// Package api exposes the reconciliation service over HTTP for the
// interactive surface: source upload + reconcile, catalog teaching, run
// history and aggregate stats.
package api

import (
	"fmt"
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/conciliador/internal/config"
	"github.com/eshaffer321/conciliador/internal/service"
	"github.com/eshaffer321/conciliador/internal/storage"
)

// Server is the HTTP API server.
type Server struct {
	cfg    config.APIConfig
	svc    *service.ReconcileService
	store  *storage.Storage // nil disables run endpoints
	logger *slog.Logger
	engine *gin.Engine
}

// NewServer creates the API server and registers all routes.
func NewServer(cfg config.APIConfig, svc *service.ReconcileService, store *storage.Storage, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	s := &Server{
		cfg:    cfg,
		svc:    svc,
		store:  store,
		logger: logger,
		engine: engine,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api")
	{
		api.POST("/reconcile", s.handleReconcile)
		api.GET("/catalog", s.handleGetCatalog)
		api.PUT("/catalog", s.handlePutCatalog)

		if s.store != nil {
			api.GET("/runs", s.handleListRuns)
			api.GET("/stats", s.handleStats)
		}
	}
}

// Run starts the server on the configured port and blocks.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info("api server listening", slog.String("addr", addr))
	return s.engine.Run(addr)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() *gin.Engine {
	return s.engine
}
