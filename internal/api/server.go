package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/diabetes-risk-server/internal/domain"
	"github.com/diabetes-risk-server/internal/middleware"
	"github.com/diabetes-risk-server/internal/service"
)

// Server represents the HTTP server
type Server struct {
	configManager domain.ConfigManager
	logger        *logrus.Logger
	handler       *Handler
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(configManager domain.ConfigManager, logger *logrus.Logger, assessor *service.AssessorService) (*Server, error) {
	cfg := configManager.GetConfig()

	// Set Gin mode based on environment
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	cacheSize := 0
	if cfg.Cache.Enabled {
		cacheSize = cfg.Cache.Size
	}
	handler, err := NewHandler(logger, assessor, cacheSize, cfg.Security.MaxBatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create API handler: %w", err)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(cfg.Security.AllowedOrigins))
	router.Use(middleware.CorrelationID())

	server := &Server{
		configManager: configManager,
		logger:        logger,
		handler:       handler,
		router:        router,
	}
	server.setupRoutes(&cfg.Security)

	return server, nil
}

// setupRoutes configures the API routes. Health is open; the assessment
// surface sits behind API-key auth and per-route rate limits.
func (s *Server) setupRoutes(security *domain.SecurityConfig) {
	s.router.GET("/health", s.handler.handleHealth)

	authed := s.router.Group("/", middleware.APIKeyAuth(security.APIKey))
	authed.POST("/predict", middleware.RateLimit(security.PredictPerMinute), s.handler.handlePredict)
	authed.POST("/batch_predict", middleware.RateLimit(security.BatchPerMinute), s.handler.handleBatchPredict)
	authed.GET("/model/info", s.handler.handleModelInfo)
}

// Start starts the HTTP server and blocks until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
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
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// Router exposes the underlying router for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
