package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/diabetes-risk-server/internal/api"
	"github.com/diabetes-risk-server/internal/config"
	"github.com/diabetes-risk-server/internal/domain"
	"github.com/diabetes-risk-server/internal/model"
	"github.com/diabetes-risk-server/internal/service"
)

func main() {
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
	logger := newLogger(cfg.Logging.Level, cfg.Logging.Format)

	// Load the classifier. A missing artifact is not fatal: the server
	// starts and the assessment endpoints answer MODEL_UNAVAILABLE
	// until a model is trained and saved.
	var predictor *model.EnsemblePredictor
	predictor, err = model.Load(logger, cfg.Model.Paths)
	if err != nil {
		logger.WithError(err).Warn("Starting without a loaded model")
		predictor = nil
	}

	assessor := service.NewAssessorService(logger, predictorOrNil(predictor), cfg.Model.BreakerEnabled, cfg.Model.PredictTimeout)

	server, err := api.NewServer(configManager, logger, assessor)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create server")
	}

	logger.WithFields(logrus.Fields{
		"host":         cfg.Server.Host,
		"port":         cfg.Server.Port,
		"model_loaded": predictor != nil,
		"api_key_set":  cfg.Security.APIKey != "",
	}).Info("Starting diabetes risk assessment server")

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

// predictorOrNil avoids handing a typed nil pointer to the assessor's
// interface field.
func predictorOrNil(p *model.EnsemblePredictor) domain.Predictor {
	if p == nil {
		return nil
	}
	return p
}

func newLogger(level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	if strings.ToLower(format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}
