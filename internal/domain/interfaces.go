package domain

import (
	"context"
)

// Predictor is the classifier boundary. Everything about how the
// classifier was trained is opaque; the engine only consumes this
// contract. Implementations must be safe for concurrent reads: the
// model is loaded once at process start and never mutated.
type Predictor interface {
	Predict(ctx context.Context, features []float64) (*RawPrediction, error)
	Info() *ModelInfo
}

// RiskAssessor orchestrates the post-processing pipeline: classifier
// call, contextual adjustment, categorization, confidence calibration,
// metric insights, and recommendation synthesis.
type RiskAssessor interface {
	Assess(ctx context.Context, measurement *PatientMeasurement, flags *ContextFlags) (*AssessmentResult, error)
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetModelConfig() *ModelConfig
	GetSecurityConfig() *SecurityConfig
	Validate() error
	IsProduction() bool
	IsDevelopment() bool
}
