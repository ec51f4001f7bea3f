package model

import (
	"context"

	"github.com/diabetes-risk-server/internal/domain"
)

// StubPredictor is a deterministic classifier for exercising the rule
// engine without a trained model. It always answers with the configured
// disease probability.
type StubPredictor struct {
	DiseaseProbability float64 // percent, in [0,100]
	Err                error   // returned verbatim when set
}

// Predict implements domain.Predictor.
func (s *StubPredictor) Predict(ctx context.Context, features []float64) (*domain.RawPrediction, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	label := 0
	if s.DiseaseProbability >= 50 {
		label = 1
	}
	return &domain.RawPrediction{
		Label: label,
		Probabilities: domain.ClassProbabilities{
			NoDiabetes: 100 - s.DiseaseProbability,
			Diabetes:   s.DiseaseProbability,
		},
		Confidence: max(s.DiseaseProbability, 100-s.DiseaseProbability),
		FeatureImportance: []domain.FeatureWeight{
			{Name: "glucose", Weight: 0.3},
			{Name: "bmi", Weight: 0.25},
			{Name: "age", Weight: 0.2},
			{Name: "diabetesPedigreeFunction", Weight: 0.15},
			{Name: "insulin", Weight: 0.1},
		},
	}, nil
}

// Info implements domain.Predictor.
func (s *StubPredictor) Info() *domain.ModelInfo {
	return &domain.ModelInfo{
		ModelType: "Deterministic Stub",
		Features:  []string{"pregnancies", "glucose", "bloodPressure", "skinThickness", "insulin", "bmi", "diabetesPedigreeFunction", "age"},
		Version:   "0.0",
	}
}
