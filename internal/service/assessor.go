package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/diabetes-risk-server/internal/domain"
)

// requiredFields enumerates the measurement fields a request must carry,
// in the order they are reported back when missing.
var requiredFields = []string{
	"age", "bmi", "glucose", "bloodPressure",
	"insulin", "skinThickness", "pregnancies", "familyHistory",
}

// AssessorService sequences the post-processing pipeline around the
// classifier boundary. The classifier is the only external collaborator;
// it is wrapped in a circuit breaker so a misbehaving model artifact
// degrades to ModelUnavailable instead of hanging every request.
type AssessorService struct {
	logger         *logrus.Logger
	predictor      domain.Predictor
	breaker        *gobreaker.CircuitBreaker
	predictTimeout time.Duration
}

// NewAssessorService creates a new assessor service. predictor may be
// nil when no model artifact was found at startup; Assess then fails
// with ModelUnavailable. predictTimeout bounds a single classifier
// call; zero disables the bound.
func NewAssessorService(logger *logrus.Logger, predictor domain.Predictor, breakerEnabled bool, predictTimeout time.Duration) *AssessorService {
	s := &AssessorService{
		logger:         logger,
		predictor:      predictor,
		predictTimeout: predictTimeout,
	}
	if breakerEnabled {
		s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "Classifier",
			MaxRequests: 5,
			Interval:    30 * time.Second,
			Timeout:     60 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.WithFields(logrus.Fields{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Warn("Classifier circuit breaker state changed")
			},
		})
	}
	return s
}

// Assess runs the full scoring pipeline for one patient: classifier
// prediction, contextual adjustment, categorization, confidence
// calibration, metric insights and recommendation synthesis.
//
// Fails with ModelUnavailableError when no classifier is loaded and
// with ValidationError when required measurement fields are absent;
// validation runs before any computation. The rule stages themselves
// never fail — missing optional signals degrade gracefully.
func (s *AssessorService) Assess(ctx context.Context, m *domain.PatientMeasurement, flags *domain.ContextFlags) (*domain.AssessmentResult, error) {
	if s.predictor == nil {
		return nil, &domain.ModelUnavailableError{Reason: "no classifier loaded"}
	}
	if err := validateRequired(m); err != nil {
		return nil, err
	}

	flags.Normalize()

	prediction, err := s.predict(ctx, m)
	if err != nil {
		return nil, err
	}

	baseScore := prediction.Probabilities.Diabetes
	adjustedScore, healthyIndicators := ApplyContextualAdjustments(baseScore, m, flags)
	category := CategorizeRisk(adjustedScore)
	confidence := CalibrateConfidence(prediction.Confidence, healthyIndicators, adjustedScore)

	result := &domain.AssessmentResult{
		RiskScore:         round2(adjustedScore),
		RiskCategory:      category,
		ConfidenceScore:   round2(confidence),
		Prediction:        prediction.Label,
		Probabilities:     prediction.Probabilities,
		FeatureImportance: prediction.FeatureImportance,
		Recommendations:   SynthesizeRecommendations(m, adjustedScore, flags),
		MetricInsights:    BuildMetricInsights(m),
	}

	s.logger.WithFields(logrus.Fields{
		"base_score":         baseScore,
		"adjusted_score":     result.RiskScore,
		"risk_category":      result.RiskCategory,
		"confidence":         result.ConfidenceScore,
		"healthy_indicators": healthyIndicators,
		"recommendations":    len(result.Recommendations),
		"mode":               flags.Mode(),
	}).Info("Completed risk assessment")

	return result, nil
}

// predict calls the classifier boundary, through the breaker when one
// is configured.
func (s *AssessorService) predict(ctx context.Context, m *domain.PatientMeasurement) (*domain.RawPrediction, error) {
	features := m.FeatureVector()

	if s.predictTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.predictTimeout)
		defer cancel()
	}

	if s.breaker == nil {
		prediction, err := s.predictor.Predict(ctx, features)
		if err != nil {
			return nil, fmt.Errorf("classifier prediction failed: %w", err)
		}
		return prediction, nil
	}

	raw, err := s.breaker.Execute(func() (interface{}, error) {
		return s.predictor.Predict(ctx, features)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, &domain.ModelUnavailableError{Reason: "classifier circuit open"}
	}
	if err != nil {
		return nil, fmt.Errorf("classifier prediction failed: %w", err)
	}
	return raw.(*domain.RawPrediction), nil
}

// ModelInfo exposes the loaded classifier's description, or
// ModelUnavailableError when none is loaded.
func (s *AssessorService) ModelInfo() (*domain.ModelInfo, error) {
	if s.predictor == nil {
		return nil, &domain.ModelUnavailableError{}
	}
	return s.predictor.Info(), nil
}

// ModelLoaded reports whether a classifier is available.
func (s *AssessorService) ModelLoaded() bool {
	return s.predictor != nil
}

func validateRequired(m *domain.PatientMeasurement) error {
	present := map[string]bool{
		"age":           m.Age != nil,
		"bmi":           m.BMI != nil,
		"glucose":       m.Glucose != nil,
		"bloodPressure": m.BloodPressure != nil,
		"insulin":       m.Insulin != nil,
		"skinThickness": m.SkinThickness != nil,
		"pregnancies":   m.Pregnancies != nil,
		"familyHistory": m.FamilyHistory != nil,
	}
	var missing []string
	for _, field := range requiredFields {
		if !present[field] {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return domain.NewValidationError(missing...)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
