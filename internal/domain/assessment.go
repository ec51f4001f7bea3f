package domain

// ClassProbabilities holds the classifier's per-class probabilities as
// percentages in [0,100]. Key names are part of the response contract.
type ClassProbabilities struct {
	NoDiabetes float64 `json:"no_diabetes"`
	Diabetes   float64 `json:"diabetes"`
}

// FeatureWeight is one entry of the feature-importance ranking.
type FeatureWeight struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// RawPrediction is the output of the classifier boundary: the predicted
// label, per-class probabilities, the classifier's own confidence (the
// max class probability), and feature importances sorted descending by
// weight.
type RawPrediction struct {
	Label             int                `json:"prediction"`
	Probabilities     ClassProbabilities `json:"probabilities"`
	Confidence        float64            `json:"confidenceScore"`
	FeatureImportance []FeatureWeight    `json:"featureImportance"`
}

// MetricInsight is the display classification of a single clinical
// metric.
type MetricInsight struct {
	Status     InsightStatus `json:"status"`
	Label      string        `json:"label"`
	ValueLabel string        `json:"valueLabel"`
	Message    string        `json:"message"`
}

// AssessmentResult is the engine's complete output for one patient.
//
// Invariants: RiskScore lies in [0,100]; ConfidenceScore lies in
// [60,99.5]; RiskCategory is a pure function of RiskScore;
// Recommendations holds at most 8 entries; MetricInsights has an entry
// only for metrics with a present reading.
type AssessmentResult struct {
	RiskScore         float64                  `json:"riskScore"`
	RiskCategory      RiskCategory             `json:"riskCategory"`
	ConfidenceScore   float64                  `json:"confidenceScore"`
	Prediction        int                      `json:"prediction"`
	Probabilities     ClassProbabilities       `json:"probabilities"`
	FeatureImportance []FeatureWeight          `json:"featureImportance"`
	Recommendations   []string                 `json:"recommendations"`
	MetricInsights    map[string]MetricInsight `json:"metricInsights"`
}

// ModelInfo describes the loaded classifier for the /model/info surface.
type ModelInfo struct {
	ModelType         string          `json:"model_type"`
	Features          []string        `json:"features"`
	FeatureImportance []FeatureWeight `json:"feature_importance"`
	Version           string          `json:"version"`
}
