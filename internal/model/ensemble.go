// Package model loads and serves the trained diabetes classifier. The
// engine only consumes the Predictor contract; everything about how the
// model was trained lives outside this repository.
package model

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/diabetes-risk-server/internal/domain"
)

// treeNodes is one decision tree in flattened array form, as exported
// by the training pipeline: node i branches left when the feature value
// is at or below the threshold. Leaves have child index -1 and carry
// the per-class sample distribution.
type treeNodes struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// modelFile is the on-disk artifact: feature metadata, the imputation
// and scaling parameters applied before the trees, the forest itself,
// and the training-time feature importances.
type modelFile struct {
	ModelType         string             `json:"model_type"`
	Version           string             `json:"version"`
	FeatureNames      []string           `json:"feature_names"`
	ImputerMedians    []float64          `json:"imputer_medians"`
	ScalerMean        []float64          `json:"scaler_mean"`
	ScalerScale       []float64          `json:"scaler_scale"`
	FeatureImportance map[string]float64 `json:"feature_importance"`
	Trees             []treeNodes        `json:"trees"`
}

// EnsemblePredictor serves predictions from a tree ensemble averaged
// over its members. Safe for concurrent use: the model is immutable
// after loading.
type EnsemblePredictor struct {
	logger     *logrus.Logger
	file       *modelFile
	importance []domain.FeatureWeight
}

// Load reads the first readable model artifact from paths. Returns
// ModelUnavailableError when none can be loaded, so the server can
// still start and answer health checks.
func Load(logger *logrus.Logger, paths []string) (*EnsemblePredictor, error) {
	var lastErr error
	for _, path := range paths {
		predictor, err := loadFile(logger, path)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.WithError(err).WithField("path", path).Warn("Failed to load model artifact")
			}
			lastErr = err
			continue
		}
		logger.WithFields(logrus.Fields{
			"path":       path,
			"model_type": predictor.file.ModelType,
			"version":    predictor.file.Version,
			"trees":      len(predictor.file.Trees),
		}).Info("Model loaded successfully")
		return predictor, nil
	}
	return nil, &domain.ModelUnavailableError{Reason: fmt.Sprintf("no model artifact found (tried %v): %v", paths, lastErr)}
}

func loadFile(logger *logrus.Logger, path string) (*EnsemblePredictor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	file := &modelFile{}
	if err := json.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("malformed model file %s: %w", path, err)
	}
	if err := validate(file); err != nil {
		return nil, fmt.Errorf("invalid model file %s: %w", path, err)
	}
	return &EnsemblePredictor{
		logger:     logger,
		file:       file,
		importance: rankImportance(file.FeatureImportance),
	}, nil
}

func validate(file *modelFile) error {
	n := len(file.FeatureNames)
	if n == 0 {
		return fmt.Errorf("no feature names")
	}
	if len(file.ImputerMedians) != n || len(file.ScalerMean) != n || len(file.ScalerScale) != n {
		return fmt.Errorf("preprocessing parameter length mismatch (features=%d)", n)
	}
	if len(file.Trees) == 0 {
		return fmt.Errorf("no trees")
	}
	for i, tree := range file.Trees {
		nodes := len(tree.Feature)
		if len(tree.ChildrenLeft) != nodes || len(tree.ChildrenRight) != nodes ||
			len(tree.Threshold) != nodes || len(tree.Value) != nodes {
			return fmt.Errorf("tree %d node array length mismatch", i)
		}
	}
	return nil
}

// Predict runs the feature vector through imputation, scaling and the
// ensemble vote, returning percentage-scale class probabilities.
func (p *EnsemblePredictor) Predict(ctx context.Context, features []float64) (*domain.RawPrediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(features) != len(p.file.FeatureNames) {
		return nil, fmt.Errorf("expected %d features, got %d", len(p.file.FeatureNames), len(features))
	}

	scaled := make([]float64, len(features))
	for i, v := range features {
		// Zero is the upstream sentinel for a missing reading.
		if v == 0 {
			v = p.file.ImputerMedians[i]
		}
		scale := p.file.ScalerScale[i]
		if scale == 0 {
			scale = 1
		}
		scaled[i] = (v - p.file.ScalerMean[i]) / scale
	}

	var noDisease, disease float64
	for _, tree := range p.file.Trees {
		p0, p1 := walkTree(&tree, scaled)
		noDisease += p0
		disease += p1
	}
	noDisease /= float64(len(p.file.Trees))
	disease /= float64(len(p.file.Trees))

	label := 0
	if disease >= 0.5 {
		label = 1
	}

	return &domain.RawPrediction{
		Label: label,
		Probabilities: domain.ClassProbabilities{
			NoDiabetes: noDisease * 100,
			Diabetes:   disease * 100,
		},
		Confidence:        max(noDisease, disease) * 100,
		FeatureImportance: p.importance,
	}, nil
}

// Info describes the loaded model.
func (p *EnsemblePredictor) Info() *domain.ModelInfo {
	return &domain.ModelInfo{
		ModelType:         p.file.ModelType,
		Features:          p.file.FeatureNames,
		FeatureImportance: p.importance,
		Version:           p.file.Version,
	}
}

// walkTree descends one tree to a leaf and returns the normalized
// two-class distribution there.
func walkTree(tree *treeNodes, features []float64) (float64, float64) {
	node := 0
	for tree.ChildrenLeft[node] >= 0 {
		feature := tree.Feature[node]
		if feature >= 0 && feature < len(features) && features[feature] <= tree.Threshold[node] {
			node = tree.ChildrenLeft[node]
		} else {
			node = tree.ChildrenRight[node]
		}
	}
	value := tree.Value[node]
	if len(value) < 2 {
		return 1, 0
	}
	total := value[0] + value[1]
	if total == 0 {
		return 0.5, 0.5
	}
	return value[0] / total, value[1] / total
}

// rankImportance orders feature importances descending by weight, ties
// broken by name for deterministic output.
func rankImportance(weights map[string]float64) []domain.FeatureWeight {
	ranked := make([]domain.FeatureWeight, 0, len(weights))
	for name, weight := range weights {
		ranked = append(ranked, domain.FeatureWeight{Name: name, Weight: weight})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Weight != ranked[j].Weight {
			return ranked[i].Weight > ranked[j].Weight
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}
