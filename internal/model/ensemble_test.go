package model

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// stumpModel builds a two-tree artifact that splits on glucose at 100
// mg/dL. Identity scaling keeps the expectations readable.
func stumpModel() map[string]any {
	stump := map[string]any{
		"children_left":  []int{1, -1, -1},
		"children_right": []int{2, -1, -1},
		"feature":        []int{1, -1, -1},
		"threshold":      []float64{100, 0, 0},
		"value":          [][]float64{{0, 0}, {8, 2}, {2, 8}},
	}
	return map[string]any{
		"model_type":      "Improved Ensemble (RF + GB)",
		"version":         "2.0",
		"feature_names":   []string{"pregnancies", "glucose", "bloodPressure", "skinThickness", "insulin", "bmi", "diabetesPedigreeFunction", "age"},
		"imputer_medians": []float64{3, 117, 72, 23, 30, 32, 0.37, 29},
		"scaler_mean":     []float64{0, 0, 0, 0, 0, 0, 0, 0},
		"scaler_scale":    []float64{1, 1, 1, 1, 1, 1, 1, 1},
		"feature_importance": map[string]float64{
			"glucose": 0.4, "bmi": 0.25, "age": 0.2, "insulin": 0.15,
		},
		"trees": []any{stump, stump},
	}
}

func writeModel(t *testing.T, content map[string]any) string {
	t.Helper()
	data, err := json.Marshal(content)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadMissingArtifact(t *testing.T) {
	_, err := Load(quietLogger(), []string{filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestLoadFallbackPath(t *testing.T) {
	path := writeModel(t, stumpModel())
	predictor, err := Load(quietLogger(), []string{"/nonexistent/improved.json", path})
	require.NoError(t, err)
	assert.Equal(t, "2.0", predictor.Info().Version)
}

func TestLoadRejectsMalformedArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	_, err := Load(quietLogger(), []string{path})
	require.Error(t, err)
}

func TestLoadRejectsInconsistentArtifact(t *testing.T) {
	content := stumpModel()
	content["scaler_mean"] = []float64{0, 0}
	path := writeModel(t, content)
	_, err := Load(quietLogger(), []string{path})
	require.Error(t, err)
}

func TestPredictSplitsOnGlucose(t *testing.T) {
	predictor, err := Load(quietLogger(), []string{writeModel(t, stumpModel())})
	require.NoError(t, err)

	high, err := predictor.Predict(context.Background(), []float64{1, 150, 70, 20, 10, 33, 0.3, 50})
	require.NoError(t, err)
	assert.Equal(t, 1, high.Label)
	assert.InDelta(t, 80, high.Probabilities.Diabetes, 0.001)
	assert.InDelta(t, 20, high.Probabilities.NoDiabetes, 0.001)
	assert.InDelta(t, 80, high.Confidence, 0.001)

	low, err := predictor.Predict(context.Background(), []float64{1, 85, 70, 20, 10, 22, 0.3, 30})
	require.NoError(t, err)
	assert.Equal(t, 0, low.Label)
	assert.InDelta(t, 20, low.Probabilities.Diabetes, 0.001)
}

func TestPredictImputesMissingReadings(t *testing.T) {
	predictor, err := Load(quietLogger(), []string{writeModel(t, stumpModel())})
	require.NoError(t, err)

	// Glucose 0 is the missing sentinel; the median (117) lands on the
	// high side of the stump.
	result, err := predictor.Predict(context.Background(), []float64{1, 0, 70, 20, 10, 22, 0.3, 30})
	require.NoError(t, err)
	assert.InDelta(t, 80, result.Probabilities.Diabetes, 0.001)
}

func TestPredictFeatureCountMismatch(t *testing.T) {
	predictor, err := Load(quietLogger(), []string{writeModel(t, stumpModel())})
	require.NoError(t, err)

	_, err = predictor.Predict(context.Background(), []float64{1, 2, 3})
	require.Error(t, err)
}

func TestFeatureImportanceRankedDescending(t *testing.T) {
	predictor, err := Load(quietLogger(), []string{writeModel(t, stumpModel())})
	require.NoError(t, err)

	importance := predictor.Info().FeatureImportance
	require.Len(t, importance, 4)
	assert.Equal(t, "glucose", importance[0].Name)
	for i := 1; i < len(importance); i++ {
		assert.GreaterOrEqual(t, importance[i-1].Weight, importance[i].Weight)
	}
}

func TestStubPredictorDeterministic(t *testing.T) {
	stub := &StubPredictor{DiseaseProbability: 60}

	first, err := stub.Predict(context.Background(), nil)
	require.NoError(t, err)
	second, err := stub.Predict(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, first.Label)
	assert.Equal(t, 60.0, first.Probabilities.Diabetes)
	assert.Equal(t, 60.0, first.Confidence)
}
