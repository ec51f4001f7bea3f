package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	manager, err := NewManager()
	require.NoError(t, err)
	return manager
}

func TestDefaults(t *testing.T) {
	manager := newTestManager(t)
	config := manager.GetConfig()

	assert.Equal(t, 5000, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, []string{"diabetes_model_improved.json", "diabetes_model.json"}, config.Model.Paths)
	assert.True(t, config.Model.BreakerEnabled)
	assert.Empty(t, config.Security.APIKey)
	assert.Equal(t, 20, config.Security.PredictPerMinute)
	assert.Equal(t, 5, config.Security.BatchPerMinute)
	assert.Equal(t, 100, config.Security.MaxBatchSize)
	assert.True(t, config.Cache.Enabled)
	assert.Equal(t, 512, config.Cache.Size)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "json", config.Logging.Format)
}

func TestDefaultsValidate(t *testing.T) {
	manager := newTestManager(t)
	assert.NoError(t, manager.Validate())
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("DIABETES_RISK_SERVER_PORT", "8080")
	t.Setenv("DIABETES_RISK_SECURITY_API_KEY", "test-key")

	manager := newTestManager(t)
	config := manager.GetConfig()

	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "test-key", config.Security.APIKey)
}

func TestValidateRejectsBadValues(t *testing.T) {
	manager := newTestManager(t)

	manager.config.Server.Port = 0
	assert.Error(t, manager.Validate())
	manager.config.Server.Port = 5000

	manager.config.Model.Paths = nil
	assert.Error(t, manager.Validate())
	manager.config.Model.Paths = []string{"model.json"}

	manager.config.Security.PredictPerMinute = 0
	assert.Error(t, manager.Validate())
	manager.config.Security.PredictPerMinute = 20

	manager.config.Logging.Level = "verbose"
	assert.Error(t, manager.Validate())
}

func TestIsDevelopmentByDefault(t *testing.T) {
	manager := newTestManager(t)
	assert.True(t, manager.IsDevelopment())
	assert.False(t, manager.IsProduction())
}
