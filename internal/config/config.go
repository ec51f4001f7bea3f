package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/diabetes-risk-server/internal/domain"
)

// Manager implements the ConfigManager interface using Viper
type Manager struct {
	config *domain.Config
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/diabetes-risk-server/")

	viper.SetEnvPrefix("DIABETES_RISK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	m.setDefaults()

	// Config file is optional; defaults and env vars cover everything.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 5000)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// Model defaults: the improved artifact first, then the original.
	viper.SetDefault("model.paths", []string{"diabetes_model_improved.json", "diabetes_model.json"})
	viper.SetDefault("model.predict_timeout", "5s")
	viper.SetDefault("model.breaker_enabled", true)

	// Security defaults
	viper.SetDefault("security.api_key", "")
	viper.SetDefault("security.allowed_origins", []string{"*"})
	viper.SetDefault("security.predict_per_minute", 20)
	viper.SetDefault("security.batch_per_minute", 5)
	viper.SetDefault("security.max_batch_size", 100)

	// Cache defaults
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.size", 512)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetModelConfig returns model configuration
func (m *Manager) GetModelConfig() *domain.ModelConfig {
	return &m.config.Model
}

// GetSecurityConfig returns security configuration
func (m *Manager) GetSecurityConfig() *domain.SecurityConfig {
	return &m.config.Security
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if len(config.Model.Paths) == 0 {
		return fmt.Errorf("at least one model path is required")
	}
	if config.Security.PredictPerMinute <= 0 {
		return fmt.Errorf("invalid predict rate limit: %d", config.Security.PredictPerMinute)
	}
	if config.Security.BatchPerMinute <= 0 {
		return fmt.Errorf("invalid batch rate limit: %d", config.Security.BatchPerMinute)
	}
	if config.Security.MaxBatchSize <= 0 {
		return fmt.Errorf("invalid max batch size: %d", config.Security.MaxBatchSize)
	}
	if config.Cache.Enabled && config.Cache.Size <= 0 {
		return fmt.Errorf("invalid cache size: %d", config.Cache.Size)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// IsProduction returns true if running in production mode
func (m *Manager) IsProduction() bool {
	return strings.ToLower(viper.GetString("environment")) == "production"
}

// IsDevelopment returns true if running in development mode
func (m *Manager) IsDevelopment() bool {
	env := strings.ToLower(viper.GetString("environment"))
	return env == "development" || env == "dev" || env == ""
}
