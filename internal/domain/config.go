package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Model    ModelConfig    `mapstructure:"model"`
	Security SecurityConfig `mapstructure:"security"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// ModelConfig locates the trained classifier. Paths are tried in order
// so an improved model can ship alongside the original artifact.
type ModelConfig struct {
	Paths          []string      `mapstructure:"paths"`
	PredictTimeout time.Duration `mapstructure:"predict_timeout"`
	BreakerEnabled bool          `mapstructure:"breaker_enabled"`
}

// SecurityConfig represents API-key auth, rate limits and CORS
type SecurityConfig struct {
	APIKey            string   `mapstructure:"api_key"`
	AllowedOrigins    []string `mapstructure:"allowed_origins"`
	PredictPerMinute  int      `mapstructure:"predict_per_minute"`
	BatchPerMinute    int      `mapstructure:"batch_per_minute"`
	MaxBatchSize      int      `mapstructure:"max_batch_size"`
}

// CacheConfig sizes the in-process assessment response cache
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Size    int  `mapstructure:"size"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
