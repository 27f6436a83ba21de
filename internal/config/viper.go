// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override, e.g. GESTOR_LOG_LEVEL.
const EnvPrefix = "GESTOR"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	AI struct {
		Enabled        bool    `mapstructure:"enabled" yaml:"enabled"`
		Model          string  `mapstructure:"model" yaml:"model"`
		TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		Temperature    float32 `mapstructure:"temperature" yaml:"temperature"`
		MaxTokens      int32   `mapstructure:"max_tokens" yaml:"max_tokens"`
		APIKey         string  `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`

	Validation struct {
		MaxAgeYears      int    `mapstructure:"max_age_years" yaml:"max_age_years"`
		MaxFutureDays    int    `mapstructure:"max_future_days" yaml:"max_future_days"`
		SuspiciousAmount string `mapstructure:"suspicious_amount" yaml:"suspicious_amount"`
		MinAmount        string `mapstructure:"min_amount" yaml:"min_amount"`
	} `mapstructure:"validation" yaml:"validation"`

	Upload struct {
		MaxDocumentMB int           `mapstructure:"max_document_mb" yaml:"max_document_mb"`
		MaxBatchFiles int           `mapstructure:"max_batch_files" yaml:"max_batch_files"`
		BatchDelay    time.Duration `mapstructure:"batch_delay" yaml:"batch_delay"`
	} `mapstructure:"upload" yaml:"upload"`

	Taxonomy struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"taxonomy" yaml:"taxonomy"`

	Export struct {
		CSVDelimiter string `mapstructure:"csv_delimiter" yaml:"csv_delimiter"`
	} `mapstructure:"export" yaml:"export"`

	Server struct {
		Address string `mapstructure:"address" yaml:"address"`
		Mode    string `mapstructure:"mode" yaml:"mode"`
	} `mapstructure:"server" yaml:"server"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then config.yaml, then GESTOR_* environment variables.
// A non-empty configFile replaces the search path and must exist.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.gestor")
		v.AddConfigPath(".gestor")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Read config file (optional unless explicitly given)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 5. The API key keeps its conventional unprefixed name
	if err := v.BindEnv("ai.api_key", EnvPrefix+"_AI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration built from defaults alone.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// AI defaults
	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout_seconds", 60)
	v.SetDefault("ai.temperature", 0.1)
	v.SetDefault("ai.max_tokens", 500)
	v.SetDefault("ai.api_key", "")

	// Validation defaults
	v.SetDefault("validation.max_age_years", 2)
	v.SetDefault("validation.max_future_days", 1)
	v.SetDefault("validation.suspicious_amount", "500000")
	v.SetDefault("validation.min_amount", "0.01")

	// Upload defaults
	v.SetDefault("upload.max_document_mb", 4)
	v.SetDefault("upload.max_batch_files", 10)
	v.SetDefault("upload.batch_delay", 2*time.Second)

	v.SetDefault("taxonomy.file", "")
	v.SetDefault("export.csv_delimiter", ",")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "release")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len([]rune(config.Export.CSVDelimiter)) != 1 {
		return fmt.Errorf("export.csv_delimiter must be a single character, got: %q", config.Export.CSVDelimiter)
	}

	if config.AI.Enabled {
		if config.AI.Model == "" {
			return fmt.Errorf("ai.model must not be empty when AI is enabled")
		}
		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}
		if config.AI.Temperature < 0 || config.AI.Temperature > 2 {
			return fmt.Errorf("ai.temperature must be between 0 and 2, got: %v", config.AI.Temperature)
		}
		if config.AI.MaxTokens < 1 {
			return fmt.Errorf("ai.max_tokens must be positive, got: %d", config.AI.MaxTokens)
		}
	}

	if config.Validation.MaxAgeYears < 1 || config.Validation.MaxAgeYears > 20 {
		return fmt.Errorf("validation.max_age_years must be between 1 and 20, got: %d", config.Validation.MaxAgeYears)
	}
	if config.Validation.MaxFutureDays < 0 {
		return fmt.Errorf("validation.max_future_days must not be negative, got: %d", config.Validation.MaxFutureDays)
	}
	minAmount, err := decimal.NewFromString(config.Validation.MinAmount)
	if err != nil || !minAmount.IsPositive() {
		return fmt.Errorf("validation.min_amount must be a positive number, got: %q", config.Validation.MinAmount)
	}
	suspicious, err := decimal.NewFromString(config.Validation.SuspiciousAmount)
	if err != nil || suspicious.LessThanOrEqual(minAmount) {
		return fmt.Errorf("validation.suspicious_amount must be a number above min_amount, got: %q", config.Validation.SuspiciousAmount)
	}

	if config.Upload.MaxDocumentMB < 1 || config.Upload.MaxDocumentMB > 50 {
		return fmt.Errorf("upload.max_document_mb must be between 1 and 50, got: %d", config.Upload.MaxDocumentMB)
	}
	if config.Upload.MaxBatchFiles < 1 || config.Upload.MaxBatchFiles > 100 {
		return fmt.Errorf("upload.max_batch_files must be between 1 and 100, got: %d", config.Upload.MaxBatchFiles)
	}
	if config.Upload.BatchDelay < 0 {
		return fmt.Errorf("upload.batch_delay must not be negative, got: %s", config.Upload.BatchDelay)
	}

	if config.Server.Mode != "debug" && config.Server.Mode != "release" && config.Server.Mode != "test" {
		return fmt.Errorf("invalid server mode: %s (must be 'debug', 'release' or 'test')", config.Server.Mode)
	}

	return nil
}
