// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Limits    LimitsConfig    `yaml:"limits" mapstructure:"limits"`
	Retry     RetryConfig     `yaml:"retry" mapstructure:"retry"`
	Breaker   BreakerConfig   `yaml:"breaker" mapstructure:"breaker"`
	History   HistoryConfig   `yaml:"history" mapstructure:"history"`
	Locale    string          `yaml:"locale" mapstructure:"locale"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds vision model API settings.
type AnthropicConfig struct {
	Key               string  `yaml:"key" mapstructure:"key"`
	Model             string  `yaml:"model" mapstructure:"model"`
	MaxTokens         int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	CallTimeoutSecs   int     `yaml:"call_timeout_secs" mapstructure:"call_timeout_secs"`
	RequestsPerMinute float64 `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// LimitsConfig holds the two independent upload size limits. The API
// boundary accepts up to MaxImageBytes; the upload boundary in front of
// it enforces the stricter MaxUploadBytes.
type LimitsConfig struct {
	MaxImageBytes  int64 `yaml:"max_image_bytes" mapstructure:"max_image_bytes"`
	MaxUploadBytes int64 `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
}

// RetryConfig configures backoff around the vision call.
type RetryConfig struct {
	MaxAttempts int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	BaseDelayMS int     `yaml:"base_delay_ms" mapstructure:"base_delay_ms"`
	MaxDelayMS  int     `yaml:"max_delay_ms" mapstructure:"max_delay_ms"`
	Multiplier  float64 `yaml:"multiplier" mapstructure:"multiplier"`
}

// BreakerConfig configures the circuit breaker guarding the vision
// endpoint.
type BreakerConfig struct {
	FailureThreshold    int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	RecoveryTimeoutSecs int `yaml:"recovery_timeout_secs" mapstructure:"recovery_timeout_secs"`
}

// HistoryConfig bounds the in-memory scan history.
type HistoryConfig struct {
	Capacity int `yaml:"capacity" mapstructure:"capacity"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PRICESCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("anthropic.call_timeout_secs", 30)
	v.SetDefault("anthropic.requests_per_minute", 30)
	v.SetDefault("limits.max_image_bytes", 10<<20)
	v.SetDefault("limits.max_upload_bytes", 5<<20)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.base_delay_ms", 1000)
	v.SetDefault("retry.max_delay_ms", 30000)
	v.SetDefault("retry.multiplier", 1.5)
	v.SetDefault("breaker.failure_threshold", 5)
	v.SetDefault("breaker.recovery_timeout_secs", 60)
	v.SetDefault("history.capacity", 50)
	v.SetDefault("locale", "en-US")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
