package config

import (
	"os"
	"time"
)

// Default values for configuration.
const (
	DefaultFormat         = "text"
	DefaultLogLevel       = "warn"
	DefaultServerAddr     = ":8080"
	DefaultMaxUploadBytes = 20 << 20
	DefaultReadTimeout    = 30 * time.Second
	DefaultConcurrency    = 4
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvOutputFormat = "CHATLENS_OUTPUT_FORMAT"
	EnvLogLevel     = "CHATLENS_LOG_LEVEL"
	EnvServerAddr   = "CHATLENS_SERVER_ADDR"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format: DefaultFormat,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
		Server: ServerConfig{
			Addr:           DefaultServerAddr,
			MaxUploadBytes: DefaultMaxUploadBytes,
			ReadTimeout:    DefaultReadTimeout,
		},
		Analysis: AnalysisConfig{
			Concurrency: DefaultConcurrency,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if format := os.Getenv(EnvOutputFormat); format != "" {
		c.Output.Format = format
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
	if addr := os.Getenv(EnvServerAddr); addr != "" {
		c.Server.Addr = addr
	}
}
