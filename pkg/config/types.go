// Package config handles loading and validating chatlens configuration files.
package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Output   OutputConfig    `yaml:"output"`
	Logging  LoggingConfig   `yaml:"logging"`
	Server   ServerConfig    `yaml:"server"`
	Analysis AnalysisConfig  `yaml:"analysis"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// OutputConfig sets report rendering defaults. Command-line flags win.
type OutputConfig struct {
	// Format is "text" or "json".
	Format string `yaml:"format"`

	// Color renders participant names in their palette colors (text only).
	Color bool `yaml:"color"`

	// Verbose adds parse counters and full tables to text output.
	Verbose bool `yaml:"verbose"`
}

// LoggingConfig controls diagnostic logging to stderr.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// ServerConfig configures the HTTP upload endpoint.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// MaxUploadBytes caps the size of an uploaded export.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// ReadTimeout bounds reading a whole request, body included.
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

// AnalysisConfig tunes batch analysis.
type AnalysisConfig struct {
	// Concurrency is how many exports the CLI analyzes at once.
	Concurrency int `yaml:"concurrency"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnSuccess fires only when a report was produced (default).
	WebhookTriggerOnSuccess WebhookTrigger = "on_success"
	// WebhookTriggerAlways fires after every analysis, failures included.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending analysis results.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	// ${VAR} and $VAR are expanded from the environment.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_success" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// DisplayName returns the webhook name, falling back to its URL.
func (w *WebhookConfig) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}
	return w.URL
}
