// internal/common/config/config.go
package config

import "time"

// Config is the fully resolved tool configuration. It is produced once at
// startup and treated as read-only afterwards.
type Config struct {
	// Required.
	MESServer  string `mapstructure:"mes_server"`
	MESAPI     string `mapstructure:"mes_api"`
	SerialPath string `mapstructure:"mb_sn_path"`

	// Optional, with documented defaults.
	RetryCount     int    `mapstructure:"retry_count"`
	RetryDelay     int    `mapstructure:"retry_delay_seconds"`
	TemplatePath   string `mapstructure:"template_path"`
	OutputPath     string `mapstructure:"output_path"`
	RawOutputPath  string `mapstructure:"raw_output_path"`
	LogPath        string `mapstructure:"log_path"`
	RequestTimeout int    `mapstructure:"request_timeout_seconds"`

	Logging LoggingConfig `mapstructure:",squash"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"log_level"`
	Format string `mapstructure:"log_format"`
}

// RetryDelayDuration returns the inter-attempt sleep.
func (c *Config) RetryDelayDuration() time.Duration {
	return time.Duration(c.RetryDelay) * time.Second
}

// RequestTimeoutDuration returns the per-request network timeout.
func (c *Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}
