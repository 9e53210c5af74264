// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const iniSection = "global"

// Load reads config.ini from the usual locations: next to the executable,
// then the working directory.
func Load() (*Config, error) {
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), "config.ini")
		if _, err := os.Stat(candidate); err == nil {
			return LoadFromFile(candidate)
		}
	}
	return LoadFromFile("config.ini")
}

// LoadFromFile loads configuration from a specific ini file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	section := v.Sub(iniSection)
	if section == nil {
		return nil, fmt.Errorf("config file %s has no [Global] section", path)
	}

	var cfg Config
	if err := section.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	stripQuotes(&cfg)
	overrideFromEnv(&cfg)
	applyDefaults(section, &cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
	}
	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// stripQuotes removes surrounding quote characters that operators tend to
// leave in ini values.
func stripQuotes(cfg *Config) {
	trim := func(s string) string { return strings.Trim(s, `"' `) }

	cfg.MESServer = trim(cfg.MESServer)
	cfg.MESAPI = trim(cfg.MESAPI)
	cfg.SerialPath = trim(cfg.SerialPath)
	cfg.TemplatePath = trim(cfg.TemplatePath)
	cfg.OutputPath = trim(cfg.OutputPath)
	cfg.RawOutputPath = trim(cfg.RawOutputPath)
	cfg.LogPath = trim(cfg.LogPath)
}

// overrideFromEnv lets the environment win over the ini file for the values
// that differ between factory lines.
func overrideFromEnv(cfg *Config) {
	if val := os.Getenv("MES_SERVER"); val != "" {
		cfg.MESServer = val
	}
	if val := os.Getenv("MES_API"); val != "" {
		cfg.MESAPI = val
	}
	if val := os.Getenv("MB_SN_PATH"); val != "" {
		cfg.SerialPath = val
	}
}

// applyDefaults sets default values for optional keys the ini section does
// not set. An explicit value is always honored, so RETRY_DELAY_SECONDS = 0
// disables the inter-attempt sleep and RETRY_COUNT = 0 reaches validation
// instead of being coerced.
func applyDefaults(section *viper.Viper, cfg *Config) {
	if !section.IsSet("retry_count") {
		cfg.RetryCount = 3
	}
	if !section.IsSet("retry_delay_seconds") {
		cfg.RetryDelay = 5
	}
	if !section.IsSet("request_timeout_seconds") {
		cfg.RequestTimeout = 10
	}
	if cfg.TemplatePath == "" {
		cfg.TemplatePath = "MES_template.txt"
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = "MES.txt"
	}
	if cfg.RawOutputPath == "" {
		cfg.RawOutputPath = "MES_raw.json"
	}
	if cfg.LogPath == "" {
		cfg.LogPath = "./log/"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	if cfg.MESServer == "" {
		return fmt.Errorf("mes_server is required")
	}
	if cfg.MESAPI == "" {
		return fmt.Errorf("mes_api is required")
	}
	if cfg.SerialPath == "" {
		return fmt.Errorf("mb_sn_path is required")
	}
	if cfg.RetryCount < 1 {
		return fmt.Errorf("retry_count must be at least 1, got %d", cfg.RetryCount)
	}
	if cfg.RetryDelay < 0 {
		return fmt.Errorf("retry_delay_seconds must not be negative, got %d", cfg.RetryDelay)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive, got %d", cfg.RequestTimeout)
	}
	return nil
}
