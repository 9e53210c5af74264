// internal/mes/config.go
package mes

import (
	"time"

	"mes-report/internal/common/config"
)

type Config struct {
	Server         string
	APIPath        string
	RetryCount     int
	RetryDelay     time.Duration
	RequestTimeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Server:         cfg.MESServer,
		APIPath:        cfg.MESAPI,
		RetryCount:     cfg.RetryCount,
		RetryDelay:     cfg.RetryDelayDuration(),
		RequestTimeout: cfg.RequestTimeoutDuration(),
	}
}
