// cmd/mes-report/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mes-report/internal/app"
	"mes-report/internal/common/config"
	apperrors "mes-report/internal/common/errors"
	"mes-report/internal/common/logger"
	"mes-report/internal/present"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := "config.ini"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, cfgErr := config.LoadFromFile(configPath)

	// Logging must come up even when config loading failed, so the failure
	// itself lands in the log file.
	logDir := "./log/"
	level, format := "info", "console"
	if cfg != nil {
		logDir = cfg.LogPath
		level = cfg.Logging.Level
		format = cfg.Logging.Format
	}
	zapLog := newRunLogger(logDir, level, format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"runId": uuid.NewString(),
	})
	log.Info("--- MES Tool ---", map[string]interface{}{
		"version": version,
	})

	presenter := present.Detect(log)

	if cfgErr != nil {
		log.Error("config load failed", map[string]interface{}{
			"path":  configPath,
			"error": cfgErr.Error(),
		})
		err := apperrors.NewConfigInvalidError(cfgErr.Error())
		presenter.ShowError("Connection Failed", app.UserMessage(err))
		return exitFailure
	}
	log.Info("configuration loaded successfully", map[string]interface{}{
		"path": configPath,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.New(cfg, log).Run(ctx); err != nil {
		if ctx.Err() != nil || apperrors.CodeOf(err) == apperrors.ErrCodeInterrupted {
			log.Warn("program interrupted by user, exiting gracefully", nil)
			return exitInterrupted
		}
		log.Error("run failed", map[string]interface{}{
			"error": err.Error(),
		})
		presenter.ShowError("Connection Failed", app.UserMessage(err))
		return exitFailure
	}

	return exitOK
}

// newRunLogger creates the per-run console+file logger, degrading to a
// console-only logger when the log directory cannot be used.
func newRunLogger(logDir, level, format string) *zap.Logger {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory %s: %v\n", logDir, err)
		return logger.New(level, format)
	}

	logFile := filepath.Join(logDir, fmt.Sprintf("debug_%s.log", time.Now().Format("20060102_150405")))
	zapLog, err := logger.NewWithFile(level, format, logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file %s: %v\n", logFile, err)
		return logger.New(level, format)
	}
	return zapLog
}
