// internal/app/run.go
package app

import (
	"context"
	"fmt"

	"mes-report/internal/common/config"
	apperrors "mes-report/internal/common/errors"
	"mes-report/internal/common/logger"
	"mes-report/internal/mes"
	"mes-report/internal/report"
	"mes-report/internal/serial"
)

// App sequences a single run: read serial, fetch record, merge template,
// write outputs. Any returned error is terminal.
type App struct {
	config *config.Config
	logger logger.Logger
	client *mes.Client
	merger *report.Merger
	writer *report.Writer
}

func New(cfg *config.Config, log logger.Logger) *App {
	return &App{
		config: cfg,
		logger: log,
		client: mes.NewClient(mes.LoadConfig(cfg), log),
		merger: report.NewMerger(),
		writer: report.NewWriter(log),
	}
}

// Run executes the pipeline. The raw dump write is the only non-fatal step:
// its failure is logged and the run still succeeds.
func (a *App) Run(ctx context.Context) error {
	sn, err := serial.Read(a.config.SerialPath, a.logger)
	if err != nil {
		return err
	}

	resp, err := a.client.Fetch(ctx, sn)
	if err != nil {
		return err
	}

	templateLines := report.LoadTemplate(a.config.TemplatePath, a.logger)
	merged := a.merger.Merge(templateLines, resp.Data)

	if err := a.writer.WriteReport(a.config.OutputPath, merged); err != nil {
		return err
	}

	if err := a.writer.WriteRawDump(a.config.RawOutputPath, resp.RawBody); err != nil {
		a.logger.Warn("continuing despite raw dump failure", map[string]interface{}{
			"error": err.Error(),
		})
	}

	a.logger.Info("tool execution finished", nil)
	return nil
}

// UserMessage maps a terminal error to the single string shown to the
// operator.
func UserMessage(err error) string {
	stdErr, ok := err.(*apperrors.StandardError)
	if !ok {
		return err.Error()
	}

	switch stdErr.Code {
	case apperrors.ErrCodeConfigInvalid:
		return "Failed to load configuration, please check the log."
	case apperrors.ErrCodeSerialReadFailed:
		return "Failed to load SN configuration, please check the log."
	case apperrors.ErrCodeMESUnavailable:
		url, _ := stdErr.Metadata["url"].(string)
		return fmt.Sprintf("Could not connect to MES system.\nURL: %s\nPlease check the network connection or contact IT personnel.", url)
	case apperrors.ErrCodeReportWriteFailed:
		path, _ := stdErr.Metadata["path"].(string)
		return fmt.Sprintf("Could not write to output file '%s'.", path)
	default:
		return stdErr.Message
	}
}
