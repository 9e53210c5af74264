// internal/report/writer.go
package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	apperrors "mes-report/internal/common/errors"
	"mes-report/internal/common/logger"
)

// Writer persists the two run artifacts. The processed report is fatal on
// failure; the raw dump is not.
type Writer struct {
	logger logger.Logger
}

func NewWriter(log logger.Logger) *Writer {
	return &Writer{logger: log}
}

// WriteReport writes the merged report lines to path, creating parent
// directories as needed.
func (w *Writer) WriteReport(path string, lines []string) error {
	if err := w.write(path, []byte(strings.Join(lines, ""))); err != nil {
		w.logger.Error("failed to write processed report", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return apperrors.NewReportWriteFailedError(path, err)
	}
	w.logger.Info("processed report written", map[string]interface{}{
		"path":  path,
		"lines": len(lines),
	})
	return nil
}

// WriteRawDump pretty-prints the success body with 4-space indentation.
// The body is re-indented, not re-serialized, so numeric literals, key order,
// and non-ASCII bytes stay exactly as the server sent them. A body that is
// not valid JSON is written verbatim instead.
func (w *Writer) WriteRawDump(path, rawBody string) error {
	content := []byte(rawBody)
	if pretty, ok := prettyJSON(rawBody); ok {
		content = pretty
	} else {
		w.logger.Warn("raw body is not valid JSON, dumping verbatim", map[string]interface{}{
			"path": path,
		})
	}

	if err := w.write(path, content); err != nil {
		w.logger.Error("failed to write raw dump", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return apperrors.NewRawDumpWriteFailedError(path, err)
	}
	w.logger.Info("raw dump written", map[string]interface{}{
		"path": path,
	})
	return nil
}

func (w *Writer) write(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, content, 0o644)
}

func prettyJSON(rawBody string) ([]byte, bool) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(rawBody), "", "    "); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}
