// internal/report/template.go
package report

import (
	"os"
	"strings"

	"mes-report/internal/common/logger"
)

// LoadTemplate reads the report template as a list of lines. A missing file
// is not an error: the merge degenerates to timestamp plus appended keys.
func LoadTemplate(path string, log logger.Logger) []string {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("template file not readable, using empty template", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return nil
	}

	lines := strings.SplitAfter(string(raw), "\n")
	// SplitAfter leaves a trailing empty element when the file ends with a newline.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	log.Info("template loaded", map[string]interface{}{
		"path":  path,
		"lines": len(lines),
	})
	return lines
}
